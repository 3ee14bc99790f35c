package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"karat-desk/internal/domain"
)

var ErrRateNotFound = errors.New("no metal rate recorded")

// RateRepository stores operator-recorded metal rates
type RateRepository interface {
	Create(ctx context.Context, rate *domain.MetalRate) error
	Latest(ctx context.Context) (*domain.MetalRate, error)
}

type rateRepository struct {
	db *sql.DB
}

// NewRateRepository creates a new instance of RateRepository
func NewRateRepository(db *sql.DB) RateRepository {
	return &rateRepository{db: db}
}

// Create appends a rate; history is never rewritten
func (r *rateRepository) Create(ctx context.Context, rate *domain.MetalRate) error {
	query := `
		INSERT INTO metal_rates (id, rate_per_gram, note, recorded_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, rate.ID, rate.RatePerGram, rate.Note, rate.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to create metal rate: %w", err)
	}

	return nil
}

// Latest returns the most recently recorded rate
func (r *rateRepository) Latest(ctx context.Context) (*domain.MetalRate, error) {
	query := `
		SELECT id, rate_per_gram, note, recorded_at
		FROM metal_rates
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`

	rate := &domain.MetalRate{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&rate.ID,
		&rate.RatePerGram,
		&rate.Note,
		&rate.RecordedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to find latest metal rate: %w", err)
	}

	return rate, nil
}
