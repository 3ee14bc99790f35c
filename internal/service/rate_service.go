package service

import (
	"context"
	"fmt"

	"karat-desk/internal/clock"
	"karat-desk/internal/domain"
	"karat-desk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateRefresher pulls the latest rate into the live source. *rate.Refresher implements it.
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// RateService records operator rates and exposes the live one
type RateService interface {
	RecordRate(ctx context.Context, ratePerGram decimal.Decimal, note string) (*domain.MetalRate, error)
	Current(ctx context.Context) (domain.RateSnapshot, error)
}

type rateService struct {
	rateRepo  repository.RateRepository
	rates     RateReader
	refresher RateRefresher
	clock     clock.Clock
}

// NewRateService creates a new instance of RateService. refresher may be nil;
// when set, a recorded rate is pulled into the live source immediately.
func NewRateService(rateRepo repository.RateRepository, rates RateReader, refresher RateRefresher, clk clock.Clock) RateService {
	if clk == nil {
		clk = clock.New()
	}
	return &rateService{
		rateRepo:  rateRepo,
		rates:     rates,
		refresher: refresher,
		clock:     clk,
	}
}

// RecordRate stores a new rate
func (s *rateService) RecordRate(ctx context.Context, ratePerGram decimal.Decimal, note string) (*domain.MetalRate, error) {
	if !ratePerGram.IsPositive() {
		return nil, domain.InvalidInput("rate_per_gram", "must be greater than zero")
	}

	rate := &domain.MetalRate{
		ID:          uuid.New(),
		RatePerGram: ratePerGram,
		Note:        note,
		RecordedAt:  s.clock.Now(),
	}

	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to record rate: %w", err)
	}

	if s.refresher != nil {
		// a failed refresh is retried on the next tick
		_ = s.refresher.Refresh(ctx)
	}

	return rate, nil
}

// Current returns the live snapshot
func (s *rateService) Current(ctx context.Context) (domain.RateSnapshot, error) {
	return s.rates.Snapshot()
}
