package service

import (
	"context"
	"fmt"

	"karat-desk/internal/domain"
	"karat-desk/internal/pricing"
	"karat-desk/internal/repository"

	"github.com/google/uuid"
)

// StockValuationReport is a valuation pass and the rate it used
type StockValuationReport struct {
	Categories []domain.CategoryStockValuation `json:"categories"`
	Totals     domain.StockValuationTotals     `json:"totals"`
	Rate       domain.RateSnapshot             `json:"rate"`
}

// ValuationService values current stock at the live metal rate
type ValuationService interface {
	StockValuation(ctx context.Context) (*StockValuationReport, error)
}

type valuationService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	rates        RateReader
}

// NewValuationService creates a new instance of ValuationService
func NewValuationService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, rates RateReader) ValuationService {
	return &valuationService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		rates:        rates,
	}
}

// StockValuation rolls in-stock products up by category
func (s *valuationService) StockValuation(ctx context.Context) (*StockValuationReport, error) {
	live, err := s.rates.Snapshot()
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListInStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	rollups, totals, err := pricing.AggregateStockValuation(products, live)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryRepo.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category names: %w", err)
	}

	for i := range rollups {
		if rollups[i].CategoryKey == domain.UncategorizedKey {
			rollups[i].CategoryName = "Uncategorized"
			continue
		}
		if id, err := uuid.Parse(rollups[i].CategoryKey); err == nil {
			rollups[i].CategoryName = names[id]
		}
	}

	return &StockValuationReport{
		Categories: rollups,
		Totals:     totals,
		Rate:       live,
	}, nil
}
