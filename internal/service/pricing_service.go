package service

import (
	"context"
	"errors"
	"fmt"

	"karat-desk/internal/clock"
	"karat-desk/internal/domain"
	"karat-desk/internal/pricing"
	"karat-desk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateReader supplies the live rate snapshot. *rate.Source implements it.
type RateReader interface {
	Snapshot() (domain.RateSnapshot, error)
}

// LineRequest asks for one product to be priced
type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int
	Discount  domain.DiscountSpec
	// ManualRate replaces the live rate for this line only. A value that
	// differs from the live rate needs ConfirmRateOverride.
	ManualRate          *decimal.Decimal
	ConfirmRateOverride bool
}

// InvoiceQuote is a priced invoice and the live snapshot it was priced with
type InvoiceQuote struct {
	Items  []domain.InvoiceItem `json:"items"`
	Totals domain.InvoiceTotals `json:"totals"`
	Rate   *domain.RateSnapshot `json:"rate,omitempty"`
}

// RateOverrideCheck is the outcome of comparing a proposed rate with the live one
type RateOverrideCheck struct {
	CurrentRate          domain.RateSnapshot `json:"current_rate"`
	ProposedRate         decimal.Decimal     `json:"proposed_rate"`
	RequiresConfirmation bool                `json:"requires_confirmation"`
}

// LineError ties a pricing failure to its position in the request
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// PricingService prices sales lines against catalog products and the live rate
type PricingService interface {
	PriceLineItem(ctx context.Context, req LineRequest) (*domain.InvoiceItem, error)
	QuoteInvoice(ctx context.Context, lines []LineRequest) (*InvoiceQuote, error)
	CheckRateOverride(ctx context.Context, proposed decimal.Decimal) (*RateOverrideCheck, error)
}

type pricingService struct {
	productRepo repository.ProductRepository
	rates       RateReader
	clock       clock.Clock
}

// NewPricingService creates a new instance of PricingService
func NewPricingService(productRepo repository.ProductRepository, rates RateReader, clk clock.Clock) PricingService {
	if clk == nil {
		clk = clock.New()
	}
	return &pricingService{
		productRepo: productRepo,
		rates:       rates,
		clock:       clk,
	}
}

// PriceLineItem prices a single line
func (s *pricingService) PriceLineItem(ctx context.Context, req LineRequest) (*domain.InvoiceItem, error) {
	quote, err := s.QuoteInvoice(ctx, []LineRequest{req})
	if err != nil {
		var lineErr *LineError
		if errors.As(err, &lineErr) {
			return nil, lineErr.Err
		}
		return nil, err
	}
	return &quote.Items[0], nil
}

// QuoteInvoice prices every line against one rate snapshot taken up front, so
// a refresh in the middle of the call never mixes rates within an invoice.
// Items come back in request order.
func (s *pricingService) QuoteInvoice(ctx context.Context, lines []LineRequest) (*InvoiceQuote, error) {
	if len(lines) == 0 {
		return nil, domain.InvalidInput("items", "at least one line is required")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	// Capture the live rate once for the whole invoice
	live, rateErr := s.rates.Snapshot()

	items := make([]domain.InvoiceItem, 0, len(lines))
	for i, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, &LineError{Index: i, Err: repository.ErrProductNotFound}
		}

		rate, err := s.lineRate(*product, line, live, rateErr)
		if err != nil {
			return nil, &LineError{Index: i, Err: err}
		}

		item, err := pricing.PriceLineItem(*product, line.Quantity, rate, line.Discount)
		if err != nil {
			return nil, &LineError{Index: i, Err: err}
		}
		items = append(items, item)
	}

	quote := &InvoiceQuote{
		Items:  items,
		Totals: pricing.AggregateInvoice(items),
	}
	if rateErr == nil {
		quote.Rate = &live
	}
	return quote, nil
}

// lineRate picks the snapshot a line is priced with
func (s *pricingService) lineRate(product domain.Product, line LineRequest, live domain.RateSnapshot, liveErr error) (domain.RateSnapshot, error) {
	if product.PricingMode == domain.PricingModeFlatPrice {
		return domain.RateSnapshot{}, nil
	}

	if line.ManualRate != nil {
		// an unusable rate is rejected before anyone is asked to confirm it
		if !line.ManualRate.IsPositive() {
			return domain.RateSnapshot{}, domain.InvalidInput("manual_rate", "must be greater than zero")
		}
		// without a live rate any manual rate is a deviation
		if liveErr != nil || pricing.NeedsRateOverrideConfirmation(live.RatePerGram, *line.ManualRate) {
			if !line.ConfirmRateOverride {
				return domain.RateSnapshot{}, domain.ErrRateOverrideUnconfirmed
			}
			return pricing.ManualRate(*line.ManualRate, s.clock.Now()), nil
		}
	}

	if liveErr != nil {
		return domain.RateSnapshot{}, liveErr
	}
	return live, nil
}

// CheckRateOverride compares proposed with the live rate
func (s *pricingService) CheckRateOverride(ctx context.Context, proposed decimal.Decimal) (*RateOverrideCheck, error) {
	if !proposed.IsPositive() {
		return nil, domain.InvalidInput("proposed_rate", "must be greater than zero")
	}

	live, err := s.rates.Snapshot()
	if err != nil {
		return nil, err
	}

	return &RateOverrideCheck{
		CurrentRate:          live,
		ProposedRate:         proposed,
		RequiresConfirmation: pricing.NeedsRateOverrideConfirmation(live.RatePerGram, proposed),
	}, nil
}
