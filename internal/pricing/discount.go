package pricing

import (
	"fmt"

	"karat-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// ApplyDiscount resolves spec against amount and returns the discounted amount,
// clamped to [0, amount]. Out-of-range input is rejected with
// domain.ErrInvalidDiscount rather than silently clamped.
func ApplyDiscount(amount decimal.Decimal, spec domain.DiscountSpec) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, domain.InvalidDiscount("amount", "must not be negative")
	}
	if spec.Value.IsNegative() {
		return decimal.Zero, domain.InvalidDiscount("discount.value", "must not be negative")
	}

	var discounted decimal.Decimal
	switch spec.Type {
	case domain.DiscountNone:
		if !spec.Value.IsZero() {
			return decimal.Zero, domain.InvalidDiscount("discount.type", "is required when a value is given")
		}
		return amount, nil
	case domain.DiscountFixed:
		discounted = amount.Sub(spec.Value)
	case domain.DiscountPercentage:
		if spec.Value.GreaterThan(hundred) {
			return decimal.Zero, domain.InvalidDiscount("discount.value", "percentage must be between 0 and 100")
		}
		discounted = percentOf(amount, hundred.Sub(spec.Value))
	default:
		return decimal.Zero, domain.InvalidDiscount("discount.type", fmt.Sprintf("unknown discount type %q", spec.Type))
	}

	// guards rounding noise at the boundaries only; range errors were rejected above
	return clamp(discounted, decimal.Zero, amount), nil
}
