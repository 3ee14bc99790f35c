package pricing

import (
	"time"

	"karat-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/shopspring/decimal"
)

// genCents generates money values with two decimal places between min and max cents
func genCents(min, max int64) gopter.Gen {
	return gen.Int64Range(min, max).Map(func(v int64) decimal.Decimal {
		return decimal.New(v, -2)
	})
}

// genGrams generates weights with milligram precision
func genGrams(minMg, maxMg int64) gopter.Gen {
	return gen.Int64Range(minMg, maxMg).Map(func(v int64) decimal.Decimal {
		return decimal.New(v, -3)
	})
}

func liveRate(rate decimal.Decimal) domain.RateSnapshot {
	return domain.RateSnapshot{
		RatePerGram: rate,
		ReadAt:      time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Source:      domain.RateSourceFeed,
	}
}

func weightProduct(weight, makingRate, taxPct decimal.Decimal) domain.Product {
	return domain.Product{
		ID:               uuid.New(),
		Name:             "Gold chain",
		WeightGrams:      weight,
		Quantity:         10,
		MakingChargeRate: makingRate,
		MakingChargeType: domain.MakingChargePerGram,
		TaxPercentage:    taxPct,
		PricingMode:      domain.PricingModeWeightBased,
		FlatSellingPrice: decimal.NewFromInt(999999),
	}
}

func flatProduct(price, makingCharge, taxPct decimal.Decimal) domain.Product {
	return domain.Product{
		ID:               uuid.New(),
		Name:             "Silver pendant",
		WeightGrams:      decimal.NewFromInt(7),
		Quantity:         3,
		MakingChargeRate: makingCharge,
		TaxPercentage:    taxPct,
		PricingMode:      domain.PricingModeFlatPrice,
		FlatSellingPrice: price,
	}
}

func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
