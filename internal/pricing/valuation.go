package pricing

import (
	"fmt"
	"sort"

	"karat-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateStockValuation values every in-stock product at rate and rolls the
// results up by category. Products without a category land in the
// domain.UncategorizedKey bucket.
//
// Each product's value is rounded to cents before it is added, so the rollups
// always sum to the totals and the totals match a direct pass over products.
// Rollups are ordered by stock value, highest first; equal values keep the
// order in which their categories were first seen.
func AggregateStockValuation(products []domain.Product, rate domain.RateSnapshot) ([]domain.CategoryStockValuation, domain.StockValuationTotals, error) {
	if !rate.RatePerGram.IsPositive() {
		return nil, domain.StockValuationTotals{}, domain.InvalidInput("rate_per_gram", "must be greater than zero")
	}

	index := make(map[string]int)
	rollups := []domain.CategoryStockValuation{}

	for _, product := range products {
		if product.Quantity <= 0 {
			continue
		}
		if product.WeightGrams.IsNegative() {
			return nil, domain.StockValuationTotals{}, domain.InvalidInput("weight_grams",
				fmt.Sprintf("product %s has a negative weight", product.ID))
		}

		key := CategoryKey(product.CategoryID)
		i, ok := index[key]
		if !ok {
			i = len(rollups)
			index[key] = i
			rollups = append(rollups, domain.CategoryStockValuation{
				CategoryKey: key,
				TotalWeight: decimal.Zero,
				StockValue:  decimal.Zero,
			})
		}

		weight := product.WeightGrams.Mul(decimal.NewFromInt(int64(product.Quantity)))

		r := &rollups[i]
		r.ItemCount++
		r.TotalQuantity += product.Quantity
		r.TotalWeight = r.TotalWeight.Add(weight)
		r.StockValue = r.StockValue.Add(stockValue(weight, rate.RatePerGram))
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].StockValue.GreaterThan(rollups[j].StockValue)
	})

	return rollups, SumRollups(rollups), nil
}

// SumRollups adds rollups element-wise
func SumRollups(rollups []domain.CategoryStockValuation) domain.StockValuationTotals {
	totals := domain.StockValuationTotals{
		TotalWeight:     decimal.Zero,
		TotalStockValue: decimal.Zero,
	}
	for _, r := range rollups {
		totals.TotalItems += r.ItemCount
		totals.TotalQuantity += r.TotalQuantity
		totals.TotalWeight = totals.TotalWeight.Add(r.TotalWeight)
		totals.TotalStockValue = totals.TotalStockValue.Add(r.StockValue)
	}
	return totals
}

// CategoryKey returns the rollup key for a product's category
func CategoryKey(categoryID *uuid.UUID) string {
	if categoryID == nil || *categoryID == uuid.Nil {
		return domain.UncategorizedKey
	}
	return categoryID.String()
}

func stockValue(weight, ratePerGram decimal.Decimal) decimal.Decimal {
	return roundMoney(weight.Mul(ratePerGram))
}
