package pricing

import (
	"fmt"

	"karat-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// PriceLineItem prices quantity units of product.
//
// Weight-based products use rate for the base price and ignore the flat
// selling price. Flat-priced products ignore weight and rate entirely, so rate
// may be the zero snapshot for them.
//
// Base price, making charge and discounted making charge are computed at full
// precision and rounded to cents on output. The line total is the sum of the
// rounded base price and discounted making charge, and tax is taken on that
// line total, so a stored line item always reproduces its own totals. That sum
// can sit a cent above rounding the full-precision total, which is intended.
func PriceLineItem(product domain.Product, quantity int, rate domain.RateSnapshot, discount domain.DiscountSpec) (domain.InvoiceItem, error) {
	if quantity <= 0 {
		return domain.InvoiceItem{}, domain.InvalidInput("quantity", "must be greater than zero")
	}
	if product.WeightGrams.IsNegative() {
		return domain.InvoiceItem{}, domain.InvalidInput("weight_grams", "must not be negative")
	}
	if product.MakingChargeRate.IsNegative() {
		return domain.InvoiceItem{}, domain.InvalidInput("making_charge_rate", "must not be negative")
	}
	if product.TaxPercentage.IsNegative() {
		return domain.InvoiceItem{}, domain.InvalidInput("tax_percentage", "must not be negative")
	}

	qty := decimal.NewFromInt(int64(quantity))
	ratePerGram := decimal.Zero

	var base, making decimal.Decimal
	switch product.PricingMode {
	case domain.PricingModeWeightBased:
		if !rate.RatePerGram.IsPositive() {
			return domain.InvoiceItem{}, domain.InvalidInput("rate_per_gram", "must be greater than zero")
		}
		ratePerGram = rate.RatePerGram
		weight := product.WeightGrams.Mul(qty)
		base = weight.Mul(ratePerGram)

		switch product.MakingChargeType {
		case domain.MakingChargePerGram, "":
			making = product.MakingChargeRate.Mul(weight)
		case domain.MakingChargePerItem:
			making = product.MakingChargeRate.Mul(qty)
		default:
			return domain.InvoiceItem{}, domain.InvalidInput("making_charge_type",
				fmt.Sprintf("unknown making charge type %q", product.MakingChargeType))
		}
	case domain.PricingModeFlatPrice:
		if product.FlatSellingPrice.IsNegative() {
			return domain.InvoiceItem{}, domain.InvalidInput("flat_selling_price", "must not be negative")
		}
		base = product.FlatSellingPrice.Mul(qty)
		// a fixed product-level amount per piece, never derived from the rate
		making = product.MakingChargeRate.Mul(qty)
	default:
		return domain.InvoiceItem{}, domain.InvalidInput("pricing_mode",
			fmt.Sprintf("unknown pricing mode %q", product.PricingMode))
	}

	discounted, err := ApplyDiscount(making, discount)
	if err != nil {
		return domain.InvoiceItem{}, err
	}

	basePrice := roundMoney(base)
	makingCharge := roundMoney(making)
	discountedMaking := roundMoney(discounted)
	lineTotal := basePrice.Add(discountedMaking)

	return domain.InvoiceItem{
		ProductID:        product.ID,
		ProductName:      product.Name,
		PricingMode:      product.PricingMode,
		Quantity:         quantity,
		WeightGrams:      product.WeightGrams,
		RatePerGram:      ratePerGram,
		RateOverridden:   product.PricingMode == domain.PricingModeWeightBased && rate.Source == domain.RateSourceManual,
		BasePrice:        basePrice,
		MakingCharge:     makingCharge,
		DiscountedMaking: discountedMaking,
		LineTotal:        lineTotal,
		TaxPercentage:    product.TaxPercentage,
		TaxAmount:        roundMoney(percentOf(lineTotal, product.TaxPercentage)),
	}, nil
}
