package pricing

import (
	"karat-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// AggregateInvoice folds priced items into invoice totals. Items are summed
// exactly, so any ordering of the same items gives the same totals, and an
// empty list gives all-zero totals.
func AggregateInvoice(items []domain.InvoiceItem) domain.InvoiceTotals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero

	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
		discount = discount.Add(item.MakingCharge.Sub(item.DiscountedMaking))
		tax = tax.Add(item.TaxAmount)
	}

	return domain.InvoiceTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		GrandTotal:     subtotal.Add(tax),
	}
}
