package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSource values record where a RateSnapshot came from
const (
	RateSourceFeed     = "feed"
	RateSourceCache    = "cache"
	RateSourceFallback = "fallback"
	RateSourceManual   = "manual"
)

// UncategorizedKey is the rollup key for products without a category
const UncategorizedKey = "uncategorized"

// RateSnapshot is one metal rate-per-gram reading. A pricing or valuation pass
// captures a single snapshot at entry and uses it throughout.
type RateSnapshot struct {
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
	ReadAt      time.Time       `json:"read_at"`
	Source      string          `json:"source"`
}

// DiscountType selects how a DiscountSpec value is interpreted
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// DiscountSpec is a discount on the making-charge component of a single line
type DiscountSpec struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// InvoiceItem is a priced invoice line. A change in inputs produces a new item.
type InvoiceItem struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	PricingMode      PricingMode     `json:"pricing_mode"`
	Quantity         int             `json:"quantity"`
	WeightGrams      decimal.Decimal `json:"weight_grams"`
	RatePerGram      decimal.Decimal `json:"rate_per_gram"`
	RateOverridden   bool            `json:"rate_overridden"`
	BasePrice        decimal.Decimal `json:"base_price"`
	MakingCharge     decimal.Decimal `json:"making_charge"`
	DiscountedMaking decimal.Decimal `json:"discounted_making"`
	LineTotal        decimal.Decimal `json:"line_total"`
	TaxPercentage    decimal.Decimal `json:"tax_percentage"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
}

// InvoiceTotals is derived from an item list and never stored on its own
type InvoiceTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// CategoryStockValuation is the per-category rollup of in-stock products
type CategoryStockValuation struct {
	CategoryKey   string          `json:"category_key"`
	CategoryName  string          `json:"category_name,omitempty"`
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	TotalWeight   decimal.Decimal `json:"total_weight"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

// StockValuationTotals sums every rollup of a valuation run
type StockValuationTotals struct {
	TotalItems      int             `json:"total_items"`
	TotalQuantity   int             `json:"total_quantity"`
	TotalWeight     decimal.Decimal `json:"total_weight"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
}

// MetalRate is a rate recorded in the rate store
type MetalRate struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	RatePerGram decimal.Decimal `json:"rate_per_gram" db:"rate_per_gram"`
	Note        string          `json:"note,omitempty" db:"note"`
	RecordedAt  time.Time       `json:"recorded_at" db:"recorded_at"`
}
