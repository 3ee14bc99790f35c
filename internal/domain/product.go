package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingMode selects how a product's base price is derived
type PricingMode string

const (
	PricingModeWeightBased PricingMode = "weight_based"
	PricingModeFlatPrice   PricingMode = "flat_price"
)

// MakingChargeType tells whether the making charge rate applies per gram or per piece
type MakingChargeType string

const (
	MakingChargePerGram MakingChargeType = "per_gram"
	MakingChargePerItem MakingChargeType = "per_item"
)

// Product is a catalog item as read at pricing time. The pricing engine never mutates it.
type Product struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	SKU              string           `json:"sku" db:"sku"`
	Name             string           `json:"name" db:"name"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty" db:"category_id"`
	WeightGrams      decimal.Decimal  `json:"weight_grams" db:"weight_grams"`
	Quantity         int              `json:"quantity" db:"quantity"`
	MakingChargeRate decimal.Decimal  `json:"making_charge_rate" db:"making_charge_rate"`
	MakingChargeType MakingChargeType `json:"making_charge_type" db:"making_charge_type"`
	TaxPercentage    decimal.Decimal  `json:"tax_percentage" db:"tax_percentage"`
	PricingMode      PricingMode      `json:"pricing_mode" db:"pricing_mode"`
	FlatSellingPrice decimal.Decimal  `json:"flat_selling_price" db:"flat_selling_price"`
	MRP              decimal.Decimal  `json:"mrp" db:"mrp"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
