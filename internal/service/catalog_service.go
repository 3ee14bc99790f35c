package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"karat-desk/internal/clock"
	"karat-desk/internal/domain"
	"karat-desk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductInput carries the editable fields of a catalog product
type ProductInput struct {
	SKU              string
	Name             string
	CategoryID       *uuid.UUID
	WeightGrams      decimal.Decimal
	Quantity         int
	MakingChargeRate decimal.Decimal
	MakingChargeType domain.MakingChargeType
	TaxPercentage    decimal.Decimal
	PricingMode      domain.PricingMode
	FlatSellingPrice decimal.Decimal
	MRP              decimal.Decimal
}

// ProductQuery filters and pages a product listing
type ProductQuery struct {
	CategoryID *uuid.UUID
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  repository.SortOrder
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CatalogService maintains the product catalog read by pricing and valuation
type CatalogService interface {
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	clock        clock.Clock
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, clk clock.Clock) CatalogService {
	if clk == nil {
		clk = clock.New()
	}
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		clock:        clk,
	}
}

// CreateCategory adds a category
func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInput("name", "must not be empty")
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories returns all categories by name
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category; its products become uncategorized
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// CreateProduct validates input and adds a product
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validateProduct(ctx, &input); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	product := &domain.Product{ID: uuid.New(), CreatedAt: now}
	applyInput(product, input, now)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct replaces the editable fields of a product
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := s.validateProduct(ctx, &input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInput(product, input, s.clock.Now())

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// GetProduct retrieves a product by ID
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts returns one page of products, searched or filtered by category
func (s *catalogService) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = DefaultPageSize
	}
	if query.PageSize > MaxPageSize {
		query.PageSize = MaxPageSize
	}

	var (
		products []*domain.Product
		total    int
		err      error
	)
	if strings.TrimSpace(query.Search) != "" {
		products, total, err = s.productRepo.Search(ctx, query.Search, query.Page, query.PageSize)
	} else {
		products, total, err = s.productRepo.List(ctx, query.CategoryID, query.Page, query.PageSize, query.SortBy, query.SortOrder)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// validateProduct checks input against the pricing engine's preconditions so
// a stored product can always be priced
func (s *catalogService) validateProduct(ctx context.Context, input *ProductInput) error {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)

	switch {
	case input.SKU == "":
		return domain.InvalidInput("sku", "must not be empty")
	case input.Name == "":
		return domain.InvalidInput("name", "must not be empty")
	case input.Quantity < 0:
		return domain.InvalidInput("quantity", "must not be negative")
	case input.WeightGrams.IsNegative():
		return domain.InvalidInput("weight_grams", "must not be negative")
	case input.MakingChargeRate.IsNegative():
		return domain.InvalidInput("making_charge_rate", "must not be negative")
	case input.TaxPercentage.IsNegative():
		return domain.InvalidInput("tax_percentage", "must not be negative")
	case input.FlatSellingPrice.IsNegative():
		return domain.InvalidInput("flat_selling_price", "must not be negative")
	case input.MRP.IsNegative():
		return domain.InvalidInput("mrp", "must not be negative")
	}

	switch input.PricingMode {
	case domain.PricingModeWeightBased, domain.PricingModeFlatPrice:
	default:
		return domain.InvalidInput("pricing_mode", fmt.Sprintf("unknown pricing mode %q", input.PricingMode))
	}

	switch input.MakingChargeType {
	case "":
		input.MakingChargeType = domain.MakingChargePerGram
	case domain.MakingChargePerGram, domain.MakingChargePerItem:
	default:
		return domain.InvalidInput("making_charge_type", fmt.Sprintf("unknown making charge type %q", input.MakingChargeType))
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return err
		}
	}

	return nil
}

func applyInput(product *domain.Product, input ProductInput, now time.Time) {
	product.SKU = input.SKU
	product.Name = input.Name
	product.CategoryID = input.CategoryID
	product.WeightGrams = input.WeightGrams
	product.Quantity = input.Quantity
	product.MakingChargeRate = input.MakingChargeRate
	product.MakingChargeType = input.MakingChargeType
	product.TaxPercentage = input.TaxPercentage
	product.PricingMode = input.PricingMode
	product.FlatSellingPrice = input.FlatSellingPrice
	product.MRP = input.MRP
	product.UpdatedAt = now
}
