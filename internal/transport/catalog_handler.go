package transport

import (
	"net/http"
	"strconv"
	"strings"

	"karat-desk/internal/domain"
	"karat-desk/internal/middleware"
	"karat-desk/internal/repository"
	"karat-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CategoryRequest represents the category creation payload
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// ProductRequest represents the product create and update payload
type ProductRequest struct {
	SKU              string                  `json:"sku" validate:"required,max=64"`
	Name             string                  `json:"name" validate:"required,max=255"`
	CategoryID       *uuid.UUID              `json:"category_id,omitempty"`
	WeightGrams      decimal.Decimal         `json:"weight_grams" validate:"gte=0"`
	Quantity         int                     `json:"quantity" validate:"gte=0"`
	MakingChargeRate decimal.Decimal         `json:"making_charge_rate" validate:"gte=0"`
	MakingChargeType domain.MakingChargeType `json:"making_charge_type" validate:"omitempty,oneof=per_gram per_item"`
	TaxPercentage    decimal.Decimal         `json:"tax_percentage" validate:"gte=0,lte=100"`
	PricingMode      domain.PricingMode      `json:"pricing_mode" validate:"required,oneof=weight_based flat_price"`
	FlatSellingPrice decimal.Decimal         `json:"flat_selling_price" validate:"gte=0"`
	MRP              decimal.Decimal         `json:"mrp" validate:"gte=0"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		SKU:              req.SKU,
		Name:             req.Name,
		CategoryID:       req.CategoryID,
		WeightGrams:      req.WeightGrams,
		Quantity:         req.Quantity,
		MakingChargeRate: req.MakingChargeRate,
		MakingChargeType: req.MakingChargeType,
		TaxPercentage:    req.TaxPercentage,
		PricingMode:      req.PricingMode,
		FlatSellingPrice: req.FlatSellingPrice,
		MRP:              req.MRP,
	}
}

// CatalogHandler handles HTTP requests for categories and products
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// ListCategories returns every category by name
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Category listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// CreateCategory adds a category
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Category creation")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a category and leaves its products uncategorized
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "Category deletion")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts returns a page of products. Query parameters: page, page_size,
// category_id, q, sort and order.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := service.ProductQuery{
		Search:    params.Get("q"),
		SortBy:    params.Get("sort"),
		SortOrder: repository.SortOrder(strings.ToUpper(params.Get("order"))),
	}

	var err error
	if v := params.Get("page"); v != "" {
		if query.Page, err = strconv.Atoi(v); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid page")
			return
		}
	}
	if v := params.Get("page_size"); v != "" {
		if query.PageSize, err = strconv.Atoi(v); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid page_size")
			return
		}
	}
	if v := params.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		query.CategoryID = &id
	}

	page, err := h.catalogService.ListProducts(r.Context(), query)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Product listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// CreateProduct adds a product to the catalog
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), req.toInput())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Product creation")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// GetProduct returns one product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Product lookup")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct replaces the editable fields of a product
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, req.toInput())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Product update")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "Product deletion")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
