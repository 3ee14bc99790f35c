package transport

import (
	"net/http"

	"karat-desk/internal/domain"
	"karat-desk/internal/middleware"
	"karat-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscountRequest is a discount on the making charge of one line
type DiscountRequest struct {
	Type  domain.DiscountType `json:"type"`
	Value decimal.Decimal     `json:"value"`
}

// LineItemRequest represents one sales line to price. Numeric ranges are
// checked by the pricing engine so they surface as pricing errors.
type LineItemRequest struct {
	ProductID           string           `json:"product_id" validate:"required,uuid"`
	Quantity            int              `json:"quantity"`
	Discount            *DiscountRequest `json:"discount,omitempty"`
	ManualRate          *decimal.Decimal `json:"manual_rate,omitempty"`
	ConfirmRateOverride bool             `json:"confirm_rate_override"`
}

// MaxQuoteLines bounds one invoice quote. Keep the max tag on Items in step.
const MaxQuoteLines = 500

// QuoteRequest represents an invoice to price
type QuoteRequest struct {
	Items []LineItemRequest `json:"items" validate:"max=500,dive"`
}

// RateOverrideCheckRequest asks whether a manual rate needs confirmation
type RateOverrideCheckRequest struct {
	ProposedRate decimal.Decimal `json:"proposed_rate" validate:"gt=0"`
}

func (req LineItemRequest) toLine() service.LineRequest {
	line := service.LineRequest{
		// validated as a uuid by the request tags
		ProductID:           uuid.MustParse(req.ProductID),
		Quantity:            req.Quantity,
		ManualRate:          req.ManualRate,
		ConfirmRateOverride: req.ConfirmRateOverride,
	}
	if req.Discount != nil {
		line.Discount = domain.DiscountSpec{Type: req.Discount.Type, Value: req.Discount.Value}
	}
	return line
}

// PricingHandler handles HTTP requests for pricing operations
type PricingHandler struct {
	pricingService service.PricingService
	logger         *zap.Logger
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService service.PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// RegisterRoutes registers all pricing routes
func (h *PricingHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/pricing", func(r chi.Router) {
		r.Post("/line-items", h.PriceLineItem)
		r.Post("/invoices/quote", h.QuoteInvoice)
		r.Post("/rate-override/check", h.CheckRateOverride)
	})
}

// PriceLineItem prices a single line
func (h *PricingHandler) PriceLineItem(w http.ResponseWriter, r *http.Request) {
	var req LineItemRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	item, err := h.pricingService.PriceLineItem(r.Context(), req.toLine())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Line pricing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// QuoteInvoice prices every line of an invoice against one rate snapshot
func (h *PricingHandler) QuoteInvoice(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	lines := make([]service.LineRequest, len(req.Items))
	for i, item := range req.Items {
		lines[i] = item.toLine()
	}

	quote, err := h.pricingService.QuoteInvoice(r.Context(), lines)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Invoice quote")
		return
	}

	h.logger.Debug("Invoice quoted",
		zap.Int("lines", len(quote.Items)),
		zap.String("grand_total", quote.Totals.GrandTotal.StringFixed(2)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, quote)
}

// CheckRateOverride reports whether a manual rate differs from the live rate
func (h *PricingHandler) CheckRateOverride(w http.ResponseWriter, r *http.Request) {
	var req RateOverrideCheckRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	check, err := h.pricingService.CheckRateOverride(r.Context(), req.ProposedRate)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Rate override check")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, check)
}
