package transport

import (
	"net/http"

	"karat-desk/internal/middleware"
	"karat-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ValuationHandler serves stock valuation reports
type ValuationHandler struct {
	valuationService service.ValuationService
	logger           *zap.Logger
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(valuationService service.ValuationService, logger *zap.Logger) *ValuationHandler {
	return &ValuationHandler{
		valuationService: valuationService,
		logger:           logger,
	}
}

// RegisterRoutes registers all report routes
func (h *ValuationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/reports/stock-valuation", h.StockValuation)
}

// StockValuation values in-stock products per category
func (h *ValuationHandler) StockValuation(w http.ResponseWriter, r *http.Request) {
	report, err := h.valuationService.StockValuation(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Stock valuation")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}
