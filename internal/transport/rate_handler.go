package transport

import (
	"net/http"

	"karat-desk/internal/middleware"
	"karat-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordRateRequest represents a rate entered by an operator
type RecordRateRequest struct {
	RatePerGram decimal.Decimal `json:"rate_per_gram" validate:"gt=0"`
	Note        string          `json:"note" validate:"max=255"`
}

// RateHandler handles HTTP requests for metal rates
type RateHandler struct {
	rateService service.RateService
	logger      *zap.Logger
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService service.RateService, logger *zap.Logger) *RateHandler {
	return &RateHandler{
		rateService: rateService,
		logger:      logger,
	}
}

// RegisterRoutes registers all rate routes
func (h *RateHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/rates", func(r chi.Router) {
		r.Get("/current", h.Current)
		r.Post("/", h.Record)
	})
}

// Current returns the live rate snapshot
func (h *RateHandler) Current(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rateService.Current(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Current rate")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, snap)
}

// Record stores a new rate and makes it live
func (h *RateHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordRateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	recorded, err := h.rateService.RecordRate(r.Context(), req.RatePerGram, req.Note)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Rate recording")
		return
	}

	h.logger.Info("Metal rate recorded",
		zap.String("rate_id", recorded.ID.String()),
		zap.String("rate_per_gram", recorded.RatePerGram.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, recorded)
}
