package transport

import (
	"errors"
	"net/http"

	"karat-desk/internal/domain"
	"karat-desk/internal/middleware"
	"karat-desk/internal/repository"
	"karat-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusFor maps service and repository errors to an HTTP status and a
// client-facing message
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidDiscount):
		return http.StatusUnprocessableEntity, domain.ErrInvalidDiscount.Error()
	case errors.Is(err, domain.ErrInvalidPricingInput):
		return http.StatusUnprocessableEntity, domain.ErrInvalidPricingInput.Error()
	case errors.Is(err, domain.ErrRateOverrideUnconfirmed):
		return http.StatusConflict, domain.ErrRateOverrideUnconfirmed.Error()
	case errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusServiceUnavailable, domain.ErrRateUnavailable.Error()
	case errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound, repository.ErrProductNotFound.Error()
	case errors.Is(err, repository.ErrCategoryNotFound):
		return http.StatusNotFound, repository.ErrCategoryNotFound.Error()
	case errors.Is(err, repository.ErrProductAlreadyExists):
		return http.StatusConflict, repository.ErrProductAlreadyExists.Error()
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		return http.StatusConflict, repository.ErrCategoryAlreadyExists.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondWithServiceError writes err as an error envelope. Line and field
// positions are reported in details so the counter can highlight the input.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status, message := statusFor(err)

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(action+" failed", zap.Error(err))
	} else {
		logger.Debug(action+" rejected", zap.Error(err), zap.Int("status", status))
	}

	details := map[string]interface{}{}
	var lineErr *service.LineError
	if errors.As(err, &lineErr) {
		details["line"] = lineErr.Index
	}
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		details["field"] = fieldErr.Field
		details["reason"] = fieldErr.Reason
	}
	if len(details) == 0 {
		details = nil
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	middleware.RespondWithErrorDetails(w, status, message, details)
}

// decodeRequest decodes and validates the body into v. It writes the 400
// response itself and reports false when the request cannot be used.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err), zap.String("path", r.URL.Path))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// idParam reads a UUID path parameter
func idParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
