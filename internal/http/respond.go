package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RaicesMX/RaicesMX/internal/cart"
	"github.com/RaicesMX/RaicesMX/internal/checkout"
	"github.com/RaicesMX/RaicesMX/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already gone; nothing useful to do on encode failure.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps the shared error taxonomy onto HTTP statuses.
// Authentication failures get 401 so the frontend can send the user to the
// login screen instead of showing a toast.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: validationErr.Message,
			Code:  "validation_failed",
			Field: validationErr.Field,
		})
	case errors.Is(err, domain.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrInvalidCoupon):
		respondError(w, http.StatusUnprocessableEntity, "invalid_coupon", err.Error())
	case errors.Is(err, domain.ErrPaymentFailed):
		respondError(w, http.StatusPaymentRequired, "payment_failed", err.Error())
	case errors.Is(err, cart.ErrQuantityBelowMinimum),
		errors.Is(err, cart.ErrEmptyCouponCode):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, cart.ErrConfirmationDeclined):
		respondError(w, http.StatusConflict, "confirmation_required", "confirm the action and retry")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition),
		errors.Is(err, checkout.ErrNoPendingPayment):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, domain.ErrUpstream):
		respondError(w, http.StatusBadGateway, "upstream_error", "marketplace backend unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
