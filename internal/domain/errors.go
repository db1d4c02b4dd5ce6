package domain

import "errors"

// Shared error taxonomy. Every operation boundary converts failures into one
// of these so callers can branch with errors.Is without knowing the transport.
var (
	ErrNotAuthenticated  = errors.New("authentication required")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidCoupon     = errors.New("invalid coupon")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrUpstream          = errors.New("upstream request failed")
)
