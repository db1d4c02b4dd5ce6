package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal checkout step transition")
	ErrNoPendingPayment  = errors.New("no payment in progress")
)

// ValidationError is a shipping-form failure. It names the first field that
// failed; validation short-circuits, so there is never more than one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
