package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

// The payment stage has two entry paths that share one capture step: the
// in-page PayPal widget drives CreateOrder/Approve/Cancel/HandleError, and
// the redirect flow leaves through the approve URL and comes back through
// ResumeFromRedirect with the token from the query string.

// CreateOrder re-validates shipping, creates the backend order from the
// current cart and returns the approval handle. A validation failure is a
// rejected attempt, not a silent no-op.
func (m *Machine) CreateOrder(ctx context.Context) (*domain.PendingPayment, error) {
	m.mu.Lock()
	if m.step != domain.StepPayment {
		m.mu.Unlock()
		return nil, ErrIllegalTransition
	}
	shipping := m.shipping
	m.mu.Unlock()

	if err := ValidateShipping(shipping); err != nil {
		m.notify.Notify(err.Error())
		return nil, err
	}

	couponCode := ""
	if snapshot := m.cart.Snapshot(); snapshot.HasCoupon() {
		couponCode = snapshot.CouponCode
	}

	pending, err := m.orders.CreateOrder(ctx, shipping, couponCode)
	if err != nil {
		m.notify.Notify("failed to create order")
		m.log.Warn("order creation failed", zap.Error(err))
		return nil, err
	}

	m.mu.Lock()
	m.pending = pending
	m.mu.Unlock()

	m.log.Info("order created",
		zap.Int64("order_id", pending.Order.ID),
		zap.String("approval_id", pending.ApprovalID))
	return pending, nil
}

// Approve captures an approved payment. On success the session moves to
// Confirmation and the persisted progress is cleared; on failure the session
// stays on Payment and the user decides whether to try again.
func (m *Machine) Approve(ctx context.Context, approvalID string) error {
	if approvalID == "" {
		return ErrNoPendingPayment
	}
	return m.capture(ctx, approvalID)
}

// Cancel is the widget's cancel hook. Nothing changes; the user simply
// closed the PayPal window.
func (m *Machine) Cancel() {
	m.notify.Notify("payment canceled")
}

// HandleError is the widget's error hook.
func (m *Machine) HandleError() {
	m.notify.Notify("payment could not be processed")
}

// ResumeFromRedirect handles the return leg of the redirect flow: the
// approval token arrives in the URL and capture proceeds without further
// user action. On failure the session is pinned to Payment so the in-page
// widget remains available.
func (m *Machine) ResumeFromRedirect(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	m.log.Info("processing payment approver return", zap.String("token", token))
	if err := m.capture(ctx, token); err != nil {
		m.mu.Lock()
		m.step = domain.StepPayment
		m.mu.Unlock()
		m.save(ctx)
		return err
	}
	return nil
}

func (m *Machine) capture(ctx context.Context, approvalID string) error {
	m.mu.Lock()
	m.capturing = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.capturing = false
		m.mu.Unlock()
	}()

	order, err := m.orders.CapturePayment(ctx, approvalID)
	if err != nil {
		m.notify.Notify("failed to process payment")
		m.log.Warn("payment capture failed",
			zap.String("approval_id", approvalID),
			zap.Error(err))
		return err
	}

	m.mu.Lock()
	m.confirmed = order
	m.pending = nil
	m.step = domain.StepConfirmation
	m.mu.Unlock()

	// Cleared exactly once, here: the purchase is done.
	if err := m.progress.Clear(ctx, m.userID); err != nil {
		m.log.Warn("failed to clear checkout progress", zap.Error(err))
	}

	m.notify.Notify("payment completed successfully")
	m.log.Info("payment captured",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))

	// The backend cleared the cart as part of the capture; refresh so the
	// badge and the cart view agree.
	if _, err := m.cart.Fetch(ctx); err != nil {
		m.log.Warn("post-capture cart refresh failed", zap.Error(err))
	}
	return nil
}
