// Package checkout drives the four-stage purchase flow: cart review,
// shipping details, payment, confirmation. Forward movement is guarded
// (non-empty cart, valid shipping), the confirmation stage is only reachable
// through a successful payment capture, and progress is persisted after
// every transition so a reload or the PayPal redirect does not lose it.
package checkout

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/domain"
	"github.com/RaicesMX/RaicesMX/internal/notify"
	"github.com/RaicesMX/RaicesMX/internal/progress"
)

// CartReader is the machine's view of the cart store: read the snapshot,
// refresh it when needed. The machine never mutates the cart.
type CartReader interface {
	Snapshot() *domain.Cart
	Fetch(ctx context.Context) (*domain.Cart, error)
}

// OrdersBackend creates orders and captures payments upstream.
type OrdersBackend interface {
	CreateOrder(ctx context.Context, details domain.ShippingDetails, couponCode string) (*domain.PendingPayment, error)
	CapturePayment(ctx context.Context, approvalID string) (*domain.Order, error)
}

type Machine struct {
	userID   int64
	cart     CartReader
	orders   OrdersBackend
	progress progress.Store
	notify   *notify.Notifier
	log      *zap.Logger

	mu        sync.Mutex
	step      domain.Step
	shipping  domain.ShippingDetails
	pending   *domain.PendingPayment
	confirmed *domain.Order
	capturing bool
}

func NewMachine(userID int64, cart CartReader, orders OrdersBackend, store progress.Store, notifier *notify.Notifier, log *zap.Logger) *Machine {
	return &Machine{
		userID:   userID,
		cart:     cart,
		orders:   orders,
		progress: store,
		notify:   notifier,
		log:      log,
		step:     domain.StepCart,
		shipping: domain.NewShippingDetails(),
	}
}

// Restore loads persisted progress. Any load failure degrades to a fresh
// session; it never blocks checkout. A persisted step can never put the
// session past Payment, since Confirmation requires a capture.
func (m *Machine) Restore(ctx context.Context) {
	p, err := m.progress.Load(ctx, m.userID)
	if err != nil {
		if !errors.Is(err, progress.ErrNotFound) {
			m.log.Warn("failed to load checkout progress", zap.Error(err))
		}
		p = progress.Default()
	}
	if p.Step > domain.StepPayment {
		p.Step = domain.StepPayment
	}

	m.mu.Lock()
	m.step = p.Step
	m.shipping = p.ShippingDetails
	if m.shipping.Country == "" {
		m.shipping.Country = domain.DefaultCountry
	}
	m.mu.Unlock()
}

func (m *Machine) Step() domain.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

func (m *Machine) Shipping() domain.ShippingDetails {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shipping
}

func (m *Machine) Pending() *domain.PendingPayment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *Machine) Confirmed() *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmed
}

func (m *Machine) Capturing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capturing
}

// SetShipping replaces the shipping form contents. No validation here; the
// form is validated when the user tries to move past it.
func (m *Machine) SetShipping(d domain.ShippingDetails) {
	if d.Country == "" {
		d.Country = domain.DefaultCountry
	}
	m.mu.Lock()
	m.shipping = d
	m.mu.Unlock()
}

// Next advances one step if the current step's guard passes. Leaving Cart
// requires a non-empty cart; leaving ShippingDetails requires the form to
// validate. Payment cannot be left manually — only a capture does that.
func (m *Machine) Next(ctx context.Context) error {
	m.mu.Lock()
	step := m.step
	shipping := m.shipping
	m.mu.Unlock()

	switch step {
	case domain.StepCart:
		snapshot := m.cart.Snapshot()
		if snapshot == nil {
			var err error
			snapshot, err = m.cart.Fetch(ctx)
			if err != nil {
				return err
			}
		}
		if snapshot.IsEmpty() {
			m.notify.Notify("your cart is empty")
			return ErrEmptyCart
		}
	case domain.StepShipping:
		if err := ValidateShipping(shipping); err != nil {
			m.notify.Notify(err.Error())
			return err
		}
	default:
		return ErrIllegalTransition
	}

	m.mu.Lock()
	m.step = step + 1
	m.mu.Unlock()
	m.save(ctx)
	return nil
}

// Back moves one step toward the cart.
func (m *Machine) Back(ctx context.Context) error {
	m.mu.Lock()
	if m.step <= domain.StepCart || m.step == domain.StepConfirmation {
		m.mu.Unlock()
		return ErrIllegalTransition
	}
	m.step--
	m.mu.Unlock()
	m.save(ctx)
	return nil
}

// GoTo jumps directly to an already-completed step. Skipping ahead is not
// allowed, and Confirmation cannot be entered this way.
func (m *Machine) GoTo(ctx context.Context, step domain.Step) error {
	m.mu.Lock()
	if !step.Valid() || step > m.step || step == domain.StepConfirmation {
		m.mu.Unlock()
		return ErrIllegalTransition
	}
	changed := step != m.step
	m.step = step
	m.mu.Unlock()
	if changed {
		m.save(ctx)
	}
	return nil
}

// Reset returns the machine to a fresh session: step zero, empty form, no
// confirmed order, no persisted progress.
func (m *Machine) Reset(ctx context.Context) {
	m.mu.Lock()
	m.step = domain.StepCart
	m.shipping = domain.NewShippingDetails()
	m.pending = nil
	m.confirmed = nil
	m.mu.Unlock()

	if err := m.progress.Clear(ctx, m.userID); err != nil {
		m.log.Warn("failed to clear checkout progress", zap.Error(err))
	}
}

func (m *Machine) save(ctx context.Context) {
	m.mu.Lock()
	p := progress.Progress{Step: m.step, ShippingDetails: m.shipping}
	m.mu.Unlock()

	if err := m.progress.Save(ctx, m.userID, p); err != nil {
		// Progress persistence is best effort; losing it costs the user a
		// re-entry of the form, not the purchase.
		m.log.Warn("failed to save checkout progress", zap.Error(err))
	}
}
