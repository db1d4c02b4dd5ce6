package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/domain"
	"github.com/RaicesMX/RaicesMX/internal/notify"
	"github.com/RaicesMX/RaicesMX/internal/progress"
)

// fakeCart implements CartReader over a fixed snapshot.
type fakeCart struct {
	cart     *domain.Cart
	fetchErr error

	FetchCalls int
}

func (f *fakeCart) Snapshot() *domain.Cart {
	return f.cart
}

func (f *fakeCart) Fetch(_ context.Context) (*domain.Cart, error) {
	f.FetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.cart, nil
}

// fakeOrders implements OrdersBackend, recording each attempt.
type fakeOrders struct {
	pending    *domain.PendingPayment
	order      *domain.Order
	createErr  error
	captureErr error

	CreateCalls  int
	CaptureCalls int
	LastCoupon   string
	LastApproval string
}

func (f *fakeOrders) CreateOrder(_ context.Context, _ domain.ShippingDetails, couponCode string) (*domain.PendingPayment, error) {
	f.CreateCalls++
	f.LastCoupon = couponCode
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.pending, nil
}

func (f *fakeOrders) CapturePayment(_ context.Context, approvalID string) (*domain.Order, error) {
	f.CaptureCalls++
	f.LastApproval = approvalID
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.order, nil
}

func filledCart() *domain.Cart {
	price := decimal.RequireFromString("350")
	return &domain.Cart{
		ID:       1,
		UserID:   7,
		Subtotal: price,
		Total:    price,
		Items: []domain.CartItem{
			{ID: 3, ProductID: 12, Quantity: 1, UnitPrice: price, Subtotal: price},
		},
	}
}

func validShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		Name:       "María González",
		Email:      "maria@example.com",
		Phone:      "55-1234-5678",
		Address:    "Av. Reforma 123",
		City:       "Oaxaca",
		State:      "Oaxaca",
		PostalCode: "68000",
		Country:    domain.DefaultCountry,
	}
}

func orderFixture() *domain.Order {
	return &domain.Order{
		ID:          42,
		OrderNumber: "ORD-2025-042",
		Status:      "pagado",
		Total:       decimal.RequireFromString("350"),
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func pendingFixture() *domain.PendingPayment {
	return &domain.PendingPayment{
		Order: domain.OrderSummary{
			ID:          42,
			OrderNumber: "ORD-2025-042",
			Total:       decimal.RequireFromString("350"),
		},
		ApprovalID: "PAYPAL-ORDER-1",
		ApproveURL: "https://www.paypal.com/checkoutnow?token=PAYPAL-ORDER-1",
	}
}

type machineDeps struct {
	cart     *fakeCart
	orders   *fakeOrders
	progress *progress.MemoryStore
	notifier *notify.Notifier
}

func newTestMachine(userID int64, deps machineDeps) (*Machine, machineDeps) {
	log := zap.NewNop()
	if deps.cart == nil {
		deps.cart = &fakeCart{cart: filledCart()}
	}
	if deps.orders == nil {
		deps.orders = &fakeOrders{pending: pendingFixture(), order: orderFixture()}
	}
	if deps.progress == nil {
		deps.progress = progress.NewMemoryStore(log)
	}
	if deps.notifier == nil {
		deps.notifier = notify.New(time.Minute, log)
	}
	m := NewMachine(userID, deps.cart, deps.orders, deps.progress, deps.notifier, log)
	return m, deps
}

func notificationMessages(n *notify.Notifier) []string {
	var out []string
	for _, item := range n.Active() {
		out = append(out, item.Message)
	}
	return out
}
