package http

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

// fakeBackend stands in for the marketplace client behind a session. It
// serves a canned cart and records mutations only as snapshot swaps.
type fakeBackend struct {
	cart    *domain.Cart
	count   int
	order   *domain.Order
	pending *domain.PendingPayment
	err     error
}

func (f *fakeBackend) GetCart(context.Context) (*domain.Cart, error) {
	return f.cart, f.err
}

func (f *fakeBackend) AddItem(context.Context, int64, int) (*domain.Cart, error) {
	return f.cart, f.err
}

func (f *fakeBackend) UpdateItemQuantity(context.Context, int64, int) (*domain.Cart, error) {
	return f.cart, f.err
}

func (f *fakeBackend) RemoveItem(context.Context, int64) (*domain.Cart, error) {
	return f.cart, f.err
}

func (f *fakeBackend) ClearCart(context.Context) error {
	return f.err
}

func (f *fakeBackend) ApplyCoupon(context.Context, string) (*domain.Cart, string, error) {
	return f.cart, "", f.err
}

func (f *fakeBackend) RemoveCoupon(context.Context) (*domain.Cart, error) {
	return f.cart, f.err
}

func (f *fakeBackend) CartCount(context.Context) (int, error) {
	return f.count, f.err
}

func (f *fakeBackend) CreateOrder(context.Context, domain.ShippingDetails, string) (*domain.PendingPayment, error) {
	return f.pending, f.err
}

func (f *fakeBackend) CapturePayment(context.Context, string) (*domain.Order, error) {
	return f.order, f.err
}

// fakeOrderHistory serves the order history routes.
type fakeOrderHistory struct {
	orders []domain.Order
	err    error

	canceled []int64
}

func (f *fakeOrderHistory) ListOrders(context.Context) ([]domain.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderHistory) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			return &f.orders[i], nil
		}
	}
	return nil, domain.ErrUpstream
}

func (f *fakeOrderHistory) CancelOrder(_ context.Context, orderID int64) error {
	if f.err != nil {
		return f.err
	}
	f.canceled = append(f.canceled, orderID)
	return nil
}

func testCart() *domain.Cart {
	price := decimal.RequireFromString("150")
	total := decimal.RequireFromString("300")
	return &domain.Cart{
		ID:       1,
		UserID:   7,
		Subtotal: total,
		Total:    total,
		Items: []domain.CartItem{
			{ID: 5, ProductID: 9, Quantity: 2, UnitPrice: price, Subtotal: total,
				Product: domain.Product{ID: 9, Title: "Barro negro", Stock: 8}},
		},
	}
}

func testPending() *domain.PendingPayment {
	return &domain.PendingPayment{
		Order:      domain.OrderSummary{ID: 42, OrderNumber: "ORD-2025-042", Total: decimal.RequireFromString("300")},
		ApprovalID: "PAYPAL-ORDER-1",
		ApproveURL: "https://paypal.test/approve",
	}
}

func testOrder() *domain.Order {
	return &domain.Order{ID: 42, OrderNumber: "ORD-2025-042", Status: "pagado", Total: decimal.RequireFromString("300")}
}
