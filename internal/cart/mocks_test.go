package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

// MockBackend implements Backend for testing, recording how often each
// operation actually reached the network.
type MockBackend struct {
	Cart    *domain.Cart
	Message string
	Count   int
	Err     error

	GetCalls          int
	AddCalls          int
	UpdateCalls       int
	RemoveCalls       int
	ClearCalls        int
	ApplyCouponCalls  int
	RemoveCouponCalls int
	CountCalls        int
}

func (m *MockBackend) GetCart(_ context.Context) (*domain.Cart, error) {
	m.GetCalls++
	return m.Cart, m.Err
}

func (m *MockBackend) AddItem(_ context.Context, _ int64, _ int) (*domain.Cart, error) {
	m.AddCalls++
	return m.Cart, m.Err
}

func (m *MockBackend) UpdateItemQuantity(_ context.Context, _ int64, _ int) (*domain.Cart, error) {
	m.UpdateCalls++
	return m.Cart, m.Err
}

func (m *MockBackend) RemoveItem(_ context.Context, _ int64) (*domain.Cart, error) {
	m.RemoveCalls++
	return m.Cart, m.Err
}

func (m *MockBackend) ClearCart(_ context.Context) error {
	m.ClearCalls++
	return m.Err
}

func (m *MockBackend) ApplyCoupon(_ context.Context, _ string) (*domain.Cart, string, error) {
	m.ApplyCouponCalls++
	return m.Cart, m.Message, m.Err
}

func (m *MockBackend) RemoveCoupon(_ context.Context) (*domain.Cart, error) {
	m.RemoveCouponCalls++
	return m.Cart, m.Err
}

func (m *MockBackend) CartCount(_ context.Context) (int, error) {
	m.CountCalls++
	return m.Count, m.Err
}

// StubConfirmer answers every confirmation request the same way.
type StubConfirmer struct {
	Answer bool
}

func (c StubConfirmer) Confirm(_ context.Context, _ string) bool {
	return c.Answer
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// cartFixture is one line of qty 2 at unit price 100, free shipping.
func cartFixture() *domain.Cart {
	return &domain.Cart{
		ID:       1,
		UserID:   7,
		Subtotal: dec("200"),
		Shipping: dec("0"),
		Discount: dec("0"),
		Total:    dec("200"),
		Items: []domain.CartItem{
			{
				ID:        5,
				ProductID: 9,
				Quantity:  2,
				UnitPrice: dec("100"),
				Subtotal:  dec("200"),
				Product:   domain.Product{ID: 9, Title: "Alebrije", Stock: 5},
			},
		},
	}
}

// couponFixture is cartFixture after the backend applied RAICES10 (10%).
func couponFixture() *domain.Cart {
	c := cartFixture()
	c.CouponCode = "RAICES10"
	c.Discount = dec("20")
	c.Total = dec("180")
	return c
}
