package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/domain"
	"github.com/RaicesMX/RaicesMX/internal/progress"
)

func newTestRouter(t *testing.T, backend *fakeBackend, history *fakeOrderHistory) http.Handler {
	t.Helper()
	log := zap.NewNop()
	sessions := NewSessions(backend, progress.NewMemoryStore(log), SessionConfig{
		MinLoadingDuration: time.Millisecond,
		NotificationTTL:    time.Minute,
	}, log)
	return NewRouter(sessions, NewOrdersHandler(history), 5*time.Second, log)
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})
	rec := doRequest(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
}

func TestAuth_MissingUserHeader(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestGetCart(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})
	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body)
	}

	var view CartViewDTO
	decodeBody(t, rec, &view)
	if view.Count != 2 {
		t.Errorf("count = %d, want 2", view.Count)
	}
	if view.Cart == nil || len(view.Cart.Items) != 1 {
		t.Errorf("unexpected cart payload: %+v", view.Cart)
	}
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})
	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 9}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", rec.Code, rec.Body)
	}
}

func TestAddItem_RejectsBadProductID(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})
	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 0, "quantity": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestUpdateQuantity_BelowMinimum(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})
	rec := doRequest(t, router, http.MethodPatch, "/api/v1/cart/items/5", `{"quantity": 0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestRemoveItem_RequiresConfirmQueryParam(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/5", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("unconfirmed delete: got %d, want 409: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/5?confirm=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmed delete: got %d, want 200: %s", rec.Code, rec.Body)
	}
}

func TestClearCart_RequiresConfirmQueryParam(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409", rec.Code)
	}
}

func TestInsufficientStockMapsTo409(t *testing.T) {
	backend := &fakeBackend{cart: testCart(), err: domain.ErrInsufficientStock}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 9, "quantity": 50}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409: %s", rec.Code, rec.Body)
	}

	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Code != "insufficient_stock" {
		t.Errorf("code = %q, want insufficient_stock", errResp.Code)
	}
}

func TestInvalidCouponMapsTo422(t *testing.T) {
	backend := &fakeBackend{cart: testCart(), err: domain.ErrInvalidCoupon}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/coupon", `{"code": "NOPE"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422: %s", rec.Code, rec.Body)
	}
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	backend := &fakeBackend{cart: testCart(), pending: testPending(), order: testOrder()}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	// Cart -> ShippingDetails.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/next", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leave cart: got %d: %s", rec.Code, rec.Body)
	}

	// ShippingDetails -> Payment, form in the body.
	form := `{"nombre": "María González", "email": "maria@example.com", "telefono": "5512345678",
		"direccion": "Av. Reforma 123", "ciudad": "Oaxaca", "estado": "Oaxaca", "codigoPostal": "68000"}`
	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/next", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("leave shipping: got %d: %s", rec.Code, rec.Body)
	}

	var view CheckoutViewDTO
	decodeBody(t, rec, &view)
	if view.Step != int(domain.StepPayment) {
		t.Fatalf("step = %d, want %d", view.Step, domain.StepPayment)
	}

	// Create the order, then capture it through the widget path.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/order", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: got %d: %s", rec.Code, rec.Body)
	}
	var created CreateOrderResponseDTO
	decodeBody(t, rec, &created)
	if created.ApprovalID != "PAYPAL-ORDER-1" {
		t.Fatalf("approval id = %q", created.ApprovalID)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/capture", `{"approval_id": "PAYPAL-ORDER-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture: got %d: %s", rec.Code, rec.Body)
	}
	decodeBody(t, rec, &view)
	if view.Step != int(domain.StepConfirmation) {
		t.Errorf("step = %d, want %d", view.Step, domain.StepConfirmation)
	}
	if view.ConfirmedOrder == nil || view.ConfirmedOrder.OrderNumber != "ORD-2025-042" {
		t.Errorf("confirmed order missing: %+v", view.ConfirmedOrder)
	}
}

func TestCheckoutNext_InvalidShippingReturnsFieldError(t *testing.T) {
	backend := &fakeBackend{cart: testCart()}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/next", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leave cart: got %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/next", `{"nombre": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400: %s", rec.Code, rec.Body)
	}
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Field != "nombre" {
		t.Errorf("field = %q, want nombre", errResp.Field)
	}
}

func TestCheckoutReturn_RedirectsWithoutToken(t *testing.T) {
	backend := &fakeBackend{cart: testCart(), order: testOrder()}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/checkout/return?token=PAYPAL-ORDER-1", "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/checkout" {
		t.Errorf("location = %q, want /checkout (token stripped)", loc)
	}
}

func TestCheckoutReset_RequiresConfirmation(t *testing.T) {
	backend := &fakeBackend{cart: testCart()}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/reset", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/reset?confirm=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body)
	}
}

func TestOrders_ListAndCancel(t *testing.T) {
	history := &fakeOrderHistory{orders: []domain.Order{*testOrder()}}
	router := newTestRouter(t, &fakeBackend{cart: testCart()}, history)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders/42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, router, http.MethodPatch, "/api/v1/orders/42/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: got %d: %s", rec.Code, rec.Body)
	}
	if len(history.canceled) != 1 || history.canceled[0] != 42 {
		t.Errorf("canceled = %v, want [42]", history.canceled)
	}
}

func TestNotifications(t *testing.T) {
	backend := &fakeBackend{cart: testCart()}
	router := newTestRouter(t, backend, &fakeOrderHistory{})

	// An add produces a toast; the notifications route returns it.
	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 9, "quantity": 1}`)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/notifications", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "item added to cart") {
		t.Errorf("missing toast in %s", rec.Body)
	}
}
