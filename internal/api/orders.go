package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

type createOrderRequest struct {
	ShippingDetails domain.ShippingDetails `json:"shippingDetails"`
	CouponCode      string                 `json:"codigoCupon,omitempty"`
}

type createOrderResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Order   domain.OrderSummary `json:"order"`
	PayPal  struct {
		OrderID    string `json:"orderId"`
		ApproveURL string `json:"approveUrl"`
	} `json:"paypal"`
}

type capturePaymentRequest struct {
	PayPalOrderID string `json:"paypalOrderId"`
}

type capturePaymentResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type ordersResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Orders  []domain.Order `json:"orders"`
}

type orderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// CreateOrder creates a backend order from the current cart and returns the
// payment approval handle (PayPal order id plus approve URL).
func (c *Client) CreateOrder(ctx context.Context, details domain.ShippingDetails, couponCode string) (*domain.PendingPayment, error) {
	resp, err := c.do(ctx, http.MethodPost, "/orders", createOrderRequest{
		ShippingDetails: details,
		CouponCode:      couponCode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, domain.ErrNotAuthenticated
	case !resp.ok():
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, resp.serverMessage())
	}

	var envelope createOrderResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, envelope.Message)
	}
	if envelope.Order.ID == 0 || envelope.PayPal.OrderID == "" || envelope.PayPal.ApproveURL == "" {
		return nil, fmt.Errorf("%w: incomplete order creation response", domain.ErrUpstream)
	}

	return &domain.PendingPayment{
		Order:      envelope.Order,
		ApprovalID: envelope.PayPal.OrderID,
		ApproveURL: envelope.PayPal.ApproveURL,
	}, nil
}

// CapturePayment captures an approved PayPal order. Never retried: a failed
// capture surfaces to the user, who must re-initiate.
func (c *Client) CapturePayment(ctx context.Context, approvalID string) (*domain.Order, error) {
	resp, err := c.do(ctx, http.MethodPost, "/orders/capture", capturePaymentRequest{PayPalOrderID: approvalID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, domain.ErrNotAuthenticated
	case !resp.ok():
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, resp.serverMessage())
	}

	var envelope capturePaymentResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success || envelope.Order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, envelope.Message)
	}
	return envelope.Order, nil
}

// ListOrders returns the caller's order history.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, domain.ErrNotAuthenticated
	case !resp.ok():
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, resp.serverMessage())
	}

	var envelope ordersResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: order listing rejected", domain.ErrUpstream)
	}
	return envelope.Orders, nil
}

// GetOrder returns one order by backend id.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, domain.ErrNotAuthenticated
	case !resp.ok():
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, resp.serverMessage())
	}

	var envelope orderResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success || envelope.Order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, envelope.Message)
	}
	return envelope.Order, nil
}

// CancelOrder cancels an order that has not shipped.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	resp, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/cancel", orderID), struct{}{})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return domain.ErrNotAuthenticated
	case !resp.ok():
		return fmt.Errorf("%w: %s", domain.ErrUpstream, resp.serverMessage())
	}
	return nil
}
