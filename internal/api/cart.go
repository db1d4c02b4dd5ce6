package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

type cartResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Cart    *domain.Cart `json:"cart"`
}

type cartCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"cantidad"`
}

type updateQuantityRequest struct {
	Quantity int `json:"cantidad"`
}

type applyCouponRequest struct {
	CouponCode string `json:"codigoCupon"`
}

func (c *Client) cartCall(ctx context.Context, method, path string, body any) (*domain.Cart, string, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, "", domain.ErrNotAuthenticated
	case !resp.ok():
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUpstream, resp.serverMessage())
	}

	var envelope cartResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUpstream, envelope.Message)
	}
	if err := envelope.Cart.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return envelope.Cart, envelope.Message, nil
}

// GetCart fetches the authoritative snapshot.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	cart, _, err := c.cartCall(ctx, http.MethodGet, "/cart", nil)
	return cart, err
}

// AddItem adds a product to the cart; the backend increments the existing
// line when one exists for the product. 409 means the requested quantity
// exceeds available stock.
func (c *Client) AddItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	resp, err := c.do(ctx, http.MethodPost, "/cart/add", addItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return c.decodeItemMutation(resp)
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (c *Client) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	path := fmt.Sprintf("/cart/items/%d", itemID)
	resp, err := c.do(ctx, http.MethodPatch, path, updateQuantityRequest{Quantity: quantity})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return c.decodeItemMutation(resp)
}

func (c *Client) decodeItemMutation(resp *upstreamResponse) (*domain.Cart, error) {
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, domain.ErrNotAuthenticated
	case resp.status == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, resp.serverMessage())
	case !resp.ok():
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, resp.serverMessage())
	}

	var envelope cartResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstream, envelope.Message)
	}
	if err := envelope.Cart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return envelope.Cart, nil
}

// RemoveItem deletes a cart line.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*domain.Cart, error) {
	cart, _, err := c.cartCall(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil)
	return cart, err
}

// ClearCart empties the cart. The clear response does not carry a full
// snapshot, so callers re-fetch afterwards.
func (c *Client) ClearCart(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/cart/clear", nil)
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

// ApplyCoupon applies a coupon code; any 4xx from this endpoint is the
// backend rejecting the coupon, and its reason is surfaced verbatim.
func (c *Client) ApplyCoupon(ctx context.Context, code string) (*domain.Cart, string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/cart/coupon", applyCouponRequest{CouponCode: code})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, "", domain.ErrNotAuthenticated
	case resp.status >= http.StatusBadRequest:
		return nil, "", fmt.Errorf("%w: %s", domain.ErrInvalidCoupon, resp.serverMessage())
	}

	var envelope cartResponse
	if err := decode(resp, &envelope); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrInvalidCoupon, envelope.Message)
	}
	if err := envelope.Cart.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return envelope.Cart, envelope.Message, nil
}

// RemoveCoupon drops the applied coupon.
func (c *Client) RemoveCoupon(ctx context.Context) (*domain.Cart, error) {
	cart, _, err := c.cartCall(ctx, http.MethodDelete, "/cart/coupon", nil)
	return cart, err
}

// CartCount returns the total item count without the full snapshot; the
// header badge uses it.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cart/count", nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.status == http.StatusUnauthorized:
		return 0, domain.ErrNotAuthenticated
	case !resp.ok():
		return 0, fmt.Errorf("%w: %s", domain.ErrUpstream, resp.serverMessage())
	}

	var envelope cartCountResponse
	if err := decode(resp, &envelope); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !envelope.Success {
		return 0, fmt.Errorf("%w: count request rejected", domain.ErrUpstream)
	}
	if envelope.Count < 0 {
		return 0, fmt.Errorf("%w: negative item count", domain.ErrUpstream)
	}
	return envelope.Count, nil
}
