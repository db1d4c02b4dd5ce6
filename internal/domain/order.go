package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a confirmed marketplace order as returned by the backend.
type Order struct {
	ID                 int64           `json:"id"`
	OrderNumber        string          `json:"orderNumber"`
	BuyerID            int64           `json:"buyerId"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	ShippingCost       decimal.Decimal `json:"shippingCost"`
	Discount           decimal.Decimal `json:"discount"`
	Total              decimal.Decimal `json:"total"`
	Status             string          `json:"status"`
	ShippingName       string          `json:"shippingName"`
	ShippingEmail      string          `json:"shippingEmail"`
	ShippingPhone      string          `json:"shippingPhone"`
	ShippingAddress    string          `json:"shippingAddress"`
	ShippingCity       string          `json:"shippingCity"`
	ShippingState      string          `json:"shippingState"`
	ShippingPostalCode string          `json:"shippingPostalCode"`
	ShippingCountry    string          `json:"shippingCountry"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// OrderSummary is the abbreviated order shape returned by order creation.
type OrderSummary struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
}

// PendingPayment is the approval handle produced by order creation. It is
// consumed by a capture attempt, successful or not; the approve URL is only
// used by the redirect sub-flow.
type PendingPayment struct {
	Order      OrderSummary `json:"order"`
	ApprovalID string       `json:"approvalId"`
	ApproveURL string       `json:"approveUrl"`
}
