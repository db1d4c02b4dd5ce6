package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the authoritative cart snapshot as computed by the marketplace
// backend. Totals are never recomputed locally; every mutation replaces the
// whole snapshot with the server's response.
type Cart struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"envio"`
	Discount   decimal.Decimal `json:"descuento"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"codigoCupon"`
	Active     bool            `json:"activo"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Items      []CartItem      `json:"items"`
}

// CartItem is a single line in the cart. ID is the server-assigned line
// identity; UnitPrice is the product price captured at add time.
type CartItem struct {
	ID        int64           `json:"id"`
	CartID    int64           `json:"cartId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precioUnitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   Product         `json:"product"`
}

type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"titulo"`
	Price  decimal.Decimal `json:"precio"`
	Stock  int             `json:"stock"`
	Unit   string          `json:"unidad"`
	Status string          `json:"estado"`
	Images []ProductImage  `json:"images"`
}

type ProductImage struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"imageUrl"`
	Position int    `json:"orden"`
}

const placeholderImage = "assets/images/placeholder-artesania.jpg"

// PrimaryImage returns the URL of the lowest-positioned product image, or a
// placeholder when the product has none.
func (i CartItem) PrimaryImage() string {
	if len(i.Product.Images) == 0 {
		return placeholderImage
	}
	images := make([]ProductImage, len(i.Product.Images))
	copy(images, i.Product.Images)
	sort.Slice(images, func(a, b int) bool { return images[a].Position < images[b].Position })
	return images[0].ImageURL
}

// TotalItemCount sums the quantities of all lines. Safe on a nil cart.
func (c *Cart) TotalItemCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) HasCoupon() bool {
	return c != nil && c.CouponCode != ""
}

// DisplaySubtotal and friends are the display accessors: they only coerce,
// they never derive. A nil cart reads as zero everywhere.
func (c *Cart) DisplaySubtotal() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c.Subtotal
}

func (c *Cart) DisplayShipping() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c.Shipping
}

func (c *Cart) DisplayDiscount() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c.Discount
}

func (c *Cart) DisplayTotal() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c.Total
}

// Validate rejects malformed snapshots at the transport boundary so that
// later code never sees undefined fields.
func (c *Cart) Validate() error {
	if c == nil {
		return fmt.Errorf("cart payload missing")
	}
	for idx, item := range c.Items {
		if item.ID == 0 {
			return fmt.Errorf("cart item %d: missing line id", idx)
		}
		if item.ProductID == 0 {
			return fmt.Errorf("cart item %d: missing product id", idx)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("cart item %d: quantity %d below 1", idx, item.Quantity)
		}
	}
	return nil
}
