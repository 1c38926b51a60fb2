package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-user collection of line items awaiting checkout.
type Cart struct {
	UserID    string     `json:"user" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is a single product line in a cart. Price is the snapshot taken
// when the product was first added.
type CartItem struct {
	ID        uuid.UUID       `json:"_id" db:"id"`
	ProductID string          `json:"product" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	AddedAt   time.Time       `json:"addedAt" db:"added_at"`

	// Populated from the products table on read.
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Stock int    `json:"stock"`
}

// Subtotal returns the sum of price*quantity over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// FindItem returns the line with the given id, or nil.
func (c *Cart) FindItem(id uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// FindProduct returns the line holding the given product, or nil.
func (c *Cart) FindProduct(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddToCartRequest represents the request payload for adding a product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateCartItemRequest represents the request payload for changing a line quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
