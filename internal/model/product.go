package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue product with its current stock level.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	Category    string          `json:"category" db:"category"`
	Image       string          `json:"image,omitempty" db:"image"`
	SellerID    string          `json:"seller,omitempty" db:"seller_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// StockAdjustment is the request payload for restock and stock level updates.
type StockAdjustment struct {
	Quantity int `json:"quantity"`
}

// Catalogue paging bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ProductQuery selects catalogue products. IDs, when non-empty, takes
// precedence over paging.
type ProductQuery struct {
	Limit  int
	Offset int
	IDs    []string
}
