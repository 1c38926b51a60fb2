package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chandan-mishra846/ecommerce-backend/internal/config"
	"github.com/chandan-mishra846/ecommerce-backend/internal/database"

	"github.com/shopspring/decimal"
)

// Seeds a small catalogue for local development. Existing rows are left
// untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	products := []struct {
		id, name, category, seller string
		price                      string
		stock                      int
	}{
		{"P001", "Ceramic Mug", "Kitchen", "seller-1", "249.00", 40},
		{"P002", "Cotton Tote Bag", "Accessories", "seller-1", "399.00", 25},
		{"P003", "Wireless Mouse", "Electronics", "seller-2", "899.00", 15},
		{"P004", "Notebook A5", "Stationery", "seller-2", "129.50", 100},
		{"P005", "Desk Lamp", "Home", "", "1499.00", 0},
	}

	inserted := 0
	for _, p := range products {
		tag, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, price, stock, category, seller_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, decimal.RequireFromString(p.price), p.stock, p.category, p.seller,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed product %s: %v\n", p.id, err)
			os.Exit(1)
		}
		inserted += int(tag.RowsAffected())
	}

	fmt.Printf("Seeded %d of %d products\n", inserted, len(products))
}
