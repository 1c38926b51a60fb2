package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, stock, category, image, seller_id, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

func scanProduct(row rowScanner, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Image, &p.SellerID, &p.CreatedAt, &p.UpdatedAt)
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// DecrementStock performs a conditional decrement so concurrent checkouts
// can never drive stock below zero.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) (int, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`

	var remaining int
	err := tx.QueryRow(ctx, query, id, qty).Scan(&remaining)
	if err == nil {
		r.logger.Debug().
			Str("product_id", id).
			Int("quantity", qty).
			Int("remaining", remaining).
			Msg("stock decremented")
		return remaining, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to decrement stock")
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// No row matched: either the product is gone or stock is short.
	var available int
	err = tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Warn().Str("product_id", id).Msg("cannot decrement stock of missing product")
		return 0, model.ErrProductNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to read stock")
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}

	r.logger.Warn().
		Str("product_id", id).
		Int("requested", qty).
		Int("available", available).
		Msg("insufficient stock")
	return 0, model.NewInsufficientStockError(available)
}

// IncrementStock adds qty units and returns the new stock level.
func (r *productRepository) IncrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) (int, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING stock
	`

	var stock int
	if err := tx.QueryRow(ctx, query, id, qty).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return 0, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to increment stock")
		return 0, fmt.Errorf("failed to increment stock: %w", err)
	}

	return stock, nil
}

// SetStock overwrites the stock level.
func (r *productRepository) SetStock(ctx context.Context, tx pgx.Tx, id string, level int) error {
	tag, err := tx.Exec(ctx, `UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1`, id, level)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to set stock")
		return fmt.Errorf("failed to set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}
