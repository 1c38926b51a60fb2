package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// GetByUser retrieves the cart with product details.
func (r *cartRepository) GetByUser(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", userID).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT ci.id, ci.product_id, ci.quantity, ci.price, ci.added_at, p.name, p.image, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at, ci.id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.AddedAt, &item.Name, &item.Image, &item.Stock)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// EnsureCart creates the cart if needed. The upsert also takes the row lock.
func (r *cartRepository) EnsureCart(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, query, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to ensure cart")
		return fmt.Errorf("failed to ensure cart: %w", err)
	}
	return nil
}

// LockCart locks an existing cart for the remainder of the transaction.
func (r *cartRepository) LockCart(ctx context.Context, tx pgx.Tx, userID string) (bool, error) {
	tag, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to lock cart")
		return false, fmt.Errorf("failed to lock cart: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *cartRepository) getItem(ctx context.Context, tx pgx.Tx, where string, args ...any) (*model.CartItem, error) {
	query := `SELECT id, product_id, quantity, price, added_at FROM cart_items WHERE ` + where

	var item model.CartItem
	err := tx.QueryRow(ctx, query, args...).Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return &item, nil
}

// GetItem retrieves a cart line by ID.
func (r *cartRepository) GetItem(ctx context.Context, tx pgx.Tx, userID string, itemID uuid.UUID) (*model.CartItem, error) {
	return r.getItem(ctx, tx, `user_id = $1 AND id = $2`, userID, itemID)
}

// GetItemByProduct retrieves the cart line holding a product.
func (r *cartRepository) GetItemByProduct(ctx context.Context, tx pgx.Tx, userID, productID string) (*model.CartItem, error) {
	return r.getItem(ctx, tx, `user_id = $1 AND product_id = $2`, userID, productID)
}

// InsertItem appends a new line to the cart.
func (r *cartRepository) InsertItem(ctx context.Context, tx pgx.Tx, userID string, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, price, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.Exec(ctx, query, item.ID, userID, item.ProductID, item.Quantity, item.Price, item.AddedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", item.ProductID).
			Msg("failed to insert cart item")
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, tx pgx.Tx, userID string, itemID uuid.UUID, qty int) error {
	tag, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND id = $2`, userID, itemID, qty)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

// DeleteItem removes a line.
func (r *cartRepository) DeleteItem(ctx context.Context, tx pgx.Tx, userID string, itemID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearItems removes every line of the user's cart.
func (r *cartRepository) ClearItems(ctx context.Context, tx pgx.Tx, userID string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return tag.RowsAffected(), nil
}
