package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	orderColumns = `id, user_id,
		shipping_address, shipping_city, shipping_state, shipping_country, shipping_pincode, shipping_phone,
		payment_id, payment_status, payment_gateway,
		item_price, tax_price, shipping_price, total_price,
		order_status, paid_at, delivered_at, created_at, updated_at`

	paymentIDConstraint = "orders_payment_id_key"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

func scanOrder(row rowScanner, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.ShippingInfo.Address,
		&o.ShippingInfo.City,
		&o.ShippingInfo.State,
		&o.ShippingInfo.Country,
		&o.ShippingInfo.Pincode,
		&o.ShippingInfo.PhoneNumber,
		&o.PaymentInfo.ID,
		&o.PaymentInfo.Status,
		&o.PaymentInfo.Gateway,
		&o.ItemPrice,
		&o.TaxPrice,
		&o.ShippingPrice,
		&o.TotalPrice,
		&o.Status,
		&o.PaidAt,
		&o.DeliveredAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// CreateOrder inserts the order row and its items within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.ShippingInfo.Address,
		order.ShippingInfo.City,
		order.ShippingInfo.State,
		order.ShippingInfo.Country,
		order.ShippingInfo.Pincode,
		order.ShippingInfo.PhoneNumber,
		order.PaymentInfo.ID,
		order.PaymentInfo.Status,
		order.PaymentInfo.Gateway,
		order.ItemPrice,
		order.TaxPrice,
		order.ShippingPrice,
		order.TotalPrice,
		order.Status,
		order.PaidAt,
		order.DeliveredAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, paymentIDConstraint) {
			r.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("payment_id", order.PaymentInfo.ID).
				Msg("payment already attached to an order")
			return model.ErrDuplicatePayment
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := r.createOrderItems(ctx, tx, order.Items); err != nil {
		return err
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return nil
}

// createOrderItems inserts multiple order items in one batch.
func (r *orderRepository) createOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Image)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// getOne runs a single-order query and attaches its items.
func (r *orderRepository) getOne(ctx context.Context, q querier, query string, args ...any) (*model.Order, error) {
	var order model.Order
	if err := scanOrder(q.QueryRow(ctx, query, args...), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{order}
	if err := r.attachItems(ctx, q, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := r.getOne(ctx, r.pool, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err == nil && order == nil {
		r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
	}
	return order, err
}

// GetByIDForUpdate retrieves and row-locks an order within the transaction.
func (r *orderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, tx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// GetByPaymentID retrieves the order created for a gateway payment.
func (r *orderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	return r.getOne(ctx, r.pool, `SELECT `+orderColumns+` FROM orders WHERE payment_id = $1`, paymentID)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, r.pool, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAll retrieves every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// attachItems loads the items of every order in one query.
func (r *orderRepository) attachItems(ctx context.Context, q querier, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query := `
		SELECT id, order_id, product_id, name, price, quantity, image
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("order_count", len(ids)).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// UpdateStatus sets the order status and delivered timestamp.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, deliveredAt *time.Time) error {
	query := `
		UPDATE orders
		SET order_status = $2, delivered_at = COALESCE($3, delivered_at), updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status, deliveredAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// Delete removes an order. Items are removed by the foreign key cascade.
func (r *orderRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}
