package repository

import (
	"context"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product and stock data access.
type ProductRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// DecrementStock removes qty units only if at least qty are available and
	// returns the remaining stock. Fails with ErrProductNotFound or
	// ErrInsufficientStock and leaves stock unchanged.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) (int, error)

	// IncrementStock adds qty units and returns the new stock level.
	IncrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) (int, error)

	// SetStock overwrites the stock level.
	SetStock(ctx context.Context, tx pgx.Tx, id string, level int) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByUser retrieves the cart with product details. Returns nil when the user has no cart.
	GetByUser(ctx context.Context, userID string) (*model.Cart, error)

	// EnsureCart creates the cart if needed and locks it for the transaction.
	EnsureCart(ctx context.Context, tx pgx.Tx, userID string) error

	// LockCart locks an existing cart. Returns false when the cart does not exist.
	LockCart(ctx context.Context, tx pgx.Tx, userID string) (bool, error)

	// GetItem retrieves a cart line by ID. Returns nil when absent.
	GetItem(ctx context.Context, tx pgx.Tx, userID string, itemID uuid.UUID) (*model.CartItem, error)

	// GetItemByProduct retrieves the cart line holding a product. Returns nil when absent.
	GetItemByProduct(ctx context.Context, tx pgx.Tx, userID, productID string) (*model.CartItem, error)

	// InsertItem appends a new line to the cart.
	InsertItem(ctx context.Context, tx pgx.Tx, userID string, item *model.CartItem) error

	// UpdateItemQuantity sets the quantity of an existing line.
	UpdateItemQuantity(ctx context.Context, tx pgx.Tx, userID string, itemID uuid.UUID, qty int) error

	// DeleteItem removes a line. Returns false when the line did not exist.
	DeleteItem(ctx context.Context, tx pgx.Tx, userID string, itemID uuid.UUID) (bool, error)

	// ClearItems removes every line and returns how many were removed.
	ClearItems(ctx context.Context, tx pgx.Tx, userID string) (int64, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts an order and its items within the provided transaction.
	// Fails with ErrDuplicatePayment when the payment is already attached to an order.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate retrieves and row-locks an order. Returns nil when absent.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// GetByPaymentID retrieves the order created for a gateway payment. Returns nil when absent.
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus sets the order status and delivered timestamp.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, deliveredAt *time.Time) error

	// Delete removes an order and its items.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}
