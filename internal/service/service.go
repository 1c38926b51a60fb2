package service

import (
	"context"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/chandan-mishra846/ecommerce-backend/internal/service")

// ProductService serves catalogue reads.
type ProductService interface {
	// List returns a page of the catalogue, or the named products when
	// q.IDs is set.
	List(ctx context.Context, q model.ProductQuery) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// InventoryService is the stock ledger. Decrement and Restock join the
// caller's transaction; AddStock and SetStock run their own.
type InventoryService interface {
	// Decrement removes qty units, failing with ErrProductNotFound or
	// ErrInsufficientStock and leaving stock unchanged.
	Decrement(ctx context.Context, tx pgx.Tx, productID string, qty int) (int, error)

	// Restock returns qty units to stock.
	Restock(ctx context.Context, tx pgx.Tx, productID string, qty int) (int, error)

	// AddStock restocks a product on behalf of an admin or its seller.
	AddStock(ctx context.Context, principal model.Principal, productID string, qty int) (*model.Product, error)

	// SetStock overwrites a product's stock level on behalf of an admin or its seller.
	SetStock(ctx context.Context, principal model.Principal, productID string, level int) (*model.Product, error)
}

// CartService defines operations on a user's cart.
type CartService interface {
	// Get returns the user's cart, or an empty cart when none exists.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem adds qty units of a product, merging with an existing line.
	AddItem(ctx context.Context, userID, productID string, qty int) (*model.Cart, error)

	// SetQuantity replaces the quantity of a cart line.
	SetQuantity(ctx context.Context, userID string, itemID uuid.UUID, qty int) (*model.Cart, error)

	// RemoveItem removes a cart line. Removing an absent line is a no-op.
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*model.Cart, error)

	// Clear removes every line from the cart.
	Clear(ctx context.Context, userID string) (*model.Cart, error)
}

// OrderService materializes and reads orders.
type OrderService interface {
	// CreateOrder persists an order for a verified payment. Replaying the
	// same payment returns the existing order.
	CreateOrder(ctx context.Context, principal model.Principal, in *model.CreateOrderInput) (*model.Order, error)

	// GetByID retrieves an order visible to the principal.
	GetByID(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error)

	// ListMine retrieves the principal's orders.
	ListMine(ctx context.Context, principal model.Principal) ([]model.Order, error)

	// ListAll retrieves every order with the sum of their totals.
	ListAll(ctx context.Context) (*model.OrderList, error)
}

// LifecycleService moves orders through their fulfilment states.
type LifecycleService interface {
	// Transition changes an order's status.
	Transition(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// Delete removes a delivered order.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentService ties gateway operations to order creation.
type PaymentService interface {
	// CreateIntent registers an amount with a gateway before checkout.
	CreateIntent(ctx context.Context, principal model.Principal, kind model.GatewayKind, req payment.IntentRequest) (*model.PaymentIntent, error)

	// PublicKey returns the browser-facing key of a gateway.
	PublicKey(kind model.GatewayKind) (string, error)

	// VerifyAndCreateOrder verifies a payment for the order total and
	// materializes the order.
	VerifyAndCreateOrder(ctx context.Context, principal model.Principal, conf model.PaymentConfirmation, in *model.CreateOrderInput) (*model.Order, error)

	// HandleWebhook authenticates and processes a gateway notification.
	HandleWebhook(ctx context.Context, kind model.GatewayKind, body []byte, signature string) error
}
