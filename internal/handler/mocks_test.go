package handler

import (
	"context"
	"net/http"

	"github.com/chandan-mishra846/ecommerce-backend/internal/middleware"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

var (
	testUser  = model.Principal{ID: "user-1", Role: model.RoleUser}
	testAdmin = model.Principal{ID: "admin-1", Role: model.RoleAdmin}
)

// as attaches a caller to the request the way the Principal middleware does.
func as(r *http.Request, p model.Principal) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), p))
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockInventoryService is a mock implementation of InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Decrement(ctx context.Context, tx pgx.Tx, productID string, qty int) (int, error) {
	args := m.Called(ctx, tx, productID, qty)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) Restock(ctx context.Context, tx pgx.Tx, productID string, qty int) (int, error) {
	args := m.Called(ctx, tx, productID, qty)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) AddStock(ctx context.Context, principal model.Principal, productID string, qty int) (*model.Product, error) {
	args := m.Called(ctx, principal, productID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockInventoryService) SetStock(ctx context.Context, principal model.Principal, productID string, level int) (*model.Product, error) {
	args := m.Called(ctx, principal, productID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*model.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID string, qty int) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID, qty))
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID string, itemID uuid.UUID, qty int) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, itemID, qty))
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, itemID))
}

func (m *MockCartService) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, principal model.Principal, in *model.CreateOrderInput) (*model.Order, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListMine(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) (*model.OrderList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderList), args.Error(1)
}

// MockLifecycleService is a mock implementation of LifecycleService.
type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) Transition(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockLifecycleService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentService is a mock implementation of PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateIntent(ctx context.Context, principal model.Principal, kind model.GatewayKind, req payment.IntentRequest) (*model.PaymentIntent, error) {
	args := m.Called(ctx, principal, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *MockPaymentService) PublicKey(kind model.GatewayKind) (string, error) {
	args := m.Called(kind)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) VerifyAndCreateOrder(ctx context.Context, principal model.Principal, conf model.PaymentConfirmation, in *model.CreateOrderInput) (*model.Order, error) {
	args := m.Called(ctx, principal, conf, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, kind model.GatewayKind, body []byte, signature string) error {
	args := m.Called(ctx, kind, body, signature)
	return args.Error(0)
}
