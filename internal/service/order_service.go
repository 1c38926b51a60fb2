package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/reconcile"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StockPolicy decides what happens when an ordered product cannot be
// reserved.
type StockPolicy string

const (
	// StockPolicyAbort rejects the whole order.
	StockPolicyAbort StockPolicy = "abort"
	// StockPolicySkip records the line but leaves stock untouched.
	StockPolicySkip StockPolicy = "skip"
)

// OrderOptions configures order materialization.
type OrderOptions struct {
	StockPolicy StockPolicy
	ClearCart   bool
}

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	inventory InventoryService
	recorder  reconcile.Recorder
	opts      OrderOptions
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	inventory InventoryService,
	recorder reconcile.Recorder,
	opts OrderOptions,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	if opts.StockPolicy == "" {
		opts.StockPolicy = StockPolicyAbort
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		inventory: inventory,
		recorder:  recorder,
		opts:      opts,
		metrics:   m,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// CreateOrder persists an order for a verified payment.
func (s *orderService) CreateOrder(ctx context.Context, principal model.Principal, in *model.CreateOrderInput) (*model.Order, error) {
	shipping, err := ValidateOrderInput(in)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", principal.ID).Msg("invalid order input")
		return nil, err
	}

	paymentID := in.Payment.TransactionID
	gateway := string(in.Payment.Gateway)

	ctx, span := tracer.Start(ctx, "order.Create", trace.WithAttributes(
		attribute.String("payment.id", paymentID),
		attribute.String("payment.gateway", gateway),
		attribute.Int("order.items", len(in.Items)),
	))
	defer span.End()

	existing, err := s.orderRepo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_id", paymentID).Msg("failed to look up order by payment")
		return nil, s.lostPayment(ctx, principal, in, fmt.Errorf("failed to create order: %w", err))
	}
	if existing != nil {
		return s.replay(principal, existing)
	}

	now := s.now()
	order := &model.Order{
		ID:           uuid.New(),
		UserID:       principal.ID,
		ShippingInfo: shipping,
		PaymentInfo: model.PaymentInfo{
			ID:      paymentID,
			Status:  in.Payment.Status,
			Gateway: in.Payment.Gateway,
		},
		PriceBreakdown: in.Prices,
		Status:         model.StatusProcessing,
		PaidAt:         now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.Items = make([]model.OrderItem, len(in.Items))
	for i, item := range in.Items {
		order.Items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		}
	}
	span.SetAttributes(attribute.String("order.id", order.ID.String()))

	if err := s.persist(ctx, order); err != nil {
		if errors.Is(err, model.ErrDuplicatePayment) {
			return s.resolveDuplicate(ctx, principal, paymentID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "order not persisted")
		s.metrics.Orders.WithLabelValues(gateway, "failed").Inc()
		return nil, s.lostPayment(ctx, principal, in, err)
	}

	s.metrics.Orders.WithLabelValues(gateway, "created").Inc()
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", principal.ID).
		Str("payment_id", paymentID).
		Int("item_count", len(order.Items)).
		Str("total", order.TotalPrice.String()).
		Msg("order created successfully")

	return order, nil
}

// persist writes the order, reserves stock and optionally clears the cart
// in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		if errors.Is(err, model.ErrDuplicatePayment) {
			return err
		}
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		if _, err = s.inventory.Decrement(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if s.opts.StockPolicy == StockPolicySkip && isStockConflict(err) {
				s.logger.Warn().
					Err(err).
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID).
					Int("quantity", item.Quantity).
					Msg("stock not reserved, line kept")
				err = nil
				continue
			}
			return err
		}
	}

	if s.opts.ClearCart {
		var cleared int64
		if cleared, err = s.cartRepo.ClearItems(ctx, tx, order.UserID); err != nil {
			s.logger.Error().Err(err).Str("user_id", order.UserID).Msg("failed to clear cart")
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		s.logger.Debug().Str("user_id", order.UserID).Int64("removed", cleared).Msg("cart cleared after order")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func isStockConflict(err error) bool {
	return errors.Is(err, model.ErrProductNotFound) || errors.Is(err, model.ErrInsufficientStock)
}

// replay returns an order already created for the same payment.
func (s *orderService) replay(principal model.Principal, existing *model.Order) (*model.Order, error) {
	if existing.UserID != principal.ID {
		s.logger.Warn().
			Str("payment_id", existing.PaymentInfo.ID).
			Str("user_id", principal.ID).
			Str("owner_id", existing.UserID).
			Msg("payment already attached to another user's order")
		s.metrics.Orders.WithLabelValues(string(existing.PaymentInfo.Gateway), "duplicate").Inc()
		return nil, model.ErrDuplicatePayment
	}

	s.metrics.Orders.WithLabelValues(string(existing.PaymentInfo.Gateway), "replayed").Inc()
	s.logger.Info().
		Str("order_id", existing.ID.String()).
		Str("payment_id", existing.PaymentInfo.ID).
		Msg("order already exists for payment")
	return existing, nil
}

// resolveDuplicate handles losing the race on the payment's unique key.
func (s *orderService) resolveDuplicate(ctx context.Context, principal model.Principal, paymentID string) (*model.Order, error) {
	existing, err := s.orderRepo.GetByPaymentID(ctx, paymentID)
	if err != nil || existing == nil {
		return nil, model.ErrDuplicatePayment
	}
	return s.replay(principal, existing)
}

// lostPayment records a verified payment that has no order and returns cause.
func (s *orderService) lostPayment(ctx context.Context, principal model.Principal, in *model.CreateOrderInput, cause error) error {
	if s.recorder == nil {
		return cause
	}

	entry := reconcile.NewEntry(&in.Payment, principal.ID, cause.Error())
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Error().
			Err(err).
			Str("payment_id", entry.PaymentID).
			Msg("failed to record payment for reconciliation")
		return cause
	}

	s.logger.Warn().
		Str("payment_id", entry.PaymentID).
		Str("entry_id", entry.ID.String()).
		Msg("verified payment recorded for reconciliation")
	return cause
}

// GetByID retrieves an order for its owner or an admin.
func (s *orderService) GetByID(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	if order.UserID != principal.ID && !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return order, nil
}

// ListMine retrieves the principal's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, principal.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", principal.ID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll retrieves every order with the sum of their totals.
func (s *orderService) ListAll(ctx context.Context) (*model.OrderList, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return &model.OrderList{Orders: orders, TotalAmount: total}, nil
}
