package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// transitions lists the allowed status changes.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusProcessing: {model.StatusShipped, model.StatusCancelled},
	model.StatusShipped:    {model.StatusDelivered},
}

// CheckTransition reports whether an order may move from one status to another.
func CheckTransition(from, to model.OrderStatus) error {
	if from == model.StatusDelivered {
		return model.ErrAlreadyDelivered
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return model.ErrInvalidTransition.WithMessage("Cannot change order status from %s to %s", from, to)
}

// lifecycleService implements LifecycleService.
type lifecycleService struct {
	orderRepo repository.OrderRepository
	inventory InventoryService
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLifecycleService creates a new order lifecycle service.
func NewLifecycleService(
	orderRepo repository.OrderRepository,
	inventory InventoryService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) LifecycleService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &lifecycleService{
		orderRepo: orderRepo,
		inventory: inventory,
		metrics:   m,
		logger:    logger.With().Str("service", "order_lifecycle").Logger(),
		now:       time.Now,
	}
}

// Transition changes an order's status. Cancelling returns every line's
// quantity to stock; delivering stamps the delivery time.
func (s *lifecycleService) Transition(ctx context.Context, id uuid.UUID, status model.OrderStatus) (order *model.Order, err error) {
	ctx, span := tracer.Start(ctx, "order.Transition", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	order, err = s.orderRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	from := order.Status
	if err = CheckTransition(from, status); err != nil {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(status)).
			Msg("order status transition rejected")
		return nil, err
	}

	var deliveredAt *time.Time
	switch status {
	case model.StatusDelivered:
		now := s.now()
		deliveredAt = &now
	case model.StatusCancelled:
		if err = s.restock(ctx, tx, order); err != nil {
			return nil, err
		}
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, id, status, deliveredAt); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	order.Status = status
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}
	order.UpdatedAt = s.now()

	s.metrics.OrderTransitions.WithLabelValues(string(from), string(status)).Inc()
	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("order status updated")
	return order, nil
}

// restock returns the order's quantities to stock. Products removed from
// the catalogue since the order was placed are skipped.
func (s *lifecycleService) restock(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	for _, item := range order.Items {
		if _, err := s.inventory.Restock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, model.ErrProductNotFound) {
				s.logger.Warn().
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID).
					Msg("product no longer exists, skipping restock")
				continue
			}
			return err
		}
	}
	return nil
}

// Delete removes an order. Only delivered orders may be deleted.
func (s *lifecycleService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return err
	}
	if order.Status != model.StatusDelivered {
		err = model.ErrOrderNotDeletable
		return err
	}

	if err = s.orderRepo.Delete(ctx, tx, id); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}
