package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// inventoryService implements InventoryService.
type inventoryService struct {
	productRepo repository.ProductRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(productRepo repository.ProductRepository, m *metrics.Metrics, logger zerolog.Logger) InventoryService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &inventoryService{
		productRepo: productRepo,
		metrics:     m,
		logger:      logger.With().Str("service", "inventory").Logger(),
	}
}

func (s *inventoryService) Decrement(ctx context.Context, tx pgx.Tx, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, model.ErrInvalidQuantity
	}

	remaining, err := s.productRepo.DecrementStock(ctx, tx, productID, qty)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			s.metrics.StockConflicts.WithLabelValues("order", "product_not_found").Inc()
		case errors.Is(err, model.ErrInsufficientStock):
			s.metrics.StockConflicts.WithLabelValues("order", "insufficient_stock").Inc()
		default:
			s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to decrement stock")
			return 0, fmt.Errorf("failed to decrement stock: %w", err)
		}
		s.logger.Warn().
			Err(err).
			Str("product_id", productID).
			Int("quantity", qty).
			Msg("stock decrement rejected")
		return 0, err
	}

	s.logger.Debug().
		Str("product_id", productID).
		Int("quantity", qty).
		Int("remaining", remaining).
		Msg("stock decremented")
	return remaining, nil
}

func (s *inventoryService) Restock(ctx context.Context, tx pgx.Tx, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, model.ErrInvalidQuantity
	}

	level, err := s.productRepo.IncrementStock(ctx, tx, productID, qty)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return 0, err
		}
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to restock product")
		return 0, fmt.Errorf("failed to restock product: %w", err)
	}

	s.logger.Debug().
		Str("product_id", productID).
		Int("quantity", qty).
		Int("stock", level).
		Msg("product restocked")
	return level, nil
}

func (s *inventoryService) AddStock(ctx context.Context, principal model.Principal, productID string, qty int) (product *model.Product, err error) {
	if qty < 1 {
		return nil, model.ErrInvalidQuantity
	}
	if err = s.authorize(ctx, principal, productID); err != nil {
		return nil, err
	}

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restock product: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if _, err = s.Restock(ctx, tx, productID, qty); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to restock product: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID).
		Str("user_id", principal.ID).
		Int("quantity", qty).
		Msg("stock added")
	return s.reload(ctx, productID)
}

func (s *inventoryService) SetStock(ctx context.Context, principal model.Principal, productID string, level int) (product *model.Product, err error) {
	if level < 0 {
		return nil, model.ErrInvalidQuantity.WithMessage("Stock level cannot be negative")
	}
	if err = s.authorize(ctx, principal, productID); err != nil {
		return nil, err
	}

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if err = s.productRepo.SetStock(ctx, tx, productID, level); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to set stock")
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID).
		Str("user_id", principal.ID).
		Int("stock", level).
		Msg("stock level set")
	return s.reload(ctx, productID)
}

// authorize lets admins manage any product and sellers only their own.
func (s *inventoryService) authorize(ctx context.Context, principal model.Principal, productID string) error {
	if principal.IsAdmin() {
		return nil
	}
	if !principal.HasRole(model.RoleSeller) {
		return model.ErrForbidden
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	if product.SellerID != principal.ID {
		s.logger.Warn().
			Str("product_id", productID).
			Str("user_id", principal.ID).
			Msg("seller attempted to manage another seller's stock")
		return model.ErrForbidden
	}
	return nil
}

func (s *inventoryService) reload(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}
