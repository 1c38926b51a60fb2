package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CartService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		metrics:     m,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the user's cart, or an empty cart when none exists.
func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
	}
	return cart, nil
}

// AddItem adds qty units of a product. The cumulative quantity of the line
// may not exceed the product's current stock.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, qty int) (cart *model.Cart, err error) {
	if qty < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product_id", productID).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if err = s.cartRepo.EnsureCart(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	existing, err := s.cartRepo.GetItemByProduct(ctx, tx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	total := qty
	if existing != nil {
		total += existing.Quantity
	}
	if total > product.Stock {
		s.metrics.StockConflicts.WithLabelValues("cart", "insufficient_stock").Inc()
		s.logger.Warn().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("requested", total).
			Int("stock", product.Stock).
			Msg("cart quantity exceeds stock")
		err = model.NewInsufficientStockError(product.Stock)
		return nil, err
	}

	if existing != nil {
		err = s.cartRepo.UpdateItemQuantity(ctx, tx, userID, existing.ID, total)
	} else {
		err = s.cartRepo.InsertItem(ctx, tx, userID, &model.CartItem{
			ID:        uuid.New(),
			ProductID: productID,
			Quantity:  qty,
			Price:     product.Price,
			AddedAt:   time.Now(),
		})
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to save cart item")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("quantity", total).
		Msg("item added to cart")
	return s.Get(ctx, userID)
}

// SetQuantity replaces the quantity of a cart line.
func (s *cartService) SetQuantity(ctx context.Context, userID string, itemID uuid.UUID, qty int) (cart *model.Cart, err error) {
	if qty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if err = s.lock(ctx, tx, userID); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, tx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if item == nil {
		err = model.ErrCartItemNotFound
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if product == nil {
		err = model.ErrProductNotFound
		return nil, err
	}
	if qty > product.Stock {
		s.metrics.StockConflicts.WithLabelValues("cart", "insufficient_stock").Inc()
		err = model.NewInsufficientStockError(product.Stock)
		return nil, err
	}

	if err = s.cartRepo.UpdateItemQuantity(ctx, tx, userID, itemID, qty); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("item_id", itemID.String()).
		Int("quantity", qty).
		Msg("cart item updated")
	return s.Get(ctx, userID)
}

// RemoveItem removes a cart line. The cart must exist.
func (s *cartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (cart *model.Cart, err error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if err = s.lock(ctx, tx, userID); err != nil {
		return nil, err
	}

	removed, err := s.cartRepo.DeleteItem(ctx, tx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("item_id", itemID.String()).
		Bool("removed", removed).
		Msg("cart item removed")
	return s.Get(ctx, userID)
}

// Clear removes every line from the cart. The cart must exist.
func (s *cartService) Clear(ctx context.Context, userID string) (cart *model.Cart, err error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	defer rollbackOnError(ctx, tx, &err, s.logger)

	if err = s.lock(ctx, tx, userID); err != nil {
		return nil, err
	}

	n, err := s.cartRepo.ClearItems(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Int64("removed", n).Msg("cart cleared")
	return s.Get(ctx, userID)
}

// lock takes the cart row lock, failing when the user has no cart.
func (s *cartService) lock(ctx context.Context, tx pgx.Tx, userID string) error {
	found, err := s.cartRepo.LockCart(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to lock cart")
		return fmt.Errorf("failed to lock cart: %w", err)
	}
	if !found {
		s.logger.Debug().Str("user_id", userID).Msg("cart not found")
		return model.ErrCartNotFound
	}
	return nil
}
