package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"

	"github.com/rs/zerolog"
)

type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// normaliseIDs trims, drops blanks and removes duplicates, keeping order.
func normaliseIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *productService) List(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	if len(q.IDs) > 0 {
		return s.lookup(ctx, q.IDs)
	}

	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = model.DefaultPageSize
	}
	limit = min(limit, model.MaxPageSize)
	offset = max(offset, 0)

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("listed products")

	return products, nil
}

// lookup resolves a batch of product IDs. Unknown IDs are omitted.
func (s *productService) lookup(ctx context.Context, raw []string) ([]model.Product, error) {
	ids := normaliseIDs(raw)
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	if len(ids) > model.MaxPageSize {
		return nil, model.NewDomainError(model.KindValidation, model.ErrCodeValidationFailed,
			fmt.Sprintf("At most %d product IDs can be requested at once", model.MaxPageSize))
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to look up products")
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}

	if len(products) < len(ids) {
		s.logger.Debug().
			Int("requested", len(ids)).
			Int("found", len(products)).
			Msg("some requested products do not exist")
	}

	return products, nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
