package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chandan-mishra846/ecommerce-backend/internal/metrics"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_Decrement(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		qty        int
		repoLeft   int
		repoErr    error
		wantLeft   int
		wantErr    error
		wantReason string
	}{
		{name: "enough stock", qty: 2, repoLeft: 3, wantLeft: 3},
		{name: "exactly the remaining stock", qty: 5, repoLeft: 0, wantLeft: 0},
		{
			name:       "insufficient stock",
			qty:        6,
			repoErr:    model.NewInsufficientStockError(5),
			wantErr:    model.ErrInsufficientStock,
			wantReason: "insufficient_stock",
		},
		{
			name:       "unknown product",
			qty:        1,
			repoErr:    model.ErrProductNotFound,
			wantErr:    model.ErrProductNotFound,
			wantReason: "product_not_found",
		},
		{name: "zero quantity", qty: 0, wantErr: model.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			m := metrics.NewNop()
			service := NewInventoryService(repo, m, zerolog.Nop())
			tx := new(MockTx)

			if tt.qty > 0 {
				repo.On("DecrementStock", mock.Anything, tx, "P1", tt.qty).Return(tt.repoLeft, tt.repoErr)
			}

			left, err := service.Decrement(ctx, tx, "P1", tt.qty)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantReason != "" {
					assert.Equal(t, 1.0, testutil.ToFloat64(m.StockConflicts.WithLabelValues("order", tt.wantReason)))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, left)
			repo.AssertExpectations(t)
		})
	}
}

func TestInventoryService_Decrement_DatabaseError(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewInventoryService(repo, nil, zerolog.Nop())
	tx := new(MockTx)
	repo.On("DecrementStock", mock.Anything, tx, "P1", 1).Return(0, errors.New("connection reset"))

	_, err := service.Decrement(context.Background(), tx, "P1", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrement stock")
	var domainErr *model.DomainError
	assert.False(t, errors.As(err, &domainErr))
}

func TestInventoryService_Restock(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := NewInventoryService(repo, nil, zerolog.Nop())
	tx := new(MockTx)

	repo.On("IncrementStock", mock.Anything, tx, "P1", 2).Return(7, nil)
	repo.On("IncrementStock", mock.Anything, tx, "GONE", 1).Return(0, model.ErrProductNotFound)

	level, err := service.Restock(ctx, tx, "P1", 2)
	require.NoError(t, err)
	assert.Equal(t, 7, level)

	_, err = service.Restock(ctx, tx, "GONE", 1)
	assert.Equal(t, model.ErrProductNotFound, err)

	_, err = service.Restock(ctx, tx, "P1", 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestInventoryService_AddStock_Authorization(t *testing.T) {
	ctx := context.Background()
	owned := &model.Product{ID: "P1", Name: "Mug", Stock: 5, SellerID: "seller-1"}

	tests := []struct {
		name      string
		principal model.Principal
		product   *model.Product
		wantErr   error
	}{
		{name: "admin", principal: model.Principal{ID: "admin-1", Role: model.RoleAdmin}},
		{name: "owning seller", principal: model.Principal{ID: "seller-1", Role: model.RoleSeller}, product: owned},
		{
			name:      "other seller",
			principal: model.Principal{ID: "seller-2", Role: model.RoleSeller},
			product:   owned,
			wantErr:   model.ErrForbidden,
		},
		{name: "buyer", principal: model.Principal{ID: "user-1", Role: model.RoleUser}, wantErr: model.ErrForbidden},
		{
			name:      "seller on unknown product",
			principal: model.Principal{ID: "seller-1", Role: model.RoleSeller},
			wantErr:   model.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			service := NewInventoryService(repo, nil, zerolog.Nop())

			if tt.principal.Role == model.RoleSeller {
				repo.On("GetByID", mock.Anything, "P1").Return(tt.product, nil).Once()
			}
			if tt.wantErr == nil {
				tx := newCommitTx()
				repo.On("BeginTx", mock.Anything).Return(tx, nil)
				repo.On("IncrementStock", mock.Anything, tx, "P1", 3).Return(8, nil)
				repo.On("GetByID", mock.Anything, "P1").Return(&model.Product{ID: "P1", Stock: 8}, nil)
			}

			product, err := service.AddStock(ctx, tt.principal, "P1", 3)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "BeginTx", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 8, product.Stock)
			repo.AssertExpectations(t)
		})
	}
}

func TestInventoryService_SetStock(t *testing.T) {
	ctx := context.Background()
	admin := model.Principal{ID: "admin-1", Role: model.RoleAdmin}

	t.Run("sets level", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewInventoryService(repo, nil, zerolog.Nop())
		tx := newCommitTx()
		repo.On("BeginTx", mock.Anything).Return(tx, nil)
		repo.On("SetStock", mock.Anything, tx, "P1", 0).Return(nil)
		repo.On("GetByID", mock.Anything, "P1").Return(&model.Product{ID: "P1", Stock: 0}, nil)

		product, err := service.SetStock(ctx, admin, "P1", 0)

		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)
		assert.True(t, tx.committed)
	})

	t.Run("negative level", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewInventoryService(repo, nil, zerolog.Nop())

		_, err := service.SetStock(ctx, admin, "P1", -1)

		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
		assert.Equal(t, "Stock level cannot be negative", err.Error())
	})

	t.Run("unknown product rolls back", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewInventoryService(repo, nil, zerolog.Nop())
		tx := newRollbackTx()
		repo.On("BeginTx", mock.Anything).Return(tx, nil)
		repo.On("SetStock", mock.Anything, tx, "P9", 4).Return(model.ErrProductNotFound)

		_, err := service.SetStock(ctx, admin, "P9", 4)

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.True(t, tx.rolledBack)
	})
}
