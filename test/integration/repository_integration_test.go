package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/reconcile"
	"github.com/chandan-mishra846/ecommerce-backend/internal/repository"
	"github.com/chandan-mishra846/ecommerce-backend/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T, testDB *TestDB) service.OrderService {
	t.Helper()
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	inventory := service.NewInventoryService(productRepo, nil, logger)

	return service.NewOrderService(orderRepo, cartRepo, inventory,
		reconcile.NewFileRecorder(t.TempDir(), logger),
		service.OrderOptions{StockPolicy: service.StockPolicyAbort}, nil, logger)
}

func orderInput(paymentID, productID string, qty int, price int64) *model.CreateOrderInput {
	total := decimal.NewFromInt(price * int64(qty))
	return &model.CreateOrderInput{
		Payment: model.VerifiedPayment{
			Gateway:       model.GatewayRazorpay,
			TransactionID: paymentID,
			GatewayStatus: "captured",
			Status:        model.PaymentSucceeded,
			AmountMinor:   total.IntPart() * 100,
			Currency:      "INR",
			VerifiedAt:    time.Now(),
		},
		Shipping: model.ShippingInput{
			Address: "12 MG Road", City: "Pune", State: "MH", Country: "India",
			Pincode: "411001", PhoneNumber: "9876543210",
		},
		Items: []model.OrderItemInput{
			{ProductID: productID, Name: "Item", Price: decimal.NewFromInt(price), Quantity: qty},
		},
		Prices: model.PriceBreakdown{
			ItemPrice:     total,
			TaxPrice:      decimal.Zero,
			ShippingPrice: decimal.Zero,
			TotalPrice:    total,
		},
	}
}

func TestConcurrentCheckout_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	orders := newOrderService(t, testDB)
	ctx := context.Background()
	buyer := model.Principal{ID: "user-1", Role: model.RoleUser}

	t.Run("stock is never oversold", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// P005 has 3 units.
		const buyers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			rejected  int
		)
		for i := range buyers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := orders.CreateOrder(ctx, buyer, orderInput(fmt.Sprintf("pay_race_%d", i), "P005", 1, 12))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, model.ErrInsufficientStock):
					rejected++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 3, succeeded)
		assert.Equal(t, buyers-3, rejected)
		assert.Equal(t, 0, StockOf(t, testDB.Pool, "P005"))
		assert.Equal(t, 3, CountOrders(t, testDB.Pool))
	})

	t.Run("one payment yields one order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		const attempts = 5
		ids := make(chan uuid.UUID, attempts)
		var wg sync.WaitGroup
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				order, err := orders.CreateOrder(ctx, buyer, orderInput("pay_same", "P001", 2, 50))
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				ids <- order.ID
			}()
		}
		wg.Wait()
		close(ids)

		seen := map[uuid.UUID]bool{}
		for id := range ids {
			seen[id] = true
		}
		assert.Len(t, seen, 1)
		assert.Equal(t, 1, CountOrders(t, testDB.Pool))
		assert.Equal(t, 8, StockOf(t, testDB.Pool, "P001"))
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewOrderRepository(testDB.Pool, zerolog.Nop())
	orders := newOrderService(t, testDB)
	ctx := context.Background()

	t.Run("order items are a snapshot of the catalogue", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		created, err := orders.CreateOrder(ctx, model.Principal{ID: "user-1"}, orderInput("pay_snap", "P004", 1, 40))
		require.NoError(t, err)

		_, err = testDB.Pool.Exec(ctx, "DELETE FROM products WHERE id = 'P004'")
		require.NoError(t, err)

		order, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, order)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "P004", order.Items[0].ProductID)
		assert.True(t, decimal.NewFromInt(40).Equal(order.Items[0].Price))
		assert.Equal(t, int64(411001), order.ShippingInfo.Pincode)
	})

	t.Run("Transaction rollback", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		order := &model.Order{
			ID:     uuid.New(),
			UserID: "user-1",
			PaymentInfo: model.PaymentInfo{
				ID: "pay_rollback", Status: model.PaymentSucceeded, Gateway: model.GatewayRazorpay,
			},
			PriceBreakdown: model.PriceBreakdown{
				ItemPrice: decimal.NewFromInt(1), TaxPrice: decimal.Zero,
				ShippingPrice: decimal.Zero, TotalPrice: decimal.NewFromInt(1),
			},
			Status: model.StatusProcessing,
			PaidAt: time.Now(),
		}
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Rollback(ctx))

		retrieved, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, retrieved)

		existing, err := repo.GetByPaymentID(ctx, "pay_rollback")
		require.NoError(t, err)
		assert.Nil(t, existing)
	})
}
