package service

import (
	"context"
	"sync"
	"testing"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockFixture(stock, threshold int) *fakeStore {
	f := newFakeStore()
	f.addProduct(models.Product{
		ID:                1,
		CategoryID:        1,
		Status:            models.ProductStatusActive,
		StockQuantity:     stock,
		LowStockThreshold: threshold,
	})
	return f
}

func TestDecreaseStock(t *testing.T) {
	f := stockFixture(10, 2)
	svc := newTestService(f)

	ok, err := svc.DecreaseStock(context.Background(), 1, 4, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 6, f.stockOf(1))
}

func TestDecreaseStockInsufficient(t *testing.T) {
	f := stockFixture(3, 2)
	svc := newTestService(f)

	ok, err := svc.DecreaseStock(context.Background(), 1, 7, "")
	require.NoError(t, err, "insufficient stock is a business outcome, not an error")
	assert.False(t, ok)
	assert.Equal(t, 3, f.stockOf(1), "stock untouched")
}

func TestDecreaseStockInvalidQuantity(t *testing.T) {
	f := stockFixture(10, 2)
	svc := newTestService(f)

	for _, qty := range []int{0, -3} {
		ok, err := svc.DecreaseStock(context.Background(), 1, qty, "")
		require.Error(t, err)
		assert.True(t, catalog.IsValidationError(err))
		assert.False(t, ok)
	}
	assert.Equal(t, 10, f.stockOf(1))
}

func TestDecreaseStockConcurrentExactlyOneWins(t *testing.T) {
	f := stockFixture(10, 0)
	svc := newTestService(f)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := svc.DecreaseStock(context.Background(), 1, 7, "")
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	assert.NotEqual(t, results[0], results[1], "exactly one of two 7-unit decrements may succeed on stock 10")
	assert.Equal(t, 3, f.stockOf(1), "final stock is 3, never negative")
}

func TestDecreaseStockIdempotencyKeySuppressesRetry(t *testing.T) {
	f := stockFixture(10, 0)
	idem := newFakeIdem()
	svc := NewCatalogService(f, idem, nil, Options{DefaultLimit: 12, MaxLimit: 100})

	ok, err := svc.DecreaseStock(context.Background(), 1, 4, "order-77")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 6, f.stockOf(1))

	// blind retry of the same intent deducts nothing
	ok, err = svc.DecreaseStock(context.Background(), 1, 4, "order-77")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 6, f.stockOf(1))

	// a different intent still goes through
	ok, err = svc.DecreaseStock(context.Background(), 1, 4, "order-78")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, f.stockOf(1))
}

func TestDecreaseStockReleasesKeyWhenInsufficient(t *testing.T) {
	f := stockFixture(1, 0)
	idem := newFakeIdem()
	svc := NewCatalogService(f, idem, nil, Options{DefaultLimit: 12, MaxLimit: 100})

	ok, err := svc.DecreaseStock(context.Background(), 1, 5, "order-99")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, idem.has("order-99"), "nothing was deducted, so the key must be free")

	// restock, then retry the same intent
	f.mu.Lock()
	f.products[0].StockQuantity = 10
	f.mu.Unlock()

	ok, err = svc.DecreaseStock(context.Background(), 1, 5, "order-99")
	require.NoError(t, err)
	assert.True(t, ok, "retry after a restock must go through")
	assert.Equal(t, 5, f.stockOf(1))
}

func TestDecreaseStockReleasesKeyOnStorageFailure(t *testing.T) {
	f := stockFixture(10, 0)
	f.failDecrease = true
	idem := newFakeIdem()
	svc := NewCatalogService(f, idem, nil, Options{DefaultLimit: 12, MaxLimit: 100})

	_, err := svc.DecreaseStock(context.Background(), 1, 4, "order-79")
	require.Error(t, err)
	assert.False(t, idem.has("order-79"), "key released so the caller may retry")
}

func TestDecreaseStockPublishesEvents(t *testing.T) {
	f := stockFixture(6, 5)
	pub := &fakePublisher{}
	svc := NewCatalogService(f, nil, pub, Options{DefaultLimit: 12, MaxLimit: 100})

	ok, err := svc.DecreaseStock(context.Background(), 1, 2, "")
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, pub.decreased, 1)
	assert.Equal(t, models.EventTypeStockDecreased, pub.decreased[0].EventType)
	assert.Equal(t, int64(1), pub.decreased[0].ProductID)
	assert.Equal(t, 2, pub.decreased[0].Quantity)
	assert.Equal(t, 4, pub.decreased[0].Remaining)

	// remaining 4 <= threshold 5 triggers the low-stock event
	require.Len(t, pub.lowStock, 1)
	assert.Equal(t, 4, pub.lowStock[0].Remaining)
	assert.Equal(t, 5, pub.lowStock[0].Threshold)
}

func TestDecreaseStockNoLowStockEventAboveThreshold(t *testing.T) {
	f := stockFixture(20, 5)
	pub := &fakePublisher{}
	svc := NewCatalogService(f, nil, pub, Options{DefaultLimit: 12, MaxLimit: 100})

	ok, err := svc.DecreaseStock(context.Background(), 1, 2, "")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, pub.decreased, 1)
	assert.Empty(t, pub.lowStock)
}

func TestDecreaseStockInsufficientPublishesNothing(t *testing.T) {
	f := stockFixture(1, 0)
	pub := &fakePublisher{}
	svc := NewCatalogService(f, nil, pub, Options{DefaultLimit: 12, MaxLimit: 100})

	ok, err := svc.DecreaseStock(context.Background(), 1, 5, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, pub.decreased)
	assert.Empty(t, pub.lowStock)
}
