package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

type countingMetricsRepo struct {
	mu    sync.Mutex
	calls int
}

func (r *countingMetricsRepo) bump() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

func (r *countingMetricsRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *countingMetricsRepo) FinancialMetrics(ctx context.Context, period, propertyID string) (*entities.FinancialMetrics, error) {
	r.bump()
	return &entities.FinancialMetrics{TotalRevenue: 10000, CollectionRate: 95}, nil
}

func (r *countingMetricsRepo) OccupancyMetrics(ctx context.Context, propertyID string) (*entities.OccupancyMetrics, error) {
	r.bump()
	return &entities.OccupancyMetrics{TotalUnits: 20, OccupiedUnits: 18}, nil
}

func (r *countingMetricsRepo) MaintenanceMetrics(ctx context.Context, propertyID string) (*entities.MaintenanceMetrics, error) {
	r.bump()
	return &entities.MaintenanceMetrics{OpenRequests: 4}, nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, assert.AnError
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func awaitCacheKey(t *testing.T, cache *memoryCache, key string) {
	t.Helper()
	require.Eventually(t, func() bool {
		ok, err := cache.Exists(context.Background(), key)
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)
}

func TestCachedMetrics_SecondReadServedFromCache(t *testing.T) {
	repo := &countingMetricsRepo{}
	cache := newMemoryCache()
	cached := NewCachedMetricsAdapter(repo, cache)

	first, err := cached.FinancialMetrics(context.Background(), "month", "prop-1")
	require.NoError(t, err)
	assert.Equal(t, float64(10000), first.TotalRevenue)

	// Cache fill happens off the request path.
	awaitCacheKey(t, cache, financialMetricsCacheKey("month", "prop-1"))

	second, err := cached.FinancialMetrics(context.Background(), "month", "prop-1")
	require.NoError(t, err)
	assert.Equal(t, float64(10000), second.TotalRevenue)
	assert.Equal(t, 1, repo.callCount())
}

func TestCachedMetrics_KeysVaryByPeriodAndProperty(t *testing.T) {
	repo := &countingMetricsRepo{}
	cached := NewCachedMetricsAdapter(repo, newMemoryCache())

	_, err := cached.FinancialMetrics(context.Background(), "month", "prop-1")
	require.NoError(t, err)
	_, err = cached.FinancialMetrics(context.Background(), "year", "prop-1")
	require.NoError(t, err)
	_, err = cached.FinancialMetrics(context.Background(), "month", "prop-2")
	require.NoError(t, err)

	assert.Equal(t, 3, repo.callCount())
}

func TestCachedMetrics_OccupancyAndMaintenanceRoundtrip(t *testing.T) {
	repo := &countingMetricsRepo{}
	cache := newMemoryCache()
	cached := NewCachedMetricsAdapter(repo, cache)

	occ, err := cached.OccupancyMetrics(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 18, occ.OccupiedUnits)

	maint, err := cached.MaintenanceMetrics(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 4, maint.OpenRequests)

	awaitCacheKey(t, cache, occupancyMetricsCacheKey("prop-1"))
	awaitCacheKey(t, cache, maintenanceMetricsCacheKey("prop-1"))

	_, err = cached.OccupancyMetrics(context.Background(), "prop-1")
	require.NoError(t, err)
	_, err = cached.MaintenanceMetrics(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.callCount())
}
