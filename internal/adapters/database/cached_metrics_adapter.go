package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
)

// CachedMetricsAdapter wraps a MetricsRepository with caching. The
// underlying aggregates scan payments, units and maintenance requests,
// so dashboard refreshes would otherwise hammer the back-office tables.
type CachedMetricsAdapter struct {
	adapter repositories.MetricsRepository
	cache   providers.CacheProvider
}

// NewCachedMetricsAdapter creates a new cached metrics adapter.
func NewCachedMetricsAdapter(adapter repositories.MetricsRepository, cache providers.CacheProvider) repositories.MetricsRepository {
	return &CachedMetricsAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	financialMetricsTTL   = 300 // payments move slowly within a period
	occupancyMetricsTTL   = 300
	maintenanceMetricsTTL = 180 // requests open and close during the day
)

func financialMetricsCacheKey(period, propertyID string) string {
	return fmt.Sprintf("metrics:financial:%s:%s", period, propertyID)
}

func occupancyMetricsCacheKey(propertyID string) string {
	return fmt.Sprintf("metrics:occupancy:%s", propertyID)
}

func maintenanceMetricsCacheKey(propertyID string) string {
	return fmt.Sprintf("metrics:maintenance:%s", propertyID)
}

// FinancialMetrics returns financial aggregates with caching.
func (a *CachedMetricsAdapter) FinancialMetrics(ctx context.Context, period, propertyID string) (*entities.FinancialMetrics, error) {
	cacheKey := financialMetricsCacheKey(period, propertyID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var metrics entities.FinancialMetrics
		if err := json.Unmarshal(cached, &metrics); err == nil {
			return &metrics, nil
		}
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached financial metrics")
	}

	metrics, err := a.adapter.FinancialMetrics(ctx, period, propertyID)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, metrics, financialMetricsTTL)
	return metrics, nil
}

// OccupancyMetrics returns occupancy aggregates with caching.
func (a *CachedMetricsAdapter) OccupancyMetrics(ctx context.Context, propertyID string) (*entities.OccupancyMetrics, error) {
	cacheKey := occupancyMetricsCacheKey(propertyID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var metrics entities.OccupancyMetrics
		if err := json.Unmarshal(cached, &metrics); err == nil {
			return &metrics, nil
		}
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached occupancy metrics")
	}

	metrics, err := a.adapter.OccupancyMetrics(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, metrics, occupancyMetricsTTL)
	return metrics, nil
}

// MaintenanceMetrics returns maintenance aggregates with caching.
func (a *CachedMetricsAdapter) MaintenanceMetrics(ctx context.Context, propertyID string) (*entities.MaintenanceMetrics, error) {
	cacheKey := maintenanceMetricsCacheKey(propertyID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var metrics entities.MaintenanceMetrics
		if err := json.Unmarshal(cached, &metrics); err == nil {
			return &metrics, nil
		}
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached maintenance metrics")
	}

	metrics, err := a.adapter.MaintenanceMetrics(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, metrics, maintenanceMetricsTTL)
	return metrics, nil
}

// storeAsync updates the cache off the request path.
func (a *CachedMetricsAdapter) storeAsync(key string, value interface{}, ttlSeconds int) {
	go func() {
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttlSeconds); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache metrics")
		}
	}()
}
