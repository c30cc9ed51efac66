package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

const insightCachePrefix = "insights:"

// Fixed confidence values by insight category. Deterministic defaults,
// not statistically derived.
var insightConfidence = map[string]float64{
	entities.InsightDashboard:   0.90,
	entities.InsightProperty:    0.85,
	entities.InsightTenant:      0.80,
	entities.InsightFinancial:   0.90,
	entities.InsightMaintenance: 0.85,
	entities.InsightMarketTrend: 0.70,
}

// Fixed confidence values by prediction type.
var predictionConfidence = map[entities.PredictionType]float64{
	entities.PredictRevenue:         0.78,
	entities.PredictOccupancy:       0.82,
	entities.PredictMaintenanceCost: 0.75,
	entities.PredictChurn:           0.70,
	entities.PredictMarketTrend:     0.65,
}

// HeuristicInsightProvider derives insight bundles from interaction
// statistics and read-only back-office metrics with fixed formulas.
// It satisfies providers.InsightProvider so a statistical provider can
// replace it later.
type HeuristicInsightProvider struct {
	metrics      repositories.MetricsRepository
	interactions *InteractionService
	cache        providers.CacheProvider
	config       *ConfigService
}

// NewHeuristicInsightProvider creates the default insight provider.
// cache may be nil.
func NewHeuristicInsightProvider(metrics repositories.MetricsRepository, interactions *InteractionService, config *ConfigService, cache providers.CacheProvider) *HeuristicInsightProvider {
	return &HeuristicInsightProvider{
		metrics:      metrics,
		interactions: interactions,
		cache:        cache,
		config:       config,
	}
}

// DashboardInsights summarizes occupancy, finances and search activity
// for the landing dashboard.
func (p *HeuristicInsightProvider) DashboardInsights(ctx context.Context, userID string) (*entities.Insight, error) {
	cacheKey := insightCachePrefix + "dashboard:" + userID
	if cached := p.cachedInsight(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	occupancy, err := p.metrics.OccupancyMetrics(ctx, "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
	}
	financial, err := p.metrics.FinancialMetrics(ctx, "month", "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load financial metrics", err)
	}
	trends, err := p.interactions.SearchTrends(ctx, "week")
	if err != nil {
		return nil, err
	}

	insight := p.newInsight(entities.InsightDashboard, userID, map[string]interface{}{
		"occupancy_rate":   occupancy.OccupancyRate,
		"total_units":      occupancy.TotalUnits,
		"occupied_units":   occupancy.OccupiedUnits,
		"monthly_revenue":  financial.TotalRevenue,
		"outstanding_rent": financial.OutstandingRent,
		"collection_rate":  financial.CollectionRate,
		"weekly_searches":  trends.TotalSearches,
		"search_success":   trends.SuccessRate,
	})
	p.storeInsight(ctx, cacheKey, insight)
	return insight, nil
}

// PropertyInsights combines occupancy and maintenance aggregates for
// one property.
func (p *HeuristicInsightProvider) PropertyInsights(ctx context.Context, propertyID string) (*entities.Insight, error) {
	if propertyID == "" {
		return nil, apperrors.NewValidationError("propertyId is required")
	}
	cacheKey := insightCachePrefix + "property:" + propertyID
	if cached := p.cachedInsight(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	occupancy, err := p.metrics.OccupancyMetrics(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
	}
	maintenance, err := p.metrics.MaintenanceMetrics(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load maintenance metrics", err)
	}

	insight := p.newInsight(entities.InsightProperty, propertyID, map[string]interface{}{
		"occupancy_rate":       occupancy.OccupancyRate,
		"avg_rent":             occupancy.AvgRent,
		"avg_lease_term":       occupancy.AvgLeaseTerm,
		"open_requests":        maintenance.OpenRequests,
		"avg_resolution_days":  maintenance.AvgResolution,
		"maintenance_cost":     maintenance.TotalCost,
		"maintenance_pressure": maintenancePressure(maintenance),
	})
	p.storeInsight(ctx, cacheKey, insight)
	return insight, nil
}

// TenantInsights summarizes one tenant's recorded behavior.
func (p *HeuristicInsightProvider) TenantInsights(ctx context.Context, tenantID string) (*entities.Insight, error) {
	if tenantID == "" {
		return nil, apperrors.NewValidationError("tenantId is required")
	}

	behavior, err := p.interactions.UserBehavior(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	engagement := "low"
	switch {
	case behavior.TotalSearches >= 20:
		engagement = "high"
	case behavior.TotalSearches >= 5:
		engagement = "medium"
	}

	return p.newInsight(entities.InsightTenant, tenantID, map[string]interface{}{
		"total_searches": behavior.TotalSearches,
		"total_clicks":   behavior.TotalClicks,
		"engagement":     engagement,
		"last_activity":  behavior.LastActivityAt,
	}), nil
}

// FinancialInsights reports revenue, expenses and collection health
// for a period, optionally scoped to one property.
func (p *HeuristicInsightProvider) FinancialInsights(ctx context.Context, period, propertyID string) (*entities.Insight, error) {
	if period == "" {
		period = "month"
	}
	cacheKey := insightCachePrefix + "financial:" + period + ":" + propertyID
	if cached := p.cachedInsight(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	financial, err := p.metrics.FinancialMetrics(ctx, period, propertyID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load financial metrics", err)
	}

	netIncome := financial.TotalRevenue - financial.TotalExpenses
	margin := 0.0
	if financial.TotalRevenue > 0 {
		margin = netIncome / financial.TotalRevenue * 100
	}

	insight := p.newInsight(entities.InsightFinancial, propertyID, map[string]interface{}{
		"period":           period,
		"total_revenue":    financial.TotalRevenue,
		"total_expenses":   financial.TotalExpenses,
		"net_income":       netIncome,
		"profit_margin":    margin,
		"outstanding_rent": financial.OutstandingRent,
		"collection_rate":  financial.CollectionRate,
	})
	p.storeInsight(ctx, cacheKey, insight)
	return insight, nil
}

// MaintenanceInsights reports portfolio-wide maintenance load.
func (p *HeuristicInsightProvider) MaintenanceInsights(ctx context.Context) (*entities.Insight, error) {
	cacheKey := insightCachePrefix + "maintenance"
	if cached := p.cachedInsight(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	maintenance, err := p.metrics.MaintenanceMetrics(ctx, "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load maintenance metrics", err)
	}

	total := maintenance.OpenRequests + maintenance.ClosedRequests
	closeRate := 0.0
	if total > 0 {
		closeRate = float64(maintenance.ClosedRequests) / float64(total) * 100
	}

	insight := p.newInsight(entities.InsightMaintenance, "", map[string]interface{}{
		"open_requests":       maintenance.OpenRequests,
		"closed_requests":     maintenance.ClosedRequests,
		"close_rate":          closeRate,
		"avg_resolution_days": maintenance.AvgResolution,
		"total_cost":          maintenance.TotalCost,
		"pressure":            maintenancePressure(maintenance),
	})
	p.storeInsight(ctx, cacheKey, insight)
	return insight, nil
}

// MarketTrends reports what users search for in one location together
// with portfolio rent levels.
func (p *HeuristicInsightProvider) MarketTrends(ctx context.Context, location string) (*entities.Insight, error) {
	occupancy, err := p.metrics.OccupancyMetrics(ctx, "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
	}
	popular, err := p.interactions.PopularSearches(ctx, 30*24*time.Hour, 10)
	if err != nil {
		return nil, err
	}

	return p.newInsight(entities.InsightMarketTrend, location, map[string]interface{}{
		"location":         location,
		"avg_rent":         occupancy.AvgRent,
		"occupancy_rate":   occupancy.OccupancyRate,
		"popular_searches": popular,
	}), nil
}

// Predict applies the fixed formula for one prediction type. The
// confidence is assigned by type, never computed.
func (p *HeuristicInsightProvider) Predict(ctx context.Context, predictionType entities.PredictionType, params map[string]string) (*entities.Prediction, error) {
	confidence, ok := predictionConfidence[predictionType]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown prediction type %q", predictionType))
	}

	values, err := p.predictValues(ctx, predictionType, params)
	if err != nil {
		return nil, err
	}
	return &entities.Prediction{
		Type:        predictionType,
		Values:      values,
		Confidence:  confidence,
		GeneratedAt: time.Now(),
	}, nil
}

func (p *HeuristicInsightProvider) predictValues(ctx context.Context, predictionType entities.PredictionType, params map[string]string) (map[string]interface{}, error) {
	propertyID := params["propertyId"]
	months := paramInt(params, "months", 3)

	switch predictionType {
	case entities.PredictRevenue:
		financial, err := p.metrics.FinancialMetrics(ctx, "month", propertyID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load financial metrics", err)
		}
		// Straight-line projection from the latest monthly figure.
		return map[string]interface{}{
			"monthly_revenue":   financial.TotalRevenue,
			"projected_revenue": financial.TotalRevenue * float64(months),
			"months":            months,
		}, nil

	case entities.PredictOccupancy:
		occupancy, err := p.metrics.OccupancyMetrics(ctx, propertyID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
		}
		return map[string]interface{}{
			"current_rate":   occupancy.OccupancyRate,
			"projected_rate": clampRate(occupancy.OccupancyRate * 1.02),
			"months":         months,
		}, nil

	case entities.PredictMaintenanceCost:
		maintenance, err := p.metrics.MaintenanceMetrics(ctx, propertyID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load maintenance metrics", err)
		}
		return map[string]interface{}{
			"current_cost":   maintenance.TotalCost,
			"projected_cost": maintenance.TotalCost * float64(months) * 1.05,
			"open_requests":  maintenance.OpenRequests,
			"months":         months,
		}, nil

	case entities.PredictChurn:
		occupancy, err := p.metrics.OccupancyMetrics(ctx, propertyID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
		}
		// Shorter average lease terms read as higher churn risk.
		risk := "low"
		switch {
		case occupancy.AvgLeaseTerm < 6:
			risk = "high"
		case occupancy.AvgLeaseTerm < 12:
			risk = "medium"
		}
		return map[string]interface{}{
			"avg_lease_term_months": occupancy.AvgLeaseTerm,
			"churn_risk":            risk,
		}, nil

	case entities.PredictMarketTrend:
		occupancy, err := p.metrics.OccupancyMetrics(ctx, propertyID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
		}
		direction := "stable"
		if occupancy.OccupancyRate > 90 {
			direction = "rising"
		} else if occupancy.OccupancyRate < 70 {
			direction = "falling"
		}
		return map[string]interface{}{
			"avg_rent":       occupancy.AvgRent,
			"occupancy_rate": occupancy.OccupancyRate,
			"direction":      direction,
		}, nil
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("unknown prediction type %q", predictionType))
}

func (p *HeuristicInsightProvider) newInsight(category, subject string, metrics map[string]interface{}) *entities.Insight {
	return &entities.Insight{
		Category:    category,
		Subject:     subject,
		Metrics:     metrics,
		Confidence:  insightConfidence[category],
		GeneratedAt: time.Now(),
	}
}

func (p *HeuristicInsightProvider) cachedInsight(ctx context.Context, key string) *entities.Insight {
	if p.cache == nil {
		return nil
	}
	raw, err := p.cache.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var insight entities.Insight
	if err := json.Unmarshal(raw, &insight); err != nil {
		return nil
	}
	return &insight
}

func (p *HeuristicInsightProvider) storeInsight(ctx context.Context, key string, insight *entities.Insight) {
	if p.cache == nil {
		return
	}
	raw, err := json.Marshal(insight)
	if err != nil {
		return
	}
	ttl := p.config.Get().CacheTTLSeconds
	if ttl <= 0 {
		return
	}
	if err := p.cache.Set(ctx, key, raw, ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("failed to cache insight")
	}
}

func maintenancePressure(m *entities.MaintenanceMetrics) string {
	switch {
	case m.OpenRequests >= 10:
		return "high"
	case m.OpenRequests >= 3:
		return "medium"
	default:
		return "low"
	}
}

func clampRate(rate float64) float64 {
	if rate > 100 {
		return 100
	}
	return rate
}

func paramInt(params map[string]string, name string, fallback int) int {
	if raw, ok := params[name]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
