package providers

import (
	"context"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// InsightProvider produces insight and prediction bundles. The
// shipped implementation is heuristic with fixed per-type confidence
// values; a statistically grounded provider can replace it without
// changing callers.
type InsightProvider interface {
	DashboardInsights(ctx context.Context, userID string) (*entities.Insight, error)
	PropertyInsights(ctx context.Context, propertyID string) (*entities.Insight, error)
	TenantInsights(ctx context.Context, tenantID string) (*entities.Insight, error)
	FinancialInsights(ctx context.Context, period, propertyID string) (*entities.Insight, error)
	MaintenanceInsights(ctx context.Context) (*entities.Insight, error)
	MarketTrends(ctx context.Context, location string) (*entities.Insight, error)
	Predict(ctx context.Context, predictionType entities.PredictionType, params map[string]string) (*entities.Prediction, error)
}
