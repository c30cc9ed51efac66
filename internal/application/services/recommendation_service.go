package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// RecommendationService produces fixed-formula recommendations from
// back-office metrics and search popularity. Not a learned model.
type RecommendationService struct {
	metrics      repositories.MetricsRepository
	interactions *InteractionService
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(metrics repositories.MetricsRepository, interactions *InteractionService) *RecommendationService {
	return &RecommendationService{metrics: metrics, interactions: interactions}
}

// ForUser recommends properties matching what a user has been
// searching for.
func (s *RecommendationService) ForUser(ctx context.Context, userID string) ([]entities.Recommendation, error) {
	behavior, err := s.interactions.UserBehavior(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]entities.Recommendation, 0, len(behavior.TopQueries))
	for _, q := range behavior.TopQueries {
		if ClassifyIntent(normalizeQuery(q.Query)) != entities.IntentFindProperty {
			continue
		}
		out = append(out, entities.Recommendation{
			Kind:        entities.RecommendProperty,
			Title:       fmt.Sprintf("Properties matching %q", q.Query),
			Reason:      fmt.Sprintf("searched %d times recently", q.Count),
			Score:       float64(q.Count),
			Details:     map[string]interface{}{"query": q.Query},
			GeneratedAt: time.Now(),
		})
		if len(out) >= 5 {
			break
		}
	}
	return out, nil
}

// Tenants recommends tenant outreach for one property from its
// vacancy position and recent tenant-related search interest.
func (s *RecommendationService) Tenants(ctx context.Context, propertyID string, limit int) ([]entities.Recommendation, error) {
	if propertyID == "" {
		return nil, apperrors.NewValidationError("propertyId is required")
	}
	if limit <= 0 {
		limit = 5
	}

	occupancy, err := s.metrics.OccupancyMetrics(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
	}
	popular, err := s.interactions.PopularSearches(ctx, 30*24*time.Hour, limit*3)
	if err != nil {
		return nil, err
	}

	vacant := occupancy.TotalUnits - occupancy.OccupiedUnits
	out := make([]entities.Recommendation, 0, limit)
	if vacant > 0 {
		out = append(out, entities.Recommendation{
			Kind:        entities.RecommendTenant,
			SubjectID:   propertyID,
			Title:       fmt.Sprintf("Fill %d vacant units", vacant),
			Reason:      "vacant units generate no rent",
			Score:       float64(vacant),
			Details:     map[string]interface{}{"vacant_units": vacant},
			GeneratedAt: time.Now(),
		})
	}
	for _, q := range popular {
		if len(out) >= limit {
			break
		}
		if ClassifyIntent(normalizeQuery(q.Query)) != entities.IntentFindTenant {
			continue
		}
		out = append(out, entities.Recommendation{
			Kind:        entities.RecommendTenant,
			SubjectID:   propertyID,
			Title:       fmt.Sprintf("Follow up on %q interest", q.Query),
			Reason:      fmt.Sprintf("searched %d times in the last month", q.Count),
			Score:       float64(q.Count),
			Details:     map[string]interface{}{"query": q.Query},
			GeneratedAt: time.Now(),
		})
	}
	return out, nil
}

// Pricing recommends a rent adjustment for one property from its
// occupancy position.
func (s *RecommendationService) Pricing(ctx context.Context, propertyID string) (*entities.Recommendation, error) {
	if propertyID == "" {
		return nil, apperrors.NewValidationError("propertyId is required")
	}
	occupancy, err := s.metrics.OccupancyMetrics(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
	}

	rec := &entities.Recommendation{
		Kind:        entities.RecommendPricing,
		SubjectID:   propertyID,
		GeneratedAt: time.Now(),
		Details: map[string]interface{}{
			"occupancy_rate": occupancy.OccupancyRate,
			"avg_rent":       occupancy.AvgRent,
		},
	}
	switch {
	case occupancy.OccupancyRate >= 95:
		rec.Title = "Consider raising rent"
		rec.Reason = "occupancy is near full, demand supports an increase"
		rec.Score = 0.8
	case occupancy.OccupancyRate < 70:
		rec.Title = "Consider lowering rent"
		rec.Reason = "occupancy is low, pricing may be above market"
		rec.Score = 0.7
	default:
		rec.Title = "Hold current rent"
		rec.Reason = "occupancy is in a healthy band"
		rec.Score = 0.5
	}
	return rec, nil
}

// Maintenance flags properties whose open-request load is high.
func (s *RecommendationService) Maintenance(ctx context.Context, propertyID string) (*entities.Recommendation, error) {
	maintenance, err := s.metrics.MaintenanceMetrics(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load maintenance metrics", err)
	}

	rec := &entities.Recommendation{
		Kind:        entities.RecommendMaintenance,
		SubjectID:   propertyID,
		GeneratedAt: time.Now(),
		Details: map[string]interface{}{
			"open_requests":       maintenance.OpenRequests,
			"avg_resolution_days": maintenance.AvgResolution,
		},
	}
	if maintenance.OpenRequests >= 10 {
		rec.Title = "Schedule a maintenance sweep"
		rec.Reason = fmt.Sprintf("%d open requests outstanding", maintenance.OpenRequests)
		rec.Score = 0.9
	} else {
		rec.Title = "Maintenance load is manageable"
		rec.Reason = "open request count is within normal range"
		rec.Score = 0.4
	}
	return rec, nil
}

// Investment ranks the portfolio position for further investment from
// occupancy and financial margins.
func (s *RecommendationService) Investment(ctx context.Context) (*entities.Recommendation, error) {
	occupancy, err := s.metrics.OccupancyMetrics(ctx, "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load occupancy metrics", err)
	}
	financial, err := s.metrics.FinancialMetrics(ctx, "month", "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load financial metrics", err)
	}

	rec := &entities.Recommendation{
		Kind:        entities.RecommendInvestment,
		GeneratedAt: time.Now(),
		Details: map[string]interface{}{
			"occupancy_rate":  occupancy.OccupancyRate,
			"monthly_revenue": financial.TotalRevenue,
			"collection_rate": financial.CollectionRate,
		},
	}
	if occupancy.OccupancyRate >= 90 && financial.CollectionRate >= 95 {
		rec.Title = "Portfolio supports expansion"
		rec.Reason = "high occupancy and strong collections"
		rec.Score = 0.85
	} else {
		rec.Title = "Stabilize before expanding"
		rec.Reason = "occupancy or collections below expansion threshold"
		rec.Score = 0.45
	}
	return rec, nil
}

// RecordFeedback logs a user's reaction to a recommendation as an
// interaction event.
func (s *RecommendationService) RecordFeedback(ctx context.Context, feedback *entities.RecommendationFeedback) error {
	if feedback == nil || feedback.Kind == "" {
		return apperrors.NewValidationError("feedback kind is required")
	}
	action := entities.ActionExit
	if feedback.Helpful {
		action = entities.ActionConvert
	}
	return s.interactions.RecordFeedback(ctx,
		"recommendation:"+feedback.Kind, feedback.SubjectID, action,
		feedback.UserID, feedback.SessionID)
}
