package database

import (
	"context"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// MetricsAdapter reads aggregates from the back-office tables owned by
// the accounting, leasing and maintenance subsystems. Read-only.
type MetricsAdapter struct {
	client *postgres.Client
}

// NewMetricsAdapter creates a new metrics adapter.
func NewMetricsAdapter(client *postgres.Client) repositories.MetricsRepository {
	return &MetricsAdapter{client: client}
}

// FinancialMetrics aggregates payments and expenses for one period.
// period is one of day, month, year; propertyID may be empty for the
// whole portfolio.
func (a *MetricsAdapter) FinancialMetrics(ctx context.Context, period, propertyID string) (*entities.FinancialMetrics, error) {
	interval := periodInterval(period)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0)    AS total_revenue,
			COALESCE(SUM(amount) FILTER (WHERE status = 'overdue'), 0) AS outstanding_rent,
			COALESCE(
				SUM(amount) FILTER (WHERE status = 'paid') * 100.0
					/ NULLIF(SUM(amount), 0),
				0
			) AS collection_rate
		FROM payments
		WHERE due_date >= NOW() - ($1)::interval
		  AND ($2 = '' OR property_id = $2)
	`

	m := &entities.FinancialMetrics{Period: period, PropertyID: propertyID}
	err := a.client.DB().QueryRowContext(ctx, query, interval, propertyID).Scan(
		&m.TotalRevenue,
		&m.OutstandingRent,
		&m.CollectionRate,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate financial metrics", err)
	}

	expenseQuery := `
		SELECT COALESCE(SUM(total_cost), 0)
		FROM maintenance_requests
		WHERE created_at >= NOW() - ($1)::interval
		  AND ($2 = '' OR property_id = $2)
	`
	if err := a.client.DB().QueryRowContext(ctx, expenseQuery, interval, propertyID).Scan(&m.TotalExpenses); err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate expenses", err)
	}
	return m, nil
}

// OccupancyMetrics aggregates unit and lease state.
func (a *MetricsAdapter) OccupancyMetrics(ctx context.Context, propertyID string) (*entities.OccupancyMetrics, error) {
	query := `
		SELECT
			COUNT(*)                                              AS total_units,
			COUNT(*) FILTER (WHERE status = 'occupied')           AS occupied_units,
			COALESCE(
				COUNT(*) FILTER (WHERE status = 'occupied') * 100.0
					/ NULLIF(COUNT(*), 0),
				0
			)                                                     AS occupancy_rate,
			COALESCE(AVG(lease_term_months), 0)                   AS avg_lease_term,
			COALESCE(AVG(rent_amount), 0)                         AS avg_rent
		FROM units
		WHERE ($1 = '' OR property_id = $1)
	`

	m := &entities.OccupancyMetrics{PropertyID: propertyID}
	err := a.client.DB().QueryRowContext(ctx, query, propertyID).Scan(
		&m.TotalUnits,
		&m.OccupiedUnits,
		&m.OccupancyRate,
		&m.AvgLeaseTerm,
		&m.AvgRent,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate occupancy metrics", err)
	}
	return m, nil
}

// MaintenanceMetrics aggregates maintenance request state and cost.
func (a *MetricsAdapter) MaintenanceMetrics(ctx context.Context, propertyID string) (*entities.MaintenanceMetrics, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('open', 'in_progress'))  AS open_requests,
			COUNT(*) FILTER (WHERE status = 'closed')                  AS closed_requests,
			COALESCE(
				AVG(EXTRACT(EPOCH FROM (closed_at - created_at)) / 86400.0)
					FILTER (WHERE status = 'closed'),
				0
			)                                                          AS avg_resolution_days,
			COALESCE(SUM(total_cost), 0)                               AS total_cost
		FROM maintenance_requests
		WHERE ($1 = '' OR property_id = $1)
	`

	m := &entities.MaintenanceMetrics{PropertyID: propertyID}
	err := a.client.DB().QueryRowContext(ctx, query, propertyID).Scan(
		&m.OpenRequests,
		&m.ClosedRequests,
		&m.AvgResolution,
		&m.TotalCost,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate maintenance metrics", err)
	}
	return m, nil
}

func periodInterval(period string) string {
	switch period {
	case "day":
		return "1 day"
	case "year":
		return "1 year"
	default:
		return "1 month"
	}
}
