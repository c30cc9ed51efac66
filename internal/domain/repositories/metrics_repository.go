package repositories

import (
	"context"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// MetricsRepository exposes read-only aggregates owned by the
// accounting, leasing and maintenance subsystems. This layer only
// reads them; it never writes.
type MetricsRepository interface {
	FinancialMetrics(ctx context.Context, period, propertyID string) (*entities.FinancialMetrics, error)
	OccupancyMetrics(ctx context.Context, propertyID string) (*entities.OccupancyMetrics, error)
	MaintenanceMetrics(ctx context.Context, propertyID string) (*entities.MaintenanceMetrics, error)
}

// DocumentSource fetches back-office records for indexing. Entity
// CRUD lives elsewhere; this is a read-only feed into the backend.
type DocumentSource interface {
	ListDocuments(ctx context.Context, indexType string) ([]*entities.IndexDocument, error)
}
