package entities

import "time"

// FinancialMetrics are read-only financial aggregates supplied by the
// accounting subsystem.
type FinancialMetrics struct {
	PropertyID      string  `json:"property_id,omitempty" db:"property_id"`
	Period          string  `json:"period" db:"period"`
	TotalRevenue    float64 `json:"total_revenue" db:"total_revenue"`
	TotalExpenses   float64 `json:"total_expenses" db:"total_expenses"`
	OutstandingRent float64 `json:"outstanding_rent" db:"outstanding_rent"`
	CollectionRate  float64 `json:"collection_rate" db:"collection_rate"`
}

// OccupancyMetrics are read-only occupancy aggregates.
type OccupancyMetrics struct {
	PropertyID    string  `json:"property_id,omitempty" db:"property_id"`
	TotalUnits    int     `json:"total_units" db:"total_units"`
	OccupiedUnits int     `json:"occupied_units" db:"occupied_units"`
	OccupancyRate float64 `json:"occupancy_rate" db:"occupancy_rate"`
	AvgLeaseTerm  float64 `json:"avg_lease_term_months" db:"avg_lease_term_months"`
	AvgRent       float64 `json:"avg_rent" db:"avg_rent"`
}

// MaintenanceMetrics are read-only maintenance aggregates.
type MaintenanceMetrics struct {
	PropertyID     string  `json:"property_id,omitempty" db:"property_id"`
	OpenRequests   int     `json:"open_requests" db:"open_requests"`
	ClosedRequests int     `json:"closed_requests" db:"closed_requests"`
	AvgResolution  float64 `json:"avg_resolution_days" db:"avg_resolution_days"`
	TotalCost      float64 `json:"total_cost" db:"total_cost"`
}

// IndexDocument is one record fetched from the back-office tables for
// indexing. The payload carries whatever fields the source table has.
type IndexDocument struct {
	ID        string                 `json:"id"`
	IndexType string                 `json:"index_type"`
	Payload   map[string]interface{} `json:"payload"`
	UpdatedAt time.Time              `json:"updated_at"`
}
