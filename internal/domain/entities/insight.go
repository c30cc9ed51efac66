package entities

import "time"

// Insight categories.
const (
	InsightDashboard   = "dashboard"
	InsightProperty    = "property"
	InsightTenant      = "tenant"
	InsightFinancial   = "financial"
	InsightMaintenance = "maintenance"
	InsightMarketTrend = "market_trend"
)

// PredictionType names a heuristic prediction formula.
type PredictionType string

const (
	PredictRevenue         PredictionType = "revenue"
	PredictOccupancy       PredictionType = "occupancy"
	PredictMaintenanceCost PredictionType = "maintenance_cost"
	PredictChurn           PredictionType = "churn"
	PredictMarketTrend     PredictionType = "market_trend"
)

// Insight is a heuristic aggregate derived from interaction history
// and external read-only metrics. Confidence is fixed per insight
// type, not computed from data.
type Insight struct {
	Category    string                 `json:"category"`
	Subject     string                 `json:"subject,omitempty"`
	Metrics     map[string]interface{} `json:"metrics"`
	Confidence  float64                `json:"confidence"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Prediction is a fixed-formula forecast bundle.
type Prediction struct {
	Type        PredictionType         `json:"type"`
	Values      map[string]interface{} `json:"values"`
	Confidence  float64                `json:"confidence"`
	GeneratedAt time.Time              `json:"generated_at"`
}
