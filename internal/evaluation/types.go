package evaluation

import (
	"time"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// GoldenQuery is a labeled test query with its expected outcomes.
type GoldenQuery struct {
	ID          string          `json:"id"`
	Query       string          `json:"query"`
	Intent      entities.Intent `json:"intent"`
	ExpectedIDs []string        `json:"expected_ids"`
	Difficulty  string          `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID       string
	Query         string
	Intent        entities.Intent
	IntentMatched bool
	RecallAt10    float64
	MRRAt10       float64
	ResultCount   int
	RetrievedIDs  []string
	Latency       time.Duration
}

// EvalSummary holds aggregate metrics across all golden queries.
type EvalSummary struct {
	TotalQueries    int
	AvgRecallAt10   float64
	AvgMRRAt10      float64
	AvgLatency      time.Duration
	QueriesWithHits int // queries that returned at least 1 result
	IntentAccuracy  float64
	ByIntent        map[entities.Intent]*IntentSummary
}

// IntentSummary holds metrics grouped by intent.
type IntentSummary struct {
	Count         int
	AvgRecallAt10 float64
	AvgMRRAt10    float64
}

func validIntent(i entities.Intent) bool {
	switch i {
	case entities.IntentFindProperty, entities.IntentFindTenant,
		entities.IntentPaymentInquiry, entities.IntentMaintenanceRequest,
		entities.IntentGeneralSearch:
		return true
	}
	return false
}
