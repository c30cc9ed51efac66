package entities

import "time"

// Recommendation kinds.
const (
	RecommendProperty    = "property"
	RecommendTenant      = "tenant"
	RecommendPricing     = "pricing"
	RecommendMaintenance = "maintenance"
	RecommendInvestment  = "investment"
)

// Recommendation is one heuristic suggestion with a score and the
// reason it was produced.
type Recommendation struct {
	Kind        string                 `json:"kind"`
	SubjectID   string                 `json:"subject_id,omitempty"`
	Title       string                 `json:"title"`
	Reason      string                 `json:"reason"`
	Score       float64                `json:"score"`
	Details     map[string]interface{} `json:"details,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// RecommendationFeedback is a user's reaction to a recommendation,
// recorded into the interaction log.
type RecommendationFeedback struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subject_id"`
	Helpful   bool   `json:"helpful"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}
