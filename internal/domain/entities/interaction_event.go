package entities

import "time"

// Interaction actions.
const (
	ActionSearch  = "search"
	ActionClick   = "click"
	ActionView    = "view"
	ActionConvert = "convert"
	ActionExit    = "exit"
)

// InteractionEvent is one recorded search or result interaction.
// Append-only; never mutated after creation.
type InteractionEvent struct {
	ID             string    `json:"id" db:"id"`
	Query          string    `json:"query" db:"query"`
	SearchType     string    `json:"search_type" db:"search_type"`
	ResultID       string    `json:"result_id,omitempty" db:"result_id"`
	Action         string    `json:"action" db:"action"`
	UserID         string    `json:"user_id,omitempty" db:"user_id"`
	SessionID      string    `json:"session_id,omitempty" db:"session_id"`
	ResponseTimeMs int64     `json:"response_time_ms" db:"response_time_ms"`
	ResultCount    int       `json:"result_count" db:"result_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PopularSearch is an aggregated count for one distinct query text.
type PopularSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// CategoryCount is the number of searches assigned to one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// HourlyCount is the number of searches in one hour of day (0-23).
type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// FailedSearch is a query whose recorded result count was zero or
// absent, with its occurrence count.
type FailedSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// QueryConversion is the conversion rate for one distinct query.
type QueryConversion struct {
	Query       string  `json:"query"`
	TotalEvents int     `json:"total_events"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// RefinementPair counts how often one query was refined into another
// within the same session.
type RefinementPair struct {
	OriginalQuery string `json:"original_query"`
	RefinedQuery  string `json:"refined_query"`
	Count         int    `json:"count"`
}

// SearchTrends bundles the trend statistics computed over a window.
type SearchTrends struct {
	Period            string          `json:"period"`
	TotalSearches     int             `json:"total_searches"`
	TrendingQueries   []PopularSearch `json:"trending_queries"`
	Categories        []CategoryCount `json:"categories"`
	SuccessRate       float64         `json:"success_rate"`
	AvgResponseTimeMs float64         `json:"avg_response_time_ms"`
	HourlyFrequency   []HourlyCount   `json:"hourly_frequency"`
	FailedSearches    []FailedSearch  `json:"failed_searches"`
}

// UserBehavior summarizes one user's recorded interactions.
type UserBehavior struct {
	UserID         string          `json:"user_id"`
	TotalSearches  int             `json:"total_searches"`
	TotalClicks    int             `json:"total_clicks"`
	TopQueries     []PopularSearch `json:"top_queries"`
	LastActivityAt time.Time       `json:"last_activity_at"`
}
