package entities

import "time"

// SearchConfig is the single mutable record of search toggles and
// limits. Administrative updates replace the whole record,
// last-writer-wins.
type SearchConfig struct {
	ID                  string    `json:"id" db:"id"`
	BackendEnabled      bool      `json:"backend_enabled" db:"backend_enabled"`
	FuzzyEnabled        bool      `json:"fuzzy_enabled" db:"fuzzy_enabled"`
	AutocompleteEnabled bool      `json:"autocomplete_enabled" db:"autocomplete_enabled"`
	AnalyticsEnabled    bool      `json:"analytics_enabled" db:"analytics_enabled"`
	SemanticEnabled     bool      `json:"semantic_enabled" db:"semantic_enabled"`
	HighlightEnabled    bool      `json:"highlight_enabled" db:"highlight_enabled"`
	BoostRecentResults  bool      `json:"boost_recent_results" db:"boost_recent_results"`
	BoostPopularResults bool      `json:"boost_popular_results" db:"boost_popular_results"`
	RecencyWeight       float64   `json:"recency_weight" db:"recency_weight"`
	PopularityWeight    float64   `json:"popularity_weight" db:"popularity_weight"`
	CacheTTLSeconds     int       `json:"cache_ttl_seconds" db:"cache_ttl_seconds"`
	MaxResults          int       `json:"max_results" db:"max_results"`
	TimeoutMs           int       `json:"timeout_ms" db:"timeout_ms"`
	MinQueryLength      int       `json:"min_query_length" db:"min_query_length"`
	MaxQueryLength      int       `json:"max_query_length" db:"max_query_length"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSearchConfig returns the built-in configuration used when
// the configuration store is unreadable or missing. The boost weights
// are defaults, not tuned constants.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		ID:                  "default",
		BackendEnabled:      true,
		FuzzyEnabled:        true,
		AutocompleteEnabled: true,
		AnalyticsEnabled:    true,
		SemanticEnabled:     true,
		HighlightEnabled:    true,
		BoostRecentResults:  true,
		BoostPopularResults: true,
		RecencyWeight:       0.5,
		PopularityWeight:    1.0,
		CacheTTLSeconds:     300,
		MaxResults:          100,
		TimeoutMs:           5000,
		MinQueryLength:      2,
		MaxQueryLength:      200,
	}
}

// Timeout returns the backend call timeout as a duration.
func (c *SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// CacheTTL returns the cache TTL as a duration.
func (c *SearchConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
