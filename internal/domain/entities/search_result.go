package entities

// SearchHit is a single document returned by the search backend.
type SearchHit struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Score      float64                `json:"score"`
	Source     map[string]interface{} `json:"source"`
	Highlights map[string][]string    `json:"highlights,omitempty"`
}

// FacetBucket is a field/value/count triple summarizing the
// distribution of a field across matching results.
type FacetBucket struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// BackendResult is the raw output of a search backend execution.
type BackendResult struct {
	Hits         []SearchHit              `json:"hits"`
	Total        int                      `json:"total"`
	TookMs       int64                    `json:"took_ms"`
	Aggregations map[string][]FacetBucket `json:"aggregations,omitempty"`
}

// SearchResponse is the external payload shape for every search
// endpoint. A failed backend call degrades to empty hits with the
// Error field set; the endpoint itself never errors.
type SearchResponse struct {
	Hits     []SearchHit    `json:"hits"`
	Total    int            `json:"total"`
	TookMs   int64          `json:"took_ms"`
	Facets   []FacetBucket  `json:"facets,omitempty"`
	Analysis *QueryAnalysis `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
}
