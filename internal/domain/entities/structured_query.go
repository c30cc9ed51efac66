package entities

// MatchField is one weighted field in a match clause.
type MatchField struct {
	Field string  `json:"field"`
	Boost float64 `json:"boost"`
}

// MatchClause is a free-text match across weighted fields.
type MatchClause struct {
	Query  string       `json:"query"`
	Fields []MatchField `json:"fields"`
	Fuzzy  bool         `json:"fuzzy"`
}

// TermFilter is an exact-value filter on a single field.
type TermFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// RangeFilter is a numeric bounds filter on a single field.
type RangeFilter struct {
	Field string   `json:"field"`
	GTE   *float64 `json:"gte,omitempty"`
	LTE   *float64 `json:"lte,omitempty"`
}

// SortSpec orders results by a field.
type SortSpec struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// StructuredQuery is the backend-agnostic query representation built
// once per request and passed opaquely to the search backend.
type StructuredQuery struct {
	IndexTypes []string     `json:"index_types,omitempty"`
	Match      []MatchClause `json:"match,omitempty"`
	Terms      []TermFilter  `json:"terms,omitempty"`
	Ranges     []RangeFilter `json:"ranges,omitempty"`
	DateRange  *DateRange    `json:"date_range,omitempty"`
	Facets     []string      `json:"facets,omitempty"`
	Sort       []SortSpec    `json:"sort,omitempty"`
	Highlight  bool          `json:"highlight"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}
