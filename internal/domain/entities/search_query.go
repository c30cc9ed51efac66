package entities

import "time"

// SortOrder is the direction of a sort clause.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DateRange restricts matches to a window on a named date field.
type DateRange struct {
	Field string     `json:"field"`
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
}

// SearchQuery is the immutable per-request search input.
type SearchQuery struct {
	Text        string            `json:"text"`
	Filters     map[string]string `json:"filters,omitempty"`
	EntityTypes []string          `json:"entity_types,omitempty"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	SortField   string            `json:"sort_field,omitempty"`
	SortOrder   SortOrder         `json:"sort_order,omitempty"`
	DateRange   *DateRange        `json:"date_range,omitempty"`
	Facets      []string          `json:"facets,omitempty"`
	Context     string            `json:"context,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
}
