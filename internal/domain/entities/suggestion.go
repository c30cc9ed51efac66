package entities

// Suggestion origins.
const (
	SuggestionOriginCompletion = "completion"
	SuggestionOriginPopular    = "popular"
)

// Suggestion is a candidate completion or popular query offered
// before a search is fully executed.
type Suggestion struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Origin string  `json:"origin"`
}
