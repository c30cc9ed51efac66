package entities

// Intent is the coarse category of what a query is trying to find.
type Intent string

const (
	IntentFindProperty       Intent = "find_property"
	IntentFindTenant         Intent = "find_tenant"
	IntentPaymentInquiry     Intent = "payment_inquiry"
	IntentMaintenanceRequest Intent = "maintenance_request"
	IntentGeneralSearch      Intent = "general_search"
)

// QueryType classifies the grammatical shape of a query.
type QueryType string

const (
	QueryTypeQuestion QueryType = "question"
	QueryTypeCommand  QueryType = "command"
	QueryTypeKeyword  QueryType = "keyword"
)

// Entity tag types extracted from raw query text.
const (
	EntityNumber = "NUMBER"
	EntityMoney  = "MONEY"
	EntityEmail  = "EMAIL"
)

// QueryEntity is a typed token extracted from the raw query.
type QueryEntity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// QueryAnalysis holds the result of interpreting a raw search query.
// Derived per request, never stored.
type QueryAnalysis struct {
	OriginalQuery   string            `json:"original_query"`
	NormalizedQuery string            `json:"normalized_query"`
	Intent          Intent            `json:"intent"`
	Entities        []QueryEntity     `json:"entities,omitempty"`
	Parameters      map[string]string `json:"parameters,omitempty"`
	Confidence      float64           `json:"confidence"`
	QueryType       QueryType         `json:"query_type"`
}

// HasParameter reports whether a named parameter was extracted.
func (a *QueryAnalysis) HasParameter(name string) bool {
	_, ok := a.Parameters[name]
	return ok
}
