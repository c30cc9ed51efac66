package services

import (
	"strings"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// Indexed fields shared by the query shapes. The semantic field holds
// enriched/expanded text so an OR clause against it approximates
// similarity search without a vector backend.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldContent     = "content"
	fieldTags        = "tags"
	fieldSemantic    = "semantic_content"
)

// Default field weights for the advanced shape: title boosted highest,
// then description, then content and tags. Configurable defaults, not
// tuned constants.
var advancedWeights = []entities.MatchField{
	{Field: fieldTitle, Boost: 3.0},
	{Field: fieldDescription, Boost: 2.0},
	{Field: fieldContent, Boost: 1.0},
	{Field: fieldTags, Boost: 1.0},
}

var allFields = []entities.MatchField{
	{Field: fieldTitle, Boost: 1.0},
	{Field: fieldDescription, Boost: 1.0},
	{Field: fieldContent, Boost: 1.0},
	{Field: fieldTags, Boost: 1.0},
}

// QueryBuilderService turns analyzed queries and raw request filters
// into backend-agnostic structured queries.
type QueryBuilderService struct{}

// NewQueryBuilderService creates a new query builder.
func NewQueryBuilderService() *QueryBuilderService {
	return &QueryBuilderService{}
}

// BuildFullText builds a multi-field fuzzy match across all indexed
// fields with optional term filters per supplied type/filter map.
func (b *QueryBuilderService) BuildFullText(q *entities.SearchQuery, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.Match = []entities.MatchClause{{
		Query:  q.Text,
		Fields: allFields,
		Fuzzy:  cfg.FuzzyEnabled,
	}}
	return sq
}

// BuildAdvanced builds a weighted field match plus arbitrary term
// filters plus an optional date-range clause.
func (b *QueryBuilderService) BuildAdvanced(q *entities.SearchQuery, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.Match = []entities.MatchClause{{
		Query:  q.Text,
		Fields: advancedWeights,
		Fuzzy:  cfg.FuzzyEnabled,
	}}
	sq.DateRange = q.DateRange
	if q.SortField != "" {
		order := q.SortOrder
		if order == "" {
			order = entities.SortDesc
		}
		sq.Sort = []entities.SortSpec{{Field: q.SortField, Order: order}}
	}
	return sq
}

// BuildFaceted builds the advanced base match plus one aggregation
// request per requested facet field.
func (b *QueryBuilderService) BuildFaceted(q *entities.SearchQuery, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.Match = []entities.MatchClause{{
		Query:  q.Text,
		Fields: advancedWeights,
		Fuzzy:  cfg.FuzzyEnabled,
	}}
	sq.Facets = append([]string(nil), q.Facets...)
	return sq
}

// BuildNaturalLanguage dispatches to an intent-specific builder; an
// unrecognized or generic intent falls back to full-text.
func (b *QueryBuilderService) BuildNaturalLanguage(q *entities.SearchQuery, analysis *entities.QueryAnalysis, cfg *entities.SearchConfig) *entities.StructuredQuery {
	switch analysis.Intent {
	case entities.IntentFindProperty:
		return b.buildPropertyQuery(q, analysis, cfg)
	case entities.IntentFindTenant:
		return b.buildTenantQuery(q, analysis, cfg)
	case entities.IntentPaymentInquiry:
		return b.buildPaymentQuery(q, analysis, cfg)
	case entities.IntentMaintenanceRequest:
		return b.buildMaintenanceQuery(q, analysis, cfg)
	default:
		return b.BuildFullText(q, cfg)
	}
}

// BuildSemantic OR-combines the weighted base match with a clause
// against the dedicated semantic field, boosted higher.
func (b *QueryBuilderService) BuildSemantic(q *entities.SearchQuery, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.Match = []entities.MatchClause{
		{
			Query:  q.Text,
			Fields: advancedWeights,
			Fuzzy:  cfg.FuzzyEnabled,
		},
		{
			Query:  q.Text,
			Fields: []entities.MatchField{{Field: fieldSemantic, Boost: 4.0}},
			Fuzzy:  false,
		},
	}
	return sq
}

func (b *QueryBuilderService) base(q *entities.SearchQuery, cfg *entities.SearchConfig) *entities.StructuredQuery {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 20
	}
	if size > cfg.MaxResults {
		size = cfg.MaxResults
	}

	sq := &entities.StructuredQuery{
		IndexTypes: append([]string(nil), q.EntityTypes...),
		Highlight:  cfg.HighlightEnabled,
		Page:       page,
		PageSize:   size,
	}
	for field, value := range q.Filters {
		sq.Terms = append(sq.Terms, entities.TermFilter{Field: field, Value: value})
	}
	return sq
}

func (b *QueryBuilderService) buildPropertyQuery(q *entities.SearchQuery, analysis *entities.QueryAnalysis, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.IndexTypes = []string{"property"}
	sq.Match = []entities.MatchClause{{
		Query:  analysis.NormalizedQuery,
		Fields: advancedWeights,
		Fuzzy:  cfg.FuzzyEnabled,
	}}

	if bedrooms, ok := analysis.Parameters["bedrooms"]; ok {
		sq.Terms = append(sq.Terms, entities.TermFilter{Field: "bedrooms", Value: bedrooms})
	}
	if bathrooms, ok := analysis.Parameters["bathrooms"]; ok {
		sq.Terms = append(sq.Terms, entities.TermFilter{Field: "bathrooms", Value: bathrooms})
	}
	if maxPrice, ok := parseFloatParam(analysis.Parameters, "maxPrice"); ok {
		sq.Ranges = append(sq.Ranges, entities.RangeFilter{Field: "rent_amount", LTE: &maxPrice})
	}
	return sq
}

func (b *QueryBuilderService) buildTenantQuery(q *entities.SearchQuery, analysis *entities.QueryAnalysis, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.IndexTypes = []string{"tenant"}
	sq.Match = []entities.MatchClause{{
		Query: analysis.NormalizedQuery,
		Fields: []entities.MatchField{
			{Field: "name", Boost: 3.0},
			{Field: "email", Boost: 2.0},
			{Field: fieldContent, Boost: 1.0},
		},
		Fuzzy: cfg.FuzzyEnabled,
	}}

	for _, e := range analysis.Entities {
		if e.Type == entities.EntityEmail {
			sq.Terms = append(sq.Terms, entities.TermFilter{Field: "email", Value: e.Text})
		}
	}
	return sq
}

func (b *QueryBuilderService) buildPaymentQuery(q *entities.SearchQuery, analysis *entities.QueryAnalysis, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.IndexTypes = []string{"payment"}
	sq.Match = []entities.MatchClause{{
		Query:  analysis.NormalizedQuery,
		Fields: advancedWeights,
		Fuzzy:  false,
	}}

	if strings.Contains(analysis.NormalizedQuery, "overdue") {
		sq.Terms = append(sq.Terms, entities.TermFilter{Field: "status", Value: "overdue"})
	}
	if maxPrice, ok := parseFloatParam(analysis.Parameters, "maxPrice"); ok {
		sq.Ranges = append(sq.Ranges, entities.RangeFilter{Field: "amount", LTE: &maxPrice})
	}
	return sq
}

func (b *QueryBuilderService) buildMaintenanceQuery(q *entities.SearchQuery, analysis *entities.QueryAnalysis, cfg *entities.SearchConfig) *entities.StructuredQuery {
	sq := b.base(q, cfg)
	sq.IndexTypes = []string{"maintenance_request"}
	sq.Match = []entities.MatchClause{{
		Query:  analysis.NormalizedQuery,
		Fields: advancedWeights,
		Fuzzy:  cfg.FuzzyEnabled,
	}}

	if strings.Contains(analysis.NormalizedQuery, "urgent") || strings.Contains(analysis.NormalizedQuery, "emergency") {
		sq.Terms = append(sq.Terms, entities.TermFilter{Field: "priority", Value: "high"})
	}
	return sq
}
