package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

func TestBuildFullText_MatchesAllFieldsEvenly(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	sq := builder.BuildFullText(&entities.SearchQuery{Text: "garden apartment"}, cfg)

	require.Len(t, sq.Match, 1)
	assert.Equal(t, "garden apartment", sq.Match[0].Query)
	assert.True(t, sq.Match[0].Fuzzy)
	require.Len(t, sq.Match[0].Fields, 4)
	for _, f := range sq.Match[0].Fields {
		assert.Equal(t, 1.0, f.Boost)
	}
}

func TestBuildFullText_FuzzyFollowsConfig(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()
	cfg.FuzzyEnabled = false

	sq := builder.BuildFullText(&entities.SearchQuery{Text: "garden"}, cfg)
	assert.False(t, sq.Match[0].Fuzzy)
}

func TestBuildAdvanced_WeightsSortAndDateRange(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := &entities.SearchQuery{
		Text:      "downtown loft",
		Filters:   map[string]string{"city": "portland"},
		SortField: "rent_amount",
		SortOrder: entities.SortAsc,
		DateRange: &entities.DateRange{Field: "created_at", From: &from},
	}
	sq := builder.BuildAdvanced(q, cfg)

	require.Len(t, sq.Match, 1)
	assert.Equal(t, 3.0, sq.Match[0].Fields[0].Boost)
	assert.Equal(t, "title", sq.Match[0].Fields[0].Field)

	require.Len(t, sq.Terms, 1)
	assert.Equal(t, entities.TermFilter{Field: "city", Value: "portland"}, sq.Terms[0])

	require.Len(t, sq.Sort, 1)
	assert.Equal(t, entities.SortSpec{Field: "rent_amount", Order: entities.SortAsc}, sq.Sort[0])

	require.NotNil(t, sq.DateRange)
	assert.Equal(t, "created_at", sq.DateRange.Field)
}

func TestBuildAdvanced_DefaultSortOrderIsDescending(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	sq := builder.BuildAdvanced(&entities.SearchQuery{Text: "loft", SortField: "updated_at"}, cfg)
	require.Len(t, sq.Sort, 1)
	assert.Equal(t, entities.SortDesc, sq.Sort[0].Order)
}

func TestBuildFaceted_CopiesFacetFields(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	q := &entities.SearchQuery{Text: "loft", Facets: []string{"type", "city"}}
	sq := builder.BuildFaceted(q, cfg)

	assert.Equal(t, []string{"type", "city"}, sq.Facets)

	// The structured query owns its own copy.
	q.Facets[0] = "mutated"
	assert.Equal(t, "type", sq.Facets[0])
}

func TestBuildNaturalLanguage_PropertyIntent(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	analysis := &entities.QueryAnalysis{
		NormalizedQuery: "find 2 bedroom apartment under $1500",
		Intent:          entities.IntentFindProperty,
		Parameters:      map[string]string{"bedrooms": "2", "maxPrice": "1500"},
	}
	sq := builder.BuildNaturalLanguage(&entities.SearchQuery{Text: "whatever"}, analysis, cfg)

	assert.Equal(t, []string{"property"}, sq.IndexTypes)
	assert.Contains(t, sq.Terms, entities.TermFilter{Field: "bedrooms", Value: "2"})
	require.Len(t, sq.Ranges, 1)
	assert.Equal(t, "rent_amount", sq.Ranges[0].Field)
	require.NotNil(t, sq.Ranges[0].LTE)
	assert.Equal(t, 1500.0, *sq.Ranges[0].LTE)
}

func TestBuildNaturalLanguage_TenantIntentFiltersOnEmail(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	analysis := &entities.QueryAnalysis{
		NormalizedQuery: "tenant john@example.com",
		Intent:          entities.IntentFindTenant,
		Entities: []entities.QueryEntity{
			{Type: entities.EntityEmail, Text: "john@example.com"},
		},
	}
	sq := builder.BuildNaturalLanguage(&entities.SearchQuery{}, analysis, cfg)

	assert.Equal(t, []string{"tenant"}, sq.IndexTypes)
	assert.Contains(t, sq.Terms, entities.TermFilter{Field: "email", Value: "john@example.com"})
	assert.Equal(t, "name", sq.Match[0].Fields[0].Field)
}

func TestBuildNaturalLanguage_PaymentIntentIsExact(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	analysis := &entities.QueryAnalysis{
		NormalizedQuery: "overdue rent payments",
		Intent:          entities.IntentPaymentInquiry,
	}
	sq := builder.BuildNaturalLanguage(&entities.SearchQuery{}, analysis, cfg)

	assert.Equal(t, []string{"payment"}, sq.IndexTypes)
	// Payment lookups never fuzz amounts or statuses.
	assert.False(t, sq.Match[0].Fuzzy)
	assert.Contains(t, sq.Terms, entities.TermFilter{Field: "status", Value: "overdue"})
}

func TestBuildNaturalLanguage_MaintenanceUrgency(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	analysis := &entities.QueryAnalysis{
		NormalizedQuery: "urgent leak in kitchen",
		Intent:          entities.IntentMaintenanceRequest,
	}
	sq := builder.BuildNaturalLanguage(&entities.SearchQuery{}, analysis, cfg)

	assert.Equal(t, []string{"maintenance_request"}, sq.IndexTypes)
	assert.Contains(t, sq.Terms, entities.TermFilter{Field: "priority", Value: "high"})
}

func TestBuildNaturalLanguage_GeneralIntentFallsBackToFullText(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	analysis := &entities.QueryAnalysis{
		NormalizedQuery: "hello world",
		Intent:          entities.IntentGeneralSearch,
	}
	sq := builder.BuildNaturalLanguage(&entities.SearchQuery{Text: "hello world"}, analysis, cfg)

	assert.Empty(t, sq.IndexTypes)
	require.Len(t, sq.Match, 1)
	assert.Len(t, sq.Match[0].Fields, 4)
}

func TestBuildSemantic_AddsConceptClause(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()

	sq := builder.BuildSemantic(&entities.SearchQuery{Text: "cozy place near park"}, cfg)

	require.Len(t, sq.Match, 2)
	assert.Equal(t, "semantic_content", sq.Match[1].Fields[0].Field)
	assert.Equal(t, 4.0, sq.Match[1].Fields[0].Boost)
	assert.False(t, sq.Match[1].Fuzzy)
}

func TestBuild_PaginationDefaultsAndClamping(t *testing.T) {
	builder := NewQueryBuilderService()
	cfg := entities.DefaultSearchConfig()
	cfg.MaxResults = 50

	defaulted := builder.BuildFullText(&entities.SearchQuery{Text: "loft"}, cfg)
	assert.Equal(t, 1, defaulted.Page)
	assert.Equal(t, 20, defaulted.PageSize)

	clamped := builder.BuildFullText(&entities.SearchQuery{Text: "loft", Page: 3, PageSize: 500}, cfg)
	assert.Equal(t, 3, clamped.Page)
	assert.Equal(t, 50, clamped.PageSize)
}
