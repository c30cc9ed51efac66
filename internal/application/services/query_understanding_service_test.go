package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

func TestAnalyze_PropertyCommandQuery(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	analysis, err := analyzer.Analyze(context.Background(), "find 2 bedroom apartment under $1500", "", cfg)
	require.NoError(t, err)

	assert.Equal(t, entities.IntentFindProperty, analysis.Intent)
	assert.Equal(t, entities.QueryTypeCommand, analysis.QueryType)
	assert.Equal(t, "find 2 bedroom apartment under $1500", analysis.OriginalQuery)
	assert.Equal(t, "find 2 bedroom apartment under $1500", analysis.NormalizedQuery)
	assert.Equal(t, "2", analysis.Parameters["bedrooms"])
	assert.Equal(t, "1500", analysis.Parameters["maxPrice"])
}

func TestAnalyze_RejectsTooShortQuery(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	_, err := analyzer.Analyze(context.Background(), "a", "", cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))
}

func TestAnalyze_RejectsTooLongQuery(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	long := strings.Repeat("a", cfg.MaxQueryLength+1)
	_, err := analyzer.Analyze(context.Background(), long, "", cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))
}

func TestAnalyze_NormalizesWhitespaceAndCase(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	analysis, err := analyzer.Analyze(context.Background(), "  Broken   HVAC  ", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "broken hvac", analysis.NormalizedQuery)
	assert.Equal(t, entities.IntentMaintenanceRequest, analysis.Intent)
}

func TestClassifyIntent_PriorityOrder(t *testing.T) {
	// "apartment" (property) and "rent" (payment) both match; the
	// property bucket is checked first and wins.
	assert.Equal(t, entities.IntentFindProperty, ClassifyIntent("apartment rent"))

	// Tenant keywords outrank payment keywords.
	assert.Equal(t, entities.IntentFindTenant, ClassifyIntent("tenant payment history"))
}

func TestClassifyIntent_Buckets(t *testing.T) {
	assert.Equal(t, entities.IntentFindProperty, ClassifyIntent("vacant studio listings"))
	assert.Equal(t, entities.IntentFindTenant, ClassifyIntent("lease renewals"))
	assert.Equal(t, entities.IntentPaymentInquiry, ClassifyIntent("overdue invoices"))
	assert.Equal(t, entities.IntentMaintenanceRequest, ClassifyIntent("plumbing leak"))
	assert.Equal(t, entities.IntentGeneralSearch, ClassifyIntent("hello world"))
}

func TestAnalyze_QuestionClassification(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	byWord, err := analyzer.Analyze(context.Background(), "what units are vacant", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, entities.QueryTypeQuestion, byWord.QueryType)

	byMark, err := analyzer.Analyze(context.Background(), "vacant units downtown?", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, entities.QueryTypeQuestion, byMark.QueryType)

	keyword, err := analyzer.Analyze(context.Background(), "vacant units downtown", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, entities.QueryTypeKeyword, keyword.QueryType)
}

func TestAnalyze_ExtractsEntities(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	analysis, err := analyzer.Analyze(context.Background(), "tenant john@example.com unit 42", "", cfg)
	require.NoError(t, err)

	require.Len(t, analysis.Entities, 2)
	assert.Equal(t, entities.EntityEmail, analysis.Entities[0].Type)
	assert.Equal(t, "john@example.com", analysis.Entities[0].Text)
	assert.Equal(t, entities.EntityNumber, analysis.Entities[1].Type)
	assert.Equal(t, "42", analysis.Entities[1].Text)
}

func TestAnalyze_MoneyWithoutQualifierNeedsPriceKeyword(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	// "$900 rent" has the money token adjacent to a price keyword.
	withKeyword, err := analyzer.Analyze(context.Background(), "apartment $900 rent", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "900", withKeyword.Parameters["maxPrice"])

	// A bare money token with no qualifier and no price keyword nearby
	// stays an entity only.
	bare, err := analyzer.Analyze(context.Background(), "apartment $900 downtown", "", cfg)
	require.NoError(t, err)
	assert.False(t, bare.HasParameter("maxPrice"))
}

func TestAnalyze_BedroomCountNotConsumedAsPrice(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	analysis, err := analyzer.Analyze(context.Background(), "3 bedroom house max $2000", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "3", analysis.Parameters["bedrooms"])
	assert.Equal(t, "2000", analysis.Parameters["maxPrice"])
}

func TestAnalyze_ConfidenceScoring(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	cfg := entities.DefaultSearchConfig()

	// No intent, no entities, no parameters: base 0.5.
	plain, err := analyzer.Analyze(context.Background(), "hello world", "", cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, plain.Confidence, 1e-9)

	// Specific intent only: 0.5 + 0.2.
	intent, err := analyzer.Analyze(context.Background(), "broken heater", "", cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)

	// Intent + 2 entities + 2 parameters: 0.5+0.2+0.2+0.2 = 1.0 cap.
	rich, err := analyzer.Analyze(context.Background(), "find 2 bedroom apartment under $1500", "", cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rich.Confidence, 1e-9)
	assert.LessOrEqual(t, rich.Confidence, 1.0)
}
