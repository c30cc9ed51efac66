package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// QueryAnalyzer interprets raw search queries. Pluggable so the
// keyword heuristics can be replaced by a trained model without
// changing callers.
type QueryAnalyzer interface {
	Analyze(ctx context.Context, text, contextTag string, cfg *entities.SearchConfig) (*entities.QueryAnalysis, error)
}

// intentBucket pairs an intent with its trigger keywords. Buckets are
// checked in order; the first match wins, so a query containing both
// "apartment" and "rent" resolves to the property intent.
type intentBucket struct {
	intent   entities.Intent
	keywords []string
}

var intentBuckets = []intentBucket{
	{entities.IntentFindProperty, []string{
		"property", "apartment", "house", "condo", "unit", "bedroom",
		"bathroom", "listing", "studio", "vacancy",
	}},
	{entities.IntentFindTenant, []string{
		"tenant", "renter", "lease", "leaseholder", "occupant", "resident",
	}},
	{entities.IntentPaymentInquiry, []string{
		"payment", "rent", "invoice", "balance", "overdue", "deposit", "paid",
	}},
	{entities.IntentMaintenanceRequest, []string{
		"maintenance", "repair", "broken", "leak", "plumbing", "hvac", "damage",
	}},
}

var questionWords = map[string]struct{}{
	"what": {}, "where": {}, "when": {}, "who": {}, "why": {}, "how": {},
	"which": {}, "is": {}, "are": {}, "can": {}, "do": {}, "does": {},
}

var commandWords = map[string]struct{}{
	"find": {}, "show": {}, "list": {}, "get": {}, "search": {},
	"display": {}, "give": {},
}

// capQualifiers mark a money or number token as an upper bound.
var capQualifiers = map[string]struct{}{
	"under": {}, "below": {}, "max": {}, "maximum": {}, "upto": {},
}

var (
	numberPattern = regexp.MustCompile(`^\d+$`)
	moneyPattern  = regexp.MustCompile(`^\$\d+(\.\d+)?$`)
)

// HeuristicAnalyzer assigns intent by keyword-bucket matching and
// extracts entities and parameters with deterministic token rules.
type HeuristicAnalyzer struct {
	cache providers.CacheProvider
}

// NewHeuristicAnalyzer creates a new heuristic query analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

// SetCache sets the cache provider for analysis results.
func (a *HeuristicAnalyzer) SetCache(cache providers.CacheProvider) {
	a.cache = cache
}

// Analyze validates, tokenizes and classifies a raw query.
func (a *HeuristicAnalyzer) Analyze(ctx context.Context, text, contextTag string, cfg *entities.SearchConfig) (*entities.QueryAnalysis, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < cfg.MinQueryLength {
		return nil, apperrors.NewInvalidQueryError(
			fmt.Sprintf("query must be at least %d characters", cfg.MinQueryLength))
	}
	if len(trimmed) > cfg.MaxQueryLength {
		return nil, apperrors.NewInvalidQueryError(
			fmt.Sprintf("query must be at most %d characters", cfg.MaxQueryLength))
	}

	normalized := normalizeQuery(trimmed)

	if a.cache != nil {
		cacheKey := "query_analysis:" + normalized
		if data, err := a.cache.Get(ctx, cacheKey); err == nil {
			var cached entities.QueryAnalysis
			if json.Unmarshal(data, &cached) == nil {
				cached.OriginalQuery = text
				return &cached, nil
			}
		}
	}

	tokens := strings.Fields(normalized)

	result := &entities.QueryAnalysis{
		OriginalQuery:   text,
		NormalizedQuery: normalized,
		Intent:          ClassifyIntent(normalized),
		Entities:        extractEntities(tokens),
		Parameters:      extractParameters(tokens),
		QueryType:       classifyQueryType(trimmed, tokens),
	}
	result.Confidence = scoreConfidence(result)

	if a.cache != nil {
		cacheKey := "query_analysis:" + normalized
		if data, err := json.Marshal(result); err == nil {
			_ = a.cache.Set(ctx, cacheKey, data, cfg.CacheTTLSeconds)
		}
	}

	return result, nil
}

func normalizeQuery(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ClassifyIntent assigns one of the five fixed intent categories by
// keyword-bucket matching in priority order. The interaction analytics
// use the same rule for category distribution.
func ClassifyIntent(normalized string) entities.Intent {
	tokens := strings.Fields(normalized)
	for _, bucket := range intentBuckets {
		for _, token := range tokens {
			for _, kw := range bucket.keywords {
				if tokenMatches(token, kw) {
					return bucket.intent
				}
			}
		}
	}
	return entities.IntentGeneralSearch
}

// tokenMatches accepts the bare keyword and its simple plural.
func tokenMatches(token, keyword string) bool {
	return token == keyword || token == keyword+"s"
}

func extractEntities(tokens []string) []entities.QueryEntity {
	var out []entities.QueryEntity
	for _, token := range tokens {
		switch {
		case numberPattern.MatchString(token):
			out = append(out, entities.QueryEntity{Type: entities.EntityNumber, Text: token})
		case strings.Contains(token, "@"):
			out = append(out, entities.QueryEntity{Type: entities.EntityEmail, Text: token})
		case moneyPattern.MatchString(token):
			out = append(out, entities.QueryEntity{Type: entities.EntityMoney, Text: strings.TrimPrefix(token, "$")})
		}
	}
	return out
}

func extractParameters(tokens []string) map[string]string {
	params := make(map[string]string)

	for i, token := range tokens {
		// A number immediately preceding a unit keyword names a count.
		if numberPattern.MatchString(token) && i+1 < len(tokens) {
			next := tokens[i+1]
			if tokenMatches(next, "bedroom") {
				params["bedrooms"] = token
			}
			if tokenMatches(next, "bathroom") {
				params["bathrooms"] = token
			}
		}

		if moneyPattern.MatchString(token) {
			amount := strings.TrimPrefix(token, "$")
			if i > 0 {
				if _, capped := capQualifiers[tokens[i-1]]; capped {
					params["maxPrice"] = amount
					continue
				}
			}
			if nearPriceKeyword(tokens, i) {
				params["maxPrice"] = amount
			}
		}

		// A bare number adjacent to a price keyword is a price bound,
		// unless it was already consumed as a unit count.
		if numberPattern.MatchString(token) && nearPriceKeyword(tokens, i) {
			if params["bedrooms"] == token || params["bathrooms"] == token {
				continue
			}
			params["maxPrice"] = token
		}
	}

	if len(params) == 0 {
		return nil
	}
	return params
}

// nearPriceKeyword reports whether a price/rent keyword appears within
// one token of position i.
func nearPriceKeyword(tokens []string, i int) bool {
	for j := i - 1; j <= i+1; j++ {
		if j < 0 || j >= len(tokens) || j == i {
			continue
		}
		if tokenMatches(tokens[j], "price") || tokenMatches(tokens[j], "rent") {
			return true
		}
	}
	return false
}

func classifyQueryType(raw string, tokens []string) entities.QueryType {
	if strings.HasSuffix(strings.TrimSpace(raw), "?") {
		return entities.QueryTypeQuestion
	}
	if len(tokens) == 0 {
		return entities.QueryTypeKeyword
	}
	if _, ok := questionWords[tokens[0]]; ok {
		return entities.QueryTypeQuestion
	}
	if _, ok := commandWords[tokens[0]]; ok {
		return entities.QueryTypeCommand
	}
	return entities.QueryTypeKeyword
}

// scoreConfidence starts at 0.5, adds 0.2 for a specific intent and
// 0.1 per extracted entity and parameter, capped at 1.0.
func scoreConfidence(a *entities.QueryAnalysis) float64 {
	confidence := 0.5
	if a.Intent != entities.IntentGeneralSearch {
		confidence += 0.2
	}
	confidence += 0.1 * float64(len(a.Entities))
	confidence += 0.1 * float64(len(a.Parameters))
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// parseFloatParam parses a numeric parameter value, returning ok=false
// for malformed values.
func parseFloatParam(params map[string]string, name string) (float64, bool) {
	raw, ok := params[name]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
