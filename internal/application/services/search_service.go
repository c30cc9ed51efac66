package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/observability"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// Search type labels recorded on interaction events and metrics.
const (
	SearchTypeFullText        = "full_text"
	SearchTypeAdvanced        = "advanced"
	SearchTypeFaceted         = "faceted"
	SearchTypeNaturalLanguage = "natural_language"
	SearchTypeSemantic        = "semantic"
	SearchTypeSimilar         = "similar"
)

const searchCachePrefix = "search:"

// SearchService orchestrates a search request end to end: configuration,
// validation, query analysis, query construction, backend execution,
// ranking, and interaction tracking.
type SearchService struct {
	analyzer     QueryAnalyzer
	builder      *QueryBuilderService
	ranker       *RankingService
	backend      repositories.SearchBackend
	interactions *InteractionService
	config       *ConfigService
	cache        providers.CacheProvider
	metrics      *observability.Metrics
}

// NewSearchService creates a new search service. cache and metrics may
// be nil.
func NewSearchService(
	analyzer QueryAnalyzer,
	builder *QueryBuilderService,
	ranker *RankingService,
	backend repositories.SearchBackend,
	interactions *InteractionService,
	config *ConfigService,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *SearchService {
	return &SearchService{
		analyzer:     analyzer,
		builder:      builder,
		ranker:       ranker,
		backend:      backend,
		interactions: interactions,
		config:       config,
		cache:        cache,
		metrics:      metrics,
	}
}

// FullText runs a weighted multi-field keyword search.
func (s *SearchService) FullText(ctx context.Context, q *entities.SearchQuery) (*entities.SearchResponse, error) {
	cfg := s.config.Get()
	if err := validateQueryText(q.Text, cfg); err != nil {
		return nil, err
	}
	return s.run(ctx, SearchTypeFullText, q, cfg, s.builder.BuildFullText(q, cfg), nil), nil
}

// Advanced runs a search with explicit filters, date ranges and sort.
// Text is optional when at least one filter is present.
func (s *SearchService) Advanced(ctx context.Context, q *entities.SearchQuery) (*entities.SearchResponse, error) {
	cfg := s.config.Get()
	if strings.TrimSpace(q.Text) == "" && len(q.Filters) == 0 && q.DateRange == nil {
		return nil, apperrors.NewInvalidQueryError("query text or at least one filter is required")
	}
	if strings.TrimSpace(q.Text) != "" {
		if err := validateQueryText(q.Text, cfg); err != nil {
			return nil, err
		}
	}
	return s.run(ctx, SearchTypeAdvanced, q, cfg, s.builder.BuildAdvanced(q, cfg), nil), nil
}

// Faceted runs a search that also returns value distributions for the
// requested facet fields.
func (s *SearchService) Faceted(ctx context.Context, q *entities.SearchQuery) (*entities.SearchResponse, error) {
	cfg := s.config.Get()
	if len(q.Facets) == 0 {
		return nil, apperrors.NewInvalidQueryError("at least one facet field is required")
	}
	if strings.TrimSpace(q.Text) != "" {
		if err := validateQueryText(q.Text, cfg); err != nil {
			return nil, err
		}
	}
	return s.run(ctx, SearchTypeFaceted, q, cfg, s.builder.BuildFaceted(q, cfg), nil), nil
}

// NaturalLanguage analyzes free-form text and dispatches to an
// intent-specific query shape. The analysis rides along in the
// response.
func (s *SearchService) NaturalLanguage(ctx context.Context, q *entities.SearchQuery) (*entities.SearchResponse, error) {
	cfg := s.config.Get()
	analysis, err := s.analyzer.Analyze(ctx, q.Text, q.Context, cfg)
	if err != nil {
		return nil, err
	}
	structured := s.builder.BuildNaturalLanguage(q, analysis, cfg)
	return s.run(ctx, SearchTypeNaturalLanguage, q, cfg, structured, analysis), nil
}

// Semantic widens a full-text search with a concept-field clause. When
// semantic search is disabled it behaves as plain full-text.
func (s *SearchService) Semantic(ctx context.Context, q *entities.SearchQuery) (*entities.SearchResponse, error) {
	cfg := s.config.Get()
	if err := validateQueryText(q.Text, cfg); err != nil {
		return nil, err
	}
	if !cfg.SemanticEnabled {
		return s.run(ctx, SearchTypeFullText, q, cfg, s.builder.BuildFullText(q, cfg), nil), nil
	}
	return s.run(ctx, SearchTypeSemantic, q, cfg, s.builder.BuildSemantic(q, cfg), nil), nil
}

// Similar finds documents resembling an existing one by searching with
// the source document's title, excluding the document itself. A
// non-empty entityType restricts both the lookup and the results to
// that index type.
func (s *SearchService) Similar(ctx context.Context, entityType, id string, limit int) (*entities.SearchResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("document id is required")
	}
	cfg := s.config.Get()
	if limit <= 0 || limit > cfg.MaxResults {
		limit = 10
	}

	source, err := s.lookupDocument(ctx, entityType, id, cfg)
	if err != nil {
		return nil, err
	}
	seed, _ := source.Source["title"].(string)
	if seed == "" {
		seed, _ = source.Source["name"].(string)
	}
	if seed == "" {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s has no searchable title", id))
	}

	q := &entities.SearchQuery{Text: seed, PageSize: limit + 1}
	structured := s.builder.BuildFullText(q, cfg)
	if entityType != "" {
		structured.IndexTypes = []string{entityType}
	}
	response := s.run(ctx, SearchTypeSimilar, q, cfg, structured, nil)

	filtered := make([]entities.SearchHit, 0, len(response.Hits))
	for _, hit := range response.Hits {
		if hit.ID == id {
			continue
		}
		filtered = append(filtered, hit)
		if len(filtered) >= limit {
			break
		}
	}
	response.Hits = filtered
	response.Total = len(filtered)
	return response, nil
}

// run executes a structured query and assembles the response. Backend
// failures degrade to an empty response with Error set; exactly one
// search event is tracked per response-producing request, whether the
// response came from the backend, the cache, or degradation.
func (s *SearchService) run(ctx context.Context, searchType string, q *entities.SearchQuery, cfg *entities.SearchConfig, structured *entities.StructuredQuery, analysis *entities.QueryAnalysis) *entities.SearchResponse {
	start := time.Now()

	if cached, ok := s.cachedResponse(ctx, searchType, structured); ok {
		observability.RecordCacheHit(ctx, s.metrics, searchCachePrefix+searchType)
		cached.Analysis = analysis
		s.trackSearch(q, searchType, cached.Total, time.Since(start))
		return cached
	}
	observability.RecordCacheMiss(ctx, s.metrics, searchCachePrefix+searchType)

	if !cfg.BackendEnabled {
		return s.degraded(ctx, searchType, q, analysis, start, "search backend is disabled")
	}

	execCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	result, err := s.backend.Execute(execCtx, structured)
	if err != nil {
		log.Error().Err(err).Str("search_type", searchType).Str("query", q.Text).
			Msg("search backend execution failed")
		return s.degraded(ctx, searchType, q, analysis, start, "search backend unavailable")
	}

	hits := s.ranker.Rank(ctx, normalizeQuery(q.Text), result.Hits, cfg)
	response := &entities.SearchResponse{
		Hits:     hits,
		Total:    result.Total,
		TookMs:   time.Since(start).Milliseconds(),
		Facets:   s.ranker.ProcessFacets(result.Aggregations),
		Analysis: analysis,
	}

	s.trackSearch(q, searchType, response.Total, time.Since(start))
	observability.RecordSearchMetric(ctx, s.metrics, searchType, false, time.Since(start))
	s.storeResponse(ctx, searchType, structured, response, cfg)
	return response
}

func (s *SearchService) degraded(ctx context.Context, searchType string, q *entities.SearchQuery, analysis *entities.QueryAnalysis, start time.Time, message string) *entities.SearchResponse {
	s.trackSearch(q, searchType, 0, time.Since(start))
	observability.RecordSearchMetric(ctx, s.metrics, searchType, true, time.Since(start))
	return &entities.SearchResponse{
		Hits:     []entities.SearchHit{},
		Total:    0,
		TookMs:   time.Since(start).Milliseconds(),
		Analysis: analysis,
		Error:    message,
	}
}

func (s *SearchService) trackSearch(q *entities.SearchQuery, searchType string, resultCount int, took time.Duration) {
	s.interactions.Track(&entities.InteractionEvent{
		Query:          normalizeQuery(q.Text),
		SearchType:     searchType,
		Action:         entities.ActionSearch,
		UserID:         q.UserID,
		SessionID:      q.SessionID,
		ResponseTimeMs: took.Milliseconds(),
		ResultCount:    resultCount,
	})
}

func (s *SearchService) cachedResponse(ctx context.Context, searchType string, structured *entities.StructuredQuery) (*entities.SearchResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, searchCacheKey(searchType, structured))
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var response entities.SearchResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, false
	}
	return &response, true
}

func (s *SearchService) storeResponse(ctx context.Context, searchType string, structured *entities.StructuredQuery, response *entities.SearchResponse, cfg *entities.SearchConfig) {
	if s.cache == nil || cfg.CacheTTLSeconds <= 0 {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, searchCacheKey(searchType, structured), raw, cfg.CacheTTLSeconds); err != nil {
		log.Debug().Err(err).Msg("failed to cache search response")
	}
}

func (s *SearchService) lookupDocument(ctx context.Context, entityType, id string, cfg *entities.SearchConfig) (*entities.SearchHit, error) {
	execCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	lookup := &entities.StructuredQuery{
		Terms:    []entities.TermFilter{{Field: "id", Value: id}},
		Page:     1,
		PageSize: 1,
	}
	if entityType != "" {
		lookup.IndexTypes = []string{entityType}
	}
	result, err := s.backend.Execute(execCtx, lookup)
	if err != nil {
		return nil, apperrors.NewBackendUnavailableError("failed to load source document", err)
	}
	if len(result.Hits) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s not found", id))
	}
	return &result.Hits[0], nil
}

func validateQueryText(text string, cfg *entities.SearchConfig) error {
	length := len([]rune(strings.TrimSpace(text)))
	if length < cfg.MinQueryLength {
		return apperrors.NewInvalidQueryError(fmt.Sprintf("query must be at least %d characters", cfg.MinQueryLength))
	}
	if length > cfg.MaxQueryLength {
		return apperrors.NewInvalidQueryError(fmt.Sprintf("query must be at most %d characters", cfg.MaxQueryLength))
	}
	return nil
}

func searchCacheKey(searchType string, structured *entities.StructuredQuery) string {
	raw, err := json.Marshal(structured)
	if err != nil {
		return searchCachePrefix + searchType
	}
	sum := sha256.Sum256(raw)
	return searchCachePrefix + searchType + ":" + hex.EncodeToString(sum[:8])
}
