package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
)

const (
	defaultSuggestionLimit = 10
	suggestionCachePrefix  = "suggestions:"
	popularSuggestWindow   = 7 * 24 * time.Hour
)

// SuggestionService merges backend completions with popular past
// queries into a single ranked suggestion list.
type SuggestionService struct {
	backend      repositories.SearchBackend
	interactions *InteractionService
	cache        providers.CacheProvider
	config       *ConfigService
}

// NewSuggestionService creates a new suggestion service. cache may be
// nil when no cache is configured.
func NewSuggestionService(backend repositories.SearchBackend, interactions *InteractionService, cache providers.CacheProvider) *SuggestionService {
	return &SuggestionService{backend: backend, interactions: interactions, cache: cache}
}

// SetConfig attaches the config service. Without one, backend
// completions are always fetched.
func (s *SuggestionService) SetConfig(config *ConfigService) {
	s.config = config
}

func (s *SuggestionService) completionsEnabled() bool {
	return s.config == nil || s.config.Get().AutocompleteEnabled
}

// Suggest returns up to limit suggestions for a prefix. Backend
// completions come first in backend order; popular queries fill the
// remainder, count descending then text ascending, with duplicates
// removed. Either source failing degrades to the other; both failing
// yields an empty list, never an error.
func (s *SuggestionService) Suggest(ctx context.Context, prefix string, limit int) []entities.Suggestion {
	normalized := normalizeQuery(prefix)
	if normalized == "" {
		return []entities.Suggestion{}
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	if cached, ok := s.cachedSuggestions(ctx, normalized, limit); ok {
		return cached
	}

	var (
		wg          sync.WaitGroup
		completions []string
		popular     []entities.PopularSearch
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if !s.completionsEnabled() {
			return
		}
		results, err := s.backend.Suggest(ctx, normalized, limit)
		if err != nil {
			log.Warn().Err(err).Str("prefix", normalized).Msg("completion suggestions unavailable")
			return
		}
		completions = results
	}()
	go func() {
		defer wg.Done()
		results, err := s.interactions.PopularSearches(ctx, popularSuggestWindow, limit*2)
		if err != nil {
			log.Warn().Err(err).Str("prefix", normalized).Msg("popular suggestions unavailable")
			return
		}
		popular = results
	}()
	wg.Wait()

	suggestions := mergeSuggestions(completions, popular, limit)
	s.storeSuggestions(ctx, normalized, limit, suggestions)
	return suggestions
}

// Autocomplete is the completion-only variant used by the lightweight
// typeahead endpoint.
func (s *SuggestionService) Autocomplete(ctx context.Context, prefix string, limit int) []string {
	normalized := normalizeQuery(prefix)
	if normalized == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if !s.completionsEnabled() {
		return []string{}
	}

	results, err := s.backend.Suggest(ctx, normalized, limit)
	if err != nil {
		log.Warn().Err(err).Str("prefix", normalized).Msg("autocomplete unavailable")
		return []string{}
	}
	return results
}

func mergeSuggestions(completions []string, popular []entities.PopularSearch, limit int) []entities.Suggestion {
	seen := make(map[string]struct{})
	out := make([]entities.Suggestion, 0, limit)

	for i, text := range completions {
		key := strings.ToLower(strings.TrimSpace(text))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entities.Suggestion{
			Text:   text,
			Score:  float64(len(completions) - i),
			Origin: entities.SuggestionOriginCompletion,
		})
		if len(out) >= limit {
			return out
		}
	}

	// Popular entries arrive already sorted by count desc, text asc.
	for _, p := range popular {
		if _, dup := seen[p.Query]; dup {
			continue
		}
		seen[p.Query] = struct{}{}
		out = append(out, entities.Suggestion{
			Text:   p.Query,
			Score:  float64(p.Count),
			Origin: entities.SuggestionOriginPopular,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (s *SuggestionService) cachedSuggestions(ctx context.Context, prefix string, limit int) ([]entities.Suggestion, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, suggestionCacheKey(prefix, limit))
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var suggestions []entities.Suggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}

func (s *SuggestionService) storeSuggestions(ctx context.Context, prefix string, limit int, suggestions []entities.Suggestion) {
	if s.cache == nil || len(suggestions) == 0 {
		return
	}
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, suggestionCacheKey(prefix, limit), raw, 60); err != nil {
		log.Debug().Err(err).Msg("failed to cache suggestions")
	}
}

func suggestionCacheKey(prefix string, limit int) string {
	return suggestionCachePrefix + prefix + ":" + strconv.Itoa(limit)
}
