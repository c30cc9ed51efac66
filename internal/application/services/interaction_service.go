package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/repositories"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

// defaultAnalyticsWindow is the trailing window used when the caller
// does not supply one.
const defaultAnalyticsWindow = 7 * 24 * time.Hour

// refinementWindow bounds how far apart two same-session queries may
// be to count as a refinement.
const refinementWindow = 5 * time.Minute

// conversionMinEvents is the event floor below which a query is
// excluded from conversion-rate computation.
const conversionMinEvents = 5

var validFeedbackActions = map[string]struct{}{
	entities.ActionClick:   {},
	entities.ActionView:    {},
	entities.ActionConvert: {},
	entities.ActionExit:    {},
}

// InteractionService owns the append-only interaction log: the
// fire-and-forget write path and the windowed analytics reads.
type InteractionService struct {
	repo   repositories.InteractionRepository
	config *ConfigService
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(repo repositories.InteractionRepository) *InteractionService {
	return &InteractionService{repo: repo}
}

// SetConfig attaches the config service. Without one, tracking is
// always on.
func (s *InteractionService) SetConfig(config *ConfigService) {
	s.config = config
}

// Track appends an event in the background. Write failures are logged
// and dropped; they never block or affect the caller's response. The
// analytics toggle turns the whole write path off.
func (s *InteractionService) Track(event *entities.InteractionEvent) {
	if s.config != nil && !s.config.Get().AnalyticsEnabled {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	go func() {
		// Fresh context: the request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Warn().Err(err).Str("query", event.Query).Str("action", event.Action).
				Msg("interaction event dropped")
		}
	}()
}

// RecordFeedback appends an explicit result interaction.
func (s *InteractionService) RecordFeedback(ctx context.Context, query, resultID, action, userID, sessionID string) error {
	if _, ok := validFeedbackActions[action]; !ok {
		return apperrors.NewValidationError("action must be one of click, view, convert, exit")
	}
	if strings.TrimSpace(query) == "" {
		return apperrors.NewValidationError("query is required")
	}

	event := &entities.InteractionEvent{
		ID:        uuid.New().String(),
		Query:     normalizeQuery(query),
		ResultID:  resultID,
		Action:    action,
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.LogEvent(ctx, event); err != nil {
		return apperrors.NewTrackingError("failed to record interaction", err)
	}
	return nil
}

// PopularSearches groups search events by exact query text over the
// window: count descending, ties ascending lexicographic, truncated
// to limit.
func (s *InteractionService) PopularSearches(ctx context.Context, window time.Duration, limit int) ([]entities.PopularSearch, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	counts := countQueries(events, func(e *entities.InteractionEvent) bool {
		return e.Action == entities.ActionSearch
	})
	return topQueries(counts, limit, 1), nil
}

// TrendingQueries is the popular grouping restricted to queries seen
// more than once within the window.
func (s *InteractionService) TrendingQueries(ctx context.Context, window time.Duration, limit int) ([]entities.PopularSearch, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	counts := countQueries(events, func(e *entities.InteractionEvent) bool {
		return e.Action == entities.ActionSearch
	})
	return topQueries(counts, limit, 2), nil
}

// CategoryDistribution assigns each searched query to a category by
// the intent keyword-bucket rule and counts per category.
func (s *InteractionService) CategoryDistribution(ctx context.Context, window time.Duration) ([]entities.CategoryCount, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range events {
		if e.Action != entities.ActionSearch {
			continue
		}
		counts[categoryForQuery(e.Query)]++
	}

	// Stable output order: every category present, fixed sequence.
	out := make([]entities.CategoryCount, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		out = append(out, entities.CategoryCount{Category: cat, Count: counts[cat]})
	}
	return out, nil
}

// SuccessRate is clicks divided by searches over the window, as a
// percentage.
func (s *InteractionService) SuccessRate(ctx context.Context, window time.Duration) (float64, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return 0, err
	}

	var searches, clicks int
	for _, e := range events {
		switch e.Action {
		case entities.ActionSearch:
			searches++
		case entities.ActionClick:
			clicks++
		}
	}
	if searches == 0 {
		return 0, nil
	}
	return float64(clicks) / float64(searches) * 100, nil
}

// AvgResponseTime is the mean recorded response time over the window,
// ignoring events without one.
func (s *InteractionService) AvgResponseTime(ctx context.Context, window time.Duration) (float64, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return 0, err
	}

	var sum int64
	var n int
	for _, e := range events {
		if e.Action == entities.ActionSearch && e.ResponseTimeMs > 0 {
			sum += e.ResponseTimeMs
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

// HourlyFrequency counts search events grouped by hour of day.
func (s *InteractionService) HourlyFrequency(ctx context.Context, window time.Duration) ([]entities.HourlyCount, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	var hours [24]int
	for _, e := range events {
		if e.Action == entities.ActionSearch {
			hours[e.CreatedAt.Hour()]++
		}
	}

	out := make([]entities.HourlyCount, 24)
	for h, count := range hours {
		out[h] = entities.HourlyCount{Hour: h, Count: count}
	}
	return out, nil
}

// FailedSearches groups queries whose recorded result count was zero,
// most frequent first.
func (s *InteractionService) FailedSearches(ctx context.Context, window time.Duration, limit int) ([]entities.FailedSearch, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	counts := countQueries(events, func(e *entities.InteractionEvent) bool {
		return e.Action == entities.ActionSearch && e.ResultCount == 0
	})

	ranked := topQueries(counts, limit, 1)
	out := make([]entities.FailedSearch, len(ranked))
	for i, p := range ranked {
		out[i] = entities.FailedSearch{Query: p.Query, Count: p.Count}
	}
	return out, nil
}

// ConversionRates computes (click+view+convert)/(all actions) per
// distinct query, only for queries with at least five events in the
// window, sorted descending by rate.
func (s *InteractionService) ConversionRates(ctx context.Context, window time.Duration) ([]entities.QueryConversion, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	conversions := make(map[string]int)
	for _, e := range events {
		if e.Query == "" {
			continue
		}
		totals[e.Query]++
		switch e.Action {
		case entities.ActionClick, entities.ActionView, entities.ActionConvert:
			conversions[e.Query]++
		}
	}

	var out []entities.QueryConversion
	for query, total := range totals {
		if total < conversionMinEvents {
			continue
		}
		out = append(out, entities.QueryConversion{
			Query:       query,
			TotalEvents: total,
			Conversions: conversions[query],
			Rate:        float64(conversions[query]) / float64(total),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Query < out[j].Query
	})
	return out, nil
}

// RefinementPairs counts same-session pairs where a later distinct
// query follows an earlier one within five minutes.
func (s *InteractionService) RefinementPairs(ctx context.Context, window time.Duration, limit int) ([]entities.RefinementPair, error) {
	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	sessions := make(map[string][]*entities.InteractionEvent)
	for _, e := range events {
		if e.Action != entities.ActionSearch || e.SessionID == "" {
			continue
		}
		sessions[e.SessionID] = append(sessions[e.SessionID], e)
	}

	type pairKey struct{ original, refined string }
	counts := make(map[pairKey]int)
	for _, evs := range sessions {
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].CreatedAt.Before(evs[j].CreatedAt)
		})
		for i := 0; i < len(evs); i++ {
			for j := i + 1; j < len(evs); j++ {
				gap := evs[j].CreatedAt.Sub(evs[i].CreatedAt)
				if gap <= 0 {
					continue
				}
				if gap > refinementWindow {
					break
				}
				if evs[j].Query == evs[i].Query {
					continue
				}
				counts[pairKey{evs[i].Query, evs[j].Query}]++
			}
		}
	}

	out := make([]entities.RefinementPair, 0, len(counts))
	for key, count := range counts {
		out = append(out, entities.RefinementPair{
			OriginalQuery: key.original,
			RefinedQuery:  key.refined,
			Count:         count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].OriginalQuery != out[j].OriginalQuery {
			return out[i].OriginalQuery < out[j].OriginalQuery
		}
		return out[i].RefinedQuery < out[j].RefinedQuery
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchTrends bundles the trend statistics for one named period
// ("day", "week", "month").
func (s *InteractionService) SearchTrends(ctx context.Context, period string) (*entities.SearchTrends, error) {
	window := defaultAnalyticsWindow
	switch period {
	case "day":
		window = 24 * time.Hour
	case "week":
		window = 7 * 24 * time.Hour
	case "month":
		window = 30 * 24 * time.Hour
	default:
		period = "week"
	}

	events, err := s.listWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	trends := &entities.SearchTrends{Period: period}
	for _, e := range events {
		if e.Action == entities.ActionSearch {
			trends.TotalSearches++
		}
	}

	if trends.TrendingQueries, err = s.TrendingQueries(ctx, window, 10); err != nil {
		return nil, err
	}
	if trends.Categories, err = s.CategoryDistribution(ctx, window); err != nil {
		return nil, err
	}
	if trends.SuccessRate, err = s.SuccessRate(ctx, window); err != nil {
		return nil, err
	}
	if trends.AvgResponseTimeMs, err = s.AvgResponseTime(ctx, window); err != nil {
		return nil, err
	}
	if trends.HourlyFrequency, err = s.HourlyFrequency(ctx, window); err != nil {
		return nil, err
	}
	if trends.FailedSearches, err = s.FailedSearches(ctx, window, 10); err != nil {
		return nil, err
	}
	return trends, nil
}

// UserBehavior summarizes one user's interactions over the default
// window.
func (s *InteractionService) UserBehavior(ctx context.Context, userID string) (*entities.UserBehavior, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("userId is required")
	}

	events, err := s.listWindow(ctx, defaultAnalyticsWindow)
	if err != nil {
		return nil, err
	}

	behavior := &entities.UserBehavior{UserID: userID}
	counts := make(map[string]int)
	for _, e := range events {
		if e.UserID != userID {
			continue
		}
		switch e.Action {
		case entities.ActionSearch:
			behavior.TotalSearches++
			counts[e.Query]++
		case entities.ActionClick:
			behavior.TotalClicks++
		}
		if e.CreatedAt.After(behavior.LastActivityAt) {
			behavior.LastActivityAt = e.CreatedAt
		}
	}
	behavior.TopQueries = topQueries(counts, 10, 1)
	return behavior, nil
}

func (s *InteractionService) listWindow(ctx context.Context, window time.Duration) ([]*entities.InteractionEvent, error) {
	if window <= 0 {
		window = defaultAnalyticsWindow
	}
	events, err := s.repo.ListSince(ctx, time.Now().Add(-window))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read interaction log", err)
	}
	return events, nil
}

func countQueries(events []*entities.InteractionEvent, keep func(*entities.InteractionEvent) bool) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Query == "" || !keep(e) {
			continue
		}
		counts[e.Query]++
	}
	return counts
}

// topQueries sorts grouped counts descending with an ascending
// lexicographic tie-break, dropping entries below minCount.
func topQueries(counts map[string]int, limit, minCount int) []entities.PopularSearch {
	out := make([]entities.PopularSearch, 0, len(counts))
	for query, count := range counts {
		if count < minCount {
			continue
		}
		out = append(out, entities.PopularSearch{Query: query, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// categoryOrder fixes the emission order of category counts.
var categoryOrder = []string{"Properties", "Tenants", "Payments", "Maintenance", "General"}

func categoryForQuery(query string) string {
	switch ClassifyIntent(normalizeQuery(query)) {
	case entities.IntentFindProperty:
		return "Properties"
	case entities.IntentFindTenant:
		return "Tenants"
	case entities.IntentPaymentInquiry:
		return "Payments"
	case entities.IntentMaintenanceRequest:
		return "Maintenance"
	default:
		return "General"
	}
}
