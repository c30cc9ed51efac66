package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

func searchEvent(query, userID, sessionID string, resultCount int, at time.Time) *entities.InteractionEvent {
	return &entities.InteractionEvent{
		Query:       query,
		Action:      entities.ActionSearch,
		UserID:      userID,
		SessionID:   sessionID,
		ResultCount: resultCount,
		CreatedAt:   at,
	}
}

func actionEvent(query, action string, at time.Time) *entities.InteractionEvent {
	return &entities.InteractionEvent{Query: query, Action: action, CreatedAt: at}
}

func TestTrack_WritesEventInBackground(t *testing.T) {
	repo := &fakeInteractionRepo{}
	svc := NewInteractionService(repo)

	svc.Track(&entities.InteractionEvent{Query: "apartment", Action: entities.ActionSearch})

	require.Eventually(t, func() bool {
		return len(repo.loggedEvents()) == 1
	}, time.Second, 10*time.Millisecond)

	logged := repo.loggedEvents()[0]
	assert.NotEmpty(t, logged.ID)
	assert.False(t, logged.CreatedAt.IsZero())
}

func TestTrack_DropsFailedWritesSilently(t *testing.T) {
	repo := &fakeInteractionRepo{logErr: errors.New("db down")}
	svc := NewInteractionService(repo)

	// Must not panic or block.
	svc.Track(&entities.InteractionEvent{Query: "apartment", Action: entities.ActionSearch})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, repo.loggedEvents())
}

func TestTrack_DisabledAnalyticsDropsEvents(t *testing.T) {
	repo := &fakeInteractionRepo{}
	svc := NewInteractionService(repo)

	cfg := entities.DefaultSearchConfig()
	cfg.AnalyticsEnabled = false
	svc.SetConfig(NewConfigService(context.Background(), &fakeConfigRepo{stored: cfg}))

	svc.Track(&entities.InteractionEvent{Query: "apartment", Action: entities.ActionSearch})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, repo.loggedEvents())
}

func TestRecordFeedback_ValidatesAction(t *testing.T) {
	repo := &fakeInteractionRepo{}
	svc := NewInteractionService(repo)

	err := svc.RecordFeedback(context.Background(), "apartment", "doc-1", "hover", "", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = svc.RecordFeedback(context.Background(), "  ", "doc-1", entities.ActionClick, "", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = svc.RecordFeedback(context.Background(), "Apartment Downtown", "doc-1", entities.ActionClick, "u1", "s1")
	require.NoError(t, err)

	events := repo.loggedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "apartment downtown", events[0].Query)
	assert.Equal(t, entities.ActionClick, events[0].Action)
	assert.Equal(t, "doc-1", events[0].ResultID)
}

func TestPopularSearches_CountDescendingTextAscending(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	for i := 0; i < 5; i++ {
		repo.events = append(repo.events, searchEvent("alpha", "", "", 1, now))
	}
	for i := 0; i < 3; i++ {
		repo.events = append(repo.events, searchEvent("charlie", "", "", 1, now))
		repo.events = append(repo.events, searchEvent("bravo", "", "", 1, now))
	}
	// Clicks never count toward popularity.
	repo.events = append(repo.events, actionEvent("bravo", entities.ActionClick, now))

	svc := NewInteractionService(repo)
	popular, err := svc.PopularSearches(context.Background(), 24*time.Hour, 10)
	require.NoError(t, err)

	require.Len(t, popular, 3)
	assert.Equal(t, entities.PopularSearch{Query: "alpha", Count: 5}, popular[0])
	assert.Equal(t, entities.PopularSearch{Query: "bravo", Count: 3}, popular[1])
	assert.Equal(t, entities.PopularSearch{Query: "charlie", Count: 3}, popular[2])
}

func TestPopularSearches_RespectsLimit(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	for _, q := range []string{"a", "b", "c", "d"} {
		repo.events = append(repo.events, searchEvent(q, "", "", 1, now))
	}

	svc := NewInteractionService(repo)
	popular, err := svc.PopularSearches(context.Background(), 24*time.Hour, 2)
	require.NoError(t, err)
	assert.Len(t, popular, 2)
}

func TestTrendingQueries_ExcludesSingletons(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("repeated", "", "", 1, now),
		searchEvent("repeated", "", "", 1, now),
		searchEvent("once", "", "", 1, now),
	)

	svc := NewInteractionService(repo)
	trending, err := svc.TrendingQueries(context.Background(), 24*time.Hour, 10)
	require.NoError(t, err)

	require.Len(t, trending, 1)
	assert.Equal(t, "repeated", trending[0].Query)
}

func TestCategoryDistribution_FixedOrder(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("2 bedroom apartment", "", "", 1, now),
		searchEvent("vacant units", "", "", 1, now),
		searchEvent("tenant directory", "", "", 1, now),
		searchEvent("overdue payments", "", "", 1, now),
		searchEvent("broken heater", "", "", 1, now),
		searchEvent("random words", "", "", 1, now),
	)

	svc := NewInteractionService(repo)
	categories, err := svc.CategoryDistribution(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	require.Len(t, categories, 5)
	assert.Equal(t, entities.CategoryCount{Category: "Properties", Count: 2}, categories[0])
	assert.Equal(t, entities.CategoryCount{Category: "Tenants", Count: 1}, categories[1])
	assert.Equal(t, entities.CategoryCount{Category: "Payments", Count: 1}, categories[2])
	assert.Equal(t, entities.CategoryCount{Category: "Maintenance", Count: 1}, categories[3])
	assert.Equal(t, entities.CategoryCount{Category: "General", Count: 1}, categories[4])
}

func TestSuccessRate(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("a", "", "", 1, now),
		searchEvent("b", "", "", 1, now),
		searchEvent("c", "", "", 1, now),
		searchEvent("d", "", "", 1, now),
		actionEvent("a", entities.ActionClick, now),
	)

	svc := NewInteractionService(repo)
	rate, err := svc.SuccessRate(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, rate, 1e-9)
}

func TestSuccessRate_NoSearches(t *testing.T) {
	svc := NewInteractionService(&fakeInteractionRepo{})
	rate, err := svc.SuccessRate(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestAvgResponseTime_IgnoresUnrecorded(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	withTime := searchEvent("a", "", "", 1, now)
	withTime.ResponseTimeMs = 100
	another := searchEvent("b", "", "", 1, now)
	another.ResponseTimeMs = 300
	missing := searchEvent("c", "", "", 1, now)
	repo.events = append(repo.events, withTime, another, missing)

	svc := NewInteractionService(repo)
	avg, err := svc.AvgResponseTime(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, avg, 1e-9)
}

func TestFailedSearches_ZeroResultQueriesOnly(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("no hits", "", "", 0, now),
		searchEvent("no hits", "", "", 0, now),
		searchEvent("found", "", "", 9, now),
	)

	svc := NewInteractionService(repo)
	failed, err := svc.FailedSearches(context.Background(), 24*time.Hour, 10)
	require.NoError(t, err)

	require.Len(t, failed, 1)
	assert.Equal(t, entities.FailedSearch{Query: "no hits", Count: 2}, failed[0])
}

func TestConversionRates_AppliesEventFloor(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	// "busy" has 5 events, 3 converting actions.
	repo.events = append(repo.events,
		searchEvent("busy", "", "", 1, now),
		searchEvent("busy", "", "", 1, now),
		actionEvent("busy", entities.ActionClick, now),
		actionEvent("busy", entities.ActionView, now),
		actionEvent("busy", entities.ActionConvert, now),
	)
	// "quiet" has 4 events and never qualifies.
	repo.events = append(repo.events,
		searchEvent("quiet", "", "", 1, now),
		actionEvent("quiet", entities.ActionClick, now),
		actionEvent("quiet", entities.ActionClick, now),
		actionEvent("quiet", entities.ActionClick, now),
	)

	svc := NewInteractionService(repo)
	rates, err := svc.ConversionRates(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	require.Len(t, rates, 1)
	assert.Equal(t, "busy", rates[0].Query)
	assert.Equal(t, 5, rates[0].TotalEvents)
	assert.Equal(t, 3, rates[0].Conversions)
	assert.InDelta(t, 0.6, rates[0].Rate, 1e-9)
}

func TestRefinementPairs_SameSessionWithinWindow(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("apartment", "", "s1", 0, base),
		searchEvent("apartment downtown", "", "s1", 3, base.Add(time.Minute)),
		// Beyond the five minute window: not a refinement of the first.
		searchEvent("apartment pet friendly", "", "s1", 1, base.Add(10*time.Minute)),
		// Different session never pairs.
		searchEvent("apartment downtown", "", "s2", 3, base.Add(2*time.Minute)),
	)

	svc := NewInteractionService(repo)
	pairs, err := svc.RefinementPairs(context.Background(), 24*time.Hour, 10)
	require.NoError(t, err)

	require.Len(t, pairs, 1)
	assert.Equal(t, "apartment", pairs[0].OriginalQuery)
	assert.Equal(t, "apartment downtown", pairs[0].RefinedQuery)
	assert.Equal(t, 1, pairs[0].Count)
}

func TestRefinementPairs_IdenticalQueriesNeverPair(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("apartment", "", "s1", 0, base),
		searchEvent("apartment", "", "s1", 0, base.Add(time.Minute)),
	)

	svc := NewInteractionService(repo)
	pairs, err := svc.RefinementPairs(context.Background(), 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestSearchTrends_BundlesStatistics(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	repo.events = append(repo.events,
		searchEvent("apartment", "", "", 2, now),
		searchEvent("apartment", "", "", 2, now),
		actionEvent("apartment", entities.ActionClick, now),
	)

	svc := NewInteractionService(repo)
	trends, err := svc.SearchTrends(context.Background(), "day")
	require.NoError(t, err)

	assert.Equal(t, "day", trends.Period)
	assert.Equal(t, 2, trends.TotalSearches)
	require.Len(t, trends.TrendingQueries, 1)
	assert.Equal(t, "apartment", trends.TrendingQueries[0].Query)
	assert.InDelta(t, 50.0, trends.SuccessRate, 1e-9)
	assert.Len(t, trends.HourlyFrequency, 24)
	assert.Len(t, trends.Categories, 5)
}

func TestSearchTrends_UnknownPeriodDefaultsToWeek(t *testing.T) {
	svc := NewInteractionService(&fakeInteractionRepo{})
	trends, err := svc.SearchTrends(context.Background(), "fortnight")
	require.NoError(t, err)
	assert.Equal(t, "week", trends.Period)
}

func TestUserBehavior(t *testing.T) {
	now := time.Now()
	repo := &fakeInteractionRepo{}
	mine := searchEvent("apartment", "u1", "", 2, now.Add(-time.Minute))
	later := searchEvent("apartment", "u1", "", 2, now)
	click := actionEvent("apartment", entities.ActionClick, now)
	click.UserID = "u1"
	other := searchEvent("apartment", "u2", "", 2, now)
	repo.events = append(repo.events, mine, later, click, other)

	svc := NewInteractionService(repo)
	behavior, err := svc.UserBehavior(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, behavior.TotalSearches)
	assert.Equal(t, 1, behavior.TotalClicks)
	require.Len(t, behavior.TopQueries, 1)
	assert.Equal(t, 2, behavior.TopQueries[0].Count)
	assert.True(t, behavior.LastActivityAt.Equal(now))
}

func TestUserBehavior_RequiresUserID(t *testing.T) {
	svc := NewInteractionService(&fakeInteractionRepo{})
	_, err := svc.UserBehavior(context.Background(), " ")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAnalytics_RepositoryErrorSurfaces(t *testing.T) {
	repo := &fakeInteractionRepo{listErr: errors.New("db down")}
	svc := NewInteractionService(repo)

	_, err := svc.PopularSearches(context.Background(), 24*time.Hour, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}
