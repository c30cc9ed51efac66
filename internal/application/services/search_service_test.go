package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	apperrors "github.com/mdung/RentMaster-sub000/pkg/errors"
)

func newTestSearchService(backend *fakeSearchBackend, repo *fakeInteractionRepo, stored *entities.SearchConfig) *SearchService {
	interactions := NewInteractionService(repo)
	config := NewConfigService(context.Background(), &fakeConfigRepo{stored: stored})
	return NewSearchService(
		NewHeuristicAnalyzer(),
		NewQueryBuilderService(),
		NewRankingService(repo),
		backend,
		interactions,
		config,
		nil,
		nil,
	)
}

func awaitTrackedEvents(t *testing.T, repo *fakeInteractionRepo, want int) []*entities.InteractionEvent {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(repo.loggedEvents()) >= want
	}, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	events := repo.loggedEvents()
	require.Len(t, events, want)
	return events
}

func TestFullText_InvalidQueryNeverReachesBackend(t *testing.T) {
	backend := &fakeSearchBackend{}
	repo := &fakeInteractionRepo{}
	svc := newTestSearchService(backend, repo, nil)

	_, err := svc.FullText(context.Background(), &entities.SearchQuery{Text: "a"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))
	assert.Empty(t, backend.executedQueries())

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, repo.loggedEvents())
}

func TestFullText_TracksExactlyOneSearchEvent(t *testing.T) {
	backend := &fakeSearchBackend{result: &entities.BackendResult{
		Hits:  []entities.SearchHit{{ID: "p1", Score: 2.0}, {ID: "p2", Score: 1.0}},
		Total: 2,
	}}
	repo := &fakeInteractionRepo{}
	svc := newTestSearchService(backend, repo, nil)

	response, err := svc.FullText(context.Background(), &entities.SearchQuery{
		Text: "Garden Apartment", UserID: "u1", SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Empty(t, response.Error)
	assert.Equal(t, 2, response.Total)
	require.Len(t, response.Hits, 2)
	assert.Equal(t, "p1", response.Hits[0].ID)

	events := awaitTrackedEvents(t, repo, 1)
	assert.Equal(t, entities.ActionSearch, events[0].Action)
	assert.Equal(t, SearchTypeFullText, events[0].SearchType)
	assert.Equal(t, "garden apartment", events[0].Query)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, 2, events[0].ResultCount)
}

func TestFullText_BackendFailureDegrades(t *testing.T) {
	backend := &fakeSearchBackend{executeErr: errors.New("connection refused")}
	repo := &fakeInteractionRepo{}
	svc := newTestSearchService(backend, repo, nil)

	response, err := svc.FullText(context.Background(), &entities.SearchQuery{Text: "garden apartment"})
	require.NoError(t, err)

	require.NotNil(t, response)
	assert.NotNil(t, response.Hits)
	assert.Empty(t, response.Hits)
	assert.Zero(t, response.Total)
	assert.Equal(t, "search backend unavailable", response.Error)

	// The failed request still counts as exactly one search event.
	events := awaitTrackedEvents(t, repo, 1)
	assert.Zero(t, events[0].ResultCount)
}

func TestFullText_DisabledBackendDegradesWithoutCalling(t *testing.T) {
	stored := entities.DefaultSearchConfig()
	stored.BackendEnabled = false
	backend := &fakeSearchBackend{}
	repo := &fakeInteractionRepo{}
	svc := newTestSearchService(backend, repo, stored)

	response, err := svc.FullText(context.Background(), &entities.SearchQuery{Text: "garden apartment"})
	require.NoError(t, err)
	assert.Equal(t, "search backend is disabled", response.Error)
	assert.Empty(t, backend.executedQueries())
	awaitTrackedEvents(t, repo, 1)
}

func TestAdvanced_RequiresTextOrFilter(t *testing.T) {
	svc := newTestSearchService(&fakeSearchBackend{}, &fakeInteractionRepo{}, nil)

	_, err := svc.Advanced(context.Background(), &entities.SearchQuery{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))

	_, err = svc.Advanced(context.Background(), &entities.SearchQuery{
		Filters: map[string]string{"city": "portland"},
	})
	require.NoError(t, err)
}

func TestFaceted_RequiresFacetFields(t *testing.T) {
	svc := newTestSearchService(&fakeSearchBackend{}, &fakeInteractionRepo{}, nil)

	_, err := svc.Faceted(context.Background(), &entities.SearchQuery{Text: "loft"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))
}

func TestNaturalLanguage_CarriesAnalysisInResponse(t *testing.T) {
	backend := &fakeSearchBackend{}
	svc := newTestSearchService(backend, &fakeInteractionRepo{}, nil)

	response, err := svc.NaturalLanguage(context.Background(), &entities.SearchQuery{
		Text: "find 2 bedroom apartment under $1500",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Analysis)
	assert.Equal(t, entities.IntentFindProperty, response.Analysis.Intent)

	executed := backend.executedQueries()
	require.Len(t, executed, 1)
	assert.Equal(t, []string{"property"}, executed[0].IndexTypes)
}

func TestSemantic_DisabledBehavesAsFullText(t *testing.T) {
	stored := entities.DefaultSearchConfig()
	stored.SemanticEnabled = false
	backend := &fakeSearchBackend{}
	svc := newTestSearchService(backend, &fakeInteractionRepo{}, stored)

	_, err := svc.Semantic(context.Background(), &entities.SearchQuery{Text: "cozy place"})
	require.NoError(t, err)

	executed := backend.executedQueries()
	require.Len(t, executed, 1)
	require.Len(t, executed[0].Match, 1)
	assert.Len(t, executed[0].Match[0].Fields, 4)
}

func TestSemantic_EnabledAddsConceptClause(t *testing.T) {
	backend := &fakeSearchBackend{}
	svc := newTestSearchService(backend, &fakeInteractionRepo{}, nil)

	_, err := svc.Semantic(context.Background(), &entities.SearchQuery{Text: "cozy place"})
	require.NoError(t, err)

	executed := backend.executedQueries()
	require.Len(t, executed, 1)
	assert.Len(t, executed[0].Match, 2)
}

func TestSimilar_ExcludesSourceDocument(t *testing.T) {
	backend := &fakeSearchBackend{resultQueue: []*entities.BackendResult{
		{
			Hits:  []entities.SearchHit{{ID: "p1", Source: map[string]interface{}{"title": "Garden Apartment"}}},
			Total: 1,
		},
		{
			Hits: []entities.SearchHit{
				{ID: "p1", Score: 9.0},
				{ID: "p2", Score: 2.0},
				{ID: "p3", Score: 1.0},
			},
			Total: 3,
		},
	}}
	svc := newTestSearchService(backend, &fakeInteractionRepo{}, nil)

	response, err := svc.Similar(context.Background(), "", "p1", 10)
	require.NoError(t, err)

	require.Len(t, response.Hits, 2)
	assert.Equal(t, "p2", response.Hits[0].ID)
	assert.Equal(t, "p3", response.Hits[1].ID)
	assert.Equal(t, 2, response.Total)
}

func TestSimilar_UnknownDocument(t *testing.T) {
	backend := &fakeSearchBackend{result: &entities.BackendResult{Hits: []entities.SearchHit{}}}
	svc := newTestSearchService(backend, &fakeInteractionRepo{}, nil)

	_, err := svc.Similar(context.Background(), "", "missing", 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSimilar_RequiresID(t *testing.T) {
	svc := newTestSearchService(&fakeSearchBackend{}, &fakeInteractionRepo{}, nil)

	_, err := svc.Similar(context.Background(), "", "  ", 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSimilar_EntityTypeRestrictsBothQueries(t *testing.T) {
	backend := &fakeSearchBackend{resultQueue: []*entities.BackendResult{
		{
			Hits:  []entities.SearchHit{{ID: "p1", Source: map[string]interface{}{"title": "Garden Apartment"}}},
			Total: 1,
		},
		{
			Hits:  []entities.SearchHit{{ID: "p2", Score: 2.0}},
			Total: 1,
		},
	}}
	svc := newTestSearchService(backend, &fakeInteractionRepo{}, nil)

	_, err := svc.Similar(context.Background(), "property", "p1", 10)
	require.NoError(t, err)

	executed := backend.executedQueries()
	require.Len(t, executed, 2)
	assert.Equal(t, []string{"property"}, executed[0].IndexTypes)
	assert.Equal(t, []string{"property"}, executed[1].IndexTypes)
}

type fakeCacheProvider struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (f *fakeCacheProvider) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return raw, nil
}

func (f *fakeCacheProvider) Set(_ context.Context, key string, value []byte, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		f.entries = make(map[string][]byte)
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCacheProvider) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCacheProvider) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok, nil
}

func TestFullText_CacheHitStillTracksSearchEvent(t *testing.T) {
	backend := &fakeSearchBackend{result: &entities.BackendResult{
		Hits:  []entities.SearchHit{{ID: "p1", Score: 2.0}},
		Total: 1,
	}}
	repo := &fakeInteractionRepo{}
	interactions := NewInteractionService(repo)
	config := NewConfigService(context.Background(), &fakeConfigRepo{})
	svc := NewSearchService(
		NewHeuristicAnalyzer(),
		NewQueryBuilderService(),
		NewRankingService(repo),
		backend,
		interactions,
		config,
		&fakeCacheProvider{},
		nil,
	)

	query := &entities.SearchQuery{Text: "garden apartment", UserID: "u1"}
	first, err := svc.FullText(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)

	second, err := svc.FullText(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Total)

	// The second response comes from the cache, yet both requests count.
	assert.Len(t, backend.executedQueries(), 1)
	events := awaitTrackedEvents(t, repo, 2)
	for _, event := range events {
		assert.Equal(t, entities.ActionSearch, event.Action)
		assert.Equal(t, 1, event.ResultCount)
	}
}

func TestFullText_ClickLookupMatchesStoredQueryForm(t *testing.T) {
	backend := &fakeSearchBackend{result: &entities.BackendResult{
		Hits:  []entities.SearchHit{{ID: "p1", Score: 1.0}, {ID: "p2", Score: 0.9}},
		Total: 2,
	}}
	repo := &fakeInteractionRepo{clicks: map[string]int{"p2": 50}}
	svc := newTestSearchService(backend, repo, nil)

	// Events are logged under the normalized query, so the click lookup
	// has to use the same form or popularity boosts never apply.
	response, err := svc.FullText(context.Background(), &entities.SearchQuery{Text: "  Garden   Apartment "})
	require.NoError(t, err)

	assert.Equal(t, []string{"garden apartment"}, repo.clickLookups())
	require.Len(t, response.Hits, 2)
	assert.Equal(t, "p2", response.Hits[0].ID)
}
