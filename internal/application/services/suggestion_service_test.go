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
)

// fakeSearchBackend is an in-memory SearchBackend shared by the
// service tests in this package.
type fakeSearchBackend struct {
	mu       sync.Mutex
	executed []*entities.StructuredQuery

	result      *entities.BackendResult
	resultQueue []*entities.BackendResult
	executeErr  error
	suggestions []string
	suggestErr  error
	indexed     map[string]map[string]interface{}
	indexErr    error
	schemaErr   error
}

func (f *fakeSearchBackend) Execute(_ context.Context, query *entities.StructuredQuery) (*entities.BackendResult, error) {
	f.mu.Lock()
	f.executed = append(f.executed, query)
	f.mu.Unlock()
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	f.mu.Lock()
	if len(f.resultQueue) > 0 {
		next := f.resultQueue[0]
		f.resultQueue = f.resultQueue[1:]
		f.mu.Unlock()
		return next, nil
	}
	f.mu.Unlock()
	if f.result != nil {
		return f.result, nil
	}
	return &entities.BackendResult{Hits: []entities.SearchHit{}}, nil
}

func (f *fakeSearchBackend) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

func (f *fakeSearchBackend) Index(_ context.Context, indexType, id string, doc map[string]interface{}) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = make(map[string]map[string]interface{})
	}
	f.indexed[indexType+"/"+id] = doc
	return nil
}

func (f *fakeSearchBackend) EnsureSchema(_ context.Context) error {
	return f.schemaErr
}

func (f *fakeSearchBackend) executedQueries() []*entities.StructuredQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.StructuredQuery, len(f.executed))
	copy(out, f.executed)
	return out
}

func suggestionFixtures() (*fakeSearchBackend, *fakeInteractionRepo) {
	backend := &fakeSearchBackend{
		suggestions: []string{"apartment downtown", "apartment with parking"},
	}
	repo := &fakeInteractionRepo{}
	now := time.Now()
	for i := 0; i < 4; i++ {
		repo.events = append(repo.events, searchEvent("apartment near park", "", "", 1, now))
	}
	for i := 0; i < 2; i++ {
		repo.events = append(repo.events, searchEvent("apartment downtown", "", "", 1, now))
	}
	repo.events = append(repo.events, searchEvent("house with garden", "", "", 1, now))
	return backend, repo
}

func TestSuggest_CompletionsFirstThenPopular(t *testing.T) {
	backend, repo := suggestionFixtures()
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	suggestions := svc.Suggest(context.Background(), "apartment", 10)

	require.Len(t, suggestions, 4)
	assert.Equal(t, "apartment downtown", suggestions[0].Text)
	assert.Equal(t, entities.SuggestionOriginCompletion, suggestions[0].Origin)
	assert.Equal(t, "apartment with parking", suggestions[1].Text)
	assert.Equal(t, entities.SuggestionOriginCompletion, suggestions[1].Origin)

	// "apartment downtown" already appeared as a completion; the
	// remaining popular queries follow in count order.
	assert.Equal(t, "apartment near park", suggestions[2].Text)
	assert.Equal(t, entities.SuggestionOriginPopular, suggestions[2].Origin)
	assert.Equal(t, 4.0, suggestions[2].Score)
	assert.Equal(t, "house with garden", suggestions[3].Text)
	assert.Equal(t, entities.SuggestionOriginPopular, suggestions[3].Origin)
}

func TestSuggest_PopularFallbackNotLimitedToPrefix(t *testing.T) {
	backend, repo := suggestionFixtures()
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	// Top popular queries fill the remainder even when they do not
	// share the requested prefix.
	suggestions := svc.Suggest(context.Background(), "apartment", 10)
	texts := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		texts = append(texts, s.Text)
	}
	assert.Contains(t, texts, "house with garden")
}

func TestSuggest_BackendFailureDegradesToPopular(t *testing.T) {
	backend, repo := suggestionFixtures()
	backend.suggestErr = errors.New("backend down")
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	suggestions := svc.Suggest(context.Background(), "apartment", 10)

	require.Len(t, suggestions, 3)
	for _, s := range suggestions {
		assert.Equal(t, entities.SuggestionOriginPopular, s.Origin)
	}
	assert.Equal(t, "apartment near park", suggestions[0].Text)
	assert.Equal(t, "apartment downtown", suggestions[1].Text)
	assert.Equal(t, "house with garden", suggestions[2].Text)
}

func TestSuggest_BothSourcesFailingYieldsEmptyList(t *testing.T) {
	backend := &fakeSearchBackend{suggestErr: errors.New("backend down")}
	repo := &fakeInteractionRepo{listErr: errors.New("db down")}
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	suggestions := svc.Suggest(context.Background(), "apartment", 10)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestSuggest_EmptyPrefix(t *testing.T) {
	backend, repo := suggestionFixtures()
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	assert.Empty(t, svc.Suggest(context.Background(), "   ", 10))
}

func TestSuggest_LimitTruncates(t *testing.T) {
	backend, repo := suggestionFixtures()
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	suggestions := svc.Suggest(context.Background(), "apartment", 1)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "apartment downtown", suggestions[0].Text)
}

func TestAutocomplete_CompletionsOnly(t *testing.T) {
	backend, repo := suggestionFixtures()
	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)

	completions := svc.Autocomplete(context.Background(), "Apartment", 10)
	assert.Equal(t, []string{"apartment downtown", "apartment with parking"}, completions)
}

func TestAutocomplete_BackendFailureYieldsEmptyList(t *testing.T) {
	backend := &fakeSearchBackend{suggestErr: errors.New("backend down")}
	svc := NewSuggestionService(backend, NewInteractionService(&fakeInteractionRepo{}), nil)

	completions := svc.Autocomplete(context.Background(), "apartment", 10)
	assert.NotNil(t, completions)
	assert.Empty(t, completions)
}

func TestMergeSuggestions_CaseInsensitiveDedupe(t *testing.T) {
	merged := mergeSuggestions(
		[]string{"Apartment Downtown"},
		[]entities.PopularSearch{{Query: "apartment downtown", Count: 9}},
		10)

	require.Len(t, merged, 1)
	assert.Equal(t, "Apartment Downtown", merged[0].Text)
}

func TestSuggest_AutocompleteDisabledSkipsCompletions(t *testing.T) {
	backend, repo := suggestionFixtures()
	cfg := entities.DefaultSearchConfig()
	cfg.AutocompleteEnabled = false

	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)
	svc.SetConfig(NewConfigService(context.Background(), &fakeConfigRepo{stored: cfg}))

	suggestions := svc.Suggest(context.Background(), "apartment", 10)

	require.Len(t, suggestions, 3)
	for _, s := range suggestions {
		assert.Equal(t, entities.SuggestionOriginPopular, s.Origin)
	}
}

func TestAutocomplete_DisabledYieldsEmptyList(t *testing.T) {
	backend, repo := suggestionFixtures()
	cfg := entities.DefaultSearchConfig()
	cfg.AutocompleteEnabled = false

	svc := NewSuggestionService(backend, NewInteractionService(repo), nil)
	svc.SetConfig(NewConfigService(context.Background(), &fakeConfigRepo{stored: cfg}))

	completions := svc.Autocomplete(context.Background(), "apartment", 10)
	assert.NotNil(t, completions)
	assert.Empty(t, completions)
}
