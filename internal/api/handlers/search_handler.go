package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// filterParamPrefix marks query params that become exact-match
// filters, e.g. filter.status=active.
const filterParamPrefix = "filter."

// SearchHandler handles every search-related HTTP request.
type SearchHandler struct {
	search       *services.SearchService
	suggestions  *services.SuggestionService
	interactions *services.InteractionService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *services.SearchService, suggestions *services.SuggestionService, interactions *services.InteractionService) *SearchHandler {
	return &SearchHandler{
		search:       search,
		suggestions:  suggestions,
		interactions: interactions,
	}
}

// FullText handles GET /api/search/full-text
func (h *SearchHandler) FullText(w http.ResponseWriter, r *http.Request) {
	query := parseSearchQuery(r)

	response, err := h.search.FullText(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Advanced handles GET /api/search/advanced
func (h *SearchHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	query := parseSearchQuery(r)
	query.SortField = r.URL.Query().Get("sort")
	if r.URL.Query().Get("order") == "desc" {
		query.SortOrder = entities.SortDesc
	} else if query.SortField != "" {
		query.SortOrder = entities.SortAsc
	}
	query.DateRange = parseDateRange(r)

	response, err := h.search.Advanced(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Faceted handles GET /api/search/faceted
func (h *SearchHandler) Faceted(w http.ResponseWriter, r *http.Request) {
	query := parseSearchQuery(r)
	if facets := r.URL.Query().Get("facets"); facets != "" {
		query.Facets = strings.Split(facets, ",")
	}

	response, err := h.search.Faceted(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// NaturalLanguage handles GET /api/search/natural-language
func (h *SearchHandler) NaturalLanguage(w http.ResponseWriter, r *http.Request) {
	query := parseSearchQuery(r)

	response, err := h.search.NaturalLanguage(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Semantic handles GET /api/search/semantic
func (h *SearchHandler) Semantic(w http.ResponseWriter, r *http.Request) {
	query := parseSearchQuery(r)

	response, err := h.search.Semantic(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Similar handles GET /api/search/similar
func (h *SearchHandler) Similar(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	response, err := h.search.Similar(r.Context(), entityType, id, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Suggestions handles GET /api/search/suggestions
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions := h.suggestions.Suggest(r.Context(), prefix, limit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// Autocomplete handles GET /api/search/autocomplete
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	completions := h.suggestions.Autocomplete(r.Context(), prefix, limit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"completions": completions,
		"count":       len(completions),
	})
}

// Feedback handles POST /api/search/feedback
func (h *SearchHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string `json:"query"`
		ResultID  string `json:"resultId"`
		Action    string `json:"action"`
		UserID    string `json:"userId"`
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.interactions.RecordFeedback(r.Context(), body.Query, body.ResultID, body.Action, body.UserID, body.SessionID); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func parseSearchQuery(r *http.Request) *entities.SearchQuery {
	params := r.URL.Query()

	query := &entities.SearchQuery{
		Text:      params.Get("q"),
		Context:   params.Get("context"),
		UserID:    params.Get("userId"),
		SessionID: params.Get("sessionId"),
	}
	query.Page, _ = strconv.Atoi(params.Get("page"))
	query.PageSize, _ = strconv.Atoi(params.Get("size"))
	if types := params.Get("types"); types != "" {
		query.EntityTypes = strings.Split(types, ",")
	}

	for key, values := range params {
		if !strings.HasPrefix(key, filterParamPrefix) || len(values) == 0 {
			continue
		}
		field := strings.TrimPrefix(key, filterParamPrefix)
		if field == "" {
			continue
		}
		if query.Filters == nil {
			query.Filters = make(map[string]string)
		}
		query.Filters[field] = values[0]
	}
	return query
}

func parseDateRange(r *http.Request) *entities.DateRange {
	field := r.URL.Query().Get("dateField")
	if field == "" {
		return nil
	}

	dr := &entities.DateRange{Field: field}
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from")); err == nil {
		dr.From = &from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to")); err == nil {
		dr.To = &to
	}
	if dr.From == nil && dr.To == nil {
		return nil
	}
	return dr
}
