package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mdung/RentMaster-sub000/internal/application/services"
)

// AnalyticsHandler serves read-side interaction statistics.
type AnalyticsHandler struct {
	interactions *services.InteractionService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(interactions *services.InteractionService) *AnalyticsHandler {
	return &AnalyticsHandler{interactions: interactions}
}

// PopularSearches handles GET /api/analytics/popular-searches
func (h *AnalyticsHandler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 7
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	popular, err := h.interactions.PopularSearches(r.Context(), time.Duration(days)*24*time.Hour, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, popular)
}

// SearchTrends handles GET /api/analytics/search-trends
func (h *AnalyticsHandler) SearchTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.interactions.SearchTrends(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, trends)
}

// UserBehavior handles GET /api/analytics/user-behavior
func (h *AnalyticsHandler) UserBehavior(w http.ResponseWriter, r *http.Request) {
	behavior, err := h.interactions.UserBehavior(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, behavior)
}
