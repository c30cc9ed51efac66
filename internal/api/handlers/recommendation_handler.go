package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// RecommendationHandler serves heuristic recommendations.
type RecommendationHandler struct {
	recommendations *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// Properties handles GET /api/recommendations/properties
func (h *RecommendationHandler) Properties(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	recs, err := h.recommendations.ForUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, recs)
}

// Tenants handles GET /api/recommendations/tenants
func (h *RecommendationHandler) Tenants(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.recommendations.Tenants(r.Context(), r.URL.Query().Get("propertyId"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, recs)
}

// Pricing handles GET /api/recommendations/pricing/{propertyId}
func (h *RecommendationHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendations.Pricing(r.Context(), r.PathValue("propertyId"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, rec)
}

// Maintenance handles GET /api/recommendations/maintenance/{propertyId}
func (h *RecommendationHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendations.Maintenance(r.Context(), r.PathValue("propertyId"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, rec)
}

// Investment handles GET /api/recommendations/investment
func (h *RecommendationHandler) Investment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendations.Investment(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, rec)
}

// Feedback handles POST /api/recommendations/feedback
func (h *RecommendationHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var feedback entities.RecommendationFeedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.recommendations.RecordFeedback(r.Context(), &feedback); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
