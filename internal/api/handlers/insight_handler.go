package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
	"github.com/mdung/RentMaster-sub000/internal/domain/providers"
)

// InsightHandler serves heuristic insight and prediction bundles.
type InsightHandler struct {
	insights providers.InsightProvider
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(insights providers.InsightProvider) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Dashboard handles GET /api/insights/dashboard
func (h *InsightHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insights.DashboardInsights(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, insight)
}

// Property handles GET /api/insights/property/{id}
func (h *InsightHandler) Property(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insights.PropertyInsights(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, insight)
}

// Tenant handles GET /api/insights/tenant/{id}
func (h *InsightHandler) Tenant(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insights.TenantInsights(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, insight)
}

// Financial handles GET /api/insights/financial
func (h *InsightHandler) Financial(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insights.FinancialInsights(r.Context(),
		r.URL.Query().Get("period"), r.URL.Query().Get("propertyId"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, insight)
}

// Maintenance handles GET /api/insights/maintenance
func (h *InsightHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insights.MaintenanceInsights(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, insight)
}

// MarketTrends handles GET /api/insights/market-trends
func (h *InsightHandler) MarketTrends(w http.ResponseWriter, r *http.Request) {
	insight, err := h.insights.MarketTrends(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, insight)
}

// Predict handles POST /api/insights/predict
func (h *InsightHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type       string            `json:"type"`
		Parameters map[string]string `json:"parameters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prediction, err := h.insights.Predict(r.Context(), entities.PredictionType(body.Type), body.Parameters)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, prediction)
}
