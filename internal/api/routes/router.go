package routes

import (
	"net/http"

	"github.com/mdung/RentMaster-sub000/internal/api/handlers"
	"github.com/mdung/RentMaster-sub000/internal/api/middleware"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/observability"
)

// Router wires handlers to the HTTP surface.
type Router struct {
	mux *http.ServeMux

	searchHandler         *handlers.SearchHandler
	analyticsHandler      *handlers.AnalyticsHandler
	insightHandler        *handlers.InsightHandler
	recommendationHandler *handlers.RecommendationHandler
	adminHandler          *handlers.AdminHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	insightHandler *handlers.InsightHandler,
	recommendationHandler *handlers.RecommendationHandler,
	adminHandler *handlers.AdminHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		searchHandler:         searchHandler,
		analyticsHandler:      analyticsHandler,
		insightHandler:        insightHandler,
		recommendationHandler: recommendationHandler,
		adminHandler:          adminHandler,
		metrics:               metrics,
	}
}

// SetupRoutes configures all application routes.
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/search/full-text", r.searchHandler.FullText)
	r.mux.HandleFunc("GET /api/search/advanced", r.searchHandler.Advanced)
	r.mux.HandleFunc("GET /api/search/faceted", r.searchHandler.Faceted)
	r.mux.HandleFunc("GET /api/search/natural-language", r.searchHandler.NaturalLanguage)
	r.mux.HandleFunc("GET /api/search/semantic", r.searchHandler.Semantic)
	r.mux.HandleFunc("GET /api/search/suggestions", r.searchHandler.Suggestions)
	r.mux.HandleFunc("GET /api/search/autocomplete", r.searchHandler.Autocomplete)
	r.mux.HandleFunc("GET /api/search/similar", r.searchHandler.Similar)
	r.mux.HandleFunc("POST /api/search/feedback", r.searchHandler.Feedback)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/popular-searches", r.analyticsHandler.PopularSearches)
	r.mux.HandleFunc("GET /api/analytics/search-trends", r.analyticsHandler.SearchTrends)
	r.mux.HandleFunc("GET /api/analytics/user-behavior", r.analyticsHandler.UserBehavior)

	// Insight endpoints
	r.mux.HandleFunc("GET /api/insights/dashboard", r.insightHandler.Dashboard)
	r.mux.HandleFunc("GET /api/insights/property/{id}", r.insightHandler.Property)
	r.mux.HandleFunc("GET /api/insights/tenant/{id}", r.insightHandler.Tenant)
	r.mux.HandleFunc("GET /api/insights/financial", r.insightHandler.Financial)
	r.mux.HandleFunc("GET /api/insights/maintenance", r.insightHandler.Maintenance)
	r.mux.HandleFunc("GET /api/insights/market-trends", r.insightHandler.MarketTrends)
	r.mux.HandleFunc("POST /api/insights/predict", r.insightHandler.Predict)

	// Recommendation endpoints
	r.mux.HandleFunc("GET /api/recommendations/properties", r.recommendationHandler.Properties)
	r.mux.HandleFunc("GET /api/recommendations/tenants", r.recommendationHandler.Tenants)
	r.mux.HandleFunc("GET /api/recommendations/pricing/{propertyId}", r.recommendationHandler.Pricing)
	r.mux.HandleFunc("GET /api/recommendations/maintenance/{propertyId}", r.recommendationHandler.Maintenance)
	r.mux.HandleFunc("GET /api/recommendations/investment", r.recommendationHandler.Investment)
	r.mux.HandleFunc("POST /api/recommendations/feedback", r.recommendationHandler.Feedback)

	// Configuration and admin endpoints
	r.mux.HandleFunc("GET /api/config", r.adminHandler.GetConfig)
	r.mux.HandleFunc("PUT /api/config", r.adminHandler.UpdateConfig)
	r.mux.HandleFunc("POST /api/admin/reindex", r.adminHandler.Reindex)

	// Middleware applies in reverse order; CORS wraps everything so
	// headers are present on every response.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORSMiddleware(handler)
	return handler
}
