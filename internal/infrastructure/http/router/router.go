package router

import (
	"net/http"

	"fake-review-detector/internal/interfaces/http/handler"
)

// Router holds all HTTP handlers
type Router struct {
	mux              *http.ServeMux
	reviewHandler    *handler.ReviewHandler
	bulkHandler      *handler.BulkHandler
	analyticsHandler *handler.AnalyticsHandler
	healthHandler    *handler.HealthHandler
}

// NewRouter creates a new router with all routes configured
func NewRouter(
	reviewHandler *handler.ReviewHandler,
	bulkHandler *handler.BulkHandler,
	analyticsHandler *handler.AnalyticsHandler,
	healthHandler *handler.HealthHandler,
) *Router {
	r := &Router{
		mux:              http.NewServeMux(),
		reviewHandler:    reviewHandler,
		bulkHandler:      bulkHandler,
		analyticsHandler: analyticsHandler,
		healthHandler:    healthHandler,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// Health endpoints
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("GET /ready", r.healthHandler.Ready)
	r.mux.HandleFunc("GET /live", r.healthHandler.Live)

	// Prometheus metrics
	r.mux.Handle("GET /metrics", handler.MetricsHandler())

	// Review classification endpoints
	r.mux.HandleFunc("POST /api/v1/reviews/predict", r.reviewHandler.Predict)
	r.mux.HandleFunc("POST /api/v1/reviews/predict/batch", r.reviewHandler.PredictBatch)

	// Bulk CSV processing. The literal template route wins over the
	// download wildcard.
	r.mux.HandleFunc("POST /api/v1/reviews/bulk", r.bulkHandler.Upload)
	r.mux.HandleFunc("GET /api/v1/reviews/bulk/template", r.bulkHandler.Template)
	r.mux.HandleFunc("GET /api/v1/reviews/bulk/{id}", r.bulkHandler.Download)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/v1/analytics/summary", r.analyticsHandler.Summary)
	r.mux.HandleFunc("GET /api/v1/analytics/categories", r.analyticsHandler.Categories)
	r.mux.HandleFunc("GET /api/v1/analytics/timing", r.analyticsHandler.Timing)
	r.mux.HandleFunc("GET /api/v1/analytics/verification", r.analyticsHandler.Verification)
	r.mux.HandleFunc("GET /api/v1/analytics/reviews", r.analyticsHandler.Reviews)
	r.mux.HandleFunc("GET /api/v1/analytics/model-performance", r.analyticsHandler.ModelPerformance)
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r
}
