package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	analyticsapp "fake-review-detector/internal/application/analytics"
)

// AnalyticsHandler serves the dashboard aggregation endpoints
type AnalyticsHandler struct {
	reportUseCase *analyticsapp.ReportUseCase
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(reportUseCase *analyticsapp.ReportUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{reportUseCase: reportUseCase}
}

// Summary handles GET /api/v1/analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportUseCase.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build summary: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Categories handles GET /api/v1/analytics/categories
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.reportUseCase.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build category breakdown: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// Timing handles GET /api/v1/analytics/timing
func (h *AnalyticsHandler) Timing(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.reportUseCase.Timing(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build timing breakdown: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"buckets": buckets,
	})
}

// Verification handles GET /api/v1/analytics/verification
func (h *AnalyticsHandler) Verification(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUseCase.Verification(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build verification breakdown: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Reviews handles GET /api/v1/analytics/reviews
func (h *AnalyticsHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))

	result, err := h.reportUseCase.Reviews(r.Context(), page, perPage, query.Get("filter"))
	if err != nil {
		if errors.Is(err, analyticsapp.ErrUnknownFilter) {
			writeError(w, http.StatusBadRequest, "Invalid filter: use all, fake, genuine or suspicious")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to list reviews: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ModelPerformance handles GET /api/v1/analytics/model-performance
func (h *AnalyticsHandler) ModelPerformance(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reportUseCase.ModelPerformance()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "No model metrics found. Train the model first.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load model metrics: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
