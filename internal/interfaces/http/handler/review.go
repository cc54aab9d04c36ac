package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fake-review-detector/internal/application/dto"
	reviewapp "fake-review-detector/internal/application/review"
	"fake-review-detector/internal/domain/review"
)

// ReviewHandler handles review classification HTTP requests
type ReviewHandler struct {
	predictUseCase *reviewapp.PredictReviewUseCase
	maxBatchSize   int
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(predictUseCase *reviewapp.PredictReviewUseCase, maxBatchSize int) *ReviewHandler {
	return &ReviewHandler{
		predictUseCase: predictUseCase,
		maxBatchSize:   maxBatchSize,
	}
}

// Predict handles POST /api/v1/reviews/predict
func (h *ReviewHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := req.ToRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.predictUseCase.Execute(r.Context(), rec)
	if err != nil {
		if errors.Is(err, review.ErrModelUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Model not loaded")
			return
		}
		writeError(w, http.StatusInternalServerError, "Prediction failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// PredictBatch handles POST /api/v1/reviews/predict/batch
func (h *ReviewHandler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Reviews) == 0 {
		writeError(w, http.StatusBadRequest, "No reviews provided")
		return
	}
	if len(req.Reviews) > h.maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Maximum %d reviews per batch", h.maxBatchSize))
		return
	}

	result, err := h.predictUseCase.ExecuteBatch(r.Context(), req.Reviews)
	if err != nil {
		if errors.Is(err, review.ErrModelUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Model not loaded")
			return
		}
		writeError(w, http.StatusInternalServerError, "Batch prediction failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
