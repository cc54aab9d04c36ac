package handler

import (
	"errors"
	"net/http"
	"strings"

	reviewapp "fake-review-detector/internal/application/review"
	"fake-review-detector/internal/domain/review"
)

// templateCSV is the downloadable upload template with one genuine-looking
// and one fake-looking example row.
const templateCSV = `text_,rating,order_id,purchase_id,verified_purchase,user_id,days_after_purchase,user_review_count,category
"Great product, works exactly as described. Battery lasts all day.",5,ORD-1001,PUR-1001,true,user_42,12,3,Electronics
"Amazing amazing amazing! Best ever! Buy now!",5,,,false,user_99,0,75,Electronics
`

// BulkHandler handles CSV upload and download endpoints
type BulkHandler struct {
	bulkUseCase *reviewapp.BulkProcessUseCase
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(bulkUseCase *reviewapp.BulkProcessUseCase) *BulkHandler {
	return &BulkHandler{bulkUseCase: bulkUseCase}
}

// Upload handles POST /api/v1/reviews/bulk
func (h *BulkHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "CSV file is required: "+err.Error())
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "Only CSV files are supported")
		return
	}

	result, err := h.bulkUseCase.Execute(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, reviewapp.ErrNoResultStore):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, reviewapp.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, reviewapp.ErrEmptyFile):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Bulk processing failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Download handles GET /api/v1/reviews/bulk/{id}
func (h *BulkHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Download ID is required")
		return
	}

	data, err := h.bulkUseCase.Download(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrBulkResultNotFound):
			writeError(w, http.StatusNotFound, "File not found or expired")
		case errors.Is(err, reviewapp.ErrNoResultStore):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to fetch result: "+err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="review_predictions_`+id+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Template handles GET /api/v1/reviews/bulk/template
func (h *BulkHandler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="review_template.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(templateCSV))
}
