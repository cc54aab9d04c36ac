package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	reviewapp "fake-review-detector/internal/application/review"
	"fake-review-detector/internal/domain/review"
	"fake-review-detector/internal/interfaces/http/handler"
)

// --- Mock implementations ---

type mockResultStore struct {
	putFunc func(ctx context.Context, id string, data []byte) error
	getFunc func(ctx context.Context, id string) ([]byte, error)
}

func (m *mockResultStore) Put(ctx context.Context, id string, data []byte) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, id, data)
	}
	return nil
}

func (m *mockResultStore) Get(ctx context.Context, id string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, review.ErrBulkResultNotFound
}

func (m *mockResultStore) TTL() time.Duration { return time.Hour }

func newBulkHandler(store reviewapp.ResultStore, maxRows int) *handler.BulkHandler {
	uc := reviewapp.NewBulkProcessUseCase(newPredictUseCase(&mockClassifier{}), store, zap.NewNop(), maxRows)
	return handler.NewBulkHandler(uc)
}

// multipartCSV builds a multipart body with one file part named "file".
func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

const uploadBody = `text_,rating
"The kettle works well and heats water quickly, no complaints at all.",4
"Amazing! Best ever! Buy now!",5
`

// --- Tests ---

func TestBulkHandler_Upload(t *testing.T) {
	t.Run("processes an uploaded CSV", func(t *testing.T) {
		var storedID string
		store := &mockResultStore{
			putFunc: func(_ context.Context, id string, _ []byte) error {
				storedID = id
				return nil
			},
		}
		h := newBulkHandler(store, 100)

		body, contentType := multipartCSV(t, "reviews.csv", uploadBody)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/bulk", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		resp := decodeJSON(t, rr)
		assert.Equal(t, "Processed 2 reviews", resp["message"])
		assert.Equal(t, "reviews.csv", resp["file_name"])
		assert.Equal(t, float64(3600), resp["expires_in_seconds"])
		assert.Equal(t, storedID, resp["download_id"])
		assert.NotEmpty(t, storedID)
	})

	t.Run("rejects non-CSV files", func(t *testing.T) {
		h := newBulkHandler(&mockResultStore{}, 100)

		body, contentType := multipartCSV(t, "reviews.txt", uploadBody)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/bulk", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Only CSV files are supported", decodeJSON(t, rr)["error"])
	})

	t.Run("requires a file part", func(t *testing.T) {
		h := newBulkHandler(&mockResultStore{}, 100)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/bulk",
			strings.NewReader("no file here"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeJSON(t, rr)["error"], "CSV file is required")
	})

	t.Run("maps a missing result store to 503", func(t *testing.T) {
		h := newBulkHandler(nil, 100)

		body, contentType := multipartCSV(t, "reviews.csv", uploadBody)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/bulk", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, decodeJSON(t, rr)["error"], "result store not connected")
	})

	t.Run("maps the row limit to 413", func(t *testing.T) {
		h := newBulkHandler(&mockResultStore{}, 1)

		body, contentType := multipartCSV(t, "reviews.csv", uploadBody)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/bulk", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Contains(t, decodeJSON(t, rr)["error"], "file exceeds the row limit")
	})

	t.Run("rejects a file with no data rows", func(t *testing.T) {
		h := newBulkHandler(&mockResultStore{}, 100)

		body, contentType := multipartCSV(t, "reviews.csv", "text_,rating\n")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/bulk", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeJSON(t, rr)["error"], "file contains no reviews")
	})
}

func TestBulkHandler_Download(t *testing.T) {
	t.Run("streams a stored result file", func(t *testing.T) {
		stored := []byte("row,prediction\n1,GENUINE\n")
		store := &mockResultStore{
			getFunc: func(_ context.Context, id string) ([]byte, error) {
				require.Equal(t, "abc-123", id)
				return stored, nil
			},
		}
		h := newBulkHandler(store, 100)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/bulk/abc-123", nil)
		req.SetPathValue("id", "abc-123")
		rr := httptest.NewRecorder()
		h.Download(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "review_predictions_abc-123.csv")
		assert.Equal(t, stored, rr.Body.Bytes())
	})

	t.Run("expired or unknown IDs get 404", func(t *testing.T) {
		h := newBulkHandler(&mockResultStore{}, 100)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/bulk/gone", nil)
		req.SetPathValue("id", "gone")
		rr := httptest.NewRecorder()
		h.Download(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "File not found or expired", decodeJSON(t, rr)["error"])
	})

	t.Run("an empty ID is rejected", func(t *testing.T) {
		h := newBulkHandler(&mockResultStore{}, 100)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/bulk/", nil)
		rr := httptest.NewRecorder()
		h.Download(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Download ID is required", decodeJSON(t, rr)["error"])
	})
}

func TestBulkHandler_Template(t *testing.T) {
	h := handler.NewBulkHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/bulk/template", nil)
	rr := httptest.NewRecorder()
	h.Template(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "review_template.csv")
	assert.Contains(t, rr.Body.String(), "text_,rating,order_id")
	assert.Contains(t, rr.Body.String(), "verified_purchase")
}
