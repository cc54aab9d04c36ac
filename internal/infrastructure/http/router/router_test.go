package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fake-review-detector/internal/infrastructure/http/router"
	"fake-review-detector/internal/interfaces/http/handler"
)

func newTestRouter() *router.Router {
	return router.NewRouter(
		handler.NewReviewHandler(nil, 100),
		handler.NewBulkHandler(nil),
		handler.NewAnalyticsHandler(nil),
		handler.NewHealthHandler(nil, nil, "test", "1.0.0"),
	)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter()

	t.Run("health endpoints are wired", func(t *testing.T) {
		for _, path := range []string{"/health", "/ready", "/live"} {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rr.Code, path)
		}
	})

	t.Run("metrics endpoint is wired", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "go_goroutines")
	})

	t.Run("the template route wins over the download wildcard", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reviews/bulk/template", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "text_,rating")
	})

	t.Run("unknown paths get 404", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("wrong methods get 405", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter()

	t.Run("every response carries CORS headers", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight requests short-circuit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/v1/reviews/predict", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestRouter_Handler(t *testing.T) {
	r := newTestRouter()
	assert.NotNil(t, r.Handler())

	// The router serves through the same handler it exposes.
	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
