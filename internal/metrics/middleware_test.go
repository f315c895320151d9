package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/sessions/{session}/results", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id+"/results", http.NoBody))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/v1/sessions/{session}/results", "200"))
	assert.GreaterOrEqual(t, got, 2.0)
	assert.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
	assert.Zero(t, testutil.ToFloat64(httpRequestsInFlight))
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/notfound", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.Post("/error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) })

	tests := []struct {
		method, path, status string
	}{
		{http.MethodGet, "/notfound", "404"},
		{http.MethodPost, "/error", "502"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, http.NoBody))
			assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status)), 1.0)
		})
	}
}

func TestMiddleware_UnknownRoute(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unknown", "418")), 1.0)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "unknown", routeLabel(""))
	assert.Equal(t, "/health", routeLabel("/health"))
}

func TestRegisterBackendMetrics_Idempotent(t *testing.T) {
	RegisterBackendMetrics()
	RegisterBackendMetrics()
	BackendRequestsTotal.WithLabelValues("search", "200").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("search", "200")), 1.0)
}
