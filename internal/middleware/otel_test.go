package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/internal/config"
	"dataviz/internal/infrastructure"
	"dataviz/internal/shared/testutil"
)

func TestOTelMiddleware_RecordsRoutePattern(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := infrastructure.InitializeOTel(config.ObservabilityConfig{EnableMetrics: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { providers.Shutdown(context.Background()) })

	metrics, err := infrastructure.CreateMetrics(providers.Meter, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(providers, metrics).Handler)
	r.Get("/api/datasets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/datasets/abc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	srv := httptest.NewServer(providers.PrometheusHTTP)
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `route="/api/datasets/{id}"`)
	assert.NotContains(t, string(body), "/api/datasets/abc")
}

func TestOTelMiddleware_WithoutMetrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := infrastructure.InitializeOTel(config.ObservabilityConfig{}, logger)
	require.NoError(t, err)

	h := NewOTelMiddleware(providers, nil).Handler(okHandler)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
