package http

import (
	"net/http"

	apierrors "dataviz/internal/errors"
)

// MetricsHandler serves the Prometheus exposition produced by the OTel
// meter provider
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler creates a metrics handler. exposition is nil when
// metrics are disabled.
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		apierrors.NewProblemDetails(http.StatusServiceUnavailable, apierrors.TypeServiceDown,
			"Metrics Disabled", "Metrics export is disabled by configuration", r.URL.Path).
			Write(w)
		return
	}
	h.exposition.ServeHTTP(w, r)
}
