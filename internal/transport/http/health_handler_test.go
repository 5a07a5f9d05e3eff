package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dataviz/internal/services"
	"dataviz/internal/shared/testutil"
)

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func TestHealthHandler(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name           string
		setupMock      func(*MockHealthService)
		handlerFunc    func(*HealthHandler) http.HandlerFunc
		expectedStatus int
		expectedField  string
		expectedValue  interface{}
	}{
		{
			name: "health check endpoint",
			setupMock: func(m *MockHealthService) {
				m.On("HealthCheck").Return(services.HealthStatus{Status: "ok", Timestamp: now, Version: "0.3.0"})
			},
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ok",
		},
		{
			name: "readiness ready",
			setupMock: func(m *MockHealthService) {
				m.On("ReadinessCheck").Return(services.HealthStatus{Status: "ready", Timestamp: now})
			},
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ready",
		},
		{
			name: "readiness not ready",
			setupMock: func(m *MockHealthService) {
				m.On("ReadinessCheck").Return(services.HealthStatus{Status: "not_ready", Timestamp: now})
			},
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			expectedField:  "status",
			expectedValue:  "not_ready",
		},
		{
			name: "liveness endpoint",
			setupMock: func(m *MockHealthService) {
				m.On("LivenessCheck").Return(services.HealthStatus{Status: "alive", Timestamp: now})
			},
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "alive",
		},
		{
			name: "version endpoint",
			setupMock: func(m *MockHealthService) {
				m.On("Version").Return(map[string]interface{}{"version": "0.3.0"})
			},
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.Version },
			expectedStatus: http.StatusOK,
			expectedField:  "version",
			expectedValue:  "0.3.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockHealthService)
			tt.setupMock(mockService)
			logger, _ := testutil.NewTestLogger(t)
			handler := NewHealthHandler(mockService, logger)

			rec := httptest.NewRecorder()
			tt.handlerFunc(handler)(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedValue, body[tt.expectedField])
			mockService.AssertExpectations(t)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	t.Run("delegates to exposition", func(t *testing.T) {
		exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("go_goroutines 7\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exposition).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Metrics Disabled")
	})
}
