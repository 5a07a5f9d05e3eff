package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/internal/infrastructure"
	"dataviz/internal/plot"
	"dataviz/internal/services"
	"dataviz/internal/shared/testutil"
	"dataviz/internal/validation"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	require.NoError(t, json.NewDecoder(w.Body).Decode(&problem))
	return problem
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)
	assert.NotNil(t, handler.logger)
	assert.True(t, handler.includeStack)

	assert.NotNil(t, NewErrorHandler(nil, false).logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "missing axis",
			err:        fmt.Errorf("%w: %w", services.ErrInvalidPlot, plot.ErrMissingAxis),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMissingAxis,
			wantTitle:  "Missing Axis",
		},
		{
			name:       "render error",
			err:        fmt.Errorf("%w: %w", services.ErrPlotFailed, &plot.RenderError{Reason: plot.NoNumericColumns}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeRender,
			wantTitle:  "Plot Could Not Be Rendered",
		},
		{
			name:       "unknown session",
			err:        fmt.Errorf("%w: abc", services.ErrDatasetNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDatasetNotFound,
			wantTitle:  "Dataset Not Found",
		},
		{
			name:       "unknown column",
			err:        fmt.Errorf("%w: \"Nope\"", services.ErrColumnNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeColumnNotFound,
			wantTitle:  "Column Not Found",
		},
		{
			name:       "upload rejected",
			err:        fmt.Errorf("%w: %w", services.ErrUploadRejected, &validation.UploadError{Field: "size", Reason: "file is empty"}),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUpload,
			wantTitle:  "Upload Rejected",
		},
		{
			name:       "store full",
			err:        fmt.Errorf("%w: too many sessions", services.ErrServiceUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeServiceDown,
			wantTitle:  "Service Unavailable",
		},
		{
			name:       "unsupported format",
			err:        fmt.Errorf("%w: .json", services.ErrUnsupportedFormat),
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupportedFormat,
			wantTitle:  "Unsupported Format",
		},
		{
			name:       "unparseable dataset",
			err:        fmt.Errorf("%w: no header row", services.ErrInvalidDataset),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeInvalidDataset,
			wantTitle:  "Invalid Dataset",
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "api error",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantTitle:  "Payload Too Large",
		},
		{
			name:       "generic error",
			err:        fmt.Errorf("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logHandler := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/datasets/abc/plots", nil)
			r = r.WithContext(infrastructure.WithRequestID(r.Context(), "req-1"))

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, ContentTypeProblem, w.Header().Get("Content-Type"))

			problem := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantTitle, problem.Title)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, "/api/datasets/abc/plots", problem.Instance)
			assert.Equal(t, "req-1", problem.Extensions["request_id"])

			assert.True(t, logHandler.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, logHandler.Count())
}

func TestErrorHandler_MissingAxisAdvisory(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodPost, "/plots", nil)

	problem := handler.ErrorToProblem(plot.ErrMissingAxis, r)
	assert.Equal(t, plot.MissingAxisAdvisory, problem.Detail)
}

func TestErrorHandler_RenderReasonExtension(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodPost, "/plots", nil)

	problem := handler.ErrorToProblem(&plot.RenderError{Reason: plot.UnknownColumn, Column: "Ghost"}, r)
	assert.Equal(t, "UnknownColumn", problem.Extensions["reason"])
	assert.Equal(t, "Ghost", problem.Extensions["column"])

	problem = handler.ErrorToProblem(&plot.RenderError{Reason: plot.TooManyColumns, Err: fmt.Errorf("heatmap of 30 columns does not fit 200x200")}, r)
	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
	assert.Equal(t, "TooManyColumns", problem.Extensions["reason"])
}

func TestErrorHandler_UploadFieldExtension(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodPost, "/datasets", nil)

	problem := handler.ErrorToProblem(&validation.UploadError{Field: "name", Reason: "file name is required"}, r)
	assert.Equal(t, "name", problem.Extensions["field"])
	assert.Equal(t, "file name is required", problem.Detail)
}

func TestErrorHandler_ValidatorErrors(t *testing.T) {
	type request struct {
		Column string `json:"column" validate:"required"`
		Rows   int    `json:"rows" validate:"min=0,max=1000"`
	}
	err := validator.New().Struct(request{Rows: 5000})
	require.Error(t, err)

	handler := NewErrorHandler(slog.Default(), false)
	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodPost, "/filter", nil), err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	problem := decodeProblem(t, w)
	assert.Equal(t, TypeValidation, problem.Type)

	fields, ok := problem.Extensions["errors"].([]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestErrorHandler_StackOnlyForServerErrors(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), true)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))
	assert.Contains(t, decodeProblem(t, w).Extensions, "stack")

	w = httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), plot.ErrMissingAxis)
	assert.NotContains(t, decodeProblem(t, w).Extensions, "stack")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w).Type)

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodPatch, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decodeProblem(t, w).Detail, "PATCH")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	RecoveryMiddleware(handler)(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, TypeInternal, decodeProblem(t, w).Type)
	testutil.AssertLogContains(t, logHandler, slog.LevelError, "panic recovered")
}
