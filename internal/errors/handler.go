package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-playground/validator/v10"

	"dataviz/internal/infrastructure"
	"dataviz/internal/plot"
	"dataviz/internal/services"
	"dataviz/internal/validation"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)
	reqID := infrastructure.GetRequestID(r.Context())

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("type", problem.Type),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if reqID != "" {
		problem.WithExtension("request_id", reqID)
	}
	if traceID := infrastructure.TraceIDFromContext(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	problem.Write(w)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", path)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, path)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed",
			"Request validation failed", path).
			WithExtension("errors", FieldErrors(fieldErrs))
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return NewProblemDetails(http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large",
			fmt.Sprintf("The request body exceeds %d bytes", maxBytes.Limit), path)
	}

	if errors.Is(err, plot.ErrMissingAxis) {
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeMissingAxis, "Missing Axis",
			plot.MissingAxisAdvisory, path)
	}

	var renderErr *plot.RenderError
	if errors.As(err, &renderErr) {
		problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeRender, "Plot Could Not Be Rendered",
			renderErr.Error(), path).
			WithExtension("reason", string(renderErr.Reason))
		if renderErr.Column != "" {
			problem.WithExtension("column", renderErr.Column)
		}
		return problem
	}

	var uploadErr *validation.UploadError
	if errors.As(err, &uploadErr) {
		return NewProblemDetails(http.StatusBadRequest, TypeUpload, "Upload Rejected",
			uploadErr.Reason, path).
			WithExtension("field", uploadErr.Field)
	}

	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		return NewProblemDetails(http.StatusNotFound, TypeDatasetNotFound, "Dataset Not Found",
			"The dataset does not exist or its session has expired", path)

	case errors.Is(err, services.ErrColumnNotFound):
		return NewProblemDetails(http.StatusNotFound, TypeColumnNotFound, "Column Not Found",
			err.Error(), path)

	case errors.Is(err, services.ErrUnsupportedFormat):
		return NewProblemDetails(http.StatusUnsupportedMediaType, TypeUnsupportedFormat, "Unsupported Format",
			err.Error(), path)

	case errors.Is(err, services.ErrInvalidDataset), errors.Is(err, services.ErrNoNumericData):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeInvalidDataset, "Invalid Dataset",
			err.Error(), path)

	case errors.Is(err, services.ErrInvalidPlot), errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrUploadRejected):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request",
			err.Error(), path)

	case errors.Is(err, services.ErrServiceUnavailable):
		return NewProblemDetails(http.StatusServiceUnavailable, TypeServiceDown, "Service Unavailable",
			err.Error(), path).
			WithExtension("retry_after", 60)

	default:
		return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
			"An unexpected error occurred while processing your request", path)
	}
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, path string) *ProblemDetails {
	problemType := TypeInternal
	switch {
	case IsClientError(apiErr.ErrorCode):
		problemType = TypeValidation
	case apiErr.StatusCode == http.StatusNotFound:
		problemType = TypeNotFound
	case apiErr.StatusCode == http.StatusRequestEntityTooLarge:
		problemType = TypePayloadTooLarge
	case apiErr.StatusCode == http.StatusTooManyRequests:
		problemType = TypeRateLimit
	case apiErr.StatusCode == http.StatusServiceUnavailable:
		problemType = TypeServiceDown
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// FieldErrors turns validator failures into per-field messages.
func FieldErrors(errs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", getStackTrace()),
	)

	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path)
	if reqID := infrastructure.GetRequestID(r.Context()); reqID != "" {
		problem.WithExtension("request_id", reqID)
	}
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
	}
	problem.Write(w)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path).Write(w)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	NewProblemDetails(http.StatusMethodNotAllowed, TypeMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path).Write(w)
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
