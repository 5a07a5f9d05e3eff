package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "dataviz/internal/errors"
)

// DefaultMaxBodySize bounds JSON request bodies.
const DefaultMaxBodySize int64 = 1 << 20

// RequestValidator decodes JSON bodies and checks their validate tags. Field
// names in errors use the json tag.
type RequestValidator struct {
	validator   *validator.Validate
	logger      *slog.Logger
	maxBodySize int64
}

// NewRequestValidator creates a validator reporting fields by json name.
func NewRequestValidator(logger *slog.Logger) *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{
		validator:   v,
		logger:      logger.With(slog.String("component", "request_validator")),
		maxBodySize: DefaultMaxBodySize,
	}
}

// DecodeJSON reads r's body into dst and validates it. Errors are ready for
// apierrors.ErrorHandler.
func (v *RequestValidator) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, v.maxBodySize)
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return apierrors.New(http.StatusBadRequest, apierrors.CodeInvalidRequest, "Request body is required")
		}
		return apierrors.InvalidRequestWithError(err)
	}
	return v.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (v *RequestValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}
	v.logger.Debug("request validation failed", slog.Int("fields", len(fieldErrs)))
	return apierrors.NewValidationErrors(apierrors.FieldErrors(fieldErrs))
}

// ContentTypeValidator rejects bodies whose Content-Type is not one of
// contentTypes. Requests without a body method pass through.
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead ||
				r.Method == http.MethodDelete || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			apierrors.NewProblemDetails(http.StatusUnsupportedMediaType, apierrors.TypeUnsupportedFormat,
				"Unsupported Media Type", fmt.Sprintf("Content-Type %q is not accepted", contentType), r.URL.Path).
				WithExtension("allowed", contentTypes).
				Write(w)
		})
	}
}

// QueryInt parses an integer query parameter within [min, max]. An absent
// parameter yields def.
func QueryInt(r *http.Request, param string, min, max, def int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.InvalidParameter(param, "must be an integer")
	}
	if n < min || n > max {
		return 0, apierrors.InvalidParameter(param, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return n, nil
}
