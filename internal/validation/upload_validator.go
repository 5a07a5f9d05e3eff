package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// UploadError describes why an uploaded file was rejected.
type UploadError struct {
	Field  string
	Reason string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("invalid upload %s: %s", e.Field, e.Reason)
}

// UploadValidator checks dataset uploads before they are parsed
type UploadValidator struct {
	logger     *slog.Logger
	maxBytes   int64
	extensions map[string]struct{}
}

// NewUploadValidator creates a validator accepting files up to maxBytes with
// one of the given extensions (".csv", ".xlsx", ...).
func NewUploadValidator(maxBytes int64, extensions []string, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return &UploadValidator{
		logger:     logger.With(slog.String("component", "upload_validator")),
		maxBytes:   maxBytes,
		extensions: allowed,
	}
}

// Validate checks a file name and size.
func (v *UploadValidator) Validate(name string, size int64) error {
	if err := v.validate(name, size); err != nil {
		v.logger.Warn("Upload rejected",
			slog.String("file_name", name),
			slog.Int64("size", size),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (v *UploadValidator) validate(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return &UploadError{Field: "name", Reason: "file name is required"}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return &UploadError{Field: "name", Reason: "file name must not contain a path"}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := v.extensions[ext]; !ok {
		return &UploadError{Field: "name", Reason: fmt.Sprintf("unsupported file type %q", ext)}
	}

	if size == 0 {
		return &UploadError{Field: "size", Reason: "file is empty"}
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return &UploadError{Field: "size", Reason: fmt.Sprintf("file exceeds %d bytes", v.maxBytes)}
	}
	return nil
}

// ValidateFile checks that a local file exists, is readable and passes the
// upload rules.
func (v *UploadValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return v.Validate(filepath.Base(path), info.Size())
}
