package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// writeAttachment sends body as a download named filename.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func asMaxBytes(err error) (*http.MaxBytesError, bool) {
	var maxErr *http.MaxBytesError
	ok := errors.As(err, &maxErr)
	return maxErr, ok
}
