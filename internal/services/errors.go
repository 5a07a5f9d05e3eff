package services

import "errors"

// Explorer service errors. Returned errors wrap one of these together with
// the lower-level cause, so both can be matched with errors.Is/As.
var (
	// Dataset errors
	ErrDatasetNotFound    = errors.New("dataset not found")
	ErrUnsupportedFormat  = errors.New("unsupported dataset format")
	ErrInvalidDataset     = errors.New("dataset could not be parsed")
	ErrUploadRejected     = errors.New("upload rejected")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	// Column errors
	ErrColumnNotFound = errors.New("column not found")
	ErrNoNumericData  = errors.New("dataset has no numeric columns")

	// Plot errors
	ErrInvalidPlot = errors.New("invalid plot configuration")
	ErrPlotFailed  = errors.New("plot could not be rendered")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
