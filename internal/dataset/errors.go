package dataset

import "errors"

var (
	// ErrMalformedTable is returned when columns differ in length or names collide.
	ErrMalformedTable = errors.New("malformed table")
	// ErrUnsupportedFormat is returned for file extensions no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyDataset is returned when a file has no header row.
	ErrEmptyDataset = errors.New("dataset has no header row")

	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreFull is returned when the store holds MaxSessions live sessions.
	ErrStoreFull = errors.New("session store is full")
)
