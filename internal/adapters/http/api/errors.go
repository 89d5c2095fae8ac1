package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNotReady       = errors.New("season data not loaded yet")
	ErrMissingName    = errors.New("missing name query parameter")
	ErrBadNumber      = errors.New("driver number must be a positive integer")
	ErrDriverNotFound = errors.New("driver not found")
)
