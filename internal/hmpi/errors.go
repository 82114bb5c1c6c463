package hmpi

import "errors"

// Every engine failure is a terminal validation error on the input data.
// None are retryable: the caller must correct the input and resubmit.
var (
	ErrInvalidReading    = errors.New("invalid reading: concentration must be a non-negative number")
	ErrInvalidLimit      = errors.New("invalid limit: permissible limit must exceed ideal value")
	ErrUnsupportedUnit   = errors.New("unsupported concentration unit")
	ErrEmptyInput        = errors.New("empty input: at least one reading is required")
	ErrDuplicateMetal    = errors.New("duplicate metal in reading set")
	ErrInvalidThresholds = errors.New("invalid thresholds: bands must be strictly increasing and cover [0, +inf)")
)
