package report

import "errors"

// ErrInvalidFilter is returned when a supplied filter value is present but
// not parseable. Requests carrying one are rejected before any query runs.
var ErrInvalidFilter = errors.New("invalid filter")
