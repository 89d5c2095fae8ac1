package openf1

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the upstream kept answering 429 until the
// attempt budget ran out.
var ErrRateLimited = errors.New("upstream rate limited")

// StatusError reports a non-2xx upstream response other than 429.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.Code, e.Endpoint)
}
