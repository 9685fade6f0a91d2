package search

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBlankQuery = errors.New("query is blank")
	ErrStale      = errors.New("search superseded by a newer one")
	ErrFailed     = errors.New("search failed")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	statusText := http.StatusText(e.StatusCode)
	if len(statusText) == 0 {
		statusText = fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("Search failed: %s", statusText)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrFailed
}
