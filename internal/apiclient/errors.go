package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: request failed with status code %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: request failed with status code %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsBadRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}
