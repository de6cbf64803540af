package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation classifies what a failed call was trying to do. Fetch failures
// and create failures isolate differently in the cloner, so the client tags
// every error with the operation that produced it.
type Operation string

const (
	OpFetch  Operation = "fetch"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpImport Operation = "import"
)

// APIError is a failed call against a remote environment.
type APIError struct {
	Op         Operation
	Path       string
	StatusCode int // 0 for transport-level failures
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Op, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// OperationOf returns the operation an error was classified under, or "".
func OperationOf(err error) Operation {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Op
	}
	return ""
}
