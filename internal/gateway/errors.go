package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v84/github"
)

// ErrNotFound is returned when a probed resource does not exist.
var ErrNotFound = errors.New("resource not found")

// FetchError wraps a failed API call with the operation and, when the API
// answered, its HTTP status code.
type FetchError struct {
	Op         string
	Repo       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	target := ""
	if e.Repo != "" {
		target = " for " + e.Repo
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to %s%s (status %d): %v", e.Op, target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to %s%s: %v", e.Op, target, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(op, repo string, err error) *FetchError {
	return &FetchError{Op: op, Repo: repo, StatusCode: StatusCode(err), Err: err}
}

// StatusCode extracts the HTTP status of a go-github error, or 0.
func StatusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
