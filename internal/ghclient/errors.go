package ghclient

import (
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/constants"
)

// ErrRateLimited is returned when the GitHub API rate limit has been exceeded.
var ErrRateLimited = errors.New("GitHub API rate limit exceeded")

// APIError describes a failed API call. Message is truncated so a hostile or
// verbose server can't flood the logs.
type APIError struct {
	Endpoint string
	Status   int // 0 when no response was received
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("GET %s: %d %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("GET %s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newAPIError wraps err returned by go-github for endpoint.
func newAPIError(endpoint string, resp *gh.Response, err error) *APIError {
	apiErr := &APIError{
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
	if resp != nil && resp.Response != nil {
		apiErr.Status = resp.StatusCode
	}

	var errResp *gh.ErrorResponse
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		apiErr.Err = fmt.Errorf("%w: %w", ErrRateLimited, err)
		apiErr.Message = "rate limit exceeded"
	case errors.As(err, &errResp):
		if errResp.Response != nil {
			apiErr.Status = errResp.Response.StatusCode
		}
		apiErr.Message = errResp.Message
		if apiErr.Message == "" && apiErr.Status > 0 {
			apiErr.Message = http.StatusText(apiErr.Status)
		}
	}

	apiErr.Message = truncate(apiErr.Message, constants.ErrorMessageLimit)
	return apiErr
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
