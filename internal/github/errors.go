package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v53/github"
)

// Error taxonomy for upstream failures. Client methods wrap every failure
// with exactly one of these so callers can branch with errors.Is.
var (
	// ErrRejected means GitHub refused the query itself, typically because
	// the search expression was malformed or too complex.
	ErrRejected = errors.New("query rejected by GitHub")
	// ErrRateLimited means a primary or secondary rate limit was hit.
	ErrRateLimited = errors.New("GitHub rate limit exceeded")
	// ErrUnauthorized means the configured credential was refused.
	ErrUnauthorized = errors.New("GitHub credential refused")
	// ErrNotFound means the requested repository does not exist or is hidden.
	ErrNotFound = errors.New("not found on GitHub")
	// ErrUnavailable covers network failures and 5xx responses.
	ErrUnavailable = errors.New("GitHub unavailable")
)

// classify maps a go-github error onto the taxonomy above.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch code := respErr.Response.StatusCode; {
		case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %w", ErrRejected, err)
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case code == http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		case code == http.StatusForbidden || code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// isTransient reports whether a classified error is worth retrying.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrUnavailable)
}
