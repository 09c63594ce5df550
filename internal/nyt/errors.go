package nyt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a failed search.
type ErrorKind int

const (
	KindNetworkFailure ErrorKind = iota
	KindUnauthorized
	KindRateLimited
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	default:
		return "network_failure"
	}
}

// Message is the user-facing text for the kind. It never depends on the
// transport's own error text.
func (k ErrorKind) Message() string {
	switch k {
	case KindUnauthorized:
		return "Invalid API key."
	case KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindTimeout:
		return "Request timeout. Please check your connection."
	default:
		return "Failed to fetch articles. Please try again."
	}
}

// SearchError is returned by Client.Search for every failed attempt.
type SearchError struct {
	Kind   ErrorKind
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *SearchError) Error() string {
	return e.Kind.Message()
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Detail includes the underlying cause, for logs.
func (e *SearchError) Detail() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// KindOf extracts the kind from err.
func KindOf(err error) (ErrorKind, bool) {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return KindNetworkFailure, false
}

var (
	ErrEmptyQuery  = errors.New("search query cannot be empty")
	ErrInvalidPage = errors.New("page must not be negative")
)

func statusError(status int) *SearchError {
	err := fmt.Errorf("HTTP error: %d", status)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &SearchError{Kind: KindUnauthorized, Status: status, Err: err}
	case http.StatusTooManyRequests:
		return &SearchError{Kind: KindRateLimited, Status: status, Err: err}
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return &SearchError{Kind: KindTimeout, Status: status, Err: err}
	default:
		return &SearchError{Kind: KindNetworkFailure, Status: status, Err: err}
	}
}

func transportError(err error) *SearchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &SearchError{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &SearchError{Kind: KindTimeout, Err: err}
	}
	return &SearchError{Kind: KindNetworkFailure, Err: err}
}
