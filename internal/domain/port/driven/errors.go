package driven

import (
	"errors"
	"fmt"
)

// ErrCredentialsMissing is returned by session acquisition when no token
// bundle is cached and EMAIL/PASSWORD are not configured.
var ErrCredentialsMissing = errors.New(
	"no stored tokens found and EMAIL/PASSWORD environment variables not set",
)

// AuthenticationError indicates Garmin Connect rejected the credentials or
// a cached token bundle.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("garmin authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ConnectionError indicates a transport-level failure reaching Garmin
// Connect (DNS, refused connection, timeout).
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("garmin connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RateLimitError indicates Garmin Connect answered 429.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("garmin rate limit exceeded: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// APIError indicates Garmin Connect answered with an unexpected non-2xx
// status that is neither an authentication nor a rate-limit failure.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("garmin api error: status %d: %s", e.StatusCode, e.Body)
}
