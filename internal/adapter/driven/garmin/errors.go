package garmin

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

// maxErrorBody caps how much of an error response body is carried into an
// APIError message.
const maxErrorBody = 512

// transportError wraps a failed round trip into the port-level
// ConnectionError so callers can map it to 503.
func transportError(op string, err error) error {
	return &driven.ConnectionError{Err: fmt.Errorf("%s: %w", op, err)}
}

// statusError maps a non-2xx response to the port-level error taxonomy.
// 401/403 become AuthenticationError, 429 becomes RateLimitError, anything
// else becomes APIError carrying a body snippet.
func statusError(op string, resp *http.Response) error {
	body := readErrorBody(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &driven.AuthenticationError{
			Err: fmt.Errorf("%s: status %d", op, resp.StatusCode),
		}
	case http.StatusTooManyRequests:
		return &driven.RateLimitError{
			Err: fmt.Errorf("%s: status %d", op, resp.StatusCode),
		}
	default:
		return &driven.APIError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("%s: %s", op, body),
		}
	}
}

func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
