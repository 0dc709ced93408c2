package collector

import (
	"encoding/json"
	"fmt"
	"io"

	"research-orchestrator/internal/resilience/retry"
)

// httpStatusError adapts a non-2xx response into retry.HTTPError so the
// shared retry helper can decide retryability uniformly across collectors.
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, truncate(e.body, 200))
}

// asRetryable exposes the same shape retry.IsRetryable inspects.
func (e *httpStatusError) asHTTPError() *retry.HTTPError {
	return &retry.HTTPError{StatusCode: e.status, Message: truncate(e.body, 200)}
}

// Unwrap lets errors.As(err, *retry.HTTPError) find the underlying shape.
func (e *httpStatusError) Unwrap() error { return e.asHTTPError() }

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
