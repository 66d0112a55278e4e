package atproto

import (
	"fmt"
	"time"
)

// APIError is the wire error shape returned by XRPC endpoints.
//
// ErrCode carries the protocol error name from the response body
// (e.g. "AuthenticationRequired", "ExpiredToken"); Message the
// human-readable text. RetryAfter is parsed from the Retry-After
// header on 429 responses, zero otherwise.
type APIError struct {
	StatusCode int
	ErrCode    string
	Message    string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrCode != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.ErrCode, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsExpiredToken reports whether the error indicates the access
// credential has expired and a refresh should be attempted.
func (e *APIError) IsExpiredToken() bool {
	return e.ErrCode == "ExpiredToken" || e.StatusCode == 401
}
