package domain

import (
	"errors"
	"fmt"
	"time"
)

// AppError represents a classified failure with a structured error code.
//
// Every failure that crosses a component boundary is normalized into an
// AppError exactly once, at the point where the raw failure enters the
// core. AppErrors are never mutated after creation; the With* methods
// return copies.
type AppError struct {
	Code    string        // Machine code (e.g. "SKY-AUTH-4010")
	Message string        // Human-readable message
	Details string        // Optional additional details
	Status  int           // Originating HTTP status, 0 if none
	Wait    time.Duration // Server-supplied rate-limit wait, 0 if none
	Cause   error         // Underlying error (if any)
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support, comparing by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewAppError creates a new AppError with the given code and message.
func NewAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WithDetails returns a copy of the error with additional details.
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *AppError) WithCause(cause error) *AppError {
	c := *e
	c.Cause = cause
	return &c
}

// WithStatus returns a copy of the error carrying the originating
// HTTP status code.
func (e *AppError) WithStatus(status int) *AppError {
	c := *e
	c.Status = status
	return &c
}

// WithWait returns a copy of the error carrying a server-supplied
// wait duration (rate-limit responses).
func (e *AppError) WithWait(wait time.Duration) *AppError {
	c := *e
	c.Wait = wait
	return &c
}

// IsAppError checks whether err is an AppError with the given code.
// An empty code only checks that the error is an AppError at all.
func IsAppError(err error, code string) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return code == "" || ae.Code == code
	}
	return false
}

// ErrorCode extracts the machine code from an error, or "" when the
// error is not an AppError.
func ErrorCode(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// ============================================================================
// Authentication errors (AUTH)
// ============================================================================

var (
	// ErrInvalidCredentials indicates the identifier/password pair was rejected.
	ErrInvalidCredentials = NewAppError("SKY-AUTH-4010", "invalid identifier or password")

	// ErrSessionExpired indicates the stored session can no longer be used.
	ErrSessionExpired = NewAppError("SKY-AUTH-4011", "session expired, please log in again")

	// ErrNotAuthenticated indicates no session exists locally.
	ErrNotAuthenticated = NewAppError("SKY-AUTH-4012", "not logged in")

	// ErrRefreshFailed indicates the credential refresh exchange failed.
	ErrRefreshFailed = NewAppError("SKY-AUTH-4013", "session refresh failed")
)

// ============================================================================
// Network errors (NET)
// ============================================================================

var (
	// ErrConnectionFailed indicates a network failure without a finer sub-code.
	ErrConnectionFailed = NewAppError("SKY-NET-1000", "connection failed")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = NewAppError("SKY-NET-1001", "request timed out")

	// ErrDNSFailure indicates host name resolution failed.
	ErrDNSFailure = NewAppError("SKY-NET-1002", "could not resolve host")

	// ErrConnectionRefused indicates the remote host refused the connection.
	ErrConnectionRefused = NewAppError("SKY-NET-1003", "connection refused")

	// ErrConnectionReset indicates the connection was reset mid-request.
	ErrConnectionReset = NewAppError("SKY-NET-1004", "connection reset")
)

// ============================================================================
// Request errors (REQ)
// ============================================================================

var (
	// ErrRateLimited indicates the server rejected the request with 429.
	// The Wait field carries the server-supplied retry-after when present.
	ErrRateLimited = NewAppError("SKY-REQ-4290", "rate limited by server")

	// ErrValidation indicates the server rejected the request as malformed.
	ErrValidation = NewAppError("SKY-REQ-4000", "invalid request")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = NewAppError("SKY-REQ-4040", "not found")

	// ErrServer indicates a server-side failure (HTTP 5xx).
	ErrServer = NewAppError("SKY-REQ-5000", "server error")
)

// ============================================================================
// Credential store errors (STORE)
// ============================================================================

var (
	// ErrSessionCorrupt indicates stored session bytes could not be
	// authenticated, decrypted, or parsed.
	ErrSessionCorrupt = NewAppError("SKY-STORE-5001", "stored session is corrupt or tampered with")

	// ErrStorePermissions indicates the session file is readable by
	// other users and was refused.
	ErrStorePermissions = NewAppError("SKY-STORE-5002", "session file has insecure permissions")

	// ErrStoreIO indicates a filesystem failure in the credential store.
	ErrStoreIO = NewAppError("SKY-STORE-5003", "credential store io failure")
)

// ============================================================================
// Generic (GEN)
// ============================================================================

var (
	// ErrUnclassified is the catch-all for failures no other class matches.
	// The original message is preserved in Details and the raw error in Cause.
	ErrUnclassified = NewAppError("SKY-GEN-0000", "unexpected error")
)
