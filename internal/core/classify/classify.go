// Package classify maps raw failures into the closed AppError taxonomy.
//
// FromRaw is a total, pure function: for any input it returns exactly
// one classified error, never panics, and never performs IO. It is the
// single classification point shared by the retry engine (to decide
// retryability) and the output layer (to decide the message and the
// process exit code), so the two can never disagree.
package classify

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/skycli/skycli/internal/atproto"
	"github.com/skycli/skycli/internal/core/domain"
)

// FromRaw classifies a raw failure. Priority order, first match wins:
//
//  1. Already-classified errors pass through unchanged.
//  2. Known network-stack errors (DNS failure, refused, reset, timeout).
//  3. HTTP status from the XRPC layer (401, 429, 404, 400, 5xx).
//  4. Message-text heuristics when no typed signal is present.
//  5. Everything else: unclassified, message preserved, cause retained.
func FromRaw(err error) *domain.AppError {
	if err == nil {
		return nil
	}

	var ae *domain.AppError
	if errors.As(err, &ae) {
		return ae
	}

	if ne := classifyNetError(err); ne != nil {
		return ne
	}

	if apiErr, ok := atproto.AsAPIError(err); ok {
		return classifyAPIError(apiErr)
	}

	if he := classifyMessage(err); he != nil {
		return he
	}

	return domain.ErrUnclassified.WithDetails(err.Error()).WithCause(err)
}

// classifyNetError maps transport-level failures.
func classifyNetError(err error) *domain.AppError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.ErrDNSFailure.WithDetails(dnsErr.Name).WithCause(err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.ErrConnectionRefused.WithCause(err)
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return domain.ErrConnectionReset.WithCause(err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout.WithCause(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.ErrTimeout.WithCause(err)
		}
		return domain.ErrConnectionFailed.WithCause(err)
	}

	return nil
}

// classifyAPIError maps an XRPC error by HTTP status.
func classifyAPIError(apiErr *atproto.APIError) *domain.AppError {
	switch {
	case apiErr.StatusCode == 401:
		if strings.EqualFold(apiErr.ErrCode, "AuthenticationRequired") &&
			containsAny(apiErr.Message, "invalid identifier", "invalid password") {
			return domain.ErrInvalidCredentials.WithStatus(401).WithCause(apiErr)
		}
		return domain.ErrSessionExpired.WithStatus(401).WithCause(apiErr)
	case apiErr.StatusCode == 429:
		e := domain.ErrRateLimited.WithStatus(429).WithCause(apiErr)
		if apiErr.RetryAfter > 0 {
			e = e.WithWait(apiErr.RetryAfter)
		}
		return e
	case apiErr.StatusCode == 404:
		return domain.ErrNotFound.WithStatus(404).WithDetails(apiErr.Message).WithCause(apiErr)
	case apiErr.StatusCode == 400:
		return domain.ErrValidation.WithStatus(400).WithDetails(apiErr.Message).WithCause(apiErr)
	case apiErr.StatusCode >= 500:
		return domain.ErrServer.WithStatus(apiErr.StatusCode).WithDetails(apiErr.Message).WithCause(apiErr)
	default:
		return domain.ErrUnclassified.WithStatus(apiErr.StatusCode).WithDetails(apiErr.Error()).WithCause(apiErr)
	}
}

// classifyMessage is the text-heuristic fallback for errors that carry
// no typed signal at all.
func classifyMessage(err error) *domain.AppError {
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "invalid identifier", "invalid password", "invalid credentials"):
		return domain.ErrInvalidCredentials.WithCause(err)
	case containsAny(msg, "expired token", "token has expired", "expiredtoken"):
		return domain.ErrSessionExpired.WithCause(err)
	case containsAny(msg, "connection refused"):
		return domain.ErrConnectionRefused.WithCause(err)
	case containsAny(msg, "connection reset", "socket hang up", "broken pipe"):
		return domain.ErrConnectionReset.WithCause(err)
	case containsAny(msg, "no such host", "dns"):
		return domain.ErrDNSFailure.WithCause(err)
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return domain.ErrTimeout.WithCause(err)
	case containsAny(msg, "network", "connection failed"):
		return domain.ErrConnectionFailed.WithCause(err)
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Retryable reports whether a classified error is worth another
// attempt. Unknown errors are not retried; masking a bug behind
// retries is worse than failing fast.
func Retryable(ae *domain.AppError) bool {
	if ae == nil {
		return false
	}
	switch ae.Code {
	case domain.ErrConnectionRefused.Code,
		domain.ErrConnectionReset.Code,
		domain.ErrTimeout.Code,
		domain.ErrDNSFailure.Code,
		domain.ErrConnectionFailed.Code,
		domain.ErrRateLimited.Code:
		return true
	case domain.ErrServer.Code:
		// 501 means the endpoint will never work; retrying is noise.
		return ae.Status != 501
	default:
		return false
	}
}
