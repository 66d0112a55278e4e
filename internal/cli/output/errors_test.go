package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/skycli/skycli/internal/atproto"
	"github.com/skycli/skycli/internal/core/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid credentials", domain.ErrInvalidCredentials, ExitInvalidCredentials},
		{"session expired", domain.ErrSessionExpired, ExitSessionExpired},
		{"not authenticated", domain.ErrNotAuthenticated, ExitNotAuthenticated},
		{"refresh failed", domain.ErrRefreshFailed, ExitRefreshFailed},
		{"connection failed", domain.ErrConnectionFailed, ExitNetwork},
		{"connection refused", domain.ErrConnectionRefused, ExitNetwork},
		{"connection reset", domain.ErrConnectionReset, ExitNetwork},
		{"timeout", domain.ErrTimeout, ExitNetwork},
		{"dns failure", domain.ErrDNSFailure, ExitNetwork},
		{"rate limited", domain.ErrRateLimited, ExitRateLimited},
		{"validation", domain.ErrValidation, ExitValidation},
		{"not found", domain.ErrNotFound, ExitNotFound},
		{"server error", domain.ErrServer, ExitGeneral},
		{"store corrupt", domain.ErrSessionCorrupt, ExitGeneral},
		{"unclassified", domain.ErrUnclassified, ExitGeneral},
		{"plain error", errors.New("anything"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCode_ClassifiesRawErrors(t *testing.T) {
	// Raw failures are classified before mapping, so an unwrapped API
	// error still gets its proper code.
	raw := &atproto.APIError{StatusCode: 429}
	if got := ExitCode(raw); got != ExitRateLimited {
		t.Errorf("ExitCode(raw 429) = %d, want %d", got, ExitRateLimited)
	}
}

func TestRenderError_Normal(t *testing.T) {
	var buf bytes.Buffer
	err := domain.ErrSessionExpired.
		WithStatus(401).
		WithCause(errors.New("401 from server"))

	RenderError(&buf, err, false)
	out := buf.String()

	if !strings.Contains(out, "error: session expired, please log in again") {
		t.Errorf("output missing human message: %q", out)
	}
	// Machine detail stays out of normal mode.
	if strings.Contains(out, "SKY-AUTH-4011") || strings.Contains(out, "401") {
		t.Errorf("normal mode leaked machine detail: %q", out)
	}
}

func TestRenderError_Debug(t *testing.T) {
	var buf bytes.Buffer
	err := domain.ErrRateLimited.
		WithStatus(429).
		WithWait(30 * time.Second).
		WithCause(errors.New("upstream said no"))

	RenderError(&buf, err, true)
	out := buf.String()

	for _, want := range []string{
		"rate limited by server",
		"code: SKY-REQ-4290",
		"status: 429",
		"retry-after: 30s",
		"caused by: upstream said no",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q in: %q", want, out)
		}
	}
}

func TestRenderError_Details(t *testing.T) {
	var buf bytes.Buffer
	RenderError(&buf, domain.ErrValidation.WithDetails("post exceeds 300 characters"), false)

	if !strings.Contains(buf.String(), "post exceeds 300 characters") {
		t.Errorf("details missing from output: %q", buf.String())
	}
}

func TestRenderError_Nil(t *testing.T) {
	var buf bytes.Buffer
	RenderError(&buf, nil, true)
	if buf.Len() != 0 {
		t.Errorf("RenderError(nil) wrote %q, want nothing", buf.String())
	}
}
