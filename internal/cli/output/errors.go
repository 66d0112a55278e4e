package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/skycli/skycli/internal/core/classify"
	"github.com/skycli/skycli/internal/core/domain"
)

// Fixed process exit codes per error class. Stable contract: scripts
// branch on these.
const (
	ExitSuccess            = 0
	ExitGeneral            = 1
	ExitInvalidCredentials = 10
	ExitSessionExpired     = 11
	ExitNotAuthenticated   = 12
	ExitRefreshFailed      = 13
	ExitNetwork            = 20
	ExitRateLimited        = 30
	ExitValidation         = 40
	ExitNotFound           = 44
)

// ExitCode maps a failure to its fixed exit code. Unclassified input
// is classified first, so raw errors get the right code too.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch classify.FromRaw(err).Code {
	case domain.ErrInvalidCredentials.Code:
		return ExitInvalidCredentials
	case domain.ErrSessionExpired.Code:
		return ExitSessionExpired
	case domain.ErrNotAuthenticated.Code:
		return ExitNotAuthenticated
	case domain.ErrRefreshFailed.Code:
		return ExitRefreshFailed
	case domain.ErrConnectionFailed.Code,
		domain.ErrConnectionRefused.Code,
		domain.ErrConnectionReset.Code,
		domain.ErrTimeout.Code,
		domain.ErrDNSFailure.Code:
		return ExitNetwork
	case domain.ErrRateLimited.Code:
		return ExitRateLimited
	case domain.ErrValidation.Code:
		return ExitValidation
	case domain.ErrNotFound.Code:
		return ExitNotFound
	default:
		return ExitGeneral
	}
}

// RenderError writes the user-facing form of a failure. Normal mode
// shows only the human message; debug mode adds the machine code, the
// originating status, and the cause chain.
func RenderError(w io.Writer, err error, debug bool) {
	if err == nil {
		return
	}

	classified := classify.FromRaw(err)
	fmt.Fprintf(w, "error: %s\n", classified.Message)
	if classified.Details != "" {
		fmt.Fprintf(w, "  %s\n", classified.Details)
	}

	if !debug {
		return
	}

	fmt.Fprintf(w, "  code: %s\n", classified.Code)
	if classified.Status != 0 {
		fmt.Fprintf(w, "  status: %d\n", classified.Status)
	}
	if classified.Wait > 0 {
		fmt.Fprintf(w, "  retry-after: %s\n", classified.Wait)
	}
	for cause := errors.Unwrap(classified); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  caused by: %s\n", cause.Error())
	}
}
