// Package retry executes operations with classification-driven retry.
//
// The engine wraps an arbitrary operation with exponential backoff,
// symmetric jitter, and rate-limit-aware waiting. Classification is
// delegated to internal/core/classify so that retryability and the
// user-facing error can never disagree. Profiles bundle the tuning
// parameters; callers pick a profile instead of hand-tuning.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/skycli/skycli/internal/core/classify"
	"github.com/skycli/skycli/internal/core/domain"
)

// Observer is notified before each retry sleep with the attempt number
// (1-based), the classified failure, and the delay about to be applied.
type Observer func(attempt int, err *domain.AppError, delay time.Duration)

// Policy bundles the retry tuning parameters.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	OnRetry      Observer
}

// Named profiles for the different call shapes across the command
// surface.
var (
	// Fast suits quick single calls (login, probes).
	Fast = Policy{MaxAttempts: 3, InitialDelay: 1 * time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	// Standard suits typical reads (timelines, profiles).
	Standard = Policy{MaxAttempts: 3, InitialDelay: 2 * time.Second, MaxDelay: 10 * time.Second, Multiplier: 2}

	// Long suits uploads and batch operations.
	Long = Policy{MaxAttempts: 5, InitialDelay: 3 * time.Second, MaxDelay: 30 * time.Second, Multiplier: 2}

	// Critical suits calls that must not give up easily; the gentler
	// multiplier keeps the schedule dense.
	Critical = Policy{MaxAttempts: 5, InitialDelay: 2 * time.Second, MaxDelay: 30 * time.Second, Multiplier: 1.5}
)

// WithObserver returns a copy of the policy with the observer set.
func (p Policy) WithObserver(fn Observer) Policy {
	p.OnRetry = fn
	return p
}

// jitterFraction is the symmetric jitter applied to computed delays to
// avoid synchronized retry storms across concurrent callers.
const jitterFraction = 0.25

// Do executes op, retrying on transient failure per the policy.
//
// Success returns immediately. A failure is classified once per
// attempt; a non-retryable classification or an exhausted budget
// returns the classified error, never the raw one. A rate-limit error
// carrying a server-supplied wait sleeps exactly that long, bypassing
// the exponential schedule. Attempts are strictly sequential.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var classified *domain.AppError
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		classified = classify.FromRaw(err)
		if !classify.Retryable(classified) || attempt == attempts {
			return zero, classified
		}

		delay := p.delayFor(attempt, classified)
		if p.OnRetry != nil {
			p.OnRetry(attempt, classified, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, classified.WithCause(err)
		}
	}
	return zero, classified
}

// delayFor computes the pre-sleep delay after a failed attempt
// (1-based). A server-supplied rate-limit wait wins outright.
func (p Policy) delayFor(attempt int, classified *domain.AppError) time.Duration {
	if classified.Code == domain.ErrRateLimited.Code && classified.Wait > 0 {
		return classified.Wait
	}

	base := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if max := float64(p.MaxDelay); base > max {
		base = max
	}

	// Uniform jitter in [-25%, +25%], never past the cap.
	jittered := base * (1 - jitterFraction + 2*jitterFraction*rand.Float64())
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && jittered > max {
		jittered = max
	}
	return time.Duration(jittered)
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
