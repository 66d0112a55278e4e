package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skycli/skycli/internal/atproto"
	"github.com/skycli/skycli/internal/core/domain"
)

// fastPolicy keeps test sleeps negligible.
func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
}

func TestDo_SuccessAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, domain.ErrTimeout
		}
		return 7, nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != 7 {
		t.Errorf("Do() = %d, want 7", got)
	}
	if calls != 3 {
		t.Errorf("operation called %d times, want 3", calls)
	}
}

func TestDo_NonRetryableFailsFast(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid credentials", domain.ErrInvalidCredentials},
		{"validation", domain.ErrValidation},
		{"not found", domain.ErrNotFound},
		{"unclassified raw error", errors.New("surprise")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := Do(context.Background(), fastPolicy(5), func(context.Context) (struct{}, error) {
				calls++
				return struct{}{}, tt.err
			})
			if err == nil {
				t.Fatal("Do() should fail")
			}
			if calls != 1 {
				t.Errorf("operation called %d times, want 1 (no retries)", calls)
			}
			if !domain.IsAppError(err, "") {
				t.Errorf("Do() should return a classified error, got %T", err)
			}
		})
	}
}

func TestDo_ExhaustedBudgetReturnsClassified(t *testing.T) {
	calls := 0
	raw := &atproto.APIError{StatusCode: 503, Message: "overloaded"}

	_, err := Do(context.Background(), fastPolicy(3), func(context.Context) (struct{}, error) {
		calls++
		return struct{}{}, raw
	})
	if calls != 3 {
		t.Errorf("operation called %d times, want 3", calls)
	}
	if !domain.IsAppError(err, domain.ErrServer.Code) {
		t.Errorf("Do() error = %v, want classified server error", err)
	}
	// The raw error must remain reachable for diagnosis.
	if !errors.Is(err, raw) {
		t.Error("classified error should wrap the raw failure")
	}
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{MaxAttempts: 0}, func(context.Context) (struct{}, error) {
		calls++
		return struct{}{}, domain.ErrTimeout
	})
	if err == nil {
		t.Fatal("Do() should fail")
	}
	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
}

func TestDo_ContextCancellationDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{
		MaxAttempts:  3,
		InitialDelay: time.Hour, // would hang without cancellation
		MaxDelay:     time.Hour,
		Multiplier:   2,
	}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, func(context.Context) (struct{}, error) {
			calls++
			return struct{}{}, domain.ErrTimeout
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !domain.IsAppError(err, domain.ErrTimeout.Code) {
			t.Errorf("Do() error = %v, want the classified failure", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() error should carry the cancellation cause, got %v", err)
		}
		if calls != 1 {
			t.Errorf("operation called %d times, want 1", calls)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do() did not return after context cancellation")
	}
}

func TestDo_ObserverSeesEachRetry(t *testing.T) {
	type observation struct {
		attempt int
		code    string
	}
	var seen []observation

	p := fastPolicy(3).WithObserver(func(attempt int, err *domain.AppError, delay time.Duration) {
		seen = append(seen, observation{attempt, err.Code})
		if delay <= 0 {
			t.Errorf("observer delay = %s, want positive", delay)
		}
	})

	_, _ = Do(context.Background(), p, func(context.Context) (struct{}, error) {
		return struct{}{}, domain.ErrConnectionReset
	})

	// Three attempts means two sleeps, so two observations.
	if len(seen) != 2 {
		t.Fatalf("observer called %d times, want 2", len(seen))
	}
	for i, ob := range seen {
		if ob.attempt != i+1 {
			t.Errorf("observation %d attempt = %d, want %d", i, ob.attempt, i+1)
		}
		if ob.code != domain.ErrConnectionReset.Code {
			t.Errorf("observation %d code = %q, want %q", i, ob.code, domain.ErrConnectionReset.Code)
		}
	}
}

func TestPolicy_DelayGrowsAndCaps(t *testing.T) {
	p := Policy{
		MaxAttempts:  6,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     400 * time.Millisecond,
		Multiplier:   2,
	}
	failure := domain.ErrTimeout.WithCause(errors.New("x"))

	// Sample repeatedly; jitter is random but always within bounds.
	for attempt := 1; attempt <= 5; attempt++ {
		base := float64(p.InitialDelay) * pow(p.Multiplier, attempt-1)
		if base > float64(p.MaxDelay) {
			base = float64(p.MaxDelay)
		}
		lower := time.Duration(base * 0.75)

		for i := 0; i < 50; i++ {
			d := p.delayFor(attempt, failure)
			if d < lower {
				t.Fatalf("attempt %d: delay %s below jitter floor %s", attempt, d, lower)
			}
			if d > p.MaxDelay {
				t.Fatalf("attempt %d: delay %s exceeds cap %s", attempt, d, p.MaxDelay)
			}
		}
	}
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

func TestPolicy_RateLimitWaitOverridesSchedule(t *testing.T) {
	p := fastPolicy(3)
	limited := domain.ErrRateLimited.WithWait(123 * time.Millisecond)

	if d := p.delayFor(1, limited); d != 123*time.Millisecond {
		t.Errorf("delayFor() = %s, want the server-supplied wait", d)
	}

	// Without a server wait, rate limits fall back to the schedule.
	bare := domain.ErrRateLimited.WithStatus(429)
	if d := p.delayFor(1, bare); d > p.MaxDelay {
		t.Errorf("delayFor() = %s, want within schedule", d)
	}
}

func TestDo_RateLimitSleepsServerWait(t *testing.T) {
	wait := 50 * time.Millisecond
	limited := &atproto.APIError{StatusCode: 429, RetryAfter: wait}

	calls := 0
	start := time.Now()
	got, err := Do(context.Background(), fastPolicy(2), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", limited
		}
		return "ok", nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, want ok", got)
	}
	if elapsed < wait {
		t.Errorf("Do() returned after %s, want at least the %s server wait", elapsed, wait)
	}
}

func TestProfiles(t *testing.T) {
	tests := []struct {
		name     string
		p        Policy
		attempts int
	}{
		{"fast", Fast, 3},
		{"standard", Standard, 3},
		{"long", Long, 5},
		{"critical", Critical, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.p.MaxAttempts != tt.attempts {
				t.Errorf("MaxAttempts = %d, want %d", tt.p.MaxAttempts, tt.attempts)
			}
			if tt.p.InitialDelay <= 0 || tt.p.MaxDelay < tt.p.InitialDelay {
				t.Errorf("implausible delay bounds: %s .. %s", tt.p.InitialDelay, tt.p.MaxDelay)
			}
			if tt.p.Multiplier <= 1 {
				t.Errorf("Multiplier = %v, want > 1", tt.p.Multiplier)
			}
		})
	}
}
