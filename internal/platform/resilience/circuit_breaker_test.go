package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(cfg)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }
	return b, &clock
}

func TestCircuitBreakerOpensAfterFailureStreak(t *testing.T) {
	b, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: 10 * time.Second, HalfOpenMaxReq: 1})

	b.RecordFailure()
	if b.State() != CircuitStateClosed {
		t.Fatalf("state after one failure = %v", b.State())
	}
	b.RecordFailure()
	if b.State() != CircuitStateOpen {
		t.Fatalf("state after streak = %v, want open", b.State())
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Allow while open = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerSuccessResetsStreak(t *testing.T) {
	b, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: 10 * time.Second, HalfOpenMaxReq: 1})

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if b.State() != CircuitStateClosed {
		t.Fatalf("interleaved success did not reset the streak: %v", b.State())
	}
}

func TestCircuitBreakerProbesAfterCooldown(t *testing.T) {
	b, clock := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Second, HalfOpenMaxReq: 1})

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Allow before cooldown = %v", err)
	}

	*clock = clock.Add(10 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe after cooldown rejected: %v", err)
	}
	// Probe budget is one; a second concurrent call must wait.
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe = %v, want ErrCircuitOpen", err)
	}

	b.RecordSuccess()
	if b.State() != CircuitStateClosed {
		t.Fatalf("state after successful probe = %v, want closed", b.State())
	}
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	b, clock := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Second, HalfOpenMaxReq: 1})

	b.RecordFailure()
	*clock = clock.Add(10 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Allow after failed probe = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerZeroConfigFallsBack(t *testing.T) {
	b, _ := newTestBreaker(CircuitBreakerConfig{})

	b.RecordFailure()
	b.RecordFailure()
	if b.State() != CircuitStateClosed {
		t.Fatalf("opened before the fallback threshold: %v", b.State())
	}
	b.RecordFailure()
	if b.State() != CircuitStateOpen {
		t.Fatalf("state after %d failures = %v, want open", fallbackFailureThreshold, b.State())
	}
}
