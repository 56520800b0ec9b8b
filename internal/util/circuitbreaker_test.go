package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("report", 2, time.Minute, zap.NewNop()).WithClock(func() time.Time { return now })

	cb.RecordFailure()
	if !cb.Allow() {
		t.Fatalf("breaker should stay closed below threshold")
	}
	cb.RecordFailure()
	if cb.Allow() {
		t.Fatalf("breaker should be open after threshold")
	}
	if cb.Status().NextRetryTime == nil {
		t.Fatalf("open breaker should report next retry time")
	}
}

func TestCircuitBreakerHalfOpenAdmitsSingleProbe(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("report", 1, time.Minute, zap.NewNop()).WithClock(func() time.Time { return now })

	cb.RecordFailure()
	now = now.Add(time.Minute)

	if !cb.Allow() {
		t.Fatalf("expected probe after reset timeout")
	}
	if cb.State() != CircuitStateHalfOpen {
		t.Fatalf("expected HALF_OPEN, got %s", cb.State())
	}
	if cb.Allow() {
		t.Fatalf("only one probe may run at a time")
	}

	cb.RecordSuccess()
	if cb.State() != CircuitStateClosed || !cb.Allow() {
		t.Fatalf("successful probe should close the breaker")
	}
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("report", 3, time.Minute, zap.NewNop()).WithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	now = now.Add(2 * time.Minute)
	if !cb.Allow() {
		t.Fatalf("expected probe")
	}
	cb.RecordFailure()
	if cb.State() != CircuitStateOpen || cb.Allow() {
		t.Fatalf("failed probe should reopen the breaker")
	}

	cb.Reset()
	if !cb.Allow() {
		t.Fatalf("reset breaker should allow calls")
	}
}
