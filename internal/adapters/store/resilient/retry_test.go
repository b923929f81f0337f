package resilient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
)

func TestBackoff_ExponentialIncrease(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     10 * time.Second,
		multiplier:      2.0,
	}

	const samples = 100
	for attempt := 1; attempt <= 3; attempt++ {
		baseDelay := float64(100*time.Millisecond) * math.Pow(2.0, float64(attempt-1))
		minExpected := time.Duration(baseDelay * (1 - jitterFraction))
		maxExpected := time.Duration(baseDelay * (1 + jitterFraction))

		for range samples {
			delay := backoff(attempt, cfg)
			if delay < minExpected || delay > maxExpected {
				t.Errorf("attempt %d: delay %v not in [%v, %v]", attempt, delay, minExpected, maxExpected)
			}
		}
	}
}

func TestBackoff_CappedAtMaxInterval(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		multiplier:      2.0,
	}

	maxWithJitter := time.Duration(float64(cfg.maxInterval) * (1 + jitterFraction))

	const samples = 100
	for range samples {
		if delay := backoff(10, cfg); delay > maxWithJitter {
			t.Errorf("delay %v exceeds max interval with jitter %v", delay, maxWithJitter)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", fmt.Errorf("neo4j store: %w", domain.ErrUnavailable), true},
		{"not found", domain.NotFoundError("todo", 1), false},
		{"validation", domain.ErrValidation, false},
		{"canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"unavailable after cancel", fmt.Errorf("%w: %w", domain.ErrUnavailable, context.Canceled), false},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsDomainOutcome(t *testing.T) {
	t.Parallel()

	if !isDomainOutcome(domain.NotFoundError("todo", 1)) {
		t.Error("not found should be a domain outcome")
	}
	if isDomainOutcome(domain.ErrUnavailable) {
		t.Error("unavailable should not be a domain outcome")
	}
}

func TestSecureRandFloat64_InRange(t *testing.T) {
	t.Parallel()

	for range 1000 {
		if v := secureRandFloat64(); v < 0 || v >= 1 {
			t.Fatalf("secureRandFloat64() = %v, want [0, 1)", v)
		}
	}
}

func TestToUint32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want uint32
	}{
		{-1, 0},
		{0, 0},
		{5, 5},
		{math.MaxUint32 + 1, math.MaxUint32},
	}
	for _, tt := range tests {
		if got := toUint32(tt.in); got != tt.want {
			t.Errorf("toUint32(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
