package resilient

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// retryConfig holds the retry policy values extracted from config.RetryConfig.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// withRetry runs fn until it succeeds, fails with a non-retryable error, or
// the attempt budget is spent. Only unavailable-store failures are retried.
func (s *Store) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	attempts := max(s.retryCfg.maxAttempts, 1)

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			if err := s.waitForRetry(ctx, op, attempt, lastErr); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if !isRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// waitForRetry logs the retry attempt at WARN level and waits for the backoff
// delay or context cancellation.
func (s *Store) waitForRetry(ctx context.Context, op string, attempt int, lastErr error) error {
	delay := backoff(attempt, s.retryCfg)

	logging.FromContext(ctx).WarnContext(ctx, "retrying store operation",
		slog.String("operation", "store."+op),
		slog.String("driver", s.driver),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", s.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff calculates the delay for a given retry attempt using exponential
// backoff with ±25% jitter. The attempt parameter is 1-indexed (attempt 1 is
// the first retry).
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))

	if delay > float64(cfg.maxInterval) {
		delay = float64(cfg.maxInterval)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

// isRetryable reports whether a failed store call is worth repeating.
// Context errors and domain outcomes (not found, validation) are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, domain.ErrUnavailable)
}

// isDomainOutcome reports whether err is an expected business result rather
// than a store failure. Such errors never count against the circuit breaker.
func isDomainOutcome(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrConflict)
}
