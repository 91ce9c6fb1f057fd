package mysql

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "dokon/internal/errors"
)

const (
	errDeadlock        = 1213
	errLockWaitTimeout = 1205
)

// backoffs are the base waits before attempts 2, 3, ...; the last entry repeats.
var backoffs = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

// IsRetryable reports whether err is a deadlock or a lock wait timeout.
func IsRetryable(err error) bool {
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}

// Retry runs fn up to attempts times while it fails with a retryable lock
// error, sleeping with jittered backoff in between. Exhaustion yields a
// DeadlockError; any other error is returned as is.
func Retry[T any](ctx context.Context, attempts int, logger *zap.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		wait := jitter(backoffs[min(attempt-1, len(backoffs)-1)])
		logger.Warn("lock conflict detected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", attempts),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}

	return zero, apperrors.NewDeadlockError("max retries exceeded")
}

// jitter spreads d by ±20%.
func jitter(d time.Duration) time.Duration {
	factor := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(d) * factor)
}
