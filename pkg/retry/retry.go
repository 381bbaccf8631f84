// pkg/retry/retry.go - functions for retrying actions with exponential backoff.

package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sdporres/wdssupermenu/pkg/logging"
)

// NonRetryableError interface for errors that should not be retried
type NonRetryableError interface {
	error
	NonRetryable() bool
}

type permanent struct {
	err error
}

func (p *permanent) Error() string      { return p.err.Error() }
func (p *permanent) Unwrap() error      { return p.err }
func (p *permanent) NonRetryable() bool { return true }

// Permanent marks err so Retry returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// RetryConfig defines the configuration for retry attempts
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
}

// Retry retries a given function with exponential backoff. It stops early when
// the context ends or the action returns a NonRetryableError.
func Retry(ctx context.Context, config RetryConfig, action func() error) error {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	interval := config.InitialInterval

	var lastErr error
	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		lastErr = action()
		if lastErr == nil {
			return nil
		}

		var nonRetryable NonRetryableError
		if errors.As(lastErr, &nonRetryable) && nonRetryable.NonRetryable() {
			logging.Debug("Non-retryable error encountered", "attempt", attempt, "error", lastErr)
			return lastErr
		}

		if attempt == config.MaxRetries {
			logging.Debug("Final attempt failed", "attempt", attempt, "max_attempts", config.MaxRetries, "error", lastErr)
			break
		}

		logging.Debug("Attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", config.MaxRetries,
			"retry_delay", interval.String(),
			"error", lastErr)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		case <-time.After(interval):
		}
		if config.Multiplier > 0 {
			interval = time.Duration(float64(interval) * config.Multiplier)
		}
	}

	return fmt.Errorf("action failed after %d attempts: %w", config.MaxRetries, lastErr)
}
