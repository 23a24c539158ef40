// Package retry implements exponential backoff with jitter for the
// pipeline's calls to object storage and the run ledger.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"google.golang.org/api/googleapi"
)

// Config holds the backoff schedule for one class of operation.
type Config struct {
	// MaxAttempts caps the total number of calls, the first one included.
	MaxAttempts int
	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration
	// Multiplier grows the delay after each attempt.
	Multiplier float64
	// JitterFraction is the random share (0.0 to 1.0) added to each delay.
	JitterFraction float64
}

// nextDelay advances the schedule one step: multiply, clamp, jitter.
func (c Config) nextDelay(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * c.Multiplier)
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	return addJitter(d, c.JitterFraction)
}

// DefaultConfig returns a general-purpose schedule: three attempts starting
// at one second.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// StorageConfig returns the schedule for object storage calls. Bucket
// writes gate the whole run, so transient faults get a few patient attempts
// before the run is declared failed.
func StorageConfig() Config {
	return Config{
		MaxAttempts:    4,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       15 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// DBConfig returns the schedule for run-ledger statements. The ledger write
// happens once at the end of a run, so retries are quick and few.
func DBConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       1 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// WithBackoff calls fn until it succeeds, a non-retryable error occurs, the
// context is done, or cfg.MaxAttempts is exhausted. The final error wraps
// the last failure.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("retry succeeded", slog.Int("attempt", attempt))
			}
			return nil
		}

		if !IsRetryable(err) {
			slog.Warn("giving up on non-retryable error",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		slog.Warn("retrying after transient error",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = cfg.nextDelay(delay)
	}
}

// IsRetryable reports whether err is a transient fault worth another
// attempt. Context cancellation is terminal; network timeouts, refused or
// reset connections, and GCS responses with 408, 429, or 5xx status are
// transient.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// googleapi.Error carries the HTTP status of the failed bucket call.
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500 && apiErr.Code < 600 ||
			apiErr.Code == http.StatusTooManyRequests ||
			apiErr.Code == http.StatusRequestTimeout
	}

	return false
}

// addJitter spreads concurrent retries apart so parallel source uploads do
// not hammer the bucket in lockstep.
func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	if fraction > 1.0 {
		fraction = 1.0
	}
	// #nosec G404 -- backoff jitter does not need cryptographic randomness.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
