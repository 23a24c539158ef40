package retry

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   10 * time.Millisecond,
		MaxDelay:       100 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff_FirstAttemptSucceeds(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("err = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestWithBackoff_TransientFaultRecovers(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return &googleapi.Error{Code: 503, Message: "Service Unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Errorf("err = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithBackoff_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	transient := &googleapi.Error{Code: 500, Message: "Internal Server Error"}
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return transient
	})

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !errors.Is(err, transient) {
		t.Errorf("err = %v, want it to wrap the last failure", err)
	}
}

func TestWithBackoff_NonRetryableAbortsImmediately(t *testing.T) {
	attempts := 0
	permanent := &googleapi.Error{Code: 404, Message: "Not Found"}
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return permanent
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 for a permanent error", attempts)
	}
	if err != permanent {
		t.Errorf("err = %v, want the original error unwrapped", err)
	}
}

func TestWithBackoff_StopsOnCanceledContext(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 5

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return &googleapi.Error{Code: 500, Message: "Internal Server Error"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "gcs 500", err: &googleapi.Error{Code: 500}, want: true},
		{name: "gcs 502", err: &googleapi.Error{Code: 502}, want: true},
		{name: "gcs 503", err: &googleapi.Error{Code: 503}, want: true},
		{name: "gcs 429 rate limit", err: &googleapi.Error{Code: 429}, want: true},
		{name: "gcs 408 timeout", err: &googleapi.Error{Code: 408}, want: true},
		{name: "gcs 400 bad request", err: &googleapi.Error{Code: 400}, want: false},
		{name: "gcs 404 missing object", err: &googleapi.Error{Code: 404}, want: false},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset", err: syscall.ECONNRESET, want: true},
		{name: "timed out", err: syscall.ETIMEDOUT, want: true},
		{name: "network unreachable", err: syscall.ENETUNREACH, want: true},
		{name: "plain error", err: errors.New("malformed record"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfigs(t *testing.T) {
	def := DefaultConfig()
	if def.MaxAttempts != 3 || def.InitialDelay != time.Second || def.MaxDelay != 30*time.Second {
		t.Errorf("DefaultConfig = %+v", def)
	}

	storage := StorageConfig()
	if storage.MaxAttempts != 4 || storage.InitialDelay != 500*time.Millisecond {
		t.Errorf("StorageConfig = %+v", storage)
	}

	db := DBConfig()
	if db.MaxAttempts != 3 || db.InitialDelay != 100*time.Millisecond || db.MaxDelay != time.Second {
		t.Errorf("DBConfig = %+v", db)
	}
}

func TestAddJitter(t *testing.T) {
	base := 100 * time.Millisecond

	if got := addJitter(base, 0); got != base {
		t.Errorf("addJitter with zero fraction = %v, want %v", got, base)
	}

	seen := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		got := addJitter(base, 0.2)
		if got < base || got > time.Duration(float64(base)*1.2) {
			t.Errorf("addJitter = %v, want within [%v, %v]", got, base, time.Duration(float64(base)*1.2))
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Error("jitter should vary across calls")
	}
}
