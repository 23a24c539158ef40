package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	if cb.Name() != "test-circuit" {
		t.Errorf("Name() = %q, want test-circuit", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("initial state = %v, want closed", cb.State())
	}
}

func TestExecute_PassesThroughResultAndError(t *testing.T) {
	cb := New(testConfig())

	result, err := cb.Execute(func() (interface{}, error) {
		return "payload", nil
	})
	if err != nil || result != "payload" {
		t.Errorf("Execute = (%v, %v), want (payload, nil)", result, err)
	}

	wantErr := errors.New("bucket unavailable")
	result, err = cb.Execute(func() (interface{}, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("one failure must not trip the breaker, state = %v", cb.State())
	}
}

func TestExecute_TripsAtFailureThreshold(t *testing.T) {
	cb := New(testConfig())
	failure := errors.New("bucket unavailable")

	// 4 failures + 1 success = 80% over 5 requests, at or above the 60%
	// threshold once MinRequests is met; the 6th call's failure trips it.
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, failure })
	}
	if _, err := cb.Execute(func() (interface{}, error) { return "ok", nil }); err != nil {
		t.Fatalf("success call err=%v", err)
	}
	_, _ = cb.Execute(func() (interface{}, error) { return nil, failure })

	if !cb.IsOpen() {
		t.Fatalf("state = %v, want open", cb.State())
	}

	// While open, Execute must not invoke the function at all.
	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("function called while circuit open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
}

func TestExecute_StaysClosedBelowMinRequests(t *testing.T) {
	cfg := testConfig()
	cfg.FailureThreshold = 0.5
	cfg.MinRequests = 10
	cb := New(cfg)

	// 100% failure rate, but only 4 samples.
	failure := errors.New("bucket unavailable")
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, failure })
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed below MinRequests", cb.State())
	}
}

func TestExecute_RecoversThroughHalfOpen(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequests = 2
	cfg.Timeout = 100 * time.Millisecond
	cb := New(cfg)

	failure := errors.New("bucket unavailable")
	for i := 0; i < 6; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, failure })
	}
	if !cb.IsOpen() {
		t.Fatalf("state = %v, want open", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	if _, err := cb.Execute(func() (interface{}, error) { return "ok", nil }); err != nil {
		t.Fatalf("half-open probe err=%v", err)
	}
	if cb.IsOpen() {
		t.Errorf("state = %v after successful probe, want not open", cb.State())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("ledger")

	if cfg.Name != "ledger" {
		t.Errorf("Name = %q, want ledger", cfg.Name)
	}
	if cfg.Timeout != 60*time.Second || cfg.Interval != 30*time.Second {
		t.Errorf("timing = (%v, %v), want (60s, 30s)", cfg.Timeout, cfg.Interval)
	}
	if cfg.FailureThreshold != 0.6 || cfg.MinRequests != 5 || cfg.MaxRequests != 3 {
		t.Errorf("trip condition = (%.1f, %d, %d), want (0.6, 5, 3)",
			cfg.FailureThreshold, cfg.MinRequests, cfg.MaxRequests)
	}
}

func TestStorageConfig(t *testing.T) {
	cfg := StorageConfig()

	if cfg.Name != "object-storage" {
		t.Errorf("Name = %q, want object-storage", cfg.Name)
	}
	if cfg.FailureThreshold != 0.6 || cfg.MinRequests != 5 {
		t.Errorf("trip condition = (%.1f, %d), want (0.6, 5)",
			cfg.FailureThreshold, cfg.MinRequests)
	}
}
