package storage

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"drug-pipeline/internal/observability/metrics"
	"drug-pipeline/internal/repository"
	"drug-pipeline/internal/resilience/circuitbreaker"
	"drug-pipeline/internal/resilience/retry"
)

// Resilient decorates an ObjectStore with a token-bucket rate limit, retry
// with backoff, and a circuit breaker, recording a metric per operation.
// Every bucket operation of a run goes through one shared breaker, so a dead
// backend is detected once instead of once per object.
type Resilient struct {
	inner    repository.ObjectStore
	backend  string
	retryCfg retry.Config
	breaker  *circuitbreaker.CircuitBreaker
	limiter  *rate.Limiter
}

// NewResilient wraps inner. backend names the wrapped store in metrics and
// logs ("gcs", "local"). opsPerSecond and burst bound the sustained and peak
// operation rate against the backend.
func NewResilient(inner repository.ObjectStore, backend string, opsPerSecond float64, burst int) *Resilient {
	return NewResilientWithConfig(inner, backend, retry.StorageConfig(), circuitbreaker.StorageConfig(), opsPerSecond, burst)
}

// NewResilientWithConfig is NewResilient with explicit retry and breaker
// configuration.
func NewResilientWithConfig(inner repository.ObjectStore, backend string, retryCfg retry.Config, breakerCfg circuitbreaker.Config, opsPerSecond float64, burst int) *Resilient {
	return &Resilient{
		inner:    inner,
		backend:  backend,
		retryCfg: retryCfg,
		breaker:  circuitbreaker.New(breakerCfg),
		limiter:  rate.NewLimiter(rate.Limit(opsPerSecond), burst),
	}
}

// Put writes data through the resilience stack.
func (r *Resilient) Put(ctx context.Context, bucket, object string, data []byte) error {
	return r.do(ctx, "put", func() error {
		return r.inner.Put(ctx, bucket, object, data)
	})
}

// Get reads an object through the resilience stack.
func (r *Resilient) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	var data []byte
	err := r.do(ctx, "get", func() error {
		var innerErr error
		data, innerErr = r.inner.Get(ctx, bucket, object)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Upload pushes a local file through the resilience stack.
func (r *Resilient) Upload(ctx context.Context, bucket, object, localPath string) error {
	return r.do(ctx, "upload", func() error {
		return r.inner.Upload(ctx, bucket, object, localPath)
	})
}

// do runs one operation: each attempt first takes a rate limiter token, then
// passes through the breaker. A breaker in the open state fails the attempt
// with a non-retryable error, so the retry loop stops immediately.
func (r *Resilient) do(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	err := retry.WithBackoff(ctx, r.retryCfg, func() error {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		_, err := r.breaker.Execute(func() (interface{}, error) {
			return nil, fn()
		})
		return err
	})
	metrics.RecordStorageOperation(r.backend, operation, time.Since(start), err)
	return err
}
