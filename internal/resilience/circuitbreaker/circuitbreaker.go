// Package circuitbreaker wraps the pipeline's external calls, bucket
// operations and run-ledger statements, in gobreaker circuit breakers.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the settings for one circuit breaker.
type Config struct {
	// Name identifies the breaker in logs.
	Name string
	// MaxRequests caps probe requests while half-open.
	MaxRequests uint32
	// Interval is how often the closed-state failure counts reset.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips the breaker,
	// e.g. 0.6 trips at a 60% failure rate.
	FailureThreshold float64
	// MinRequests is the sample size required before the ratio is applied.
	MinRequests uint32
}

// DefaultConfig returns general-purpose breaker settings under name.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// StorageConfig returns the breaker settings for object storage calls. A
// run issues a burst of bucket operations back to back, so the window is
// short and the breaker trips only on a sustained failure rate.
func StorageConfig() Config {
	return DefaultConfig("object-storage")
}

// CircuitBreaker wraps gobreaker.CircuitBreaker and logs state transitions.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New builds a breaker from cfg. State transitions are logged at warn level
// so an open breaker shows up next to the failures that tripped it.
func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:          cfg.Name,
			MaxRequests:   cfg.MaxRequests,
			Interval:      cfg.Interval,
			Timeout:       cfg.Timeout,
			ReadyToTrip:   tripAtRatio(cfg.FailureThreshold, cfg.MinRequests),
			OnStateChange: logStateChange,
		}),
	}
}

func tripAtRatio(threshold float64, minRequests uint32) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < minRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold
	}
}

func logStateChange(name string, from, to gobreaker.State) {
	slog.Warn("circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

// Execute runs fn through the breaker, returning gobreaker.ErrOpenState
// without calling fn while the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the breaker's name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether the breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
