package worker

import (
	"fmt"
	"log/slog"
	"time"

	"drug-pipeline/internal/pkg/config"
)

// WorkerConfig holds the worker's scheduling knobs: when the pipeline runs,
// in which timezone, how long a run may take, and where the health server
// listens. Values come from the environment through the fail-open loaders,
// so a typo in a deployment manifest degrades to the defaults instead of
// keeping the worker down.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression, e.g. "30 5 * * *".
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string

	// RunTimeout cancels a pipeline run that exceeds it.
	RunTimeout time.Duration

	// HealthPort is the health server's listen port (1024-65535).
	HealthPort int
}

// DefaultConfig returns the production defaults: a daily 05:30 JST run with
// a 30 minute timeout, health on 9091.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "30 5 * * *",
		Timezone:     "Asia/Tokyo",
		RunTimeout:   30 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks every field and aggregates the failures so a broken
// deployment reports all of its problems at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv builds the worker configuration from the environment.
// Each field starts at its default, is overridden by its env var when set,
// and falls back to the default with a logged warning and a metrics bump
// when the set value is invalid. The error return is always nil; it exists
// so the call site reads like the other constructors.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression
//   - WORKER_TIMEZONE: IANA timezone name
//   - RUN_TIMEOUT: duration between 1m and 4h
//   - WORKER_HEALTH_PORT: port between 1024 and 65535
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	// note logs and counts one field's fallback.
	note := func(field, metricField string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(metricField)
		metrics.RecordFallback(metricField, "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	note("CronSchedule", "cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	note("Timezone", "timezone", result)

	result = config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = result.Value.(time.Duration)
	note("RunTimeout", "run_timeout", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	note("HealthPort", "health_port", result)

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
