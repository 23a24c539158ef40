// Package config holds plain environment getters for values that need no
// fallback bookkeeping. The worker's scheduling knobs go through the
// fail-open loaders in internal/pkg/config instead; these getters cover the
// rest (ports, file paths, pool sizes) and log a warning when a set value
// does not parse.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// warnUnparseable logs a set-but-unparseable value once, with the default
// that replaces it.
func warnUnparseable(key, raw string, def any, err error) {
	slog.Warn("environment value did not parse, using default",
		slog.String("key", key),
		slog.String("value", raw),
		slog.Any("default", def),
		slog.Any("error", err))
}

// GetEnvString returns the variable's value, or defaultValue when unset or
// empty. No parsing, no warning.
//
//	path := GetEnvString("PIPELINE_CONFIG", "config/pipeline.yaml")
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the variable parsed as an integer, or defaultValue with
// a warning when the set value does not parse. Unset is silent.
//
//	port := GetEnvInt("METRICS_PORT", 9090)
func GetEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		warnUnparseable(key, raw, defaultValue, err)
		return defaultValue
	}
	return v
}

// GetEnvBool returns the variable parsed as a boolean. Accepted spellings
// match strconv.ParseBool; anything else warns and returns defaultValue.
//
//	runOnStart := GetEnvBool("RUN_ON_START", false)
func GetEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		warnUnparseable(key, raw, defaultValue, err)
		return defaultValue
	}
	return v
}

// GetEnvDuration returns the variable parsed with time.ParseDuration
// ("30s", "1h30m"), or defaultValue with a warning when the set value does
// not parse.
//
//	lifetime := GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		warnUnparseable(key, raw, defaultValue.String(), err)
		return defaultValue
	}
	return v
}
