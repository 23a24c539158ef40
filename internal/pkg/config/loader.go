package config

import (
	"fmt"
	"os"
	"time"
)

// ConfigLoadResult is the outcome of loading one configuration value. The
// loaders in this package never fail: a value that does not parse or does
// not validate is replaced by the caller's default, the substitution is
// flagged, and a human-readable warning explains what was rejected. The
// worker logs the warnings and keeps running; a typo in an env var must not
// take the scheduled pipeline down.
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString reads a string from envKey, returning defaultValue when the
// variable is unset or empty. No validation, no fallback bookkeeping; use
// LoadEnvWithFallback when the value has a shape worth checking.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback reads a string from envKey and checks it with
// validator (nil skips the check). An unset variable silently yields the
// default; a set-but-invalid value yields the default with a warning and
// FallbackApplied set.
//
//	result := LoadEnvWithFallback("CRON_SCHEDULE", "30 5 * * *", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return ConfigLoadResult{
				Value: defaultValue,
				Warnings: []string{fmt.Sprintf(
					"Invalid %s='%s': %v, falling back to default '%s'",
					envKey, value, err, defaultValue,
				)},
				FallbackApplied: true,
			}
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration reads a Go duration string ("30s", "1h30m") from envKey,
// parses it, and checks it with validator (nil skips the check). Both a
// parse failure and a validation failure fall back to defaultValue with a
// warning; an unset variable yields the default silently.
//
//	result := LoadEnvDuration("RUN_TIMEOUT", 30*time.Minute, ValidatePositiveDuration)
//	timeout := result.Value.(time.Duration)
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return ConfigLoadResult{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': %v, falling back to default '%v'",
				envKey, valueStr, err, defaultValue,
			)},
			FallbackApplied: true,
		}
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return ConfigLoadResult{
				Value: defaultValue,
				Warnings: []string{fmt.Sprintf(
					"Invalid %s='%s': %v, falling back to default '%v'",
					envKey, valueStr, err, defaultValue,
				)},
				FallbackApplied: true,
			}
		}
	}

	return ConfigLoadResult{Value: parsed}
}

// LoadEnvInt reads an integer from envKey and checks it with validator (nil
// skips the check), falling back to defaultValue with a warning on a parse
// or validation failure. An unset variable yields the default silently.
//
//	result := LoadEnvInt("WORKER_HEALTH_PORT", 9091, func(v int) error {
//	    return ValidateIntRange(v, 1024, 65535)
//	})
//	port := result.Value.(int)
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	var parsed int
	if _, err := fmt.Sscanf(valueStr, "%d", &parsed); err != nil {
		return ConfigLoadResult{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': invalid integer format, falling back to default '%d'",
				envKey, valueStr, defaultValue,
			)},
			FallbackApplied: true,
		}
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return ConfigLoadResult{
				Value: defaultValue,
				Warnings: []string{fmt.Sprintf(
					"Invalid %s='%s': %v, falling back to default '%d'",
					envKey, valueStr, err, defaultValue,
				)},
				FallbackApplied: true,
			}
		}
	}

	return ConfigLoadResult{Value: parsed}
}

// LoadEnvBool reads a boolean from envKey. Accepted spellings match
// strconv.ParseBool: "1"/"t"/"T"/"true"/"TRUE"/"True" and their false
// counterparts. Anything else falls back to defaultValue with a warning;
// an unset variable yields the default silently.
//
//	result := LoadEnvBool("RUN_ON_START", false)
//	runOnStart := result.Value.(bool)
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	var parsed bool
	switch valueStr {
	case "1", "t", "T", "true", "TRUE", "True":
		parsed = true
	case "0", "f", "F", "false", "FALSE", "False":
		parsed = false
	default:
		return ConfigLoadResult{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': invalid boolean format, expected 'true' or 'false', falling back to default '%t'",
				envKey, valueStr, defaultValue,
			)},
			FallbackApplied: true,
		}
	}

	return ConfigLoadResult{Value: parsed}
}
