package config

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Metrics register with the process-global default registry, so every test
// constructs its instance under a distinct component name.

func TestNewConfigMetrics(t *testing.T) {
	metrics := NewConfigMetrics("test_new")

	assert.NotNil(t, metrics.LoadTimestamp)
	assert.NotNil(t, metrics.ValidationErrorsTotal)
	assert.NotNil(t, metrics.FallbacksTotal)
	assert.NotNil(t, metrics.FallbackActive)
	assert.Equal(t, "test_new", metrics.componentName)
}

func TestRecordLoadTimestamp(t *testing.T) {
	metrics := NewConfigMetrics("test_load_ts")

	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.LoadTimestamp))

	metrics.RecordLoadTimestamp()

	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
}

func TestRecordValidationError(t *testing.T) {
	metrics := NewConfigMetrics("test_validation")

	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("timezone")

	assert.Equal(t, float64(2),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("timezone")))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("run_timeout")))
}

func TestRecordFallback(t *testing.T) {
	metrics := NewConfigMetrics("test_fallback")

	metrics.RecordFallback("cron_schedule", "default")
	metrics.RecordFallback("cron_schedule", "default")
	metrics.RecordFallback("run_timeout", "default")

	// The fallback type is call-site context only; the counter keys on field.
	assert.Equal(t, float64(2),
		testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("run_timeout")))
}

func TestSetFallbackActive(t *testing.T) {
	metrics := NewConfigMetrics("test_fallback_active")

	metrics.SetFallbackActive("cron_schedule", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))

	metrics.SetFallbackActive("cron_schedule", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))

	// Repeated sets to the same value hold.
	metrics.SetFallbackActive("", true)
	metrics.SetFallbackActive("", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
}

func TestConfigMetrics_FailOpenLoadScenario(t *testing.T) {
	metrics := NewConfigMetrics("test_scenario")

	// A load where two fields were rejected and replaced by defaults.
	metrics.RecordLoadTimestamp()
	for _, field := range []string{"cron_schedule", "run_timeout"} {
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
	}
	metrics.SetFallbackActive("multiple", true)

	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
	for _, field := range []string{"cron_schedule", "run_timeout"} {
		assert.Equal(t, float64(1),
			testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues(field)), field)
		assert.Equal(t, float64(1),
			testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues(field)), field)
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
}

func TestConfigMetrics_CleanLoadScenario(t *testing.T) {
	metrics := NewConfigMetrics("test_clean")

	metrics.RecordLoadTimestamp()
	metrics.SetFallbackActive("", false)

	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}

func TestConfigMetrics_ConcurrentRecording(t *testing.T) {
	metrics := NewConfigMetrics("test_concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordLoadTimestamp()
			metrics.RecordValidationError("cron_schedule")
			metrics.RecordFallback("cron_schedule", "default")
			metrics.SetFallbackActive("cron_schedule", true)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(10),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(10),
		testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
}
