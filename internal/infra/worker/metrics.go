package worker

import (
	"drug-pipeline/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics bundles the worker's Prometheus metrics: the embedded
// fail-open configuration metrics (worker_config_*) plus counters tracking
// the scheduled pipeline runs themselves.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts scheduled runs by status (success/failure).
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds is the run duration histogram. Buckets span
	// one second to the 30 minute run timeout.
	CronJobDurationSeconds prometheus.Histogram

	// CronJobSourcesProcessedTotal accumulates sources ingested across runs.
	CronJobSourcesProcessedTotal prometheus.Counter

	// CronJobLastSuccessTimestamp is the Unix time of the last clean run.
	// Alerting on its age catches a worker that is alive but never succeeds.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics builds the worker metric set. promauto registers each
// metric with the default registry at construction, so this must run once
// per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		CronJobSourcesProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_sources_processed_total",
			Help: "Total number of sources ingested across all cron job runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// MustRegister is a no-op kept so the startup sequence reads like the other
// components'; promauto already registered everything in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun counts one run under status ("success" or "failure").
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's wall-clock duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordSourcesProcessed adds the run's ingested source count to the total.
func (m *WorkerMetrics) RecordSourcesProcessed(count int) {
	m.CronJobSourcesProcessedTotal.Add(float64(count))
}

// RecordLastSuccess marks now as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
