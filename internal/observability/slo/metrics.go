package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the pipeline.
// These targets are used to measure and monitor batch reliability.
const (
	// RunSuccessSLO defines the target ratio of succeeded pipeline runs
	// (0.99 at daily cadence allows roughly three failed runs per year)
	RunSuccessSLO = 0.99

	// RunDurationP95SLO defines the target for 95th percentile run duration in seconds (10 minutes)
	RunDurationP95SLO = 600.0

	// FreshnessSLO defines the maximum acceptable age of the gold document in seconds
	// (26 hours tolerates one delayed daily run)
	FreshnessSLO = 93600.0

	// InvalidRatioSLO defines the maximum acceptable ratio of invalid records per run (5%)
	InvalidRatioSLO = 0.05
)

// SLO tracking metrics
// These gauges are updated after each run (and periodically for freshness)
// to track whether the pipeline is meeting its SLO targets.
var (
	// SLORunSuccess tracks the current run success ratio (0-1)
	// calculated as: succeeded_runs / total_runs
	SLORunSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_run_success_ratio",
			Help: "Current pipeline run success ratio (0-1), target: 0.99",
		},
	)

	// SLORunDurationP95 tracks the current p95 run duration in seconds
	// calculated from the pipeline_run_duration_seconds histogram
	SLORunDurationP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_run_duration_p95_seconds",
			Help: "Current p95 pipeline run duration in seconds, target: 600",
		},
	)

	// SLOFreshness tracks seconds since the gold document was last rebuilt
	SLOFreshness = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_gold_freshness_seconds",
			Help: "Seconds since the last successful pipeline run, target: < 93600",
		},
	)

	// SLOInvalidRatio tracks the ratio of invalid records in the latest run (0-1)
	// calculated as: invalid_records / decoded_records
	SLOInvalidRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_invalid_record_ratio",
			Help: "Invalid record ratio of the latest run (0-1), target: < 0.05",
		},
	)
)

// UpdateRunSuccess updates the run success SLO metric.
// Call this after each run with the success ratio over the tracked window.
//
// Example calculation:
//
//	totalRuns := getTotalRunCount()
//	failedRuns := getFailedRunCount()
//	ratio := float64(totalRuns-failedRuns) / float64(totalRuns)
//	slo.UpdateRunSuccess(ratio)
func UpdateRunSuccess(ratio float64) {
	SLORunSuccess.Set(ratio)
}

// UpdateRunDurationP95 updates the p95 run duration SLO metric.
// Call this periodically with the calculated p95 duration in seconds.
//
// Example using Prometheus query:
//
//	histogram_quantile(0.95, rate(pipeline_run_duration_seconds_bucket[7d]))
func UpdateRunDurationP95(seconds float64) {
	SLORunDurationP95.Set(seconds)
}

// UpdateFreshness updates the gold freshness SLO metric.
// Call this periodically with the age of the last successful run.
//
// Example calculation:
//
//	slo.UpdateFreshness(time.Since(lastSuccess).Seconds())
func UpdateFreshness(seconds float64) {
	SLOFreshness.Set(seconds)
}

// UpdateInvalidRatio updates the invalid record ratio SLO metric.
// Call this after each run with the ratio from the run report.
//
// Example calculation:
//
//	decoded := report.TotalDecoded()
//	if decoded > 0 {
//	    slo.UpdateInvalidRatio(float64(report.TotalInvalid()) / float64(decoded))
//	}
func UpdateInvalidRatio(ratio float64) {
	SLOInvalidRatio.Set(ratio)
}
