// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics track the silver stage per source
var (
	// RecordsDecodedTotal counts records decoded from raw source files
	RecordsDecodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_decoded_total",
			Help: "Total number of records decoded from raw source files",
		},
		[]string{"source"},
	)

	// RecordsValidTotal counts records that passed schema validation
	RecordsValidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_valid_total",
			Help: "Total number of records that passed schema validation",
		},
		[]string{"source"},
	)

	// RecordsInvalidTotal counts records routed to the invalid partition
	RecordsInvalidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_invalid_total",
			Help: "Total number of records routed to the invalid partition",
		},
		[]string{"source"},
	)

	// SourceIngestDuration measures time to ingest one source end to end
	SourceIngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_ingest_duration_seconds",
			Help:    "Time taken to decode, validate and persist one source",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"source"},
	)

	// SourceErrorsTotal counts source-level ingestion faults
	SourceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_errors_total",
			Help: "Total number of source-level ingestion faults",
		},
		[]string{"source", "error_type"},
	)
)

// Reconciliation metrics track the gold stage
var (
	// DrugsReconciledTotal counts drugs that produced a reconciliation result
	DrugsReconciledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drugs_reconciled_total",
			Help: "Total number of drugs reconciled against the mention sets",
		},
	)

	// MentionsMatchedTotal counts mention references emitted across all drugs
	MentionsMatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mentions_matched_total",
			Help: "Total number of mention references emitted across all drugs",
		},
	)

	// ReconciliationDuration measures one gold-stage pass over the drug set
	ReconciliationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconciliation_duration_seconds",
			Help:    "Time taken to reconcile the full drug set",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// Pipeline run metrics track whole runs
var (
	// PipelineRunsTotal counts completed runs by terminal status
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by status",
		},
		[]string{"status"},
	)

	// PipelineRunDuration measures full run duration by terminal status
	PipelineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"status"},
	)
)

// Storage metrics track the object-store boundary
var (
	// StorageOperationsTotal counts object-store calls by backend, op and result
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of object store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// StorageOperationDuration measures object-store call latency
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Object store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"backend", "operation"},
	)
)

// Database metrics track run-ledger database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
