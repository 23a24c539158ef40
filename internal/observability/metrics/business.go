package metrics

import (
	"time"
)

// RecordSourceProcessed records the outcome of ingesting one source: how
// many records were decoded and how validation split them.
func RecordSourceProcessed(source string, decoded, valid, invalid int, duration time.Duration) {
	RecordsDecodedTotal.WithLabelValues(source).Add(float64(decoded))
	RecordsValidTotal.WithLabelValues(source).Add(float64(valid))
	RecordsInvalidTotal.WithLabelValues(source).Add(float64(invalid))
	SourceIngestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordSourceError records a source-level ingestion fault. ErrorType should
// name the failing step (e.g. "decode_failed", "persist_failed").
func RecordSourceError(source, errorType string) {
	SourceErrorsTotal.WithLabelValues(source, errorType).Inc()
}

// RecordReconciliation records one gold-stage pass: the number of drugs
// reconciled, mention references emitted, and the time taken.
func RecordReconciliation(drugs, mentions int, duration time.Duration) {
	DrugsReconciledTotal.Add(float64(drugs))
	MentionsMatchedTotal.Add(float64(mentions))
	ReconciliationDuration.Observe(duration.Seconds())
}

// RecordPipelineRun records a completed run. Status should be "succeeded" or
// "failed".
func RecordPipelineRun(status string, duration time.Duration) {
	PipelineRunsTotal.WithLabelValues(status).Inc()
	PipelineRunDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordStorageOperation records one object-store call. Operation should be
// the boundary method name (e.g. "put", "get", "upload").
func RecordStorageOperation(backend, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	StorageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	StorageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "insert_run", "select_run").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
