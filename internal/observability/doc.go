// Package observability holds the logging, metrics, and tracing plumbing
// shared by the worker and the one-shot pipeline command.
//
// Subpackages:
//   - logging: slog constructors plus run-ID propagation through context
//   - metrics: Prometheus recorders for per-source, reconciliation, storage,
//     and ledger activity
//   - slo: gauges tracking the pipeline's service-level objectives
//   - tracing: OpenTelemetry tracer for spans across pipeline stages
//
// Example:
//
//	logger := logging.NewLogger()
//	ctx := logging.ContextWithRunID(context.Background(), runID)
//	logging.WithRunID(ctx, logger).Info("run started")
//
//	metrics.RecordSourceProcessed("pubmed", 10, 9, 1, elapsed)
package observability
