// Package tracing is the pipeline's OpenTelemetry entry point. Spans open at
// stage boundaries (bronze, silver, gold) and around object store and ledger
// calls, so one trace covers a full scheduled run:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.silver.source")
//	defer span.End()
//
// Exporter wiring is left to the environment; without a configured SDK the
// no-op provider applies and span creation costs nothing.
package tracing
