// Package metrics holds the pipeline's Prometheus instrumentation: per-source
// ingestion counts, reconciliation results, storage and ledger latencies, and
// whole-run outcomes. Everything registers on the default registry via
// promauto and is scraped through the worker's /metrics endpoint.
//
// Recording goes through the Record* helpers so call sites stay one-liners:
//
//	start := time.Now()
//	// decode and validate the source's records
//	metrics.RecordSourceProcessed("pubmed", decoded, valid, invalid, time.Since(start))
package metrics
