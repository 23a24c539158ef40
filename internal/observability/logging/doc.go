// Package logging wraps log/slog with the constructors and context helpers
// the pipeline components share: JSON output for deployments, text for
// local runs, and run-ID propagation so one scheduled run's entries can be
// pulled out of the combined stream.
//
//	logger := logging.NewLogger()
//	ctx = logging.ContextWithRunID(ctx, runID)
//	logging.WithRunID(ctx, logger).Info("silver stage finished")
package logging
