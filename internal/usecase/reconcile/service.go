package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/observability/logging"
	"drug-pipeline/internal/observability/metrics"
	"drug-pipeline/internal/observability/tracing"
	"drug-pipeline/internal/repository"
)

// Service runs the gold stage end to end: parallel reconciliation over the
// drug set, assembly, and persistence of the encoded document.
type Service struct {
	Store       repository.ObjectStore
	Parallelism int
}

// NewService creates a gold-stage service writing through store with the
// given reconciliation parallelism.
func NewService(store repository.ObjectStore, parallelism int) Service {
	return Service{Store: store, Parallelism: parallelism}
}

// Stats contains statistics about one gold-stage run.
type Stats struct {
	Drugs           int
	MentionsMatched int
	DocumentBytes   int
	Duration        time.Duration
}

// Run reconciles drugs against the pubmed and clinical mention sets and
// persists the result document to bucket/object. The results slice is
// returned alongside the stats so the caller can report per-drug outcomes.
func (s *Service) Run(ctx context.Context, drugs []entity.Drug, pubmed, clinical []entity.Mention, bucket, object string) (*Stats, []entity.ReconciliationResult, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.gold")
	defer span.End()

	start := time.Now()
	stats := &Stats{Drugs: len(drugs)}

	results, err := All(ctx, drugs, pubmed, clinical, s.Parallelism)
	if err != nil {
		return nil, nil, fmt.Errorf("reconcile drugs: %w", err)
	}
	assembled := Assemble(results)
	for _, r := range assembled {
		stats.MentionsMatched += len(r.Mentions)
	}

	data, err := EncodeResults(assembled)
	if err != nil {
		return nil, nil, fmt.Errorf("encode results: %w", err)
	}
	stats.DocumentBytes = len(data)

	if err := s.Store.Put(ctx, bucket, object, data); err != nil {
		return nil, nil, fmt.Errorf("persist gold document %s/%s: %w", bucket, object, err)
	}

	stats.Duration = time.Since(start)
	metrics.RecordReconciliation(stats.Drugs, stats.MentionsMatched, stats.Duration)
	span.SetAttributes(
		attribute.Int("drugs", stats.Drugs),
		attribute.Int("mentions_matched", stats.MentionsMatched),
		attribute.Int("document_bytes", stats.DocumentBytes),
	)

	logging.WithRunID(ctx, slog.Default()).Info("gold stage completed",
		slog.Int("drugs", stats.Drugs),
		slog.Int("mentions_matched", stats.MentionsMatched),
		slog.Int("document_bytes", stats.DocumentBytes),
		slog.String("object", object),
		slog.Duration("duration", stats.Duration),
	)
	return stats, assembled, nil
}
