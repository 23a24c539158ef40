// Package pipeline orchestrates one full run: bronze pushes of the raw
// files, silver ingestion of every source, gold reconciliation, and the run
// report. Scheduling lives in the caller; this package is one synchronous
// run from raw files to persisted gold document.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/observability/logging"
	"drug-pipeline/internal/observability/metrics"
	"drug-pipeline/internal/observability/tracing"
	"drug-pipeline/internal/repository"
	"drug-pipeline/internal/usecase/ingest"
	"drug-pipeline/internal/usecase/reconcile"
)

// Buckets names the three staging areas of a run.
type Buckets struct {
	Bronze string
	Silver string
	Gold   string
}

// Service wires the two stage services and the storage/ledger boundaries
// into one runnable pipeline.
type Service struct {
	Ingest    ingest.Service
	Reconcile reconcile.Service
	Store     repository.ObjectStore
	Runs      repository.RunRepository

	Sources    []ingest.Source
	Buckets    Buckets
	GoldObject string
}

// Run executes one pipeline run end to end and returns its report. The
// report is recorded in the run ledger best-effort: a ledger failure is
// logged, never turned into a run failure.
//
// A decode fault in one source does not stop the remaining sources from
// being ingested, and their partitions still land in the silver bucket. It
// does fail the run before the gold stage, which needs every source's valid
// set.
func (s *Service) Run(ctx context.Context) (*entity.RunReport, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.run")
	defer span.End()

	report := &entity.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	span.SetAttributes(attribute.String("run_id", report.RunID))
	ctx = logging.ContextWithRunID(ctx, report.RunID)
	logger := logging.WithRunID(ctx, slog.Default())
	logger.Info("pipeline run started", slog.Int("sources", len(s.Sources)))

	if err := s.pushBronze(ctx); err != nil {
		return s.finish(ctx, logger, report, fmt.Errorf("bronze stage: %w", err))
	}

	results, err := s.runSilver(ctx, logger, report)
	if err != nil {
		return s.finish(ctx, logger, report, fmt.Errorf("silver stage: %w", err))
	}

	drugs, pubmed, clinical := gatherValid(results)
	goldStats, _, err := s.Reconcile.Run(ctx, drugs, pubmed, clinical, s.Buckets.Gold, s.GoldObject)
	if err != nil {
		return s.finish(ctx, logger, report, fmt.Errorf("gold stage: %w", err))
	}
	report.DrugsReconciled = goldStats.Drugs
	report.MentionsMatched = goldStats.MentionsMatched

	return s.finish(ctx, logger, report, nil)
}

// pushBronze uploads each raw file unchanged to the bronze bucket under
// <kind>/<filename>, the source of truth for the run.
func (s *Service) pushBronze(ctx context.Context) error {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.bronze")
	defer span.End()

	for _, src := range s.Sources {
		object := fmt.Sprintf("%s/%s", src.Kind, filepath.Base(src.Path))
		if err := s.Store.Upload(ctx, s.Buckets.Bronze, object, src.Path); err != nil {
			return fmt.Errorf("upload %s: %w", object, err)
		}
	}
	return nil
}

// runSilver ingests every configured source. One source's failure is logged
// and counted but does not stop the others; the first failure is returned
// after the loop so the caller can abort before gold.
func (s *Service) runSilver(ctx context.Context, logger *slog.Logger, report *entity.RunReport) ([]*ingest.Result, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.silver")
	defer span.End()

	results := make([]*ingest.Result, 0, len(s.Sources))
	var firstErr error
	for _, src := range s.Sources {
		result, err := s.Ingest.ProcessSource(ctx, src, s.Buckets.Silver)
		if err != nil {
			logger.Error("source ingestion failed",
				slog.String("source", src.Name),
				slog.Any("error", err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		report.Sources = append(report.Sources, result.Report)
		results = append(results, result)
	}
	return results, firstErr
}

// gatherValid splits silver results into the three reconciliation inputs.
// The PubMed union is ordered JSON-origin first, then CSV-origin, matching
// the order the two feeds have always been concatenated in.
func gatherValid(results []*ingest.Result) (drugs []entity.Drug, pubmed, clinical []entity.Mention) {
	var pubmedCSV []entity.Mention
	for _, r := range results {
		switch r.Report.Kind {
		case entity.SchemaDrugs:
			drugs = append(drugs, r.Drugs...)
		case entity.SchemaPubMed:
			if r.Report.Origin == entity.OriginPubMedCSV {
				pubmedCSV = append(pubmedCSV, r.Mentions...)
			} else {
				pubmed = append(pubmed, r.Mentions...)
			}
		case entity.SchemaClinicalTrials:
			clinical = append(clinical, r.Mentions...)
		}
	}
	pubmed = append(pubmed, pubmedCSV...)
	return drugs, pubmed, clinical
}

// finish closes out the report, records it, and emits the run summary.
func (s *Service) finish(ctx context.Context, logger *slog.Logger, report *entity.RunReport, runErr error) (*entity.RunReport, error) {
	report.FinishedAt = time.Now()
	report.Status = entity.RunSucceeded
	if runErr != nil {
		report.Status = entity.RunFailed
		report.Error = runErr.Error()
	}
	duration := report.FinishedAt.Sub(report.StartedAt)
	metrics.RecordPipelineRun(string(report.Status), duration)

	// Ledger writes survive run cancellation; the report is worth keeping
	// precisely when the run was interrupted.
	if err := s.Runs.Record(context.WithoutCancel(ctx), report); err != nil {
		logger.Warn("failed to record run report", slog.Any("error", err))
	}

	if runErr != nil {
		logger.Error("pipeline run failed",
			slog.String("status", string(report.Status)),
			slog.Int("valid_records", report.TotalValid()),
			slog.Int("invalid_records", report.TotalInvalid()),
			slog.Duration("duration", duration),
			slog.Any("error", runErr))
		return report, runErr
	}

	logger.Info("pipeline run completed",
		slog.String("status", string(report.Status)),
		slog.Int("valid_records", report.TotalValid()),
		slog.Int("invalid_records", report.TotalInvalid()),
		slog.Int("drugs_reconciled", report.DrugsReconciled),
		slog.Int("mentions_matched", report.MentionsMatched),
		slog.Duration("duration", duration),
	)
	return report, nil
}
