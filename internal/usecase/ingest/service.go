package ingest

import (
	"context"
	"encoding/json"
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

// Source describes one raw source file to ingest. Name keys the persisted
// valid/error objects, so it must be unique across the run's sources;
// notably the two PubMed feeds share a kind but not a name.
type Source struct {
	Name   string
	Kind   entity.SchemaKind
	Origin entity.Origin
	Path   string
	Format entity.SourceFormat
}

// RecordSource loads a raw source file into decoded records.
type RecordSource interface {
	Load(ctx context.Context, path string, format entity.SourceFormat) ([]any, error)
}

// Service runs the silver stage for one source at a time: load, validate,
// persist both partitions.
type Service struct {
	Records RecordSource
	Store   repository.ObjectStore
}

// NewService creates a silver-stage service reading records through records
// and writing partitions through store.
func NewService(records RecordSource, store repository.ObjectStore) Service {
	return Service{Records: records, Store: store}
}

// Result is the outcome of ingesting one source. Exactly one of Drugs or
// Mentions is populated, matching the source's schema kind.
type Result struct {
	Report   entity.SourceReport
	Drugs    []entity.Drug
	Mentions []entity.Mention
}

// ProcessSource decodes src, partitions its records, and persists the valid
// set as <kind>/<name>_valid.json and the rejected raws as
// <kind>/<name>_error.json in bucket. Record-level validation failures only
// affect the partition; a file that cannot be decoded at all fails the
// source with an error wrapping entity.ErrMalformedInput.
func (s *Service) ProcessSource(ctx context.Context, src Source, bucket string) (*Result, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.silver.source")
	span.SetAttributes(attribute.String("source", src.Name))
	defer span.End()

	start := time.Now()

	raws, err := s.Records.Load(ctx, src.Path, src.Format)
	if err != nil {
		metrics.RecordSourceError(src.Name, "decode_failed")
		return nil, fmt.Errorf("load source %s: %w", src.Name, err)
	}

	result := &Result{Report: entity.SourceReport{
		Name:    src.Name,
		Kind:    src.Kind,
		Origin:  src.Origin,
		Decoded: len(raws),
	}}

	var invalid []any
	var validRecords []entity.RawRecord
	switch src.Kind {
	case entity.SchemaDrugs:
		result.Drugs, invalid = ValidateDrugs(raws)
		validRecords = drugRecords(result.Drugs)
	case entity.SchemaPubMed, entity.SchemaClinicalTrials:
		result.Mentions, invalid = ValidateMentions(raws, src.Origin)
		validRecords = mentionRecords(result.Mentions)
	default:
		return nil, fmt.Errorf("process source %s: unknown schema kind %q: %w", src.Name, src.Kind, entity.ErrInvalidInput)
	}
	result.Report.Valid = len(validRecords)
	result.Report.Invalid = len(invalid)

	if err := s.putJSON(ctx, bucket, validObject(src), validRecords); err != nil {
		metrics.RecordSourceError(src.Name, "persist_failed")
		return nil, fmt.Errorf("persist valid partition for %s: %w", src.Name, err)
	}
	if err := s.putJSON(ctx, bucket, errorObject(src), invalid); err != nil {
		metrics.RecordSourceError(src.Name, "persist_failed")
		return nil, fmt.Errorf("persist invalid partition for %s: %w", src.Name, err)
	}

	duration := time.Since(start)
	metrics.RecordSourceProcessed(src.Name, result.Report.Decoded, result.Report.Valid, result.Report.Invalid, duration)
	span.SetAttributes(
		attribute.Int("decoded", result.Report.Decoded),
		attribute.Int("valid", result.Report.Valid),
		attribute.Int("invalid", result.Report.Invalid),
	)

	logging.WithRunID(ctx, slog.Default()).Info("source ingested",
		slog.String("source", src.Name),
		slog.String("kind", string(src.Kind)),
		slog.Int("decoded", result.Report.Decoded),
		slog.Int("valid", result.Report.Valid),
		slog.Int("invalid", result.Report.Invalid),
		slog.Duration("duration", duration),
	)
	return result, nil
}

func (s *Service) putJSON(ctx context.Context, bucket, object string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", object, err)
	}
	return s.Store.Put(ctx, bucket, object, data)
}

func validObject(src Source) string {
	return fmt.Sprintf("%s/%s_valid.json", src.Kind, src.Name)
}

func errorObject(src Source) string {
	return fmt.Sprintf("%s/%s_error.json", src.Kind, src.Name)
}

func drugRecords(drugs []entity.Drug) []entity.RawRecord {
	records := make([]entity.RawRecord, 0, len(drugs))
	for _, d := range drugs {
		records = append(records, d.Record())
	}
	return records
}

func mentionRecords(mentions []entity.Mention) []entity.RawRecord {
	records := make([]entity.RawRecord, 0, len(mentions))
	for _, m := range mentions {
		records = append(records, m.Record())
	}
	return records
}
