// Package main provides a CLI command for running the ingestion pipeline once.
// Usage: drug-pipeline-run [--config path] [--timeout 30m] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"drug-pipeline/internal/config"
	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/infra/adapter/persistence/noop"
	pgRepo "drug-pipeline/internal/infra/adapter/persistence/postgres"
	"drug-pipeline/internal/infra/db"
	"drug-pipeline/internal/infra/decode"
	"drug-pipeline/internal/infra/storage"
	"drug-pipeline/internal/repository"
	"drug-pipeline/internal/usecase/ingest"
	"drug-pipeline/internal/usecase/pipeline"
	"drug-pipeline/internal/usecase/reconcile"
	pkgconfig "drug-pipeline/pkg/config"
)

func main() {
	// Parse command-line arguments
	var (
		configPath   string
		timeout      time.Duration
		outputFormat string
	)

	flag.StringVar(&configPath, "config", "", "Pipeline configuration file (default: $PIPELINE_CONFIG or config/pipeline.yaml)")
	flag.DurationVar(&timeout, "timeout", 30*time.Minute, "Maximum duration for the run")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	if configPath == "" {
		configPath = pkgconfig.GetEnvString("PIPELINE_CONFIG", "config/pipeline.yaml")
	}
	if timeout <= 0 {
		fmt.Fprintf(os.Stderr, "Warning: timeout %v is not positive, using default 30m\n", timeout)
		timeout = 30 * time.Minute
	}

	// Initialize logger
	logger := initLogger()

	// Load pipeline configuration
	pipelineConfig, err := config.LoadPipeline(configPath)
	if err != nil {
		logger.Error("failed to load pipeline configuration",
			slog.String("path", configPath),
			slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load pipeline configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Connect the run ledger when configured
	runs, ledgerCleanup, err := openRunLedger(logger, pipelineConfig)
	if err != nil {
		logger.Error("failed to open run ledger", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to open run ledger: %v\n", err)
		os.Exit(1)
	}
	defer ledgerCleanup()

	// Initialize object storage
	store, err := openObjectStore(ctx, pipelineConfig)
	if err != nil {
		logger.Error("failed to create object store", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to create object store: %v\n", err)
		os.Exit(1)
	}

	svc := buildPipelineService(pipelineConfig, store, runs)

	logger.Info("running pipeline",
		slog.String("config", configPath),
		slog.Int("sources", len(pipelineConfig.Sources)),
		slog.String("storage_backend", pipelineConfig.Storage.Backend),
		slog.Duration("timeout", timeout))

	report, err := svc.Run(ctx)
	if err != nil {
		logger.Error("pipeline run failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Pipeline run failed: %v\n", err)
		os.Exit(1)
	}

	// Output the run report
	if outputFormat == "json" {
		outputJSON(report)
	} else {
		outputText(report)
	}
}

// openRunLedger connects the configured run ledger, or returns the no-op
// repository when no DSN is set. The cleanup function closes the connection.
func openRunLedger(logger *slog.Logger, pipelineConfig *config.Pipeline) (repository.RunRepository, func(), error) {
	dsn := pipelineConfig.LedgerDSN()
	if dsn == "" {
		return noop.NewRunRepo(), func() {}, nil
	}

	database := db.Open(dsn)
	if err := db.MigrateUp(database); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("migrate run ledger schema: %w", err)
	}

	cleanup := func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	return pgRepo.NewRunRepo(database), cleanup, nil
}

// openObjectStore builds the configured storage backend wrapped in the
// shared resilience stack.
func openObjectStore(ctx context.Context, pipelineConfig *config.Pipeline) (repository.ObjectStore, error) {
	var inner repository.ObjectStore
	switch pipelineConfig.Storage.Backend {
	case "gcs":
		gcsStore, err := storage.NewGCS(ctx, pipelineConfig.Storage.CredentialsFile)
		if err != nil {
			return nil, err
		}
		inner = gcsStore
	default:
		inner = storage.NewLocal(pipelineConfig.Storage.LocalRoot)
	}

	return storage.NewResilient(inner, pipelineConfig.Storage.Backend,
		pipelineConfig.Storage.OpsPerSecond, pipelineConfig.Storage.Burst), nil
}

// buildPipelineService wires the stage services, storage and ledger into one
// runnable pipeline.
func buildPipelineService(pipelineConfig *config.Pipeline, store repository.ObjectStore, runs repository.RunRepository) *pipeline.Service {
	records := &decode.FileSource{LenientJSON: pipelineConfig.LenientJSON()}

	sources := make([]ingest.Source, 0, len(pipelineConfig.Sources))
	for _, sc := range pipelineConfig.Sources {
		sources = append(sources, ingest.Source{
			Name:   sc.Name,
			Kind:   entity.SchemaKind(sc.Kind),
			Origin: sc.Origin(),
			Path:   sc.Path,
			Format: entity.SourceFormat(sc.Format),
		})
	}

	return &pipeline.Service{
		Ingest:    ingest.NewService(records, store),
		Reconcile: reconcile.NewService(store, pipelineConfig.Reconcile.Parallelism),
		Store:     store,
		Runs:      runs,
		Sources:   sources,
		Buckets: pipeline.Buckets{
			Bronze: pipelineConfig.Buckets.Bronze,
			Silver: pipelineConfig.Buckets.Silver,
			Gold:   pipelineConfig.Buckets.Gold,
		},
		GoldObject: pipelineConfig.GoldObject,
	}
}

// outputText prints the run report in human-readable format.
func outputText(report *entity.RunReport) {
	fmt.Printf("Pipeline Run: %s\n", report.RunID)
	fmt.Printf("Status: %s\n", report.Status)
	fmt.Printf("Duration: %s\n\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	fmt.Println("Sources:")
	for i, src := range report.Sources {
		fmt.Printf("%d. %s (%s", i+1, src.Name, src.Kind)
		if src.Origin != "" {
			fmt.Printf(", %s", src.Origin)
		}
		fmt.Printf(")\n")
		fmt.Printf("   Decoded: %d, Valid: %d, Invalid: %d\n", src.Decoded, src.Valid, src.Invalid)
	}
	fmt.Println()

	fmt.Printf("Drugs reconciled: %d\n", report.DrugsReconciled)
	fmt.Printf("Mentions matched: %d\n", report.MentionsMatched)
}

// outputJSON prints the run report in JSON format.
func outputJSON(report *entity.RunReport) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// initLogger initializes and returns a structured logger.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
