package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"drug-pipeline/internal/config"
	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/infra/adapter/persistence/noop"
	pgRepo "drug-pipeline/internal/infra/adapter/persistence/postgres"
	"drug-pipeline/internal/infra/db"
	"drug-pipeline/internal/infra/decode"
	"drug-pipeline/internal/infra/storage"
	workerPkg "drug-pipeline/internal/infra/worker"
	obsmetrics "drug-pipeline/internal/observability/metrics"
	"drug-pipeline/internal/observability/slo"
	"drug-pipeline/internal/repository"
	"drug-pipeline/internal/usecase/ingest"
	"drug-pipeline/internal/usecase/pipeline"
	"drug-pipeline/internal/usecase/reconcile"
	pkgconfig "drug-pipeline/pkg/config"
)

func main() {
	logger := initLogger()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load pipeline configuration (YAML, fail-fast: a broken source list
	// would make every scheduled run fail)
	pipelineConfig := loadPipelineConfig(logger)

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	// Initialize the run ledger (optional: disabled without a DSN)
	runs, ledgerEnabled, ledgerCleanup := setupRunLedger(ctx, logger, pipelineConfig)
	defer ledgerCleanup()

	// Initialize object storage with the resilience stack
	store := createObjectStore(ctx, logger, pipelineConfig)

	svc := buildPipelineService(pipelineConfig, store, runs)

	// Start metrics HTTP server
	startMetricsServer(ctx, logger, runs, ledgerEnabled)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, runs)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	tracker := &runTracker{}
	startFreshnessLoop(ctx, tracker)

	startCronWorker(logger, svc, workerConfig, workerMetrics, healthServer, tracker)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadPipelineConfig loads and validates the pipeline YAML configuration.
// The path comes from PIPELINE_CONFIG (default: config/pipeline.yaml).
func loadPipelineConfig(logger *slog.Logger) *config.Pipeline {
	path := pkgconfig.GetEnvString("PIPELINE_CONFIG", "config/pipeline.yaml")

	pipelineConfig, err := config.LoadPipeline(path)
	if err != nil {
		logger.Error("failed to load pipeline configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("pipeline configuration loaded",
		slog.String("path", path),
		slog.Int("sources", len(pipelineConfig.Sources)),
		slog.String("storage_backend", pipelineConfig.Storage.Backend))
	return pipelineConfig
}

// setupRunLedger connects the run ledger when a DSN is configured. Without
// one the no-op repository is returned and runs simply go unrecorded.
// The cleanup function closes the database connection during shutdown.
func setupRunLedger(ctx context.Context, logger *slog.Logger, pipelineConfig *config.Pipeline) (repository.RunRepository, bool, func()) {
	dsn := pipelineConfig.LedgerDSN()
	if dsn == "" {
		logger.Info("run ledger disabled", slog.String("dsn_env", pipelineConfig.Ledger.DSNEnv))
		return noop.NewRunRepo(), false, func() {}
	}

	database := db.Open(dsn)
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate run ledger schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("run ledger enabled")
	startPoolStatsLoop(ctx, database)

	cleanup := func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	return pgRepo.NewRunRepo(database), true, cleanup
}

// startPoolStatsLoop samples the ledger pool's connection counts into the
// db_connections_* gauges once a minute.
func startPoolStatsLoop(ctx context.Context, database *sql.DB) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := database.Stats()
				obsmetrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
			}
		}
	}()
}

// createObjectStore builds the configured storage backend wrapped in the
// shared resilience stack (rate limit, retry, circuit breaker).
func createObjectStore(ctx context.Context, logger *slog.Logger, pipelineConfig *config.Pipeline) repository.ObjectStore {
	var inner repository.ObjectStore
	switch pipelineConfig.Storage.Backend {
	case "gcs":
		gcsStore, err := storage.NewGCS(ctx, pipelineConfig.Storage.CredentialsFile)
		if err != nil {
			logger.Error("failed to create GCS store", slog.Any("error", err))
			os.Exit(1)
		}
		inner = gcsStore
		logger.Info("object store initialized", slog.String("backend", "gcs"))
	default:
		inner = storage.NewLocal(pipelineConfig.Storage.LocalRoot)
		logger.Info("object store initialized",
			slog.String("backend", "local"),
			slog.String("root", pipelineConfig.Storage.LocalRoot))
	}

	return storage.NewResilient(inner, pipelineConfig.Storage.Backend,
		pipelineConfig.Storage.OpsPerSecond, pipelineConfig.Storage.Burst)
}

// buildPipelineService wires the stage services, storage and ledger into one
// runnable pipeline.
func buildPipelineService(pipelineConfig *config.Pipeline, store repository.ObjectStore, runs repository.RunRepository) *pipeline.Service {
	records := &decode.FileSource{LenientJSON: pipelineConfig.LenientJSON()}

	return &pipeline.Service{
		Ingest:    ingest.NewService(records, store),
		Reconcile: reconcile.NewService(store, pipelineConfig.Reconcile.Parallelism),
		Store:     store,
		Runs:      runs,
		Sources:   buildSources(pipelineConfig),
		Buckets: pipeline.Buckets{
			Bronze: pipelineConfig.Buckets.Bronze,
			Silver: pipelineConfig.Buckets.Silver,
			Gold:   pipelineConfig.Buckets.Gold,
		},
		GoldObject: pipelineConfig.GoldObject,
	}
}

// buildSources converts the validated source configuration into the ingest
// representation, deriving each source's origin label.
func buildSources(pipelineConfig *config.Pipeline) []ingest.Source {
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
	return sources
}

// runTracker accumulates in-process run outcomes for the SLO gauges.
type runTracker struct {
	mu          sync.Mutex
	total       int
	succeeded   int
	lastSuccess time.Time
}

// Record counts one finished run.
func (t *runTracker) Record(ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	if ok {
		t.succeeded++
		t.lastSuccess = time.Now()
	}
}

// SuccessRatio returns the succeeded/total ratio, or false before any run.
func (t *runTracker) SuccessRatio() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total == 0 {
		return 0, false
	}
	return float64(t.succeeded) / float64(t.total), true
}

// LastSuccess returns the time of the last succeeded run, or false before one.
func (t *runTracker) LastSuccess() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastSuccess.IsZero() {
		return time.Time{}, false
	}
	return t.lastSuccess, true
}

// startFreshnessLoop keeps the freshness gauge current between runs; with a
// daily schedule the gauge would otherwise go stale for a whole day.
func startFreshnessLoop(ctx context.Context, tracker *runTracker) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if last, ok := tracker.LastSuccess(); ok {
					slo.UpdateFreshness(time.Since(last).Seconds())
				}
			}
		}
	}()
}

// startCronWorker starts the cron scheduler and runs the pipeline job periodically.
func startCronWorker(logger *slog.Logger, svc *pipeline.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer, tracker *runTracker) {
	// Load timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runPipelineJob(logger, svc, cfg, metrics, tracker)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	if pkgconfig.GetEnvBool("RUN_ON_START", false) {
		logger.Info("running pipeline on startup")
		go runPipelineJob(logger, svc, cfg, metrics, tracker)
	}

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runPipelineJob executes a single pipeline run with timeout and error handling.
func runPipelineJob(logger *slog.Logger, svc *pipeline.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, tracker *runTracker) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("pipeline job started")

	// パイプライン実行のタイムアウト（設定から取得）
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	report, err := svc.Run(ctx)
	if err != nil {
		logger.Error("pipeline job failed", slog.Any("error", err))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		tracker.Record(false)
		updateSLOGauges(report, tracker)
		return
	}

	// Record metrics
	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordSourcesProcessed(len(report.Sources))
	metrics.RecordLastSuccess()
	tracker.Record(true)
	updateSLOGauges(report, tracker)

	logger.Info("pipeline job completed",
		slog.String("run_id", report.RunID),
		slog.Int("sources", len(report.Sources)),
		slog.Int("valid_records", report.TotalValid()),
		slog.Int("invalid_records", report.TotalInvalid()),
		slog.Int("drugs_reconciled", report.DrugsReconciled),
		slog.Int("mentions_matched", report.MentionsMatched),
		slog.Duration("duration", time.Since(startTime)),
	)
}

// updateSLOGauges refreshes the SLO gauges after a run. The report may carry
// partial counts even for a failed run; an empty decode total is skipped so a
// bronze-stage abort does not zero the ratio.
func updateSLOGauges(report *entity.RunReport, tracker *runTracker) {
	if ratio, ok := tracker.SuccessRatio(); ok {
		slo.UpdateRunSuccess(ratio)
	}
	if last, ok := tracker.LastSuccess(); ok {
		slo.UpdateFreshness(time.Since(last).Seconds())
	}
	if report == nil {
		return
	}
	if decoded := report.TotalDecoded(); decoded > 0 {
		slo.UpdateInvalidRatio(float64(report.TotalInvalid()) / float64(decoded))
	}
}
