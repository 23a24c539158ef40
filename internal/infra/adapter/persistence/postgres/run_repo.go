package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/observability/metrics"
	"drug-pipeline/internal/repository"
	"drug-pipeline/internal/resilience/circuitbreaker"
)

// RunRepo persists run reports to the pipeline_runs ledger table. Statements
// go through a circuit breaker so a dead Postgres fails the ledger write fast
// instead of stalling the end of every run.
type RunRepo struct {
	db *circuitbreaker.DBCircuitBreaker
}

func NewRunRepo(db *sql.DB) repository.RunRepository {
	return &RunRepo{db: circuitbreaker.NewDBCircuitBreaker(db)}
}

func (repo *RunRepo) Record(ctx context.Context, report *entity.RunReport) error {
	// Marshal per-source counts into the jsonb column
	sourcesJSON, err := json.Marshal(report.Sources)
	if err != nil {
		return fmt.Errorf("Record: marshal sources: %w", err)
	}

	const query = `
INSERT INTO pipeline_runs (run_id, started_at, finished_at, status, sources, drugs_reconciled, mentions_matched, error_message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	start := time.Now()
	_, err = repo.db.ExecContext(ctx, query,
		report.RunID, report.StartedAt, report.FinishedAt,
		string(report.Status), sourcesJSON,
		report.DrugsReconciled, report.MentionsMatched, report.Error,
	)
	metrics.RecordDBQuery("insert_run", time.Since(start))
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

func (repo *RunRepo) Latest(ctx context.Context) (*entity.RunReport, error) {
	const query = `
SELECT run_id, started_at, finished_at, status, sources, drugs_reconciled, mentions_matched, error_message
FROM pipeline_runs
ORDER BY started_at DESC
LIMIT 1`
	var report entity.RunReport
	var status string
	var sourcesJSON []byte
	start := time.Now()
	err := repo.db.QueryRowContext(ctx, query).Scan(
		&report.RunID, &report.StartedAt, &report.FinishedAt,
		&status, &sourcesJSON,
		&report.DrugsReconciled, &report.MentionsMatched, &report.Error,
	)
	metrics.RecordDBQuery("select_run", time.Since(start))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Latest: %w", err)
	}
	report.Status = entity.RunStatus(status)

	// Unmarshal sources if present
	if len(sourcesJSON) > 0 {
		if err := json.Unmarshal(sourcesJSON, &report.Sources); err != nil {
			return nil, fmt.Errorf("Latest: unmarshal sources: %w", err)
		}
	}

	return &report, nil
}
