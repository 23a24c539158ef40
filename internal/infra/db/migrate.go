package db

import (
	"database/sql"
)

// MigrateUp builds the run-ledger schema. Every statement is idempotent so
// the worker can run it on each start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS pipeline_runs (
    id               SERIAL PRIMARY KEY,
    run_id           UUID NOT NULL UNIQUE,
    started_at       TIMESTAMPTZ NOT NULL,
    finished_at      TIMESTAMPTZ NOT NULL,
    status           VARCHAR(20) NOT NULL,
    sources          JSONB,
    drugs_reconciled INTEGER NOT NULL DEFAULT 0,
    mentions_matched INTEGER NOT NULL DEFAULT 0,
    error_message    TEXT NOT NULL DEFAULT ''
)`); err != nil {
		return err
	}

	// Latest クエリの ORDER BY started_at DESC と、ステータス別の絞り込み用
	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_pipeline_runs_started_at ON pipeline_runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_pipeline_runs_status ON pipeline_runs(status)`,
	} {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// status 制約。DDL 権限がない環境でも移行自体は成功させたいので
	// エラーは無視する
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_run_status'
    ) THEN
        ALTER TABLE pipeline_runs ADD CONSTRAINT chk_run_status
        CHECK (status IN ('succeeded', 'failed'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown drops the ledger schema in reverse order of creation. This
// deletes every recorded run report.
func MigrateDown(db *sql.DB) error {
	for _, stmt := range []string{
		`DROP INDEX IF EXISTS idx_pipeline_runs_status`,
		`DROP INDEX IF EXISTS idx_pipeline_runs_started_at`,
		`DROP TABLE IF EXISTS pipeline_runs CASCADE`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
