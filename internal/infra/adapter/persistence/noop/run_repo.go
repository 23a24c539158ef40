// Package noop provides no-operation repository implementations, used when
// the run ledger is disabled so callers never need nil checks.
package noop

import (
	"context"

	"drug-pipeline/internal/domain/entity"
	"drug-pipeline/internal/repository"
)

// RunRepo discards run reports. It is wired in when no database DSN is
// configured, following the Null Object pattern.
type RunRepo struct{}

// NewRunRepo creates a new no-op RunRepo instance.
func NewRunRepo() repository.RunRepository {
	return &RunRepo{}
}

// Record does nothing and returns nil immediately.
func (r *RunRepo) Record(ctx context.Context, report *entity.RunReport) error {
	// No-op: intentionally does nothing
	return nil
}

// Latest always reports that no run has been recorded.
func (r *RunRepo) Latest(ctx context.Context) (*entity.RunReport, error) {
	return nil, nil
}
