package repository

import (
	"context"

	"drug-pipeline/internal/domain/entity"
)

type RunRepository interface {
	Record(ctx context.Context, report *entity.RunReport) error
	Latest(ctx context.Context) (*entity.RunReport, error)
}
