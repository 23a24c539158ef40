package reconcile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"drug-pipeline/internal/domain/entity"
)

// All reconciles every drug against the two shared mention sets. Each drug's
// computation is independent and the mention slices are read-only for the
// duration of the call, so the map runs with up to parallelism workers.
// Workers write into the slot matching their drug's input index: output order
// equals drug input order at any parallelism. Parallelism below 1 is treated
// as 1. Context cancellation aborts between drugs and returns the context
// error; partial results are discarded.
func All(ctx context.Context, drugs []entity.Drug, pubmed, clinical []entity.Mention, parallelism int) ([]entity.ReconciliationResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]entity.ReconciliationResult, len(drugs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)

	for i, drug := range drugs {
		i, drug := i, drug
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[i] = Drug(drug, pubmed, clinical)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
