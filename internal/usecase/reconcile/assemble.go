package reconcile

import "drug-pipeline/internal/domain/entity"

// Assemble collects per-drug results into the final ordered sequence handed
// to persistence. It is an identity pass preserving input order, kept as a
// seam so the persisted document format can change without touching the
// matching engine. The returned slice is a copy; the input stays unshared.
func Assemble(results []entity.ReconciliationResult) []entity.ReconciliationResult {
	out := make([]entity.ReconciliationResult, len(results))
	copy(out, results)
	return out
}
