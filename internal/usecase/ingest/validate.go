package ingest

import "drug-pipeline/internal/domain/entity"

// ValidateDrugs partitions raw drug records into typed drugs and rejected
// raws. Each record is normalized and checked independently; a failing record
// is routed to the invalid partition exactly as it arrived, pre-normalization.
// Both partitions preserve input order and together cover the whole input:
// one record lands in exactly one of them, and one bad record never aborts
// the batch.
func ValidateDrugs(raws []any) ([]entity.Drug, []any) {
	drugs := make([]entity.Drug, 0, len(raws))
	invalid := make([]any, 0)

	for _, raw := range raws {
		record, ok := asRecord(NormalizeDrug(raw))
		if !ok {
			invalid = append(invalid, raw)
			continue
		}
		drug, err := entity.DrugFromRecord(record)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		drugs = append(drugs, drug)
	}
	return drugs, invalid
}

// ValidateMentions partitions raw mention records into typed mentions tagged
// with origin and rejected raws, with the same stable-partition guarantees as
// ValidateDrugs.
func ValidateMentions(raws []any, origin entity.Origin) ([]entity.Mention, []any) {
	mentions := make([]entity.Mention, 0, len(raws))
	invalid := make([]any, 0)

	for _, raw := range raws {
		record, ok := asRecord(NormalizeMention(raw, origin))
		if !ok {
			invalid = append(invalid, raw)
			continue
		}
		mention, err := entity.MentionFromRecord(record, origin)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		mentions = append(mentions, mention)
	}
	return mentions, invalid
}
