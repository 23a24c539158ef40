// Package reconcile implements the gold stage: linking every valid drug to
// the mentions that reference it across the PubMed and clinical-trials sets,
// and persisting the aggregated results as one document.
package reconcile

import (
	"sort"
	"strings"

	"drug-pipeline/internal/domain/entity"
)

// Drug links one drug to every mention whose title contains the drug name,
// case-folded, as a plain substring. No tokenization or word-boundary check:
// downstream consumers depend on exact substring semantics, including its
// known overreach on short names contained in longer ones.
//
// Matches from the pubmed set are collected before the clinical set, each in
// input order. Per journal, the result keeps the distinct dates on which that
// journal published a match, sorted. A drug with no matches yields a result
// with empty journals and mentions; that is a normal outcome, not an error.
// Inputs are never mutated.
func Drug(drug entity.Drug, pubmed, clinical []entity.Mention) entity.ReconciliationResult {
	result := entity.NewReconciliationResult(drug)

	// Validation excludes nameless drugs upstream; an empty needle would
	// substring-match every title, so treat it as matching nothing.
	if drug.Name == "" {
		return result
	}
	name := strings.ToLower(drug.Name)

	collect := func(mentions []entity.Mention) {
		for _, m := range mentions {
			if !strings.Contains(strings.ToLower(m.Title), name) {
				continue
			}
			result.Mentions = append(result.Mentions, entity.MentionRef{
				Title:   m.Title,
				Date:    m.Date,
				Journal: m.Journal,
				Origin:  m.Origin.Family(),
			})
			addJournalDate(result.Journals, m.Journal, m.Date)
		}
	}
	collect(pubmed)
	collect(clinical)

	for journal := range result.Journals {
		sort.Strings(result.Journals[journal])
	}
	return result
}

// addJournalDate records date under journal unless that exact date is
// already present. The same journal publishing two matches on one date
// contributes a single entry.
func addJournalDate(journals map[string][]string, journal, date string) {
	for _, d := range journals[journal] {
		if d == date {
			return
		}
	}
	journals[journal] = append(journals[journal], date)
}
