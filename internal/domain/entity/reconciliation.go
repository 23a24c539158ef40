package entity

// MentionRef is one matched mention inside a reconciliation result. Origin
// carries the source family ("pubmed", "clinical_trials"), not the concrete
// feed: downstream consumers distinguish literature from trials, nothing
// finer.
type MentionRef struct {
	Title   string
	Date    string
	Journal string
	Origin  string
}

// ReconciliationResult aggregates everything known about one drug after a
// run: every mention whose title contains the drug name, and the journals
// that published them with the distinct dates per journal. A drug with no
// matches still gets a result with empty Journals and Mentions.
type ReconciliationResult struct {
	Drug     Drug
	Journals map[string][]string
	Mentions []MentionRef
}

// NewReconciliationResult returns an empty result for drug with Journals and
// Mentions initialized, so zero-match drugs encode as {} and [] rather than
// null.
func NewReconciliationResult(drug Drug) ReconciliationResult {
	return ReconciliationResult{
		Drug:     drug,
		Journals: map[string][]string{},
		Mentions: []MentionRef{},
	}
}
