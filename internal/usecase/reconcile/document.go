package reconcile

import (
	"encoding/json"
	"fmt"

	"drug-pipeline/internal/domain/entity"
)

// resultDocument is the persisted shape of one reconciliation result. The
// drug is flattened to its name, the key downstream consumers join on, and
// each mention carries the source family under "origin".
type resultDocument struct {
	Drug     string              `json:"drug"`
	Journals map[string][]string `json:"journals"`
	Mentions []mentionDocument   `json:"mentions"`
}

type mentionDocument struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Journal string `json:"journal"`
	Origin  string `json:"origin"`
}

// EncodeResults renders assembled results as the gold document: one JSON
// array in drug input order. Zero-match drugs encode with "journals": {} and
// "mentions": [].
func EncodeResults(results []entity.ReconciliationResult) ([]byte, error) {
	docs := make([]resultDocument, 0, len(results))
	for _, r := range results {
		doc := resultDocument{
			Drug:     r.Drug.Name,
			Journals: r.Journals,
			Mentions: make([]mentionDocument, 0, len(r.Mentions)),
		}
		if doc.Journals == nil {
			doc.Journals = map[string][]string{}
		}
		for _, m := range r.Mentions {
			doc.Mentions = append(doc.Mentions, mentionDocument{
				Title:   m.Title,
				Date:    m.Date,
				Journal: m.Journal,
				Origin:  m.Origin,
			})
		}
		docs = append(docs, doc)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("EncodeResults: %w", err)
	}
	return data, nil
}
