package entity

// Mention is one publication row referencing zero or more drugs. PubMed and
// clinical-trials rows share this shape after normalization; Origin keeps the
// feed they arrived from.
type Mention struct {
	ID      string
	Title   string
	Journal string
	Date    string
	Origin  Origin
}

// MentionFromRecord builds a Mention from a normalized raw record, applying
// the shared mention schema: id and title must be present and non-empty,
// journal and date must be present as strings (empty values are kept as-is).
// Date stays the source's literal text; no parsing or timezone handling.
// The returned error is always a *ValidationError.
func MentionFromRecord(r RawRecord, origin Origin) (Mention, error) {
	id, err := requiredString(r, "id")
	if err != nil {
		return Mention{}, err
	}
	title, err := requiredString(r, "title")
	if err != nil {
		return Mention{}, err
	}
	journal, err := presentString(r, "journal")
	if err != nil {
		return Mention{}, err
	}
	date, err := presentString(r, "date")
	if err != nil {
		return Mention{}, err
	}
	return Mention{ID: id, Title: title, Journal: journal, Date: date, Origin: origin}, nil
}

// Record returns the canonical persisted shape of the mention.
func (m Mention) Record() RawRecord {
	return RawRecord{
		"id":      m.ID,
		"title":   m.Title,
		"journal": m.Journal,
		"date":    m.Date,
	}
}
