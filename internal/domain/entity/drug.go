package entity

// Drug is the join key of the pipeline: every reconciliation result is built
// around one drug, matched against mention titles by name.
type Drug struct {
	ID   string
	Name string
}

// DrugFromRecord builds a Drug from a normalized raw record, applying the
// drugs schema: id and name must be present, of string type, and non-empty.
// The returned error is always a *ValidationError.
func DrugFromRecord(r RawRecord) (Drug, error) {
	id, err := requiredString(r, "id")
	if err != nil {
		return Drug{}, err
	}
	name, err := requiredString(r, "name")
	if err != nil {
		return Drug{}, err
	}
	return Drug{ID: id, Name: name}, nil
}

// Record returns the canonical persisted shape of the drug.
func (d Drug) Record() RawRecord {
	return RawRecord{"id": d.ID, "name": d.Name}
}
