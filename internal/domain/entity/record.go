// Package entity defines the core domain entities for the drug-mention
// pipeline: raw records as they arrive from source files, the typed Drug and
// Mention entities produced by validation, and the reconciliation aggregates
// persisted downstream. Validation rules and domain errors live here so every
// stage applies the same contract.
package entity

// RawRecord is a decoded but not yet validated source record. Values carry
// whatever the decoder produced (strings for CSV fields, json.Number or
// string for JSON fields); the schema validator decides whether the record
// is usable.
type RawRecord map[string]any

// Clone returns a shallow copy. Normalization works on copies so the
// original record can be persisted untouched when it turns out invalid.
func (r RawRecord) Clone() RawRecord {
	if r == nil {
		return nil
	}
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SchemaKind identifies which validation rule set applies to a record set.
type SchemaKind string

const (
	SchemaDrugs          SchemaKind = "drugs"
	SchemaPubMed         SchemaKind = "pubmed"
	SchemaClinicalTrials SchemaKind = "clinical_trials"
)

// Valid reports whether k is one of the known schema kinds.
func (k SchemaKind) Valid() bool {
	switch k {
	case SchemaDrugs, SchemaPubMed, SchemaClinicalTrials:
		return true
	}
	return false
}

// SourceFormat identifies the on-disk encoding of a raw source file.
type SourceFormat string

const (
	FormatJSON SourceFormat = "json"
	FormatCSV  SourceFormat = "csv"
)

// Valid reports whether f is a supported source format.
func (f SourceFormat) Valid() bool {
	return f == FormatJSON || f == FormatCSV
}

// Origin identifies the concrete feed a mention was ingested from. Provenance
// is tracked per origin even though PubMed JSON and CSV rows share one shape:
// a mention appearing in both feeds stays two mentions downstream.
type Origin string

const (
	OriginPubMedJSON     Origin = "pubmed_json"
	OriginPubMedCSV      Origin = "pubmed_csv"
	OriginClinicalTrials Origin = "clinical_trials"
)

// Valid reports whether o is one of the known origins.
func (o Origin) Valid() bool {
	switch o {
	case OriginPubMedJSON, OriginPubMedCSV, OriginClinicalTrials:
		return true
	}
	return false
}

// Family collapses an origin to the source family name reported in
// reconciled output ("pubmed" or "clinical_trials").
func (o Origin) Family() string {
	switch o {
	case OriginPubMedJSON, OriginPubMedCSV:
		return "pubmed"
	case OriginClinicalTrials:
		return "clinical_trials"
	}
	return string(o)
}

// Kind returns the schema kind that validates records from this origin.
func (o Origin) Kind() SchemaKind {
	switch o {
	case OriginPubMedJSON, OriginPubMedCSV:
		return SchemaPubMed
	case OriginClinicalTrials:
		return SchemaClinicalTrials
	}
	return SchemaKind(o)
}
