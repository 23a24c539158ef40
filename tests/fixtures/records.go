// Package fixtures provides reusable test data builders for the pipeline:
// typed drugs and mentions with functional options, and deterministic raw
// dataset encoders shaped like the source extracts the ingest stage consumes.
package fixtures

import (
	"drug-pipeline/internal/domain/entity"
)

// DrugOption is a functional option for customizing test drugs.
type DrugOption func(*entity.Drug)

// NewTestDrug creates a valid Drug with sensible defaults.
// Use functional options to customize the drug for specific test cases.
//
// Example:
//
//	drug := NewTestDrug()
//	drug := NewTestDrug(WithDrugName("ASPIRIN"), WithDrugID("N02BA"))
func NewTestDrug(opts ...DrugOption) entity.Drug {
	d := entity.Drug{
		ID:   "A04AD",
		Name: "DIPHENHYDRAMINE",
	}

	for _, opt := range opts {
		opt(&d)
	}

	return d
}

// WithDrugID sets the identifier (ATC code) of the drug.
func WithDrugID(id string) DrugOption {
	return func(d *entity.Drug) {
		d.ID = id
	}
}

// WithDrugName sets the name of the drug.
func WithDrugName(name string) DrugOption {
	return func(d *entity.Drug) {
		d.Name = name
	}
}

// MentionOption is a functional option for customizing test mentions.
type MentionOption func(*entity.Mention)

// NewTestMention creates a valid Mention with sensible defaults.
// Use functional options to customize the mention for specific test cases.
//
// Example:
//
//	mention := NewTestMention()
//	mention := NewTestMention(WithTitle("Use of ASPIRIN"), WithOrigin(entity.OriginClinicalTrials))
func NewTestMention(opts ...MentionOption) entity.Mention {
	m := entity.Mention{
		ID:      "1",
		Title:   "Use of DIPHENHYDRAMINE as adjuvant therapy",
		Journal: "Journal of emergency nursing",
		Date:    "2020-01-01",
		Origin:  entity.OriginPubMedJSON,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithMentionID sets the ID of the mention.
func WithMentionID(id string) MentionOption {
	return func(m *entity.Mention) {
		m.ID = id
	}
}

// WithTitle sets the Title of the mention.
func WithTitle(title string) MentionOption {
	return func(m *entity.Mention) {
		m.Title = title
	}
}

// WithJournal sets the Journal of the mention.
func WithJournal(journal string) MentionOption {
	return func(m *entity.Mention) {
		m.Journal = journal
	}
}

// WithDate sets the Date of the mention (kept as literal source text).
func WithDate(date string) MentionOption {
	return func(m *entity.Mention) {
		m.Date = date
	}
}

// WithOrigin sets the Origin of the mention.
func WithOrigin(origin entity.Origin) MentionOption {
	return func(m *entity.Mention) {
		m.Origin = origin
	}
}
