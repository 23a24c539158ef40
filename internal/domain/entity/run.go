package entity

import "time"

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// SourceReport holds the per-source counts of one pipeline run. Decoded is
// the number of records that came out of the raw file; Valid and Invalid
// partition it.
type SourceReport struct {
	Name    string     `json:"name"`
	Kind    SchemaKind `json:"kind"`
	Origin  Origin     `json:"origin,omitempty"`
	Decoded int        `json:"decoded"`
	Valid   int        `json:"valid"`
	Invalid int        `json:"invalid"`
}

// RunReport is the persisted summary of one pipeline run: what was read,
// how validation split it, and how much the gold stage produced. A run that
// only hits record-level validation failures still succeeds; Error is set
// only when a stage aborted.
type RunReport struct {
	RunID           string         `json:"run_id"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	Status          RunStatus      `json:"status"`
	Sources         []SourceReport `json:"sources,omitempty"`
	DrugsReconciled int            `json:"drugs_reconciled"`
	MentionsMatched int            `json:"mentions_matched"`
	Error           string         `json:"error,omitempty"`
}

// TotalDecoded sums the decoded counts across all sources.
func (r *RunReport) TotalDecoded() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Decoded
	}
	return n
}

// TotalValid sums the valid counts across all sources.
func (r *RunReport) TotalValid() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Valid
	}
	return n
}

// TotalInvalid sums the invalid counts across all sources.
func (r *RunReport) TotalInvalid() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Invalid
	}
	return n
}
