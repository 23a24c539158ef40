// Package ingest implements the silver stage: decoding raw source files,
// normalizing source-specific shapes into one canonical record form,
// partitioning records into valid and invalid sets, and persisting both.
package ingest

import (
	"encoding/json"
	"strconv"

	"drug-pipeline/internal/domain/entity"
)

// NormalizeDrug maps one raw drugs row to the canonical record shape: the
// source's atccode and drug columns become id and name, and a numeric
// identifier becomes its written decimal form. Values that are not
// record-shaped pass through untouched for the validator to reject.
// The input is never mutated.
func NormalizeDrug(raw any) any {
	record, ok := asRecord(raw)
	if !ok {
		return raw
	}
	out := record.Clone()
	renameKey(out, "atccode", "id")
	renameKey(out, "drug", "name")
	coerceToString(out, "id")
	return out
}

// NormalizeMention maps one raw mention row to the canonical record shape
// shared by every origin: the clinical-trials scientific_title column becomes
// title, and a numeric identifier becomes its written decimal form. After
// normalization a JSON object and a CSV row for the same logical record are
// field-identical, so validation applies one rule set regardless of origin.
// The input is never mutated.
func NormalizeMention(raw any, origin entity.Origin) any {
	record, ok := asRecord(raw)
	if !ok {
		return raw
	}
	out := record.Clone()
	if origin.Kind() == entity.SchemaClinicalTrials {
		renameKey(out, "scientific_title", "title")
	}
	coerceToString(out, "id")
	return out
}

// asRecord unifies the two map shapes decoders produce.
func asRecord(v any) (entity.RawRecord, bool) {
	switch m := v.(type) {
	case entity.RawRecord:
		return m, true
	case map[string]any:
		return entity.RawRecord(m), true
	}
	return nil, false
}

// renameKey moves from to to. An existing to wins; from is dropped either
// way so the canonical record carries one spelling.
func renameKey(r entity.RawRecord, from, to string) {
	v, ok := r[from]
	if !ok {
		return
	}
	delete(r, from)
	if _, exists := r[to]; !exists {
		r[to] = v
	}
}

// coerceToString rewrites a numeric value under key to its written decimal
// form. JSON extracts encode some identifiers as numbers; the CSV feeds
// always carry strings, and the canonical shape follows the CSV side.
func coerceToString(r entity.RawRecord, key string) {
	switch v := r[key].(type) {
	case json.Number:
		r[key] = v.String()
	case float64:
		r[key] = strconv.FormatFloat(v, 'f', -1, 64)
	}
}
