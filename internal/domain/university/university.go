// Package university holds the ranking record shape and the recognised
// subject, region and year tables shared by validation, scoring and storage.
package university

import (
	"encoding/json"
	"math"
)

// Well-known record fields.
const (
	FieldName      = "Name"
	FieldCountry   = "Country"
	FieldRegion    = "Region"
	FieldOverall   = "Overall SCORE"
	FieldComposite = "Composite SCORE"
)

// SubjectOverall is the synthetic subject backed by the Overall SCORE field.
const SubjectOverall = "Overall"

// Subjects lists every subject code accepted by the subject filter, in display order.
var Subjects = []string{"AR", "ER", "FSR", "CPF", "IFR", "ISR", "ISD", "IRN", "EO", "SUS", SubjectOverall}

// WeightSubjects lists the subjects that can carry a weight (Overall is the result, not an input).
var WeightSubjects = []string{"AR", "ER", "FSR", "CPF", "IFR", "ISR", "ISD", "IRN", "EO", "SUS"}

// Regions lists the canonical region names.
var Regions = []string{"Asia", "Europe", "North America", "South America", "Africa", "Middle East", "Oceania"}

// Years lists the ranking editions present in the data set.
var Years = []string{"2025", "2026"}

// ScoreField returns the record field holding the score for subject, e.g. "AR SCORE".
func ScoreField(subject string) string { return subject + " SCORE" }

// RankField returns the record field holding the rank for year, e.g. "2025 Rank".
func RankField(year string) string { return year + " Rank" }

// IsWeightSubject reports whether subject may appear in a weight map.
func IsWeightSubject(subject string) bool {
	for _, s := range WeightSubjects {
		if s == subject {
			return true
		}
	}
	return false
}

// Record is one university's ranking row. Values come straight from the
// document store: numbers, strings, or nil.
type Record map[string]any

// Number returns the numeric value of field. ok is false when the field is
// absent, null, non-numeric or NaN.
func (r Record) Number(field string) (float64, bool) {
	var f float64
	switch v := r[field].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Has reports whether field is present with a non-null value.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns the string value of field, or "" when it is not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}
