// Package scoring blends per-subject scores into a client-weighted composite.
package scoring

import (
	"sort"

	"github.com/okian/unirank/internal/domain/university"
	"github.com/okian/unirank/internal/domain/validation"
)

// CompositeScore returns the weighted mean of the record's subject scores.
//
// Subjects without a usable score are dropped from both the numerator and
// the denominator, so the result is renormalised over the subjects that
// have data. With no weights, or no usable subject at all, the record's
// Overall SCORE is returned. ok is false when that fallback is missing too.
func CompositeScore(rec university.Record, weights validation.Weights) (score float64, ok bool) {
	if len(weights) == 0 {
		return rec.Number(university.FieldOverall)
	}

	var weighted, used float64
	for _, subject := range university.WeightSubjects {
		w, present := weights[subject]
		if !present {
			continue
		}
		s, usable := rec.Number(university.ScoreField(subject))
		if !usable {
			continue
		}
		weighted += s * w
		used += w
	}

	if used == 0 {
		return rec.Number(university.FieldOverall)
	}
	return weighted / used, true
}

// WithComposite returns a shallow copy of rec carrying its composite score
// under Composite SCORE (nil when no score can be derived).
func WithComposite(rec university.Record, weights validation.Weights) university.Record {
	out := rec.Clone()
	if s, ok := CompositeScore(rec, weights); ok {
		out[university.FieldComposite] = s
	} else {
		out[university.FieldComposite] = nil
	}
	return out
}

// SortByComposite orders records by Composite SCORE, highest first. Records
// without a composite keep their relative order after all scored ones.
func SortByComposite(records []university.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := records[i].Number(university.FieldComposite)
		b, bok := records[j].Number(university.FieldComposite)
		if aok != bok {
			return aok
		}
		return a > b
	})
}
