package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/unirank/internal/domain/university"
)

// Weight map constraints.
const (
	WeightParamPrefix = "weight_"
	minWeight         = 0
	maxWeight         = 100
	weightTotal       = 100
	weightTolerance   = 0.01
)

// Weights maps a weight-eligible subject code to its percentage share.
// A nil map means no weighting was requested.
type Weights map[string]float64

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	var sum float64
	for _, s := range university.WeightSubjects {
		sum += w[s]
	}
	return sum
}

// ValidateWeights merges the JSON weights object with weight_<SUBJECT> params
// (params win on conflict) and checks subjects, ranges and the 100% total.
func ValidateWeights(weightsJSON string, weightParams map[string]string) (Weights, error) {
	if weightsJSON == "" && len(weightParams) == 0 {
		return nil, nil
	}

	raw := make(map[string]any)
	if weightsJSON != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(weightsJSON), &parsed); err != nil || parsed == nil {
			return nil, newError(ErrInvalidWeightsFormat, "Invalid weights JSON format")
		}
		for k, v := range parsed {
			raw[k] = v
		}
	}

	for key, value := range weightParams {
		subject, ok := strings.CutPrefix(key, WeightParamPrefix)
		if !ok || !university.IsWeightSubject(subject) {
			continue
		}
		raw[subject] = parseWeight(value)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var unknown []string
	for subject := range raw {
		if !university.IsWeightSubject(subject) {
			unknown = append(unknown, subject)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, newError(ErrInvalidWeightSubjects, fmt.Sprintf("Invalid weight subjects: %s. Valid subjects: %s",
			strings.Join(unknown, ", "), strings.Join(university.WeightSubjects, ", ")))
	}

	weights := make(Weights, len(raw))
	var invalid []string
	for _, subject := range university.WeightSubjects {
		v, present := raw[subject]
		if !present {
			continue
		}
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < minWeight || f > maxWeight {
			invalid = append(invalid, subject+"="+formatWeight(v))
			continue
		}
		weights[subject] = f
	}
	if len(invalid) > 0 {
		return nil, newError(ErrInvalidWeightValues, fmt.Sprintf("Invalid weights: %s. Weights must be numbers between 0 and 100.",
			strings.Join(invalid, ", ")))
	}

	total := weights.Total()
	if math.Abs(total-weightTotal) > weightTolerance {
		return nil, newError(ErrWeightsNotNormalized, fmt.Sprintf("Total weights must equal 100%%. Current total: %.2f%%", total))
	}
	return weights, nil
}

// parseWeight yields NaN for anything strconv cannot read, so the range
// check reports it alongside other bad values.
func parseWeight(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func formatWeight(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
