package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// WeightTolerance is how far a weight vector's sum may drift from 1.0.
const WeightTolerance = 1e-6

// Weights maps components to their share of the final swing score.
type Weights map[Component]float64

// DefaultWeights splits the score equally across all four components.
func DefaultWeights() Weights {
	return Weights{
		ComponentMarginChange: 0.25,
		ComponentCloseness:    0.25,
		ComponentTurnout:      0.25,
		ComponentVotes:        0.25,
	}
}

// TwoComponentWeights splits the score equally between closeness and margin
// change, the two-metric variant used for quick competitiveness rankings.
func TwoComponentWeights() Weights {
	return Weights{
		ComponentCloseness:    0.5,
		ComponentMarginChange: 0.5,
	}
}

// ParseWeights reads a comma-separated weight vector. Two values are
// interpreted as closeness,margin_change; four as
// margin_change,closeness,turnout,votes. Any other count, a non-numeric
// entry, a negative weight, or a sum away from 1.0 is a ConfigurationError.
func ParseWeights(spec string) (Weights, error) {
	parts := strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == ' ' })
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, Configurationf("invalid weight %q: not a number", p)
		}
		vals = append(vals, v)
	}

	var w Weights
	switch len(vals) {
	case 2:
		w = Weights{
			ComponentCloseness:    vals[0],
			ComponentMarginChange: vals[1],
		}
	case 4:
		w = Weights{
			ComponentMarginChange: vals[0],
			ComponentCloseness:    vals[1],
			ComponentTurnout:      vals[2],
			ComponentVotes:        vals[3],
		}
	default:
		return nil, Configurationf("weights must have 2 (closeness,margin_change) or 4 (margin_change,closeness,turnout,votes) values, got %d", len(vals))
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Components returns the weighted components in canonical order.
func (w Weights) Components() []Component {
	out := make([]Component, 0, len(w))
	for _, c := range AllComponents {
		if _, ok := w[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks that every weight is non-negative and the vector sums to
// 1.0 within WeightTolerance.
func (w Weights) Validate() error {
	for c, v := range w {
		if v < 0 {
			return Configurationf("weight for %s is negative (%g)", c, v)
		}
	}
	if s := w.Sum(); math.Abs(s-1.0) > WeightTolerance {
		return Configurationf("weights sum to %.6f, must sum to 1.0", s)
	}
	return nil
}

// AggregateScores combines normalized component series into one swing score
// per county. Only counties present in every supplied series are scored;
// partial coverage is excluded outright rather than renormalized, trading
// coverage for comparability. The weight vector must cover exactly the
// supplied components and pass Validate, else a ConfigurationError.
func AggregateScores(series map[Component]NormalizedSeries, weights Weights) (map[string]float64, error) {
	if len(weights) != len(series) {
		return nil, Configurationf("weight count %d does not match component count %d", len(weights), len(series))
	}
	for c := range weights {
		if _, ok := series[c]; !ok {
			return nil, Configurationf("weight supplied for %s but no component series given", c)
		}
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	components := weights.Components()
	if len(components) == 0 {
		return scores, nil
	}

	for fips := range series[components[0]] {
		score, ok := 0.0, true
		for _, c := range components {
			v, present := series[c][fips]
			if !present || math.IsNaN(v) {
				ok = false
				break
			}
			score += weights[c] * v
		}
		if ok {
			// Weight sums may drift from 1.0 within WeightTolerance, which
			// on fully-maxed components pushes the sum past 1. Clamp so
			// downstream classification always sees [0,1].
			scores[fips] = math.Min(math.Max(score, 0), 1)
		}
	}
	return scores, nil
}

// SortedFIPS returns the score map's keys ordered by score descending,
// FIPS ascending on ties. Useful for deterministic iteration in logs and
// fixtures.
func SortedFIPS(scores map[string]float64) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if scores[keys[i]] != scores[keys[j]] {
			return scores[keys[i]] > scores[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
