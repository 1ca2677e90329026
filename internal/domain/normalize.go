package domain

import "math"

// neutralScore is emitted when a series has zero range: it avoids a divide
// by zero while staying neutral in the weighted sum.
const neutralScore = 0.5

// Normalize rescales values to [0,1] with min-max scaling, preserving length
// and order. Min and max are taken over non-NaN entries only. When max equals
// min (single element, all equal, or all NaN) every output is 0.5. NaN inputs
// otherwise propagate as NaN. Pure; the input slice is not modified.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	lo, hi, ok := finiteRange(values)
	if !ok || lo == hi {
		for i := range out {
			out[i] = neutralScore
		}
		return out
	}
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// NormalizeSeries applies min-max scaling across a ComponentSeries, returning
// a NormalizedSeries with identical keys.
func NormalizeSeries(series ComponentSeries) NormalizedSeries {
	out := make(NormalizedSeries, len(series))
	lo, hi, ok := finiteRangeMap(series)
	if !ok || lo == hi {
		for fips := range series {
			out[fips] = neutralScore
		}
		return out
	}
	for fips, v := range series {
		if math.IsNaN(v) {
			out[fips] = math.NaN()
			continue
		}
		out[fips] = (v - lo) / (hi - lo)
	}
	return out
}

func finiteRange(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

func finiteRangeMap(series ComponentSeries) (lo, hi float64, ok bool) {
	for _, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}
