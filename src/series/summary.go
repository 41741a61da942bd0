package series

import (
	"math"
	"sort"
)

// FieldSummary holds simple descriptive statistics for one series.
type FieldSummary struct {
	Field string
	Count int
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P90   float64
	Last  float64
}

// Summarize computes per-field statistics in field order.
func (s *Set) Summarize() []FieldSummary {
	out := make([]FieldSummary, 0, len(s.fields))
	for _, f := range s.fields {
		vals := s.values[f]
		nan := math.NaN()
		fs := FieldSummary{Field: f, Count: len(vals), Min: nan, Max: nan, Mean: nan, P50: nan, P90: nan, Last: nan}
		if len(vals) > 0 {
			sorted := append([]float64(nil), vals...)
			sort.Float64s(sorted)
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			fs.Min, fs.Max = sorted[0], sorted[len(sorted)-1]
			fs.Mean = sum / float64(len(vals))
			fs.P50 = Percentile(sorted, 50)
			fs.P90 = Percentile(sorted, 90)
			fs.Last = vals[len(vals)-1]
		}
		out = append(out, fs)
	}
	return out
}

// Percentile uses the nearest-rank method on an ascending slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
