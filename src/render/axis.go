package render

import (
	"math"
	"strconv"
)

// NiceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func NiceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// BuildNumericTicks generates up to n tick marks spanning [min,max] using the 1,2,2.5,5 pattern.
// Returns raw positions; label formatting is left to the caller.
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// round6 rounds to 6 decimal places so accumulated float steps print cleanly.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatNumericTick returns a compact label for a value axis tick.
func FormatNumericTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// IndexTicks returns sample-index tick positions inside [min,max], never finer than one sample.
func IndexTicks(min, max float64, n int) []float64 {
	raw := BuildNumericTicks(min, max, n)
	var out []float64
	for _, v := range raw {
		if v >= min-1e-9 && v <= max+1e-9 {
			out = append(out, v)
		}
	}
	if len(out) >= 2 && out[1]-out[0] >= 1 {
		return out
	}
	out = out[:0]
	for v := math.Ceil(min); v <= max; v++ {
		out = append(out, v)
	}
	return out
}
