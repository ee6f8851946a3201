package stats

import (
	"math"
	"slices"
)

// Percentile picks the value at fraction pct of the sorted sample by
// nearest rank, rounding half to even. Fractions outside [0,1] clamp to
// the sample bounds. Empty samples yield zero. The input is not
// modified.
func Percentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}
	ordered := slices.Clone(values)
	slices.Sort(ordered)
	last := float64(len(ordered) - 1)
	idx := int(math.Max(0, math.Min(last, math.RoundToEven(last*pct))))
	return ordered[idx]
}
