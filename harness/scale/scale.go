// Package scale implements the zero-inclusive pseudo-logarithmic display
// scale used for values that span several orders of magnitude and may be 0.
//
// The transform is for display only; stored values are never transformed.
package scale

import (
	"math"
	"strconv"
)

// headroom is added above the top tick so the highest point is not clipped.
const headroom = 0.2

// Transform maps v onto the display axis:
//
//	v <= 0      -> 0
//	0 < v < 1   -> v
//	v >= 1      -> 1 + log10(v)
//
// It is continuous and non-decreasing on v >= 0, and maps 10^k to k+1.
// The (0, 1) segment is linear on purpose: 1+log10(v) there would drop below
// zero and fold sub-unit values under 0. Do not replace it with the log form.
func Transform(v float64) float64 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v < 1:
		return v
	default:
		return 1 + log10(v)
	}
}

// log10 is exact at integral powers of ten, where math.Log10 may be off by an ulp.
func log10(v float64) float64 {
	l := math.Log10(v)
	if r := math.Round(l); math.Pow(10, r) == v {
		return r
	}
	return l
}

// Tick is one labelled position on the transformed axis.
type Tick struct {
	Value float64
	Label string
}

// MaxPow returns ceil(log10(max positive value)), clamped at 0.
// It is 0 when no value is positive.
func MaxPow(values []float64) int {
	maxV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	k := 0
	for p := 1.0; p < maxV; p *= 10 {
		k++
	}
	return k
}

// Ticks returns ticks at 0, 1, ..., 1+MaxPow(values), labelled
// "0", "1", "1e1", "1e2", and so on.
func Ticks(values []float64) []Tick {
	maxPow := MaxPow(values)
	ticks := []Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	for k := 1; k <= maxPow; k++ {
		ticks = append(ticks, Tick{Value: float64(k + 1), Label: "1e" + strconv.Itoa(k)})
	}
	return ticks
}

// Top returns the upper bound of the display axis for values.
func Top(values []float64) float64 {
	return float64(1+MaxPow(values)) + headroom
}
