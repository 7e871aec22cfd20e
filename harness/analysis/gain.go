package analysis

import (
	"github.com/aclements/go-moremath/stats"

	"github.com/annealbench/annealbench/harness"
)

// Gain is a percentage 100*baseline/variant. It is undefined when either side
// is missing or the variant is not positive; an undefined gain is never 0.
type Gain struct {
	harness.Opt[float64]
}

// GainOf computes the gain of variant against baseline.
func GainOf(baseline, variant harness.Opt[float64]) Gain {
	b, okB := baseline.Get()
	v, okV := variant.Get()
	if !okB || !okV || v <= 0 {
		return Gain{}
	}
	return Gain{harness.Some(100 * b / v)}
}

// Sentinel returns the gain for plotting: undefined gains are drawn at 0.
func (g Gain) Sentinel() float64 {
	return g.Or(0)
}

// GainPoint compares one parallel variant with the baseline at one N.
// Speed uses mean time; Quality uses best cost. Both exceed 100 when the
// variant is better.
type GainPoint struct {
	Key
	Speed   Gain
	Quality Gain
}

// Gains compares every series except baseline against the baseline series,
// at every N present in points. Results are ordered series-major, N ascending.
func Gains(points []AggregatedPoint, baseline int, series []int) []GainPoint {
	byKey := make(map[Key]AggregatedPoint, len(points))
	for _, p := range points {
		byKey[p.Key] = p
	}
	lookup := func(k Key) (t, c harness.Opt[float64]) {
		if p, ok := byKey[k]; ok {
			return harness.Some(p.AvgTimeMs), harness.Some(p.BestCost)
		}
		return
	}

	ns := JobCounts(points)
	var out []GainPoint
	for _, thr := range series {
		if thr == baseline {
			continue
		}
		for _, n := range ns {
			bt, bc := lookup(Key{baseline, n})
			vt, vc := lookup(Key{thr, n})
			out = append(out, GainPoint{
				Key:     Key{Threads: thr, N: n},
				Speed:   GainOf(bt, vt),
				Quality: GainOf(bc, vc),
			})
		}
	}
	return out
}

// SeriesGain summarizes one series' gains across N.
type SeriesGain struct {
	Threads int
	Speed   Gain // geometric mean of the defined speed gains
	Quality Gain // geometric mean of the defined quality gains
	Defined int  // N values where the speed gain is defined
}

// SummarizeGains reduces gains to one geometric mean per series, in
// first-seen series order. Undefined and zero gains are skipped.
func SummarizeGains(gains []GainPoint) []SeriesGain {
	var order []int
	speed := map[int][]float64{}
	quality := map[int][]float64{}
	seen := map[int]bool{}
	for _, g := range gains {
		if !seen[g.Threads] {
			seen[g.Threads] = true
			order = append(order, g.Threads)
		}
		if v := g.Speed.Or(0); v > 0 {
			speed[g.Threads] = append(speed[g.Threads], v)
		}
		if v := g.Quality.Or(0); v > 0 {
			quality[g.Threads] = append(quality[g.Threads], v)
		}
	}

	out := make([]SeriesGain, 0, len(order))
	for _, thr := range order {
		sg := SeriesGain{Threads: thr, Defined: len(speed[thr])}
		if xs := speed[thr]; len(xs) > 0 {
			sg.Speed = Gain{harness.Some(stats.GeoMean(xs))}
		}
		if xs := quality[thr]; len(xs) > 0 {
			sg.Quality = Gain{harness.Some(stats.GeoMean(xs))}
		}
		out = append(out, sg)
	}
	return out
}
