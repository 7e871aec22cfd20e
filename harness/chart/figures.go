package chart

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/analysis"
	"github.com/annealbench/annealbench/harness/grid"
)

// SeriesOf builds one Series per thread count in order, reading each value
// from the normalized point with that thread count.
func SeriesOf(points []analysis.NormalizedPoint, threads []int, value func(analysis.NormalizedPoint) harness.Opt[float64]) []Series {
	out := make([]Series, len(threads))
	idx := make(map[int]int, len(threads))
	for i, thr := range threads {
		out[i] = Series{Threads: thr, Values: map[int]harness.Opt[float64]{}}
		idx[thr] = i
	}
	for _, p := range points {
		if i, ok := idx[p.Threads]; ok {
			out[i].Values[p.N] = value(p)
		}
	}
	return out
}

// GainSeriesOf builds one Series per thread count from gains. Undefined
// gains are plotted at their sentinel height of 0.
func GainSeriesOf(gains []analysis.GainPoint, threads []int, pick func(analysis.GainPoint) analysis.Gain) []Series {
	out := make([]Series, 0, len(threads))
	for _, thr := range threads {
		s := Series{Threads: thr, Values: map[int]harness.Opt[float64]{}}
		for _, g := range gains {
			if g.Threads == thr {
				s.Values[g.N] = harness.Some(pick(g).Sentinel())
			}
		}
		out = append(out, s)
	}
	return out
}

// Comparison is the input of the comparison figure set.
type Comparison struct {
	Machines int
	Series   []int // thread counts; 0 is the baseline
	Points   []analysis.NormalizedPoint
	Gains    []analysis.GainPoint
}

// RenderComparison writes the comparison charts into dir and returns the
// written paths. The N slots are the job counts present in Points. A chart
// with nothing to draw, such as gains without a baseline, is skipped.
func RenderComparison(dir string, c Comparison) ([]string, error) {
	jobs := analysis.JobCounts(c.Points)
	if len(jobs) == 0 {
		return nil, ErrNoData
	}
	xLabel := "N (jobs)"
	suffix := fmt.Sprintf(" (M=%d)", c.Machines)

	var parallel []int
	for _, thr := range c.Series {
		if thr != 0 {
			parallel = append(parallel, thr)
		}
	}

	figs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{"line_time_cmp.png", func(w io.Writer) error {
			return Line(w, Options{Title: "Mean run time" + suffix, XLabel: xLabel, YLabel: "avg_time_ms"},
				jobs, SeriesOf(c.Points, c.Series, func(p analysis.NormalizedPoint) harness.Opt[float64] {
					return harness.Some(p.AvgTimeMs)
				}), PseudoLog)
		}},
		{"line_cost_cmp.png", func(w io.Writer) error {
			return Line(w, Options{Title: "Best cost" + suffix, XLabel: xLabel, YLabel: "best_cost"},
				jobs, SeriesOf(c.Points, c.Series, func(p analysis.NormalizedPoint) harness.Opt[float64] {
					return harness.Some(p.BestCost)
				}), PseudoLog)
		}},
		{"line_cost_excess_cmp.png", func(w io.Writer) error {
			return Line(w, Options{Title: "Excess cost over best variant" + suffix, XLabel: xLabel, YLabel: "best_cost - best_overall(N)"},
				jobs, SeriesOf(c.Points, c.Series, func(p analysis.NormalizedPoint) harness.Opt[float64] {
					return harness.Some(p.ExcessCost)
				}), PseudoLog)
		}},
		{"bar_cost_rel_cmp.png", func(w io.Writer) error {
			return Bars(w, BarOptions{
				Options: Options{Title: "Relative cost" + suffix, XLabel: xLabel, YLabel: "100 * best_cost / best_overall(N), %"},
				Floor:   100,
			}, jobs, SeriesOf(c.Points, c.Series, func(p analysis.NormalizedPoint) harness.Opt[float64] {
				return p.RelCostPct
			}))
		}},
		{"bar_speed_gain.png", func(w io.Writer) error {
			return Bars(w, BarOptions{
				Options:   Options{Title: "Speed gain vs seq" + suffix, XLabel: xLabel, YLabel: "100 * T_seq / T_par, %"},
				Reference: harness.Some(100.0),
			}, jobs, GainSeriesOf(c.Gains, parallel, func(g analysis.GainPoint) analysis.Gain { return g.Speed }))
		}},
		{"bar_quality_gain.png", func(w io.Writer) error {
			return Bars(w, BarOptions{
				Options:   Options{Title: "Quality gain vs seq, higher is better" + suffix, XLabel: xLabel, YLabel: "100 * C_seq / C_par, %"},
				Floor:     100,
				Reference: harness.Some(100.0),
			}, jobs, GainSeriesOf(c.Gains, parallel, func(g analysis.GainPoint) analysis.Gain { return g.Quality }))
		}},
	}

	var written []string
	for _, f := range figs {
		path := filepath.Join(dir, f.name)
		err := SavePNG(path, f.render)
		if errors.Is(err, ErrNoData) {
			logrus.Warnf("Skipping %s: nothing to plot", f.name)
			continue
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// HeatmapFile names the heatmap image of a metric.
func HeatmapFile(m grid.Metric) string {
	if m == grid.MetricCost {
		return "heatmap_quality.png"
	}
	return "heatmap_time.png"
}

// RenderHeatmap writes the heatmap of g into dir and returns its path.
func RenderHeatmap(dir string, g *grid.Grid, machines int) (string, error) {
	title := fmt.Sprintf("Mean run time (M=%d)", machines)
	if g.Metric == grid.MetricCost {
		title = fmt.Sprintf("Best cost, lower is better (M=%d)", machines)
	}
	path := filepath.Join(dir, HeatmapFile(g.Metric))
	err := SavePNG(path, func(w io.Writer) error {
		return Heatmap(w, HeatmapOptions{
			Options:    Options{Title: title, XLabel: "N (jobs)", YLabel: "threads"},
			ValueLabel: string(g.Metric),
		}, g)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
