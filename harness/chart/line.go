package chart

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/annealbench/annealbench/harness/scale"
)

// YScale selects how line values map onto the y axis.
type YScale int

const (
	// Linear plots values as they are.
	Linear YScale = iota
	// PseudoLog plots scale.Transform(v) with decade ticks, so zero stays visible.
	PseudoLog
)

// Line draws one line per series over evenly spaced slots labelled with jobs.
// Slot spacing does not depend on the N values themselves.
func Line(w io.Writer, opts Options, jobs []int, series []Series, ys YScale) error {
	var (
		plotted []chart.Series
		raw     []float64
	)
	for i, s := range series {
		var xs, vs []float64
		for slot, n := range jobs {
			v, ok := s.at(n)
			if !ok {
				continue
			}
			raw = append(raw, v)
			if ys == PseudoLog {
				v = scale.Transform(v)
			}
			xs = append(xs, float64(slot))
			vs = append(vs, v)
		}
		if len(xs) == 0 {
			continue
		}
		c := seriesColor(i)
		plotted = append(plotted, chart.ContinuousSeries{
			Name:    s.Label(),
			XValues: xs,
			YValues: vs,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 2,
				DotColor:    c,
				DotWidth:    4,
			},
		})
	}
	if len(plotted) == 0 {
		return ErrNoData
	}

	yTicks := lineTicks(raw, ys)
	width, height := opts.size(1000, 600)
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: opts.XLabel, Ticks: slotTicks(jobs)},
		YAxis: chart.YAxis{
			Name:           opts.YLabel,
			Ticks:          yTicks,
			Range:          rangeOf(yTicks),
			GridMajorStyle: chart.Style{StrokeColor: referenceColor, StrokeWidth: 0.5, StrokeDashArray: []float64{4, 4}},
			GridLines:      gridLines(yTicks),
		},
		Series: plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func lineTicks(raw []float64, ys YScale) []chart.Tick {
	if ys == PseudoLog {
		var ticks []chart.Tick
		for _, t := range scale.Ticks(raw) {
			ticks = append(ticks, chart.Tick{Value: t.Value, Label: t.Label})
		}
		// headroom above the top decade
		return append(ticks, chart.Tick{Value: scale.Top(raw), Label: ""})
	}
	lo, hi := raw[0], raw[0]
	for _, v := range raw {
		lo, hi = min(lo, v), max(hi, v)
	}
	return niceTicks(lo, hi, 6)
}

func gridLines(ticks []chart.Tick) []chart.GridLine {
	lines := make([]chart.GridLine, 0, len(ticks))
	for _, t := range ticks {
		if t.Label != "" {
			lines = append(lines, chart.GridLine{Value: t.Value})
		}
	}
	return lines
}
