// Package chart renders comparison charts and heatmaps as PNG images.
//
// Every chart takes its series list and coordinate axes explicitly. Thread
// count 0 is the sequential baseline and is labelled "seq"; other series are
// labelled "par-<t>thr".
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/annealbench/annealbench/harness"
)

// ErrNoData reports a chart with nothing to draw.
var ErrNoData = errors.New("no data to plot")

// Options holds the labels and size of one chart.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  int // pixels; 0 selects a default
	Height int
}

func (o Options) size(defW, defH int) (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defW
	}
	if h <= 0 {
		h = defH
	}
	return w, h
}

// Series is one thread-count variant with at most one value per N.
// N values without an entry, or with an absent value, are not drawn.
type Series struct {
	Threads int
	Values  map[int]harness.Opt[float64]
}

// Label returns the legend text of the series.
func (s Series) Label() string {
	return harness.SeriesLabel(s.Threads)
}

func (s Series) at(n int) (float64, bool) {
	return s.Values[n].Get()
}

// palette is the series colour cycle; the baseline always takes the first entry.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

func seriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

var (
	referenceColor = drawing.ColorFromHex("808080")
	missingColor   = drawing.ColorFromHex("d9d9d9")
	hatchColor     = drawing.ColorFromHex("8c8c8c")
)

// slotTicks labels evenly spaced x slots 0..len(jobs)-1 with the N values.
// Unlabelled ticks half a slot outside each end keep edge bars and
// single-slot charts inside the plot.
func slotTicks(jobs []int) []chart.Tick {
	ticks := []chart.Tick{{Value: -0.5, Label: ""}}
	for i, n := range jobs {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: fmt.Sprint(n)})
	}
	return append(ticks, chart.Tick{Value: float64(len(jobs)) - 0.5, Label: ""})
}

// niceTicks generates about n tick marks covering [min, max] on 1/2/2.5/5
// multiples of a power of ten.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(math.Ceil(span/step), 2)
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	first := math.Floor(min / bestStep)
	last := math.Ceil(max / bestStep)
	if last*bestStep < max {
		last++
	}
	var ticks []chart.Tick
	for k := first; k <= last; k++ {
		v := k * bestStep
		ticks = append(ticks, chart.Tick{Value: v, Label: stepLabel(v, bestStep)})
	}
	return ticks
}

// stepLabel prints v with enough decimals to tell ticks step apart.
func stepLabel(v, step float64) string {
	if step >= 1 || v == 0 {
		return formatTick(v)
	}
	decimals := int(math.Ceil(-math.Log10(step) - 1e-9))
	if math.Abs(step*math.Pow(10, float64(decimals))-math.Round(step*math.Pow(10, float64(decimals)))) > 1e-9 {
		decimals++
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// flooredTicks is niceTicks with the axis pinned to start exactly at floor.
func flooredTicks(floor, max float64, n int) []chart.Tick {
	ticks := []chart.Tick{{Value: floor, Label: formatTick(floor)}}
	for _, t := range niceTicks(floor, max, n) {
		if t.Value > floor {
			ticks = append(ticks, t)
		}
	}
	if len(ticks) == 1 {
		ticks = append(ticks, chart.Tick{Value: floor + 1, Label: formatTick(floor + 1)})
	}
	return ticks
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	case av >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// referenceLine draws a dashed horizontal line at y across the plot.
func referenceLine(y, yMin, yMax float64) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		if y < yMin || y > yMax || yMax <= yMin {
			return
		}
		py := canvasBox.Bottom - int(math.Round((y-yMin)/(yMax-yMin)*float64(canvasBox.Height())))
		r.SetStrokeColor(referenceColor)
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{5, 3})
		r.MoveTo(canvasBox.Left, py)
		r.LineTo(canvasBox.Right, py)
		r.Stroke()
		r.ResetStyle()
	}
}

// rangeOf spans the first and last tick values.
func rangeOf(ticks []chart.Tick) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}
}

// SavePNG renders into the file at path.
func SavePNG(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render(file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return file.Close()
}
