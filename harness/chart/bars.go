package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/annealbench/annealbench/harness"
)

// groupWidth is the fraction of a slot taken by one group of bars.
const groupWidth = 0.8

// BarOptions bound the y axis of a grouped bar chart.
type BarOptions struct {
	Options
	Floor     float64              // bars grow from here; the axis never starts lower
	Reference harness.Opt[float64] // dashed horizontal line, e.g. 100%
}

// Bars draws one bar per series in each N slot, grouped side by side.
// The y axis runs from Floor to the largest value; values at or below Floor
// and absent values leave an empty bar position.
func Bars(w io.Writer, opts BarOptions, jobs []int, series []Series) error {
	if len(series) == 0 || len(jobs) == 0 {
		return ErrNoData
	}
	hi, found := math.Inf(-1), false
	for _, s := range series {
		for _, n := range jobs {
			if v, ok := s.at(n); ok {
				hi, found = math.Max(hi, v), true
			}
		}
	}
	if !found {
		return ErrNoData
	}
	if hi <= opts.Floor {
		hi = opts.Floor + 1
	}

	barWidth := groupWidth / float64(len(series))
	plotted := make([]chart.Series, 0, len(series))
	for i, s := range series {
		offset := (float64(i) - float64(len(series)-1)/2) * barWidth
		bs := barSeries{
			name:  s.Label(),
			width: barWidth,
			floor: opts.Floor,
			style: chart.Style{
				FillColor:   seriesColor(i),
				StrokeColor: seriesColor(i),
				StrokeWidth: 1,
			},
		}
		for slot, n := range jobs {
			bs.slots = append(bs.slots, float64(slot)+offset)
			bs.values = append(bs.values, s.Values[n])
		}
		plotted = append(plotted, bs)
	}

	yTicks := flooredTicks(opts.Floor, hi, 6)
	yMin, yMax := yTicks[0].Value, yTicks[len(yTicks)-1].Value
	width, height := opts.size(1000, 500)
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: opts.XLabel, Ticks: slotTicks(jobs)},
		YAxis: chart.YAxis{
			Name:           opts.YLabel,
			Ticks:          yTicks,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: chart.Style{StrokeColor: referenceColor, StrokeWidth: 0.5, StrokeDashArray: []float64{4, 4}},
			GridLines:      gridLines(yTicks),
		},
		Series: plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if ref, ok := opts.Reference.Get(); ok {
		ch.Elements = append(ch.Elements, referenceLine(ref, yMin, yMax))
	}
	return ch.Render(chart.PNG, w)
}

// barSeries is one colour of a grouped bar chart. slots are bar centres in
// x-axis units; values line up with slots.
type barSeries struct {
	name   string
	style  chart.Style
	slots  []float64
	values []harness.Opt[float64]
	width  float64
	floor  float64
}

func (b barSeries) GetName() string           { return b.name }
func (b barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (b barSeries) GetStyle() chart.Style     { return b.style }

func (b barSeries) Validate() error {
	if len(b.slots) != len(b.values) {
		return fmt.Errorf("bar series %s: %d slots for %d values", b.name, len(b.slots), len(b.values))
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := b.style.InheritFrom(defaults)
	base := math.Max(b.floor, yrange.GetMin())
	for i, v := range b.values {
		val, ok := v.Get()
		if !ok {
			continue
		}
		top := math.Min(val, yrange.GetMax())
		if top <= base {
			continue
		}
		box := chart.Box{
			Left:   canvasBox.Left + xrange.Translate(b.slots[i]-b.width/2),
			Right:  canvasBox.Left + xrange.Translate(b.slots[i]+b.width/2),
			Top:    canvasBox.Bottom - yrange.Translate(top),
			Bottom: canvasBox.Bottom - yrange.Translate(base),
		}
		chart.Draw.Box(r, box, style)
	}
}
