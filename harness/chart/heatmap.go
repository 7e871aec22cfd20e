package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/annealbench/annealbench/harness/grid"
)

// ramp is a perceptually ordered sequential palette, low to high.
var ramp = []drawing.Color{
	drawing.ColorFromHex("440154"),
	drawing.ColorFromHex("3b528b"),
	drawing.ColorFromHex("21918c"),
	drawing.ColorFromHex("5ec962"),
	drawing.ColorFromHex("fde725"),
}

// rampColor interpolates the palette at t in [0, 1].
func rampColor(t float64) drawing.Color {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(ramp)-1)
	i := int(pos)
	if i >= len(ramp)-1 {
		return ramp[len(ramp)-1]
	}
	f := pos - float64(i)
	a, b := ramp[i], ramp[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + f*(float64(y)-float64(x)))) }
	return drawing.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// HeatmapOptions labels a heatmap and its colour bar.
type HeatmapOptions struct {
	Options
	ValueLabel string
}

// Heatmap draws g with N along x and thread count along y, the first thread
// count at the bottom. Absent cells are grey with a cross so they cannot be
// read as a value.
func Heatmap(w io.Writer, opts HeatmapOptions, g *grid.Grid) error {
	lo, hi, ok := g.Bounds()
	if !ok {
		return ErrNoData
	}

	yTicks := []chart.Tick{{Value: -0.5, Label: ""}}
	for i, thr := range g.Threads {
		yTicks = append(yTicks, chart.Tick{Value: float64(i), Label: fmt.Sprint(thr)})
	}
	yTicks = append(yTicks, chart.Tick{Value: float64(len(g.Threads)) - 0.5, Label: ""})

	width, height := opts.size(1200, 600)
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 110, Bottom: 16}},
		XAxis:      chart.XAxis{Name: opts.XLabel, Ticks: slotTicks(g.Jobs)},
		YAxis:      chart.YAxis{Name: opts.YLabel, Ticks: yTicks},
		Series:     []chart.Series{heatSeries{grid: g, lo: lo, hi: hi}},
		Elements:   []chart.Renderable{colorBar(lo, hi, opts.ValueLabel)},
	}
	return ch.Render(chart.PNG, w)
}

type heatSeries struct {
	grid   *grid.Grid
	lo, hi float64
}

func (h heatSeries) GetName() string           { return string(h.grid.Metric) }
func (h heatSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (h heatSeries) GetStyle() chart.Style     { return chart.Style{} }
func (h heatSeries) Validate() error           { return nil }

func (h heatSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	for i := range h.grid.Threads {
		for j := range h.grid.Jobs {
			box := chart.Box{
				Left:   canvasBox.Left + xrange.Translate(float64(j)-0.5),
				Right:  canvasBox.Left + xrange.Translate(float64(j)+0.5),
				Top:    canvasBox.Bottom - yrange.Translate(float64(i)+0.5),
				Bottom: canvasBox.Bottom - yrange.Translate(float64(i)-0.5),
			}
			v, ok := h.grid.At(i, j).Get()
			if !ok {
				drawMissing(r, box)
				continue
			}
			t := 0.5
			if h.hi > h.lo {
				t = (v - h.lo) / (h.hi - h.lo)
			}
			c := rampColor(t)
			chart.Draw.Box(r, box, chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1})
		}
	}
}

func drawMissing(r chart.Renderer, box chart.Box) {
	chart.Draw.Box(r, box, chart.Style{FillColor: missingColor, StrokeColor: missingColor, StrokeWidth: 1})
	r.SetStrokeColor(hatchColor)
	r.SetStrokeWidth(1)
	r.MoveTo(box.Left, box.Top)
	r.LineTo(box.Right, box.Bottom)
	r.MoveTo(box.Left, box.Bottom)
	r.LineTo(box.Right, box.Top)
	r.Stroke()
	r.ResetStyle()
}

// colorBar draws the value scale to the right of the plot with its bounds.
func colorBar(lo, hi float64, label string) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		const steps = 64
		left := canvasBox.Right + 24
		right := left + 16
		height := float64(canvasBox.Height())
		for s := 0; s < steps; s++ {
			c := rampColor(float64(s) / (steps - 1))
			chart.Draw.Box(r, chart.Box{
				Left:   left,
				Right:  right,
				Top:    canvasBox.Bottom - int(height*float64(s+1)/steps),
				Bottom: canvasBox.Bottom - int(height*float64(s)/steps),
			}, chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1})
		}

		text := chart.Style{FontColor: chart.ColorBlack, FontSize: 9}.InheritFrom(defaults)
		chart.Draw.Text(r, formatTick(hi), right+4, canvasBox.Top+8, text)
		chart.Draw.Text(r, formatTick(lo), right+4, canvasBox.Bottom, text)
		if label != "" {
			chart.Draw.Text(r, label, left, canvasBox.Top-8, text)
		}
	}
}
