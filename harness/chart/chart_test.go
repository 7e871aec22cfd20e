package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/analysis"
	"github.com/annealbench/annealbench/harness/grid"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func series(threads int, values map[int]float64) Series {
	s := Series{Threads: threads, Values: map[int]harness.Opt[float64]{}}
	for n, v := range values {
		s.Values[n] = harness.Some(v)
	}
	return s
}

func TestSeries_Label(t *testing.T) {
	assert.Equal(t, "seq", Series{Threads: 0}.Label())
	assert.Equal(t, "par-12thr", Series{Threads: 12}.Label())
}

func TestSlotTicks_EvenlySpacedAndLabelledWithN(t *testing.T) {
	ticks := slotTicks([]int{100, 500, 10000})

	require.Len(t, ticks, 5)
	assert.Equal(t, -0.5, ticks[0].Value)
	assert.Equal(t, "", ticks[0].Label)
	for i, want := range []string{"100", "500", "10000"} {
		assert.Equal(t, float64(i), ticks[i+1].Value)
		assert.Equal(t, want, ticks[i+1].Label)
	}
	assert.Equal(t, 2.5, ticks[4].Value)
}

func TestFlooredTicks_StartAtFloor(t *testing.T) {
	for _, hi := range []float64{100.3, 100.5, 100.7, 104.17, 180, 2500} {
		ticks := flooredTicks(100, hi, 6)
		require.GreaterOrEqual(t, len(ticks), 2, "hi=%g", hi)
		assert.Equal(t, 100.0, ticks[0].Value, "hi=%g", hi)
		assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, hi, "hi=%g", hi)
		for i := 1; i < len(ticks); i++ {
			assert.Greater(t, ticks[i].Value, ticks[i-1].Value)
		}
	}
}

func TestNiceTicks_TopTickCoversMax(t *testing.T) {
	// GIVEN maxima whose tick step is not exactly representable
	for _, c := range []struct{ lo, hi float64 }{
		{0, 0.3}, {0, 0.7}, {100, 100.3}, {100, 100.7}, {1, 3.3}, {0, 1e-3},
	} {
		// WHEN ticks are generated
		ticks := niceTicks(c.lo, c.hi, 6)

		// THEN the axis reaches the data maximum and labels stay distinct
		require.NotEmpty(t, ticks, "hi=%g", c.hi)
		assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, c.hi, "hi=%g", c.hi)
		assert.LessOrEqual(t, ticks[0].Value, c.lo, "lo=%g", c.lo)
		seen := map[string]bool{}
		for _, tk := range ticks {
			assert.False(t, seen[tk.Label], "duplicate label %q for hi=%g", tk.Label, c.hi)
			seen[tk.Label] = true
		}
	}
}

func TestFlooredTicks_LabelsFollowStep(t *testing.T) {
	ticks := flooredTicks(100, 100.5, 6)

	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"100", "100.1", "100.2", "100.3", "100.4", "100.5"}, labels)
}

func TestRampColor_Endpoints(t *testing.T) {
	assert.Equal(t, ramp[0], rampColor(0))
	assert.Equal(t, ramp[len(ramp)-1], rampColor(1))
	assert.Equal(t, ramp[0], rampColor(-3))
	assert.Equal(t, ramp[len(ramp)-1], rampColor(7))
}

func TestLine_RendersPNG(t *testing.T) {
	jobs := []int{100, 500, 1000}
	all := []Series{
		series(0, map[int]float64{100: 12, 500: 300, 1000: 1500}),
		series(4, map[int]float64{100: 5, 1000: 400}),
	}
	for _, ys := range []YScale{Linear, PseudoLog} {
		var buf bytes.Buffer
		require.NoError(t, Line(&buf, Options{Title: "t"}, jobs, all, ys))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	}
}

func TestLine_ZeroValuesOnPseudoLog(t *testing.T) {
	// GIVEN excess costs that are exactly zero for the best variant
	var buf bytes.Buffer
	err := Line(&buf, Options{}, []int{100}, []Series{
		series(0, map[int]float64{100: 20}),
		series(2, map[int]float64{100: 0}),
	}, PseudoLog)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestLine_NoData(t *testing.T) {
	err := Line(&bytes.Buffer{}, Options{}, []int{100}, []Series{{Threads: 2}}, Linear)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBars_RendersPNG(t *testing.T) {
	var buf bytes.Buffer
	err := Bars(&buf, BarOptions{Floor: 100, Reference: harness.Some(100.0)}, []int{100, 500}, []Series{
		series(0, map[int]float64{100: 104.17, 500: 100}),
		series(2, map[int]float64{100: 100}),
		{Threads: 4, Values: map[int]harness.Opt[float64]{500: harness.None[float64]()}},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestBars_AllAbsent_NoData(t *testing.T) {
	err := Bars(&bytes.Buffer{}, BarOptions{Floor: 100}, []int{100}, []Series{
		{Threads: 2, Values: map[int]harness.Opt[float64]{100: harness.None[float64]()}},
	})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBarSeries_Validate(t *testing.T) {
	bs := barSeries{name: "x", slots: []float64{0, 1}, values: []harness.Opt[float64]{harness.Some(1.0)}}
	assert.Error(t, bs.Validate())
}

func TestHeatmap_RendersPNGWithMissingCells(t *testing.T) {
	points := []analysis.AggregatedPoint{
		{Key: analysis.Key{Threads: 1, N: 100}, AvgTimeMs: 10, BestCost: 400},
		{Key: analysis.Key{Threads: 2, N: 350}, AvgTimeMs: 40, BestCost: 900},
	}
	g, err := grid.Materialize(points, []int{1, 2, 4}, []int{100, 350}, grid.MetricTime)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, HeatmapOptions{ValueLabel: "avg_time_ms"}, g))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestHeatmap_EmptyGrid_NoData(t *testing.T) {
	g, err := grid.Materialize(nil, []int{1}, []int{100}, grid.MetricCost)
	require.NoError(t, err)

	err = Heatmap(&bytes.Buffer{}, HeatmapOptions{}, g)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestGainSeriesOf_UndefinedGainsPlotAtZero(t *testing.T) {
	gains := []analysis.GainPoint{
		{Key: analysis.Key{Threads: 4, N: 100}, Speed: analysis.GainOf(harness.Some(1000.0), harness.Some(250.0))},
		{Key: analysis.Key{Threads: 4, N: 500}},
	}

	s := GainSeriesOf(gains, []int{4}, func(g analysis.GainPoint) analysis.Gain { return g.Speed })

	require.Len(t, s, 1)
	assert.Equal(t, 400.0, s[0].Values[100].Or(-1))
	assert.Equal(t, 0.0, s[0].Values[500].Or(-1))
}

func TestRenderComparison_WritesFigureSet(t *testing.T) {
	// GIVEN normalized points and gains for seq and two parallel variants
	records := []harness.RunRecord{}
	add := func(thr, n int, timeMs, cost float64) {
		records = append(records, harness.RunRecord{
			Threads: thr, M: harness.Some(4), N: harness.Some(n),
			AvgTimeMs: harness.Some(timeMs), BestCost: harness.Some(cost),
		})
	}
	add(0, 100, 1000, 500)
	add(2, 100, 600, 480)
	add(4, 100, 250, 480)
	add(0, 500, 9000, 2600)
	add(4, 500, 2000, 2500)
	points := analysis.Aggregate(records, analysis.Filter{})
	series := []int{0, 2, 4}
	dir := t.TempDir()

	// WHEN rendered
	written, err := RenderComparison(dir, Comparison{
		Machines: 4,
		Series:   series,
		Points:   analysis.Normalize(points),
		Gains:    analysis.Gains(points, 0, series),
	})

	// THEN all six charts exist
	require.NoError(t, err)
	assert.Len(t, written, 6)
	for _, name := range []string{
		"line_time_cmp.png", "line_cost_cmp.png", "line_cost_excess_cmp.png",
		"bar_cost_rel_cmp.png", "bar_speed_gain.png", "bar_quality_gain.png",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
	}
}

func TestRenderComparison_BaselineOnlySkipsGainCharts(t *testing.T) {
	points := []analysis.AggregatedPoint{{Key: analysis.Key{Threads: 0, N: 100}, AvgTimeMs: 5, BestCost: 50, Samples: 1}}
	dir := t.TempDir()

	written, err := RenderComparison(dir, Comparison{
		Machines: 4,
		Series:   []int{0},
		Points:   analysis.Normalize(points),
		Gains:    analysis.Gains(points, 0, []int{0}),
	})

	require.NoError(t, err)
	assert.Len(t, written, 4)
	assert.NoFileExists(t, filepath.Join(dir, "bar_speed_gain.png"))
}

func TestRenderComparison_MissingBaselineDrawsSentinelGains(t *testing.T) {
	points := []analysis.AggregatedPoint{{Key: analysis.Key{Threads: 2, N: 100}, AvgTimeMs: 5, BestCost: 50, Samples: 1}}

	written, err := RenderComparison(t.TempDir(), Comparison{
		Machines: 4,
		Series:   []int{0, 2},
		Points:   analysis.Normalize(points),
		Gains:    analysis.Gains(points, 0, []int{0, 2}),
	})

	require.NoError(t, err)
	assert.Len(t, written, 6)
}

func TestRenderHeatmap_FileName(t *testing.T) {
	g, err := grid.Materialize([]analysis.AggregatedPoint{{Key: analysis.Key{Threads: 1, N: 100}, BestCost: 7}},
		[]int{1}, []int{100}, grid.MetricCost)
	require.NoError(t, err)

	path, err := RenderHeatmap(t.TempDir(), g, 4)

	require.NoError(t, err)
	assert.Equal(t, "heatmap_quality.png", filepath.Base(path))
	assert.FileExists(t, path)
}
