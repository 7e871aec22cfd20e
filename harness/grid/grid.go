// Package grid lays aggregated results onto a dense threads x N matrix
// whose axes are declared up front, for heatmaps and CSV export.
package grid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/analysis"
)

// ErrUnknownMetric reports a metric name the grid cannot extract.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric selects the value column of a grid.
type Metric string

const (
	MetricTime Metric = "avg_time_ms"
	MetricCost Metric = "best_cost"
)

// ParseMetric validates a metric name.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(name); m {
	case MetricTime, MetricCost:
		return m, nil
	}
	return "", fmt.Errorf("%w %q; valid: %s, %s", ErrUnknownMetric, name, MetricTime, MetricCost)
}

func (m Metric) value(p analysis.AggregatedPoint) float64 {
	if m == MetricTime {
		return p.AvgTimeMs
	}
	return p.BestCost
}

// Grid is a dense matrix over the declared axes. Cells[i][j] belongs to
// Threads[i] and Jobs[j]; a cell without data is absent, never zero.
type Grid struct {
	Metric  Metric
	Threads []int
	Jobs    []int
	Cells   [][]harness.Opt[float64]
}

// Materialize allocates a |threads| x |jobs| grid with every cell absent and
// fills the cells whose (Threads, N) appear on both axes. A coordinate's
// index is its first position in the declared list, so irregular spacing is
// fine. Points off the axes are ignored.
func Materialize(points []analysis.AggregatedPoint, threads, jobs []int, metric Metric) (*Grid, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	g := &Grid{
		Metric:  metric,
		Threads: append([]int(nil), threads...),
		Jobs:    append([]int(nil), jobs...),
		Cells:   make([][]harness.Opt[float64], len(threads)),
	}
	for i := range g.Cells {
		g.Cells[i] = make([]harness.Opt[float64], len(jobs))
	}

	row := indexOf(threads)
	col := indexOf(jobs)
	for _, p := range points {
		i, okT := row[p.Threads]
		j, okN := col[p.N]
		if okT && okN {
			g.Cells[i][j] = harness.Some(metric.value(p))
		}
	}
	return g, nil
}

func indexOf(axis []int) map[int]int {
	idx := make(map[int]int, len(axis))
	for i, v := range axis {
		if _, dup := idx[v]; !dup {
			idx[v] = i
		}
	}
	return idx
}

// At returns the cell at row i, column j.
func (g *Grid) At(i, j int) harness.Opt[float64] {
	return g.Cells[i][j]
}

// Defined counts cells holding a value.
func (g *Grid) Defined() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.IsSet() {
				n++
			}
		}
	}
	return n
}

// Bounds returns the smallest and largest defined value.
// ok is false when the grid has no data.
func (g *Grid) Bounds() (lo, hi float64, ok bool) {
	for _, row := range g.Cells {
		for _, c := range row {
			v, set := c.Get()
			if !set {
				continue
			}
			if !ok || v < lo {
				lo = v
			}
			if !ok || v > hi {
				hi = v
			}
			ok = true
		}
	}
	return lo, hi, ok
}

// WriteCSV writes the grid with a "threads" column followed by one column
// per N. Absent cells are empty.
func (g *Grid) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	header := []string{"threads"}
	for _, n := range g.Jobs {
		header = append(header, strconv.Itoa(n))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, thr := range g.Threads {
		row := []string{strconv.Itoa(thr)}
		for _, c := range g.Cells[i] {
			cell := ""
			if v, ok := c.Get(); ok {
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			}
			row = append(row, cell)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for threads=%d: %w", thr, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the grid to path.
func (g *Grid) SaveCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating grid file: %w", err)
	}
	if err := g.WriteCSV(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
