// Package report prints the normalized comparison as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/analysis"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("46"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Report is everything printed by Render.
type Report struct {
	Title   string
	Points  []analysis.NormalizedPoint
	Gains   []analysis.SeriesGain
	Records int // ledger rows read
	Failed  int // ledger rows carrying an error
}

// Render writes the quality table, then the per-series gain summary.
// Rows at their N's best cost are highlighted.
func Render(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(r.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%d ledger rows, %d failed", r.Records, r.Failed))); err != nil {
		return err
	}

	best := map[int]bool{}
	rows := make([][]string, 0, len(r.Points))
	for i, p := range r.Points {
		best[i] = p.ExcessCost == 0
		rows = append(rows, []string{
			harness.SeriesLabel(p.Threads),
			strconv.Itoa(p.N),
			strconv.Itoa(p.Samples),
			fmt.Sprintf("%.2f ± %.2f", p.AvgTimeMs, p.TimeStdDev),
			num(p.BestCost),
			num(p.ExcessCost),
			optPct(p.RelCostPct),
		})
	}
	quality := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("series", "N", "samples", "avg_time_ms", "best_cost", "excess_cost", "rel_cost_pct").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case best[row]:
				return bestStyle
			default:
				return cellStyle
			}
		})
	if _, err := fmt.Fprintln(w, quality.Render()); err != nil {
		return err
	}

	if len(r.Gains) == 0 {
		return nil
	}
	gainRows := make([][]string, 0, len(r.Gains))
	for _, g := range r.Gains {
		gainRows = append(gainRows, []string{
			harness.SeriesLabel(g.Threads),
			optPct(g.Speed.Opt),
			optPct(g.Quality.Opt),
			strconv.Itoa(g.Defined),
		})
	}
	gains := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("series", "speed gain (geomean)", "quality gain (geomean)", "N compared").
		Rows(gainRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, gains.Render())
	return err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// optPct renders a percentage, or "n/a" when undefined.
func optPct(o harness.Opt[float64]) string {
	v, ok := o.Get()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v)
}
