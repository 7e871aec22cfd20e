package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annealbench/annealbench/harness/chart"
	"github.com/annealbench/annealbench/harness/grid"
	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/plan"
)

var plotMetrics []string // heatmap metrics to render

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render charts from a sweep's summary ledger",
}

var plotCompareCmd = &cobra.Command{
	Use:   "compare [plan]",
	Short: "Render seq vs par comparison charts (default plan: compare)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := planArg(args, "compare")
		spec, layout := plotSetup(name)
		written, err := plotCompare(layout, name, spec)
		if err != nil {
			logrus.Fatalf("Plotting %s failed: %v", name, err)
		}
		for _, p := range written {
			logrus.Infof("Wrote %s", p)
		}
	},
}

var plotHeatmapCmd = &cobra.Command{
	Use:   "heatmap [plan]",
	Short: "Render threads x N heatmaps and export their matrices (default plan: heatmap)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := planArg(args, "heatmap")
		spec, layout := plotSetup(name)
		var metrics []grid.Metric
		for _, m := range plotMetrics {
			metric, err := grid.ParseMetric(m)
			if err != nil {
				logrus.Fatalf("Invalid --metric: %v", err)
			}
			metrics = append(metrics, metric)
		}
		written, err := plotHeatmaps(layout, name, spec, metrics)
		if err != nil {
			logrus.Fatalf("Plotting %s failed: %v", name, err)
		}
		for _, p := range written {
			logrus.Infof("Wrote %s", p)
		}
	},
}

func plotSetup(name string) (*plan.Spec, ledger.Layout) {
	spec, err := loadPlan(name)
	if err != nil {
		logrus.Fatalf("Failed to load plan: %v", err)
	}
	layout, err := ledger.EnsureDirs(viper.GetString(keyOut))
	if err != nil {
		logrus.Fatalf("Failed to prepare output directories: %v", err)
	}
	return spec, layout
}

// plotCompare renders the comparison figure set of a plan.
func plotCompare(layout ledger.Layout, name string, spec *plan.Spec) ([]string, error) {
	c, err := analyze(layout, name, spec)
	if err != nil {
		return nil, err
	}
	return chart.RenderComparison(layout.Figs, chart.Comparison{
		Machines: spec.Machines,
		Series:   c.series,
		Points:   c.norm,
		Gains:    c.gains,
	})
}

// plotHeatmaps materializes one grid per metric on the plan's declared axes,
// exports it as CSV under data/ and renders it under figs/.
func plotHeatmaps(layout ledger.Layout, name string, spec *plan.Spec, metrics []grid.Metric) ([]string, error) {
	c, err := analyze(layout, name, spec)
	if err != nil {
		return nil, err
	}
	threads, err := spec.ThreadAxis()
	if err != nil {
		return nil, err
	}
	jobs, err := spec.JobAxis()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, m := range metrics {
		g, err := grid.Materialize(c.points, threads, jobs, m)
		if err != nil {
			return written, err
		}
		logrus.Infof("%s grid: %d of %d cells defined", m, g.Defined(), len(threads)*len(jobs))

		csvPath := layout.SummaryPath(fmt.Sprintf("heatmap_%s.csv", m))
		if err := g.SaveCSV(csvPath); err != nil {
			return written, err
		}
		written = append(written, csvPath)

		png, err := chart.RenderHeatmap(layout.Figs, g, spec.Machines)
		if err != nil {
			return written, err
		}
		written = append(written, png)
	}
	return written, nil
}

func init() {
	plotHeatmapCmd.Flags().StringSliceVar(&plotMetrics, "metric",
		[]string{string(grid.MetricTime), string(grid.MetricCost)}, "Metrics to render (avg_time_ms, best_cost)")

	plotCmd.AddCommand(plotCompareCmd, plotHeatmapCmd)
	rootCmd.AddCommand(plotCmd)
}
