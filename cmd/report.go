package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annealbench/annealbench/harness/analysis"
	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/plan"
	"github.com/annealbench/annealbench/harness/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [plan]",
	Short: "Print normalized quality and gain tables for a plan (default: compare)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := planArg(args, "compare")
		spec, err := loadPlan(name)
		if err != nil {
			logrus.Fatalf("Failed to load plan: %v", err)
		}
		layout := ledger.LayoutAt(viper.GetString(keyOut))
		if err := printReport(os.Stdout, layout, name, spec); err != nil {
			logrus.Fatalf("Report for %s failed: %v", name, err)
		}
	},
}

func printReport(w io.Writer, layout ledger.Layout, name string, spec *plan.Spec) error {
	c, err := analyze(layout, name, spec)
	if err != nil {
		return err
	}
	return report.Render(w, report.Report{
		Title:   fmt.Sprintf("%s (M=%d)", name, spec.Machines),
		Points:  c.norm,
		Gains:   analysis.SummarizeGains(c.gains),
		Records: len(c.records),
		Failed:  c.failed(),
	})
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
