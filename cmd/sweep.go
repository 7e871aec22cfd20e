package cmd

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/plan"
	"github.com/annealbench/annealbench/harness/solver"
	"github.com/annealbench/annealbench/harness/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [plan]",
	Short: "Run every experiment of a plan through the solver",
	Long: "Expands the plan (default: compare) into experiment configs and runs them one at a time. " +
		"Failed invocations are recorded in the summary ledger and the sweep continues.",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := planArg(args, "compare")
		spec, err := loadPlan(name)
		if err != nil {
			logrus.Fatalf("Failed to load plan: %v", err)
		}
		bin := viper.GetString(keySolver)
		if _, err := exec.LookPath(bin); err != nil {
			logrus.Fatalf("Solver binary not usable: %v", err)
		}
		layout, err := ledger.EnsureDirs(viper.GetString(keyOut))
		if err != nil {
			logrus.Fatalf("Failed to prepare output directories: %v", err)
		}
		if _, err := runSweep(context.Background(), solver.NewExecRunner(bin), layout, spec); err != nil {
			logrus.Fatalf("Sweep %s aborted: %v", name, err)
		}
	},
}

// runSweep expands spec and runs it with runner.
func runSweep(ctx context.Context, runner solver.Runner, layout ledger.Layout, spec *plan.Spec) (sweep.Stats, error) {
	cfgs, err := plan.Generate(spec)
	if err != nil {
		return sweep.Stats{}, fmt.Errorf("generating configs: %w", err)
	}
	d := sweep.New(runner, layout, spec.Summary)
	logrus.Infof("Sweep %s: %d experiments, summary %s", d.SweepID(), len(cfgs), layout.SummaryPath(spec.Summary))
	return d.Run(ctx, cfgs)
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
