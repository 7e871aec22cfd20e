package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annealbench/annealbench/harness/plan"
	"github.com/annealbench/annealbench/harness/solver"
)

var planVerbose bool // dump full configs instead of the command listing

var planCmd = &cobra.Command{
	Use:   "plan [plan]",
	Short: "List the experiments a plan would run, without running them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := loadPlan(planArg(args, "compare"))
		if err != nil {
			logrus.Fatalf("Failed to load plan: %v", err)
		}
		dataDir := filepath.Join(viper.GetString(keyOut), "data")
		if err := printPlan(os.Stdout, spec, viper.GetString(keySolver), dataDir, planVerbose); err != nil {
			logrus.Fatalf("Failed to expand plan: %v", err)
		}
	},
}

// printPlan writes one solver command line per experiment, or the full
// configs when verbose.
func printPlan(w io.Writer, spec *plan.Spec, bin, dataDir string, verbose bool) error {
	cfgs, err := plan.Generate(spec)
	if err != nil {
		return err
	}
	if verbose {
		printer := pp.New()
		printer.SetOutput(w)
		printer.SetColoringEnabled(false)
		_, err := printer.Println(cfgs)
		return err
	}
	for _, cfg := range cfgs {
		args := solver.BuildArgs(cfg, solver.PathsFor(dataDir, cfg.Name).CSV)
		if _, err := fmt.Fprintf(w, "%-22s %s %s\n", cfg.Name, bin, strings.Join(args, " ")); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "%d experiments\n", len(cfgs))
	return err
}

func init() {
	planCmd.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Dump full experiment configs")
	rootCmd.AddCommand(planCmd)
}
