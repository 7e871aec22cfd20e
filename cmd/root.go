package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/plan"
)

// Settings shared by every command. Each is a persistent flag that can also
// be set through an ANNEALBENCH_<NAME> environment variable.
const (
	keySolver = "solver"
	keyOut    = "out"
	keyPlans  = "plans"
	keyLog    = "log"
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "annealbench",
	Short: "Benchmark harness for a parallel simulated-annealing scheduler",
	Long: "Drives parametrized sweeps of the external solver, keeps every result in an " +
		"append-only summary ledger and turns it into comparison charts, heatmaps and reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(viper.GetString(keyLog))
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", viper.GetString(keyLog))
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadPlan reads the named plan from the configured plan file.
func loadPlan(name string) (*plan.Spec, error) {
	f, err := plan.Load(viper.GetString(keyPlans))
	if err != nil {
		return nil, err
	}
	return f.Get(name)
}

// planArg returns the plan name given on the command line, or def.
func planArg(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}

// loadLedger reads the summary of a plan. A missing summary names the sweep
// that produces it.
func loadLedger(layout ledger.Layout, planName string, spec *plan.Spec) (*ledger.SummaryTable, error) {
	tbl, err := ledger.Load(layout.SummaryPath(spec.Summary))
	if errors.Is(err, ledger.ErrMissingInput) {
		return nil, fmt.Errorf("%w; run `annealbench sweep %s` first", err, planName)
	}
	return tbl, err
}

// init sets up persistent flags and binds them to viper
func init() {
	rootCmd.PersistentFlags().String(keySolver, "./research", "Path to the solver binary")
	rootCmd.PersistentFlags().String(keyOut, ".", "Base directory holding data/ and figs/")
	rootCmd.PersistentFlags().String(keyPlans, "plans.yaml", "Sweep plan file")
	rootCmd.PersistentFlags().String(keyLog, "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, key := range []string{keySolver, keyOut, keyPlans, keyLog} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
	viper.SetEnvPrefix("ANNEALBENCH")
	viper.AutomaticEnv()
}
