// Command annealbench benchmarks the parallel simulated-annealing scheduler.
// CLI handling lives in the cobra commands under cmd/.
package main

import (
	"github.com/annealbench/annealbench/cmd"
)

func main() {
	cmd.Execute()
}
