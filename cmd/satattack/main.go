// Command satattack runs the CEGAR key-recovery attack (spec.md §4.E)
// against a locked gate-level netlist. It is the one piece of this module
// that is allowed to talk to the filesystem and a child process: parsing
// the bench file and dispatching to an oracle are both outside the
// SAT-attack core's scope, but the core needs a runnable front door.
//
// Grounded on the teacher's single-command entrypoint shape
// (cmd/catalog/start.go's options struct + RunE, rather than
// cmd/operator-cli's multi-subcommand tree, since satattack has exactly
// one job).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	benchPath string

	oracleCmd     string
	oracleArgs    []string
	oracleBench   string
	oracleKeyBits string

	decisionBudget   int
	timeout          time.Duration
	seedConstants    bool
	verifyIterations int
	debug            bool
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "satattack",
		Short:        "Recovers the key of a SAT-locked combinational circuit",
		Long:         "satattack runs the CEGAR SAT-attack loop against a locked bench netlist, querying an oracle for the true key's behavior until no key-disagreeing input remains satisfiable.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			if o.debug {
				logger.SetLevel(logrus.DebugLevel)
			}
			logger.Infof("log level %s", logger.Level)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			return o.run(ctx, logger)
		},
	}

	cmd.Flags().StringVar(&o.benchPath, "bench", "", "path to the locked bench netlist to attack")
	cmd.MarkFlagRequired("bench")

	cmd.Flags().StringVar(&o.oracleCmd, "oracle-cmd", "", "path to an executable oracle: one PI bit per CLI arg (0/1), one line of space-separated PO bits on stdout")
	cmd.Flags().StringArrayVar(&o.oracleArgs, "oracle-arg", nil, "extra fixed leading argument for --oracle-cmd (repeatable)")
	cmd.Flags().StringVar(&o.oracleBench, "oracle-bench", "", "path to a reference bench netlist to simulate in-process instead of shelling out, for demos and tests")
	cmd.Flags().StringVar(&o.oracleKeyBits, "oracle-key", "", "comma-separated 0/1 key bits for --oracle-bench, in KEYINPUT declaration order")

	cmd.Flags().IntVar(&o.decisionBudget, "decision-budget", 0, "cumulative solver-decision cap before falling back to backbone analysis (0 = unlimited)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "wall-clock cap on the attack loop (0 = unlimited)")
	cmd.Flags().BoolVar(&o.seedConstants, "seed-constants", false, "prime the loop with the all-zero and all-one input vectors before the first solve")
	cmd.Flags().IntVar(&o.verifyIterations, "verify-iterations", 1, "random-input rounds the post-loop equivalence check runs")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
