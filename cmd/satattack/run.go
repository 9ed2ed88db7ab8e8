package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/operator-framework/satattack/internal/attack"
	"github.com/operator-framework/satattack/internal/circuit"
	"github.com/operator-framework/satattack/internal/netlist"
	"github.com/operator-framework/satattack/internal/oracle"
)

func (o *options) run(ctx context.Context, logger *logrus.Logger) error {
	locked, err := loadBench(o.benchPath)
	if err != nil {
		return errors.Wrap(err, "loading locked netlist")
	}

	oc, err := o.buildOracle(locked)
	if err != nil {
		return err
	}

	solver, err := attack.New(locked, oc,
		attack.WithLogger(logger),
		attack.WithDecisionBudget(o.decisionBudget),
		attack.WithTimeout(o.timeout),
		attack.WithSeedConstants(o.seedConstants),
		attack.WithVerifyIterations(o.verifyIterations),
	)
	if err != nil {
		return errors.Wrap(err, "constructing attack solver")
	}

	res, err := solver.Solve(ctx)
	if err != nil {
		return errors.Wrap(err, "running attack")
	}

	printResult(res)
	return nil
}

func loadBench(path string) (*circuit.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return netlist.Parse(f)
}

// buildOracle constructs exactly one of the two supported oracle shapes:
// an external subprocess for a real attack run, or an in-process simulator
// over a reference netlist and known key, for demos and tests.
func (o *options) buildOracle(locked *circuit.Circuit) (oracle.Oracle, error) {
	switch {
	case o.oracleCmd != "" && o.oracleBench != "":
		return nil, errors.New("specify exactly one of --oracle-cmd or --oracle-bench")
	case o.oracleCmd != "":
		return oracle.NewSubprocess(o.oracleCmd, locked.NumPO(), o.oracleArgs...), nil
	case o.oracleBench != "":
		ref, err := loadBench(o.oracleBench)
		if err != nil {
			return nil, errors.Wrap(err, "loading reference netlist")
		}
		key, err := parseKeyBits(o.oracleKeyBits, ref.NumKI())
		if err != nil {
			return nil, errors.Wrap(err, "parsing --oracle-key")
		}
		return oracle.NewSimulator(ref, key)
	default:
		return nil, errors.New("specify one of --oracle-cmd or --oracle-bench")
	}
}

func parseKeyBits(s string, want int) ([]bool, error) {
	if s == "" {
		return nil, fmt.Errorf("--oracle-key is required with --oracle-bench (%d key bits expected)", want)
	}
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("got %d key bits, reference circuit has %d key inputs", len(parts), want)
	}
	key := make([]bool, len(parts))
	for i, p := range parts {
		switch strings.TrimSpace(p) {
		case "0":
			key[i] = false
		case "1":
			key[i] = true
		default:
			return nil, fmt.Errorf("key bit %d: want 0 or 1, got %q", i, p)
		}
	}
	return key, nil
}

func printResult(res *attack.Result) {
	if res.Done {
		fmt.Printf("key recovered in %d iteration(s):\n", res.Iterations)
		for i, v := range res.Key {
			fmt.Printf("  k%d = %s\n", i, bitLabel(v))
		}
		return
	}

	fmt.Printf("attack did not converge after %d iteration(s); partial backbone:\n", res.Iterations)
	if len(res.Backbone) == 0 {
		fmt.Println("  (no key bits could be pinned from the observations gathered)")
		return
	}
	indices := make([]int, 0, len(res.Backbone))
	for i := range res.Backbone {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		fmt.Printf("  k%d = %s\n", i, bitLabel(res.Backbone[i]))
	}
}

func bitLabel(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
