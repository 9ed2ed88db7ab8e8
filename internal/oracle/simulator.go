package oracle

import (
	"context"
	"fmt"

	"github.com/operator-framework/satattack/internal/circuit"
)

// Simulator is an in-process Oracle: it evaluates a gate graph directly
// against a fixed key, the reference key k* a real attack never sees. It
// exists for tests and the CLI's --oracle-bench demo mode, exercising the
// same GateFunc.Eval truth semantics the CNF encoder's clauses are built
// from, so oracle answers and rewriter clauses can never disagree about
// what a gate computes.
type Simulator struct {
	c   *circuit.Circuit
	key []bool
}

// NewSimulator returns a Simulator computing c's function under the fixed
// key assignment key, given in c.KIs order.
func NewSimulator(c *circuit.Circuit, key []bool) (*Simulator, error) {
	if len(key) != c.NumKI() {
		return nil, fmt.Errorf("oracle: key has %d bits, circuit has %d key inputs", len(key), c.NumKI())
	}
	return &Simulator{c: c, key: key}, nil
}

// Eval implements Oracle.
func (s *Simulator) Eval(ctx context.Context, x []bool) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(x) != s.c.NumPI() {
		return nil, fmt.Errorf("oracle: input has %d bits, circuit has %d primary inputs", len(x), s.c.NumPI())
	}

	values := make([]bool, len(s.c.Nodes))
	piPos, kiPos := 0, 0
	for _, idx := range s.c.TopoIter() {
		n := s.c.Nodes[idx]
		switch n.Kind {
		case circuit.PrimaryInput:
			values[idx] = x[piPos]
			piPos++
		case circuit.KeyInput:
			values[idx] = s.key[kiPos]
			kiPos++
		case circuit.PrimaryOutput:
			values[idx] = values[n.Fanins[0]]
		case circuit.Gate:
			ins := make([]bool, len(n.Fanins))
			for i, fi := range n.Fanins {
				ins[i] = values[fi]
			}
			values[idx] = n.Func.Eval(ins)
		}
	}

	out := make([]bool, s.c.NumPO())
	for i, idx := range s.c.POs {
		out[i] = values[idx]
	}
	return out, nil
}
