package cnf

import (
	"github.com/go-air/gini/z"

	"github.com/operator-framework/satattack/internal/circuit"
	"github.com/operator-framework/satattack/internal/logicsolver"
)

// Lmap is the injection from a gate-graph node index to the positive
// literal of the solver variable representing it.
type Lmap map[int]z.Lit

// Encode performs the Tseitin translation of c into s, returning the
// resulting Lmap. PI and KI nodes each get a fresh variable. Buf and Not
// gates are pure literal aliases and introduce neither a variable nor a
// clause, since they carry no new Boolean information. Every other gate
// gets a fresh output variable plus its canonical clause set from
// GateClauses. PrimaryOutput nodes alias their single fanin, same as Buf.
//
// PI, KI and PO variables are frozen as a side effect, matching the
// encoder contract's requirement that boundary variables survive for
// later assumption and model inspection. internal/miter adds l_out to c as
// a PrimaryOutput before calling Encode, so l_out is frozen here as well.
func Encode(c *circuit.Circuit, s *logicsolver.Solver) (Lmap, error) {
	lmap := make(Lmap, len(c.Nodes))

	for _, idx := range c.TopoIter() {
		n := c.Nodes[idx]
		switch n.Kind {
		case circuit.PrimaryInput, circuit.KeyInput:
			lmap[idx] = s.NewVar()
		case circuit.PrimaryOutput:
			lmap[idx] = lmap[n.Fanins[0]]
		case circuit.Gate:
			switch n.Func {
			case circuit.Buf:
				lmap[idx] = lmap[n.Fanins[0]]
			case circuit.Not:
				lmap[idx] = lmap[n.Fanins[0]].Not()
			default:
				ins := make([]z.Lit, len(n.Fanins))
				for i, fi := range n.Fanins {
					ins[i] = lmap[fi]
				}
				out := s.NewVar()
				for _, clause := range GateClauses(n.Func.Eval, out, ins) {
					s.AddClause(clause)
				}
				lmap[idx] = out
			}
		}
	}

	for _, idx := range c.PIs {
		s.Freeze(lmap[idx])
	}
	for _, idx := range c.KIs {
		s.Freeze(lmap[idx])
	}
	for _, idx := range c.POs {
		s.Freeze(lmap[idx])
	}

	return lmap, nil
}
