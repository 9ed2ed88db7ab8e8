// Package backbone implements the fallback key extractor spec.md §4.F
// describes: given every (x, y) observation collected during a CEGAR run
// that did not reach UNSAT (for example because the decision budget or
// wall-clock timeout fired first), find which key bits are "backbones" —
// forced to a single value by the observations alone, independent of any
// value the remaining free key bits might take.
package backbone

import (
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/operator-framework/satattack/internal/atkerr"
	"github.com/operator-framework/satattack/internal/circuit"
	"github.com/operator-framework/satattack/internal/cnf"
	"github.com/operator-framework/satattack/internal/iorecord"
	"github.com/operator-framework/satattack/internal/logicsolver"
	"github.com/operator-framework/satattack/internal/rewriter"
)

// FindFixedKeys builds a single (undoubled) copy of source, injects every
// recorded observation through a Rewriter exactly as the CEGAR loop does,
// then probes each key bit in turn: if negating a satisfying assignment's
// value for that bit makes the accumulated constraints UNSAT, the bit is a
// backbone and gets pinned for good before the next bit is probed. The
// returned map has one entry per backbone bit, index into source.KIs,
// mapped to its forced value; non-backbone bits are simply absent.
//
// Returns (nil, nil) if records is empty: with no observations there is
// nothing to pin, matching solver_t::findFixedKeys's own early return.
func FindFixedKeys(source *circuit.Circuit, records []iorecord.Value) (map[int]bool, error) {
	if len(records) == 0 {
		return nil, nil
	}

	solver := logicsolver.New(4 * len(source.Nodes))
	lmap, err := cnf.Encode(source, solver)
	if err != nil {
		return nil, errors.Wrap(err, "backbone: encoding source circuit")
	}

	keyLits := make([]z.Lit, source.NumKI())
	for i, ki := range source.KIs {
		keyLits[i] = lmap[ki]
	}

	rw := rewriter.New(source, lmap, keyLits)
	for _, rec := range records {
		if len(rec.X) != source.NumPI() || len(rec.Y) != source.NumPO() {
			return nil, atkerr.New(atkerr.InternalAssert, "backbone: observation arity does not match circuit")
		}
		values := rewriter.NewAssignment(solver.NVars() + 1)
		for i, pi := range source.PIs {
			values.SetLit(lmap[pi], rec.X[i])
		}
		for i, po := range source.POs {
			values.SetLit(lmap[po], rec.Y[i])
		}
		clauses, err := rw.Rewrite(values)
		if err != nil {
			return nil, err
		}
		for _, c := range clauses {
			solver.AddClause(c)
		}
	}

	if outcome := solver.Solve(); outcome != logicsolver.Sat {
		return nil, atkerr.New(atkerr.Inconsistent, "backbone: observations admit no key at all")
	}

	keys := make([]z.Lit, len(keyLits))
	for i, kl := range keyLits {
		if solver.ModelValue(kl) {
			keys[i] = kl
		} else {
			keys[i] = kl.Not()
		}
	}

	backbones := make(map[int]bool)
	for i, k := range keys {
		solver.Assume(k.Not())
		if solver.Solve() == logicsolver.Unsat {
			backbones[i] = k.IsPos()
			solver.AddClause([]z.Lit{k})
		}
	}
	return backbones, nil
}
