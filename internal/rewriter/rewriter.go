// Package rewriter implements the I/O clause rewriter: given a fixed
// assignment to every PI and PO variable of a circuit, it emits clauses
// that pin the circuit's key variables to whatever values are consistent
// with that one observation, while leaving key variables (and any
// gate-internal variable the assignment doesn't happen to fix) symbolic.
package rewriter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-air/gini/z"

	"github.com/operator-framework/satattack/internal/atkerr"
	"github.com/operator-framework/satattack/internal/circuit"
	"github.com/operator-framework/satattack/internal/cnf"
)

// Rewriter walks one circuit's gates in topological order, regenerating
// each gate's canonical clause set and specializing it against a given
// Assignment. It is idempotent up to exact clause subsumption: adding
// clauses derived from the same (x,y) observation twice produces no new
// clauses the second time.
type Rewriter struct {
	circuit  *circuit.Circuit
	lmap     cnf.Lmap
	keyFlags *bitset.BitSet

	seen    map[string]struct{}
	scratch []z.Lit
}

// New returns a Rewriter over c, whose gate output/input literals are
// given by lmap. keyLits marks which literals (of either miter copy, or
// the single copy in the backbone case) must never be concretized even if
// an Assignment happens to fix them.
func New(c *circuit.Circuit, lmap cnf.Lmap, keyLits []z.Lit) *Rewriter {
	maxVar := uint(0)
	for _, l := range lmap {
		if v := uint(l.Var()); v > maxVar {
			maxVar = v
		}
	}
	flags := bitset.New(maxVar + 1)
	for _, l := range keyLits {
		flags.Set(uint(l.Var()))
	}
	return &Rewriter{
		circuit:  c,
		lmap:     lmap,
		keyFlags: flags,
		seen:     make(map[string]struct{}),
	}
}

// Rewrite returns the new clauses implied by values that have not already
// been derived from an earlier call, or an *atkerr.Error with
// atkerr.Inconsistent if values contradicts the circuit's own structure
// (a gate clause reduces to empty: every literal concretized false).
func (r *Rewriter) Rewrite(values *Assignment) ([][]z.Lit, error) {
	var out [][]z.Lit

	for _, idx := range r.circuit.TopoIter() {
		n := r.circuit.Nodes[idx]
		if n.Kind != circuit.Gate {
			continue
		}
		if n.Func == circuit.Buf || n.Func == circuit.Not {
			continue // aliases: no variable, no clause
		}

		out_ := r.lmap[idx]
		ins := make([]z.Lit, len(n.Fanins))
		for i, fi := range n.Fanins {
			ins[i] = r.lmap[fi]
		}

		for _, clause := range cnf.GateClauses(n.Func.Eval, out_, ins) {
			simplified, satisfied, falsified := r.substitute(clause, values)
			if satisfied {
				continue
			}
			if falsified {
				return nil, atkerr.New(atkerr.Inconsistent,
					"rewriter: observation contradicts circuit structure at node "+n.Name)
			}
			key := canonicalKey(simplified)
			if _, dup := r.seen[key]; dup {
				continue
			}
			r.seen[key] = struct{}{}
			out = append(out, simplified)
		}
	}

	return out, nil
}

// substitute specializes clause against values: key-variable literals and
// literals over variables values leaves undef are kept as-is; literals
// over other fixed variables are either dropped (if false under the fixed
// value) or make the whole clause trivially satisfied (if true).
func (r *Rewriter) substitute(clause []z.Lit, values *Assignment) (simplified []z.Lit, satisfied bool, falsified bool) {
	r.scratch = r.scratch[:0]

	for _, lit := range clause {
		v := lit.Var()
		if r.keyFlags.Test(uint(v)) {
			r.scratch = append(r.scratch, lit)
			continue
		}
		val, ok := values.Get(v)
		if !ok {
			r.scratch = append(r.scratch, lit)
			continue
		}
		litTrue := lit.IsPos() == val
		if litTrue {
			return nil, true, false
		}
		// literal is concretely false: drop it from the clause
	}

	if len(r.scratch) == 0 {
		return nil, false, true
	}

	result := make([]z.Lit, len(r.scratch))
	copy(result, r.scratch)
	return result, false, false
}

func canonicalKey(clause []z.Lit) string {
	sorted := make([]z.Lit, len(clause))
	copy(sorted, clause)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	for _, l := range sorted {
		sb.WriteString(strconv.FormatUint(uint64(l), 10))
		sb.WriteByte(',')
	}
	return sb.String()
}
