// Package cnf implements the Tseitin-style translation of a gate graph's
// nodes into CNF clauses. The per-gate clause generator is the one piece of
// the core that is necessarily hand-written rather than delegated to the
// imported SAT engine: the I/O clause rewriter (internal/rewriter) needs to
// re-derive and then substitute into a gate's own clause set, which an
// opaque AIG/CNF library does not expose. The underlying variables, clause
// storage and CDCL search itself remain entirely the imported solver's job
// (internal/logicsolver, backed by github.com/go-air/gini); this package
// never implements unit propagation or search.
package cnf

import "github.com/go-air/gini/z"

// maxTruthTableFanin caps the generic truth-table expansion so a malformed
// or pathological netlist can't make a single gate emit billions of
// clauses; real combinational locking benchmarks use 2-4 input gates.
const maxTruthTableFanin = 20

// GateClauses returns the canonical CNF clause set equivalent to the truth
// table of a gate computing out = fn(ins...). It is a pure function with no
// solver access, so both the encoder (which adds these clauses once) and
// the rewriter (which substitutes fixed literals into a freshly regenerated
// copy) can share it.
//
// The construction enumerates every input assignment: for each row where
// fn evaluates to true, it emits the clause forbidding "inputs match this
// row but out is false"; for each row where fn evaluates to false, the
// dual. This is exactly the clause set described by truth(out) <-> fn(ins),
// not an optimized encoding, matching the "canonical clause set" the
// encoder contract calls for.
func GateClauses(truth func(bits []bool) bool, out z.Lit, ins []z.Lit) [][]z.Lit {
	n := len(ins)
	if n > maxTruthTableFanin {
		panic("cnf: gate fanin exceeds maxTruthTableFanin")
	}

	rows := 1 << uint(n)
	clauses := make([][]z.Lit, 0, rows)
	bits := make([]bool, n)

	for row := 0; row < rows; row++ {
		for i := 0; i < n; i++ {
			bits[i] = row&(1<<uint(i)) != 0
		}
		clause := make([]z.Lit, 0, n+1)
		for i, b := range bits {
			if b {
				clause = append(clause, ins[i].Not())
			} else {
				clause = append(clause, ins[i])
			}
		}
		if truth(bits) {
			clause = append(clause, out)
		} else {
			clause = append(clause, out.Not())
		}
		clauses = append(clauses, clause)
	}
	return clauses
}
