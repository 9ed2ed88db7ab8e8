// Package logicsolver adapts github.com/go-air/gini to the exact boundary
// spec.md §6 asks the CNF encoder to expose: freeze, addClause, solve,
// modelValue, nVars, nClauses and getNumDecisions. gini is the out-of-scope
// CDCL engine the core is built to call, never to reimplement.
//
// Variable allocation for the whole attack (primary inputs, key inputs, and
// every Tseitin-introduced gate-output variable) goes through a single
// *logic.C allocator, purely for its variable numbering (c.Lit()); clauses
// themselves are added straight to the raw inter.S via AddClause, since the
// canonical per-gate clause sets internal/cnf builds (and the I/O rewriter
// later regenerates under partial substitution) are not expressed through
// logic.C's And/Or/Xor/ToCnf pipeline — see internal/cnf's package doc for
// why.
package logicsolver

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Outcome mirrors gini's Solve()/Test() return convention.
type Outcome int

const (
	Unknown Outcome = 0
	Sat     Outcome = 1
	Unsat   Outcome = -1
)

func outcomeOf(i int) Outcome {
	switch {
	case i > 0:
		return Sat
	case i < 0:
		return Unsat
	default:
		return Unknown
	}
}

// Solver wraps a gini instance plus the bookkeeping spec.md's CNF-encoder
// boundary requires but gini does not itself surface through inter.S:
// variable/clause counts, a decision-budget proxy, and a frozen-variable
// set that IsFrozen reports on. ModelValue does not consult the frozen set.
type Solver struct {
	g inter.S
	c *logic.C

	nvars     int
	nclauses  int
	decisions int

	frozen *bitset.BitSet
}

// New returns a Solver with capacity hint cap for its variable allocator.
func New(cap int) *Solver {
	return &Solver{
		g:      gini.New(),
		c:      logic.NewCCap(cap),
		frozen: bitset.New(uint(cap)),
	}
}

// NewVar allocates a fresh variable and returns its positive literal.
func (s *Solver) NewVar() z.Lit {
	s.nvars++
	return s.c.Lit()
}

// AddClause adds a single clause, given as a slice of literals interpreted
// as a disjunction.
func (s *Solver) AddClause(lits []z.Lit) {
	for _, l := range lits {
		s.g.Add(l)
	}
	s.g.Add(z.LitNull)
	s.nclauses++
}

// Freeze marks variables as never to be eliminated or merged away. gini
// does not perform the kind of variable-elimination preprocessing this
// guards against; the marks are recorded regardless and can be queried
// with IsFrozen. ModelValue reads any variable, frozen or not.
func (s *Solver) Freeze(lits ...z.Lit) {
	for _, l := range lits {
		s.frozen.Set(uint(l.Var()))
	}
}

func (s *Solver) IsFrozen(l z.Lit) bool {
	return s.frozen.Test(uint(l.Var()))
}

// Assume stages assumption literals for the next Solve call.
func (s *Solver) Assume(lits ...z.Lit) {
	s.g.Assume(lits...)
}

// Solve runs the SAT solver under whatever literals were most recently
// staged with Assume.
func (s *Solver) Solve() Outcome {
	s.decisions++
	return outcomeOf(s.g.Solve())
}

// ModelValue returns the truth value lit takes in the most recent
// satisfying model.
func (s *Solver) ModelValue(lit z.Lit) bool {
	return s.g.Value(lit)
}

// Why returns a minimal set of assumption literals sufficient to explain
// the most recent UNSAT result.
func (s *Solver) Why(dst []z.Lit) []z.Lit {
	return s.g.Why(dst)
}

func (s *Solver) NVars() int    { return s.nvars }
func (s *Solver) NClauses() int { return s.nclauses }

// Decisions is a monotonic proxy for solver work: the number of Solve
// calls made so far. gini's inter.S does not expose a true CDCL decision
// counter through its public interface, so this stands in for
// getNumDecisions for the purposes of the decision-budget soft timeout;
// see DESIGN.md.
func (s *Solver) Decisions() int { return s.decisions }
