package rewriter

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/go-air/gini/z"
)

// Assignment is the partial "values: var -> {true,false,undef}" map spec.md
// §4.D describes: a fixed set plus, for fixed variables, their value. Built
// fresh per CEGAR iteration from one (x, y) observation and handed to a
// Rewriter.
type Assignment struct {
	fixed *bitset.BitSet
	value *bitset.BitSet
}

// NewAssignment returns an assignment over a variable space of size nvars,
// with every variable initially undef.
func NewAssignment(nvars int) *Assignment {
	return &Assignment{
		fixed: bitset.New(uint(nvars)),
		value: bitset.New(uint(nvars)),
	}
}

// Set fixes variable v to val. val is the truth value of the variable
// itself, not of any literal over it.
func (a *Assignment) Set(v z.Var, val bool) {
	a.fixed.Set(uint(v))
	if val {
		a.value.Set(uint(v))
	} else {
		a.value.Clear(uint(v))
	}
}

// Get returns the fixed value of v, and whether it was fixed at all.
func (a *Assignment) Get(v z.Var) (val bool, ok bool) {
	if !a.fixed.Test(uint(v)) {
		return false, false
	}
	return a.value.Test(uint(v)), true
}

// SetLit fixes lit's underlying variable so that lit itself evaluates to
// bitTrue, a convenience for building assignments from a DIP/observation bit
// directly against a possibly-negated literal.
func (a *Assignment) SetLit(lit z.Lit, bitTrue bool) {
	want := bitTrue
	if !lit.IsPos() {
		want = !want
	}
	a.Set(lit.Var(), want)
}
