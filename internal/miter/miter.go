// Package miter builds the doubled circuit C(x,kA) XOR C(x,kB) spec.md §4.C
// describes: two copies of the source circuit sharing primary inputs but
// not key inputs, their outputs XORed pairwise and OR-reduced into a
// single disagreement literal l_out.
package miter

import (
	"github.com/go-air/gini/z"

	"github.com/operator-framework/satattack/internal/circuit"
	"github.com/operator-framework/satattack/internal/cnf"
	"github.com/operator-framework/satattack/internal/logicsolver"
)

// Miter owns the doubled circuit and its encoding. The source circuit is
// not copied into it; callers keep that circuit alive separately (it
// outlives the Miter, per the Data Model lifecycle).
type Miter struct {
	Doubled *circuit.Circuit
	Pairs   map[int]circuit.Pair
	LOut    int // node index of l_out within Doubled

	Solver *logicsolver.Solver
	Lmap   cnf.Lmap

	// PILits are the (shared) literals of the source's primary inputs,
	// in source PI order.
	PILits []z.Lit
	// KeyLitsA/KeyLitsB are the literals of the two key-input copies,
	// in source KI order.
	KeyLitsA []z.Lit
	KeyLitsB []z.Lit
	// OutLitsA/OutLitsB are the literals of the two output-wire copies
	// (before the XOR/OR reduction), in source PO order.
	OutLitsA []z.Lit
	OutLitsB []z.Lit

	LOutLit z.Lit
}

// Build constructs the miter for source and encodes it into a fresh
// solver with the given capacity hint.
func Build(source *circuit.Circuit, solverCap int) (*Miter, error) {
	dup, pairs, err := source.Dup(circuit.DuplicateAllKeysSharePrimaryInputs())
	if err != nil {
		return nil, err
	}

	diffs := make([]int, source.NumPO())
	for i, po := range source.POs {
		p := pairs[po]
		diffIdx, err := dup.AddNode(circuit.Gate, circuit.Xor, []int{p.A, p.B}, source.Nodes[po].Name+"_diff")
		if err != nil {
			return nil, err
		}
		diffs[i] = diffIdx
	}

	var reduced int
	if len(diffs) == 1 {
		reduced = diffs[0]
	} else {
		reduced, err = dup.AddNode(circuit.Gate, circuit.Or, diffs, "l_out_or")
		if err != nil {
			return nil, err
		}
	}

	lOut, err := dup.AddNode(circuit.PrimaryOutput, circuit.Buf, []int{reduced}, "l_out")
	if err != nil {
		return nil, err
	}

	solver := logicsolver.New(solverCap)
	lmap, err := cnf.Encode(dup, solver)
	if err != nil {
		return nil, err
	}

	m := &Miter{
		Doubled: dup,
		Pairs:   pairs,
		LOut:    lOut,
		Solver:  solver,
		Lmap:    lmap,
		LOutLit: lmap[lOut],
	}

	for _, pi := range source.PIs {
		m.PILits = append(m.PILits, lmap[pairs[pi].A])
	}
	for _, ki := range source.KIs {
		p := pairs[ki]
		m.KeyLitsA = append(m.KeyLitsA, lmap[p.A])
		m.KeyLitsB = append(m.KeyLitsB, lmap[p.B])
	}
	for _, po := range source.POs {
		p := pairs[po]
		m.OutLitsA = append(m.OutLitsA, lmap[p.A])
		m.OutLitsB = append(m.OutLitsB, lmap[p.B])
	}

	return m, nil
}
