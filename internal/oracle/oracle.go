// Package oracle implements the attack's one external dependency: a black
// box that evaluates O(x) = C(x, k*) for the unknown key k*. spec.md §4.G
// leaves the oracle's own implementation unchanged; this package supplies
// the two concrete shapes solver.cpp's queryOracle assumed existed, in Go
// idiom: an in-process simulator for tests/demos and an external subprocess
// for a real attack run.
package oracle

import "context"

// Oracle answers one query: given values for every primary input, in PI
// order, return the corresponding primary-output values, in PO order.
type Oracle interface {
	Eval(ctx context.Context, x []bool) ([]bool, error)
}
