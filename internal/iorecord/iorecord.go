// Package iorecord defines the I/O record shared between the attack loop
// (which accumulates it) and the backbone analyzer (which replays it
// against a fresh single-copy solver). Kept standalone so neither package
// has to import the other just for this one struct.
package iorecord

// Value is a single observed (x, y) pair: a primary-input bit-vector and
// the primary-output bit-vector the oracle returned for it.
type Value struct {
	X []bool
	Y []bool
}
