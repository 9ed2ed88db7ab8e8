package attack

import "github.com/operator-framework/satattack/internal/iorecord"

// KeyBit pins a single key input, by its index into the source circuit's
// KIs, to a known value. Passed to Solver.AddKnownKeys by callers that
// already know part of the key (e.g. from a previous run's backbone output).
type KeyBit struct {
	Index int
	Value bool
}

// Result is what a completed or soft-failed attack run produced.
type Result struct {
	// Done is true iff the CEGAR loop reached UNSAT under l_out and the
	// recovered key was confirmed by the equivalence check: a genuine
	// key-recovery success, not a partial/backbone-only result.
	Done bool
	// Key holds one entry per source key input, in source.KIs order.
	// Populated only when Done is true.
	Key []bool
	// Backbone holds the key bits the fallback analyzer could still pin
	// from the observations gathered before the loop gave up. Index is
	// into source.KIs; absent indices were left unconstrained. Populated
	// only when Done is false.
	Backbone map[int]bool
	// Records is every (x, y) observation gathered during the run,
	// regardless of outcome.
	Records []iorecord.Value
	// Iterations is len(Records): the DIP rounds the CEGAR loop ran, plus
	// the two seed observations when SeedConstants is enabled.
	Iterations int
}
