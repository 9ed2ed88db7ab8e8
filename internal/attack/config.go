package attack

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the tunables spec.md §4.E names for the CEGAR loop, carried
// on Solver itself and set through the functional options below, the same
// shape the teacher's constraint solver package uses for its own Option.
type Config struct {
	// DecisionBudget caps cumulative solver decisions before the loop
	// gives up and falls back to the backbone analyzer. Zero means no
	// cap, matching solver.cpp's default top-level call (dlimFactor=-1).
	DecisionBudget int
	// Timeout caps wall-clock time spent in the loop. Zero means no
	// cap, matching solver.cpp's effectively-infinite default time_limit.
	Timeout time.Duration
	// SeedConstants primes the loop with the all-zero and all-one input
	// vectors before the first solve, a path solver.cpp carries
	// commented out. Default false, matching that commented-out state.
	SeedConstants bool
	// VerifyIterations is how many random-input rounds the post-loop
	// equivalence check runs, mirroring solver.cpp's MAX_VERIF_ITER.
	VerifyIterations int
}

// Option configures a Solver at construction time.
type Option func(*Solver) error

// WithDecisionBudget sets the cumulative solver-decision cap.
func WithDecisionBudget(n int) Option {
	return func(s *Solver) error {
		s.cfg.DecisionBudget = n
		return nil
	}
}

// WithTimeout sets the wall-clock cap on the CEGAR loop.
func WithTimeout(d time.Duration) Option {
	return func(s *Solver) error {
		s.cfg.Timeout = d
		return nil
	}
}

// WithSeedConstants enables priming the loop with the all-zero/all-one
// input vectors before the first real solve.
func WithSeedConstants(b bool) Option {
	return func(s *Solver) error {
		s.cfg.SeedConstants = b
		return nil
	}
}

// WithVerifyIterations sets how many random-input rounds the post-loop
// equivalence check runs.
func WithVerifyIterations(n int) Option {
	return func(s *Solver) error {
		s.cfg.VerifyIterations = n
		return nil
	}
}

// WithLogger overrides the Solver's diagnostic logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Solver) error {
		s.log = l
		return nil
	}
}

var defaults = []Option{
	func(s *Solver) error {
		if s.cfg.VerifyIterations == 0 {
			s.cfg.VerifyIterations = 1
		}
		return nil
	},
	func(s *Solver) error {
		if s.log == nil {
			s.log = logrus.New()
		}
		return nil
	},
}
