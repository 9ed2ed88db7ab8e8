package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/operator-framework/satattack/internal/atkerr"
)

// Subprocess is an external Oracle: it shells out to a reference
// implementation once per query, per spec.md §6's wire format — one PI bit
// per CLI argument ("0" or "1", in PI order) and one line of
// whitespace-separated output bits on stdout, in PO order. solver.cpp's
// _queryOracle shells this same command out and re-parses a captured file;
// this version pipes stdout directly and classifies every failure mode
// (nonzero exit, malformed output, wrong arity) as atkerr.OracleError so
// the attack loop can tell a bad oracle from an internal bug.
type Subprocess struct {
	// Path is the executable to invoke. Args are extra leading arguments
	// inserted before the PI bit arguments (e.g. a locked bench file
	// path some oracle binaries expect as argv[1]).
	Path string
	Args []string

	numPO int
}

// NewSubprocess returns a Subprocess oracle invoking path (with any fixed
// leading args) for every query, expecting numPO output bits back.
func NewSubprocess(path string, numPO int, args ...string) *Subprocess {
	return &Subprocess{Path: path, Args: args, numPO: numPO}
}

// Eval implements Oracle.
func (s *Subprocess) Eval(ctx context.Context, x []bool) ([]bool, error) {
	argv := make([]string, 0, len(s.Args)+len(x))
	argv = append(argv, s.Args...)
	for _, b := range x {
		argv = append(argv, bitString(b))
	}

	cmd := exec.CommandContext(ctx, s.Path, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, atkerr.Wrapf(atkerr.OracleError, err,
			"oracle subprocess %q failed (stderr: %q)", s.Path, stderr.String())
	}

	fields := strings.Fields(stdout.String())
	if len(fields) != s.numPO {
		return nil, atkerr.New(atkerr.OracleError,
			fmt.Sprintf("oracle subprocess %q returned %d output bits, want %d", s.Path, len(fields), s.numPO))
	}

	out := make([]bool, s.numPO)
	for i, f := range fields {
		switch f {
		case "0":
			out[i] = false
		case "1":
			out[i] = true
		default:
			return nil, atkerr.Wrap(atkerr.OracleError,
				errors.Errorf("non-bit token %q at output position %d", f, i),
				"oracle subprocess "+s.Path)
		}
	}
	return out, nil
}

func bitString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
