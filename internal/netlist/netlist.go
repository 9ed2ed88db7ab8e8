// Package netlist parses a small ISCAS-85-style bench dialect into a gate
// graph. Parsing the structural netlist itself is explicitly out of scope
// for the SAT-attack core, but the CLI needs some in-scope adapter from
// text to internal/circuit.Circuit to have anything to drive the attack
// with; this package is intentionally minimal, analogous in spirit to the
// teacher's own manifest loaders rather than a general HDL front end.
//
// Grammar, one statement per line, '#' starts a line comment:
//
//	INPUT(name)
//	KEYINPUT(name)          // extension: bench has no native key-input kind
//	OUTPUT(name)
//	name = GATE(in1, in2, ...)
//
// GATE is one of AND, OR, NOT, XOR, NAND, NOR, XNOR, BUF, case-insensitive.
package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/operator-framework/satattack/internal/circuit"
)

// Parse reads a bench-dialect netlist from r and returns the gate graph it
// describes. Lines are processed in order, so a gate's inputs must already
// have been declared (as an INPUT/KEYINPUT or an earlier gate's output)
// before it appears, the same append-only discipline circuit.Circuit itself
// requires.
func Parse(r io.Reader) (*circuit.Circuit, error) {
	c := circuit.New()
	byName := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parseLine(c, byName, line); err != nil {
			return nil, fmt.Errorf("netlist: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	return c, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseLine(c *circuit.Circuit, byName map[string]int, line string) error {
	switch {
	case hasCall(line, "INPUT"):
		name, err := parseUnary(line, "INPUT")
		if err != nil {
			return err
		}
		return declare(c, byName, name, circuit.PrimaryInput, circuit.Buf, nil)

	case hasCall(line, "KEYINPUT"):
		name, err := parseUnary(line, "KEYINPUT")
		if err != nil {
			return err
		}
		return declare(c, byName, name, circuit.KeyInput, circuit.Buf, nil)

	case hasCall(line, "OUTPUT"):
		name, err := parseUnary(line, "OUTPUT")
		if err != nil {
			return err
		}
		fanin, ok := byName[name]
		if !ok {
			return fmt.Errorf("OUTPUT(%s): undeclared wire", name)
		}
		_, err = c.AddNode(circuit.PrimaryOutput, circuit.Buf, []int{fanin}, name+"_out")
		return err

	default:
		return parseAssignment(c, byName, line)
	}
}

// hasCall reports whether line is of the shape keyword(...), comparing
// case-insensitively. line is expected to be trimmed already (Parse does).
func hasCall(line, keyword string) bool {
	return strings.HasPrefix(strings.ToUpper(line), keyword+"(")
}

// parseUnary parses keyword(name) and returns name.
func parseUnary(line, keyword string) (string, error) {
	open := strings.IndexByte(line, '(')
	shut := strings.LastIndexByte(line, ')')
	if open < 0 || shut < open {
		return "", fmt.Errorf("%s: malformed call %q", keyword, line)
	}
	name := strings.TrimSpace(line[open+1 : shut])
	if name == "" {
		return "", fmt.Errorf("%s: missing argument", keyword)
	}
	return name, nil
}

// parseAssignment parses "name = GATE(in1, in2, ...)".
func parseAssignment(c *circuit.Circuit, byName map[string]int, line string) error {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return fmt.Errorf("expected assignment, got %q", line)
	}
	name := strings.TrimSpace(line[:eq])
	rhs := strings.TrimSpace(line[eq+1:])

	open := strings.IndexByte(rhs, '(')
	shut := strings.LastIndexByte(rhs, ')')
	if open < 0 || shut < open {
		return fmt.Errorf("malformed gate expression %q", rhs)
	}
	gateName := strings.ToUpper(strings.TrimSpace(rhs[:open]))
	fn, err := gateFuncOf(gateName)
	if err != nil {
		return err
	}

	argNames := splitArgs(rhs[open+1 : shut])
	if len(argNames) == 0 {
		return fmt.Errorf("%s: no inputs", gateName)
	}
	fanins := make([]int, len(argNames))
	for i, a := range argNames {
		idx, ok := byName[a]
		if !ok {
			return fmt.Errorf("%s: undeclared wire %q", gateName, a)
		}
		fanins[i] = idx
	}

	return declare(c, byName, name, circuit.Gate, fn, fanins)
}

func splitArgs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func gateFuncOf(name string) (circuit.GateFunc, error) {
	switch name {
	case "BUF":
		return circuit.Buf, nil
	case "NOT", "INV":
		return circuit.Not, nil
	case "AND":
		return circuit.And, nil
	case "OR":
		return circuit.Or, nil
	case "XOR":
		return circuit.Xor, nil
	case "NAND":
		return circuit.Nand, nil
	case "NOR":
		return circuit.Nor, nil
	case "XNOR", "XORNOT":
		return circuit.Xnor, nil
	default:
		return 0, fmt.Errorf("unknown gate type %q", name)
	}
}

func declare(c *circuit.Circuit, byName map[string]int, name string, kind circuit.Kind, fn circuit.GateFunc, fanins []int) error {
	if _, exists := byName[name]; exists {
		return fmt.Errorf("wire %q declared twice", name)
	}
	idx, err := c.AddNode(kind, fn, fanins, name)
	if err != nil {
		return err
	}
	byName[name] = idx
	return nil
}
