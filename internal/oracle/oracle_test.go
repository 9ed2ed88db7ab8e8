package oracle

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/satattack/internal/atkerr"
	"github.com/operator-framework/satattack/internal/circuit"
)

func andLockCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New()
	x1, _ := c.AddNode(circuit.PrimaryInput, circuit.Buf, nil, "x1")
	x2, _ := c.AddNode(circuit.PrimaryInput, circuit.Buf, nil, "x2")
	k0, _ := c.AddNode(circuit.KeyInput, circuit.Buf, nil, "k0")
	and, err := c.AddNode(circuit.Gate, circuit.And, []int{x1, x2}, "g0")
	require.NoError(t, err)
	xor, err := c.AddNode(circuit.Gate, circuit.Xor, []int{and, k0}, "g1")
	require.NoError(t, err)
	_, err = c.AddNode(circuit.PrimaryOutput, circuit.Buf, []int{xor}, "y")
	require.NoError(t, err)
	return c
}

func TestSimulatorMatchesTruthTable(t *testing.T) {
	c := andLockCircuit(t)
	sim, err := NewSimulator(c, []bool{true}) // k0 = 1
	require.NoError(t, err)

	cases := []struct {
		x1, x2, want bool
	}{
		{false, false, true},  // (0 AND 0) XOR 1 = 1
		{true, false, true},   // (1 AND 0) XOR 1 = 1
		{true, true, false},   // (1 AND 1) XOR 1 = 0
		{false, true, true},
	}
	for _, c := range cases {
		out, err := sim.Eval(context.Background(), []bool{c.x1, c.x2})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, c.want, out[0])
	}
}

func TestSimulatorRejectsWrongArity(t *testing.T) {
	c := andLockCircuit(t)
	sim, err := NewSimulator(c, []bool{true})
	require.NoError(t, err)

	_, err = sim.Eval(context.Background(), []bool{true})
	assert.Error(t, err)
}

// writeFakeOracle writes a tiny shell script echoing a fixed line of bits,
// standing in for an external DfX-style oracle binary.
func writeFakeOracle(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("subprocess oracle test requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "oracle.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestSubprocessParsesOutputLine(t *testing.T) {
	path := writeFakeOracle(t, `echo "1 0"`)
	o := NewSubprocess(path, 2)

	out, err := o.Eval(context.Background(), []bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, out)
}

func TestSubprocessRejectsWrongArity(t *testing.T) {
	path := writeFakeOracle(t, `echo "1"`)
	o := NewSubprocess(path, 2)

	_, err := o.Eval(context.Background(), []bool{true, false})
	require.Error(t, err)
	kind, ok := atkerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, atkerr.OracleError, kind)
}

func TestSubprocessRejectsMalformedToken(t *testing.T) {
	path := writeFakeOracle(t, `echo "x 0"`)
	o := NewSubprocess(path, 2)

	_, err := o.Eval(context.Background(), []bool{true, false})
	require.Error(t, err)
	kind, ok := atkerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, atkerr.OracleError, kind)
}

func TestSubprocessWrapsNonzeroExit(t *testing.T) {
	path := writeFakeOracle(t, `exit 1`)
	o := NewSubprocess(path, 1)

	_, err := o.Eval(context.Background(), []bool{true})
	require.Error(t, err)
	kind, ok := atkerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, atkerr.OracleError, kind)
}
