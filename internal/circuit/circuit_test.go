package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAndLock builds y = (x1 AND x2) XOR k0, the S1 scenario circuit.
func buildAndLock(t *testing.T) (*Circuit, map[string]int) {
	t.Helper()
	c := New()
	names := map[string]int{}

	x1, err := c.AddNode(PrimaryInput, Buf, nil, "x1")
	require.NoError(t, err)
	x2, err := c.AddNode(PrimaryInput, Buf, nil, "x2")
	require.NoError(t, err)
	k0, err := c.AddNode(KeyInput, Buf, nil, "k0")
	require.NoError(t, err)
	and, err := c.AddNode(Gate, And, []int{x1, x2}, "g0")
	require.NoError(t, err)
	xor, err := c.AddNode(Gate, Xor, []int{and, k0}, "g1")
	require.NoError(t, err)
	y, err := c.AddNode(PrimaryOutput, Buf, []int{xor}, "y")
	require.NoError(t, err)

	names["x1"], names["x2"], names["k0"] = x1, x2, k0
	names["g0"], names["g1"], names["y"] = and, xor, y
	return c, names
}

func TestAddNodeRejectsForwardFanin(t *testing.T) {
	c := New()
	_, err := c.AddNode(Gate, And, []int{0, 1}, "bad")
	assert.Error(t, err)
}

func TestAddNodeValidatesArity(t *testing.T) {
	c := New()
	x1, err := c.AddNode(PrimaryInput, Buf, nil, "x1")
	require.NoError(t, err)

	_, err = c.AddNode(PrimaryOutput, Buf, []int{x1, x1}, "bad-po")
	assert.Error(t, err)

	_, err = c.AddNode(PrimaryInput, Buf, []int{x1}, "bad-pi")
	assert.Error(t, err)
}

func TestTopoIterIsIndexOrder(t *testing.T) {
	c, _ := buildAndLock(t)
	order := c.TopoIter()
	require.Len(t, order, len(c.Nodes))
	for i, idx := range order {
		assert.Equal(t, i, idx)
	}
}

func TestFanout(t *testing.T) {
	c, names := buildAndLock(t)
	assert.ElementsMatch(t, []int{names["g0"]}, c.Fanout(names["x1"]))
	assert.ElementsMatch(t, []int{names["g1"]}, c.Fanout(names["g0"]))
	assert.Empty(t, c.Fanout(names["y"]))
}

func TestDupShareInputsDuplicateKeys(t *testing.T) {
	c, names := buildAndLock(t)
	dup, pairs, err := c.Dup(DuplicateAllKeysSharePrimaryInputs())
	require.NoError(t, err)

	// Shared PI: both copies are the same node index.
	piPair := pairs[names["x1"]]
	assert.Equal(t, piPair.A, piPair.B)

	// Duplicated key: distinct node indices.
	kiPair := pairs[names["k0"]]
	assert.NotEqual(t, kiPair.A, kiPair.B)

	// Every gate/PO got two independent copies.
	gatePair := pairs[names["g1"]]
	assert.NotEqual(t, gatePair.A, gatePair.B)

	// The duplicated circuit's fanins for copy A reference only copy-A
	// (or shared) nodes.
	andPair := pairs[names["g0"]]
	xorA := dup.Nodes[gatePair.A]
	assert.Contains(t, xorA.Fanins, andPair.A)
	assert.Contains(t, xorA.Fanins, kiPair.A)

	// Dup never lists POs of the source as POs of the result; the miter
	// owns deciding what the new circuit's outputs are.
	assert.Empty(t, dup.POs)
}
