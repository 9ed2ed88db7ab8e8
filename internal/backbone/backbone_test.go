package backbone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/satattack/internal/circuit"
	"github.com/operator-framework/satattack/internal/iorecord"
)

// andLockCircuit builds y = (x1 AND x2) XOR k0.
func andLockCircuit(t *testing.T) (*circuit.Circuit, map[string]int) {
	t.Helper()
	c := circuit.New()
	idx := map[string]int{}
	idx["x1"], _ = c.AddNode(circuit.PrimaryInput, circuit.Buf, nil, "x1")
	idx["x2"], _ = c.AddNode(circuit.PrimaryInput, circuit.Buf, nil, "x2")
	idx["k0"], _ = c.AddNode(circuit.KeyInput, circuit.Buf, nil, "k0")
	and, err := c.AddNode(circuit.Gate, circuit.And, []int{idx["x1"], idx["x2"]}, "g0")
	require.NoError(t, err)
	xor, err := c.AddNode(circuit.Gate, circuit.Xor, []int{and, idx["k0"]}, "g1")
	require.NoError(t, err)
	idx["g0"], idx["g1"] = and, xor
	idx["y"], err = c.AddNode(circuit.PrimaryOutput, circuit.Buf, []int{xor}, "y")
	require.NoError(t, err)
	return c, idx
}

func TestFindFixedKeysReturnsNilWithoutRecords(t *testing.T) {
	c, _ := andLockCircuit(t)
	bb, err := FindFixedKeys(c, nil)
	require.NoError(t, err)
	assert.Nil(t, bb)
}

func TestFindFixedKeysForcesSingleKeyBit(t *testing.T) {
	c, _ := andLockCircuit(t)
	// x=00 => and=0 => y = k0; one observation with y=0 fully determines k0=0.
	records := []iorecord.Value{
		{X: []bool{false, false}, Y: []bool{false}},
	}
	bb, err := FindFixedKeys(c, records)
	require.NoError(t, err)
	require.Len(t, bb, 1)
	assert.Equal(t, false, bb[0])
}

func TestFindFixedKeysLeavesUnderconstrainedBitsFree(t *testing.T) {
	// y = x1 AND k0: with x1 fixed to 0, y is always 0 no matter what k0
	// is, so a single x1=0 observation must not pin k0.
	c := circuit.New()
	x1, _ := c.AddNode(circuit.PrimaryInput, circuit.Buf, nil, "x1")
	k0, _ := c.AddNode(circuit.KeyInput, circuit.Buf, nil, "k0")
	and, err := c.AddNode(circuit.Gate, circuit.And, []int{x1, k0}, "g0")
	require.NoError(t, err)
	_, err = c.AddNode(circuit.PrimaryOutput, circuit.Buf, []int{and}, "y")
	require.NoError(t, err)

	records := []iorecord.Value{
		{X: []bool{false}, Y: []bool{false}},
	}
	bb, err := FindFixedKeys(c, records)
	require.NoError(t, err)
	assert.Empty(t, bb, "k0 is redundant under x1=0 and must not be reported as a backbone")
}
