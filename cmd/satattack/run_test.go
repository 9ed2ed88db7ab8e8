package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const andLockBench = `
INPUT(x1)
INPUT(x2)
KEYINPUT(k0)
g0 = AND(x1, x2)
g1 = XOR(g0, k0)
OUTPUT(g1)
`

func writeBench(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseKeyBits(t *testing.T) {
	bits, err := parseKeyBits("1,0,1", 3)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, bits)

	_, err = parseKeyBits("1,0", 3)
	assert.Error(t, err)

	_, err = parseKeyBits("1,2", 2)
	assert.Error(t, err)

	_, err = parseKeyBits("", 1)
	assert.Error(t, err)
}

func TestBuildOracleRejectsConflictingFlags(t *testing.T) {
	o := &options{oracleCmd: "echo", oracleBench: "x.bench"}
	_, err := o.buildOracle(nil)
	assert.Error(t, err)
}

func TestBuildOracleRejectsNeitherFlag(t *testing.T) {
	o := &options{}
	_, err := o.buildOracle(nil)
	assert.Error(t, err)
}

// TestRunRecoversKeyWithOracleBench exercises the full wire-up: netlist ->
// in-process oracle -> attack solver -> recovered key, the same path
// --oracle-bench takes on the command line.
func TestRunRecoversKeyWithOracleBench(t *testing.T) {
	dir := t.TempDir()
	lockedPath := writeBench(t, dir, "locked.bench", andLockBench)

	o := &options{
		benchPath:        lockedPath,
		oracleBench:      lockedPath,
		oracleKeyBits:    "0",
		verifyIterations: 2,
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	err := o.run(context.Background(), logger)
	require.NoError(t, err)
}

func TestRunRequiresAnOracle(t *testing.T) {
	dir := t.TempDir()
	lockedPath := writeBench(t, dir, "locked.bench", andLockBench)

	o := &options{benchPath: lockedPath}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	err := o.run(context.Background(), logger)
	assert.Error(t, err)
}
