package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (input, data string, called bool, err error) {
	t.Helper()
	cmd := newRootCmd(func(inputPath, dataDir string) error {
		input, data, called = inputPath, dataDir, true
		return nil
	})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return input, data, called, err
}

func TestRootCmd_PassesInputAndDataDir(t *testing.T) {
	worker := filepath.Join("..", "..", "examples", "worker.yaml")

	input, data, called, err := execute(t, "--data", "tables", worker)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, worker, input)
	assert.Equal(t, "tables", data)

	_, data, _, err = execute(t, worker)
	require.NoError(t, err)
	assert.Empty(t, data, "no --data means the built-in tables")
}

func TestRootCmd_Errors(t *testing.T) {
	_, _, called, err := execute(t)
	assert.Error(t, err)
	assert.False(t, called)

	_, _, called, err = execute(t, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
	assert.False(t, called)

	_, _, _, err = execute(t, "--bogus", "x.yaml")
	assert.Error(t, err)
}
