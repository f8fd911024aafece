package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/reports/out.sarif")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reports/out.sarif"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	assert.NoError(t, ValidatePath(file))
	assert.Error(t, ValidatePath(dir))
	assert.Error(t, ValidatePath(filepath.Join(dir, "missing.json")))
}

func TestWriteJsonFileCreatesParent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "report.sarif")

	require.NoError(t, WriteJsonFile(out, []byte(`{"a":1}`)))
	require.NoError(t, WriteJsonFile(out, []byte(`{}`)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "twistcli")
	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o644))

	assert.True(t, IsExecutable(bin))
	assert.False(t, IsExecutable(plain))
	assert.False(t, IsExecutable(dir))
}
