package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadDotEnv_LoadsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RCHAT_TEST_VAR=abc\n"), 0o600))
	t.Setenv("RCHAT_TEST_VAR", "")
	os.Unsetenv("RCHAT_TEST_VAR")

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "abc", os.Getenv("RCHAT_TEST_VAR"))
}

func TestRun_MissingConfig(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "nope.yaml"), filepath.Join(t.TempDir(), "absent.env"), "", "", false, []string{"hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_EmptyPrompt(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rchat.yaml")
	cfg := `
providers:
  - name: llama
    model: meta/llama-2-70b-chat
    version: ver-1
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	err := run(cfgPath, filepath.Join(dir, "absent.env"), "", "", false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to ask")
}
