package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/smtfuzz/theory"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, uint64(100), c.ActionBudget)
	assert.Equal(t, uint64(1), c.Runs)
	assert.True(t, c.SimpleSymbols)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `seed: 12345
theories: [BOOL, BV]
action_budget: 500
trace_seeds: true
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), c.Seed)
	assert.Equal(t, uint64(500), c.ActionBudget)
	assert.True(t, c.TraceSeeds)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.SimpleSymbols, "unset keys keep their defaults")

	theories, err := c.ParsedTheories()
	require.NoError(t, err)
	assert.Equal(t, []theory.Theory{theory.Bool, theory.BV}, theories)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [not a number"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestParsedTheoriesRejectsUnknown(t *testing.T) {
	c := Default()
	c.Theories = []string{"BOOL", "WIBBLE"}
	_, err := c.ParsedTheories()
	assert.Error(t, err)
}
