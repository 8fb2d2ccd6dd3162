package oracle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/smtfuzz/config"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/stats"
)

func baseConfig(seed uint64, theories ...string) config.Config {
	cfg := config.Default()
	cfg.Seed = seed
	cfg.ActionBudget = 60
	cfg.Theories = theories
	return cfg
}

func TestGenerateProducesTrace(t *testing.T) {
	run, err := Generate(baseConfig(1, "BOOL", "BV"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, run.Trace)

	text := string(run.Trace)
	assert.True(t, strings.HasPrefix(text, "new\n"))
	assert.True(t, strings.HasSuffix(text, "delete\n"))
	assert.NotEmpty(t, run.Calls)
	assert.Equal(t, "new", run.Calls[0])
	assert.Equal(t, "delete", run.Calls[len(run.Calls)-1])
}

func TestGenerateRejectsUnknownTheory(t *testing.T) {
	_, err := Generate(baseConfig(1, "FROBNICATION"), nil)
	assert.Error(t, err)
}

func TestGenerateRejectsUnsupportedTheory(t *testing.T) {
	_, err := Generate(baseConfig(1, "BAG"), nil)
	assert.Error(t, err, "mock does not support BAG")
}

func TestGenerateFeedsStats(t *testing.T) {
	st := stats.New()
	run, err := Generate(baseConfig(3, "BOOL", "BV"), st)
	require.NoError(t, err)
	assert.Equal(t, run.NTerms, st.NTerms)
	assert.Equal(t, run.NSorts, st.NSorts)
	assert.Greater(t, st.NActions, uint64(0))
}

func TestReplayMatchesGeneration(t *testing.T) {
	original, err := Generate(baseConfig(17, "BOOL", "BV", "INT"), nil)
	require.NoError(t, err)

	replayed, err := Replay(original.Trace)
	require.NoError(t, err)
	assert.Equal(t, original.Calls, replayed.Calls)
	assert.Equal(t, original.SatResult, replayed.SatResult)
	assert.Equal(t, original.NTerms, replayed.NTerms)
	assert.Equal(t, original.NSorts, replayed.NSorts)
}

func TestCompareCalls(t *testing.T) {
	require.NoError(t, CompareCalls([]string{"a", "b"}, []string{"a", "b"}))

	err := CompareCalls([]string{"a", "b"}, []string{"a", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call 1")

	err = CompareCalls([]string{"a"}, []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}

func TestCheckAcrossSeedsAndTheories(t *testing.T) {
	configs := []config.Config{
		baseConfig(0, "BOOL"),
		baseConfig(1, "BOOL", "BV"),
		baseConfig(42, "BOOL", "QUANT"),
		baseConfig(0xC0FFEE, "BOOL", "BV"),
		baseConfig(7, "BOOL", "BV", "INT", "ARRAY"),
	}
	for _, cfg := range configs {
		require.NoError(t, Check(cfg), "seed %d theories %v", cfg.Seed, cfg.Theories)
	}
}

func TestCheckWithTraceSeeds(t *testing.T) {
	cfg := baseConfig(5, "BOOL", "BV")
	cfg.TraceSeeds = true
	require.NoError(t, Check(cfg))
}

func TestReplayRejectsGarbage(t *testing.T) {
	_, err := Replay([]byte("new\nnot-an-action x y\n"))
	assert.Error(t, err)
}

func TestRunVerdictIsObservable(t *testing.T) {
	run, err := Generate(baseConfig(9, "BOOL", "BV"), nil)
	require.NoError(t, err)
	assert.Contains(t, []solver.Result{solver.Unknown, solver.Sat, solver.Unsat}, run.SatResult)
}
