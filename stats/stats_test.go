package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersMirrorPrometheus(t *testing.T) {
	s := New()
	s.IncSorts()
	s.IncTerms()
	s.IncTerms()
	s.IncInputs()
	s.IncVars()
	s.IncSatCalls()
	s.IncActions("mk-term")
	s.IncActions("mk-term")
	s.IncActions("check-sat")

	assert.Equal(t, uint64(1), s.NSorts)
	assert.Equal(t, uint64(2), s.NTerms)
	assert.Equal(t, uint64(1), s.NInputs)
	assert.Equal(t, uint64(1), s.NVars)
	assert.Equal(t, uint64(1), s.NSatCalls)
	assert.Equal(t, uint64(3), s.NActions)

	families, err := s.Registry().Gather()
	require.NoError(t, err)
	byName := map[string]float64{}
	for _, mf := range families {
		total := 0.0
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		byName[mf.GetName()] = total
	}
	assert.Equal(t, 1.0, byName["smtfuzz_sorts_total"])
	assert.Equal(t, 2.0, byName["smtfuzz_terms_total"])
	assert.Equal(t, 3.0, byName["smtfuzz_actions_total"])
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := New()
	b := New()
	a.IncSorts()
	assert.Equal(t, uint64(1), a.NSorts)
	assert.Equal(t, uint64(0), b.NSorts)

	// Registering twice in one process must not collide.
	families, err := b.Registry().Gather()
	require.NoError(t, err)
	assert.NotNil(t, families)
}
