package fsm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/smtfuzz/fsm"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
)

func replay(t *testing.T, h *harness, traceText string) error {
	t.Helper()
	u := fsm.NewUntracer(h.m, h.machine.Actions())
	return u.Run(strings.NewReader(traceText))
}

// BV identity: a constant equals itself, so the assertion is satisfiable.
const bvIdentityTrace = `# bv identity
new
set-opt produce-models true
mk-sort BV 8
return s1
mk-const s1 "x"
return t1
mk-term EQUAL t1 t1
return t2
assert t2
check-sat
`

func TestUntraceBVIdentity(t *testing.T) {
	h := newHarness(t, 0, nil, theory.Bool, theory.BV)
	require.NoError(t, replay(t, h, bvIdentityTrace))

	assert.Equal(t, solver.Sat, h.m.SatResult)
	assert.True(t, h.m.SatCalled)
	assert.Equal(t, uint64(2), h.m.NTerms())
	assert.Equal(t, uint64(2), h.m.NSorts(), "BV 8 plus the Boolean result sort")

	log := h.backend.CallLog()
	want := []string{"new", "set-opt produce-models=true", "mk-sort BV 8", "mk-const x", "mk-term EQUAL/2", "assert", "check-sat"}
	assert.Equal(t, want, log)
}

// Quantified Boolean: forall b . b or (not b) is satisfiable.
const quantTrace = `new
mk-sort BOOL
return s1
mk-var s1 "b"
return t1
mk-term NOT t1
return t2
mk-term OR t1 t2
return t3
mk-term FORALL t1 t3
return t4
assert t4
check-sat
`

func TestUntraceQuantifiedBool(t *testing.T) {
	h := newHarness(t, 42, nil, theory.Bool, theory.Quant)
	require.NoError(t, replay(t, h, quantTrace))

	assert.Equal(t, solver.Sat, h.m.SatResult)
	assert.False(t, h.m.InBinderScope(), "quantifier closed its binder scope")

	// The quantified formula survives at the global level; the matrix
	// pieces died with the binder scope.
	quant, live := h.m.GetTermByID(4)
	require.True(t, live)
	assert.Equal(t, theory.KindBool, quant.Sort().Kind())
	_, live = h.m.GetTermByID(2)
	assert.False(t, live)
	_, live = h.m.GetTermByID(3)
	assert.False(t, live)
}

// Push/pop eviction: a constant created under push is unreachable after
// the level pops.
const pushPopTrace = `new
set-opt incremental true
mk-sort BV 8
return s1
push 2
mk-const s1 "y"
return t1
pop 1
`

func TestUntracePushPopEviction(t *testing.T) {
	h := newHarness(t, 0, nil, theory.Bool, theory.BV)
	require.NoError(t, replay(t, h, pushPopTrace))

	_, live := h.m.GetTermByID(1)
	assert.False(t, live, "t_y died with its level")

	sort, ok := h.m.GetSortByID(1)
	require.True(t, ok)
	assert.False(t, h.m.HasTermOfSort(sort))
	assert.Panics(t, func() { h.m.PickTermOfSort(sort) })
	assert.Equal(t, uint32(1), h.m.NPushLevels)
}

// Unsat assumptions: x=0 and x=1 cannot hold together.
const unsatAssumptionsTrace = `new
set-opt incremental true
set-opt produce-unsat-assumptions true
mk-sort BV 8
return s1
mk-const s1 "x"
return t1
mk-value s1 0
return t2
mk-value s1 1
return t3
mk-term EQUAL t1 t2
return t4
mk-term EQUAL t1 t3
return t5
check-sat-assuming t4 t5
get-unsat-assumptions
`

func TestUntraceUnsatAssumptions(t *testing.T) {
	h := newHarness(t, 0, nil, theory.Bool, theory.BV)
	require.NoError(t, replay(t, h, unsatAssumptionsTrace))

	assert.Equal(t, solver.Unsat, h.m.SatResult)
	failed, err := h.backend.GetUnsatAssumptions()
	require.NoError(t, err)
	assert.NotEmpty(t, failed, "a non-empty subset of the assumptions failed")

	eq0, _ := h.m.GetTermByID(4)
	eq1, _ := h.m.GetTermByID(5)
	for _, f := range failed {
		assert.True(t, f.Equals(eq0) || f.Equals(eq1))
	}
}

func TestUntraceErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		wants string
	}{
		{"unknown action", "new\nwarp-drive on\n", "unknown action kind"},
		{"missing term id", "new\nassert t9\n", "t9"},
		{"missing sort id", "new\nmk-const s3 \"x\"\n", "s3"},
		{"return without object", "new\nreturn t1\n", "nothing created"},
		{"missing return", "new\nmk-sort BOOL\ncheck-sat\n", "never bound"},
		{"sort id for term", "new\nmk-sort BOOL\nreturn t1\n", "made no term"},
		{"bad seed", "set-seed banana\n", "bad seed"},
		{"transition in stream", "new\nt_default\n", "unknown action"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, 0, nil, theory.Bool, theory.BV)
			err := replay(t, h, tc.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wants)
		})
	}
}

func TestUntraceReportsLineNumbers(t *testing.T) {
	h := newHarness(t, 0, nil, theory.Bool, theory.BV)
	err := replay(t, h, "# comment\nnew\nassert t1\n")
	require.Error(t, err)
	var ue *fsm.UntraceError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 3, ue.Line)
}

func TestRoundTripGeneratedTraces(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		gen := newHarness(t, seed, nil, theory.Bool, theory.BV, theory.Int)
		require.NoError(t, gen.machine.Run(60), "seed %d", seed)
		original := gen.buf.String()

		rep := newHarness(t, 0, nil, theory.Bool, theory.BV, theory.Int)
		require.NoError(t, replay(t, rep, original), "seed %d", seed)

		assert.Equal(t, gen.backend.CallLog(), rep.backend.CallLog(),
			"seed %d: replay must issue the identical backend call sequence", seed)
		assert.Equal(t, gen.m.SatResult, rep.m.SatResult, "seed %d", seed)
		assert.Equal(t, gen.m.NTerms(), rep.m.NTerms(), "seed %d: id stream", seed)
		assert.Equal(t, gen.m.NSorts(), rep.m.NSorts(), "seed %d: id stream", seed)
	}
}

func TestRoundTripWithTraceSeeds(t *testing.T) {
	backendTheories := []theory.Theory{theory.Bool, theory.BV}

	gen := newHarnessTraceSeeds(t, 1234, backendTheories)
	require.NoError(t, gen.machine.Run(40))
	original := gen.buf.String()
	require.Contains(t, original, "set-seed ")

	rep := newHarness(t, 0, nil, backendTheories...)
	require.NoError(t, replay(t, rep, original))
	assert.Equal(t, gen.backend.CallLog(), rep.backend.CallLog())
}

func TestUntraceIgnoresCommentsAndBlankLines(t *testing.T) {
	h := newHarness(t, 0, nil, theory.Bool, theory.BV)
	text := "# prologue\n\nnew\n\n# mid\nmk-sort BV 4\nreturn s1\n# epilogue\n"
	require.NoError(t, replay(t, h, text))
	assert.Equal(t, uint64(1), h.m.NSorts())
}
