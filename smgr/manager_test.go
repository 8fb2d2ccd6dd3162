package smgr_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/smtfuzz/mocksolver"
	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/rng"
	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

func newManager(t *testing.T, seed uint64, theories ...theory.Theory) (*smgr.Manager, *mocksolver.Solver) {
	t.Helper()
	backend := mocksolver.New()
	require.NoError(t, backend.NewSolver())
	catalog := op.NewCatalog()
	backend.ConfigureOps(catalog)
	m, err := smgr.New(backend, rng.New(seed), trace.NewWriter(io.Discard), catalog, smgr.Options{
		EnabledTheories: theories,
		SolverOptions:   mocksolver.DefaultOptions(),
		SimpleSymbols:   true,
	})
	require.NoError(t, err)
	return m, backend
}

func mkBVSort(t *testing.T, m *smgr.Manager, backend *mocksolver.Solver, width uint32) solver.Sort {
	t.Helper()
	s, err := backend.MkSortBV(width)
	require.NoError(t, err)
	return m.AddSort(s, theory.KindBV)
}

func mkBoolSort(t *testing.T, m *smgr.Manager, backend *mocksolver.Solver) solver.Sort {
	t.Helper()
	s, err := backend.MkSort(theory.KindBool)
	require.NoError(t, err)
	return m.AddSort(s, theory.KindBool)
}

func mkConst(t *testing.T, m *smgr.Manager, backend *mocksolver.Solver, sort solver.Sort, name string) solver.Term {
	t.Helper()
	c, err := backend.MkConst(sort, name)
	require.NoError(t, err)
	m.AddInput(c, sort)
	return c
}

func TestNewRejectsUnsupportedTheory(t *testing.T) {
	backend := mocksolver.New()
	require.NoError(t, backend.NewSolver())
	_, err := smgr.New(backend, rng.New(0), trace.NewWriter(io.Discard), op.NewCatalog(), smgr.Options{
		EnabledTheories: []theory.Theory{theory.Bag},
	})
	assert.Error(t, err, "mock does not advertise BAG")
}

func TestAddSortCanonicalization(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)

	a := mkBVSort(t, m, backend, 8)
	assert.Equal(t, uint64(1), a.ID())

	dup, err := backend.MkSortBV(8)
	require.NoError(t, err)
	canon := m.AddSort(dup, theory.KindBV)
	assert.Same(t, a, canon, "semantically equal sort resolves to canonical")
	assert.Equal(t, uint64(1), m.NSorts())

	b := mkBVSort(t, m, backend, 16)
	assert.Equal(t, uint64(2), b.ID(), "sort ids are strictly increasing")
}

func TestTermRegistrationAndCounters(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	bv8 := mkBVSort(t, m, backend, 8)

	x := mkConst(t, m, backend, bv8, "x")
	assert.Equal(t, uint64(1), x.ID())
	assert.Equal(t, solver.KindConst, x.TermKind())
	assert.Equal(t, uint64(1), m.NTermsOfKind(theory.KindBV))

	v, err := backend.MkValue(bv8, "7", solver.Dec)
	require.NoError(t, err)
	m.AddValue(v, bv8, solver.SpecialNone)
	assert.Equal(t, uint64(2), v.ID())
	assert.True(t, m.HasValueOfSort(bv8))
	assert.Same(t, v, m.PickValueOfSort(bv8))
}

func TestIDsAreNotReusedAfterClear(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	bv8 := mkBVSort(t, m, backend, 8)
	mkConst(t, m, backend, bv8, "x")

	m.Clear()
	assert.False(t, m.HasTerm())
	assert.False(t, m.HasSort())

	bv16 := mkBVSort(t, m, backend, 16)
	assert.Equal(t, uint64(2), bv16.ID(), "sort ids continue after clear")
	y := mkConst(t, m, backend, bv16, "y")
	assert.Equal(t, uint64(2), y.ID(), "term ids continue after clear")
}

func TestScopeEviction(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	bv8 := mkBVSort(t, m, backend, 8)
	db := m.TermDBRef()

	db.PushLevels(2)
	y := mkConst(t, m, backend, bv8, "y")
	require.Equal(t, 2, y.Level())
	require.True(t, m.HasTermOfSort(bv8))

	db.PopLevels(1)
	assert.False(t, m.HasTermOfSort(bv8), "term defined at popped level is evicted")
	_, live := m.GetTermByID(y.ID())
	assert.False(t, live)
	assert.Panics(t, func() { m.PickTermOfSort(bv8) })

	// Terms below the popped levels survive.
	x := mkConst(t, m, backend, bv8, "x")
	db.PushLevels(1)
	db.PopLevels(1)
	_, live = m.GetTermByID(x.ID())
	assert.True(t, live)
}

func TestPopBelowGlobalPanics(t *testing.T) {
	m, _ := newManager(t, 1, theory.BV)
	assert.Panics(t, func() { m.TermDBRef().PopLevels(1) })
}

func TestBinderScope(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV, theory.Quant)
	boolSort := mkBoolSort(t, m, backend)

	require.False(t, m.InBinderScope())
	assert.False(t, m.HasVar())
	assert.False(t, m.HasQuantBody())

	v, err := backend.MkVar(boolSort, "b")
	require.NoError(t, err)
	m.AddVar(v, boolSort)
	assert.True(t, m.InBinderScope())
	assert.True(t, m.HasVar())
	assert.Same(t, v, m.PickVar())
	assert.Equal(t, solver.KindBoundVar, v.TermKind())

	// The variable itself is a Boolean term in scope, so it can serve as
	// a matrix.
	assert.True(t, m.HasQuantBody())
	body, err := backend.MkTerm(op.Not, []solver.Term{v}, nil)
	require.NoError(t, err)
	rsort, err := backend.GetSort(body)
	require.NoError(t, err)
	m.AddTerm(body, m.EnsureSort(rsort, rsort.Kind()), []solver.Term{v})

	m.CloseBinderScope()
	assert.False(t, m.InBinderScope())
	_, live := m.GetTermByID(v.ID())
	assert.False(t, live, "bound variable dies with its binder scope")
	_, live = m.GetTermByID(body.ID())
	assert.False(t, live, "terms built in the binder scope die with it")
}

func TestPushInsideBinderScopePanics(t *testing.T) {
	m, backend := newManager(t, 1, theory.Quant)
	boolSort := mkBoolSort(t, m, backend)
	v, err := backend.MkVar(boolSort, "b")
	require.NoError(t, err)
	m.AddVar(v, boolSort)
	assert.Panics(t, func() { m.TermDBRef().PushLevels(1) })
}

func TestPickOptionHonorsConflicts(t *testing.T) {
	backend := mocksolver.New()
	require.NoError(t, backend.NewSolver())
	opts := solver.NewOptions()
	opts.Add(solver.NewOptionBool("bar", false, nil, nil))
	opts.Add(solver.NewOptionBool("foo", false, nil, []string{"bar"}))
	m, err := smgr.New(backend, rng.New(1), trace.NewWriter(io.Discard), op.NewCatalog(), smgr.Options{
		SolverOptions: opts,
	})
	require.NoError(t, err)

	name, value := m.PickOption("bar", "true")
	require.Equal(t, "bar", name)
	require.Equal(t, "true", value)
	m.MarkOptionUsed("bar")

	name, value = m.PickOption("foo", "")
	assert.Empty(t, name, "conflicting option is unpickable")
	assert.Empty(t, value)
}

func TestPickOptionHonorsDependsAndUsed(t *testing.T) {
	backend := mocksolver.New()
	require.NoError(t, backend.NewSolver())
	opts := solver.NewOptions()
	opts.Add(solver.NewOptionBool("base", false, nil, nil))
	opts.Add(solver.NewOptionBool("dependent", false, []string{"base"}, nil))
	m, err := smgr.New(backend, rng.New(1), trace.NewWriter(io.Discard), op.NewCatalog(), smgr.Options{
		SolverOptions: opts,
	})
	require.NoError(t, err)

	name, _ := m.PickOption("dependent", "")
	assert.Empty(t, name, "dependency not yet configured")

	m.MarkOptionUsed("base")
	name, _ = m.PickOption("dependent", "")
	assert.Equal(t, "dependent", name)
	m.MarkOptionUsed("dependent")

	name, _ = m.PickOption("dependent", "")
	assert.Empty(t, name, "each option is set at most once")
}

func TestPickSymbolUniqueness(t *testing.T) {
	m, _ := newManager(t, 1, theory.BV)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := m.PickSymbol()
		assert.True(t, strings.HasPrefix(s, "_s"))
		assert.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true
	}
}

func TestPickSymbolRandomModeStillUnique(t *testing.T) {
	backend := mocksolver.New()
	require.NoError(t, backend.NewSolver())
	m, err := smgr.New(backend, rng.New(9), trace.NewWriter(io.Discard), op.NewCatalog(), smgr.Options{
		SolverOptions: mocksolver.DefaultOptions(),
	})
	require.NoError(t, err)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		s := m.PickSymbol()
		require.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true
	}
}

func TestPickOpRealizability(t *testing.T) {
	m, backend := newManager(t, 3, theory.BV)
	assert.False(t, m.HasRealizableOp(), "no terms, nothing to apply")
	_, ok := m.PickOp()
	assert.False(t, ok)

	bv8 := mkBVSort(t, m, backend, 8)
	mkConst(t, m, backend, bv8, "x")
	require.True(t, m.HasRealizableOp())

	for i := 0; i < 50; i++ {
		o, ok := m.PickOp()
		require.True(t, ok)
		for j := 0; j < o.Arity; j++ {
			if o.ArgKind(j) == theory.KindBool {
				t.Fatalf("op %s needs a Boolean term but none exists", o.Kind)
			}
		}
	}
}

func TestEnabledOpsIncludeSolverPrivate(t *testing.T) {
	m, _ := newManager(t, 3, theory.BV)
	kinds := map[op.Kind]bool{}
	for _, o := range m.EnabledOps() {
		kinds[o.Kind] = true
	}
	assert.True(t, kinds[mocksolver.OpRedor])
	assert.True(t, kinds[mocksolver.OpRedand])
	assert.False(t, kinds[op.FPRem], "backend vetoes FP_REM")
}

func TestAssumptionsAndSatBookkeeping(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	boolSort := mkBoolSort(t, m, backend)
	a := mkConst(t, m, backend, boolSort, "a")

	assert.False(t, m.HasAssumed())
	m.AddAssumption(a)
	assert.True(t, m.HasAssumed())
	assert.Same(t, a, m.PickAssumedAssumption())

	m.RecordSat(solver.Sat)
	assert.True(t, m.SatCalled)
	assert.Equal(t, solver.Sat, m.SatResult)
	assert.Equal(t, uint32(1), m.NSatCalls)

	m.ResetSat()
	assert.False(t, m.SatCalled)
	assert.Equal(t, solver.Unknown, m.SatResult)
	assert.False(t, m.HasAssumed(), "fresh problem drops assumptions")
}

func TestDisableTheory(t *testing.T) {
	m, _ := newManager(t, 1, theory.BV, theory.Int)
	require.True(t, m.TheoryEnabled(theory.Int))
	require.True(t, m.SortKindEnabled(theory.KindInt))

	m.DisableTheory(theory.Int)
	assert.False(t, m.TheoryEnabled(theory.Int))
	assert.False(t, m.SortKindEnabled(theory.KindInt))
	assert.True(t, m.SortKindEnabled(theory.KindBV))
}

func TestUntracedRegistries(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	bv8 := mkBVSort(t, m, backend, 8)
	x := mkConst(t, m, backend, bv8, "x")

	m.RegisterUntracedSort(1, bv8)
	m.RegisterUntracedTerm(1, x)

	s, err := m.UntracedSort(1)
	require.NoError(t, err)
	assert.Same(t, bv8, s)
	tm, err := m.UntracedTerm(1)
	require.NoError(t, err)
	assert.Same(t, x, tm)

	_, err = m.UntracedSort(99)
	assert.Error(t, err, "missing trace ids are fatal")
	_, err = m.UntracedTerm(99)
	assert.Error(t, err)
}

func TestBVSortPickers(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	bv8 := mkBVSort(t, m, backend, 8)
	bv16 := mkBVSort(t, m, backend, 16)

	require.True(t, m.HasSortBV(8))
	assert.False(t, m.HasSortBV(32))
	assert.Same(t, bv8, m.PickSortBV(8))

	require.True(t, m.HasSortBVMax(8))
	assert.Same(t, bv8, m.PickSortBVMax(8))
	for i := 0; i < 20; i++ {
		got := m.PickSortBVMax(16)
		assert.True(t, got == bv8 || got == bv16)
	}
	assert.Panics(t, func() { m.PickSortBV(32) })
}

func TestPickTermOfKindLevel(t *testing.T) {
	m, backend := newManager(t, 1, theory.BV)
	bv8 := mkBVSort(t, m, backend, 8)
	x := mkConst(t, m, backend, bv8, "x")

	m.TermDBRef().PushLevels(1)
	y := mkConst(t, m, backend, bv8, "y")

	for i := 0; i < 20; i++ {
		got := m.PickTermOfKindLevel(theory.KindBV, 0)
		assert.Same(t, x, got, "level-0 sampling never sees level-1 terms")
	}
	seen := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		seen[m.PickTermOfKindLevel(theory.KindBV, 1).ID()] = true
	}
	assert.True(t, seen[x.ID()] && seen[y.ID()])
}

func TestStringCharPool(t *testing.T) {
	m, backend := newManager(t, 1, theory.String)
	s, err := backend.MkSort(theory.KindString)
	require.NoError(t, err)
	strSort := m.AddSort(s, theory.KindString)

	v, err := backend.MkValue(strSort, "a", solver.Dec)
	require.NoError(t, err)
	m.AddValue(v, strSort, solver.SpecialNone)
	m.AddStringCharValue(v)

	require.True(t, m.HasStringCharValue())
	assert.Same(t, v, m.PickStringCharValue())
}
