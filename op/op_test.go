package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/smtfuzz/theory"
)

func TestBuiltinsRegistered(t *testing.T) {
	c := NewCatalog()
	for _, kind := range []Kind{
		Equal, Distinct, Ite, And, Or, Not,
		BVExtract, BVAdd, BVUlt, BVConcat,
		IntAdd, RealDiv, ArraySelect, ArrayStore,
		FPAdd, FPIsNaN, StrConcat, StrInRe,
		Forall, Exists, UFApply,
	} {
		_, ok := c.Get(kind)
		assert.True(t, ok, "missing builtin %s", kind)
	}
}

func TestSchemaConsistency(t *testing.T) {
	c := NewCatalog()
	for _, kind := range c.Kinds() {
		o, ok := c.Get(kind)
		require.True(t, ok)
		if o.Variadic() {
			assert.Len(t, o.ArgKinds, 1, "%s", kind)
			assert.Equal(t, o.ArgKinds[0], o.ArgKind(0))
			assert.Equal(t, o.ArgKinds[0], o.ArgKind(7))
		} else {
			assert.Len(t, o.ArgKinds, o.Arity, "%s", kind)
		}
	}
}

func TestRegisterRejectsDuplicatesAndBadSchemas(t *testing.T) {
	c := NewCatalog()
	assert.Panics(t, func() {
		c.Register(Op{Kind: Equal, Arity: 2, ResultKind: theory.KindBool,
			ArgKinds: []theory.SortKind{theory.KindAny, theory.KindAny}, Theory: theory.Bool})
	})
	assert.Panics(t, func() {
		c.Register(Op{Kind: "X_BAD", Arity: 2, ResultKind: theory.KindBool,
			ArgKinds: []theory.SortKind{theory.KindBool}, Theory: theory.Bool})
	})
	assert.Panics(t, func() {
		c.Register(Op{Kind: "X_VAR", Arity: NArgs, ResultKind: theory.KindBool,
			ArgKinds: []theory.SortKind{theory.KindBool, theory.KindBool}, Theory: theory.Bool})
	})
}

func TestEnabledFilters(t *testing.T) {
	c := NewCatalog()
	boolOnly := map[theory.Theory]struct{}{theory.Bool: {}}

	ops := c.Enabled(boolOnly, nil, false)
	kinds := kindSet(ops)
	assert.Contains(t, kinds, And)
	assert.Contains(t, kinds, Equal, "polymorphic core rides with BOOL")
	assert.NotContains(t, kinds, BVAdd)

	withBV := map[theory.Theory]struct{}{theory.Bool: {}, theory.BV: {}}
	unsupported := map[Kind]struct{}{BVAdd: {}}
	kinds = kindSet(c.Enabled(withBV, unsupported, false))
	assert.Contains(t, kinds, BVSub)
	assert.NotContains(t, kinds, BVAdd, "backend veto")

	arith := map[theory.Theory]struct{}{theory.Bool: {}, theory.Int: {}, theory.Real: {}}
	kinds = kindSet(c.Enabled(arith, nil, true))
	assert.Contains(t, kinds, IntAdd)
	assert.NotContains(t, kinds, IntMul, "linear fragment drops nonlinear ops")
	assert.NotContains(t, kinds, RealDiv)
}

func TestSolverPrivateRegistration(t *testing.T) {
	c := NewCatalog()
	private := Op{Kind: "mock-BV_PARITY", Arity: 1, ResultKind: theory.KindBV,
		ArgKinds: []theory.SortKind{theory.KindBV}, Theory: theory.BV}
	c.Register(private)

	withBV := map[theory.Theory]struct{}{theory.Bool: {}, theory.BV: {}}
	assert.Contains(t, kindSet(c.Enabled(withBV, nil, false)), private.Kind)
	boolOnly := map[theory.Theory]struct{}{theory.Bool: {}}
	assert.NotContains(t, kindSet(c.Enabled(boolOnly, nil, false)), private.Kind)
}

func kindSet(ops []Op) map[Kind]struct{} {
	out := make(map[Kind]struct{}, len(ops))
	for _, o := range ops {
		out[o.Kind] = struct{}{}
	}
	return out
}
