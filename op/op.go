// Package op is the operator catalog: a declarative table of every
// operator the fuzzer may apply, with its arity, index parameters,
// argument sort-kind constraints, result sort-kind rule, and owning
// theory. The catalog is the single place where sort kinds govern
// operator dispatch; samplers consult it instead of branching on kinds
// themselves.
package op

import (
	"fmt"

	"alma.local/smtfuzz/theory"
)

// Kind is the stable string tag of an operator, as it appears in traces.
type Kind string

const (
	// NArgs marks a variadic operator.
	NArgs = -1
	// MinVarArgs and MaxVarArgs bound the sampled arity of variadic
	// operators.
	MinVarArgs = 2
	MaxVarArgs = 11
)

// Polymorphic core.
const (
	Equal    Kind = "EQUAL"
	Distinct Kind = "DISTINCT"
	Ite      Kind = "ITE"
)

// Boolean.
const (
	And     Kind = "AND"
	Or      Kind = "OR"
	Not     Kind = "NOT"
	Xor     Kind = "XOR"
	Implies Kind = "IMPLIES"
)

// Bit-vectors.
const (
	BVConcat      Kind = "BV_CONCAT"
	BVExtract     Kind = "BV_EXTRACT"
	BVNot         Kind = "BV_NOT"
	BVNeg         Kind = "BV_NEG"
	BVAnd         Kind = "BV_AND"
	BVOr          Kind = "BV_OR"
	BVXor         Kind = "BV_XOR"
	BVAdd         Kind = "BV_ADD"
	BVSub         Kind = "BV_SUB"
	BVMul         Kind = "BV_MUL"
	BVUdiv        Kind = "BV_UDIV"
	BVUrem        Kind = "BV_UREM"
	BVSdiv        Kind = "BV_SDIV"
	BVSrem        Kind = "BV_SREM"
	BVSmod        Kind = "BV_SMOD"
	BVShl         Kind = "BV_SHL"
	BVLshr        Kind = "BV_LSHR"
	BVAshr        Kind = "BV_ASHR"
	BVUlt         Kind = "BV_ULT"
	BVUle         Kind = "BV_ULE"
	BVUgt         Kind = "BV_UGT"
	BVUge         Kind = "BV_UGE"
	BVSlt         Kind = "BV_SLT"
	BVSle         Kind = "BV_SLE"
	BVSgt         Kind = "BV_SGT"
	BVSge         Kind = "BV_SGE"
	BVComp        Kind = "BV_COMP"
	BVZeroExtend  Kind = "BV_ZERO_EXTEND"
	BVSignExtend  Kind = "BV_SIGN_EXTEND"
	BVRotateLeft  Kind = "BV_ROTATE_LEFT"
	BVRotateRight Kind = "BV_ROTATE_RIGHT"
)

// Integer arithmetic.
const (
	IntNeg    Kind = "INT_NEG"
	IntSub    Kind = "INT_SUB"
	IntAdd    Kind = "INT_ADD"
	IntMul    Kind = "INT_MUL"
	IntDiv    Kind = "INT_DIV"
	IntMod    Kind = "INT_MOD"
	IntAbs    Kind = "INT_ABS"
	IntLt     Kind = "INT_LT"
	IntLe     Kind = "INT_LE"
	IntGt     Kind = "INT_GT"
	IntGe     Kind = "INT_GE"
	IntToReal Kind = "INT_TO_REAL"
)

// Real arithmetic.
const (
	RealNeg   Kind = "REAL_NEG"
	RealSub   Kind = "REAL_SUB"
	RealAdd   Kind = "REAL_ADD"
	RealMul   Kind = "REAL_MUL"
	RealDiv   Kind = "REAL_DIV"
	RealLt    Kind = "REAL_LT"
	RealLe    Kind = "REAL_LE"
	RealGt    Kind = "REAL_GT"
	RealGe    Kind = "REAL_GE"
	RealIsInt Kind = "REAL_IS_INT"
	RealToInt Kind = "REAL_TO_INT"
)

// Arrays.
const (
	ArraySelect Kind = "ARRAY_SELECT"
	ArrayStore  Kind = "ARRAY_STORE"
)

// Floating point. Arithmetic takes a rounding mode as first argument.
const (
	FPAbs         Kind = "FP_ABS"
	FPNeg         Kind = "FP_NEG"
	FPAdd         Kind = "FP_ADD"
	FPSub         Kind = "FP_SUB"
	FPMul         Kind = "FP_MUL"
	FPDiv         Kind = "FP_DIV"
	FPFma         Kind = "FP_FMA"
	FPSqrt        Kind = "FP_SQRT"
	FPRem         Kind = "FP_REM"
	FPMin         Kind = "FP_MIN"
	FPMax         Kind = "FP_MAX"
	FPEq          Kind = "FP_EQ"
	FPLt          Kind = "FP_LT"
	FPLeq         Kind = "FP_LEQ"
	FPGt          Kind = "FP_GT"
	FPGeq         Kind = "FP_GEQ"
	FPIsNormal    Kind = "FP_IS_NORMAL"
	FPIsSubnormal Kind = "FP_IS_SUBNORMAL"
	FPIsZero      Kind = "FP_IS_ZERO"
	FPIsInf       Kind = "FP_IS_INF"
	FPIsNaN       Kind = "FP_IS_NAN"
	FPIsNeg       Kind = "FP_IS_NEG"
	FPIsPos       Kind = "FP_IS_POS"
)

// Strings and regular languages.
const (
	StrConcat   Kind = "STR_CONCAT"
	StrLen      Kind = "STR_LEN"
	StrLt       Kind = "STR_LT"
	StrAt       Kind = "STR_AT"
	StrSubstr   Kind = "STR_SUBSTR"
	StrPrefixof Kind = "STR_PREFIXOF"
	StrSuffixof Kind = "STR_SUFFIXOF"
	StrContains Kind = "STR_CONTAINS"
	StrIndexof  Kind = "STR_INDEXOF"
	StrReplace  Kind = "STR_REPLACE"
	StrToRe     Kind = "STR_TO_RE"
	StrInRe     Kind = "STR_IN_RE"
	ReConcat    Kind = "RE_CONCAT"
	ReUnion     Kind = "RE_UNION"
	ReInter     Kind = "RE_INTER"
	ReStar      Kind = "RE_STAR"
	RePlus      Kind = "RE_PLUS"
	ReOpt       Kind = "RE_OPT"
)

// Quantifiers and uninterpreted functions.
const (
	Forall  Kind = "FORALL"
	Exists  Kind = "EXISTS"
	UFApply Kind = "UF_APPLY"
)

// Op is the schema of one operator. For fixed-arity operators ArgKinds
// has Arity entries; for variadic operators (Arity == NArgs) it has a
// single entry that applies to every argument.
type Op struct {
	Kind       Kind
	Arity      int
	NParams    int
	ResultKind theory.SortKind
	ArgKinds   []theory.SortKind
	Theory     theory.Theory
}

// Variadic reports whether the operator takes a sampled number of
// arguments.
func (o Op) Variadic() bool {
	return o.Arity == NArgs
}

// ArgKind returns the required sort kind of argument i.
func (o Op) ArgKind(i int) theory.SortKind {
	if o.Variadic() {
		return o.ArgKinds[0]
	}
	return o.ArgKinds[i]
}

// Nonlinear reports whether the operator falls outside the linear
// arithmetic fragment.
func (o Op) Nonlinear() bool {
	switch o.Kind {
	case IntMul, IntDiv, IntMod, RealMul, RealDiv:
		return true
	}
	return false
}

// Catalog holds every registered operator, built-ins and solver-private
// ones alike, in registration order.
type Catalog struct {
	ops   map[Kind]Op
	order []Kind
}

// NewCatalog returns a catalog populated with the built-in operator set.
func NewCatalog() *Catalog {
	c := &Catalog{ops: make(map[Kind]Op)}
	for _, o := range builtins {
		c.Register(o)
	}
	return c
}

// Register adds an operator to the catalog. Re-registering a kind is an
// invariant violation: operator kinds are globally unique tags.
func (c *Catalog) Register(o Op) {
	if _, ok := c.ops[o.Kind]; ok {
		panic(fmt.Sprintf("op: duplicate operator kind %s", o.Kind))
	}
	if o.Variadic() && len(o.ArgKinds) != 1 {
		panic(fmt.Sprintf("op: variadic operator %s needs exactly one arg kind", o.Kind))
	}
	if !o.Variadic() && len(o.ArgKinds) != o.Arity {
		panic(fmt.Sprintf("op: operator %s arity/arg-kind mismatch", o.Kind))
	}
	c.ops[o.Kind] = o
	c.order = append(c.order, o.Kind)
}

// Get looks up an operator schema by kind.
func (c *Catalog) Get(kind Kind) (Op, bool) {
	o, ok := c.ops[kind]
	return o, ok
}

// Kinds returns every registered kind in registration order.
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, len(c.order))
	copy(out, c.order)
	return out
}

// Enabled returns the operators the fuzzer may choose from: those of an
// enabled theory, not vetoed by the backend, and inside the linear
// fragment when arithLinear is set. Polymorphic core operators (EQUAL,
// DISTINCT, ITE) are owned by BOOL and thus always eligible.
func (c *Catalog) Enabled(enabledTheories map[theory.Theory]struct{}, unsupported map[Kind]struct{}, arithLinear bool) []Op {
	var out []Op
	for _, kind := range c.order {
		o := c.ops[kind]
		if _, ok := enabledTheories[o.Theory]; !ok {
			continue
		}
		if _, ok := unsupported[o.Kind]; ok {
			continue
		}
		if arithLinear && o.Nonlinear() {
			continue
		}
		out = append(out, o)
	}
	return out
}

var builtins = []Op{
	// Polymorphic core. ANY argument kinds are instantiated to a single
	// concrete sort at sampling time.
	{Kind: Equal, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindAny, theory.KindAny), Theory: theory.Bool},
	{Kind: Distinct, Arity: NArgs, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindAny), Theory: theory.Bool},
	{Kind: Ite, Arity: 3, ResultKind: theory.KindAny, ArgKinds: kinds(theory.KindBool, theory.KindAny, theory.KindAny), Theory: theory.Bool},

	{Kind: And, Arity: NArgs, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBool), Theory: theory.Bool},
	{Kind: Or, Arity: NArgs, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBool), Theory: theory.Bool},
	{Kind: Not, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBool), Theory: theory.Bool},
	{Kind: Xor, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBool, theory.KindBool), Theory: theory.Bool},
	{Kind: Implies, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBool, theory.KindBool), Theory: theory.Bool},

	{Kind: BVConcat, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVExtract, Arity: 1, NParams: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},
	{Kind: BVNot, Arity: 1, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},
	{Kind: BVNeg, Arity: 1, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},
	{Kind: BVAnd, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVOr, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVXor, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVAdd, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSub, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVMul, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVUdiv, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVUrem, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSdiv, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSrem, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSmod, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVShl, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVLshr, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVAshr, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVUlt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVUle, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVUgt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVUge, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSlt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSle, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSgt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVSge, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVComp, Arity: 2, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV, theory.KindBV), Theory: theory.BV},
	{Kind: BVZeroExtend, Arity: 1, NParams: 1, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},
	{Kind: BVSignExtend, Arity: 1, NParams: 1, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},
	{Kind: BVRotateLeft, Arity: 1, NParams: 1, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},
	{Kind: BVRotateRight, Arity: 1, NParams: 1, ResultKind: theory.KindBV, ArgKinds: kinds(theory.KindBV), Theory: theory.BV},

	{Kind: IntNeg, Arity: 1, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt), Theory: theory.Int},
	{Kind: IntSub, Arity: NArgs, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt), Theory: theory.Int},
	{Kind: IntAdd, Arity: NArgs, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt), Theory: theory.Int},
	{Kind: IntMul, Arity: NArgs, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt), Theory: theory.Int},
	{Kind: IntDiv, Arity: 2, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt, theory.KindInt), Theory: theory.Int},
	{Kind: IntMod, Arity: 2, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt, theory.KindInt), Theory: theory.Int},
	{Kind: IntAbs, Arity: 1, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindInt), Theory: theory.Int},
	{Kind: IntLt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindInt, theory.KindInt), Theory: theory.Int},
	{Kind: IntLe, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindInt, theory.KindInt), Theory: theory.Int},
	{Kind: IntGt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindInt, theory.KindInt), Theory: theory.Int},
	{Kind: IntGe, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindInt, theory.KindInt), Theory: theory.Int},
	{Kind: IntToReal, Arity: 1, ResultKind: theory.KindReal, ArgKinds: kinds(theory.KindInt), Theory: theory.Int},

	{Kind: RealNeg, Arity: 1, ResultKind: theory.KindReal, ArgKinds: kinds(theory.KindReal), Theory: theory.Real},
	{Kind: RealSub, Arity: NArgs, ResultKind: theory.KindReal, ArgKinds: kinds(theory.KindReal), Theory: theory.Real},
	{Kind: RealAdd, Arity: NArgs, ResultKind: theory.KindReal, ArgKinds: kinds(theory.KindReal), Theory: theory.Real},
	{Kind: RealMul, Arity: NArgs, ResultKind: theory.KindReal, ArgKinds: kinds(theory.KindReal), Theory: theory.Real},
	{Kind: RealDiv, Arity: 2, ResultKind: theory.KindReal, ArgKinds: kinds(theory.KindReal, theory.KindReal), Theory: theory.Real},
	{Kind: RealLt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindReal, theory.KindReal), Theory: theory.Real},
	{Kind: RealLe, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindReal, theory.KindReal), Theory: theory.Real},
	{Kind: RealGt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindReal, theory.KindReal), Theory: theory.Real},
	{Kind: RealGe, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindReal, theory.KindReal), Theory: theory.Real},
	{Kind: RealIsInt, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindReal), Theory: theory.Real},
	{Kind: RealToInt, Arity: 1, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindReal), Theory: theory.Real},

	{Kind: ArraySelect, Arity: 2, ResultKind: theory.KindAny, ArgKinds: kinds(theory.KindArray, theory.KindAny), Theory: theory.Array},
	{Kind: ArrayStore, Arity: 3, ResultKind: theory.KindArray, ArgKinds: kinds(theory.KindArray, theory.KindAny, theory.KindAny), Theory: theory.Array},

	{Kind: FPAbs, Arity: 1, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPNeg, Arity: 1, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPAdd, Arity: 3, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindRM, theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPSub, Arity: 3, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindRM, theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPMul, Arity: 3, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindRM, theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPDiv, Arity: 3, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindRM, theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPFma, Arity: 4, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindRM, theory.KindFP, theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPSqrt, Arity: 2, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindRM, theory.KindFP), Theory: theory.FP},
	{Kind: FPRem, Arity: 2, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPMin, Arity: 2, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPMax, Arity: 2, ResultKind: theory.KindFP, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPEq, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPLt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPLeq, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPGt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPGeq, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP, theory.KindFP), Theory: theory.FP},
	{Kind: FPIsNormal, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPIsSubnormal, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPIsZero, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPIsInf, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPIsNaN, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPIsNeg, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},
	{Kind: FPIsPos, Arity: 1, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindFP), Theory: theory.FP},

	{Kind: StrConcat, Arity: NArgs, ResultKind: theory.KindString, ArgKinds: kinds(theory.KindString), Theory: theory.String},
	{Kind: StrLen, Arity: 1, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindString), Theory: theory.String},
	{Kind: StrLt, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindString, theory.KindString), Theory: theory.String},
	{Kind: StrAt, Arity: 2, ResultKind: theory.KindString, ArgKinds: kinds(theory.KindString, theory.KindInt), Theory: theory.String},
	{Kind: StrSubstr, Arity: 3, ResultKind: theory.KindString, ArgKinds: kinds(theory.KindString, theory.KindInt, theory.KindInt), Theory: theory.String},
	{Kind: StrPrefixof, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindString, theory.KindString), Theory: theory.String},
	{Kind: StrSuffixof, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindString, theory.KindString), Theory: theory.String},
	{Kind: StrContains, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindString, theory.KindString), Theory: theory.String},
	{Kind: StrIndexof, Arity: 3, ResultKind: theory.KindInt, ArgKinds: kinds(theory.KindString, theory.KindString, theory.KindInt), Theory: theory.String},
	{Kind: StrReplace, Arity: 3, ResultKind: theory.KindString, ArgKinds: kinds(theory.KindString, theory.KindString, theory.KindString), Theory: theory.String},
	{Kind: StrToRe, Arity: 1, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindString), Theory: theory.String},
	{Kind: StrInRe, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindString, theory.KindRegLan), Theory: theory.String},
	{Kind: ReConcat, Arity: NArgs, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindRegLan), Theory: theory.String},
	{Kind: ReUnion, Arity: NArgs, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindRegLan), Theory: theory.String},
	{Kind: ReInter, Arity: NArgs, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindRegLan), Theory: theory.String},
	{Kind: ReStar, Arity: 1, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindRegLan), Theory: theory.String},
	{Kind: RePlus, Arity: 1, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindRegLan), Theory: theory.String},
	{Kind: ReOpt, Arity: 1, ResultKind: theory.KindRegLan, ArgKinds: kinds(theory.KindRegLan), Theory: theory.String},

	// Quantifier args are [bound var, Boolean matrix]; the var is picked
	// from the binder scope, not from the general term pools.
	{Kind: Forall, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindAny, theory.KindBool), Theory: theory.Quant},
	{Kind: Exists, Arity: 2, ResultKind: theory.KindBool, ArgKinds: kinds(theory.KindAny, theory.KindBool), Theory: theory.Quant},

	// UF application: [function, domain args...]; instantiated against a
	// sampled FUN sort.
	{Kind: UFApply, Arity: NArgs, ResultKind: theory.KindAny, ArgKinds: kinds(theory.KindFun), Theory: theory.UF},
}

func kinds(ks ...theory.SortKind) []theory.SortKind {
	return ks
}
