// Package mocksolver is a complete in-memory backend used by the test
// suite and the selfcheck driver command. It builds structural terms,
// answers check-sat by ground evaluation plus conflicting-equality
// detection, and records every capability call in an observable log so
// replays can be compared call for call against original runs.
package mocksolver

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
)

// Name is the solver id; solver-private action and operator kinds are
// prefixed with it.
const Name = "mock"

// Private operator kinds contributed via ConfigureOps.
const (
	OpRedor  op.Kind = Name + "-BV_REDOR"
	OpRedand op.Kind = Name + "-BV_REDAND"
)

// Sort is the mock backend sort: kind plus structural parameters.
type Sort struct {
	solver.SortBase
	width uint32 // BV
	exp   uint32 // FP
	sig   uint32 // FP
}

func (s *Sort) BVWidth() uint32 { return s.width }
func (s *Sort) FPExpWidth() uint32 { return s.exp }
func (s *Sort) FPSigWidth() uint32 { return s.sig }

// Equals is structural: same kind, same parameters, equal children.
func (s *Sort) Equals(other solver.Sort) bool {
	o, ok := other.(*Sort)
	if !ok {
		return false
	}
	if s.Kind() != o.Kind() || s.width != o.width || s.exp != o.exp || s.sig != o.sig {
		return false
	}
	a, b := s.Sorts(), o.Sorts()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// Term is the mock backend term: a structural tree with an optional
// literal value.
type Term struct {
	solver.TermBase
	opKind  op.Kind
	name    string
	value   string // normalized literal, empty for non-values
	resSort solver.Sort
}

// OpKind returns the applied operator, empty for leaves.
func (t *Term) OpKind() op.Kind { return t.opKind }

// Equals is structural.
func (t *Term) Equals(other solver.Term) bool {
	o, ok := other.(*Term)
	if !ok {
		return false
	}
	if t == o {
		return true
	}
	if t.opKind != o.opKind || t.name != o.name || t.value != o.value {
		return false
	}
	if (t.resSort == nil) != (o.resSort == nil) {
		return false
	}
	if t.resSort != nil && !t.resSort.Equals(o.resSort) {
		return false
	}
	a, b := t.Args(), o.Args()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// Solver is the in-memory backend.
type Solver struct {
	initialized bool
	opts        map[string]string
	levels      [][]solver.Term // assertion stack, levels[0] global
	assumptions []solver.Term
	failed      []solver.Term
	lastResult  solver.Result
	satAssuming bool
	log         []string
	simplifies  int
}

// New returns an inactive mock backend.
func New() *Solver {
	return &Solver{}
}

// CallLog returns the observable capability call sequence.
func (s *Solver) CallLog() []string {
	out := make([]string, len(s.log))
	copy(out, s.log)
	return out
}

// Simplifies returns how often the private simplify action fired.
func (s *Solver) Simplifies() int { return s.simplifies }

func (s *Solver) record(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

func (s *Solver) Name() string { return Name }

func (s *Solver) NewSolver() error {
	if s.initialized {
		return fmt.Errorf("mock: solver already initialized")
	}
	s.initialized = true
	s.opts = make(map[string]string)
	s.levels = [][]solver.Term{nil}
	s.assumptions = nil
	s.failed = nil
	s.lastResult = solver.Unknown
	s.satAssuming = false
	s.record("new")
	return nil
}

func (s *Solver) DeleteSolver() error {
	if !s.initialized {
		return fmt.Errorf("mock: delete of uninitialized solver")
	}
	s.initialized = false
	s.record("delete")
	return nil
}

func (s *Solver) IsInitialized() bool { return s.initialized }

func (s *Solver) SupportedTheories() []theory.Theory {
	return []theory.Theory{
		theory.Array, theory.Bool, theory.BV, theory.FP,
		theory.Int, theory.Quant, theory.Real, theory.String, theory.UF,
	}
}

func (s *Solver) UnsupportedOpKinds() []op.Kind {
	return []op.Kind{op.FPRem}
}

func (s *Solver) UnsupportedVarSortKinds() []theory.SortKind {
	return []theory.SortKind{theory.KindArray, theory.KindFun}
}

func (s *Solver) UnsupportedArrayIndexSortKinds() []theory.SortKind {
	return []theory.SortKind{theory.KindArray, theory.KindFun}
}

func (s *Solver) UnsupportedArrayElementSortKinds() []theory.SortKind {
	return []theory.SortKind{theory.KindFun}
}

func (s *Solver) UnsupportedFunDomainSortKinds() []theory.SortKind {
	return []theory.SortKind{theory.KindArray, theory.KindFun}
}

func (s *Solver) SupportsResetAssertions() bool { return true }

// ConfigureOps contributes the solver-private reduction operators.
func (s *Solver) ConfigureOps(c *op.Catalog) {
	c.Register(op.Op{
		Kind: OpRedor, Arity: 1, ResultKind: theory.KindBV,
		ArgKinds: []theory.SortKind{theory.KindBV}, Theory: theory.BV,
	})
	c.Register(op.Op{
		Kind: OpRedand, Arity: 1, ResultKind: theory.KindBV,
		ArgKinds: []theory.SortKind{theory.KindBV}, Theory: theory.BV,
	})
}

/* Sorts -------------------------------------------------------------------- */

func (s *Solver) require() error {
	if !s.initialized {
		return fmt.Errorf("mock: solver not initialized")
	}
	return nil
}

func (s *Solver) MkSort(kind theory.SortKind) (solver.Sort, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	switch kind {
	case theory.KindBool, theory.KindRM, theory.KindInt, theory.KindReal,
		theory.KindString, theory.KindRegLan:
	default:
		return nil, fmt.Errorf("mock: MkSort of non-atomic kind %s", kind)
	}
	out := &Sort{}
	out.SetKind(kind)
	s.record("mk-sort %s", kind)
	return out, nil
}

func (s *Solver) MkSortBV(width uint32) (solver.Sort, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, fmt.Errorf("mock: BV sort of width %d", width)
	}
	out := &Sort{width: width}
	out.SetKind(theory.KindBV)
	s.record("mk-sort BV %d", width)
	return out, nil
}

func (s *Solver) MkSortFP(exp, sig uint32) (solver.Sort, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if exp < 2 || sig < 2 {
		return nil, fmt.Errorf("mock: FP sort of widths %d %d", exp, sig)
	}
	out := &Sort{exp: exp, sig: sig}
	out.SetKind(theory.KindFP)
	s.record("mk-sort FP %d %d", exp, sig)
	return out, nil
}

func (s *Solver) MkSortComposite(kind theory.SortKind, children []solver.Sort) (solver.Sort, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	switch kind {
	case theory.KindArray:
		if len(children) != 2 {
			return nil, fmt.Errorf("mock: array sort needs 2 children, got %d", len(children))
		}
	case theory.KindFun:
		if len(children) < 2 {
			return nil, fmt.Errorf("mock: function sort needs domain and codomain")
		}
	default:
		return nil, fmt.Errorf("mock: unsupported composite sort kind %s", kind)
	}
	out := &Sort{}
	out.SetKind(kind)
	out.SetSorts(children)
	s.record("mk-sort %s/%d", kind, len(children))
	return out, nil
}

/* Terms -------------------------------------------------------------------- */

func (s *Solver) MkConst(sort solver.Sort, name string) (solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("mock: constant with empty symbol")
	}
	t := &Term{name: name, resSort: sort}
	s.record("mk-const %s", name)
	return t, nil
}

func (s *Solver) MkVar(sort solver.Sort, name string) (solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	for _, bad := range s.UnsupportedVarSortKinds() {
		if sort.Kind() == bad {
			return nil, fmt.Errorf("mock: variable of unsupported sort kind %s", sort.Kind())
		}
	}
	t := &Term{name: name, resSort: sort}
	s.record("mk-var %s", name)
	return t, nil
}

func (s *Solver) MkValueBool(sort solver.Sort, value bool) (solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if sort.Kind() != theory.KindBool {
		return nil, fmt.Errorf("mock: Boolean value of sort kind %s", sort.Kind())
	}
	t := &Term{value: strconv.FormatBool(value), resSort: sort}
	s.record("mk-value %s", t.value)
	return t, nil
}

func (s *Solver) MkValue(sort solver.Sort, value string, base solver.Base) (solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	norm, err := normalizeValue(sort, value, base)
	if err != nil {
		return nil, err
	}
	t := &Term{value: norm, resSort: sort}
	s.record("mk-value %s", norm)
	return t, nil
}

// normalizeValue canonicalizes a literal so structurally different
// spellings of the same value compare equal.
func normalizeValue(sort solver.Sort, value string, base solver.Base) (string, error) {
	switch sort.Kind() {
	case theory.KindBV:
		if v, err := strconv.ParseUint(value, int(base), 64); err == nil {
			return strconv.FormatUint(v, 10), nil
		}
		if base != solver.Bin {
			return "", fmt.Errorf("mock: unparsable BV literal %q", value)
		}
		return "#b" + strings.TrimLeft(value, "0"), nil
	case theory.KindInt:
		return strings.TrimPrefix(value, "+"), nil
	case theory.KindReal, theory.KindString:
		return value, nil
	default:
		return "", fmt.Errorf("mock: value of unsupported sort kind %s", sort.Kind())
	}
}

func (s *Solver) MkSpecialValue(sort solver.Sort, kind solver.SpecialValueKind) (solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	var val string
	switch kind {
	case solver.BVZero, solver.BVOne, solver.BVOnes, solver.BVMinSigned, solver.BVMaxSigned:
		if sort.Kind() != theory.KindBV {
			return nil, fmt.Errorf("mock: BV special value for sort kind %s", sort.Kind())
		}
		val = bvSpecialValue(kind, sort.BVWidth())
	case solver.FPPosInf, solver.FPNegInf, solver.FPPosZero, solver.FPNegZero, solver.FPNaN:
		if sort.Kind() != theory.KindFP {
			return nil, fmt.Errorf("mock: FP special value for sort kind %s", sort.Kind())
		}
		val = string(kind)
	case solver.RMRNA, solver.RMRNE, solver.RMRTN, solver.RMRTP, solver.RMRTZ:
		if sort.Kind() != theory.KindRM {
			return nil, fmt.Errorf("mock: rounding mode for sort kind %s", sort.Kind())
		}
		val = string(kind)
	default:
		return nil, fmt.Errorf("mock: unknown special value kind %q", kind)
	}
	t := &Term{value: val, resSort: sort}
	s.record("mk-special-value %s", kind)
	return t, nil
}

// bvSpecialValue computes the canonical decimal of a BV special value.
// Widths above 64 keep the symbolic tag; equality still works per tag.
func bvSpecialValue(kind solver.SpecialValueKind, width uint32) string {
	if width > 64 {
		return string(kind) + "/" + strconv.FormatUint(uint64(width), 10)
	}
	ones := ^uint64(0)
	if width < 64 {
		ones = (uint64(1) << width) - 1
	}
	var v uint64
	switch kind {
	case solver.BVZero:
		v = 0
	case solver.BVOne:
		v = 1 & ones
	case solver.BVOnes:
		v = ones
	case solver.BVMinSigned:
		v = uint64(1) << (width - 1) & ones
	case solver.BVMaxSigned:
		v = (uint64(1)<<(width-1) - 1) & ones
	}
	return strconv.FormatUint(v, 10)
}

func (s *Solver) MkTerm(kind op.Kind, args []solver.Term, params []uint32) (solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("mock: operator %s applied to no arguments", kind)
	}
	resSort, err := s.resultSort(kind, args, params)
	if err != nil {
		return nil, err
	}
	cp := make([]solver.Term, len(args))
	copy(cp, args)
	t := &Term{opKind: kind, resSort: resSort}
	t.SetArgs(cp)
	s.record("mk-term %s/%d", kind, len(args))
	return t, nil
}

// resultSort computes the backend-visible sort of an operator
// application.
func (s *Solver) resultSort(kind op.Kind, args []solver.Term, params []uint32) (solver.Sort, error) {
	boolSort := func() solver.Sort {
		out := &Sort{}
		out.SetKind(theory.KindBool)
		return out
	}
	bvSort := func(w uint32) solver.Sort {
		out := &Sort{width: w}
		out.SetKind(theory.KindBV)
		return out
	}
	last := termSort(args[len(args)-1])

	switch kind {
	case op.Equal, op.Distinct, op.Not, op.And, op.Or, op.Xor, op.Implies,
		op.BVUlt, op.BVUle, op.BVUgt, op.BVUge,
		op.BVSlt, op.BVSle, op.BVSgt, op.BVSge,
		op.IntLt, op.IntLe, op.IntGt, op.IntGe,
		op.RealLt, op.RealLe, op.RealGt, op.RealGe, op.RealIsInt,
		op.FPEq, op.FPLt, op.FPLeq, op.FPGt, op.FPGeq,
		op.FPIsNormal, op.FPIsSubnormal, op.FPIsZero, op.FPIsInf,
		op.FPIsNaN, op.FPIsNeg, op.FPIsPos,
		op.StrLt, op.StrPrefixof, op.StrSuffixof, op.StrContains, op.StrInRe,
		op.Forall, op.Exists:
		return boolSort(), nil

	case op.Ite:
		return termSort(args[1]), nil

	case op.BVConcat:
		return bvSort(termSort(args[0]).BVWidth() + termSort(args[1]).BVWidth()), nil
	case op.BVExtract:
		if len(params) != 2 {
			return nil, fmt.Errorf("mock: extract needs 2 parameters")
		}
		hi, lo := params[0], params[1]
		w := termSort(args[0]).BVWidth()
		if hi >= w || lo > hi {
			return nil, fmt.Errorf("mock: extract [%d:%d] out of range for width %d", hi, lo, w)
		}
		return bvSort(hi - lo + 1), nil
	case op.BVZeroExtend, op.BVSignExtend:
		if len(params) != 1 {
			return nil, fmt.Errorf("mock: extend needs 1 parameter")
		}
		return bvSort(termSort(args[0]).BVWidth() + params[0]), nil
	case op.BVRotateLeft, op.BVRotateRight:
		if len(params) != 1 {
			return nil, fmt.Errorf("mock: rotate needs 1 parameter")
		}
		return termSort(args[0]), nil
	case op.BVComp, OpRedor, OpRedand:
		return bvSort(1), nil

	case op.ArraySelect:
		return termSort(args[0]).Sorts()[1], nil
	case op.ArrayStore:
		return termSort(args[0]), nil

	case op.UFApply:
		children := termSort(args[0]).Sorts()
		return children[len(children)-1], nil

	case op.StrLen, op.StrIndexof, op.RealToInt:
		out := &Sort{}
		out.SetKind(theory.KindInt)
		return out, nil
	case op.IntToReal:
		out := &Sort{}
		out.SetKind(theory.KindReal)
		return out, nil
	case op.StrToRe, op.ReConcat, op.ReUnion, op.ReInter, op.ReStar, op.RePlus, op.ReOpt:
		out := &Sort{}
		out.SetKind(theory.KindRegLan)
		return out, nil

	case op.FPAdd, op.FPSub, op.FPMul, op.FPDiv, op.FPFma, op.FPSqrt:
		// Rounding mode first; result follows the FP operand.
		return last, nil
	}
	// Same-sort operators (BV/INT/REAL arithmetic, string transforms).
	return termSort(args[0]), nil
}

func termSort(t solver.Term) solver.Sort {
	return t.(*Term).resSort
}

func (s *Solver) GetSort(t solver.Term) (solver.Sort, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	mt, ok := t.(*Term)
	if !ok {
		return nil, fmt.Errorf("mock: foreign term")
	}
	return mt.resSort, nil
}

/* Assertions and solving --------------------------------------------------- */

func (s *Solver) AssertFormula(t solver.Term) error {
	if err := s.require(); err != nil {
		return err
	}
	if termSort(t).Kind() != theory.KindBool {
		return fmt.Errorf("mock: assertion of non-Boolean term")
	}
	top := len(s.levels) - 1
	s.levels[top] = append(s.levels[top], t)
	s.record("assert")
	return nil
}

func (s *Solver) CheckSat() (solver.Result, error) {
	if err := s.require(); err != nil {
		return solver.Unknown, err
	}
	s.record("check-sat")
	r, _ := s.solve(nil)
	s.lastResult = r
	s.satAssuming = false
	s.failed = nil
	return r, nil
}

func (s *Solver) CheckSatAssuming(assumptions []solver.Term) (solver.Result, error) {
	if err := s.require(); err != nil {
		return solver.Unknown, err
	}
	if len(assumptions) == 0 {
		return solver.Unknown, fmt.Errorf("mock: check-sat-assuming without assumptions")
	}
	s.record("check-sat-assuming %d", len(assumptions))
	r, failed := s.solve(assumptions)
	s.lastResult = r
	s.satAssuming = true
	s.assumptions = assumptions
	s.failed = failed
	return r, nil
}

// solve evaluates the asserted stack plus assumptions: ground-false
// formulas and conflicting constant equalities yield unsat.
func (s *Solver) solve(assumptions []solver.Term) (solver.Result, []solver.Term) {
	var all []solver.Term
	for _, lvl := range s.levels {
		all = append(all, lvl...)
	}
	all = append(all, assumptions...)

	assumed := make(map[*Term]bool, len(assumptions))
	for _, a := range assumptions {
		assumed[a.(*Term)] = true
	}

	var failed []solver.Term
	unsat := false
	for _, f := range all {
		if v, known := eval(f.(*Term)); known && !v {
			unsat = true
			if assumed[f.(*Term)] {
				failed = append(failed, f)
			}
		}
	}

	// Conflicting equalities: the same constant bound to two distinct
	// literals.
	bound := make(map[string]*binding)
	for _, f := range all {
		c, v := asConstEquality(f.(*Term))
		if c == nil {
			continue
		}
		key := c.name
		if prev, ok := bound[key]; ok && prev.value != v.value {
			unsat = true
			if assumed[f.(*Term)] {
				failed = append(failed, f)
			}
			if assumed[prev.source] {
				failed = append(failed, prev.source)
			}
			continue
		}
		bound[key] = &binding{value: v.value, source: f.(*Term)}
	}

	if !unsat {
		return solver.Sat, nil
	}
	if len(assumptions) > 0 && len(failed) == 0 {
		failed = assumptions
	}
	return solver.Unsat, failed
}

type binding struct {
	value  string
	source *Term
}

// asConstEquality matches EQUAL(const, literal) in either order.
func asConstEquality(t *Term) (*Term, *Term) {
	if t.opKind != op.Equal || len(t.Args()) != 2 {
		return nil, nil
	}
	a := t.Args()[0].(*Term)
	b := t.Args()[1].(*Term)
	if a.name != "" && b.value != "" {
		return a, b
	}
	if b.name != "" && a.value != "" {
		return b, a
	}
	return nil, nil
}

// eval ground-evaluates a Boolean term; known is false when a constant
// or unsupported operator blocks evaluation.
func eval(t *Term) (value, known bool) {
	if t.value != "" {
		switch t.value {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	}
	args := t.Args()
	switch t.opKind {
	case op.Not:
		v, ok := eval(args[0].(*Term))
		return !v, ok
	case op.And:
		all := true
		for _, a := range args {
			v, ok := eval(a.(*Term))
			if ok && !v {
				return false, true
			}
			if !ok {
				all = false
			}
		}
		return true, all
	case op.Or:
		anyUnknown := false
		for _, a := range args {
			v, ok := eval(a.(*Term))
			if ok && v {
				return true, true
			}
			if !ok {
				anyUnknown = true
			}
		}
		return false, !anyUnknown
	case op.Xor:
		v1, ok1 := eval(args[0].(*Term))
		v2, ok2 := eval(args[1].(*Term))
		return v1 != v2, ok1 && ok2
	case op.Implies:
		v1, ok1 := eval(args[0].(*Term))
		v2, ok2 := eval(args[1].(*Term))
		if ok1 && !v1 {
			return true, true
		}
		if ok2 && v2 {
			return true, true
		}
		return v2, ok1 && ok2
	case op.Ite:
		c, ok := eval(args[0].(*Term))
		if !ok {
			return false, false
		}
		if c {
			return eval(args[1].(*Term))
		}
		return eval(args[2].(*Term))
	case op.Equal:
		a := args[0].(*Term)
		b := args[1].(*Term)
		if a.Equals(b) {
			return true, true
		}
		if a.value != "" && b.value != "" {
			return a.value == b.value, true
		}
		return false, false
	case op.Distinct:
		allValues := true
		for i := range args {
			ai := args[i].(*Term)
			if ai.value == "" {
				allValues = false
			}
			for j := i + 1; j < len(args); j++ {
				if ai.Equals(args[j].(*Term)) {
					return false, true
				}
			}
		}
		return true, allValues
	}
	return false, false
}

func (s *Solver) GetUnsatAssumptions() ([]solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if !s.satAssuming || s.lastResult != solver.Unsat {
		return nil, fmt.Errorf("mock: get-unsat-assumptions without preceding unsat check-sat-assuming")
	}
	s.record("get-unsat-assumptions")
	return s.failed, nil
}

func (s *Solver) IsUnsatAssumption(t solver.Term) (bool, error) {
	if err := s.require(); err != nil {
		return false, err
	}
	for _, f := range s.failed {
		if f.Equals(t) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Solver) GetValue(terms []solver.Term) ([]solver.Term, error) {
	if err := s.require(); err != nil {
		return nil, err
	}
	if s.lastResult != solver.Sat {
		return nil, fmt.Errorf("mock: get-value without preceding sat result")
	}
	s.record("get-value %d", len(terms))
	out := make([]solver.Term, len(terms))
	for i, t := range terms {
		out[i] = s.modelValue(t.(*Term))
	}
	return out, nil
}

// modelValue returns the term itself for literals and a default literal
// of the term's sort otherwise.
func (s *Solver) modelValue(t *Term) solver.Term {
	if t.value != "" {
		return t
	}
	sort := t.resSort
	var val string
	switch sort.Kind() {
	case theory.KindBool:
		val = "true"
	case theory.KindString:
		val = ""
	default:
		val = "0"
	}
	return &Term{value: val, resSort: sort}
}

func (s *Solver) Push(n uint32) error {
	if err := s.require(); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		s.levels = append(s.levels, nil)
	}
	s.record("push %d", n)
	return nil
}

func (s *Solver) Pop(n uint32) error {
	if err := s.require(); err != nil {
		return err
	}
	if int(n) >= len(s.levels) {
		return fmt.Errorf("mock: pop of %d with %d levels", n, len(s.levels)-1)
	}
	s.levels = s.levels[:len(s.levels)-int(n)]
	s.record("pop %d", n)
	return nil
}

func (s *Solver) PrintModel(w io.Writer) error {
	if err := s.require(); err != nil {
		return err
	}
	if s.lastResult != solver.Sat {
		return fmt.Errorf("mock: print-model without preceding sat result")
	}
	s.record("print-model")
	fmt.Fprintln(w, "(model)")
	return nil
}

func (s *Solver) ResetAssertions() error {
	if err := s.require(); err != nil {
		return err
	}
	s.levels = [][]solver.Term{nil}
	s.record("reset-assertions")
	return nil
}

/* Options ------------------------------------------------------------------ */

// knownOptions are the names the mock accepts; everything else errors
// and is silently dropped by the generator.
var knownOptions = map[string]struct{}{
	"incremental":               {},
	"produce-models":            {},
	"produce-unsat-assumptions": {},
	"produce-unsat-cores":       {},
	"rewrite-level":             {},
	"sat-engine":                {},
	"parallel-mode":             {},
}

func (s *Solver) SetOpt(name, value string) error {
	if err := s.require(); err != nil {
		return err
	}
	if _, ok := knownOptions[name]; !ok {
		return fmt.Errorf("mock: unknown option %q", name)
	}
	s.opts[name] = value
	s.record("set-opt %s=%s", name, value)
	return nil
}

func (s *Solver) OptionNameIncremental() string { return "incremental" }
func (s *Solver) OptionNameModelGen() string { return "produce-models" }
func (s *Solver) OptionNameUnsatAssumptions() string { return "produce-unsat-assumptions" }

func (s *Solver) OptionIncrementalEnabled() bool {
	return s.opts["incremental"] == "true"
}

func (s *Solver) OptionModelGenEnabled() bool {
	return s.opts["produce-models"] == "true"
}

func (s *Solver) OptionUnsatAssumptionsEnabled() bool {
	return s.opts["produce-unsat-assumptions"] == "true"
}

// DefaultOptions is the option registry matching the mock's surface,
// including a conflicting pair to exercise conflict handling.
func DefaultOptions() *solver.Options {
	opts := solver.NewOptions()
	opts.Add(solver.NewOptionBool("incremental", false, nil, nil))
	opts.Add(solver.NewOptionBool("produce-models", false, nil, nil))
	opts.Add(solver.NewOptionBool("produce-unsat-assumptions", false, nil, nil))
	opts.Add(solver.NewOptionBool("produce-unsat-cores", false, nil, nil))
	opts.Add(solver.NewOptionNum("rewrite-level", 0, 3, 1, nil, nil))
	opts.Add(solver.NewOptionList("sat-engine", []string{"cadical", "kissat", "lingeling"}, "cadical",
		nil, []string{"parallel-mode"}))
	opts.Add(solver.NewOptionBool("parallel-mode", false, nil, []string{"sat-engine"}))
	return opts
}
