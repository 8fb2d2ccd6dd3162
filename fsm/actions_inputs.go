package fsm

import (
	"fmt"
	"strconv"
	"strings"

	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

const (
	// MaxBVWidth bounds sampled bit-vector widths.
	MaxBVWidth = 64
	// FP width bounds, exponent and significand.
	MinFPExp = 2
	MaxFPExp = 8
	MinFPSig = 2
	MaxFPSig = 24
	// MaxFunArity bounds sampled function sort domains.
	MaxFunArity = 3
	// MaxBinderDepth bounds nested quantifier construction.
	MaxBinderDepth = 2
)

// ActionMkSort creates a sort of a constructible kind and registers it.
type ActionMkSort struct{}

func (ActionMkSort) Kind() string { return KindMkSort }

func (a ActionMkSort) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() && len(a.candidates(m)) > 0
}

// candidates lists the sort kinds constructible right now: atomic and
// parametric kinds of enabled theories always, composite kinds only once
// their component sorts exist.
func (ActionMkSort) candidates(m *smgr.Manager) []theory.SortKind {
	var out []theory.SortKind
	for k := theory.KindBool; k <= theory.KindSet; k++ {
		if !m.SortKindEnabled(k) {
			continue
		}
		d, ok := theory.KindData(k)
		if !ok {
			continue
		}
		switch d.Class {
		case theory.Atomic, theory.Parametric:
			out = append(out, k)
		case theory.Composite:
			switch k {
			case theory.KindArray:
				if hasArrayComponents(m) {
					out = append(out, k)
				}
			case theory.KindFun:
				if hasFunComponents(m) {
					out = append(out, k)
				}
			case theory.KindBag, theory.KindSeq, theory.KindSet:
				if m.HasSortExcluding(compositeExclude, false) {
					out = append(out, k)
				}
			}
		}
	}
	return out
}

var compositeExclude = map[theory.SortKind]struct{}{
	theory.KindFun:    {},
	theory.KindRegLan: {},
}

func hasArrayComponents(m *smgr.Manager) bool {
	idx, elt := false, false
	for _, s := range m.SortDBRef().All() {
		k := s.Kind()
		if _, bad := compositeExclude[k]; bad {
			continue
		}
		if m.ArrayIndexSortKindOK(k) {
			idx = true
		}
		if m.ArrayElementSortKindOK(k) {
			elt = true
		}
	}
	return idx && elt
}

func hasFunComponents(m *smgr.Manager) bool {
	dom, cod := false, false
	for _, s := range m.SortDBRef().All() {
		k := s.Kind()
		if _, bad := compositeExclude[k]; bad {
			continue
		}
		if m.FunDomainSortKindOK(k) {
			dom = true
		}
		cod = true
	}
	return dom && cod
}

func (a ActionMkSort) Run(m *smgr.Manager) error {
	cands := a.candidates(m)
	kind := pickSortKindFrom(m, cands)
	s := m.Solver()
	d, _ := theory.KindData(kind)

	switch {
	case kind == theory.KindBV:
		w := uint32(m.RNG().Pick(1, MaxBVWidth))
		m.Trace().Action(KindMkSort, kind.String(), strconv.FormatUint(uint64(w), 10))
		m.Trace().Flush()
		sort, err := s.MkSortBV(w)
		if err != nil {
			return err
		}
		registerSort(m, sort, kind)
		return nil
	case kind == theory.KindFP:
		e := uint32(m.RNG().Pick(MinFPExp, MaxFPExp))
		sig := uint32(m.RNG().Pick(MinFPSig, MaxFPSig))
		m.Trace().Action(KindMkSort, kind.String(),
			strconv.FormatUint(uint64(e), 10), strconv.FormatUint(uint64(sig), 10))
		m.Trace().Flush()
		sort, err := s.MkSortFP(e, sig)
		if err != nil {
			return err
		}
		registerSort(m, sort, kind)
		return nil
	case d.Class == theory.Composite:
		children := pickCompositeChildren(m, kind)
		args := make([]string, 0, len(children)+1)
		args = append(args, kind.String())
		for _, c := range children {
			args = append(args, trace.SortID(c.ID()))
		}
		m.Trace().Action(KindMkSort, args...)
		m.Trace().Flush()
		sort, err := s.MkSortComposite(kind, children)
		if err != nil {
			return err
		}
		registerSort(m, sort, kind)
		return nil
	default:
		m.Trace().Action(KindMkSort, kind.String())
		m.Trace().Flush()
		sort, err := s.MkSort(kind)
		if err != nil {
			return err
		}
		registerSort(m, sort, kind)
		return nil
	}
}

func pickSortKindFrom(m *smgr.Manager, cands []theory.SortKind) theory.SortKind {
	return cands[m.RNG().PickInt(0, len(cands)-1)]
}

func pickCompositeChildren(m *smgr.Manager, kind theory.SortKind) []solver.Sort {
	switch kind {
	case theory.KindArray:
		idx := pickComponentSort(m, m.ArrayIndexSortKindOK)
		elt := pickComponentSort(m, m.ArrayElementSortKindOK)
		return []solver.Sort{idx, elt}
	case theory.KindFun:
		n := m.RNG().PickInt(1, MaxFunArity)
		children := make([]solver.Sort, 0, n+1)
		for i := 0; i < n; i++ {
			children = append(children, pickComponentSort(m, m.FunDomainSortKindOK))
		}
		children = append(children, pickComponentSort(m, func(theory.SortKind) bool { return true }))
		return children
	default: // BAG, SEQ, SET
		return []solver.Sort{pickComponentSort(m, func(theory.SortKind) bool { return true })}
	}
}

func pickComponentSort(m *smgr.Manager, kindOK func(theory.SortKind) bool) solver.Sort {
	var cands []solver.Sort
	for _, s := range m.SortDBRef().All() {
		k := s.Kind()
		if _, bad := compositeExclude[k]; bad {
			continue
		}
		if kindOK(k) {
			cands = append(cands, s)
		}
	}
	if len(cands) == 0 {
		panic("fsm: composite sort construction with no component candidate")
	}
	return cands[m.RNG().PickInt(0, len(cands)-1)]
}

func registerSort(m *smgr.Manager, s solver.Sort, kind theory.SortKind) {
	canon := m.AddSort(s, kind)
	m.Trace().Return(trace.SortID(canon.ID()))
}

func (a ActionMkSort) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := minArgs(args, 1); err != nil {
		return nil, err
	}
	kind, err := theory.ParseSortKind(args[0])
	if err != nil {
		return nil, err
	}
	s := m.Solver()
	var sort solver.Sort
	switch {
	case kind == theory.KindBV:
		if err := needArgs(args, 2); err != nil {
			return nil, err
		}
		w, err := parseUintArg(args[1])
		if err != nil {
			return nil, err
		}
		sort, err = s.MkSortBV(w)
		if err != nil {
			return nil, err
		}
	case kind == theory.KindFP:
		if err := needArgs(args, 3); err != nil {
			return nil, err
		}
		e, err := parseUintArg(args[1])
		if err != nil {
			return nil, err
		}
		sig, err := parseUintArg(args[2])
		if err != nil {
			return nil, err
		}
		sort, err = s.MkSortFP(e, sig)
		if err != nil {
			return nil, err
		}
	case len(args) > 1:
		children := make([]solver.Sort, 0, len(args)-1)
		for _, tok := range args[1:] {
			id, err := trace.ParseSortID(tok)
			if err != nil {
				return nil, err
			}
			c, err := m.UntracedSort(id)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		sort, err = s.MkSortComposite(kind, children)
		if err != nil {
			return nil, err
		}
	default:
		sort, err = s.MkSort(kind)
		if err != nil {
			return nil, err
		}
	}
	canon := m.AddSort(sort, kind)
	return &Untraced{Sort: canon}, nil
}

// ActionMkConst declares a fresh constant of a sampled sort.
type ActionMkConst struct{}

func (ActionMkConst) Kind() string { return KindMkConst }

func (ActionMkConst) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		m.HasSortExcluding(constExclude, false)
}

var constExclude = map[theory.SortKind]struct{}{
	theory.KindRegLan: {},
}

func (ActionMkConst) Run(m *smgr.Manager) error {
	sort := m.PickSortExcluding(constExclude, false)
	name := m.PickSymbol()
	m.Trace().Action(KindMkConst, trace.SortID(sort.ID()), trace.Quote(name))
	m.Trace().Flush()
	t, err := m.Solver().MkConst(sort, name)
	if err != nil {
		return err
	}
	m.AddInput(t, sort)
	m.Trace().Return(trace.TermID(t.ID()))
	return nil
}

func (ActionMkConst) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 2); err != nil {
		return nil, err
	}
	sort, err := untraceSortArg(m, args[0])
	if err != nil {
		return nil, err
	}
	name, err := trace.Unquote(args[1])
	if err != nil {
		return nil, err
	}
	t, err := m.Solver().MkConst(sort, name)
	if err != nil {
		return nil, err
	}
	m.AddInput(t, sort)
	return &Untraced{Term: t}, nil
}

// ActionMkVar declares a bound variable, opening a binder scope that a
// later quantifier application closes.
type ActionMkVar struct{}

func (ActionMkVar) Kind() string { return KindMkVar }

func (a ActionMkVar) Enabled(m *smgr.Manager) bool {
	if !m.Solver().IsInitialized() || !m.TheoryEnabled(theory.Quant) {
		return false
	}
	if m.TermDBRef().BinderDepth() >= MaxBinderDepth {
		return false
	}
	return m.HasSortExcluding(a.exclude(m), false)
}

func (ActionMkVar) exclude(m *smgr.Manager) map[theory.SortKind]struct{} {
	out := map[theory.SortKind]struct{}{
		theory.KindFun:    {},
		theory.KindRegLan: {},
	}
	for k := theory.KindBool; k <= theory.KindDT; k++ {
		if !m.VarSortKindOK(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

func (a ActionMkVar) Run(m *smgr.Manager) error {
	sort := m.PickSortExcluding(a.exclude(m), false)
	name := m.PickSymbol()
	m.Trace().Action(KindMkVar, trace.SortID(sort.ID()), trace.Quote(name))
	m.Trace().Flush()
	t, err := m.Solver().MkVar(sort, name)
	if err != nil {
		return err
	}
	m.AddVar(t, sort)
	m.Trace().Return(trace.TermID(t.ID()))
	return nil
}

func (ActionMkVar) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 2); err != nil {
		return nil, err
	}
	sort, err := untraceSortArg(m, args[0])
	if err != nil {
		return nil, err
	}
	name, err := trace.Unquote(args[1])
	if err != nil {
		return nil, err
	}
	t, err := m.Solver().MkVar(sort, name)
	if err != nil {
		return nil, err
	}
	m.AddVar(t, sort)
	return &Untraced{Term: t}, nil
}

// valueKinds are the sort kinds ActionMkValue can mint literals for.
var valueKinds = []theory.SortKind{
	theory.KindBool, theory.KindBV, theory.KindInt, theory.KindReal, theory.KindString,
}

// ActionMkValue creates a literal of a sampled sort.
type ActionMkValue struct{}

func (ActionMkValue) Kind() string { return KindMkValue }

func (a ActionMkValue) Enabled(m *smgr.Manager) bool {
	if !m.Solver().IsInitialized() {
		return false
	}
	return len(a.kinds(m)) > 0
}

func (ActionMkValue) kinds(m *smgr.Manager) []theory.SortKind {
	var out []theory.SortKind
	for _, k := range valueKinds {
		if m.HasSortOfKind(k) {
			out = append(out, k)
		}
	}
	return out
}

func (a ActionMkValue) Run(m *smgr.Manager) error {
	kind := pickSortKindFrom(m, a.kinds(m))
	sort := m.PickSortOfKind(kind, false)
	r := m.RNG()
	s := m.Solver()

	switch kind {
	case theory.KindBool:
		v := r.FlipCoin()
		m.Trace().Action(KindMkValue, trace.SortID(sort.ID()), strconv.FormatBool(v))
		m.Trace().Flush()
		t, err := s.MkValueBool(sort, v)
		if err != nil {
			return err
		}
		registerValue(m, t, sort, false)
		return nil
	case theory.KindBV:
		tok := sampleBVValue(m, sort.BVWidth())
		val, base := decodeBVToken(tok)
		m.Trace().Action(KindMkValue, trace.SortID(sort.ID()), tok)
		m.Trace().Flush()
		t, err := s.MkValue(sort, val, base)
		if err != nil {
			return err
		}
		registerValue(m, t, sort, false)
		return nil
	case theory.KindInt:
		val := r.PickDecString(10)
		if r.FlipCoin() {
			val = "-" + val
		}
		m.Trace().Action(KindMkValue, trace.SortID(sort.ID()), val)
		m.Trace().Flush()
		t, err := s.MkValue(sort, val, solver.Dec)
		if err != nil {
			return err
		}
		registerValue(m, t, sort, false)
		return nil
	case theory.KindReal:
		val := r.PickDecString(6) + "." + r.PickDecString(6)
		if r.FlipCoin() {
			val = "-" + val
		}
		m.Trace().Action(KindMkValue, trace.SortID(sort.ID()), val)
		m.Trace().Flush()
		t, err := s.MkValue(sort, val, solver.Dec)
		if err != nil {
			return err
		}
		registerValue(m, t, sort, false)
		return nil
	default: // STRING
		val := r.PickString(r.PickInt(0, 8))
		m.Trace().Action(KindMkValue, trace.SortID(sort.ID()), trace.Quote(val))
		m.Trace().Flush()
		t, err := s.MkValue(sort, val, solver.Dec)
		if err != nil {
			return err
		}
		registerValue(m, t, sort, len(val) == 1)
		return nil
	}
}

func registerValue(m *smgr.Manager, t solver.Term, sort solver.Sort, stringChar bool) {
	m.AddValue(t, sort, solver.SpecialNone)
	if stringChar {
		m.AddStringCharValue(t)
	}
	m.Trace().Return(trace.TermID(t.ID()))
}

// sampleBVValue renders a random BV literal token in a random base:
// "#b1010", "#xff", or a decimal numeral.
func sampleBVValue(m *smgr.Manager, width uint32) string {
	r := m.RNG()
	if width > 64 {
		return "#b" + r.PickBitString(width)
	}
	max := uint64(1)<<width - 1
	if width == 64 {
		max = ^uint64(0)
	}
	v := r.Pick(0, max)
	switch r.ChoiceOfThree() {
	case 0:
		return "#b" + padLeft(strconv.FormatUint(v, 2), int(width))
	case 1:
		return strconv.FormatUint(v, 10)
	default:
		return "#x" + strconv.FormatUint(v, 16)
	}
}

func padLeft(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

// decodeBVToken splits a BV literal token into its raw value and base.
func decodeBVToken(tok string) (string, solver.Base) {
	switch {
	case strings.HasPrefix(tok, "#b"):
		return tok[2:], solver.Bin
	case strings.HasPrefix(tok, "#x"):
		return tok[2:], solver.Hex
	default:
		return tok, solver.Dec
	}
}

func (ActionMkValue) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 2); err != nil {
		return nil, err
	}
	sort, err := untraceSortArg(m, args[0])
	if err != nil {
		return nil, err
	}
	tok := args[1]
	s := m.Solver()
	var t solver.Term
	switch sort.Kind() {
	case theory.KindBool:
		v, perr := strconv.ParseBool(tok)
		if perr != nil {
			return nil, fmt.Errorf("bad Boolean literal %q", tok)
		}
		t, err = s.MkValueBool(sort, v)
	case theory.KindBV:
		val, base := decodeBVToken(tok)
		t, err = s.MkValue(sort, val, base)
	case theory.KindString:
		val, perr := trace.Unquote(tok)
		if perr != nil {
			return nil, fmt.Errorf("bad string literal %q", tok)
		}
		t, err = s.MkValue(sort, val, solver.Dec)
		if err == nil {
			m.AddValue(t, sort, solver.SpecialNone)
			if len(val) == 1 {
				m.AddStringCharValue(t)
			}
			return &Untraced{Term: t}, nil
		}
	default:
		t, err = s.MkValue(sort, tok, solver.Dec)
	}
	if err != nil {
		return nil, err
	}
	m.AddValue(t, sort, solver.SpecialNone)
	return &Untraced{Term: t}, nil
}

// ActionMkSpecialValue creates a distinguished constant (BV extrema, FP
// infinities and NaN, rounding modes).
type ActionMkSpecialValue struct{}

func (ActionMkSpecialValue) Kind() string { return KindMkSpecialValue }

var specialKinds = []theory.SortKind{theory.KindBV, theory.KindFP, theory.KindRM}

func (a ActionMkSpecialValue) Enabled(m *smgr.Manager) bool {
	if !m.Solver().IsInitialized() {
		return false
	}
	return len(a.kinds(m)) > 0
}

func (ActionMkSpecialValue) kinds(m *smgr.Manager) []theory.SortKind {
	var out []theory.SortKind
	for _, k := range specialKinds {
		if m.HasSortOfKind(k) {
			out = append(out, k)
		}
	}
	return out
}

func (a ActionMkSpecialValue) Run(m *smgr.Manager) error {
	kind := pickSortKindFrom(m, a.kinds(m))
	sort := m.PickSortOfKind(kind, false)
	var pool []solver.SpecialValueKind
	switch kind {
	case theory.KindBV:
		pool = solver.SpecialValuesBV
	case theory.KindFP:
		pool = solver.SpecialValuesFP
	default:
		pool = solver.SpecialValuesRM
	}
	svk := pool[m.RNG().PickInt(0, len(pool)-1)]
	m.Trace().Action(KindMkSpecialValue, trace.SortID(sort.ID()), string(svk))
	m.Trace().Flush()
	t, err := m.Solver().MkSpecialValue(sort, svk)
	if err != nil {
		return err
	}
	m.AddValue(t, sort, svk)
	m.Trace().Return(trace.TermID(t.ID()))
	return nil
}

func (ActionMkSpecialValue) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 2); err != nil {
		return nil, err
	}
	sort, err := untraceSortArg(m, args[0])
	if err != nil {
		return nil, err
	}
	svk := solver.SpecialValueKind(args[1])
	t, err := m.Solver().MkSpecialValue(sort, svk)
	if err != nil {
		return nil, err
	}
	m.AddValue(t, sort, svk)
	return &Untraced{Term: t}, nil
}

func untraceSortArg(m *smgr.Manager, tok string) (solver.Sort, error) {
	id, err := trace.ParseSortID(tok)
	if err != nil {
		return nil, err
	}
	return m.UntracedSort(id)
}

func untraceTermArg(m *smgr.Manager, tok string) (solver.Term, error) {
	id, err := trace.ParseTermID(tok)
	if err != nil {
		return nil, err
	}
	return m.UntracedTerm(id)
}
