package fsm

import (
	"fmt"
	"strconv"

	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

// ActionMkTerm applies a sampled operator to type-consistent arguments.
// Argument sampling follows the catalog schema: when several arguments
// share a parametric sort kind, one sort is picked first and the terms
// are drawn from it independently with replacement.
type ActionMkTerm struct{}

func (ActionMkTerm) Kind() string { return KindMkTerm }

func (ActionMkTerm) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() && m.HasRealizableOp()
}

func (a ActionMkTerm) Run(m *smgr.Manager) error {
	o, ok := m.PickOp()
	if !ok {
		return nil
	}
	args, params, expected, err := instantiate(m, o)
	if err != nil {
		return err
	}

	toks := make([]string, 0, len(args)+len(params)+1)
	toks = append(toks, string(o.Kind))
	for _, arg := range args {
		toks = append(toks, trace.TermID(arg.ID()))
	}
	for _, p := range params {
		toks = append(toks, strconv.FormatUint(uint64(p), 10))
	}
	m.Trace().Action(KindMkTerm, toks...)
	m.Trace().Flush()

	t, err := m.Solver().MkTerm(o.Kind, args, params)
	if err != nil {
		return err
	}
	if err := registerOpTerm(m, o, t, args, expected); err != nil {
		return err
	}
	m.Trace().Return(trace.TermID(t.ID()))
	return nil
}

// registerOpTerm checks the backend's result sort against the catalog
// schema and registers the new term. A kind mismatch is a candidate
// finding, not a generator bug.
func registerOpTerm(m *smgr.Manager, o op.Op, t solver.Term, args []solver.Term, expected theory.SortKind) error {
	rsort, err := m.Solver().GetSort(t)
	if err != nil {
		return err
	}
	if expected != theory.KindAny && rsort.Kind() != expected {
		return fmt.Errorf("operator %s: result sort kind %s, catalog advertises %s",
			o.Kind, rsort.Kind(), expected)
	}
	canon := m.EnsureSort(rsort, rsort.Kind())
	if o.Kind == op.Forall || o.Kind == op.Exists {
		if !m.InBinderScope() {
			return fmt.Errorf("quantifier %s with no open binder scope", o.Kind)
		}
		m.CloseBinderScope()
	}
	m.AddTerm(t, canon, args)
	return nil
}

// instantiate picks concrete argument terms, index parameters, and the
// expected result sort kind for the sampled operator.
func instantiate(m *smgr.Manager, o op.Op) ([]solver.Term, []uint32, theory.SortKind, error) {
	r := m.RNG()
	switch o.Kind {
	case op.Forall, op.Exists:
		v := m.PickVar()
		body := m.PickQuantBody()
		return []solver.Term{v, body}, nil, theory.KindBool, nil

	case op.UFApply:
		fs := pickApplicableFunSort(m)
		children := fs.Sorts()
		args := make([]solver.Term, 0, len(children))
		args = append(args, m.PickTermOfSort(fs))
		for _, dom := range children[:len(children)-1] {
			args = append(args, m.PickTermOfSort(dom))
		}
		return args, nil, children[len(children)-1].Kind(), nil

	case op.ArraySelect:
		as := pickApplicableArraySort(m, false)
		children := as.Sorts()
		args := []solver.Term{m.PickTermOfSort(as), m.PickTermOfSort(children[0])}
		return args, nil, children[1].Kind(), nil

	case op.ArrayStore:
		as := pickApplicableArraySort(m, true)
		children := as.Sorts()
		args := []solver.Term{
			m.PickTermOfSort(as),
			m.PickTermOfSort(children[0]),
			m.PickTermOfSort(children[1]),
		}
		return args, nil, theory.KindArray, nil

	case op.Equal, op.Distinct:
		kind := m.PickSortKind(true)
		sort := m.PickSortOfKind(kind, true)
		n := 2
		if o.Variadic() {
			n = r.PickInt(op.MinVarArgs, op.MaxVarArgs)
		}
		args := make([]solver.Term, n)
		for i := range args {
			args[i] = m.PickTermOfSort(sort)
		}
		return args, nil, theory.KindBool, nil

	case op.Ite:
		kind := m.PickSortKind(true)
		sort := m.PickSortOfKind(kind, true)
		args := []solver.Term{
			m.PickTermOfKind(theory.KindBool),
			m.PickTermOfSort(sort),
			m.PickTermOfSort(sort),
		}
		return args, nil, kind, nil

	case op.BVExtract:
		sort := pickTermSort(m, theory.KindBV)
		t := m.PickTermOfSort(sort)
		w := sort.BVWidth()
		hi := uint32(r.Pick(0, uint64(w-1)))
		lo := uint32(r.Pick(0, uint64(hi)))
		return []solver.Term{t}, []uint32{hi, lo}, theory.KindBV, nil

	case op.BVZeroExtend, op.BVSignExtend:
		sort := pickTermSort(m, theory.KindBV)
		t := m.PickTermOfSort(sort)
		n := uint32(0)
		if sort.BVWidth() < MaxBVWidth {
			n = uint32(r.Pick(0, uint64(MaxBVWidth-sort.BVWidth())))
		}
		return []solver.Term{t}, []uint32{n}, theory.KindBV, nil

	case op.BVRotateLeft, op.BVRotateRight:
		sort := pickTermSort(m, theory.KindBV)
		t := m.PickTermOfSort(sort)
		n := uint32(r.Pick(0, uint64(sort.BVWidth())))
		return []solver.Term{t}, []uint32{n}, theory.KindBV, nil
	}

	// Table-driven path: fixed or variadic arity over the schema's arg
	// kinds. Parametric kinds (BV, FP) pin one sort for all their
	// occurrences so argument widths agree.
	n := o.Arity
	if o.Variadic() {
		n = r.PickInt(op.MinVarArgs, op.MaxVarArgs)
	}
	pinned := make(map[theory.SortKind]solver.Sort)
	args := make([]solver.Term, n)
	for i := 0; i < n; i++ {
		k := o.ArgKind(i)
		switch k {
		case theory.KindBV, theory.KindFP:
			sort, ok := pinned[k]
			if !ok {
				sort = pickTermSort(m, k)
				pinned[k] = sort
			}
			args[i] = m.PickTermOfSort(sort)
		case theory.KindReal:
			// With arith subtyping, Int terms may stand in for Real ones
			// at positions that do not fix the result sort.
			if m.ArithSubtyping && o.ResultKind == theory.KindBool &&
				m.HasTermOfKind(theory.KindInt) && r.FlipCoin() {
				args[i] = m.PickTermOfKind(theory.KindInt)
				break
			}
			args[i] = m.PickTermOfKind(k)
		default:
			args[i] = m.PickTermOfKind(k)
		}
	}
	return args, nil, o.ResultKind, nil
}

func pickTermSort(m *smgr.Manager, kind theory.SortKind) solver.Sort {
	return m.PickSortOfKind(kind, true)
}

func pickApplicableFunSort(m *smgr.Manager) solver.Sort {
	var cands []solver.Sort
	for _, fs := range m.SortDBRef().OfKind(theory.KindFun) {
		if !m.HasTermOfSort(fs) {
			continue
		}
		children := fs.Sorts()
		ok := true
		for _, dom := range children[:len(children)-1] {
			if !m.HasTermOfSort(dom) {
				ok = false
				break
			}
		}
		if ok {
			cands = append(cands, fs)
		}
	}
	if len(cands) == 0 {
		panic("fsm: UF application with no applicable function sort")
	}
	return cands[m.RNG().PickInt(0, len(cands)-1)]
}

func pickApplicableArraySort(m *smgr.Manager, needElement bool) solver.Sort {
	var cands []solver.Sort
	for _, as := range m.SortDBRef().OfKind(theory.KindArray) {
		if !m.HasTermOfSort(as) || !m.HasTermOfSort(as.Sorts()[0]) {
			continue
		}
		if needElement && !m.HasTermOfSort(as.Sorts()[1]) {
			continue
		}
		cands = append(cands, as)
	}
	if len(cands) == 0 {
		panic("fsm: array operation with no applicable array sort")
	}
	return cands[m.RNG().PickInt(0, len(cands)-1)]
}

func (a ActionMkTerm) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := minArgs(args, 1); err != nil {
		return nil, err
	}
	kind := op.Kind(args[0])
	o, ok := m.Catalog().Get(kind)
	if !ok {
		return nil, fmt.Errorf("unknown operator kind %q", args[0])
	}
	var terms []solver.Term
	var params []uint32
	for _, tok := range args[1:] {
		if tok[0] == 't' {
			t, err := untraceTermArg(m, tok)
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
			continue
		}
		p, err := parseUintArg(tok)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	t, err := m.Solver().MkTerm(kind, terms, params)
	if err != nil {
		return nil, err
	}
	if err := registerOpTerm(m, o, t, terms, theory.KindAny); err != nil {
		return nil, err
	}
	return &Untraced{Term: t}, nil
}
