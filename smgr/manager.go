// Package smgr owns the generation-side state of a fuzzing run: the sort
// and term databases, the active backend, the RNG, and the sampling
// primitives actions consume. One Manager drives one backend instance;
// nothing here is safe for concurrent use.
package smgr

import (
	"fmt"

	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/rng"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

// StatsSink receives run statistics. The stats package implements it on
// Prometheus counters; a nil sink disables collection.
type StatsSink interface {
	IncSorts()
	IncTerms()
	IncInputs()
	IncVars()
	IncSatCalls()
	IncActions(kind string)
}

// Options configures a Manager. EnabledTheories is intersected with the
// backend's advertised support; an empty slice means "everything the
// backend supports".
type Options struct {
	EnabledTheories []theory.Theory
	SolverOptions   *solver.Options
	TraceSeeds      bool
	SimpleSymbols   bool
	ArithSubtyping  bool
	ArithLinear     bool
	Stats           StatsSink
}

// Manager is the root of ownership for one fuzzing run.
type Manager struct {
	solver  solver.Solver
	rng     *rng.RNG
	tr      *trace.Writer
	catalog *op.Catalog
	stats   StatsSink

	// Config; survives Clear and Reset.
	TraceSeeds     bool
	SimpleSymbols  bool
	ArithSubtyping bool
	ArithLinear    bool

	enabledTheories  map[theory.Theory]struct{}
	enabledSortKinds map[theory.SortKind]struct{}
	solverOptions    *solver.Options
	unsupportedOps   map[op.Kind]struct{}

	unsupportedVarKinds       map[theory.SortKind]struct{}
	unsupportedArrayIdxKinds  map[theory.SortKind]struct{}
	unsupportedArrayElemKinds map[theory.SortKind]struct{}
	unsupportedFunDomKinds    map[theory.SortKind]struct{}

	// Solver state; reset on Reset, data structures dropped on Clear.
	sorts       *SortDB
	terms       *TermDB
	assumptions []solver.Term
	usedOptions map[string]struct{}

	nTerms     uint64
	nSorts     uint64
	nSortTerms map[theory.SortKind]uint64
	nSymbols   uint64

	Incremental      bool
	ModelGen         bool
	UnsatAssumptions bool
	UnsatCores       bool

	NPushLevels uint32
	SatCalled   bool
	SatResult   solver.Result
	NSatCalls   uint32

	untracedSorts map[uint64]solver.Sort
	untracedTerms map[uint64]solver.Term
}

// New builds a manager for the given backend. New does not run the
// backend's ConfigureOps hook; callers run it on the catalog before
// passing it in when solver-private operators are wanted.
func New(s solver.Solver, r *rng.RNG, tr *trace.Writer, catalog *op.Catalog, opts Options) (*Manager, error) {
	m := &Manager{
		solver:         s,
		rng:            r,
		tr:             tr,
		catalog:        catalog,
		stats:          opts.Stats,
		TraceSeeds:     opts.TraceSeeds,
		SimpleSymbols:  opts.SimpleSymbols,
		ArithSubtyping: opts.ArithSubtyping,
		ArithLinear:    opts.ArithLinear,
		solverOptions:  opts.SolverOptions,
		sorts:          NewSortDB(),
		terms:          NewTermDB(),
		usedOptions:    make(map[string]struct{}),
		nSortTerms:     make(map[theory.SortKind]uint64),
		untracedSorts:  make(map[uint64]solver.Sort),
		untracedTerms:  make(map[uint64]solver.Term),
	}
	if m.solverOptions == nil {
		m.solverOptions = solver.NewOptions()
	}

	supported := make(map[theory.Theory]struct{})
	for _, t := range s.SupportedTheories() {
		supported[t] = struct{}{}
	}
	m.enabledTheories = make(map[theory.Theory]struct{})
	if len(opts.EnabledTheories) == 0 {
		m.enabledTheories = supported
	} else {
		for _, t := range opts.EnabledTheories {
			if _, ok := supported[t]; !ok {
				return nil, fmt.Errorf("smgr: theory %s not supported by solver %s", t, s.Name())
			}
			m.enabledTheories[t] = struct{}{}
		}
	}
	// The assertion language is Boolean; BOOL is always on.
	m.enabledTheories[theory.Bool] = struct{}{}
	m.enabledSortKinds = theory.EnabledSortKinds(m.enabledTheories)

	m.unsupportedOps = kindSet(s.UnsupportedOpKinds())
	m.unsupportedVarKinds = sortKindSet(s.UnsupportedVarSortKinds())
	m.unsupportedArrayIdxKinds = sortKindSet(s.UnsupportedArrayIndexSortKinds())
	m.unsupportedArrayElemKinds = sortKindSet(s.UnsupportedArrayElementSortKinds())
	m.unsupportedFunDomKinds = sortKindSet(s.UnsupportedFunDomainSortKinds())
	return m, nil
}

func kindSet(ks []op.Kind) map[op.Kind]struct{} {
	out := make(map[op.Kind]struct{}, len(ks))
	for _, k := range ks {
		out[k] = struct{}{}
	}
	return out
}

func sortKindSet(ks []theory.SortKind) map[theory.SortKind]struct{} {
	out := make(map[theory.SortKind]struct{}, len(ks))
	for _, k := range ks {
		out[k] = struct{}{}
	}
	return out
}

// Solver returns the active backend.
func (m *Manager) Solver() solver.Solver { return m.solver }

// RNG returns the run's random source.
func (m *Manager) RNG() *rng.RNG { return m.rng }

// Trace returns the trace writer.
func (m *Manager) Trace() *trace.Writer { return m.tr }

// Catalog returns the operator catalog.
func (m *Manager) Catalog() *op.Catalog { return m.catalog }

// SortDBRef and TermDBRef expose the databases to tests and the replay
// oracle; actions go through the sampling primitives instead.
func (m *Manager) SortDBRef() *SortDB { return m.sorts }
func (m *Manager) TermDBRef() *TermDB { return m.terms }

// EnabledTheories returns the live theory set.
func (m *Manager) EnabledTheories() map[theory.Theory]struct{} { return m.enabledTheories }

// TheoryEnabled reports whether t is enabled.
func (m *Manager) TheoryEnabled(t theory.Theory) bool {
	_, ok := m.enabledTheories[t]
	return ok
}

// DisableTheory removes a theory, e.g. after option fuzzing vetoed it.
func (m *Manager) DisableTheory(t theory.Theory) {
	delete(m.enabledTheories, t)
	m.enabledSortKinds = theory.EnabledSortKinds(m.enabledTheories)
}

// SortKindEnabled reports whether sorts of kind k may be constructed.
func (m *Manager) SortKindEnabled(k theory.SortKind) bool {
	_, ok := m.enabledSortKinds[k]
	return ok
}

// VarSortKindOK reports whether the backend supports variables of the
// given sort kind.
func (m *Manager) VarSortKindOK(k theory.SortKind) bool {
	_, bad := m.unsupportedVarKinds[k]
	return !bad
}

// ArrayIndexSortKindOK reports whether the backend supports array index
// sorts of the given kind.
func (m *Manager) ArrayIndexSortKindOK(k theory.SortKind) bool {
	_, bad := m.unsupportedArrayIdxKinds[k]
	return !bad
}

// ArrayElementSortKindOK reports whether the backend supports array
// element sorts of the given kind.
func (m *Manager) ArrayElementSortKindOK(k theory.SortKind) bool {
	_, bad := m.unsupportedArrayElemKinds[k]
	return !bad
}

// FunDomainSortKindOK reports whether the backend supports function
// domain sorts of the given kind.
func (m *Manager) FunDomainSortKindOK(k theory.SortKind) bool {
	_, bad := m.unsupportedFunDomKinds[k]
	return !bad
}

/* Registration ----------------------------------------------------------- */

// AddSort registers a sort under the given kind and returns the canonical
// representative of its equality class. Fresh sorts get the next sort id.
func (m *Manager) AddSort(s solver.Sort, kind theory.SortKind) solver.Sort {
	s.SetKind(kind)
	if have := m.sorts.Find(s); have != nil {
		return have
	}
	m.nSorts++
	s.SetID(m.nSorts)
	m.sorts.Add(s)
	if m.stats != nil {
		m.stats.IncSorts()
	}
	return s
}

// EnsureSort returns the canonical registered sort for s, registering it
// under the given kind if unseen. Used for sorts reported back by the
// backend (e.g. via GetSort).
func (m *Manager) EnsureSort(s solver.Sort, kind theory.SortKind) solver.Sort {
	return m.AddSort(s, kind)
}

func (m *Manager) registerTerm(t solver.Term, sort solver.Sort, tk solver.TermKind, args []solver.Term) {
	canon := m.sorts.Find(sort)
	if canon == nil {
		panic("smgr: term registered with sort missing from sort database")
	}
	t.SetSort(canon)
	t.SetTermKind(tk)
	t.SetArgs(args)
	m.nTerms++
	t.SetID(m.nTerms)
	m.nSortTerms[canon.Kind()]++
	if m.stats != nil {
		m.stats.IncTerms()
	}
}

// AddInput registers a constant (input) term.
func (m *Manager) AddInput(t solver.Term, sort solver.Sort) {
	m.registerTerm(t, sort, solver.KindConst, nil)
	m.terms.Add(t)
	if m.stats != nil {
		m.stats.IncInputs()
	}
}

// AddValue registers a value term. special distinguishes plain values
// (SpecialNone) from special values.
func (m *Manager) AddValue(t solver.Term, sort solver.Sort, special solver.SpecialValueKind) {
	tk := solver.KindValue
	if special != solver.SpecialNone {
		tk = solver.KindSpecialValue
	}
	t.SetSpecialKind(special)
	m.registerTerm(t, sort, tk, nil)
	m.terms.Add(t)
	if m.stats != nil {
		m.stats.IncInputs()
	}
}

// AddStringCharValue additionally pools a length-1 string literal.
func (m *Manager) AddStringCharValue(t solver.Term) {
	m.terms.AddStringChar(t)
}

// AddVar registers a bound variable, opening a fresh binder scope for it.
func (m *Manager) AddVar(t solver.Term, sort solver.Sort) {
	m.registerTerm(t, sort, solver.KindBoundVar, nil)
	m.terms.OpenBinderScope()
	m.terms.AddVar(t)
	if m.stats != nil {
		m.stats.IncVars()
	}
}

// AddTerm registers an operator application.
func (m *Manager) AddTerm(t solver.Term, sort solver.Sort, args []solver.Term) {
	m.registerTerm(t, sort, solver.KindOpApp, args)
	m.terms.Add(t)
}

// CloseBinderScope ends the innermost quantifier body after its binder
// has been consumed by a quantifier application.
func (m *Manager) CloseBinderScope() {
	m.terms.CloseBinderScope()
}

// InBinderScope reports whether a quantifier body is under construction.
func (m *Manager) InBinderScope() bool {
	return m.terms.InBinderScope()
}

// FindTerm returns the registered term wrapping the same solver term, or
// nil.
func (m *Manager) FindTerm(t solver.Term, sort solver.Sort) solver.Term {
	canon := m.sorts.Find(sort)
	if canon == nil {
		return nil
	}
	return m.terms.Find(t, canon)
}

/* Counters ---------------------------------------------------------------- */

// NTerms returns the number of terms created so far.
func (m *Manager) NTerms() uint64 { return m.nTerms }

// NSorts returns the number of sorts created so far.
func (m *Manager) NSorts() uint64 { return m.nSorts }

// NTermsOfKind returns the number of terms created with the given sort
// kind.
func (m *Manager) NTermsOfKind(k theory.SortKind) uint64 { return m.nSortTerms[k] }

/* Sort sampling ----------------------------------------------------------- */

// HasSort reports whether any sort exists.
func (m *Manager) HasSort() bool { return m.sorts.Len() > 0 }

// HasSortOfKind reports whether a sort of the given kind exists.
func (m *Manager) HasSortOfKind(k theory.SortKind) bool { return len(m.sorts.OfKind(k)) > 0 }

// HasSortBV reports whether a BV sort of exactly the given width exists.
func (m *Manager) HasSortBV(width uint32) bool { return len(m.sorts.OfBVWidth(width)) > 0 }

// HasSortBVMax reports whether a BV sort of width at most max exists.
func (m *Manager) HasSortBVMax(max uint32) bool { return len(m.sorts.OfBVWidthMax(max)) > 0 }

// PickSort samples any registered sort.
func (m *Manager) PickSort() solver.Sort {
	if !m.HasSort() {
		panic("smgr: PickSort with empty sort database")
	}
	return rng.PickFromSlice(m.rng, m.sorts.All())
}

// PickSortOfKind samples a sort of the given kind, optionally restricted
// to sorts that currently have terms.
func (m *Manager) PickSortOfKind(k theory.SortKind, withTerms bool) solver.Sort {
	cands := m.sortsOfKind(k, withTerms)
	if len(cands) == 0 {
		panic(fmt.Sprintf("smgr: PickSortOfKind(%s) with no candidate", k))
	}
	return rng.PickFromSlice(m.rng, cands)
}

func (m *Manager) sortsOfKind(k theory.SortKind, withTerms bool) []solver.Sort {
	var out []solver.Sort
	for _, s := range m.sorts.OfKind(k) {
		if withTerms && len(m.terms.OfSort(s)) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// PickSortExcluding samples a sort whose kind is not in exclude.
func (m *Manager) PickSortExcluding(exclude map[theory.SortKind]struct{}, withTerms bool) solver.Sort {
	var cands []solver.Sort
	for _, s := range m.sorts.All() {
		if _, bad := exclude[s.Kind()]; bad {
			continue
		}
		if withTerms && len(m.terms.OfSort(s)) == 0 {
			continue
		}
		cands = append(cands, s)
	}
	if len(cands) == 0 {
		panic("smgr: PickSortExcluding with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// HasSortExcluding reports whether a sort outside the excluded kinds
// exists.
func (m *Manager) HasSortExcluding(exclude map[theory.SortKind]struct{}, withTerms bool) bool {
	for _, s := range m.sorts.All() {
		if _, bad := exclude[s.Kind()]; bad {
			continue
		}
		if withTerms && len(m.terms.OfSort(s)) == 0 {
			continue
		}
		return true
	}
	return false
}

// PickSortBV samples a BV sort of exactly the given width.
func (m *Manager) PickSortBV(width uint32) solver.Sort {
	cands := m.sorts.OfBVWidth(width)
	if len(cands) == 0 {
		panic("smgr: PickSortBV with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// PickSortBVMax samples a BV sort of width at most max.
func (m *Manager) PickSortBVMax(max uint32) solver.Sort {
	cands := m.sorts.OfBVWidthMax(max)
	if len(cands) == 0 {
		panic("smgr: PickSortBVMax with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// PickSortKind samples a kind among those with registered sorts,
// optionally restricted to kinds with live terms.
func (m *Manager) PickSortKind(withTerms bool) theory.SortKind {
	var cands []theory.SortKind
	for _, k := range m.sorts.Kinds() {
		if withTerms && !m.terms.HasKind(k) {
			continue
		}
		cands = append(cands, k)
	}
	if len(cands) == 0 {
		panic("smgr: PickSortKind with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// GetSortByID resolves a sort id; used by untracing.
func (m *Manager) GetSortByID(id uint64) (solver.Sort, bool) {
	return m.sorts.Get(id)
}

/* Term sampling ------------------------------------------------------------ */

// HasTerm reports whether any term is live.
func (m *Manager) HasTerm() bool { return m.terms.Len() > 0 }

// HasTermOfKind reports whether a live term of the given sort kind
// exists. KindAny matches any term.
func (m *Manager) HasTermOfKind(k theory.SortKind) bool {
	if k == theory.KindAny {
		return m.HasTerm()
	}
	return m.terms.HasKind(k)
}

// HasTermOfSort reports whether a live term of the given sort exists.
func (m *Manager) HasTermOfSort(s solver.Sort) bool { return len(m.terms.OfSort(s)) > 0 }

// HasValueOfSort reports whether a live value of the given sort exists.
func (m *Manager) HasValueOfSort(s solver.Sort) bool { return len(m.terms.ValuesOfSort(s)) > 0 }

// HasStringCharValue reports whether a length-1 string literal exists.
func (m *Manager) HasStringCharValue() bool { return len(m.terms.StringChars()) > 0 }

// HasVar reports whether a bound variable is in scope.
func (m *Manager) HasVar() bool { return len(m.terms.Vars()) > 0 }

// HasQuantBody reports whether a Boolean term usable as a quantifier
// matrix exists.
func (m *Manager) HasQuantBody() bool { return len(m.terms.QuantBodies()) > 0 }

// PickTerm samples any live term.
func (m *Manager) PickTerm() solver.Term {
	kind := m.PickSortKind(true)
	return m.PickTermOfKind(kind)
}

// PickTermOfKind samples a live term of the given sort kind.
func (m *Manager) PickTermOfKind(k theory.SortKind) solver.Term {
	cands := m.terms.OfKind(k)
	if len(cands) == 0 {
		panic(fmt.Sprintf("smgr: PickTermOfKind(%s) with no candidate", k))
	}
	return rng.PickFromSlice(m.rng, cands)
}

// PickTermOfKindLevel samples a live term of the given sort kind defined
// at or below the given level.
func (m *Manager) PickTermOfKindLevel(k theory.SortKind, level int) solver.Term {
	var cands []solver.Term
	for l := 0; l <= level; l++ {
		cands = append(cands, m.terms.OfKindLevel(k, l)...)
	}
	if len(cands) == 0 {
		panic(fmt.Sprintf("smgr: PickTermOfKindLevel(%s, %d) with no candidate", k, level))
	}
	return rng.PickFromSlice(m.rng, cands)
}

// PickTermOfSort samples a live term of the given sort.
func (m *Manager) PickTermOfSort(s solver.Sort) solver.Term {
	cands := m.terms.OfSort(s)
	if len(cands) == 0 {
		panic("smgr: PickTermOfSort with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// PickValueOfSort samples a live value term of the given sort.
func (m *Manager) PickValueOfSort(s solver.Sort) solver.Term {
	cands := m.terms.ValuesOfSort(s)
	if len(cands) == 0 {
		panic("smgr: PickValueOfSort with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// PickStringCharValue samples a length-1 string literal.
func (m *Manager) PickStringCharValue() solver.Term {
	if !m.HasStringCharValue() {
		panic("smgr: PickStringCharValue with no candidate")
	}
	return rng.PickFromSlice(m.rng, m.terms.StringChars())
}

// PickVar samples a bound variable from the innermost binder scope.
func (m *Manager) PickVar() solver.Term {
	vars := m.terms.Vars()
	if len(vars) == 0 {
		panic("smgr: PickVar with no variable in scope")
	}
	return rng.PickFromSlice(m.rng, vars)
}

// PickQuantBody samples a Boolean term from the levels where bound
// variables are in scope.
func (m *Manager) PickQuantBody() solver.Term {
	cands := m.terms.QuantBodies()
	if len(cands) == 0 {
		panic("smgr: PickQuantBody with no candidate")
	}
	return rng.PickFromSlice(m.rng, cands)
}

// GetTermByID resolves a term id; used by untracing.
func (m *Manager) GetTermByID(id uint64) (solver.Term, bool) {
	return m.terms.Get(id)
}

/* Operator sampling -------------------------------------------------------- */

// EnabledOps returns the operators currently eligible for sampling.
func (m *Manager) EnabledOps() []op.Op {
	return m.catalog.Enabled(m.enabledTheories, m.unsupportedOps, m.ArithLinear)
}

// HasRealizableOp reports whether PickOp would succeed.
func (m *Manager) HasRealizableOp() bool {
	for _, o := range m.EnabledOps() {
		if m.realizable(o) {
			return true
		}
	}
	return false
}

// PickOp samples an operator whose argument sort kinds are realizable in
// the current term database.
func (m *Manager) PickOp() (op.Op, bool) {
	var cands []op.Op
	for _, o := range m.EnabledOps() {
		if m.realizable(o) {
			cands = append(cands, o)
		}
	}
	if len(cands) == 0 {
		return op.Op{}, false
	}
	return rng.PickFromSlice(m.rng, cands), true
}

func (m *Manager) realizable(o op.Op) bool {
	switch o.Kind {
	case op.Forall, op.Exists:
		return m.HasVar() && m.HasQuantBody()
	case op.UFApply:
		for _, fs := range m.sorts.OfKind(theory.KindFun) {
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
				return true
			}
		}
		return false
	case op.ArraySelect, op.ArrayStore:
		for _, as := range m.sorts.OfKind(theory.KindArray) {
			if !m.HasTermOfSort(as) {
				continue
			}
			children := as.Sorts()
			if !m.HasTermOfSort(children[0]) {
				continue
			}
			if o.Kind == op.ArrayStore && !m.HasTermOfSort(children[1]) {
				continue
			}
			return true
		}
		return false
	}
	if o.Variadic() {
		return m.HasTermOfKind(o.ArgKinds[0])
	}
	for i := 0; i < o.Arity; i++ {
		if !m.HasTermOfKind(o.ArgKind(i)) {
			return false
		}
	}
	return true
}

/* Symbols ------------------------------------------------------------------ */

// PickSymbol mints a symbol unique within the trace: "_sN" in simple
// mode, otherwise a random printable name with the counter as suffix.
func (m *Manager) PickSymbol() string {
	m.nSymbols++
	if m.SimpleSymbols {
		return fmt.Sprintf("_s%d", m.nSymbols)
	}
	base := m.rng.PickString(m.rng.PickInt(1, 8))
	return fmt.Sprintf("%s%d", base, m.nSymbols)
}

/* Options ------------------------------------------------------------------ */

// SolverOptions returns the option registry.
func (m *Manager) SolverOptions() *solver.Options { return m.solverOptions }

// IsOptionUsed reports whether the named option has been configured this
// run.
func (m *Manager) IsOptionUsed(name string) bool {
	_, ok := m.usedOptions[name]
	return ok
}

// MarkOptionUsed records the option as configured, whether or not the
// backend accepted it.
func (m *Manager) MarkOptionUsed(name string) {
	m.usedOptions[name] = struct{}{}
}

// PickOption samples an unused option whose dependencies are met and
// whose conflicts are untouched, together with a value. Either side can
// be forced; the empty pair means nothing is pickable.
func (m *Manager) PickOption(forceName, forceValue string) (string, string) {
	var cands []solver.Option
	for _, opt := range m.solverOptions.All() {
		if m.IsOptionUsed(opt.Name()) {
			continue
		}
		if forceName != "" && opt.Name() != forceName {
			continue
		}
		ok := true
		for _, dep := range opt.Depends() {
			if !m.IsOptionUsed(dep) {
				ok = false
				break
			}
		}
		for _, conf := range opt.Conflicts() {
			if m.IsOptionUsed(conf) {
				ok = false
				break
			}
		}
		if ok {
			cands = append(cands, opt)
		}
	}
	if len(cands) == 0 {
		return "", ""
	}
	opt := rng.PickFromSlice(m.rng, cands)
	value := forceValue
	if value == "" {
		value = opt.PickValue(m.rng)
	}
	return opt.Name(), value
}

/* Assumptions and sat state ------------------------------------------------ */

// AddAssumption records a term assumed for the next check-sat-assuming.
func (m *Manager) AddAssumption(t solver.Term) {
	m.assumptions = append(m.assumptions, t)
}

// HasAssumed reports whether any assumption is pending or active.
func (m *Manager) HasAssumed() bool { return len(m.assumptions) > 0 }

// Assumptions returns the active assumption set in insertion order.
func (m *Manager) Assumptions() []solver.Term { return m.assumptions }

// PickAssumedAssumption samples one active assumption.
func (m *Manager) PickAssumedAssumption() solver.Term {
	if !m.HasAssumed() {
		panic("smgr: PickAssumedAssumption with no assumption")
	}
	return rng.PickFromSlice(m.rng, m.assumptions)
}

// ClearAssumptions drops the assumption set.
func (m *Manager) ClearAssumptions() {
	m.assumptions = nil
}

// ResetSat invalidates the previous check-sat call: a fresh assertion or
// assumption is about to change the problem.
func (m *Manager) ResetSat() {
	m.SatCalled = false
	m.SatResult = solver.Unknown
	m.ClearAssumptions()
}

// RecordSat stores the verdict of a check-sat call.
func (m *Manager) RecordSat(r solver.Result) {
	m.SatCalled = true
	m.SatResult = r
	m.NSatCalls++
	if m.stats != nil {
		m.stats.IncSatCalls()
	}
}

// CountAction forwards an executed action to the stats sink.
func (m *Manager) CountAction(kind string) {
	if m.stats != nil {
		m.stats.IncActions(kind)
	}
}

/* Untrace registries ------------------------------------------------------- */

// RegisterUntracedSort maps a sort id from a trace to a live sort.
func (m *Manager) RegisterUntracedSort(traceID uint64, s solver.Sort) {
	m.untracedSorts[traceID] = s
}

// UntracedSort resolves a trace sort id.
func (m *Manager) UntracedSort(traceID uint64) (solver.Sort, error) {
	s, ok := m.untracedSorts[traceID]
	if !ok {
		// Sorts reported back by the backend (EnsureSort) get an id without
		// a return line; replay registers them in the same order, so the id
		// resolves through the sort database.
		s, ok = m.sorts.Get(traceID)
	}
	if !ok {
		return nil, fmt.Errorf("smgr: unknown sort id s%d in trace", traceID)
	}
	return s, nil
}

// RegisterUntracedTerm maps a term id from a trace to a live term.
func (m *Manager) RegisterUntracedTerm(traceID uint64, t solver.Term) {
	m.untracedTerms[traceID] = t
}

// UntracedTerm resolves a trace term id.
func (m *Manager) UntracedTerm(traceID uint64) (solver.Term, error) {
	t, ok := m.untracedTerms[traceID]
	if !ok {
		return nil, fmt.Errorf("smgr: unknown term id t%d in trace", traceID)
	}
	return t, nil
}

/* Lifecycle ---------------------------------------------------------------- */

// Clear drops the data structures and the per-kind term counts but keeps
// configuration and the id and symbol counters, so ids are never reused
// within a process.
func (m *Manager) Clear() {
	m.sorts = NewSortDB()
	m.terms = NewTermDB()
	m.assumptions = nil
	m.untracedSorts = make(map[uint64]solver.Sort)
	m.untracedTerms = make(map[uint64]solver.Term)
	m.nSortTerms = make(map[theory.SortKind]uint64)
}

// Reset returns the manager to its initial configured state.
func (m *Manager) Reset() {
	m.Clear()
	m.usedOptions = make(map[string]struct{})
	m.Incremental = false
	m.ModelGen = false
	m.UnsatAssumptions = false
	m.UnsatCores = false
	m.NPushLevels = 0
	m.SatCalled = false
	m.SatResult = solver.Unknown
	m.NSatCalls = 0
}
