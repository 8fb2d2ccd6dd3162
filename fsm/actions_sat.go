package fsm

import (
	"fmt"
	"io"

	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

const maxAssumptions = 5
const maxValueQueries = 5

// ModelOut receives print-model output during generation. The driver may
// redirect it; replay discards it.
var ModelOut io.Writer = io.Discard

// ActionCheckSat issues a plain satisfiability check. Non-incremental
// backends get at most one.
type ActionCheckSat struct{}

func (ActionCheckSat) Kind() string { return KindCheckSat }

func (ActionCheckSat) Enabled(m *smgr.Manager) bool {
	if !m.Solver().IsInitialized() || m.InBinderScope() {
		return false
	}
	return m.Incremental || m.NSatCalls == 0
}

func (ActionCheckSat) Run(m *smgr.Manager) error {
	m.ResetSat()
	m.Trace().Action(KindCheckSat)
	m.Trace().Flush()
	r, err := m.Solver().CheckSat()
	if err != nil {
		return err
	}
	m.RecordSat(r)
	return nil
}

func (ActionCheckSat) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 0); err != nil {
		return nil, err
	}
	m.ResetSat()
	r, err := m.Solver().CheckSat()
	if err != nil {
		return nil, err
	}
	m.RecordSat(r)
	return nil, nil
}

// ActionCheckSatAssuming samples a fresh assumption set and checks
// satisfiability under it.
type ActionCheckSatAssuming struct{}

func (ActionCheckSatAssuming) Kind() string { return KindCheckSatAssume }

func (ActionCheckSatAssuming) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		m.Incremental &&
		!m.InBinderScope() &&
		m.HasTermOfKind(theory.KindBool)
}

func (ActionCheckSatAssuming) Run(m *smgr.Manager) error {
	m.ResetSat()
	n := m.RNG().PickInt(1, maxAssumptions)
	toks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		t := m.PickTermOfKind(theory.KindBool)
		m.AddAssumption(t)
		toks = append(toks, trace.TermID(t.ID()))
	}
	m.Trace().Action(KindCheckSatAssume, toks...)
	m.Trace().Flush()
	r, err := m.Solver().CheckSatAssuming(m.Assumptions())
	if err != nil {
		return err
	}
	m.RecordSat(r)
	return nil
}

func (ActionCheckSatAssuming) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := minArgs(args, 1); err != nil {
		return nil, err
	}
	m.ResetSat()
	for _, tok := range args {
		t, err := untraceTermArg(m, tok)
		if err != nil {
			return nil, err
		}
		m.AddAssumption(t)
	}
	r, err := m.Solver().CheckSatAssuming(m.Assumptions())
	if err != nil {
		return nil, err
	}
	m.RecordSat(r)
	return nil, nil
}

// ActionGetUnsatAssumptions queries the failed assumption subset after an
// unsat check-sat-assuming and validates it against the assumed set.
type ActionGetUnsatAssumptions struct{}

func (ActionGetUnsatAssumptions) Kind() string { return KindGetUnsatAssume }

func (ActionGetUnsatAssumptions) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		m.Incremental &&
		m.UnsatAssumptions &&
		m.SatCalled &&
		m.SatResult == solver.Unsat &&
		m.HasAssumed()
}

func (a ActionGetUnsatAssumptions) Run(m *smgr.Manager) error {
	m.Trace().Action(KindGetUnsatAssume)
	m.Trace().Flush()
	return getUnsatAssumptions(m)
}

func (ActionGetUnsatAssumptions) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 0); err != nil {
		return nil, err
	}
	return nil, getUnsatAssumptions(m)
}

func getUnsatAssumptions(m *smgr.Manager) error {
	failed, err := m.Solver().GetUnsatAssumptions()
	if err != nil {
		return err
	}
	assumed := m.Assumptions()
	for _, f := range failed {
		found := false
		for _, t := range assumed {
			if t.Equals(f) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unsat assumption not in assumed set")
		}
		ok, err := m.Solver().IsUnsatAssumption(f)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("backend disowns its own unsat assumption")
		}
	}
	return nil
}

// ActionGetValue queries model values for sampled terms after a sat
// result.
type ActionGetValue struct{}

func (ActionGetValue) Kind() string { return KindGetValue }

func (ActionGetValue) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		m.ModelGen &&
		m.SatCalled &&
		m.SatResult == solver.Sat &&
		!m.InBinderScope() &&
		m.HasTerm()
}

func (ActionGetValue) Run(m *smgr.Manager) error {
	n := m.RNG().PickInt(1, maxValueQueries)
	terms := make([]solver.Term, 0, n)
	toks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		t := m.PickTerm()
		terms = append(terms, t)
		toks = append(toks, trace.TermID(t.ID()))
	}
	m.Trace().Action(KindGetValue, toks...)
	m.Trace().Flush()
	vals, err := m.Solver().GetValue(terms)
	if err != nil {
		return err
	}
	if len(vals) != len(terms) {
		return fmt.Errorf("get-value returned %d values for %d terms", len(vals), len(terms))
	}
	return nil
}

func (ActionGetValue) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := minArgs(args, 1); err != nil {
		return nil, err
	}
	terms := make([]solver.Term, 0, len(args))
	for _, tok := range args {
		t, err := untraceTermArg(m, tok)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	_, err := m.Solver().GetValue(terms)
	return nil, err
}

// ActionPrintModel dumps the current model.
type ActionPrintModel struct{}

func (ActionPrintModel) Kind() string { return KindPrintModel }

func (ActionPrintModel) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		m.ModelGen &&
		m.SatCalled &&
		m.SatResult == solver.Sat
}

func (ActionPrintModel) Run(m *smgr.Manager) error {
	m.Trace().Action(KindPrintModel)
	m.Trace().Flush()
	return m.Solver().PrintModel(ModelOut)
}

func (ActionPrintModel) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 0); err != nil {
		return nil, err
	}
	return nil, m.Solver().PrintModel(io.Discard)
}
