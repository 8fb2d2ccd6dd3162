package mocksolver

import (
	"alma.local/smtfuzz/fsm"
	"alma.local/smtfuzz/smgr"
)

// KindSimplify is the solver-private action tag, namespaced per the
// trace grammar.
const KindSimplify = Name + "-simplify"

// Simplify is the solver-private capability the extension action drives.
func (s *Solver) Simplify() error {
	if err := s.require(); err != nil {
		return err
	}
	s.simplifies++
	s.record("simplify")
	return nil
}

// ActionSimplify exercises the FSM extension seam: a solver-private
// action spliced into every non-terminal state except NEW, DELETE and OPT.
type ActionSimplify struct{}

func (ActionSimplify) Kind() string { return KindSimplify }

func (ActionSimplify) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized()
}

func (ActionSimplify) Run(m *smgr.Manager) error {
	m.Trace().Action(KindSimplify)
	m.Trace().Flush()
	return m.Solver().(*Solver).Simplify()
}

func (ActionSimplify) Untrace(m *smgr.Manager, args []string) (*fsm.Untraced, error) {
	if len(args) != 0 {
		return nil, &fsm.UntraceError{Msg: "simplify takes no arguments"}
	}
	return nil, m.Solver().(*Solver).Simplify()
}

// ConfigureFSM splices the private action into the canonical machine.
func (s *Solver) ConfigureFSM(f *fsm.FSM) {
	f.AddActionToAllStates(ActionSimplify{}, 1, fsm.StateOpt)
}
