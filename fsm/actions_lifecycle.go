package fsm

import (
	"fmt"

	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/trace"
)

// Canonical action tags, as they appear in traces.
const (
	KindNew             = "new"
	KindDelete          = "delete"
	KindSetOpt          = "set-opt"
	KindMkSort          = "mk-sort"
	KindMkConst         = "mk-const"
	KindMkVar           = "mk-var"
	KindMkValue         = "mk-value"
	KindMkSpecialValue  = "mk-special-value"
	KindMkTerm          = "mk-term"
	KindAssert          = "assert"
	KindPush            = "push"
	KindPop             = "pop"
	KindResetAssertions = "reset-assertions"
	KindCheckSat        = "check-sat"
	KindCheckSatAssume  = "check-sat-assuming"
	KindGetUnsatAssume  = "get-unsat-assumptions"
	KindGetValue        = "get-value"
	KindPrintModel      = "print-model"
	KindTransition      = "t_default"
)

// ActionNew activates the backend.
type ActionNew struct{}

func (ActionNew) Kind() string { return KindNew }

func (ActionNew) Enabled(m *smgr.Manager) bool {
	return !m.Solver().IsInitialized()
}

func (ActionNew) Run(m *smgr.Manager) error {
	m.Trace().Action(KindNew)
	m.Trace().Flush()
	return m.Solver().NewSolver()
}

func (a ActionNew) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 0); err != nil {
		return nil, err
	}
	return nil, m.Solver().NewSolver()
}

// ActionDelete tears the backend down; the FSM transitions to FINAL
// afterwards.
type ActionDelete struct{}

func (ActionDelete) Kind() string { return KindDelete }

func (ActionDelete) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized()
}

func (ActionDelete) Run(m *smgr.Manager) error {
	m.Trace().Action(KindDelete)
	m.Trace().Flush()
	return m.Solver().DeleteSolver()
}

func (a ActionDelete) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 0); err != nil {
		return nil, err
	}
	return nil, m.Solver().DeleteSolver()
}

// ActionSetOpt configures one backend option picked from the registry,
// honoring dependencies and conflicts. Options the backend rejects are
// dropped silently but still count as used.
type ActionSetOpt struct{}

func (ActionSetOpt) Kind() string { return KindSetOpt }

func (ActionSetOpt) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized()
}

func (ActionSetOpt) Run(m *smgr.Manager) error {
	name, value := m.PickOption("", "")
	if name == "" {
		return nil
	}
	m.Trace().Action(KindSetOpt, name, value)
	m.Trace().Flush()
	setOption(m, name, value)
	return nil
}

func (a ActionSetOpt) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 2); err != nil {
		return nil, err
	}
	setOption(m, args[0], args[1])
	return nil, nil
}

// setOption issues the backend call, marks the option used regardless of
// acceptance, and refreshes the manager's option flags.
func setOption(m *smgr.Manager, name, value string) {
	s := m.Solver()
	_ = s.SetOpt(name, value)
	m.MarkOptionUsed(name)
	m.Incremental = s.OptionIncrementalEnabled()
	m.ModelGen = s.OptionModelGenEnabled()
	m.UnsatAssumptions = s.OptionUnsatAssumptionsEnabled()
}

func parseUintArg(tok string) (uint32, error) {
	v, err := trace.ParseUint(tok)
	if err != nil {
		return 0, fmt.Errorf("bad numeral %q: %w", tok, err)
	}
	return uint32(v), nil
}
