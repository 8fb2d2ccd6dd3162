package fsm

import (
	"strconv"

	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

const maxPushLevels = 3

// ActionAssert asserts a sampled Boolean formula.
type ActionAssert struct{}

func (ActionAssert) Kind() string { return KindAssert }

func (ActionAssert) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		!m.InBinderScope() &&
		m.HasTermOfKind(theory.KindBool)
}

func (ActionAssert) Run(m *smgr.Manager) error {
	t := m.PickTermOfKind(theory.KindBool)
	m.Trace().Action(KindAssert, trace.TermID(t.ID()))
	m.Trace().Flush()
	if err := m.Solver().AssertFormula(t); err != nil {
		return err
	}
	m.ResetSat()
	return nil
}

func (ActionAssert) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 1); err != nil {
		return nil, err
	}
	t, err := untraceTermArg(m, args[0])
	if err != nil {
		return nil, err
	}
	if err := m.Solver().AssertFormula(t); err != nil {
		return nil, err
	}
	m.ResetSat()
	return nil, nil
}

// ActionPush opens assertion levels.
type ActionPush struct{}

func (ActionPush) Kind() string { return KindPush }

func (ActionPush) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() && m.Incremental && !m.InBinderScope()
}

func (ActionPush) Run(m *smgr.Manager) error {
	n := uint32(1)
	if m.RNG().PickWithProb(250) {
		n = uint32(m.RNG().Pick(1, maxPushLevels))
	}
	m.Trace().Action(KindPush, strconv.FormatUint(uint64(n), 10))
	m.Trace().Flush()
	if err := m.Solver().Push(n); err != nil {
		return err
	}
	m.TermDBRef().PushLevels(int(n))
	m.NPushLevels += n
	return nil
}

func (ActionPush) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 1); err != nil {
		return nil, err
	}
	n, err := parseUintArg(args[0])
	if err != nil {
		return nil, err
	}
	if err := m.Solver().Push(n); err != nil {
		return nil, err
	}
	m.TermDBRef().PushLevels(int(n))
	m.NPushLevels += n
	return nil, nil
}

// ActionPop closes assertion levels, evicting the terms defined inside.
type ActionPop struct{}

func (ActionPop) Kind() string { return KindPop }

func (ActionPop) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() && m.Incremental &&
		m.NPushLevels > 0 && !m.InBinderScope()
}

func (ActionPop) Run(m *smgr.Manager) error {
	n := uint32(m.RNG().Pick(1, uint64(m.NPushLevels)))
	m.Trace().Action(KindPop, strconv.FormatUint(uint64(n), 10))
	m.Trace().Flush()
	if err := m.Solver().Pop(n); err != nil {
		return err
	}
	m.TermDBRef().PopLevels(int(n))
	m.NPushLevels -= n
	m.ResetSat()
	return nil
}

func (ActionPop) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 1); err != nil {
		return nil, err
	}
	n, err := parseUintArg(args[0])
	if err != nil {
		return nil, err
	}
	if err := m.Solver().Pop(n); err != nil {
		return nil, err
	}
	m.TermDBRef().PopLevels(int(n))
	m.NPushLevels -= n
	m.ResetSat()
	return nil, nil
}

// ActionResetAssertions clears the assertion stack on backends that
// advertise support for it.
type ActionResetAssertions struct{}

func (ActionResetAssertions) Kind() string { return KindResetAssertions }

func (ActionResetAssertions) Enabled(m *smgr.Manager) bool {
	return m.Solver().IsInitialized() &&
		m.Solver().SupportsResetAssertions() &&
		!m.InBinderScope()
}

func (ActionResetAssertions) Run(m *smgr.Manager) error {
	m.Trace().Action(KindResetAssertions)
	m.Trace().Flush()
	if err := m.Solver().ResetAssertions(); err != nil {
		return err
	}
	resetAssertionState(m)
	return nil
}

func (ActionResetAssertions) Untrace(m *smgr.Manager, args []string) (*Untraced, error) {
	if err := needArgs(args, 0); err != nil {
		return nil, err
	}
	if err := m.Solver().ResetAssertions(); err != nil {
		return nil, err
	}
	resetAssertionState(m)
	return nil, nil
}

func resetAssertionState(m *smgr.Manager) {
	if m.NPushLevels > 0 {
		m.TermDBRef().PopLevels(int(m.NPushLevels))
		m.NPushLevels = 0
	}
	m.ResetSat()
}
