package fsm

import (
	"alma.local/smtfuzz/smgr"
)

// Canonical state names.
const (
	StateNew      = "NEW"
	StateOpt      = "OPT"
	StateInputs   = "INPUTS"
	StateTerms    = "TERMS"
	StateAssert   = "ASSERT"
	StateCheckSat = "CHECK_SAT"
	StateModel    = "MODEL"
	StatePushPop  = "PUSH_POP"
	StateDelete   = "DELETE"
	StateFinal    = "FINAL"
)

// ActionTransition is the no-op carrier of a state transition. It never
// appears in traces.
type ActionTransition struct{}

func (ActionTransition) Kind() string { return KindTransition }
func (ActionTransition) Enabled(*smgr.Manager) bool { return true }
func (ActionTransition) Run(*smgr.Manager) error { return nil }
func (ActionTransition) Untrace(*smgr.Manager, []string) (*Untraced, error) {
	return nil, &UntraceError{Msg: "transition in trace stream"}
}

type entry struct {
	action   Action
	weight   uint32
	next     *State
	internal bool
}

// State owns a weighted action list. Internal entries advance the
// machine without consuming action budget.
type State struct {
	name    string
	final   bool
	entries []entry
}

// Name returns the state's name.
func (s *State) Name() string { return s.name }

// AddAction registers a budget-counted action that stays in this state.
func (s *State) AddAction(a Action, weight uint32) {
	s.entries = append(s.entries, entry{action: a, weight: weight})
}

// AddTransition registers a budget-counted action that moves to next.
func (s *State) AddTransition(a Action, weight uint32, next *State) {
	s.entries = append(s.entries, entry{action: a, weight: weight, next: next})
}

// AddInternalTransition registers a non-counted action that moves to
// next; the lifecycle actions and the default escapes use this.
func (s *State) AddInternalTransition(a Action, weight uint32, next *State) {
	s.entries = append(s.entries, entry{action: a, weight: weight, next: next, internal: true})
}

// FSM drives one generation run over one manager. Every non-terminal
// state carries a non-zero-weight escape transition, so FINAL is
// reachable regardless of RNG; the action budget bounds run length.
type FSM struct {
	m       *smgr.Manager
	states  map[string]*State
	order   []*State
	initial *State
	final   *State
	actions map[string]Action

	executed uint64
}

// SolverConfigurator is implemented by backends that splice private
// states and actions into the machine.
type SolverConfigurator interface {
	ConfigureFSM(*FSM)
}

// New returns an FSM with no states; use NewDefault for the canonical
// machine.
func New(m *smgr.Manager) *FSM {
	return &FSM{
		m:       m,
		states:  make(map[string]*State),
		actions: make(map[string]Action),
	}
}

// Manager returns the manager the machine drives.
func (f *FSM) Manager() *smgr.Manager { return f.m }

// NewState creates and registers a state.
func (f *FSM) NewState(name string) *State {
	if _, ok := f.states[name]; ok {
		panic("fsm: duplicate state " + name)
	}
	s := &State{name: name}
	f.states[name] = s
	f.order = append(f.order, s)
	return s
}

// State looks a state up by name.
func (f *FSM) State(name string) (*State, bool) {
	s, ok := f.states[name]
	return s, ok
}

// SetInitial marks the start state.
func (f *FSM) SetInitial(s *State) { f.initial = s }

// SetFinal marks the terminal state.
func (f *FSM) SetFinal(s *State) {
	s.final = true
	f.final = s
}

// RegisterAction makes an action known to the untracer without putting
// it in any state.
func (f *FSM) RegisterAction(a Action) {
	f.actions[a.Kind()] = a
}

// Actions returns the action registry for untracing, keyed by trace tag.
func (f *FSM) Actions() map[string]Action {
	out := make(map[string]Action, len(f.actions))
	for k, a := range f.actions {
		out[k] = a
	}
	return out
}

func (f *FSM) track(a Action) {
	f.actions[a.Kind()] = a
}

// AddActionToAllStates splices an action into every non-terminal state
// except the lifecycle states and any in excluded. Backends use this for
// solver-private actions.
func (f *FSM) AddActionToAllStates(a Action, weight uint32, excluded ...string) {
	skip := map[string]struct{}{StateNew: {}, StateDelete: {}}
	for _, name := range excluded {
		skip[name] = struct{}{}
	}
	for _, s := range f.order {
		if s.final {
			continue
		}
		if _, bad := skip[s.name]; bad {
			continue
		}
		s.AddAction(a, weight)
	}
	f.track(a)
}

// AddActionToAllStatesNext splices a transition to target into every
// non-terminal state except the lifecycle states and any in excluded;
// used to insert a detour state between canonical states.
func (f *FSM) AddActionToAllStatesNext(a Action, weight uint32, target *State, excluded ...string) {
	skip := map[string]struct{}{StateNew: {}, StateDelete: {}}
	for _, name := range excluded {
		skip[name] = struct{}{}
	}
	for _, s := range f.order {
		if s.final || s == target {
			continue
		}
		if _, bad := skip[s.name]; bad {
			continue
		}
		s.AddTransition(a, weight, target)
	}
	f.track(a)
}

// NewDefault wires the canonical machine over m and applies the
// backend's ConfigureFSM hook.
func NewDefault(m *smgr.Manager) *FSM {
	f := New(m)

	sNew := f.NewState(StateNew)
	sOpt := f.NewState(StateOpt)
	sInputs := f.NewState(StateInputs)
	sTerms := f.NewState(StateTerms)
	sAssert := f.NewState(StateAssert)
	sPushPop := f.NewState(StatePushPop)
	sCheckSat := f.NewState(StateCheckSat)
	sModel := f.NewState(StateModel)
	sDelete := f.NewState(StateDelete)
	sFinal := f.NewState(StateFinal)

	f.SetInitial(sNew)
	f.SetFinal(sFinal)

	t := ActionTransition{}

	sNew.AddInternalTransition(ActionNew{}, 1, sOpt)

	sOpt.AddAction(ActionSetOpt{}, 10)
	sOpt.AddInternalTransition(t, 2, sInputs)

	sInputs.AddAction(ActionMkSort{}, 2)
	sInputs.AddAction(ActionMkConst{}, 10)
	sInputs.AddAction(ActionMkValue{}, 5)
	sInputs.AddAction(ActionMkSpecialValue{}, 2)
	sInputs.AddInternalTransition(t, 5, sTerms)

	sTerms.AddAction(ActionMkTerm{}, 20)
	sTerms.AddAction(ActionMkSort{}, 1)
	sTerms.AddAction(ActionMkConst{}, 2)
	sTerms.AddAction(ActionMkVar{}, 2)
	sTerms.AddInternalTransition(t, 5, sAssert)

	sAssert.AddAction(ActionAssert{}, 10)
	sAssert.AddInternalTransition(t, 3, sCheckSat)
	sAssert.AddInternalTransition(t, 2, sPushPop)

	sPushPop.AddAction(ActionPush{}, 5)
	sPushPop.AddAction(ActionPop{}, 5)
	sPushPop.AddAction(ActionResetAssertions{}, 1)
	sPushPop.AddInternalTransition(t, 4, sTerms)

	sCheckSat.AddAction(ActionCheckSat{}, 10)
	sCheckSat.AddAction(ActionCheckSatAssuming{}, 5)
	sCheckSat.AddInternalTransition(t, 5, sModel)

	sModel.AddAction(ActionGetValue{}, 5)
	sModel.AddAction(ActionGetUnsatAssumptions{}, 5)
	sModel.AddAction(ActionPrintModel{}, 2)
	sModel.AddInternalTransition(t, 1, sDelete)
	sModel.AddInternalTransition(t, 4, sTerms)

	sDelete.AddInternalTransition(ActionDelete{}, 1, sFinal)

	for _, a := range []Action{
		ActionNew{}, ActionDelete{}, ActionSetOpt{},
		ActionMkSort{}, ActionMkConst{}, ActionMkVar{},
		ActionMkValue{}, ActionMkSpecialValue{}, ActionMkTerm{},
		ActionAssert{}, ActionPush{}, ActionPop{}, ActionResetAssertions{},
		ActionCheckSat{}, ActionCheckSatAssuming{},
		ActionGetUnsatAssumptions{}, ActionGetValue{}, ActionPrintModel{},
	} {
		f.track(a)
	}

	if sc, ok := m.Solver().(SolverConfigurator); ok {
		sc.ConfigureFSM(f)
	}
	return f
}

// Run drives the machine until FINAL, executing at most budget external
// actions. A step-count backstop caps internal-action churn so the loop
// terminates even if every external action is disabled.
func (f *FSM) Run(budget uint64) error {
	if f.initial == nil || f.final == nil {
		panic("fsm: Run without initial or final state")
	}
	m := f.m
	cur := f.initial
	f.executed = 0
	steps := 0
	maxSteps := int(budget)*100 + 10000

	for !cur.final {
		if f.executed >= budget || steps > maxSteps {
			return f.finish()
		}
		steps++

		e := f.pickEntry(cur)
		if !e.action.Enabled(m) {
			continue
		}
		if err := f.execute(e.action); err != nil {
			m.Trace().Flush()
			return err
		}
		if !e.internal {
			f.executed++
		}
		if e.next != nil {
			cur = e.next
		}
	}
	return m.Trace().Flush()
}

// finish ends a run whose budget is exhausted: it executes DELETE when
// the backend is initialized, then flushes the trace. No other state is
// visited.
func (f *FSM) finish() error {
	del := ActionDelete{}
	if del.Enabled(f.m) {
		if err := f.execute(del); err != nil {
			f.m.Trace().Flush()
			return err
		}
	}
	return f.m.Trace().Flush()
}

func (f *FSM) pickEntry(s *State) entry {
	weights := make([]uint32, len(s.entries))
	for i, e := range s.entries {
		weights[i] = e.weight
	}
	return s.entries[f.m.RNG().PickIndexWeighted(weights)]
}

// execute runs one action, emitting its seed line first when
// seed-per-action tracing is on.
func (f *FSM) execute(a Action) error {
	m := f.m
	if m.TraceSeeds && a.Kind() != KindTransition {
		seed := m.RNG().NextSeed()
		m.RNG().Reseed(seed)
		m.Trace().Seed(seed)
	}
	if err := a.Run(m); err != nil {
		return &BackendError{ActionKind: a.Kind(), NthAction: f.executed, Err: err}
	}
	m.CountAction(a.Kind())
	return nil
}
