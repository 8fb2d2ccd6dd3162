// Package fsm drives trace generation: a weighted finite-state machine
// over solver lifecycle phases, whose states own the actions that issue
// backend calls, plus the untracer that replays a recorded stream.
package fsm

import (
	"fmt"

	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/solver"
)

// Action is one unit of generation: a precondition, a run that performs
// exactly one backend call (sampling its arguments from the manager) and
// emits its trace line, and the inverse replay from tokenized trace
// arguments.
type Action interface {
	// Kind is the stable trace tag of the action. Solver-private actions
	// prefix it with "<solver-id>-".
	Kind() string
	// Enabled reports whether the action's preconditions hold.
	Enabled(m *smgr.Manager) bool
	// Run samples arguments, performs the backend call, registers the
	// results, and emits the trace line. A returned error is a candidate
	// finding and aborts the run.
	Run(m *smgr.Manager) error
	// Untrace re-executes the action from its trace arguments.
	Untrace(m *smgr.Manager, args []string) (*Untraced, error)
}

// Untraced is the object a replayed action created, if any; the untracer
// binds it to the id on the following return line.
type Untraced struct {
	Sort solver.Sort
	Term solver.Term
}

// UntraceError reports a defect in a trace stream.
type UntraceError struct {
	Line int
	Msg  string
	Err  error
}

func (e *UntraceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("untrace: line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("untrace: line %d: %s", e.Line, e.Msg)
}

func (e *UntraceError) Unwrap() error { return e.Err }

// BackendError wraps a backend failure with the trace position at which
// it fired, so findings are reproducible.
type BackendError struct {
	ActionKind string
	NthAction  uint64
	Err        error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error in action %s (action #%d): %v", e.ActionKind, e.NthAction, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func needArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func minArgs(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected at least %d arguments, got %d", n, len(args))
	}
	return nil
}
