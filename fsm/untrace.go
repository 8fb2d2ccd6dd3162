package fsm

import (
	"io"

	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/trace"
)

// Untracer replays a trace stream against a backend: each line is
// dispatched to its action's Untrace, and return lines bind the created
// objects to the ids the original run assigned.
type Untracer struct {
	m       *smgr.Manager
	actions map[string]Action
}

// NewUntracer builds an untracer over the manager and an action
// registry, usually FSM.Actions() so solver-private actions resolve too.
func NewUntracer(m *smgr.Manager, actions map[string]Action) *Untracer {
	return &Untracer{m: m, actions: actions}
}

// Run replays the stream. It stops at the first defect and reports it
// with its line number.
func (u *Untracer) Run(r io.Reader) error {
	sc := trace.NewScanner(r)
	var pending *Untraced

	for sc.Scan() {
		line := sc.Line()
		switch line.Kind {
		case "set-seed":
			if len(line.Args) != 1 {
				return &UntraceError{Line: line.Number, Msg: "malformed set-seed line"}
			}
			seed, err := trace.ParseUint(line.Args[0])
			if err != nil {
				return &UntraceError{Line: line.Number, Msg: "bad seed", Err: err}
			}
			u.m.RNG().Reseed(seed)

		case "return":
			if pending == nil {
				return &UntraceError{Line: line.Number, Msg: "return line with nothing created"}
			}
			if len(line.Args) != 1 {
				return &UntraceError{Line: line.Number, Msg: "malformed return line"}
			}
			if err := u.bind(line.Args[0], pending, line.Number); err != nil {
				return err
			}
			pending = nil

		default:
			if pending != nil {
				return &UntraceError{Line: line.Number, Msg: "created object was never bound by a return line"}
			}
			a, ok := u.actions[line.Kind]
			if !ok {
				return &UntraceError{Line: line.Number, Msg: "unknown action kind " + line.Kind}
			}
			res, err := a.Untrace(u.m, line.Args)
			if err != nil {
				return &UntraceError{Line: line.Number, Msg: "replay of " + line.Kind + " failed", Err: err}
			}
			pending = res
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if pending != nil {
		return &UntraceError{Line: 0, Msg: "trace ends with an unbound created object"}
	}
	return nil
}

func (u *Untracer) bind(tok string, res *Untraced, lineNo int) error {
	switch {
	case len(tok) > 1 && tok[0] == 's':
		id, err := trace.ParseSortID(tok)
		if err != nil {
			return &UntraceError{Line: lineNo, Msg: "bad sort id", Err: err}
		}
		if res.Sort == nil {
			return &UntraceError{Line: lineNo, Msg: "return of a sort id for an action that made no sort"}
		}
		u.m.RegisterUntracedSort(id, res.Sort)
		return nil
	case len(tok) > 1 && tok[0] == 't':
		id, err := trace.ParseTermID(tok)
		if err != nil {
			return &UntraceError{Line: lineNo, Msg: "bad term id", Err: err}
		}
		if res.Term == nil {
			return &UntraceError{Line: lineNo, Msg: "return of a term id for an action that made no term"}
		}
		u.m.RegisterUntracedTerm(id, res.Term)
		return nil
	}
	return &UntraceError{Line: lineNo, Msg: "unparsable id token " + tok}
}
