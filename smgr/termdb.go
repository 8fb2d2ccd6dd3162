package smgr

import (
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
)

// TermDB holds every live term, indexed by (sort kind, level) and by
// sort, with separate pools for values, bound variables, and length-1
// string literals. Constants (inputs) have no pool of their own; they are
// reached only through the kind, level and sort indices.
// Level 0 is the global assertion context; binder scopes opened for
// quantified variables stack on top of the assertion levels and are
// popped when the quantifier closes, evicting everything defined inside.
type TermDB struct {
	// levels[l][kind] lists the terms defined at level l, in id order.
	levels []map[theory.SortKind][]solver.Term
	bySort map[uint64][]solver.Term // canonical sort id -> terms
	values map[uint64][]solver.Term // canonical sort id -> value terms
	byID   map[uint64]solver.Term

	stringChars []solver.Term // length-1 string literals

	// Binder scopes: varScopes[i] lists the bound variables of the i-th
	// open scope; binderBase[i] is the term level it opened at.
	varScopes  [][]solver.Term
	binderBase []int
}

// NewTermDB returns a term database with only the global level.
func NewTermDB() *TermDB {
	return &TermDB{
		levels: []map[theory.SortKind][]solver.Term{make(map[theory.SortKind][]solver.Term)},
		bySort: make(map[uint64][]solver.Term),
		values: make(map[uint64][]solver.Term),
		byID:   make(map[uint64]solver.Term),
	}
}

// CurLevel is the current scope level.
func (db *TermDB) CurLevel() int {
	return len(db.levels) - 1
}

// Add registers a term at the current level. The term must carry a
// positive id and a sort registered in the sort database.
func (db *TermDB) Add(t solver.Term) {
	if t.ID() == 0 {
		panic("smgr: term with unset id added to term database")
	}
	if t.Sort() == nil || t.Sort().ID() == 0 {
		panic("smgr: term with unregistered sort added to term database")
	}
	if _, ok := db.byID[t.ID()]; ok {
		panic("smgr: duplicate term id in term database")
	}
	level := db.CurLevel()
	t.SetLevel(level)
	kind := t.Sort().Kind()
	db.levels[level][kind] = append(db.levels[level][kind], t)
	sid := t.Sort().ID()
	db.bySort[sid] = append(db.bySort[sid], t)
	db.byID[t.ID()] = t
	switch t.TermKind() {
	case solver.KindValue, solver.KindSpecialValue:
		db.values[sid] = append(db.values[sid], t)
	}
}

// AddStringChar additionally registers a length-1 string literal.
func (db *TermDB) AddStringChar(t solver.Term) {
	db.stringChars = append(db.stringChars, t)
}

// Get returns the term with the given id, if live.
func (db *TermDB) Get(id uint64) (solver.Term, bool) {
	t, ok := db.byID[id]
	return t, ok
}

// Find returns the registered term semantically equal to t with the given
// sort, or nil. Needed for terms returned by the backend that wrap a
// solver term without bookkeeping.
func (db *TermDB) Find(t solver.Term, sort solver.Sort) solver.Term {
	for _, have := range db.bySort[sort.ID()] {
		if have.Equals(t) {
			return have
		}
	}
	return nil
}

// PushLevels opens n assertion levels. Opening a level inside a binder
// scope is an invariant violation; the FSM keeps push/pop out of binder
// construction.
func (db *TermDB) PushLevels(n int) {
	if len(db.varScopes) > 0 {
		panic("smgr: push inside an open binder scope")
	}
	for i := 0; i < n; i++ {
		db.levels = append(db.levels, make(map[theory.SortKind][]solver.Term))
	}
}

// PopLevels closes n assertion levels and evicts every term defined in
// them.
func (db *TermDB) PopLevels(n int) {
	if len(db.varScopes) > 0 {
		panic("smgr: pop inside an open binder scope")
	}
	if n >= len(db.levels) {
		panic("smgr: pop below the global level")
	}
	db.truncate(len(db.levels) - n)
}

// OpenBinderScope starts a quantifier body: a fresh term level plus a var
// pool. Terms built from the bound variables land in this level and die
// with it.
func (db *TermDB) OpenBinderScope() {
	db.binderBase = append(db.binderBase, len(db.levels))
	db.varScopes = append(db.varScopes, nil)
	db.levels = append(db.levels, make(map[theory.SortKind][]solver.Term))
}

// AddVar registers a bound variable in the innermost binder scope.
func (db *TermDB) AddVar(v solver.Term) {
	if len(db.varScopes) == 0 {
		panic("smgr: variable added outside a binder scope")
	}
	db.Add(v)
	db.varScopes[len(db.varScopes)-1] = append(db.varScopes[len(db.varScopes)-1], v)
}

// CloseBinderScope ends the innermost quantifier body, evicting its
// variables and every term defined since it opened.
func (db *TermDB) CloseBinderScope() {
	if len(db.varScopes) == 0 {
		panic("smgr: close of binder scope with none open")
	}
	base := db.binderBase[len(db.binderBase)-1]
	db.binderBase = db.binderBase[:len(db.binderBase)-1]
	db.varScopes = db.varScopes[:len(db.varScopes)-1]
	db.truncate(base)
}

// InBinderScope reports whether a quantifier body is being built.
func (db *TermDB) InBinderScope() bool {
	return len(db.varScopes) > 0
}

// BinderDepth is the number of open binder scopes.
func (db *TermDB) BinderDepth() int {
	return len(db.varScopes)
}

// truncate drops every level at index >= keep and rebuilds the indices.
func (db *TermDB) truncate(keep int) {
	db.levels = db.levels[:keep]
	max := keep - 1
	for sid, terms := range db.bySort {
		db.bySort[sid] = filterLevel(terms, max)
		if len(db.bySort[sid]) == 0 {
			delete(db.bySort, sid)
		}
	}
	for sid, terms := range db.values {
		db.values[sid] = filterLevel(terms, max)
		if len(db.values[sid]) == 0 {
			delete(db.values, sid)
		}
	}
	db.stringChars = filterLevel(db.stringChars, max)
	for id, t := range db.byID {
		if t.Level() > max {
			delete(db.byID, id)
		}
	}
}

func filterLevel(terms []solver.Term, max int) []solver.Term {
	out := terms[:0]
	for _, t := range terms {
		if t.Level() <= max {
			out = append(out, t)
		}
	}
	return out
}

// OfKindLevel returns the terms of the given sort kind at the given
// level, in id order.
func (db *TermDB) OfKindLevel(kind theory.SortKind, level int) []solver.Term {
	if level < 0 || level >= len(db.levels) {
		return nil
	}
	return db.levels[level][kind]
}

// OfKind returns the terms of the given sort kind across all live
// levels.
func (db *TermDB) OfKind(kind theory.SortKind) []solver.Term {
	var out []solver.Term
	for _, lvl := range db.levels {
		out = append(out, lvl[kind]...)
	}
	return out
}

// OfSort returns the live terms of the given sort.
func (db *TermDB) OfSort(sort solver.Sort) []solver.Term {
	return db.bySort[sort.ID()]
}

// ValuesOfSort returns the live value terms of the given sort.
func (db *TermDB) ValuesOfSort(sort solver.Sort) []solver.Term {
	return db.values[sort.ID()]
}

// StringChars returns the live length-1 string literals.
func (db *TermDB) StringChars() []solver.Term {
	return db.stringChars
}

// Vars returns the bound variables of the innermost binder scope.
func (db *TermDB) Vars() []solver.Term {
	if len(db.varScopes) == 0 {
		return nil
	}
	return db.varScopes[len(db.varScopes)-1]
}

// QuantBodies returns the Boolean terms eligible as a quantifier matrix:
// those defined at or above the outermost open binder level, where bound
// variables are in scope.
func (db *TermDB) QuantBodies() []solver.Term {
	if len(db.binderBase) == 0 {
		return nil
	}
	var out []solver.Term
	for l := db.binderBase[0]; l < len(db.levels); l++ {
		out = append(out, db.levels[l][theory.KindBool]...)
	}
	return out
}

// Kinds returns the sort kinds that currently have at least one live
// term.
func (db *TermDB) Kinds() []theory.SortKind {
	var out []theory.SortKind
	for k := theory.KindBool; k <= theory.KindDT; k++ {
		if db.HasKind(k) {
			out = append(out, k)
		}
	}
	return out
}

// HasKind reports whether any live term has the given sort kind.
func (db *TermDB) HasKind(kind theory.SortKind) bool {
	for _, lvl := range db.levels {
		if len(lvl[kind]) > 0 {
			return true
		}
	}
	return false
}

// Len returns the number of live terms.
func (db *TermDB) Len() int {
	return len(db.byID)
}
