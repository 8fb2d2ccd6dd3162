package smgr

import (
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/theory"
)

// SortDB is the set of every sort created during a run, with secondary
// indices by kind and by BV width. Sorts are never evicted; semantic
// equality is delegated to the backend, and the first registered sort of
// an equality class is the canonical one.
type SortDB struct {
	all       []solver.Sort
	byKind    map[theory.SortKind][]solver.Sort
	byBVWidth map[uint32][]solver.Sort
	byID      map[uint64]solver.Sort
}

// NewSortDB returns an empty sort database.
func NewSortDB() *SortDB {
	return &SortDB{
		byKind:    make(map[theory.SortKind][]solver.Sort),
		byBVWidth: make(map[uint32][]solver.Sort),
		byID:      make(map[uint64]solver.Sort),
	}
}

// Add registers a sort. The sort must already carry a positive id and its
// kind; registering an id twice is an invariant violation.
func (db *SortDB) Add(s solver.Sort) {
	if s.ID() == 0 {
		panic("smgr: sort with unset id added to sort database")
	}
	if _, ok := db.byID[s.ID()]; ok {
		panic("smgr: duplicate sort id in sort database")
	}
	db.all = append(db.all, s)
	db.byKind[s.Kind()] = append(db.byKind[s.Kind()], s)
	db.byID[s.ID()] = s
	if s.Kind() == theory.KindBV {
		db.byBVWidth[s.BVWidth()] = append(db.byBVWidth[s.BVWidth()], s)
	}
}

// Find returns the canonical registered sort semantically equal to s, or
// nil if s is new.
func (db *SortDB) Find(s solver.Sort) solver.Sort {
	for _, have := range db.byKind[s.Kind()] {
		if have.Equals(s) {
			return have
		}
	}
	return nil
}

// Get returns the sort with the given id.
func (db *SortDB) Get(id uint64) (solver.Sort, bool) {
	s, ok := db.byID[id]
	return s, ok
}

// All returns every sort in registration order.
func (db *SortDB) All() []solver.Sort {
	return db.all
}

// OfKind returns the sorts of the given kind in registration order.
func (db *SortDB) OfKind(kind theory.SortKind) []solver.Sort {
	return db.byKind[kind]
}

// OfBVWidth returns the BV sorts with exactly the given width.
func (db *SortDB) OfBVWidth(width uint32) []solver.Sort {
	return db.byBVWidth[width]
}

// OfBVWidthMax returns the BV sorts with width at most max, in
// registration order.
func (db *SortDB) OfBVWidthMax(max uint32) []solver.Sort {
	var out []solver.Sort
	for _, s := range db.byKind[theory.KindBV] {
		if s.BVWidth() <= max {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of registered sorts.
func (db *SortDB) Len() int {
	return len(db.all)
}

// Kinds returns the kinds that currently have at least one sort.
func (db *SortDB) Kinds() []theory.SortKind {
	var out []theory.SortKind
	for k := theory.KindBool; k <= theory.KindDT; k++ {
		if len(db.byKind[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}
