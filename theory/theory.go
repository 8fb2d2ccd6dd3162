// Package theory enumerates the logical theories and sort kinds the fuzzer
// knows about, together with the static metadata that maps one onto the
// other. Both enumerations are closed; backends restrict but never extend
// them.
package theory

import "fmt"

// Theory identifies a logical fragment with a distinguished signature.
type Theory int

const (
	Array Theory = iota
	Bag
	Bool
	BV
	DT
	FP
	Int
	Quant
	Real
	Seq
	Set
	String
	Transcendental
	UF

	numTheories
)

var theoryNames = [numTheories]string{
	Array:          "ARRAY",
	Bag:            "BAG",
	Bool:           "BOOL",
	BV:             "BV",
	DT:             "DT",
	FP:             "FP",
	Int:            "INT",
	Quant:          "QUANT",
	Real:           "REAL",
	Seq:            "SEQ",
	Set:            "SET",
	String:         "STRING",
	Transcendental: "TRANSCENDENTAL",
	UF:             "UF",
}

func (t Theory) String() string {
	if t < 0 || t >= numTheories {
		return fmt.Sprintf("Theory(%d)", int(t))
	}
	return theoryNames[t]
}

// All returns every theory, in enumeration order.
func All() []Theory {
	out := make([]Theory, numTheories)
	for i := range out {
		out[i] = Theory(i)
	}
	return out
}

// ParseTheory maps a name back to its Theory.
func ParseTheory(s string) (Theory, error) {
	for i, n := range theoryNames {
		if n == s {
			return Theory(i), nil
		}
	}
	return 0, fmt.Errorf("theory: unknown theory %q", s)
}

// SortKind is the coarse classifier over sorts used for dispatch. KindAny
// is a wildcard used only by the operator catalog for polymorphic
// operators.
type SortKind int

const (
	KindBool SortKind = iota
	KindBV
	KindFP
	KindRM
	KindInt
	KindReal
	KindString
	KindRegLan
	KindArray
	KindFun
	KindBag
	KindSeq
	KindSet
	KindDT
	KindAny

	numSortKinds
)

var sortKindNames = [numSortKinds]string{
	KindBool:   "BOOL",
	KindBV:     "BV",
	KindFP:     "FP",
	KindRM:     "RM",
	KindInt:    "INT",
	KindReal:   "REAL",
	KindString: "STRING",
	KindRegLan: "REGLAN",
	KindArray:  "ARRAY",
	KindFun:    "FUN",
	KindBag:    "BAG",
	KindSeq:    "SEQ",
	KindSet:    "SET",
	KindDT:     "DT",
	KindAny:    "ANY",
}

func (k SortKind) String() string {
	if k < 0 || k >= numSortKinds {
		return fmt.Sprintf("SortKind(%d)", int(k))
	}
	return sortKindNames[k]
}

// ParseSortKind maps a name back to its SortKind.
func ParseSortKind(s string) (SortKind, error) {
	for i, n := range sortKindNames {
		if n == s {
			return SortKind(i), nil
		}
	}
	return 0, fmt.Errorf("theory: unknown sort kind %q", s)
}

// ArityClass tells how a sort kind is constructed.
type ArityClass int

const (
	// Atomic kinds take no construction arguments (BOOL, INT, RM, ...).
	Atomic ArityClass = iota
	// Parametric kinds take numeric parameters (BV width, FP widths).
	Parametric
	// Composite kinds take child sorts (ARRAY, FUN, SEQ, SET, BAG).
	Composite
)

// SortKindData is the registry entry for a sort kind.
type SortKindData struct {
	Kind     SortKind
	Class    ArityClass
	NParams  int // numeric parameters for Parametric kinds
	MinSorts int // child sorts for Composite kinds
	MaxSorts int // -1 means unbounded (FUN)
	Theory   Theory
}

var sortKinds = map[SortKind]SortKindData{
	KindBool:   {Kind: KindBool, Class: Atomic, Theory: Bool},
	KindBV:     {Kind: KindBV, Class: Parametric, NParams: 1, Theory: BV},
	KindFP:     {Kind: KindFP, Class: Parametric, NParams: 2, Theory: FP},
	KindRM:     {Kind: KindRM, Class: Atomic, Theory: FP},
	KindInt:    {Kind: KindInt, Class: Atomic, Theory: Int},
	KindReal:   {Kind: KindReal, Class: Atomic, Theory: Real},
	KindString: {Kind: KindString, Class: Atomic, Theory: String},
	KindRegLan: {Kind: KindRegLan, Class: Atomic, Theory: String},
	KindArray:  {Kind: KindArray, Class: Composite, MinSorts: 2, MaxSorts: 2, Theory: Array},
	KindFun:    {Kind: KindFun, Class: Composite, MinSorts: 2, MaxSorts: -1, Theory: UF},
	KindBag:    {Kind: KindBag, Class: Composite, MinSorts: 1, MaxSorts: 1, Theory: Bag},
	KindSeq:    {Kind: KindSeq, Class: Composite, MinSorts: 1, MaxSorts: 1, Theory: Seq},
	KindSet:    {Kind: KindSet, Class: Composite, MinSorts: 1, MaxSorts: 1, Theory: Set},
	KindDT:     {Kind: KindDT, Class: Composite, MinSorts: 0, MaxSorts: -1, Theory: DT},
}

// KindData returns the registry entry for kind. KindAny has no entry.
func KindData(kind SortKind) (SortKindData, bool) {
	d, ok := sortKinds[kind]
	return d, ok
}

// SortKindsForTheory returns the sort kinds a theory contributes. QUANT and
// TRANSCENDENTAL contribute no sorts of their own; QUANT quantifies over
// existing sorts and TRANSCENDENTAL works on REAL.
func SortKindsForTheory(t Theory) []SortKind {
	var out []SortKind
	for k := KindBool; k < numSortKinds; k++ {
		d, ok := sortKinds[k]
		if ok && d.Theory == t {
			out = append(out, k)
		}
	}
	return out
}

// EnabledSortKinds derives the set of constructible sort kinds from a set
// of enabled theories.
func EnabledSortKinds(enabled map[Theory]struct{}) map[SortKind]struct{} {
	out := make(map[SortKind]struct{})
	for t := range enabled {
		for _, k := range SortKindsForTheory(t) {
			out[k] = struct{}{}
		}
	}
	// The assertion language is Boolean regardless of requested theories.
	out[KindBool] = struct{}{}
	return out
}
