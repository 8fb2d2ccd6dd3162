// Package solver defines the narrow capability contract every SMT backend
// implements. The generation engine (manager, catalog, FSM) is written
// once against these interfaces; no other package talks to a backend
// directly.
package solver

import (
	"fmt"
	"io"

	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/theory"
)

// Result is the verdict of a check-sat call.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// ParseResult maps a verdict string back to its Result.
func ParseResult(s string) (Result, error) {
	switch s {
	case "sat":
		return Sat, nil
	case "unsat":
		return Unsat, nil
	case "unknown":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("solver: unknown result %q", s)
}

// Base is the numeral base of a string-encoded value.
type Base int

const (
	Bin Base = 2
	Dec Base = 10
	Hex Base = 16
)

// TermKind classifies a term on the generation side.
type TermKind int

const (
	KindValue TermKind = iota
	KindSpecialValue
	KindConst
	KindVar
	KindBoundVar
	KindOpApp
)

// SpecialValueKind names a distinguished constant of a sort.
type SpecialValueKind string

const (
	SpecialNone SpecialValueKind = ""

	BVZero      SpecialValueKind = "BV_ZERO"
	BVOne       SpecialValueKind = "BV_ONE"
	BVOnes      SpecialValueKind = "BV_ONES"
	BVMinSigned SpecialValueKind = "BV_MIN_SIGNED"
	BVMaxSigned SpecialValueKind = "BV_MAX_SIGNED"

	FPPosInf  SpecialValueKind = "FP_POS_INF"
	FPNegInf  SpecialValueKind = "FP_NEG_INF"
	FPPosZero SpecialValueKind = "FP_POS_ZERO"
	FPNegZero SpecialValueKind = "FP_NEG_ZERO"
	FPNaN     SpecialValueKind = "FP_NAN"

	RMRNA SpecialValueKind = "RM_RNA"
	RMRNE SpecialValueKind = "RM_RNE"
	RMRTN SpecialValueKind = "RM_RTN"
	RMRTP SpecialValueKind = "RM_RTP"
	RMRTZ SpecialValueKind = "RM_RTZ"
)

// SpecialValuesBV lists the BV special values in sampling order.
var SpecialValuesBV = []SpecialValueKind{BVZero, BVOne, BVOnes, BVMinSigned, BVMaxSigned}

// SpecialValuesFP lists the FP special values in sampling order.
var SpecialValuesFP = []SpecialValueKind{FPPosInf, FPNegInf, FPPosZero, FPNegZero, FPNaN}

// SpecialValuesRM lists the rounding modes in sampling order.
var SpecialValuesRM = []SpecialValueKind{RMRNA, RMRNE, RMRTN, RMRTP, RMRTZ}

// Bases lists the numeral bases in sampling order.
var Bases = []Base{Bin, Dec, Hex}

// Sort is a backend sort wrapped with generation-side bookkeeping. Backends
// embed SortBase for the bookkeeping half and implement equality and the
// kind-specific scalars themselves.
type Sort interface {
	ID() uint64
	SetID(uint64)
	Kind() theory.SortKind
	SetKind(theory.SortKind)
	// Sorts returns the ordered child sorts: [index, element] for ARRAY,
	// [dom1, ..., domN, codomain] for FUN, empty for atomic kinds.
	Sorts() []Sort
	SetSorts([]Sort)

	// Equals is the backend's semantic sort equality.
	Equals(Sort) bool

	BVWidth() uint32
	FPExpWidth() uint32
	FPSigWidth() uint32
}

// SortBase carries the bookkeeping shared by all backend sorts.
type SortBase struct {
	id    uint64
	kind  theory.SortKind
	sorts []Sort
}

func (s *SortBase) ID() uint64 { return s.id }
func (s *SortBase) SetID(id uint64) { s.id = id }
func (s *SortBase) Kind() theory.SortKind { return s.kind }
func (s *SortBase) SetKind(k theory.SortKind) { s.kind = k }
func (s *SortBase) Sorts() []Sort { return s.sorts }
func (s *SortBase) SetSorts(sorts []Sort) { s.sorts = sorts }
func (s *SortBase) BVWidth() uint32 { return 0 }
func (s *SortBase) FPExpWidth() uint32 { return 0 }
func (s *SortBase) FPSigWidth() uint32 { return 0 }

// Term is a backend term wrapped with generation-side bookkeeping.
type Term interface {
	ID() uint64
	SetID(uint64)
	Sort() Sort
	SetSort(Sort)
	TermKind() TermKind
	SetTermKind(TermKind)
	SpecialKind() SpecialValueKind
	SetSpecialKind(SpecialValueKind)
	// Args are the argument terms of an OP_APP, nil otherwise.
	Args() []Term
	SetArgs([]Term)
	// Level is the scope level the term was defined at, for eviction.
	Level() int
	SetLevel(int)

	// Equals is the backend's semantic term equality.
	Equals(Term) bool
}

// TermBase carries the bookkeeping shared by all backend terms.
type TermBase struct {
	id      uint64
	sort    Sort
	kind    TermKind
	special SpecialValueKind
	args    []Term
	level   int
}

func (t *TermBase) ID() uint64 { return t.id }
func (t *TermBase) SetID(id uint64) { t.id = id }
func (t *TermBase) Sort() Sort { return t.sort }
func (t *TermBase) SetSort(s Sort) { t.sort = s }
func (t *TermBase) TermKind() TermKind { return t.kind }
func (t *TermBase) SetTermKind(k TermKind) { t.kind = k }
func (t *TermBase) SpecialKind() SpecialValueKind { return t.special }
func (t *TermBase) SetSpecialKind(k SpecialValueKind) { t.special = k }
func (t *TermBase) Args() []Term { return t.args }
func (t *TermBase) SetArgs(args []Term) { t.args = args }
func (t *TermBase) Level() int { return t.level }
func (t *TermBase) SetLevel(level int) { t.level = level }

// Solver is the capability interface a backend implements. Every method
// with an error return fails when its precondition is violated; avoiding
// that is the generator's job, and a returned error is surfaced to the
// driver as a candidate finding.
type Solver interface {
	// Name is the stable solver id, used to namespace solver-private
	// action and operator kinds in traces.
	Name() string

	NewSolver() error
	DeleteSolver() error
	IsInitialized() bool

	SupportedTheories() []theory.Theory
	UnsupportedOpKinds() []op.Kind
	UnsupportedVarSortKinds() []theory.SortKind
	UnsupportedArrayIndexSortKinds() []theory.SortKind
	UnsupportedArrayElementSortKinds() []theory.SortKind
	UnsupportedFunDomainSortKinds() []theory.SortKind
	SupportsResetAssertions() bool

	// ConfigureOps lets the backend register solver-private operator
	// kinds with the catalog before generation starts.
	ConfigureOps(c *op.Catalog)

	MkSort(kind theory.SortKind) (Sort, error)
	MkSortBV(width uint32) (Sort, error)
	MkSortFP(exp, sig uint32) (Sort, error)
	MkSortComposite(kind theory.SortKind, sorts []Sort) (Sort, error)

	MkConst(sort Sort, name string) (Term, error)
	MkVar(sort Sort, name string) (Term, error)
	MkValueBool(sort Sort, value bool) (Term, error)
	MkValue(sort Sort, value string, base Base) (Term, error)
	MkSpecialValue(sort Sort, kind SpecialValueKind) (Term, error)
	MkTerm(kind op.Kind, args []Term, params []uint32) (Term, error)

	GetSort(t Term) (Sort, error)
	AssertFormula(t Term) error
	CheckSat() (Result, error)
	CheckSatAssuming(assumptions []Term) (Result, error)
	GetUnsatAssumptions() ([]Term, error)
	IsUnsatAssumption(t Term) (bool, error)
	GetValue(terms []Term) ([]Term, error)
	Push(n uint32) error
	Pop(n uint32) error
	PrintModel(w io.Writer) error
	ResetAssertions() error

	SetOpt(name, value string) error
	OptionNameIncremental() string
	OptionNameModelGen() string
	OptionNameUnsatAssumptions() string
	OptionIncrementalEnabled() bool
	OptionModelGenEnabled() bool
	OptionUnsatAssumptionsEnabled() bool
}
