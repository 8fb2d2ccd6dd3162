package smgr_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/mschoch/smat"
	"github.com/stretchr/testify/require"

	"alma.local/smtfuzz/mocksolver"
	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/rng"
	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/theory"
	"alma.local/smtfuzz/trace"
)

// State-machine-assisted test of the term database's scope discipline:
// random interleavings of const creation, push, and pop must never leave
// a term whose defining level exceeds the current level, and ids must
// stay strictly monotonic.

type smatState struct {
	m       *smgr.Manager
	backend *mocksolver.Solver
	lastID  uint64
}

const (
	smatSetup smat.ActionID = iota
	smatTeardown
	smatMkConst
	smatPush
	smatPop
	smatCheckInvariants
)

var smatActionMap = smat.ActionMap{
	smatSetup:           smatSetupFunc,
	smatTeardown:        smatTeardownFunc,
	smatMkConst:         smatMkConstFunc,
	smatPush:            smatPushFunc,
	smatPop:             smatPopFunc,
	smatCheckInvariants: smatCheckFunc,
}

func smatRunning(next byte) smat.ActionID {
	return smat.PercentExecute(next,
		smat.PercentAction{Percent: 50, Action: smatMkConst},
		smat.PercentAction{Percent: 15, Action: smatPush},
		smat.PercentAction{Percent: 15, Action: smatPop},
		smat.PercentAction{Percent: 20, Action: smatCheckInvariants},
	)
}

func smatSetupFunc(ctx smat.Context) (smat.State, error) {
	s := ctx.(*smatState)
	backend := mocksolver.New()
	if err := backend.NewSolver(); err != nil {
		return nil, err
	}
	catalog := op.NewCatalog()
	backend.ConfigureOps(catalog)
	m, err := smgr.New(backend, rng.New(0xfeed), trace.NewWriter(io.Discard), catalog, smgr.Options{
		EnabledTheories: []theory.Theory{theory.BV},
		SolverOptions:   mocksolver.DefaultOptions(),
		SimpleSymbols:   true,
	})
	if err != nil {
		return nil, err
	}
	sort, err := backend.MkSortBV(8)
	if err != nil {
		return nil, err
	}
	m.AddSort(sort, theory.KindBV)
	s.m = m
	s.backend = backend
	return smatRunning, nil
}

func smatTeardownFunc(ctx smat.Context) (smat.State, error) {
	return nil, nil
}

func smatMkConstFunc(ctx smat.Context) (smat.State, error) {
	s := ctx.(*smatState)
	sort := s.m.PickSort()
	c, err := s.backend.MkConst(sort, s.m.PickSymbol())
	if err != nil {
		return nil, err
	}
	s.m.AddInput(c, sort)
	if c.ID() <= s.lastID {
		return nil, fmt.Errorf("term id %d not above %d", c.ID(), s.lastID)
	}
	s.lastID = c.ID()
	return smatRunning, nil
}

func smatPushFunc(ctx smat.Context) (smat.State, error) {
	s := ctx.(*smatState)
	s.m.TermDBRef().PushLevels(1)
	return smatRunning, nil
}

func smatPopFunc(ctx smat.Context) (smat.State, error) {
	s := ctx.(*smatState)
	db := s.m.TermDBRef()
	if db.CurLevel() == 0 {
		return smatRunning, nil
	}
	db.PopLevels(1)
	return smatRunning, nil
}

func smatCheckFunc(ctx smat.Context) (smat.State, error) {
	s := ctx.(*smatState)
	db := s.m.TermDBRef()
	cur := db.CurLevel()
	for level := 0; level <= cur; level++ {
		for _, tm := range db.OfKindLevel(theory.KindBV, level) {
			if tm.Level() > cur {
				return nil, fmt.Errorf("term %d at level %d outlived level %d", tm.ID(), tm.Level(), cur)
			}
		}
	}
	return smatRunning, nil
}

func TestTermDBScopeDisciplineSmat(t *testing.T) {
	// Deterministic byte programs standing in for fuzz corpora, the way
	// smat regressions are usually pinned.
	programs := [][]byte{
		[]byte("astonishing-sequence-of-bytes-1"),
		[]byte{0, 1, 2, 3, 250, 128, 40, 41, 42, 254, 7, 99, 100, 101},
		[]byte("push/pop/push/pop ... aaaaaaazzzzzzz"),
	}
	for i, data := range programs {
		require.NotPanics(t, func() {
			smat.Fuzz(&smatState{}, smatSetup, smatTeardown, smatActionMap, data)
		}, "program %d", i)
	}
}
