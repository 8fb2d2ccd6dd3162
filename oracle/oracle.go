// Package oracle checks the replay guarantees: a generated trace, fed
// back through the untracer against a fresh backend, must reproduce the
// identical observable capability call sequence and final verdict, and
// two generations from the same seed must produce byte-identical traces.
package oracle

import (
	"bytes"
	"fmt"

	"alma.local/smtfuzz/config"
	"alma.local/smtfuzz/fsm"
	"alma.local/smtfuzz/mocksolver"
	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/rng"
	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/solver"
	"alma.local/smtfuzz/trace"
)

// Run captures the observable outcome of one generation or replay.
type Run struct {
	Trace     []byte
	Calls     []string
	SatResult solver.Result
	NSatCalls uint32
	NTerms    uint64
	NSorts    uint64
}

// Generate drives a full fuzzing run against a fresh mock backend and
// returns its trace and observables.
func Generate(cfg config.Config, sink smgr.StatsSink) (*Run, error) {
	backend := mocksolver.New()
	catalog := op.NewCatalog()
	backend.ConfigureOps(catalog)

	theories, err := cfg.ParsedTheories()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	tw := trace.NewWriter(&buf)
	m, err := smgr.New(backend, rng.New(cfg.Seed), tw, catalog, smgr.Options{
		EnabledTheories: theories,
		SolverOptions:   mocksolver.DefaultOptions(),
		TraceSeeds:      cfg.TraceSeeds,
		SimpleSymbols:   cfg.SimpleSymbols,
		ArithSubtyping:  cfg.ArithSubtyping,
		ArithLinear:     cfg.ArithLinear,
		Stats:           sink,
	})
	if err != nil {
		return nil, err
	}
	machine := fsm.NewDefault(m)
	if err := machine.Run(cfg.ActionBudget); err != nil {
		return nil, err
	}
	return &Run{
		Trace:     buf.Bytes(),
		Calls:     backend.CallLog(),
		SatResult: m.SatResult,
		NSatCalls: m.NSatCalls,
		NTerms:    m.NTerms(),
		NSorts:    m.NSorts(),
	}, nil
}

// Replay feeds a trace through the untracer against a fresh mock
// backend.
func Replay(traceData []byte) (*Run, error) {
	backend := mocksolver.New()
	catalog := op.NewCatalog()
	backend.ConfigureOps(catalog)

	var devnull bytes.Buffer
	m, err := smgr.New(backend, rng.New(0), trace.NewWriter(&devnull), catalog, smgr.Options{
		SolverOptions: mocksolver.DefaultOptions(),
	})
	if err != nil {
		return nil, err
	}
	machine := fsm.NewDefault(m)
	u := fsm.NewUntracer(m, machine.Actions())
	if err := u.Run(bytes.NewReader(traceData)); err != nil {
		return nil, err
	}
	return &Run{
		Trace:     traceData,
		Calls:     backend.CallLog(),
		SatResult: m.SatResult,
		NSatCalls: m.NSatCalls,
		NTerms:    m.NTerms(),
		NSorts:    m.NSorts(),
	}, nil
}

// CompareCalls reports the first divergence between two capability call
// logs.
func CompareCalls(original, replay []string) error {
	n := len(original)
	if len(replay) < n {
		n = len(replay)
	}
	for i := 0; i < n; i++ {
		if original[i] != replay[i] {
			return fmt.Errorf("oracle: call %d diverges: %q vs %q", i, original[i], replay[i])
		}
	}
	if len(original) != len(replay) {
		return fmt.Errorf("oracle: call log length diverges: %d vs %d", len(original), len(replay))
	}
	return nil
}

// Check runs the full self-check for one configuration: determinism of
// generation and fidelity of replay.
func Check(cfg config.Config) error {
	first, err := Generate(cfg, nil)
	if err != nil {
		return err
	}
	second, err := Generate(cfg, nil)
	if err != nil {
		return err
	}
	if !bytes.Equal(first.Trace, second.Trace) {
		return fmt.Errorf("oracle: same seed produced diverging traces")
	}

	replayed, err := Replay(first.Trace)
	if err != nil {
		return err
	}
	if err := CompareCalls(first.Calls, replayed.Calls); err != nil {
		return err
	}
	if replayed.SatResult != first.SatResult {
		return fmt.Errorf("oracle: replay verdict %s, original %s", replayed.SatResult, first.SatResult)
	}
	if replayed.NTerms != first.NTerms || replayed.NSorts != first.NSorts {
		return fmt.Errorf("oracle: replay id stream diverges (%d/%d terms, %d/%d sorts)",
			replayed.NTerms, first.NTerms, replayed.NSorts, first.NSorts)
	}
	return nil
}
