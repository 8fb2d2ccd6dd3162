// Package stats collects run statistics and mirrors them to Prometheus
// counters. Each fuzzer instance owns its own registry so multiple runs
// in one process do not collide.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stats implements smgr.StatsSink.
type Stats struct {
	registry *prometheus.Registry

	sorts    prometheus.Counter
	terms    prometheus.Counter
	inputs   prometheus.Counter
	vars     prometheus.Counter
	satCalls prometheus.Counter
	actions  *prometheus.CounterVec

	// Plain mirrors for cheap end-of-run summaries.
	NSorts    uint64
	NTerms    uint64
	NInputs   uint64
	NVars     uint64
	NSatCalls uint64
	NActions  uint64
}

// New builds a stats collector with a private registry.
func New() *Stats {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Stats{
		registry: reg,
		sorts: factory.NewCounter(prometheus.CounterOpts{
			Name: "smtfuzz_sorts_total", Help: "Sorts created.",
		}),
		terms: factory.NewCounter(prometheus.CounterOpts{
			Name: "smtfuzz_terms_total", Help: "Terms created.",
		}),
		inputs: factory.NewCounter(prometheus.CounterOpts{
			Name: "smtfuzz_inputs_total", Help: "Inputs (values and constants) created.",
		}),
		vars: factory.NewCounter(prometheus.CounterOpts{
			Name: "smtfuzz_vars_total", Help: "Bound variables created.",
		}),
		satCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "smtfuzz_sat_calls_total", Help: "check-sat calls issued.",
		}),
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smtfuzz_actions_total", Help: "Actions executed by kind.",
		}, []string{"kind"}),
	}
}

// Registry exposes the private registry for exposition.
func (s *Stats) Registry() *prometheus.Registry { return s.registry }

func (s *Stats) IncSorts() {
	s.NSorts++
	s.sorts.Inc()
}

func (s *Stats) IncTerms() {
	s.NTerms++
	s.terms.Inc()
}

func (s *Stats) IncInputs() {
	s.NInputs++
	s.inputs.Inc()
}

func (s *Stats) IncVars() {
	s.NVars++
	s.vars.Inc()
}

func (s *Stats) IncSatCalls() {
	s.NSatCalls++
	s.satCalls.Inc()
}

func (s *Stats) IncActions(kind string) {
	s.NActions++
	s.actions.WithLabelValues(kind).Inc()
}
