// Package explore drives the configuration-space exploration over a lowered
// lole.Program: enumerating or sampling blend.SpacePoints, compiling
// variants in parallel via a codegen.Generator, running the compiled
// kernels strictly serially, and tracking success/failure counts. Grounded
// throughout on _examples/original_source/explorer.cpp.
package explore

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Counters are the process-wide exploration counts (spec.md §5's
// single-mutex shared-resource policy): tries, success, generate, invalid.
// A context struct instance, not a package-level global, per SPEC_FULL.md's
// Design Notes on avoiding process-wide state — callers construct one per
// exploration run and thread it explicitly.
type Counters struct {
	mu sync.Mutex

	tries    int64
	success  int64
	generate int64
	invalid  int64

	metrics *metricsVecs
}

type metricsVecs struct {
	tries    prometheus.Counter
	success  prometheus.Counter
	generate prometheus.Counter
	invalid  prometheus.Counter
}

// NewCounters builds a zeroed Counters. If reg is non-nil, four counter
// metrics are registered against it (tries/success/generate/invalid),
// labeled by run, for scraping during long exploration runs.
func NewCounters(reg prometheus.Registerer, run string) *Counters {
	c := &Counters{}
	if reg == nil {
		return c
	}
	mk := func(name, help string) prometheus.Counter {
		ctr := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "voila",
			Subsystem:   "explore",
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"run": run},
		})
		reg.MustRegister(ctr)
		return ctr
	}
	c.metrics = &metricsVecs{
		tries:    mk("tries_total", "Blend space points attempted."),
		success:  mk("success_total", "Kernel runs that completed successfully."),
		generate: mk("generate_total", "Kernel sources that compiled successfully."),
		invalid:  mk("invalid_total", "Sampled points rejected as invalid."),
	}
	return c
}

// IncTries increments the tries counter.
func (c *Counters) IncTries() {
	c.mu.Lock()
	c.tries++
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.tries.Inc()
	}
}

// IncSuccess increments the success counter.
func (c *Counters) IncSuccess() {
	c.mu.Lock()
	c.success++
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.success.Inc()
	}
}

// IncGenerate increments the generate counter.
func (c *Counters) IncGenerate() {
	c.mu.Lock()
	c.generate++
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.generate.Inc()
	}
}

// IncInvalid increments the invalid counter.
func (c *Counters) IncInvalid() {
	c.mu.Lock()
	c.invalid++
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.invalid.Inc()
	}
}

// Snapshot returns a consistent copy of all four counts.
func (c *Counters) Snapshot() (tries, success, generate, invalid int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tries, c.success, c.generate, c.invalid
}
