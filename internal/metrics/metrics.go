// Package metrics exposes podtree's Prometheus counters and the HTTP server
// that serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	lookupFound    = "found"
	lookupNotFound = "not_found"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry                *prometheus.Registry
	rendersTotal            prometheus.Counter
	unrecognizedStatesTotal prometheus.Counter
	podLookupsTotal         *prometheus.CounterVec
}

// New registers the podtree collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "podtree_renders_total",
			Help: "Total number of pod tree builds.",
		}),
		unrecognizedStatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "podtree_unrecognized_container_states_total",
			Help: "Total number of container statuses whose state shape was not recognized.",
		}),
		podLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "podtree_pod_lookups_total",
				Help: "Total number of pod lookups by identifier, by result.",
			},
			[]string{"result"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRender counts one tree build. unrecognized is the number of
// containers in that build whose state was not recognized.
func (m *Metrics) RecordRender(unrecognized int) {
	if m == nil {
		return
	}
	m.rendersTotal.Inc()
	if unrecognized > 0 {
		m.unrecognizedStatesTotal.Add(float64(unrecognized))
	}
}

// RecordLookup counts a pod lookup.
func (m *Metrics) RecordLookup(found bool) {
	if m == nil {
		return
	}
	result := lookupNotFound
	if found {
		result = lookupFound
	}
	m.podLookupsTotal.WithLabelValues(result).Inc()
}
