// Package metrics exposes prometheus counters for setup flows.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "setupflow"

// Flow counts flow lifecycle events. A nil *Flow records nothing.
type Flow struct {
	started     *prometheus.CounterVec
	terminated  prometheus.Counter
	navigation  *prometheus.CounterVec
	autoAdvance prometheus.Counter
}

// NewFlow creates the flow counters and registers them with reg.
func NewFlow(reg prometheus.Registerer) (*Flow, error) {
	m := &Flow{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_started_total",
			Help:      "Flows started, by entry point.",
		}, []string{"entry"}),
		terminated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_terminated_total",
			Help:      "Flows terminated before or after completion.",
		}),
		navigation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_requests_total",
			Help:      "Navigation requests, by resolution.",
		}, []string{"result"}),
		autoAdvance: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_advances_total",
			Help:      "Pages advanced without user input after execution finished.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.started, m.terminated, m.navigation, m.autoAdvance,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Flow) FlowStarted(entry string) {
	if m == nil {
		return
	}
	m.started.WithLabelValues(entry).Inc()
}

func (m *Flow) FlowTerminated() {
	if m == nil {
		return
	}
	m.terminated.Inc()
}

func (m *Flow) Navigation(result string) {
	if m == nil {
		return
	}
	m.navigation.WithLabelValues(result).Inc()
}

func (m *Flow) AutoAdvanced() {
	if m == nil {
		return
	}
	m.autoAdvance.Inc()
}
