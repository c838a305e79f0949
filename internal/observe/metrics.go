// Package observe exposes chain events as Prometheus metrics.
package observe

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/pubcfg/internal/orchestration"
)

const namespace = "pubcfg"

// Metrics counts chain events. It implements orchestration.Observer.
type Metrics struct {
	steps    *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration prometheus.Histogram

	mu     sync.Mutex
	starts map[string]time.Time
}

var _ orchestration.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_events_total",
			Help:      "Strategy events by kind and event type.",
		}, []string{"kind", "event"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_runs_total",
			Help:      "Finished chain runs by final state.",
		}, []string{"state"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_run_duration_seconds",
			Help:      "Wall time of finished chain runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		starts: make(map[string]time.Time),
	}

	for _, c := range []prometheus.Collector{m.steps, m.runs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	return m, nil
}

// OnEvent implements orchestration.Observer.
func (m *Metrics) OnEvent(e orchestration.Event) {
	if !e.Type.IsTerminal() {
		m.steps.WithLabelValues(string(e.Kind), string(e.Type)).Inc()

		m.mu.Lock()
		if _, ok := m.starts[e.RunID]; !ok {
			m.starts[e.RunID] = e.Time
		}
		m.mu.Unlock()

		return
	}

	m.runs.WithLabelValues(string(e.Type)).Inc()

	m.mu.Lock()
	start, ok := m.starts[e.RunID]
	delete(m.starts, e.RunID)
	m.mu.Unlock()

	if ok {
		m.duration.Observe(e.Time.Sub(start).Seconds())
	}
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
