package metrics

import (
	dom "taskmanager/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	renders *prometheus.CounterVec
	tasks   *prometheus.GaugeVec
}

// New builds a private registry so tests can create as many instances as they like.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmanager",
			Name:      "overview_renders_total",
			Help:      "Number of times the task overview was rendered, by surface.",
		}, []string{"surface"}),
		tasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "taskmanager",
			Name:      "tasks",
			Help:      "Tasks currently shown on the overview, by status.",
		}, []string{"status"}),
	}
	m.Registry.MustRegister(m.renders, m.tasks)
	return m
}

func (m *Metrics) ObserveRender(surface string) {
	m.renders.WithLabelValues(surface).Inc()
}

// SetTasks replaces the per-status gauges with counts from tasks.
func (m *Metrics) SetTasks(tasks []dom.Task) {
	m.tasks.Reset()
	for _, s := range dom.OrderedStatuses {
		m.tasks.WithLabelValues(string(s)).Set(0)
	}
	for _, t := range tasks {
		m.tasks.WithLabelValues(string(t.Status)).Inc()
	}
}
