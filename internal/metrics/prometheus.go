package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector реализует Collector поверх Prometheus.
// Метрики регистрируются лениво при первом событии.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	evaluations  *prometheus.CounterVec
	replacements *prometheus.CounterVec
	best         *prometheus.GaugeVec
	runDuration  *prometheus.HistogramVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus создаёт коллектор. При reg == nil используется
// prometheus.DefaultRegisterer, при пустом namespace — "flexplan".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "flexplan"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "evaluations_total",
			Help:      "Objective evaluations by algorithm and feasibility.",
		}, []string{"algo", "feasible"})

		p.replacements = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "replacements_total",
			Help:      "Worst-member replacements in memory or population.",
		}, []string{"algo"})

		p.best = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "best_score",
			Help:      "Best objective value seen by the current run.",
		}, []string{"algo"})

		p.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed solver runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		}, []string{"algo"})

		p.reg.MustRegister(p.evaluations)
		p.reg.MustRegister(p.replacements)
		p.reg.MustRegister(p.best)
		p.reg.MustRegister(p.runDuration)
	})
}

func (p *PrometheusCollector) RecordEvaluation(algo string, feasible bool) {
	p.ensureRegistered()
	label := "false"
	if feasible {
		label = "true"
	}
	p.evaluations.WithLabelValues(algo, label).Inc()
}

func (p *PrometheusCollector) RecordReplacement(algo string) {
	p.ensureRegistered()
	p.replacements.WithLabelValues(algo).Inc()
}

func (p *PrometheusCollector) RecordBest(algo string, score float64) {
	p.ensureRegistered()
	p.best.WithLabelValues(algo).Set(score)
}

func (p *PrometheusCollector) RecordRun(algo string, seconds float64) {
	p.ensureRegistered()
	p.runDuration.WithLabelValues(algo).Observe(seconds)
}
