package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/metrics"
)

// executorMetrics implements actor.ExecutorMetrics using Prometheus.
type executorMetrics struct {
	actors        metrics.Gauge
	pollsTotal    *prometheus.CounterVec
	sweepDuration prometheus.Histogram
	runPolls      metrics.Histogram
}

// NewExecutorMetrics creates a new Prometheus implementation of
// ExecutorMetrics.
func NewExecutorMetrics(reg prometheus.Registerer) actor.ExecutorMetrics {
	actors := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "actr_executor_actors",
		Help: "Number of registered actors",
	})
	runPolls := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "actr_executor_polls_per_quiescence",
		Help:    "Polls performed before the executor reached quiescence",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	m := &executorMetrics{
		actors:   actors,
		runPolls: runPolls,

		pollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actr_executor_polls_total",
			Help: "Total number of actor polls",
		}, []string{"actor"}),

		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "actr_executor_sweep_duration_seconds",
			Help:    "Duration of one sweep over the actor table in seconds",
			Buckets: defaultBuckets,
		}),
	}

	reg.MustRegister(
		actors,
		m.pollsTotal,
		m.sweepDuration,
		runPolls,
	)

	return m
}

func (m *executorMetrics) ActorsRegistered(count int) {
	m.actors.Set(float64(count))
}

func (m *executorMetrics) ActorPolled(name string) {
	counter(m.pollsTotal, name).Inc()
}

func (m *executorMetrics) SweepDuration() metrics.Timer {
	return newTimer(m.sweepDuration)
}

func (m *executorMetrics) QuiescenceReached(polls int) {
	m.runPolls.Observe(float64(polls))
}

var _ actor.ExecutorMetrics = (*executorMetrics)(nil)
