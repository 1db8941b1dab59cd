// Package prometheus provides Prometheus implementations of the actor and
// executor metrics interfaces.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actr-go/core/metrics"
)

// timer wraps a Prometheus histogram to implement the Timer interface.
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

func counter(v *prometheus.CounterVec, lvs ...string) metrics.Counter {
	return v.WithLabelValues(lvs...)
}

func gauge(v *prometheus.GaugeVec, lvs ...string) metrics.Gauge {
	return v.WithLabelValues(lvs...)
}

// Handler steps are short; buckets start in the microseconds (seconds).
var defaultBuckets = []float64{
	.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .1,
}

// AllMetrics holds the Prometheus implementations a device needs.
type AllMetrics struct {
	Actor    *actorMetrics
	Executor *executorMetrics
	Link     *LinkMetrics

	subscribers *prometheus.GaugeVec
}

// NewAllMetrics registers actor, executor, link and sink metrics on reg.
func NewAllMetrics(reg prometheus.Registerer) *AllMetrics {
	subscribers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "actr_sink_subscribers",
		Help: "Number of subscribers of a fan-out",
	}, []string{"sink"})
	reg.MustRegister(subscribers)

	return &AllMetrics{
		Actor:       NewActorMetrics(reg).(*actorMetrics),
		Executor:    NewExecutorMetrics(reg).(*executorMetrics),
		Link:        NewLinkMetrics(reg),
		subscribers: subscribers,
	}
}

// SinkSubscribers returns the subscriber gauge of the named fan-out.
func (m *AllMetrics) SinkSubscribers(name string) metrics.Gauge {
	return gauge(m.subscribers, name)
}
