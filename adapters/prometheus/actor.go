package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/metrics"
)

// actorMetrics implements actor.ActorMetrics using Prometheus.
type actorMetrics struct {
	messageDuration *prometheus.HistogramVec
	messagesTotal   *prometheus.CounterVec
	deferredTotal   *prometheus.CounterVec
	mailboxDepth    *prometheus.GaugeVec
}

// NewActorMetrics creates a new Prometheus implementation of ActorMetrics.
func NewActorMetrics(reg prometheus.Registerer) actor.ActorMetrics {
	m := &actorMetrics{
		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actr_actor_step_duration_seconds",
			Help:    "Time spent in one handler step in seconds",
			Buckets: defaultBuckets,
		}, []string{"kind"}),

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actr_actor_messages_total",
			Help: "Total number of messages fully handled",
		}, []string{"actor", "kind"}),

		deferredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actr_actor_deferred_total",
			Help: "Total number of messages whose handling was deferred",
		}, []string{"actor", "kind"}),

		mailboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actr_actor_mailbox_depth",
			Help: "Mailbox depth after the last enqueue or dequeue",
		}, []string{"actor"}),
	}

	reg.MustRegister(
		m.messageDuration,
		m.messagesTotal,
		m.deferredTotal,
		m.mailboxDepth,
	)

	return m
}

func (m *actorMetrics) MessageDuration(kind string) metrics.Timer {
	return newTimer(m.messageDuration.WithLabelValues(kind))
}

func (m *actorMetrics) MessageProcessed(name, kind string) {
	counter(m.messagesTotal, name, kind).Inc()
}

func (m *actorMetrics) MessageDeferred(name, kind string) {
	counter(m.deferredTotal, name, kind).Inc()
}

func (m *actorMetrics) MailboxDepth(name string, depth int) {
	gauge(m.mailboxDepth, name).Set(float64(depth))
}

var _ actor.ActorMetrics = (*actorMetrics)(nil)
