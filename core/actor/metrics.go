package actor

import "github.com/codewandler/actr-go/core/metrics"

// ActorMetrics is what an ActorContext reports. All methods are safe to call
// from interrupt context.
type ActorMetrics interface {
	// Message handling
	MessageDuration(kind string) metrics.Timer
	MessageProcessed(actor, kind string)
	MessageDeferred(actor, kind string)

	// Mailbox
	MailboxDepth(actor string, depth int)
}

// ExecutorMetrics is what the Executor reports.
type ExecutorMetrics interface {
	ActorsRegistered(count int)
	ActorPolled(actor string)
	SweepDuration() metrics.Timer
	QuiescenceReached(polls int)
}

type nopActorMetrics struct{}

func (nopActorMetrics) MessageDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopActorMetrics) MessageProcessed(string, string)      {}
func (nopActorMetrics) MessageDeferred(string, string)       {}
func (nopActorMetrics) MailboxDepth(string, int)             {}

// NopActorMetrics returns a no-op ActorMetrics implementation.
func NopActorMetrics() ActorMetrics { return nopActorMetrics{} }

type nopExecutorMetrics struct{}

func (nopExecutorMetrics) ActorsRegistered(int)         {}
func (nopExecutorMetrics) ActorPolled(string)           {}
func (nopExecutorMetrics) SweepDuration() metrics.Timer { return metrics.NopTimer() }
func (nopExecutorMetrics) QuiescenceReached(int)        {}

// NopExecutorMetrics returns a no-op ExecutorMetrics implementation.
func NopExecutorMetrics() ExecutorMetrics { return nopExecutorMetrics{} }
