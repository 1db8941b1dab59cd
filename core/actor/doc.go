// Package actor provides a cooperative, allocation-minimal actor runtime for
// single-core devices without operating system threads.
//
// Every actor lives in an [ActorContext] created once at boot. The context
// owns the actor, a fixed-capacity [Mailbox] and an atomic readiness counter.
// Producers reach the actor only through an [Address], which is cheap to copy
// and confers no ownership.
//
// # Implementing Actors
//
// An actor handles one message type M and answers requests with R:
//
//	type Counter struct{ n int }
//
//	func (c *Counter) OnNotify(d int) actor.Completion {
//	    c.n += d
//	    return actor.Immediate()
//	}
//
//	func (c *Counter) OnRequest(int) actor.Response[int] {
//	    return actor.Respond(c.n)
//	}
//
// Handlers that must wait for hardware or for another actor return a deferred
// continuation ([Defer], [DeferResponse], [Forward]). The continuation is
// polled with the actor's waker and is retried on later polls until it
// reports completion. Optional capabilities are [Starter], [LifecycleHandler]
// and [Binder].
//
// # Running
//
//	exec := actor.NewExecutor(actor.ExecutorOptions{})
//	counter := actor.NewContext[int, int](&Counter{}, actor.Options{MailboxSize: 8}).Start(exec)
//
//	go exec.Run(ctx)            // Initialize, Start, then serve forever
//	counter.Notify(2)
//	n, err := counter.Call(ctx, 0)
//
// The [Executor] sweeps registered actors in registration order and polls each
// one whose readiness counter is at or above [Ready]. Sweeps repeat until a
// full sweep polls nobody (quiescence). Every enqueue and every completion
// wake adds one to the counter; every poll removes one, except that a poll
// finishing a message with more queued behind it never takes the counter to
// zero.
//
// # Interrupts
//
// Interrupt handlers run outside the executor. They may call [ActorContext.Wake],
// send on a [signal.Signal] or enqueue through an Address; mailbox pushes are
// done inside [irq.Free]. [InterruptContext] binds an actor that implements
// [irq.Handler] to a controller line and unmasks it at start.
//
// # Failure
//
// Mailbox or registry overflow panics: static sizing is configuration, not a
// runtime condition. Handler panics are not recovered.
package actor
