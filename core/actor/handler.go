package actor

import "github.com/codewandler/actr-go/core/signal"

type (
	// Actor is the capability set every actor implements.
	Actor[M any, R any] interface {
		// OnNotify handles a fire-and-forget message.
		OnNotify(msg M) Completion
		// OnRequest handles a message whose answer is sent to the requester.
		OnRequest(msg M) Response[R]
	}

	// Starter is implemented by actors that want their own Address, e.g. for
	// self-messaging. OnStart is called once, during registration.
	Starter[M any, R any] interface {
		OnStart(addr Address[M, R])
	}

	// LifecycleHandler is implemented by actors that react to Initialize and
	// Start. It reports true when the event is fully handled; false keeps the
	// event current and it is polled again after w is woken.
	LifecycleHandler interface {
		OnLifecycle(event Lifecycle, w signal.Waker) bool
	}

	// Binder is implemented by actors that accept a peer delivered by [Bind].
	Binder[P any] interface {
		OnBind(peer P)
	}

	// Continuation is the remainder of a deferred notification. It reports
	// true once done; until then it must have registered w somewhere that
	// will wake it.
	Continuation func(w signal.Waker) bool

	// ResponseContinuation is the remainder of a deferred request.
	ResponseContinuation[R any] func(w signal.Waker) (R, bool)
)

// Completion is the outcome of OnNotify: done now, or a continuation.
type Completion struct {
	cont Continuation
}

// Immediate reports that the notification is fully handled.
func Immediate() Completion { return Completion{} }

// Defer continues the notification over later polls. c is called in the same
// poll first.
func Defer(c Continuation) Completion { return Completion{cont: c} }

// Response is the outcome of OnRequest: a value now, or a continuation that
// produces one.
type Response[R any] struct {
	value R
	cont  ResponseContinuation[R]
}

// Respond answers the request immediately.
func Respond[R any](v R) Response[R] { return Response[R]{value: v} }

// DeferResponse answers the request once c produces a value.
func DeferResponse[R any](c ResponseContinuation[R]) Response[R] {
	return Response[R]{cont: c}
}

// Forward answers the request with whatever arrives on rx, typically the
// response of a request to another actor.
func Forward[R any](rx signal.Receiver[R]) Response[R] {
	return DeferResponse(rx.Poll)
}

// Then defers a notification until rx delivers, then runs f with the value.
func Then[T any](rx signal.Receiver[T], f func(T)) Completion {
	return Defer(func(w signal.Waker) bool {
		v, ok := rx.Poll(w)
		if ok {
			f(v)
		}
		return ok
	})
}
