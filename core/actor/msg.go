package actor

import "github.com/codewandler/actr-go/core/signal"

type msgKind uint8

const (
	kindNone msgKind = iota
	kindLifecycle
	kindNotify
	kindRequest
	kindBind
)

func (k msgKind) String() string {
	switch k {
	case kindLifecycle:
		return "lifecycle"
	case kindNotify:
		return "notify"
	case kindRequest:
		return "request"
	case kindBind:
		return "bind"
	default:
		return "none"
	}
}

// message is the closed set of operations an actor can be asked to perform.
// It is stored by value in the mailbox; the continuation fields are filled
// once the handler defers.
type message[M any, R any] struct {
	kind  msgKind
	event Lifecycle
	body  M
	reply *signal.Signal[R]
	bind  func(Actor[M, R])

	deferred    bool
	notifyCont  Continuation
	respondCont ResponseContinuation[R]
}
