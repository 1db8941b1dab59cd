package actor

import "fmt"

// Bind hands peer to the actor behind addr through its mailbox; the actor
// must implement Binder[P]. Drivers use it to cross-wire a peripheral and its
// interrupt handler once both are registered.
func Bind[M any, R any, P any](addr Address[M, R], peer P) {
	if _, ok := addr.ctx.actor.(Binder[P]); !ok {
		panic(fmt.Errorf("%w: actor=%s peer=%T", ErrNotBinder, addr.ctx.name, peer))
	}
	addr.ctx.mustEnqueue(message[M, R]{
		kind: kindBind,
		bind: func(a Actor[M, R]) { a.(Binder[P]).OnBind(peer) },
	})
}
