package actor

import "errors"

var (
	ErrMailboxFull     = errors.New("too many messages")
	ErrTooManyActors   = errors.New("too many actors")
	ErrAlreadyStarted  = errors.New("actor already started")
	ErrExecutorRunning = errors.New("executor already running")
	ErrNotBinder       = errors.New("actor does not accept peer")
)
