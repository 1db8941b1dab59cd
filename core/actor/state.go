package actor

import "fmt"

// State is the value space of an actor's readiness counter. The counter may
// climb above Ready when several wakes overlap; each one buys one poll.
type State int32

const (
	Waiting State = iota
	Ready
)

func (s State) String() string {
	switch {
	case s <= Waiting:
		return "waiting"
	case s == Ready:
		return "ready"
	default:
		return fmt.Sprintf("ready(+%d)", int32(s-Ready))
	}
}

// Lifecycle is a framework issued event delivered before ordinary traffic.
type Lifecycle uint8

const (
	Initialize Lifecycle = iota
	Start
)

func (l Lifecycle) String() string {
	switch l {
	case Initialize:
		return "initialize"
	case Start:
		return "start"
	default:
		return fmt.Sprintf("lifecycle(%d)", uint8(l))
	}
}
