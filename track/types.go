package track

import "github.com/wippyai/anybox"

// EventType identifies a block lifecycle transition.
type EventType uint8

const (
	EventTracked EventType = iota
	EventUntracked
)

func (e EventType) String() string {
	if e == EventTracked {
		return "tracked"
	}
	return "untracked"
}

// Event describes a block lifecycle transition.
type Event struct {
	Type  EventType
	Block anybox.Block
	Live  int
}

// Observer receives block lifecycle events from a Table.
type Observer interface {
	OnBlockEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnBlockEvent(e Event) { f(e) }
