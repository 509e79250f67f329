package device

import "irconsole"

// Event is anything the coordinator surfaces to the UI loop. Events arrive
// in the order the underlying transport delivered them.
type Event interface {
	deviceEvent()
}

// StateEvent reports a channel lifecycle transition. Live is set on a
// successful open and cleared on close; the UI also sets it on the first
// realized push event.
type StateEvent struct {
	State irconsole.ConnState
	Live  bool
}

func (StateEvent) deviceEvent() {}

// SignalEvent carries a freshly observed IR signal pushed by the device.
type SignalEvent struct {
	Signal irconsole.ObservedSignal
}

func (SignalEvent) deviceEvent() {}

// AckEvent is a success acknowledgement from the persistent channel. It
// carries no correlation to a specific outstanding send.
type AckEvent struct {
	Text string
}

func (AckEvent) deviceEvent() {}

// SendResultEvent is the outcome of a one-shot fallback send. Unlike channel
// acks it is self-correlated: Index names the catalog entry whose control
// issued the send.
type SendResultEvent struct {
	Index int
	Name  string
	OK    bool
}

func (SendResultEvent) deviceEvent() {}
