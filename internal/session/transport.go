package session

import "context"

// EventKind discriminates transport notifications.
type EventKind int

const (
	EventOpened EventKind = iota
	EventFrame
	EventClosed
	EventError
)

// Event is one asynchronous transport notification. Payload is set for
// EventFrame, Code/Reason for EventClosed, Err for EventError.
type Event struct {
	Kind    EventKind
	Payload []byte
	Code    int
	Reason  string
	Err     error
}

// Transport is the connection to the SmartLink module as the session sees
// it. Events must be delivered on a single channel in arrival order; the
// channel is closed when the transport is done. The active session is the
// transport's exclusive owner.
type Transport interface {
	Connect(ctx context.Context) error
	Events() <-chan Event
	Close() error
}
