package relay

// Event describes a change in the relay's membership table.
type Event interface {
	String() string
}

// RoomCreateEvent is triggered when the first connection joins a room.
type RoomCreateEvent struct {
	RoomID string `json:"roomId"`
}

func (e *RoomCreateEvent) String() string {
	return "room:create"
}

// RoomEmptyEvent is triggered when the last connection leaves a room. The
// room is deleted at that point.
type RoomEmptyEvent struct {
	RoomID string `json:"roomId"`
}

func (e *RoomEmptyEvent) String() string {
	return "room:empty"
}

// ConnectionCreateEvent is triggered when a connection is registered.
type ConnectionCreateEvent struct {
	ConnID     string `json:"connId"`
	RemoteAddr string `json:"remoteAddr,omitempty"`
}

func (e *ConnectionCreateEvent) String() string {
	return "connection:create"
}

// ConnectionCloseEvent is triggered when a connection is unregistered.
type ConnectionCloseEvent struct {
	ConnID string `json:"connId"`
	RoomID string `json:"roomId,omitempty"`
}

func (e *ConnectionCloseEvent) String() string {
	return "connection:close"
}

// EventSink receives lifecycle events from the hub goroutine. Publish must
// not block.
type EventSink interface {
	Publish(e Event)
}

type discard struct{}

func (discard) Publish(Event) {}

// ChanSink forwards events to a buffered channel, dropping them when the
// channel is full.
type ChanSink chan Event

func (s ChanSink) Publish(e Event) {
	select {
	case s <- e:
	default:
	}
}
