package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/r3labs/sse"
	"github.com/sirupsen/logrus"

	"whiteboard/internal/relay"
)

// StreamRelay is the SSE stream carrying relay lifecycle events.
const StreamRelay = "relay"

// DefaultEventBuffer is how many lifecycle events may wait for the SSE
// server before new ones are dropped.
const DefaultEventBuffer = 1024

// EventStream publishes relay lifecycle events as server-sent events. It
// implements relay.EventSink: Publish only queues the event, a separate
// goroutine hands it to the SSE server, so a slow subscriber can never stall
// the hub.
type EventStream struct {
	server *sse.Server
	queue  chan relay.Event
	done   chan struct{}
	once   sync.Once
}

// NewEventStream starts an event stream with DefaultEventBuffer slots.
func NewEventStream() *EventStream {
	return newEventStream(DefaultEventBuffer)
}

func newEventStream(buffer int) *EventStream {
	s := sse.New()
	// Lifecycle events are live only; nothing is kept for late subscribers.
	s.AutoReplay = false
	s.CreateStream(StreamRelay)

	e := &EventStream{
		server: s,
		queue:  make(chan relay.Event, buffer),
		done:   make(chan struct{}),
	}
	go e.run()
	return e
}

// Publish queues ev without blocking. Events are dropped while the queue is
// full.
func (e *EventStream) Publish(ev relay.Event) {
	select {
	case <-e.done:
	case e.queue <- ev:
	default:
		logrus.WithField("event", ev.String()).Debug("event stream backed up, dropping event")
	}
}

func (e *EventStream) run() {
	for {
		select {
		case <-e.done:
			return
		case ev := <-e.queue:
			e.send(ev)
		}
	}
}

func (e *EventStream) send(ev relay.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).WithField("event", ev.String()).Error("encode lifecycle event")
		return
	}
	e.server.Publish(StreamRelay, &sse.Event{
		Event: []byte(ev.String()),
		Data:  data,
	})
}

// ServeHTTP subscribes the caller to the stream named by the stream query
// parameter.
func (e *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.server.HTTPHandler(w, r)
}

// Close stops forwarding and ends every open subscription.
func (e *EventStream) Close() {
	e.once.Do(func() {
		close(e.done)
		e.server.Close()
	})
}
