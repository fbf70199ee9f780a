package relay

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"whiteboard/internal/wire"
)

// ErrClosed is returned by Hub methods once Run has returned.
var ErrClosed = errors.New("relay closed")

type envelope struct {
	from *Conn
	msg  wire.Message
	raw  []byte
}

// Hub relays frames between the connections of a room. All membership state
// lives on the goroutine running Run; connections talk to it over channels.
type Hub struct {
	registry *Registry
	conns    map[*Conn]struct{}

	register   chan *Conn
	unregister chan *Conn
	inbox      chan envelope
	statsReq   chan chan map[string]int
	done       chan struct{}

	events       EventSink
	sendBuffer   int
	rateLimit    rate.Limit
	rateBurst    int
	pingInterval time.Duration
}

// Option configures a Hub.
type Option func(h *Hub)

// WithEventSink publishes room and connection lifecycle events to sink.
func WithEventSink(sink EventSink) Option {
	return func(h *Hub) {
		h.events = sink
	}
}

// WithSendBuffer sets the per-connection outbound queue length. Frames for a
// connection whose queue is full are dropped.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		h.sendBuffer = n
	}
}

// WithRateLimit caps inbound frames per connection.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(h *Hub) {
		h.rateLimit = rate.Limit(perSecond)
		h.rateBurst = burst
	}
}

// WithPingInterval sets how often connections are pinged. A connection that
// misses two intervals worth of pongs is dropped.
func WithPingInterval(d time.Duration) Option {
	return func(h *Hub) {
		h.pingInterval = d
	}
}

// NewHub returns a hub with the given options. Nothing is relayed until Run
// is called.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		registry:     NewRegistry(),
		conns:        make(map[*Conn]struct{}),
		register:     make(chan *Conn),
		unregister:   make(chan *Conn),
		inbox:        make(chan envelope, 1024),
		statsReq:     make(chan chan map[string]int),
		done:         make(chan struct{}),
		events:       discard{},
		sendBuffer:   256,
		rateLimit:    rate.Inf,
		rateBurst:    1,
		pingInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes membership changes and frames until ctx is cancelled, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.conns[c] = struct{}{}
			c.log.WithField("remote", c.session.RemoteAddr()).Info("connection opened")
			h.events.Publish(&ConnectionCreateEvent{ConnID: c.id, RemoteAddr: c.session.RemoteAddr()})

		case c := <-h.unregister:
			h.closeConn(c)

		case env := <-h.inbox:
			h.handleMessage(env)

		case resp := <-h.statsReq:
			resp <- h.registry.Counts()
		}
	}
}

// Serve registers session with the hub and pumps it until it closes.
func (h *Hub) Serve(session Session) {
	c := newConn(h, session)
	select {
	case h.register <- c:
	case <-h.done:
		session.Close("relay shutting down")
		return
	}

	go c.writePump(h.pingInterval)
	c.readPump()
}

// Rooms returns the member count of every live room.
func (h *Hub) Rooms(ctx context.Context) (map[string]int, error) {
	resp := make(chan map[string]int, 1)
	select {
	case h.statsReq <- resp:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrClosed
	}

	select {
	case counts := <-resp:
		return counts, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) enqueue(env envelope) bool {
	select {
	case h.inbox <- env:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterConn(c *Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) handleMessage(env envelope) {
	c := env.from
	// Frames can still be queued behind an unregister.
	if c.closed {
		return
	}

	m := env.msg
	if join, ok := m.(wire.JoinRoom); ok {
		h.join(c, join.Room)
		return
	}

	log := c.log.WithFields(logrus.Fields{"type": m.Kind(), "room": m.RoomID()})
	switch {
	case !wire.Relayed(m.Kind()):
		log.Debug("dropping server-originated frame")
		return
	case m.RoomID() != c.room:
		log.Debug("dropping frame for a room the sender has not joined")
		return
	}

	if p, ok := m.(wire.ClientPointer); ok {
		c.username = p.Username
	}
	h.forward(c, c.room, env.raw)
}

func (h *Hub) join(c *Conn, room string) {
	left, emptied, created := h.registry.Join(c, room)
	if left != "" {
		h.announceLeave(c, left, emptied)
	}
	if created {
		h.events.Publish(&RoomCreateEvent{RoomID: room})
	}
	c.log.WithField("room", room).Info("joined room")

	frame, err := wire.Encode(wire.RoomJoined{Room: room, Message: "User joined room: " + room})
	if err != nil {
		c.log.WithError(err).Error("encode room-joined")
		return
	}
	for _, member := range h.registry.Members(room, nil) {
		h.deliver(member, frame)
	}
}

func (h *Hub) forward(from *Conn, room string, frame []byte) {
	for _, member := range h.registry.Members(room, from) {
		h.deliver(member, frame)
	}
}

// announceLeave tells the remaining members of room that c is gone.
func (h *Hub) announceLeave(c *Conn, room string, emptied bool) {
	log := c.log.WithField("room", room)
	if emptied {
		log.Info("room empty, deleted")
		h.events.Publish(&RoomEmptyEvent{RoomID: room})
		return
	}

	frame, err := wire.Encode(wire.PeerLeft{Room: room, ConnID: c.id, Username: c.username})
	if err != nil {
		log.WithError(err).Error("encode peer-left")
		return
	}
	for _, member := range h.registry.Members(room, nil) {
		h.deliver(member, frame)
	}
}

func (h *Hub) deliver(c *Conn, frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.log.Warn("send queue full, dropping frame")
	}
}

func (h *Hub) closeConn(c *Conn) {
	if c.closed {
		return
	}
	c.closed = true

	room, emptied := h.registry.Leave(c)
	if room != "" {
		h.announceLeave(c, room, emptied)
	}
	delete(h.conns, c)
	close(c.send)

	c.log.Info("connection closed")
	h.events.Publish(&ConnectionCloseEvent{ConnID: c.id, RoomID: room})
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.conns {
		h.closeConn(c)
	}
	logrus.Info("relay stopped")
}
