package relay

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"whiteboard/internal/wire"
)

// Conn is one participant's channel to the relay. room, username and closed
// are only touched by the hub goroutine.
type Conn struct {
	id      string
	session Session
	send    chan []byte
	limiter *rate.Limiter
	hub     *Hub
	log     *logrus.Entry

	room     string
	username string
	closed   bool
}

func newConn(h *Hub, session Session) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:      id,
		session: session,
		send:    make(chan []byte, h.sendBuffer),
		limiter: rate.NewLimiter(h.rateLimit, h.rateBurst),
		hub:     h,
		log:     logrus.WithField("conn", id),
	}
}

// readPump decodes frames from the session and hands them to the hub until
// the session fails.
func (c *Conn) readPump() {
	defer c.hub.unregisterConn(c)

	for {
		data, err := c.session.Read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.WithError(err).Debug("read failed")
			}
			return
		}

		if !c.limiter.Allow() {
			c.log.Debug("rate limited, dropping frame")
			continue
		}

		msg, err := wire.Decode(data)
		if err != nil {
			c.log.WithError(err).Debug("dropping frame")
			continue
		}

		if !c.hub.enqueue(envelope{from: c, msg: msg, raw: data}) {
			return
		}
	}
}

// writePump drains the send queue into the session and keeps it alive with
// pings. The hub closes the queue when the connection is unregistered.
func (c *Conn) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.session.Close("")
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.session.Write(frame); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
		case <-ticker.C:
			if err := c.session.Ping(); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
