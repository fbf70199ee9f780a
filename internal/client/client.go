package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"whiteboard/internal/board"
	"whiteboard/internal/stroke"
	"whiteboard/internal/wire"
)

// ErrClosed is returned once the client has been closed.
var ErrClosed = errors.New("client closed")

const writeWait = 10 * time.Second

// Client connects one Board to the relay. Local input (through Do) and
// frames from the relay are applied under the same lock, so the board sees
// a single event loop.
type Client struct {
	conn *websocket.Conn
	log  *logrus.Entry

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu        sync.Mutex
	board     *board.Board
	observers []func(wire.Message)
}

type options struct {
	sendBuffer int
	boardOpts  []board.Option
}

// Option configures a Client.
type Option func(o *options)

// WithSendBuffer bounds the outbound queue. Frames beyond it are dropped.
func WithSendBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sendBuffer = n
		}
	}
}

// WithBoardOptions passes opts to the board created by Dial.
func WithBoardOptions(opts ...board.Option) Option {
	return func(o *options) {
		o.boardOpts = append(o.boardOpts, opts...)
	}
}

// Dial connects to the relay at url and joins room. Call Run to start
// applying remote frames.
func Dial(ctx context.Context, url, room string, user board.Identity, surface stroke.Surface, opts ...Option) (*Client, error) {
	o := options{sendBuffer: 256}
	for _, opt := range opts {
		opt(&o)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn: conn,
		log: logrus.WithFields(logrus.Fields{
			"room": room,
			"user": user.DisplayName,
		}),
		send: make(chan []byte, o.sendBuffer),
		done: make(chan struct{}),
	}
	c.board = board.New(room, user, surface, c, o.boardOpts...)

	go c.writePump()
	c.Send(wire.JoinRoom{Room: room})
	return c, nil
}

// Send queues m for the relay without blocking. It implements board.Sender.
func (c *Client) Send(m wire.Message) {
	frame, err := wire.Encode(m)
	if err != nil {
		c.log.WithError(err).Warn("dropping unencodable frame")
		return
	}

	select {
	case <-c.done:
	case c.send <- frame:
	default:
		c.log.WithField("type", m.Kind()).Debug("send queue full, dropping frame")
	}
}

// Do runs fn with exclusive access to the board.
func (c *Client) Do(fn func(b *board.Board)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.board)
}

// Observe registers fn to be called, with the board lock held, for every
// frame received from the relay after it has been applied.
func (c *Client) Observe(fn func(m wire.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Run applies frames from the relay until the connection drops, ctx is done
// or Close is called.
func (c *Client) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.Close()
	})
	defer stop()

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrClosed
			default:
			}
			c.Close()
			return fmt.Errorf("read: %w", err)
		}

		msg, err := wire.Decode(frame)
		if err != nil {
			c.log.WithError(err).Debug("dropping frame")
			continue
		}
		c.apply(msg)
	}
}

func (c *Client) apply(msg wire.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.board.Apply(msg)
	for _, fn := range c.observers {
		fn(msg)
	}
}

func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.WithError(err).Debug("write failed")
				c.Close()
				return
			}
		}
	}
}

// Close says goodbye to the relay and releases the connection. It is safe
// to call more than once.
func (c *Client) Close() error {
	err := ErrClosed
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}
