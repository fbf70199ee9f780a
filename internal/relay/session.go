package relay

import (
	"time"

	"github.com/gorilla/websocket"
)

// Session is the transport under a relay connection.
type Session interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
	RemoteAddr() string
}

type websocketSession struct {
	socket       *websocket.Conn
	pingInterval time.Duration
}

const writeWait = 10 * time.Second

// NewWebsocketSession wraps an upgraded connection. The read deadline is
// pushed forward every time a pong arrives, so a peer that stops answering
// pings is dropped after two intervals.
func NewWebsocketSession(conn *websocket.Conn, pingInterval time.Duration, maxMessageBytes int64) Session {
	if maxMessageBytes > 0 {
		conn.SetReadLimit(maxMessageBytes)
	}
	conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	})
	return &websocketSession{socket: conn, pingInterval: pingInterval}
}

// Read returns the next text frame, skipping binary ones.
func (ws *websocketSession) Read() ([]byte, error) {
	for {
		kind, p, err := ws.socket.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage {
			return p, nil
		}
	}
}

func (ws *websocketSession) Write(data []byte) error {
	ws.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.socket.WriteMessage(websocket.TextMessage, data)
}

func (ws *websocketSession) Ping() error {
	ws.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.socket.WriteMessage(websocket.PingMessage, nil)
}

func (ws *websocketSession) Close(reason string) {
	ws.socket.SetWriteDeadline(time.Now().Add(writeWait))
	ws.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	ws.socket.Close()
}

func (ws *websocketSession) RemoteAddr() string {
	return ws.socket.RemoteAddr().String()
}
