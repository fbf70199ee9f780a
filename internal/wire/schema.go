package wire

// Type tags every frame exchanged between a board and the relay.
type Type string

// Message types for WebSocket communication
const (
	TypeJoinRoom      Type = "join-room"
	TypeRoomJoined    Type = "room-joined"
	TypeBeginDrawing  Type = "begin-drawing"
	TypeDraw          Type = "draw"
	TypeFinishDrawing Type = "finish-drawing"
	TypeClientPointer Type = "clientPointer"
	TypePeerLeft      Type = "peer-left"
)

// EventType discriminates the payload of begin-drawing and draw frames.
type EventType string

const (
	EventDraw          EventType = "draw"
	EventErase         EventType = "erase"
	EventClientPointer EventType = "clientPointer"
)

// Message is implemented by every concrete frame payload.
type Message interface {
	Kind() Type
	RoomID() string
}

// Point is a position in canvas pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// JoinRoom asks the relay to move the connection into Room.
type JoinRoom struct {
	Room string `json:"room"`
}

// RoomJoined is emitted by the relay to every member of a room after a join.
type RoomJoined struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

// BeginDrawing opens a pen stroke or an eraser gesture.
type BeginDrawing struct {
	Room         string    `json:"room"`
	ClientX      float64   `json:"clientX"`
	ClientY      float64   `json:"clientY"`
	EventType    EventType `json:"eventType"`
	EraserRadius float64   `json:"eraserRadius,omitempty"`
}

// Draw continues a gesture. Pen samples travel in OffsetX/OffsetY, eraser
// samples in ClientX/ClientY.
type Draw struct {
	Room         string    `json:"room"`
	OffsetX      float64   `json:"offsetX,omitempty"`
	OffsetY      float64   `json:"offsetY,omitempty"`
	ClientX      float64   `json:"clientX,omitempty"`
	ClientY      float64   `json:"clientY,omitempty"`
	LastPoint    *Point    `json:"lastPoint,omitempty"`
	Color        string    `json:"color,omitempty"`
	StrokeSize   float64   `json:"strokeSize,omitempty"`
	EraserRadius float64   `json:"eraserRadius,omitempty"`
	EventType    EventType `json:"eventType"`
}

// FinishDrawing closes the gesture opened by BeginDrawing.
type FinishDrawing struct {
	Room      string `json:"room"`
	LastPoint *Point `json:"lastPoint,omitempty"`
}

// ClientPointer is the presence event used to render peer cursors.
type ClientPointer struct {
	Room     string  `json:"room"`
	ClientX  float64 `json:"clientX"`
	ClientY  float64 `json:"clientY"`
	Username string  `json:"username"`
}

// PeerLeft is emitted by the relay when a member leaves or disconnects.
type PeerLeft struct {
	Room     string `json:"room"`
	ConnID   string `json:"connId"`
	Username string `json:"username,omitempty"`
}

// Kind returns the tag a message is framed with.
func (JoinRoom) Kind() Type      { return TypeJoinRoom }
func (RoomJoined) Kind() Type    { return TypeRoomJoined }
func (BeginDrawing) Kind() Type  { return TypeBeginDrawing }
func (Draw) Kind() Type          { return TypeDraw }
func (FinishDrawing) Kind() Type { return TypeFinishDrawing }
func (ClientPointer) Kind() Type { return TypeClientPointer }
func (PeerLeft) Kind() Type      { return TypePeerLeft }

// RoomID returns the room a message is addressed to.
func (m JoinRoom) RoomID() string      { return m.Room }
func (m RoomJoined) RoomID() string    { return m.Room }
func (m BeginDrawing) RoomID() string  { return m.Room }
func (m Draw) RoomID() string          { return m.Room }
func (m FinishDrawing) RoomID() string { return m.Room }
func (m ClientPointer) RoomID() string { return m.Room }
func (m PeerLeft) RoomID() string      { return m.Room }

// Point returns the sample carried by a begin-drawing frame.
func (m BeginDrawing) Point() Point {
	return Point{X: m.ClientX, Y: m.ClientY}
}

// Point returns the sample carried by a draw frame, picking the coordinate
// pair that matches its event type.
func (m Draw) Point() Point {
	if m.EventType == EventErase {
		return Point{X: m.ClientX, Y: m.ClientY}
	}
	return Point{X: m.OffsetX, Y: m.OffsetY}
}

// Point returns the cursor position of a presence event.
func (m ClientPointer) Point() Point {
	return Point{X: m.ClientX, Y: m.ClientY}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Relayed reports whether frames of type t are forwarded peer to peer.
func Relayed(t Type) bool {
	switch t {
	case TypeBeginDrawing, TypeDraw, TypeFinishDrawing, TypeClientPointer:
		return true
	}
	return false
}
