package board

import (
	"whiteboard/internal/stroke"
	"whiteboard/internal/wire"
)

// Identity is supplied by the identity provider in front of the board.
type Identity struct {
	DisplayName string
	Email       string
	PhotoURL    string
}

// Sender hands frames to the network. Sends are fire-and-forget.
type Sender interface {
	Send(m wire.Message)
}

// Board is the local draw state machine for one participant in one room.
// It renders local input immediately, logs it for undo and sends it to the
// relay; frames from peers go through Apply. A Board is not safe for
// concurrent use.
type Board struct {
	room string
	user Identity
	out  Sender

	canvas  *stroke.Canvas
	local   *stroke.Codec
	remote  *Remote
	history *History

	tool   stroke.Tool
	active stroke.Tool

	color  string
	size   float64
	radius float64
}

// Option configures a Board.
type Option func(b *Board)

// WithColor sets the initial pen color.
func WithColor(color string) Option {
	return func(b *Board) {
		b.color = color
	}
}

// WithStrokeSize sets the initial pen width.
func WithStrokeSize(size float64) Option {
	return func(b *Board) {
		b.size = size
	}
}

// WithEraserRadius sets the initial eraser radius.
func WithEraserRadius(radius float64) Option {
	return func(b *Board) {
		b.radius = radius
	}
}

// WithTool sets the tool selected when the board opens. The pen is the
// default.
func WithTool(tool stroke.Tool) Option {
	return func(b *Board) {
		b.tool = tool
	}
}

// New sets up surface and returns a board drawing into room as user. out may
// be nil for a board that never publishes.
func New(room string, user Identity, surface stroke.Surface, out Sender, opts ...Option) *Board {
	canvas := stroke.NewCanvas(surface)
	canvas.Setup()

	b := &Board{
		room:    room,
		user:    user,
		out:     out,
		canvas:  canvas,
		local:   canvas.NewCodec(),
		remote:  NewRemote(canvas),
		history: NewHistory(),
		tool:    stroke.ToolPen,
		active:  stroke.ToolPointer,
		color:   stroke.DefaultColor,
		size:    stroke.DefaultWidth,
		radius:  10,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.local.SetStyle(b.color, b.size)
	return b
}

// Tool returns the selected tool.
func (b *Board) Tool() stroke.Tool { return b.tool }

// History returns the log of local actions.
func (b *Board) History() *History { return b.history }

// Presence returns the peers' cursor positions.
func (b *Board) Presence() *Presence { return b.remote.Presence() }

// SelectTool switches tools, finishing any gesture in progress.
func (b *Board) SelectTool(t stroke.Tool) {
	if b.active != stroke.ToolPointer {
		last, _ := b.local.LastPoint()
		b.finish(last)
	}
	b.tool = t
}

// HandleKey applies the toolbar shortcuts: Escape for the pointer, p for
// the pen, e for the eraser.
func (b *Board) HandleKey(key string) bool {
	switch key {
	case "Escape":
		b.SelectTool(stroke.ToolPointer)
	case "p":
		b.SelectTool(stroke.ToolPen)
	case "e":
		b.SelectTool(stroke.ToolEraser)
	default:
		return false
	}
	return true
}

// SetColor changes the pen color for the following samples.
func (b *Board) SetColor(color string) {
	b.color = color
	b.local.SetStyle(b.color, b.size)
}

// SetStrokeSize changes the pen width for the following samples.
func (b *Board) SetStrokeSize(size float64) {
	b.size = size
	b.local.SetStyle(b.color, b.size)
}

// SetEraserRadius changes the eraser radius for the following samples.
func (b *Board) SetEraserRadius(radius float64) {
	b.radius = radius
}

// PointerDown opens a pen stroke or an eraser gesture at p. It does
// nothing in pointer mode.
func (b *Board) PointerDown(p wire.Point) {
	if b.tool == stroke.ToolPointer {
		return
	}
	if b.active != stroke.ToolPointer {
		last, _ := b.local.LastPoint()
		b.finish(last)
	}
	b.active = b.tool

	begin := wire.BeginDrawing{Room: b.room, ClientX: p.X, ClientY: p.Y, EventType: b.tool.EventType()}
	if b.tool == stroke.ToolEraser {
		begin.EraserRadius = b.radius
		b.history.Push(Action{Kind: ActionErase, X: p.X, Y: p.Y, Radius: b.radius})
	} else {
		b.local.SetStyle(b.color, b.size)
		b.history.Push(Action{Kind: ActionDraw, LastPoint: p, Color: b.color, Size: b.size})
	}
	b.local.Begin(p, b.tool, b.radius)
	b.send(begin)
}

// PointerMove continues the active gesture, if any, and always publishes
// the cursor position.
func (b *Board) PointerMove(p wire.Point) {
	last, ok := b.local.LastPoint()

	switch {
	case !ok:
	case b.active == stroke.ToolPen:
		b.local.Move(p, stroke.ToolPen, b.radius)
		b.history.Extend(p)
		b.send(wire.Draw{
			Room:       b.room,
			OffsetX:    p.X,
			OffsetY:    p.Y,
			LastPoint:  &last,
			Color:      b.color,
			StrokeSize: b.size,
			EventType:  wire.EventDraw,
		})

	case b.active == stroke.ToolEraser:
		b.local.Move(p, stroke.ToolEraser, b.radius)
		b.history.Extend(p)
		b.send(wire.Draw{
			Room:         b.room,
			ClientX:      p.X,
			ClientY:      p.Y,
			LastPoint:    &last,
			EraserRadius: b.radius,
			EventType:    wire.EventErase,
		})
	}

	b.send(wire.ClientPointer{Room: b.room, ClientX: p.X, ClientY: p.Y, Username: b.user.DisplayName})
}

// PointerUp closes the active gesture at p.
func (b *Board) PointerUp(p wire.Point) {
	if b.active == stroke.ToolPointer {
		return
	}
	b.finish(p)
}

func (b *Board) finish(p wire.Point) {
	b.local.Finish()
	b.active = stroke.ToolPointer
	b.send(wire.FinishDrawing{Room: b.room, LastPoint: &p})
}

// Drawing reports whether a local gesture is in progress.
func (b *Board) Drawing() bool {
	return b.active != stroke.ToolPointer
}

// Apply renders a frame received from the relay. Frames for other rooms
// are ignored.
func (b *Board) Apply(m wire.Message) bool {
	if m.RoomID() != b.room {
		return false
	}
	return b.remote.Apply(m)
}

// Undo steps the local history back and redraws. It has no network effect
// and is refused while a gesture is in progress.
func (b *Board) Undo() bool {
	if b.Drawing() || !b.history.Undo() {
		return false
	}
	b.Redraw()
	return true
}

// Redo steps the local history forward and redraws.
func (b *Board) Redo() bool {
	if b.Drawing() || !b.history.Redo() {
		return false
	}
	b.Redraw()
	return true
}

// Redraw clears the canvas and replays every visible local action. Peer
// strokes are not in the history and are lost.
func (b *Board) Redraw() {
	b.canvas.Clear()
	replay := b.canvas.NewCodec()

	for _, a := range b.history.Visible() {
		switch a.Kind {
		case ActionDraw:
			replay.SetStyle(a.Color, a.Size)
			replay.BeginPen(a.LastPoint)
			for _, s := range a.Samples {
				replay.MovePen(s)
			}
			replay.Finish()

		case ActionErase:
			b.canvas.Stamp(wire.Point{X: a.X, Y: a.Y}, a.Radius)
			for _, s := range a.Samples {
				b.canvas.Stamp(s, a.Radius)
			}
		}
	}
}

func (b *Board) send(m wire.Message) {
	if b.out != nil {
		b.out.Send(m)
	}
}
