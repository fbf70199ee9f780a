package stroke

import "whiteboard/internal/wire"

// Tool is the active input mode of a board.
type Tool int

const (
	ToolPointer Tool = iota
	ToolPen
	ToolEraser
)

// String returns the toolbar name of t.
func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolEraser:
		return "eraser"
	default:
		return "pointer"
	}
}

// EventType maps a drawing tool to the event type it emits.
func (t Tool) EventType() wire.EventType {
	if t == ToolEraser {
		return wire.EventErase
	}
	return wire.EventDraw
}

// Codec turns pointer samples into canvas primitives. Each stroke source
// (the local user, the remote peers) owns one Codec; they may share a
// Canvas.
type Codec struct {
	canvas *Canvas
	color  string
	width  float64

	last   *wire.Point
	cursor wire.Point
	open   bool
}

// SetStyle sets the pen used for subsequent curves.
func (c *Codec) SetStyle(color string, width float64) {
	if color != "" {
		c.color = color
	}
	if width > 0 {
		c.width = width
	}
	if c.canvas.owner == c {
		c.canvas.surface.SetStrokeStyle(c.color)
		c.canvas.surface.SetLineWidth(c.width)
	}
}

// LastPoint returns the last sample rendered by this codec.
func (c *Codec) LastPoint() (wire.Point, bool) {
	if c.last == nil {
		return wire.Point{}, false
	}
	return *c.last, true
}

// Open reports whether a pen path is in progress.
func (c *Codec) Open() bool {
	return c.open
}

// claim makes c the current drawer, restoring its style and open path if
// another codec drew in between.
func (c *Codec) claim() {
	if c.canvas.owner == c {
		return
	}
	s := c.canvas.surface
	s.SetStrokeStyle(c.color)
	s.SetLineWidth(c.width)
	if c.open {
		s.BeginPath()
		s.MoveTo(c.cursor.X, c.cursor.Y)
	}
	c.canvas.owner = c
}

// Begin starts a gesture at p. The eraser stamps immediately; the pen opens
// a path.
func (c *Codec) Begin(p wire.Point, tool Tool, radius float64) {
	switch tool {
	case ToolPen:
		c.BeginPen(p)
	case ToolEraser:
		c.Erase(p, radius)
	}
}

// Move continues a gesture to p.
func (c *Codec) Move(p wire.Point, tool Tool, radius float64) {
	switch tool {
	case ToolPen:
		c.MovePen(p)
	case ToolEraser:
		c.Erase(p, radius)
		c.canvas.Grow(p)
	}
}

// BeginPen opens a pen path at p.
func (c *Codec) BeginPen(p wire.Point) {
	c.claim()
	s := c.canvas.surface
	s.BeginPath()
	s.MoveTo(p.X, p.Y)
	c.cursor = p
	c.last = &p
	c.open = true
}

// MovePen smooths towards p from the last sample. It is a no-op when no
// stroke is in progress.
func (c *Codec) MovePen(p wire.Point) (wire.Point, bool) {
	if c.last == nil {
		return wire.Point{}, false
	}
	return c.Continue(*c.last, p), true
}

// Continue draws the curve from the current path position with last as the
// control point, ending at the midpoint of last and p, then starts a fresh
// sub-path at that midpoint. A codec with no open path starts one at last.
func (c *Codec) Continue(last, p wire.Point) wire.Point {
	if !c.open {
		c.BeginPen(last)
	}
	c.claim()

	s := c.canvas.surface
	mid := wire.Midpoint(last, p)
	s.QuadraticCurveTo(last.X, last.Y, mid.X, mid.Y)
	s.Stroke()
	s.BeginPath()
	s.MoveTo(mid.X, mid.Y)

	c.cursor = mid
	c.last = &p
	c.canvas.Grow(p)
	return mid
}

// Erase stamps the eraser at p with the given radius and records p as the
// last sample.
func (c *Codec) Erase(p wire.Point, radius float64) {
	c.canvas.Stamp(p, radius)
	c.last = &p
}

// Finish closes the current path and forgets the last sample.
func (c *Codec) Finish() {
	if c.open {
		c.claim()
		c.canvas.surface.ClosePath()
	}
	c.open = false
	c.last = nil
}
