package stroke

import (
	"math"

	"whiteboard/internal/wire"
)

const (
	// DeviceScale is the fixed ratio between backing store and CSS pixels.
	DeviceScale = 2

	DefaultColor = "black"
	DefaultWidth = 3

	// StampStep is the angular step, in degrees, between eraser dots.
	StampStep = 5
)

// StampDots is the number of circles one eraser stamp draws.
const StampDots = 360/StampStep + 1

// Canvas wraps a Surface shared by several codecs. It remembers which codec
// last drew a path so an interleaved codec can restore its own path and
// style before continuing.
type Canvas struct {
	surface Surface
	owner   *Codec
}

// NewCanvas wraps s. Call Setup before drawing.
func NewCanvas(s Surface) *Canvas {
	return &Canvas{surface: s}
}

// Setup sizes the backing store to DeviceScale times the on-screen size and
// applies the default pen.
func (c *Canvas) Setup() {
	w, h := c.surface.BoundingRect()
	c.reset(w, h)
}

func (c *Canvas) reset(w, h float64) {
	c.surface.Resize(w*DeviceScale, h*DeviceScale)
	c.surface.Scale(DeviceScale, DeviceScale)
	c.surface.SetLineCap("round")
	c.surface.SetLineJoin("round")
	c.surface.SetStrokeStyle(DefaultColor)
	c.surface.SetLineWidth(DefaultWidth)
	c.owner = nil
}

// Clear wipes the surface.
func (c *Canvas) Clear() {
	c.surface.Clear()
	c.owner = nil
}

// Grow resizes the backing store when p falls outside it. Pixels drawn
// before the resize are not kept.
func (c *Canvas) Grow(p wire.Point) bool {
	w, h := c.surface.Size()
	if p.X <= w && p.Y <= h {
		return false
	}
	rw, rh := c.surface.BoundingRect()
	c.reset(rw, rh)
	return true
}

// Stamp erases a soft disc around p: StampDots filled circles of the given
// radius, centred on the ring of that radius around p, composited with
// destination-out.
func (c *Canvas) Stamp(p wire.Point, radius float64) {
	s := c.surface
	s.SetCompositeOperation(DestinationOut)
	for deg := 0; deg <= 360; deg += StampStep {
		theta := float64(deg) * math.Pi / 180
		s.BeginPath()
		s.Arc(p.X+radius*math.Cos(theta), p.Y+radius*math.Sin(theta), radius, 0, 2*math.Pi)
		s.Fill()
	}
	s.SetCompositeOperation(SourceOver)
	c.owner = nil
}

// NewCodec returns a codec drawing on c with the default pen.
func (c *Canvas) NewCodec() *Codec {
	return &Codec{canvas: c, color: DefaultColor, width: DefaultWidth}
}
