package stroke

// Op is one recorded drawing call.
type Op struct {
	Name string
	Args []float64
	Text string
}

// Recorder is a headless Surface that records every call. Visible returns
// the calls still on screen, that is everything since the last Clear or
// Resize.
type Recorder struct {
	ops     []Op
	visible int

	width, height float64
	rectW, rectH  float64
}

// NewRecorder returns a recorder laid out at rectW by rectH CSS pixels.
func NewRecorder(rectW, rectH float64) *Recorder {
	return &Recorder{width: rectW, height: rectH, rectW: rectW, rectH: rectH}
}

func (r *Recorder) record(name string, args ...float64) {
	r.ops = append(r.ops, Op{Name: name, Args: args})
}

func (r *Recorder) recordText(name, text string) {
	r.ops = append(r.ops, Op{Name: name, Text: text})
}

// Drawing calls are recorded as one Op each.
func (r *Recorder) BeginPath()          { r.record("beginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.record("moveTo", x, y) }
func (r *Recorder) Stroke()             { r.record("stroke") }
func (r *Recorder) ClosePath()          { r.record("closePath") }
func (r *Recorder) Fill()               { r.record("fill") }

func (r *Recorder) QuadraticCurveTo(cpx, cpy, x, y float64) {
	r.record("quadraticCurveTo", cpx, cpy, x, y)
}

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.record("arc", x, y, radius, startAngle, endAngle)
}

// Style calls are recorded with their value in Op.Text.
func (r *Recorder) SetStrokeStyle(color string) { r.recordText("strokeStyle", color) }
func (r *Recorder) SetLineWidth(width float64)  { r.record("lineWidth", width) }
func (r *Recorder) SetLineCap(cap string)       { r.recordText("lineCap", cap) }
func (r *Recorder) SetLineJoin(join string)     { r.recordText("lineJoin", join) }

func (r *Recorder) SetCompositeOperation(op Composite) {
	r.recordText("globalCompositeOperation", string(op))
}

// Size returns the backing store size.
func (r *Recorder) Size() (float64, float64) {
	return r.width, r.height
}

// BoundingRect returns the on-screen size.
func (r *Recorder) BoundingRect() (float64, float64) {
	return r.rectW, r.rectH
}

// SetBoundingRect simulates the element being laid out at a new size.
func (r *Recorder) SetBoundingRect(w, h float64) {
	r.rectW, r.rectH = w, h
}

// Resize changes the backing store size, wiping it.
func (r *Recorder) Resize(width, height float64) {
	r.width, r.height = width, height
	r.record("resize", width, height)
	r.visible = len(r.ops)
}

// Scale records the rendering transform.
func (r *Recorder) Scale(sx, sy float64) { r.record("scale", sx, sy) }

// Clear wipes the surface.
func (r *Recorder) Clear() {
	r.record("clear")
	r.visible = len(r.ops)
}

// Ops returns every call recorded so far.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Visible returns the calls recorded since the surface was last wiped.
func (r *Recorder) Visible() []Op {
	return r.ops[r.visible:]
}

// Count returns how many visible calls are named name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Visible() {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the visible calls named name.
func (r *Recorder) Filter(name string) []Op {
	var out []Op
	for _, op := range r.Visible() {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.ops = nil
	r.visible = 0
}
