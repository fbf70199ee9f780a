package stroke

// Composite is a canvas compositing mode.
type Composite string

const (
	SourceOver     Composite = "source-over"
	DestinationOut Composite = "destination-out"
)

// Surface is the 2D drawing context a board renders into. Its methods
// mirror the browser canvas API so a UI shell can bind it directly.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	Stroke()
	ClosePath()
	Arc(x, y, radius, startAngle, endAngle float64)
	Fill()

	SetStrokeStyle(color string)
	SetLineWidth(width float64)
	SetLineCap(cap string)
	SetLineJoin(join string)
	SetCompositeOperation(op Composite)

	// Size is the backing store size in device pixels.
	Size() (width, height float64)
	// BoundingRect is the on-screen size in CSS pixels.
	BoundingRect() (width, height float64)
	// Resize replaces the backing store. Pixels and the transform are lost.
	Resize(width, height float64)
	Scale(sx, sy float64)
	Clear()
}
