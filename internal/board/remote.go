package board

import (
	"whiteboard/internal/stroke"
	"whiteboard/internal/wire"
)

// Remote replays frames received from peers onto the canvas. It never
// records into a History and never sends anything.
type Remote struct {
	canvas   *stroke.Canvas
	codec    *stroke.Codec
	presence *Presence
}

// NewRemote returns an engine drawing peer strokes onto canvas with its own
// codec.
func NewRemote(canvas *stroke.Canvas) *Remote {
	return &Remote{
		canvas:   canvas,
		codec:    canvas.NewCodec(),
		presence: NewPresence(),
	}
}

// Presence returns the cursor map fed by clientPointer frames.
func (r *Remote) Presence() *Presence {
	return r.presence
}

// drawing reports whether a remote pen stroke is in progress.
func (r *Remote) drawing() bool {
	return r.codec.Open()
}

// Apply renders m. It reports false for frames that have no visual effect.
func (r *Remote) Apply(m wire.Message) bool {
	switch v := m.(type) {
	case wire.BeginDrawing:
		switch v.EventType {
		case wire.EventDraw:
			r.codec.BeginPen(v.Point())
		case wire.EventErase:
			r.canvas.Stamp(v.Point(), v.EraserRadius)
		default:
			return false
		}

	case wire.Draw:
		switch v.EventType {
		case wire.EventDraw:
			if v.LastPoint == nil {
				return false
			}
			r.codec.SetStyle(v.Color, v.StrokeSize)
			r.codec.Continue(*v.LastPoint, v.Point())
		case wire.EventErase:
			r.canvas.Stamp(v.Point(), v.EraserRadius)
		default:
			return false
		}

	case wire.FinishDrawing:
		r.codec.Finish()

	case wire.ClientPointer:
		r.presence.Update(v.Username, v.Point())

	case wire.PeerLeft:
		if v.Username == "" {
			return false
		}
		r.presence.Remove(v.Username)

	default:
		return false
	}
	return true
}
