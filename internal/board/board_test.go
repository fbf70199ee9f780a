package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/stroke"
	"whiteboard/internal/wire"
)

const room = "ABCDE12"

type recordingSender struct {
	sent []wire.Message
}

func (s *recordingSender) Send(m wire.Message) {
	s.sent = append(s.sent, m)
}

// strokes returns the sent frames without presence.
func (s *recordingSender) strokes() []wire.Message {
	var out []wire.Message
	for _, m := range s.sent {
		if m.Kind() != wire.TypeClientPointer {
			out = append(out, m)
		}
	}
	return out
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(msg wire.Message) {
	m.Called(msg)
}

func pt(x, y float64) wire.Point {
	return wire.Point{X: x, Y: y}
}

func newBoard(opts ...Option) (*Board, *stroke.Recorder, *recordingSender) {
	rec := stroke.NewRecorder(800, 600)
	out := &recordingSender{}
	b := New(room, Identity{DisplayName: "alice"}, rec, out, opts...)
	return b, rec, out
}

func penStroke(b *Board, points ...wire.Point) {
	b.PointerDown(points[0])
	for _, p := range points[1:] {
		b.PointerMove(p)
	}
	b.PointerUp(points[len(points)-1])
}

func TestHandleKeySelectsTool(t *testing.T) {
	b, _, _ := newBoard()
	assert.Equal(t, stroke.ToolPen, b.Tool())

	assert.True(t, b.HandleKey("e"))
	assert.Equal(t, stroke.ToolEraser, b.Tool())
	assert.True(t, b.HandleKey("Escape"))
	assert.Equal(t, stroke.ToolPointer, b.Tool())
	assert.True(t, b.HandleKey("p"))
	assert.Equal(t, stroke.ToolPen, b.Tool())

	assert.False(t, b.HandleKey("x"))
	assert.Equal(t, stroke.ToolPen, b.Tool())
}

func TestPointerModeOnlyPublishesPresence(t *testing.T) {
	out := &MockSender{}
	out.On("Send", wire.ClientPointer{Room: room, ClientX: 5, ClientY: 6, Username: "alice"}).Once()
	b := New(room, Identity{DisplayName: "alice"}, stroke.NewRecorder(800, 600), out, WithTool(stroke.ToolPointer))

	b.PointerDown(pt(1, 1))
	b.PointerMove(pt(5, 6))
	b.PointerUp(pt(5, 6))

	out.AssertExpectations(t)
	assert.Zero(t, b.History().Len())
}

func TestPenGestureEmitsStrokeFrames(t *testing.T) {
	b, rec, out := newBoard(WithColor("#ff0000"), WithStrokeSize(5))

	penStroke(b, pt(10, 10), pt(20, 20), pt(30, 20))

	assert.Equal(t, []wire.Message{
		wire.BeginDrawing{Room: room, ClientX: 10, ClientY: 10, EventType: wire.EventDraw},
		wire.Draw{Room: room, OffsetX: 20, OffsetY: 20, LastPoint: &wire.Point{X: 10, Y: 10}, Color: "#ff0000", StrokeSize: 5, EventType: wire.EventDraw},
		wire.ClientPointer{Room: room, ClientX: 20, ClientY: 20, Username: "alice"},
		wire.Draw{Room: room, OffsetX: 30, OffsetY: 20, LastPoint: &wire.Point{X: 20, Y: 20}, Color: "#ff0000", StrokeSize: 5, EventType: wire.EventDraw},
		wire.ClientPointer{Room: room, ClientX: 30, ClientY: 20, Username: "alice"},
		wire.FinishDrawing{Room: room, LastPoint: &wire.Point{X: 30, Y: 20}},
	}, out.sent)

	assert.Equal(t, 2, rec.Count("quadraticCurveTo"))
	assert.False(t, b.Drawing())

	require.Equal(t, 1, b.History().Len())
	a := b.History().Actions()[0]
	assert.Equal(t, ActionDraw, a.Kind)
	assert.Equal(t, pt(10, 10), a.LastPoint)
	assert.Equal(t, []wire.Point{pt(20, 20), pt(30, 20)}, a.Samples)
}

func TestStyleIsAttachedPerFrame(t *testing.T) {
	b, _, out := newBoard()

	b.PointerDown(pt(0, 0))
	b.PointerMove(pt(1, 1))
	b.SetColor("#00ff00")
	b.SetStrokeSize(9)
	b.PointerMove(pt(2, 2))
	b.PointerUp(pt(2, 2))

	strokes := out.strokes()
	first := strokes[1].(wire.Draw)
	second := strokes[2].(wire.Draw)
	assert.Equal(t, "black", first.Color)
	assert.Equal(t, 3.0, first.StrokeSize)
	assert.Equal(t, "#00ff00", second.Color)
	assert.Equal(t, 9.0, second.StrokeSize)
}

func TestEraserGesture(t *testing.T) {
	b, rec, out := newBoard(WithTool(stroke.ToolEraser), WithEraserRadius(6))

	b.PointerDown(pt(40, 40))
	b.PointerMove(pt(45, 40))
	b.PointerUp(pt(45, 40))

	assert.Equal(t, []wire.Message{
		wire.BeginDrawing{Room: room, ClientX: 40, ClientY: 40, EventType: wire.EventErase, EraserRadius: 6},
		wire.Draw{Room: room, ClientX: 45, ClientY: 40, LastPoint: &wire.Point{X: 40, Y: 40}, EraserRadius: 6, EventType: wire.EventErase},
		wire.FinishDrawing{Room: room, LastPoint: &wire.Point{X: 45, Y: 40}},
	}, out.strokes())
	assert.Equal(t, 2*stroke.StampDots, rec.Count("arc"))

	a := b.History().Actions()[0]
	assert.Equal(t, ActionErase, a.Kind)
	assert.Equal(t, 40.0, a.X)
	assert.Equal(t, 6.0, a.Radius)
}

func TestSwitchingToolFinishesGesture(t *testing.T) {
	b, _, out := newBoard()
	b.PointerDown(pt(0, 0))
	b.PointerMove(pt(4, 4))

	b.HandleKey("e")

	assert.False(t, b.Drawing())
	last := out.sent[len(out.sent)-1]
	assert.Equal(t, wire.FinishDrawing{Room: room, LastPoint: &wire.Point{X: 4, Y: 4}}, last)
}

// Replaying a local gesture's frames on a peer yields the same curves.
func TestRemoteReplayMatchesLocalRendering(t *testing.T) {
	local, localRec, out := newBoard(WithColor("#336699"), WithStrokeSize(4))
	penStroke(local, pt(10, 10), pt(20, 20), pt(30, 25), pt(40, 40), pt(42, 60))

	peerRec := stroke.NewRecorder(800, 600)
	peer := New(room, Identity{DisplayName: "bob"}, peerRec, nil)
	for _, m := range out.sent {
		peer.Apply(m)
	}

	assert.Equal(t, localRec.Filter("quadraticCurveTo"), peerRec.Filter("quadraticCurveTo"))
	assert.Equal(t, localRec.Count("stroke"), peerRec.Count("stroke"))
	assert.Contains(t, peerRec.Filter("strokeStyle"), stroke.Op{Name: "strokeStyle", Text: "#336699"})
	assert.False(t, peer.remote.drawing())
}

func TestUndoRedrawsVisiblePrefix(t *testing.T) {
	b, rec, out := newBoard()
	penStroke(b, pt(0, 0), pt(10, 0))
	penStroke(b, pt(0, 50), pt(10, 50))
	penStroke(b, pt(0, 100), pt(10, 100))
	require.Equal(t, 2, b.History().Index())
	sent := len(out.sent)

	assert.True(t, b.Undo())
	assert.True(t, b.Undo())

	assert.Equal(t, 0, b.History().Index())
	assert.Equal(t, []stroke.Op{
		{Name: "quadraticCurveTo", Args: []float64{0, 0, 5, 0}},
	}, rec.Filter("quadraticCurveTo"))
	assert.Len(t, out.sent, sent, "undo must not touch the network")

	penStroke(b, pt(0, 200), pt(10, 200))

	actions := b.History().Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, pt(0, 0), actions[0].LastPoint)
	assert.Equal(t, pt(0, 200), actions[1].LastPoint)
	assert.False(t, b.Redo())
}

func TestRedoRestoresStroke(t *testing.T) {
	b, rec, _ := newBoard()
	penStroke(b, pt(0, 0), pt(10, 0))
	penStroke(b, pt(0, 50), pt(10, 50))

	require.True(t, b.Undo())
	require.True(t, b.Redo())

	assert.Equal(t, []stroke.Op{
		{Name: "quadraticCurveTo", Args: []float64{0, 0, 5, 0}},
		{Name: "quadraticCurveTo", Args: []float64{0, 50, 5, 50}},
	}, rec.Filter("quadraticCurveTo"))
}

func TestUndoReplaysErasures(t *testing.T) {
	b, rec, _ := newBoard(WithEraserRadius(3))
	penStroke(b, pt(0, 0), pt(10, 0))
	b.SelectTool(stroke.ToolEraser)
	penStroke(b, pt(5, 0), pt(6, 0))
	b.SelectTool(stroke.ToolPen)
	penStroke(b, pt(0, 9), pt(1, 9))

	require.True(t, b.Undo())

	assert.Equal(t, 2*stroke.StampDots, rec.Count("arc"))
	assert.Equal(t, 1, rec.Count("quadraticCurveTo"))
}

func TestUndoRefusedMidGesture(t *testing.T) {
	b, _, _ := newBoard()
	penStroke(b, pt(0, 0), pt(1, 1))
	b.PointerDown(pt(5, 5))

	assert.False(t, b.Undo())
	assert.Equal(t, 1, b.History().Index())
}

func TestRemoteStrokesStayOutOfHistory(t *testing.T) {
	b, rec, out := newBoard()
	penStroke(b, pt(0, 0), pt(10, 0))
	penStroke(b, pt(0, 20), pt(10, 20))

	b.Apply(wire.BeginDrawing{Room: room, ClientX: 100, ClientY: 100, EventType: wire.EventDraw})
	b.Apply(wire.Draw{Room: room, OffsetX: 120, OffsetY: 100, LastPoint: &wire.Point{X: 100, Y: 100}, EventType: wire.EventDraw})
	b.Apply(wire.FinishDrawing{Room: room, LastPoint: &wire.Point{X: 120, Y: 100}})
	sent := len(out.sent)

	assert.Equal(t, 2, b.History().Len())

	// Undo only ever replays local actions, so the peer's stroke is gone too.
	require.True(t, b.Undo())
	assert.Equal(t, []stroke.Op{
		{Name: "quadraticCurveTo", Args: []float64{0, 0, 5, 0}},
	}, rec.Filter("quadraticCurveTo"))
	assert.Len(t, out.sent, sent)
}

func TestRemoteEraseUsesSenderRadius(t *testing.T) {
	b, rec, _ := newBoard(WithEraserRadius(10))

	b.Apply(wire.BeginDrawing{Room: room, ClientX: 5, ClientY: 5, EventType: wire.EventErase, EraserRadius: 2})
	b.Apply(wire.Draw{Room: room, ClientX: 8, ClientY: 5, EraserRadius: 4, EventType: wire.EventErase})

	arcs := rec.Filter("arc")
	require.Len(t, arcs, 2*stroke.StampDots)
	assert.Equal(t, 2.0, arcs[0].Args[2])
	assert.Equal(t, 4.0, arcs[stroke.StampDots].Args[2])
}

func TestPresenceMap(t *testing.T) {
	b, _, _ := newBoard()

	b.Apply(wire.ClientPointer{Room: room, ClientX: 1, ClientY: 1, Username: "alice"})
	b.Apply(wire.ClientPointer{Room: room, ClientX: 2, ClientY: 2, Username: "bob"})
	b.Apply(wire.ClientPointer{Room: room, ClientX: 9, ClientY: 9, Username: "alice"})

	p := b.Presence()
	assert.Equal(t, []string{"alice", "bob"}, p.Names())
	at, _ := p.Get("alice")
	assert.Equal(t, pt(9, 9), at)
	at, _ = p.Get("bob")
	assert.Equal(t, pt(2, 2), at)

	assert.True(t, b.Apply(wire.PeerLeft{Room: room, ConnID: "c1", Username: "bob"}))
	assert.Equal(t, []string{"alice"}, p.Names())
	assert.False(t, b.Apply(wire.PeerLeft{Room: room, ConnID: "c2"}))
}

func TestApplyIgnoresOtherRooms(t *testing.T) {
	b, rec, _ := newBoard()
	rec.Reset()

	assert.False(t, b.Apply(wire.BeginDrawing{Room: "ZZZZZZZ", ClientX: 1, ClientY: 1, EventType: wire.EventDraw}))
	assert.False(t, b.Apply(wire.ClientPointer{Room: "ZZZZZZZ", Username: "mallory"}))

	assert.Empty(t, rec.Ops())
	assert.Zero(t, b.Presence().Len())
}

func TestRemoteContinuationWithoutBegin(t *testing.T) {
	b, rec, _ := newBoard()
	rec.Reset()

	// Joined mid-stroke: the path opens at the frame's lastPoint.
	b.Apply(wire.Draw{Room: room, OffsetX: 20, OffsetY: 0, LastPoint: &wire.Point{X: 10, Y: 0}, EventType: wire.EventDraw})

	assert.Equal(t, []stroke.Op{
		{Name: "quadraticCurveTo", Args: []float64{10, 0, 15, 0}},
	}, rec.Filter("quadraticCurveTo"))
	assert.True(t, b.remote.drawing())
}
