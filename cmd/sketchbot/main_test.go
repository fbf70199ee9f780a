package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"whiteboard/internal/board"
	"whiteboard/internal/stroke"
	"whiteboard/internal/wire"
)

func TestReporterDropsRecordedCalls(t *testing.T) {
	logger, hook := test.NewNullLogger()
	surface := stroke.NewRecorder(1280, 720)
	b := board.New("ABCDE12", board.Identity{DisplayName: "bot"}, surface, nil)
	report := reporter(logger.WithField("room", "ABCDE12"), surface)

	frames := []wire.Message{
		wire.BeginDrawing{Room: "ABCDE12", ClientX: 1, ClientY: 1, EventType: wire.EventDraw},
	}
	for i := 0; i < 500; i++ {
		frames = append(frames, wire.Draw{
			Room:      "ABCDE12",
			OffsetX:   float64(i + 2),
			OffsetY:   1,
			LastPoint: &wire.Point{X: float64(i + 1), Y: 1},
			EventType: wire.EventDraw,
		})
	}
	frames = append(frames, wire.PeerLeft{Room: "ABCDE12", ConnID: "c1", Username: "alice"})

	for _, m := range frames {
		b.Apply(m)
		report(m)
		assert.Empty(t, surface.Ops())
	}

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, "peer left", entry.Message)
		assert.Equal(t, "alice", entry.Data["peer"])
	}
}
