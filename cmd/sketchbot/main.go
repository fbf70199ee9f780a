// Command sketchbot joins a whiteboard room, draws a circle and reports what
// its peers are doing until it is interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"whiteboard/internal/board"
	"whiteboard/internal/client"
	"whiteboard/internal/logger"
	"whiteboard/internal/stroke"
	"whiteboard/internal/wire"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8000/ws", "relay websocket endpoint")
	room := flag.String("room", "", "room to join, a random one when empty")
	name := flag.String("name", "sketchbot", "display name shown next to the cursor")
	radius := flag.Float64("radius", 80, "radius of the circle to draw")
	color := flag.String("color", "#1f6feb", "stroke color")
	duration := flag.Duration("duration", 0, "how long to stay in the room, forever when zero")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := logger.Setup(*level, "text"); err != nil {
		logrus.WithError(err).Warn("falling back to default log level")
	}

	if *room == "" {
		id, err := client.NewRoomID()
		if err != nil {
			logrus.WithError(err).Fatal("creating room")
		}
		*room = id
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	surface := stroke.NewRecorder(1280, 720)
	c, err := client.Dial(ctx, *addr, *room, board.Identity{DisplayName: *name}, surface,
		client.WithSendBuffer(64),
		client.WithBoardOptions(board.WithColor(*color)))
	if err != nil {
		logrus.WithError(err).Fatal("connecting to relay")
	}
	defer c.Close()

	log := logrus.WithField("room", *room)
	c.Observe(reporter(log, surface))

	go drawCircle(ctx, c, surface, wire.Point{X: 320, Y: 240}, *radius)

	err = c.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, client.ErrClosed):
	default:
		log.WithError(err).Error("connection lost")
	}

	c.Do(func(b *board.Board) {
		log.WithFields(logrus.Fields{
			"actions": b.History().Len(),
			"cursor":  b.History().Index(),
			"peers":   b.Presence().Names(),
		}).Info("leaving")
	})
}

// reporter logs peer activity. Nobody looks at the bot's canvas, so the
// recorded drawing calls are dropped after every frame.
func reporter(log *logrus.Entry, surface *stroke.Recorder) func(wire.Message) {
	return func(m wire.Message) {
		defer surface.Reset()

		switch v := m.(type) {
		case wire.RoomJoined:
			log.Info(v.Message)
		case wire.BeginDrawing:
			log.WithField("tool", v.EventType).Info("peer started drawing")
		case wire.FinishDrawing:
			log.Debug("peer finished drawing")
		case wire.ClientPointer:
			log.WithFields(logrus.Fields{"peer": v.Username, "x": v.ClientX, "y": v.ClientY}).Debug("cursor")
		case wire.PeerLeft:
			log.WithField("peer", v.Username).Info("peer left")
		}
	}
}

// drawCircle traces a circle one sample at a time so peers see it grow.
func drawCircle(ctx context.Context, c *client.Client, surface *stroke.Recorder, center wire.Point, radius float64) {
	const steps = 72
	at := func(i int) wire.Point {
		theta := 2 * math.Pi * float64(i) / steps
		return wire.Point{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)}
	}

	c.Do(func(b *board.Board) {
		b.PointerDown(at(0))
		surface.Reset()
	})

	tick := time.NewTicker(16 * time.Millisecond)
	defer tick.Stop()
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			c.Do(func(b *board.Board) { b.PointerUp(at(i - 1)) })
			return
		case <-tick.C:
		}
		p := at(i)
		c.Do(func(b *board.Board) {
			b.PointerMove(p)
			surface.Reset()
		})
	}
	c.Do(func(b *board.Board) { b.PointerUp(at(steps)) })
}
