package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whiteboard/internal/config"
	"whiteboard/internal/logger"
	"whiteboard/internal/relay"
	"whiteboard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Warn("falling back to default log level")
	}
	gin.SetMode(cfg.GinMode)

	events := server.NewEventStream()
	defer events.Close()

	hub := relay.NewHub(
		relay.WithEventSink(events),
		relay.WithSendBuffer(cfg.SendBuffer),
		relay.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		relay.WithPingInterval(cfg.PingInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(cfg, hub, events),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", cfg.Addr).Info("relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("relay stopped")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown")
	}
}
