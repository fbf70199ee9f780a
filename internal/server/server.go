package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"whiteboard/internal/config"
	"whiteboard/internal/relay"
)

type handler struct {
	hub      *relay.Hub
	cfg      config.Config
	upgrader websocket.Upgrader
}

// New builds the relay's HTTP surface. events may be nil, in which case no
// /events route is mounted.
func New(cfg config.Config, hub *relay.Hub, events http.Handler) *gin.Engine {
	h := &handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", h.handleWebSocket)
	r.GET("/api/rooms", h.handleRooms)
	if events != nil {
		r.GET("/events", gin.WrapH(events))
	}

	return r
}

func (h *handler) handleWebSocket(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logrus.WithError(err).WithField("ip", ctx.ClientIP()).Warn("websocket upgrade failed")
		return
	}

	session := relay.NewWebsocketSession(conn, h.cfg.PingInterval, h.cfg.MaxMessageBytes)
	h.hub.Serve(session)
}

func (h *handler) handleRooms(ctx *gin.Context) {
	counts, err := h.hub.Rooms(ctx.Request.Context())
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "relay-unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, counts)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(allowed) == 0 || origin == "" {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

func corsConfig(allowed []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Origin",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(allowed) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = allowed
		c.AllowCredentials = true
	}
	return c
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logrus.WithFields(logrus.Fields{
			"method":  ctx.Request.Method,
			"path":    ctx.Request.URL.Path,
			"status":  ctx.Writer.Status(),
			"latency": time.Since(start),
			"ip":      ctx.ClientIP(),
		}).Debug("request")
	}
}
