package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/logger"
)

type Handler struct {
	registry *Registry
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin is enforced by the router middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ConnectHandler upgrades the request and hands the socket to a new session.
func (h *Handler) ConnectHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("ws upgrade failed: %v", err)
		return
	}
	session := NewSession(NewWebsocketConn(conn), h.registry)
	go session.WritePump()
	go session.ReadPump()
}

func RegisterRoute(engine *gin.Engine, registry *Registry) {
	h := NewHandler(registry)
	engine.GET("/ws", h.ConnectHandler)
}
