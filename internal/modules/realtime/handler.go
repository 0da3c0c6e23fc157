package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"photomarket/internal/pkg/jwt"
	"photomarket/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend domains are final.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	tokens *jwt.Service
	logger *zap.Logger
}

func NewHandler(hub *Hub, tokens *jwt.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, tokens: tokens, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/notifications", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and streams notifications.
// Browsers cannot set headers on websocket requests, so the token rides
// in the query string.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required, use ?token=JWT")
		return
	}

	claims, err := h.tokens.Validate(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.logger.Debug("websocket client connected", zap.Int64("user_id", claims.UserID))
	h.hub.ServeWS(conn, claims.UserID)
}
