package controller

import (
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/middleware"
	ws "github.com/ciftci/ciftci-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketController accepts upgrades from allowedOrigins; "*" allows any origin
func NewWebSocketController(hub *ws.Hub, allowedOrigins []string) *WebSocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Connect upgrades to the notification push channel of the current user
// GET /ws?token=
func (ctrl *WebSocketController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID)
	ctrl.hub.Register(client)

	log.Info("WebSocket connected", map[string]interface{}{
		"user_id": userID,
	})

	go client.WritePump()
	go client.ReadPump()
}
