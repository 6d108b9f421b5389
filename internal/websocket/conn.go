package websocket

import (
	"time"

	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

// Session timing and limits
const (
	writeWait            = 10 * time.Second
	pongWait             = 60 * time.Second
	pingPeriod           = pongWait * 9 / 10 // must stay below pongWait
	maxFrameBytes        = 4 << 10
	maxMessagesPerSecond = 10
)

// Conn is the gorilla connection behind a Client
type Conn struct {
	*websocket.Conn
}

func (c *Conn) extendReadDeadline() error {
	return c.SetReadDeadline(time.Now().Add(pongWait))
}

func (c *Conn) write(messageType int, payload []byte) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteMessage(messageType, payload)
}

// ReadPump hands client frames to the hub until the socket fails.
// It owns unregistration; the hub then closes Send, which stops WritePump.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameBytes)
	_ = c.Conn.extendReadDeadline()
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.extendReadDeadline()
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket session closed unexpectedly", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}
		c.Hub.HandleClientMessage(c, frame)
	}
}

// WritePump pushes queued events, one frame per event, and pings an idle peer
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				_ = c.Conn.write(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.write(websocket.TextMessage, event); err != nil {
				logger.Warn("Failed to push websocket event", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
				return
			}

		case <-ticker.C:
			if err := c.Conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
