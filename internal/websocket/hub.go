package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ciftci/ciftci-backend/pkg/logger"
)

// ClientMessage is a frame sent by the client. Only "ping" is understood.
type ClientMessage struct {
	Type string `json:"type"`
}

// Event is the envelope of every frame pushed to a client
type Event struct {
	Type string      `json:"type"` // notification, pong
	Data interface{} `json:"data,omitempty"`
}

// Client is one websocket session of a user
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	Send          chan []byte
	MessageCount  int       // frames received in the current second
	LastResetTime time.Time // start of the current rate window
	RateMu        sync.Mutex
}

// Hub tracks the open sessions per user and fans out pushes to them
type Hub struct {
	// UserID -> sessions, one per device
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	direct     chan *DirectMessage

	mu sync.RWMutex
}

// DirectMessage is a payload addressed to every session of one user
type DirectMessage struct {
	UserID  uint
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		direct:     make(chan *DirectMessage, 1024),
	}
}

// NewClient builds a session for userID. Pass a nil conn in tests.
func NewClient(hub *Hub, conn *Conn, userID uint) *Client {
	return &Client{
		Hub:           hub,
		Conn:          conn,
		UserID:        userID,
		Send:          make(chan []byte, 256),
		LastResetTime: time.Now(),
	}
}

// Run serves the hub until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.direct:
			h.mu.RLock()
			for _, client := range h.clients[message.UserID] {
				select {
				case client.Send <- message.Message:
				default:
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": message.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientList, ok := h.clients[client.UserID]
	if !ok {
		return
	}

	newList := make([]*Client, 0, len(clientList))
	found := false
	for _, c := range clientList {
		if c == client {
			found = true
			continue
		}
		newList = append(newList, c)
	}
	if !found {
		return
	}

	if len(newList) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = newList
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": len(newList),
	})
}

// SendToUser queues an event for every session of userID. Delivery is best
// effort: a full queue drops the event.
func (h *Hub) SendToUser(userID uint, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		logger.Error("Failed to marshal websocket event", err, map[string]interface{}{
			"user_id": userID,
			"type":    eventType,
		})
		return err
	}

	select {
	case h.direct <- &DirectMessage{UserID: userID, Message: payload}:
	default:
		logger.Warn("Direct channel full, event dropped", map[string]interface{}{
			"user_id": userID,
			"type":    eventType,
		})
	}
	return nil
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SessionCount returns the number of open sessions of userID
func (h *Hub) SessionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// HandleClientMessage answers client frames, dropping them above the rate limit
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		payload, _ := json.Marshal(Event{Type: "pong"})
		select {
		case client.Send <- payload:
		default:
		}
	}
}
