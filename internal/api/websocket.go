package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/amterp/kanboard/internal/board"
	"github.com/amterp/kanboard/internal/id"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Message types pushed to clients.
const (
	MessageConnected     = "connected"
	MessageBoardChange   = "board_change"
	MessageStorageChange = "storage_change"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocketHub manages WebSocket connections and broadcasts board and storage changes.
type WebSocketHub struct {
	logger  zerolog.Logger
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	id   string
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewWebSocketHub creates a new WebSocket hub.
func NewWebSocketHub(logger zerolog.Logger) *WebSocketHub {
	return &WebSocketHub{
		logger:  logger.With().Str("component", "ws").Logger(),
		clients: make(map[*WebSocketClient]bool),
	}
}

// OnBoardChange forwards a board mutation to every client.
func (h *WebSocketHub) OnBoardChange(change board.Change) {
	h.publish(MessageBoardChange, change)
}

// OnStorageChange implements StorageWatcherSubscriber.
func (h *WebSocketHub) OnStorageChange(change StorageChange) {
	h.publish(MessageStorageChange, change)
}

func (h *WebSocketHub) publish(msgType string, payload any) {
	data, err := json.Marshal(WebSocketMessage{Type: msgType, Data: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("failed to marshal message")
		return
	}
	h.broadcast(data)
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between snapshot and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed by removeClient - client already cleaned up
		}
	}()

	select {
	case client.send <- data:
	default:
		h.logger.Warn().Str("client", client.id).Msg("client too slow, disconnecting")
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS handles WebSocket connection requests.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("upgrade failed")
		return
	}

	client := &WebSocketClient{
		id:   id.Client(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.addClient(client)
	h.logger.Debug().Str("client", client.id).Msg("client connected")

	go client.writePump()
	go client.readPump()

	welcome := WebSocketMessage{
		Type: MessageConnected,
		Data: map[string]string{"client": client.id},
	}
	if data, err := json.Marshal(welcome); err == nil {
		h.trySend(client, data)
	}
}

// readPump reads messages from the WebSocket connection.
// We don't expect client messages, but we need to read to detect disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		// closing send signals writePump to close the connection
		c.hub.removeClient(c)
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Str("client", c.id).Msg("read error")
			}
			break
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per message so each frame is a complete JSON document
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
