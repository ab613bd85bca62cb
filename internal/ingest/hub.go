package ingest

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emiliopalmerini/codepulse/internal/adapters/jsonl"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Daemon binds to loopback; origin checks add nothing.
	},
}

// Hub fans derived telemetry records out to connected WebSocket clients as
// JSON lines, so a dashboard can follow activity live.
type Hub struct {
	logger ports.Logger

	clients   map[*client]bool
	clientsMu sync.RWMutex
	closed    bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub creates an empty hub.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]bool),
	}
}

// Sink returns a telemetry sink that broadcasts each record to every
// connected client.
func (h *Hub) Sink() ports.Sink {
	return jsonl.NewSink(&broadcastWriter{hub: h})
}

// broadcastWriter adapts the hub to io.Writer. Each Write carries exactly
// one encoded record with a trailing newline.
type broadcastWriter struct {
	hub *Hub
}

func (w *broadcastWriter) Write(p []byte) (int, error) {
	w.hub.broadcast(bytes.TrimRight(p, "\n"))
	return len(p), nil
}

// HandleWebSocket upgrades an HTTP connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed: " + err.Error())
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.clientsMu.Lock()
	if h.closed {
		h.clientsMu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = true
	h.clientsMu.Unlock()

	go c.writePump()
	go c.readPump()
}

// broadcast sends a message to all connected clients. Clients with a full
// send buffer miss the message rather than stall dispatch.
func (h *Hub) broadcast(message []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- message:
		default:
		}
	}
}

func (h *Hub) removeClient(c *client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.clientsMu.Unlock()
}

// Close disconnects all clients. The hub accepts no connections afterwards.
func (h *Hub) Close() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages; the feed is one-way. It exists to
// process control frames and detect disconnects.
func (c *client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error: " + err.Error())
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
