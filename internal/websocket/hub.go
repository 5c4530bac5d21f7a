// Package websocket keeps the set of connected preview browsers and pushes
// reload notifications to them.
//
// A single hub goroutine owns client registration and fan-out. Each client
// has a buffered send queue drained by its own writer goroutine; a client
// whose queue is full is dropped rather than blocking the broadcast.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/layera/stylegen/internal/logging"
)

const (
	sendQueueSize = 16
	writeTimeout  = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Message is the JSON payload sent to browsers.
type Message struct {
	Type      string    `json:"type"`
	Builders  []string  `json:"builders,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReloadMessage asks every browser to reload the page.
func ReloadMessage(builders ...string) Message {
	return Message{Type: "reload", Builders: builders, Timestamp: time.Now().UTC()}
}

// OriginValidator decides which browser origins may connect.
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// OriginValidatorFunc adapts a function to an OriginValidator.
type OriginValidatorFunc func(origin string) bool

// IsAllowedOrigin calls f(origin).
func (f OriginValidatorFunc) IsAllowedOrigin(origin string) bool { return f(origin) }

// LocalOrigins allows loopback origins plus the given extra host names.
func LocalOrigins(hosts ...string) OriginValidator {
	allowed := map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true}
	for _, h := range hosts {
		allowed[h] = true
	}
	return OriginValidatorFunc(func(origin string) bool {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return false
		}
		return allowed[u.Hostname()]
	})
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and broadcasts messages to them.
type Hub struct {
	clients map[*websocket.Conn]*client
	mu      sync.RWMutex

	broadcast  chan []byte
	register   chan *client
	unregister chan *websocket.Conn

	origins OriginValidator
	logger  logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	shutdown     atomic.Bool
}

// NewHub starts a hub. A nil validator allows only loopback origins.
func NewHub(origins OriginValidator, logger logging.Logger) *Hub {
	if origins == nil {
		origins = LocalOrigins()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client, 16),
		unregister: make(chan *websocket.Conn, 16),
		origins:    origins,
		logger:     logger.WithComponent("websocket"),
		ctx:        ctx,
		cancel:     cancel,
	}
	go h.run()
	return h
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	origin := r.Header.Get("Origin")
	if origin != "" && !h.origins.IsAllowedOrigin(origin) {
		h.logger.Warn(r.Context(), nil, "WebSocket connection rejected", "origin", origin, "remote", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origins are checked above.
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueueSize)}

	select {
	case h.register <- c:
	case <-h.ctx.Done():
		conn.Close(websocket.StatusServiceRestart, "server shutting down")
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.conn] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug(h.ctx, "WebSocket client connected", "clients", n)

		case conn := <-h.unregister:
			h.remove(conn, websocket.StatusNormalClosure, "")

		case message := <-h.broadcast:
			h.fanOut(message)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn, code websocket.StatusCode, reason string) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		conn.Close(code, reason)
		h.logger.Debug(h.ctx, "WebSocket client disconnected", "clients", n)
	}
}

func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	var slow []*websocket.Conn
	for conn, c := range h.clients {
		select {
		case c.send <- message:
		default:
			slow = append(slow, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range slow {
		h.remove(conn, websocket.StatusPolicyViolation, "client too slow")
	}
}

// readPump discards client messages and returns when the connection closes.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c.conn:
		case <-h.ctx.Done():
		}
	}()

	for {
		if _, _, err := c.conn.Read(h.ctx); err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && h.ctx.Err() == nil {
				h.logger.Debug(h.ctx, "WebSocket read ended", "error", err.Error())
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				h.logger.Debug(h.ctx, "WebSocket write failed", "error", err.Error())
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-h.ctx.Done():
			return
		}
	}
}

// Broadcast queues msg for every connected client. It never blocks; the
// message is dropped when the hub is shut down or its queue is full.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(h.ctx, err, "Failed to marshal broadcast message")
		return
	}

	select {
	case <-h.ctx.Done():
		return
	default:
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn(h.ctx, nil, "Broadcast queue full, dropping message", "type", msg.Type)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every client connection and stops the hub.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.shutdownOnce.Do(func() {
		h.shutdown.Store(true)
		h.cancel()

		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for conn, c := range h.clients {
			close(c.send)
			conns = append(conns, conn)
		}
		h.clients = make(map[*websocket.Conn]*client)
		h.mu.Unlock()

		for _, conn := range conns {
			conn.Close(websocket.StatusGoingAway, "server shutdown")
		}

		h.logger.Debug(ctx, "WebSocket hub shut down")
	})
	return nil
}
