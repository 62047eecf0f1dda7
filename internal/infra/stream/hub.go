package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"signal_go/internal/domain"
	"signal_go/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
	sendBuffer   = 64
)

// Hub fans accepted signals out to websocket subscribers.
// Delivery is best-effort: a subscriber whose buffer is full is disconnected.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	metrics  *infra.Metrics
}

type client struct {
	conn *websocket.Conn
	send chan domain.Signal
	once sync.Once
}

// NewHub creates an empty hub. checkOrigin may be nil to accept same-origin requests only.
func NewHub(metrics *infra.Metrics, checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		metrics: metrics,
	}
}

// Broadcast queues sig for every subscriber without blocking
func (h *Hub) Broadcast(sig domain.Signal) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- sig:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("Stream subscriber too slow, dropping", slog.String("remote", c.conn.RemoteAddr().String()))
		h.remove(c)
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams signals until the peer leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Stream upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{conn: conn, send: make(chan domain.Signal, sendBuffer)}
	h.add(c)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.StreamClients.Set(float64(n))
	slog.Info("Stream subscriber connected", slog.Int("clients", n))
}

func (h *Hub) remove(c *client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		n := len(h.clients)
		h.mu.Unlock()

		close(c.send)
		h.metrics.StreamClients.Set(float64(n))
	})
}

// readLoop only exists to process control frames and notice disconnects
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case sig, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(sig); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
