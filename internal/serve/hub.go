package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/ws"
)

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// Subscriber is one overlay following the signal channel.
type Subscriber struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans signals out to every connected overlay. A subscriber whose
// buffer is full is dropped instead of blocking the broadcast.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]*Subscriber)}
}

func (h *Hub) add(conn *websocket.Conn) *Subscriber {
	s := &Subscriber{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.subs[s.ID] = s
	h.mu.Unlock()
	return s
}

// remove is idempotent; the send channel is closed exactly once.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	s, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if ok {
		close(s.Send)
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast queues msg for every subscriber and returns how many took it.
func (h *Hub) Broadcast(msg any) int {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("hub: marshal broadcast", "err", err)
		return 0
	}

	var slow []string
	n := 0
	h.mu.RLock()
	for id, s := range h.subs {
		select {
		case s.Send <- data:
			n++
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		logger.Warn("hub: dropping slow subscriber", "id", id)
		h.remove(id)
	}
	return n
}

// CloseAll disconnects every subscriber.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.Conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// ServeHTTP upgrades the request and pumps queued signals until the client
// goes away or is dropped.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Warn("hub: websocket accept", "err", err)
		return
	}
	defer conn.CloseNow()

	s := h.add(conn)
	defer h.remove(s.ID)
	log := logger.With("hub").With("id", s.ID)
	log.Debug("subscriber connected")

	// The overlay never sends; CloseRead handles pings and cancels ctx when
	// the peer disconnects.
	ctx := conn.CloseRead(r.Context())

	if err := write(ctx, conn, ws.Hello{Type: ws.TypeHello, ID: s.ID}); err != nil {
		log.Debug("hello failed", "err", err)
		return
	}

	for {
		select {
		case data, ok := <-s.Send:
			if !ok {
				conn.Close(websocket.StatusPolicyViolation, "too slow")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Debug("write failed", "err", err)
				return
			}
		case <-ctx.Done():
			log.Debug("subscriber gone")
			return
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, data)
}
