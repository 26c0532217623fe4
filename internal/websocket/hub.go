package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tobilg/dashconv/internal/logger"
)

const broadcastBacklog = 256

// Hub fans conversion history events out to /ws subscribers.
type Hub struct {
	subscribers map[*subscriber]struct{}
	events      chan Message
	join        chan *subscriber
	part        chan *subscriber
	done        chan struct{}
	mu          sync.RWMutex

	originsMu sync.RWMutex
	origins   []string
	upgrader  websocket.Upgrader
}

func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[*subscriber]struct{}),
		events:      make(chan Message, broadcastBacklog),
		join:        make(chan *subscriber),
		part:        make(chan *subscriber),
		done:        make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.originAllowed,
	}
	return h
}

// AllowOrigins sets the browser origins permitted to subscribe. Requests
// without an Origin header are always accepted.
func (h *Hub) AllowOrigins(origins []string) {
	h.originsMu.Lock()
	h.origins = append([]string(nil), origins...)
	h.originsMu.Unlock()
}

func (h *Hub) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	h.originsMu.RLock()
	defer h.originsMu.RUnlock()
	for _, allowed := range h.origins {
		if origin == allowed || (isLocalDev(allowed) && isLocalDev(origin)) {
			return true
		}
	}
	logger.Warn("Subscriber origin rejected", "origin", origin)
	return false
}

func isLocalDev(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:")
}

// Run owns the subscriber set until ctx is cancelled, then closes every
// subscriber and closes Done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.subscribers {
				delete(h.subscribers, s)
				s.close()
			}
			h.mu.Unlock()
			logger.Debug("Event hub stopped")
			return

		case s := <-h.join:
			h.mu.Lock()
			h.subscribers[s] = struct{}{}
			n := len(h.subscribers)
			h.mu.Unlock()
			logger.Debug("Subscriber joined", "subscribers", n)

		case s := <-h.part:
			h.drop(s)
			logger.Debug("Subscriber left", "subscribers", h.ClientCount())

		case msg := <-h.events:
			h.fanOut(msg)
		}
	}
}

func (h *Hub) fanOut(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Encoding event failed", "type", msg.Type, "error", err)
		return
	}

	var stalled []*subscriber
	h.mu.RLock()
	for s := range h.subscribers {
		if !s.wants(msg.Type) {
			continue
		}
		select {
		case s.send <- data:
		default:
			stalled = append(stalled, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range stalled {
		h.drop(s)
	}
	if len(stalled) > 0 {
		logger.Warn("Dropped stalled subscribers", "count", len(stalled))
	}
}

func (h *Hub) drop(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		s.close()
	}
	h.mu.Unlock()
}

func (h *Hub) enter(s *subscriber) bool {
	select {
	case h.join <- s:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(s *subscriber) {
	select {
	case h.part <- s:
	case <-h.done:
	}
}

// Broadcast queues msg for every interested subscriber. It never blocks; when
// the backlog is full the event is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.events <- msg:
	default:
		logger.Warn("Event backlog full, dropping event", "type", msg.Type)
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// ParseTopics reads a comma separated list of event types. An empty list
// subscribes to every type.
func ParseTopics(raw string) (map[MessageType]bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	topics := make(map[MessageType]bool)
	for _, part := range strings.Split(raw, ",") {
		t := MessageType(strings.TrimSpace(part))
		switch t {
		case MessageTypeConversion, MessageTypeConversionDeleted:
			topics[t] = true
		case "":
		default:
			return nil, fmt.Errorf("unknown event type %q", t)
		}
	}
	if len(topics) == 0 {
		return nil, nil
	}
	return topics, nil
}

// ServeWs upgrades r and subscribes the connection. The optional "types"
// query parameter narrows which events are delivered.
func ServeWs(h *Hub, w http.ResponseWriter, r *http.Request) {
	topics, err := ParseTopics(r.URL.Query().Get("types"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	s := newSubscriber(h, conn, topics)
	if !h.enter(s) {
		conn.Close()
		return
	}

	go s.deliver()
	go s.listen()
}
