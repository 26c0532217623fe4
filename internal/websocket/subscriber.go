package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tobilg/dashconv/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// Conversion events are small; a subscriber that falls this far behind is dropped.
	sendBufferSize = 256
)

// subscriber is one live /ws connection and the event types it asked for.
type subscriber struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	topics map[MessageType]bool // nil subscribes to everything
	once   sync.Once
}

func newSubscriber(hub *Hub, conn *websocket.Conn, topics map[MessageType]bool) *subscriber {
	return &subscriber{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		topics: topics,
	}
}

func (s *subscriber) wants(t MessageType) bool {
	return s.topics == nil || s.topics[t]
}

// close ends the outbound stream. It may be called from the hub and from
// teardown paths concurrently.
func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// listen discards inbound frames and returns when the peer goes away.
func (s *subscriber) listen() {
	defer func() {
		s.hub.leave(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("Subscriber closed unexpectedly", "error", err)
			}
			return
		}
	}
}

// deliver writes queued events to the peer, coalescing a backlog into one
// newline separated frame, and keeps the connection alive with pings.
func (s *subscriber) deliver() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.writeFrame(event); err != nil {
				logger.Debug("Subscriber write failed", "error", err)
				return
			}

		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *subscriber) writeFrame(first []byte) error {
	w, err := s.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := w.Write(first); err != nil {
		return err
	}
	for pending := len(s.send); pending > 0; pending-- {
		next, ok := <-s.send
		if !ok {
			break
		}
		if _, err := w.Write(append([]byte{'\n'}, next...)); err != nil {
			return err
		}
	}
	return w.Close()
}
