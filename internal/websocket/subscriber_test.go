package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, hub *Hub, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+query, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return conn
}

func TestServeWs_DeliversEvents(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub, "/ws")
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.Broadcast(NewConversionMessage(ConversionEvent{ID: "42", Name: "Overview"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var msg struct {
		Type    MessageType     `json:"type"`
		Payload ConversionEvent `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if msg.Type != MessageTypeConversion || msg.Payload.ID != "42" {
		t.Errorf("unexpected event %s", data)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestServeWs_FiltersByType(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub, "/ws?types=conversion_deleted")
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.Broadcast(NewConversionMessage(ConversionEvent{ID: "1"}))
	hub.Broadcast(NewConversionDeletedMessage("1"))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if !strings.Contains(string(data), `"type":"conversion_deleted"`) || strings.Contains(string(data), `"type":"conversion"`) {
		t.Errorf("unexpected frame %s", data)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestServeWs_RejectsUnknownType(t *testing.T) {
	hub := startHub(t)

	rr := httptest.NewRecorder()
	ServeWs(hub, rr, httptest.NewRequest("GET", "/ws?types=traces", nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if hub.ClientCount() != 0 {
		t.Error("rejected request should not subscribe")
	}
}
