package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tobilg/dashconv/internal/api"
)

func TestNewConversionMessage(t *testing.T) {
	event := ConversionEvent{
		ID:             "abc",
		Name:           "Overview",
		LayoutStrategy: "preserve",
		Summary:        api.ConversionSummary{Panels: 2, TextPanels: 1, DistributionPanels: 1},
	}
	before := time.Now()
	msg := NewConversionMessage(event)
	after := time.Now()

	if msg.Type != MessageTypeConversion {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeConversion)
	}
	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("Timestamp not in expected range")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded struct {
		Type    string          `json:"type"`
		Payload ConversionEvent `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Type != "conversion" {
		t.Errorf("type = %q, want conversion", decoded.Type)
	}
	if decoded.Payload != event {
		t.Errorf("Payload = %+v, want %+v", decoded.Payload, event)
	}
}

func TestNewConversionMessage_UnsavedOmitsID(t *testing.T) {
	data, err := json.Marshal(NewConversionMessage(ConversionEvent{Name: "Scratch"}))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := decoded.Payload["id"]; ok {
		t.Error("id should be omitted for unsaved conversions")
	}
}

func TestNewConversionDeletedMessage(t *testing.T) {
	msg := NewConversionDeletedMessage("abc")

	if msg.Type != MessageTypeConversionDeleted {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeConversionDeleted)
	}
	if got := msg.Payload.(ConversionDeletedEvent).ID; got != "abc" {
		t.Errorf("ID = %q, want abc", got)
	}
}
