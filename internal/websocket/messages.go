package websocket

import (
	"time"

	"github.com/tobilg/dashconv/internal/api"
)

type MessageType string

const (
	MessageTypeConversion        MessageType = "conversion"
	MessageTypeConversionDeleted MessageType = "conversion_deleted"
)

type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// ConversionEvent announces a dashboard converted through the API. ID is
// empty when the conversion was not saved to history.
type ConversionEvent struct {
	ID             string                `json:"id,omitempty"`
	Name           string                `json:"name"`
	LayoutStrategy string                `json:"layoutStrategy"`
	Summary        api.ConversionSummary `json:"summary"`
}

// ConversionDeletedEvent announces a conversion removed from history
type ConversionDeletedEvent struct {
	ID string `json:"id"`
}

func NewConversionMessage(event ConversionEvent) Message {
	return Message{
		Type:      MessageTypeConversion,
		Timestamp: time.Now(),
		Payload:   event,
	}
}

func NewConversionDeletedMessage(id string) Message {
	return Message{
		Type:      MessageTypeConversionDeleted,
		Timestamp: time.Now(),
		Payload:   ConversionDeletedEvent{ID: id},
	}
}
