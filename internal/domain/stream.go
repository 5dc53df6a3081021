package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamCatalogueChanged = "stream:catalogue:changed"
)

// CatalogueChangedEvent - событие об изменении маршрутов между двумя пунктами
type CatalogueChangedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	ChangedAt   time.Time `json:"changed_at"`
}

// NewCatalogueChangedEvent creates an event with a fresh id.
func NewCatalogueChangedEvent(origin, destination string, at time.Time) CatalogueChangedEvent {
	return CatalogueChangedEvent{
		EventID:     uuid.New(),
		Origin:      origin,
		Destination: destination,
		ChangedAt:   at,
	}
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data map[string]interface{}
}
