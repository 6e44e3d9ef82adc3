package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/vmihailenco/msgpack/v5"
)

type EventType string

const (
	EventGenerationSucceeded EventType = "generation.succeeded"
	EventGenerationFailed    EventType = "generation.failed"
	EventBatchCompleted      EventType = "batch.completed"
)

// Event is an audit row for generation activity. Data holds a msgpack payload.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID        uuid.UUID `bun:",type:uuid,pk"`
	Type      EventType `bun:",notnull"`
	StyleID   string    `bun:",notnull"`
	ArtworkID string    `bun:",notnull"`
	Data      []byte    `bun:",notnull"`
	CreatedAt time.Time `bun:",notnull"`
}

func NewEvent(eventType EventType, styleID, artworkID string, data any) (*Event, error) {
	encoded, err := msgpack.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.Must(uuid.NewRandom()),
		Type:      eventType,
		StyleID:   styleID,
		ArtworkID: artworkID,
		Data:      encoded,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Decode unpacks the payload into v.
func (e *Event) Decode(v any) error {
	return msgpack.Unmarshal(e.Data, v)
}
