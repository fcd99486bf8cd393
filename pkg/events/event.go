package events

import (
	"context"
	"time"
)

// Event is the contract for every domain event.
type Event interface {
	// EventType is the unique code of the event, e.g. "CAMPAIGN_SUMMARIES_LINKED".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

// Publisher sends events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
