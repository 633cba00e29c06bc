package events

import (
	"context"
	"time"
)

// Event types published on status changes
const (
	LeadStatusChanged     = "lead.status_changed"
	CampaignStatusChanged = "campaign.status_changed"
)

// Event describes a change to a lead or campaign. It is serialized as the
// message body and its Type is used as the routing key.
type Event struct {
	Type       string    `json:"type"`
	EntityID   uint      `json:"entityId"`
	UserID     string    `json:"userId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
