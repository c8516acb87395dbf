package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types emitted after a successful mutation.
const (
	EventProfileRenamed EventType = "profile.renamed"
	EventFriendAdded    EventType = "friend.added"
	EventFriendUpdated  EventType = "friend.updated"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	// For roster events this is the email of the entry.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ProfileRenamedEvent is emitted when the local user changes display name.
type ProfileRenamedEvent struct {
	BaseEvent
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// Payload implements Event interface.
func (e ProfileRenamedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"old_name": e.OldName,
		"new_name": e.NewName,
	}
}

// NewProfileRenamedEvent creates a new ProfileRenamedEvent.
func NewProfileRenamedEvent(email, oldName, newName string) ProfileRenamedEvent {
	return ProfileRenamedEvent{
		BaseEvent: NewBaseEvent(EventProfileRenamed, email),
		OldName:   oldName,
		NewName:   newName,
	}
}

// FriendAddedEvent is emitted when a roster entry is created.
type FriendAddedEvent struct {
	BaseEvent
	Name         string `json:"name"`
	Status       string `json:"status"`
	Availability string `json:"availability"`
}

// Payload implements Event interface.
func (e FriendAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":         e.Name,
		"status":       e.Status,
		"availability": e.Availability,
	}
}

// NewFriendAddedEvent creates a new FriendAddedEvent.
func NewFriendAddedEvent(email, name, status, availability string) FriendAddedEvent {
	return FriendAddedEvent{
		BaseEvent:    NewBaseEvent(EventFriendAdded, email),
		Name:         name,
		Status:       status,
		Availability: availability,
	}
}

// FriendUpdatedEvent is emitted when a roster entry is patched.
type FriendUpdatedEvent struct {
	BaseEvent
	ChangedFields []string `json:"changed_fields"`
}

// Payload implements Event interface.
func (e FriendUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"changed_fields": e.ChangedFields,
	}
}

// NewFriendUpdatedEvent creates a new FriendUpdatedEvent.
func NewFriendUpdatedEvent(email string, changed []string) FriendUpdatedEvent {
	return FriendUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventFriendUpdated, email),
		ChangedFields: changed,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for every event type.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
