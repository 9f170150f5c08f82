package shared

import (
	"strconv"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each one is published after the mutation it describes
// has been applied and journaled.
const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"

	EventFilmCreated EventType = "film.created"
	EventFilmUpdated EventType = "film.updated"
	EventFilmDeleted EventType = "film.deleted"

	EventDirectorCreated EventType = "director.created"
	EventDirectorUpdated EventType = "director.updated"
	EventDirectorDeleted EventType = "director.deleted"

	EventFriendAdded   EventType = "friendship.added"
	EventFriendRemoved EventType = "friendship.removed"

	EventLikeAdded   EventType = "like.added"
	EventLikeRemoved EventType = "like.removed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
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
func NewBaseEvent(eventType EventType, aggregateID int64) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: strconv.FormatInt(aggregateID, 10),
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ─────────────────────────────────────────────────────────────────────────────

// EntityEvent is emitted when a user, film or director record changes.
type EntityEvent struct {
	BaseEvent
	EntityID int64 `json:"entity_id"`
}

// NewEntityEvent creates an entity lifecycle event.
func NewEntityEvent(eventType EventType, id int64) EntityEvent {
	return EntityEvent{BaseEvent: NewBaseEvent(eventType, id), EntityID: id}
}

// Payload implements Event interface.
func (e EntityEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"entity_id": e.EntityID}
}

// FriendshipEvent is emitted when a friend edge is added or removed.
type FriendshipEvent struct {
	BaseEvent
	UserID   UserID `json:"user_id"`
	FriendID UserID `json:"friend_id"`
}

// NewFriendshipEvent creates a friendship event.
func NewFriendshipEvent(eventType EventType, userID, friendID UserID) FriendshipEvent {
	return FriendshipEvent{
		BaseEvent: NewBaseEvent(eventType, int64(userID)),
		UserID:    userID,
		FriendID:  friendID,
	}
}

// Payload implements Event interface.
func (e FriendshipEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"user_id": e.UserID, "friend_id": e.FriendID}
}

// LikeEvent is emitted when a like edge is added or removed.
type LikeEvent struct {
	BaseEvent
	FilmID FilmID `json:"film_id"`
	UserID UserID `json:"user_id"`
}

// NewLikeEvent creates a like event.
func NewLikeEvent(eventType EventType, filmID FilmID, userID UserID) LikeEvent {
	return LikeEvent{
		BaseEvent: NewBaseEvent(eventType, int64(filmID)),
		FilmID:    filmID,
		UserID:    userID,
	}
}

// Payload implements Event interface.
func (e LikeEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"film_id": e.FilmID, "user_id": e.UserID}
}

// EventHandler processes a published event.
type EventHandler func(event Event) error

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event Event) error
}
