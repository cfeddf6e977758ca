package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
	}
}

// Collection names used by change notifications
const (
	CollectionCustomers = "customers"
	CollectionOrders    = "orders"
)

// Event types published whenever a collection is modified
const (
	EventTypeCustomersChanged = "customers.changed"
	EventTypeOrdersChanged    = "orders.changed"
)

// ChangeKind describes what happened to the record inside a collection
type ChangeKind string

const (
	ChangeSaved   ChangeKind = "saved"
	ChangeDeleted ChangeKind = "deleted"
)

// CollectionChangedEvent tells observers that a collection has a new state.
// Observers reload the whole collection; the event carries no delta.
type CollectionChangedEvent struct {
	BaseDomainEvent
	Collection string     `json:"collection"`
	Kind       ChangeKind `json:"kind"`
}

// NewCollectionChangedEvent creates a change event for the given collection
func NewCollectionChangedEvent(collection string, recordID uuid.UUID, kind ChangeKind) *CollectionChangedEvent {
	eventType := EventTypeOrdersChanged
	aggType := "Order"
	if collection == CollectionCustomers {
		eventType = EventTypeCustomersChanged
		aggType = "Customer"
	}
	return &CollectionChangedEvent{
		BaseDomainEvent: NewBaseDomainEvent(eventType, aggType, recordID),
		Collection:      collection,
		Kind:            kind,
	}
}
