package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents something that happened in the domain
type DomainEvent interface {
	GetEventID() uuid.UUID
	GetEventType() string
	GetAggregateID() uuid.UUID
	GetOccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	EventID     uuid.UUID
	EventType   string
	AggregateID uuid.UUID
	OccurredAt  time.Time
}

func (e BaseDomainEvent) GetEventID() uuid.UUID     { return e.EventID }
func (e BaseDomainEvent) GetEventType() string      { return e.EventType }
func (e BaseDomainEvent) GetAggregateID() uuid.UUID { return e.AggregateID }
func (e BaseDomainEvent) GetOccurredAt() time.Time  { return e.OccurredAt }

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		EventID:     uuid.New(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
	}
}
