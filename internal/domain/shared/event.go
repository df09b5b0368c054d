package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Every event is scoped to
// the branch whose data produced it, so handlers never need to look it up.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	BranchID() uuid.UUID
}

// BaseDomainEvent is embedded by the concrete events of each context
type BaseDomainEvent struct {
	Meta EventMeta `json:"meta"`
}

// EventMeta is the envelope serialized with every event
type EventMeta struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	At        time.Time `json:"occurred_at"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Branch    uuid.UUID `json:"branch_id"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.Meta.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Meta.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Meta.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Meta.Aggregate }
func (e *BaseDomainEvent) AggregateType() string  { return e.Meta.Kind }
func (e *BaseDomainEvent) BranchID() uuid.UUID    { return e.Meta.Branch }

// NewBaseDomainEvent stamps a fresh envelope with a new ID and the current time
func NewBaseDomainEvent(eventType, aggType string, aggID, branchID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{Meta: EventMeta{
		ID:        uuid.New(),
		Type:      eventType,
		At:        time.Now(),
		Aggregate: aggID,
		Kind:      aggType,
		Branch:    branchID,
	}}
}
