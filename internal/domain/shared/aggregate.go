package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds optimistic locking and pending events to an entity
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	persisted    int
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version once per unit of work. Further mutations before the
// next save keep the same version, and unsaved aggregates stay at version 1.
func (a *BaseAggregateRoot) IncrementVersion() {
	if a.Version == a.persisted {
		a.Version++
	}
}

// PersistedVersion is the version stored in the database, 0 for an unsaved aggregate
func (a *BaseAggregateRoot) PersistedVersion() int {
	return a.persisted
}

// RestoreVersion sets the version of an aggregate loaded from storage
func (a *BaseAggregateRoot) RestoreVersion(v int) {
	a.Version = v
	a.persisted = v
}

// MarkPersisted records that the current version has been written
func (a *BaseAggregateRoot) MarkPersisted() {
	a.persisted = a.Version
}

// AddDomainEvent queues a domain event for publication
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// PullDomainEvents returns the pending events and clears them
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

// NewBaseAggregateRoot creates a new base aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// BranchAggregateRoot is an aggregate owned by a single branch
type BranchAggregateRoot struct {
	BaseAggregateRoot
	BranchID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewBranchAggregateRoot creates a new branch-owned aggregate root
func NewBranchAggregateRoot(branchID uuid.UUID) BranchAggregateRoot {
	return BranchAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BranchID:          branchID,
	}
}

// NewBranchAggregateRootWithCreator creates a branch-owned aggregate root and records its creator
func NewBranchAggregateRootWithCreator(branchID, createdBy uuid.UUID) BranchAggregateRoot {
	root := NewBranchAggregateRoot(branchID)
	if createdBy != uuid.Nil {
		root.CreatedBy = &createdBy
	}
	return root
}

// SetCreatedBy sets the creator user ID
func (b *BranchAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	b.CreatedBy = &userID
}

// GetBranchID returns the owning branch
func (b *BranchAggregateRoot) GetBranchID() uuid.UUID {
	return b.BranchID
}
