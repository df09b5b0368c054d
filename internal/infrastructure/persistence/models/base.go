package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to a domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// FromDomainBaseEntity populates BaseModel from a domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from a domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot copies identity and version back into a domain root
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity = m.BaseModel.ToDomain()
	a.RestoreVersion(m.Version)
}

// BranchAggregateModel is the persistence shape of a branch-owned aggregate
type BranchAggregateModel struct {
	AggregateModel
	BranchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainBranchAggregateRoot populates BranchAggregateModel from a domain root
func (m *BranchAggregateModel) FromDomainBranchAggregateRoot(b shared.BranchAggregateRoot) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BranchID = b.BranchID
	m.CreatedBy = b.CreatedBy
}

// PopulateBranchAggregateRoot copies the common fields back into a domain root
func (m *BranchAggregateModel) PopulateBranchAggregateRoot(b *shared.BranchAggregateRoot) {
	m.PopulateAggregateRoot(&b.BaseAggregateRoot)
	b.BranchID = m.BranchID
	b.CreatedBy = m.CreatedBy
}
