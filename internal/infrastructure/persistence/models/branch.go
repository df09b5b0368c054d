package models

import (
	"github.com/erp/accounting/internal/domain/branch"
)

// BranchModel is the persistence model for branches
type BranchModel struct {
	AggregateModel
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Address  string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(50)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the model to a domain Branch
func (m *BranchModel) ToDomain() *branch.Branch {
	b := &branch.Branch{
		Code:     m.Code,
		Name:     m.Name,
		Address:  m.Address,
		Phone:    m.Phone,
		IsActive: m.IsActive,
	}
	m.PopulateAggregateRoot(&b.BaseAggregateRoot)
	return b
}

// BranchModelFromDomain converts a domain Branch to its model
func BranchModelFromDomain(b *branch.Branch) *BranchModel {
	m := &BranchModel{
		Code:     b.Code,
		Name:     b.Name,
		Address:  b.Address,
		Phone:    b.Phone,
		IsActive: b.IsActive,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}
