package models

import (
	"github.com/erp/accounting/internal/domain/contact"
)

// ContactModel is the persistence model for contacts.
// NormalizedName backs the case-insensitive per-branch uniqueness.
type ContactModel struct {
	BranchAggregateModel
	Type           string `gorm:"type:varchar(20);not null;index"`
	Name           string `gorm:"type:varchar(200);not null"`
	NormalizedName string `gorm:"type:varchar(200);not null;index"`
	Phone          string `gorm:"type:varchar(50)"`
	Email          string `gorm:"type:varchar(150)"`
	Address        string `gorm:"type:text"`
	TaxNumber      string `gorm:"type:varchar(50)"`
	Notes          string `gorm:"type:text"`
	IsActive       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the model to a domain Contact
func (m *ContactModel) ToDomain() *contact.Contact {
	c := &contact.Contact{
		Type:      contact.Type(m.Type),
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		TaxNumber: m.TaxNumber,
		Notes:     m.Notes,
		IsActive:  m.IsActive,
	}
	m.PopulateBranchAggregateRoot(&c.BranchAggregateRoot)
	return c
}

// ContactModelFromDomain converts a domain Contact to its model
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{
		Type:           string(c.Type),
		Name:           c.Name,
		NormalizedName: c.NormalizedName(),
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		TaxNumber:      c.TaxNumber,
		Notes:          c.Notes,
		IsActive:       c.IsActive,
	}
	m.FromDomainBranchAggregateRoot(c.BranchAggregateRoot)
	return m
}
