package models

import (
	"github.com/erp/accounting/internal/domain/report"
	"github.com/google/uuid"
)

// SavedReportModel stores a named smart report definition as JSON
type SavedReportModel struct {
	AggregateModel
	BranchID    *uuid.UUID   `gorm:"type:uuid;index"`
	Name        string       `gorm:"type:varchar(150);not null"`
	Description string       `gorm:"type:text"`
	Entity      string       `gorm:"type:varchar(50);not null;index"`
	Definition  report.Query `gorm:"type:jsonb;serializer:json;not null"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null;index"`
	IsShared    bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SavedReportModel) TableName() string {
	return "saved_reports"
}

// ToDomain converts the model to a domain SavedReport
func (m *SavedReportModel) ToDomain() *report.SavedReport {
	r := &report.SavedReport{
		BranchID:    m.BranchID,
		Name:        m.Name,
		Description: m.Description,
		Definition:  m.Definition,
		CreatedBy:   m.CreatedBy,
		IsShared:    m.IsShared,
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)
	return r
}

// SavedReportModelFromDomain converts a domain SavedReport to its model
func SavedReportModelFromDomain(r *report.SavedReport) *SavedReportModel {
	m := &SavedReportModel{
		BranchID:    r.BranchID,
		Name:        r.Name,
		Description: r.Description,
		Entity:      r.Definition.Entity,
		Definition:  r.Definition,
		CreatedBy:   r.CreatedBy,
		IsShared:    r.IsShared,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
