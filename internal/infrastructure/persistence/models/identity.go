package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for users
type UserModel struct {
	AggregateModel
	Username       string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(150);index"`
	FullName       string     `gorm:"type:varchar(150)"`
	PasswordHash   string     `gorm:"type:varchar(100);not null"`
	Role           string     `gorm:"type:varchar(20);not null;index"`
	BranchID       *uuid.UUID `gorm:"type:uuid;index"`
	IsActive       bool       `gorm:"not null;default:true"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:       m.Username,
		Email:          m.Email,
		FullName:       m.FullName,
		PasswordHash:   m.PasswordHash,
		Role:           identity.Role(m.Role),
		BranchID:       m.BranchID,
		IsActive:       m.IsActive,
		LastLoginAt:    m.LastLoginAt,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// UserModelFromDomain converts a domain User to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		BranchID:       u.BranchID,
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
