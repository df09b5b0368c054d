package handler

import (
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/google/uuid"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// CountData carries the number of rows an operation touched
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}

// HealthData is the body of the health endpoints
// @Description Service health
type HealthData struct {
	Status    string            `json:"status" example:"healthy"`
	Service   string            `json:"service,omitempty"`
	Version   string            `json:"version,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// MigrationRunRequest starts the debt migration
// @Description Debt migration options
type MigrationRunRequest struct {
	DryRun   bool       `json:"dry_run"`
	BranchID *uuid.UUID `json:"branch_id"`
}
