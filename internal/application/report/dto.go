package report

import (
	"time"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/google/uuid"
)

// QueryRequest is an ad-hoc smart report query
type QueryRequest = report.Query

// ExportFormat names an export file type
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportRequest runs a query into a downloadable file
type ExportRequest struct {
	Query  report.Query `json:"query"`
	Title  string       `json:"title"`
	Format ExportFormat `json:"-"`
}

// ExportFile is a rendered export
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
	Truncated   bool
}

// EntityResponse lists one reportable entity
type EntityResponse struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	DefaultSort string `json:"default_sort"`
}

// FieldResponse describes one reportable field with the operators it accepts
type FieldResponse struct {
	report.Field
	Operators []report.Operator `json:"operators"`
}

// SavedReportRequest creates or replaces a saved report
type SavedReportRequest struct {
	BranchID    *uuid.UUID   `json:"branch_id"`
	Name        string       `json:"name" binding:"required,max=150"`
	Description string       `json:"description" binding:"max=1000"`
	Definition  report.Query `json:"definition" binding:"required"`
	IsShared    bool         `json:"is_shared"`
}

// SavedReportListFilter narrows the saved report list
type SavedReportListFilter struct {
	Entity   string `form:"entity"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RunSavedReportRequest picks the page of a saved report run
type RunSavedReportRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// SavedReportResponse is the API shape of a saved report
type SavedReportResponse struct {
	ID          uuid.UUID    `json:"id"`
	BranchID    *uuid.UUID   `json:"branch_id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Definition  report.Query `json:"definition"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	IsShared    bool         `json:"is_shared"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TrendRequest selects the range and bucket size of an income/expense trend
type TrendRequest struct {
	BranchID *uuid.UUID `form:"branch_id"`
	From     string     `form:"from"`
	To       string     `form:"to"`
	Interval string     `form:"interval" binding:"omitempty,oneof=day month"`
}

// ToSavedReportResponse converts a saved report
func ToSavedReportResponse(r *report.SavedReport) SavedReportResponse {
	return SavedReportResponse{
		ID:          r.ID,
		BranchID:    r.BranchID,
		Name:        r.Name,
		Description: r.Description,
		Definition:  r.Definition,
		CreatedBy:   r.CreatedBy,
		IsShared:    r.IsShared,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToSavedReportResponses converts a slice
func ToSavedReportResponses(list []report.SavedReport) []SavedReportResponse {
	out := make([]SavedReportResponse, len(list))
	for i := range list {
		out[i] = ToSavedReportResponse(&list[i])
	}
	return out
}
