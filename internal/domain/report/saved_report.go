package report

import (
	"encoding/json"
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeSavedReport = "SavedReport"

// ErrNotOwner is returned when a user changes someone else's saved report
var ErrNotOwner = shared.NewDomainError("FORBIDDEN", "Only the owner can change this report")

// SavedReport is a named query definition
type SavedReport struct {
	shared.BaseAggregateRoot
	BranchID    *uuid.UUID
	Name        string
	Description string
	Definition  Query
	CreatedBy   uuid.UUID
	IsShared    bool
}

// NewSavedReport creates a saved report. The definition is compiled first so broken
// reports are never stored.
func NewSavedReport(registry *Registry, owner uuid.UUID, branchID *uuid.UUID, name, description string, def Query, isShared bool) (*SavedReport, error) {
	r := &SavedReport{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
		CreatedBy:         owner,
	}
	if err := r.Update(registry, name, description, def, isShared); err != nil {
		return nil, err
	}
	r.Version = 1
	return r, nil
}

// Update replaces the report definition
func (r *SavedReport) Update(registry *Registry, name, description string, def Query, isShared bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	if len(name) > 150 {
		return shared.NewValidationError("name", "name must be at most 150 characters")
	}
	if _, err := registry.Compile(def, DefaultLimits); err != nil {
		return err
	}
	def.Page, def.PageSize = 0, 0
	r.Name = name
	r.Description = strings.TrimSpace(description)
	r.Definition = def
	r.IsShared = isShared
	r.Touch()
	r.IncrementVersion()
	return nil
}

// CanView applies the visibility rule: the owner, or shared reports inside the viewer's scope
func (r *SavedReport) CanView(userID uuid.UUID, scope shared.Scope) bool {
	if r.CreatedBy == userID {
		return true
	}
	if !r.IsShared {
		return false
	}
	if r.BranchID == nil {
		return true
	}
	return scope.Allows(*r.BranchID)
}

// CheckOwner returns ErrNotOwner unless userID owns the report. Admins bypass via isAdmin.
func (r *SavedReport) CheckOwner(userID uuid.UUID, isAdmin bool) error {
	if r.CreatedBy == userID || isAdmin {
		return nil
	}
	return ErrNotOwner
}

// DefinitionJSON encodes the definition for storage
func (r *SavedReport) DefinitionJSON() ([]byte, error) {
	return json.Marshal(r.Definition)
}
