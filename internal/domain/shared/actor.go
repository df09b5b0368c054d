package shared

import "github.com/google/uuid"

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
	// BranchID is the branch an accountant is bound to. Admins have none.
	BranchID *uuid.UUID
}

// SystemActor is used by background jobs and CLIs
func SystemActor() Actor {
	return Actor{IsAdmin: true}
}

// Scope is the widest scope the actor may read
func (a Actor) Scope() Scope {
	if a.IsAdmin || a.BranchID == nil {
		return Scope{}
	}
	return BranchScope(*a.BranchID)
}

// ReadScope narrows the actor's scope to a requested branch. Accountants asking for
// another branch are refused.
func (a Actor) ReadScope(requested *uuid.UUID) (Scope, error) {
	if a.IsAdmin {
		if requested == nil || *requested == uuid.Nil {
			return Scope{}, nil
		}
		return BranchScope(*requested), nil
	}
	if a.BranchID == nil {
		return Scope{}, ErrForbidden
	}
	if requested != nil && *requested != uuid.Nil && *requested != *a.BranchID {
		return Scope{}, ErrForbidden
	}
	return BranchScope(*a.BranchID), nil
}

// WriteBranch resolves the branch a new record belongs to. Admins must name one;
// accountants default to their own and may not write elsewhere.
func (a Actor) WriteBranch(requested *uuid.UUID) (uuid.UUID, error) {
	if a.IsAdmin {
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, NewValidationError("branch_id", "branch_id is required")
		}
		return *requested, nil
	}
	scope, err := a.ReadScope(requested)
	if err != nil {
		return uuid.Nil, err
	}
	return *scope.BranchID, nil
}
