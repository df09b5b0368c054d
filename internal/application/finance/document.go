package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDueSoonDays is the summary window used when none is requested
const DefaultDueSoonDays = 7

func summaryWindow(days int) int {
	if days <= 0 {
		return DefaultDueSoonDays
	}
	if days > 365 {
		return 365
	}
	return days
}

func documentInput(req CreateDocumentRequest, now time.Time) (finance.DocumentInput, error) {
	issued, err := parseDateOr("issue_date", req.IssueDate, now)
	if err != nil {
		return finance.DocumentInput{}, err
	}
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return finance.DocumentInput{}, err
	}
	return finance.DocumentInput{
		ContactID:   req.ContactID,
		Description: req.Description,
		Amount:      req.Amount,
		IssueDate:   issued,
		DueDate:     due,
	}, nil
}

// updatedInput merges a partial update into the current values
func updatedInput(req UpdateDocumentRequest, description string, amount decimal.Decimal, due *time.Time) (finance.DocumentInput, error) {
	in := finance.DocumentInput{Description: description, Amount: amount, DueDate: due}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			in.DueDate = nil
		} else {
			d, err := parseDate("due_date", *req.DueDate)
			if err != nil {
				return in, err
			}
			in.DueDate = &d
		}
	}
	return in, nil
}

// findContact loads a contact of the branch, reporting a missing one as a field error
func findContact(ctx context.Context, repo contact.Repository, branchID, id uuid.UUID) (*contact.Contact, error) {
	c, err := repo.FindByID(ctx, shared.BranchScope(branchID), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("contact_id", "contact does not exist in this branch")
		}
		return nil, err
	}
	return c, nil
}

func documentFilter(scope shared.Scope, f DocumentListFilter, now time.Time) (finance.DocumentFilter, error) {
	pagingDefaults(&f.Page, &f.PageSize, &f.OrderBy, &f.OrderDir, "issue_date", "desc")
	out := finance.DocumentFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		Scope:       scope,
		Status:      finance.DocumentStatus(f.Status),
		ContactID:   f.ContactID,
		OverdueOnly: f.OverdueOnly,
		AsOf:        shared.TruncateToDay(now),
	}
	var err error
	if out.DueFrom, err = parseOptionalDate("due_from", &f.DueFrom); err != nil {
		return out, err
	}
	if out.DueTo, err = parseOptionalDate("due_to", &f.DueTo); err != nil {
		return out, err
	}
	return out, nil
}
