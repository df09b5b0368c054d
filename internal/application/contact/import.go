package contact

import (
	"context"
	"errors"
	"io"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/shared"
	csvimport "github.com/erp/accounting/internal/infrastructure/import"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Import limits
const (
	MaxImportRows   = 5000
	MaxImportErrors = 100
)

// importColumns lists the accepted CSV columns; only name is required
var importColumns = []string{"name", "type", "phone", "email", "address", "tax_number", "notes"}

func newImportValidator() *csvimport.RowValidator {
	return csvimport.NewRowValidator(
		csvimport.Column("name").Require().Max(200).Unique(shared.NormalizeName),
		csvimport.Column("type").In(string(contact.TypeCustomer), string(contact.TypeSupplier), string(contact.TypeBoth)),
		csvimport.Column("phone").Max(50),
		csvimport.Column("email").Max(200).IsEmail(),
		csvimport.Column("address").Max(500),
		csvimport.Column("tax_number").Max(50),
		csvimport.Column("notes").Max(2000),
	)
}

// Import creates contacts from a CSV upload. Each row is validated on its own; rejected rows
// are reported and the rest are imported. A blank type defaults to CUSTOMER.
func (s *Service) Import(ctx context.Context, actor shared.Actor, requestedBranch *uuid.UUID, r io.Reader) (*ImportResult, error) {
	branchID, err := actor.WriteBranch(requestedBranch)
	if err != nil {
		return nil, err
	}

	parser, err := csvimport.NewCSVParser(r, csvimport.WithMaxRows(MaxImportRows))
	if err != nil {
		return nil, shared.NewValidationError("file", err.Error())
	}
	if missing := parser.MissingHeaders("name"); len(missing) > 0 {
		return nil, shared.NewValidationError("file", "CSV file must have a name column").
			WithDetail("expected_columns", importColumns)
	}

	validator := newImportValidator()
	rowErrors := csvimport.NewErrorCollection(MaxImportErrors)
	result := &ImportResult{}

	for {
		row, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, csvimport.ErrTooManyRows) {
			return nil, shared.NewValidationError("file", err.Error()).WithDetail("max_rows", MaxImportRows)
		}
		var rowErr csvimport.RowError
		if errors.As(err, &rowErr) {
			result.TotalRows++
			result.ErrorRows++
			rowErrors.Add(rowErr)
			continue
		}
		if err != nil {
			return nil, err
		}

		result.TotalRows++
		if errs := validator.Validate(row); len(errs) > 0 {
			result.ErrorRows++
			for _, e := range errs {
				rowErrors.Add(e)
			}
			continue
		}
		if err := s.importRow(ctx, actor, branchID, row); err != nil {
			de, ok := shared.AsDomainError(err)
			if !ok {
				return nil, err
			}
			result.ErrorRows++
			rowErrors.Add(rowErrorFor(row, de))
			continue
		}
		result.ImportedRows++
	}

	result.Errors = rowErrors.Errors()
	result.TotalErrors = rowErrors.Total()
	result.IsTruncated = rowErrors.IsTruncated()

	s.logger.Info("Contact import finished",
		zap.String("branch_id", branchID.String()),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported_rows", result.ImportedRows),
		zap.Int("error_rows", result.ErrorRows))
	return result, nil
}

func (s *Service) importRow(ctx context.Context, actor shared.Actor, branchID uuid.UUID, row *csvimport.Row) error {
	contactType := contact.TypeCustomer
	if raw := row.Get("type"); raw != "" {
		contactType, _ = contact.ParseType(raw)
	}
	c, err := contact.NewContact(branchID, actor.UserID, contactType, row.Get("name"), contact.Details{
		Phone:     row.Get("phone"),
		Email:     row.Get("email"),
		Address:   row.Get("address"),
		TaxNumber: row.Get("tax_number"),
		Notes:     row.Get("notes"),
	})
	if err != nil {
		return err
	}
	if err := s.ensureUniqueName(ctx, branchID, c.Name, uuid.Nil); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return contact.ErrDuplicateName
		}
		return err
	}
	return nil
}

func rowErrorFor(row *csvimport.Row, de *shared.DomainError) csvimport.RowError {
	if errors.Is(de, contact.ErrDuplicateName) {
		e := csvimport.NewRowError(row.Line, "name", csvimport.ErrCodeDuplicateInDB, de.Message)
		e.Value = row.Get("name")
		return e
	}
	column, _ := de.Details["field"].(string)
	return csvimport.NewRowError(row.Line, column, csvimport.ErrCodeRejected, de.Message)
}
