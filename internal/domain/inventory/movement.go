package inventory

import (
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the type is known
func (t MovementType) IsValid() bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjustment
}

// Movement is an immutable stock ledger line. Quantity is signed.
type Movement struct {
	ID           uuid.UUID
	BranchID     uuid.UUID
	ItemID       uuid.UUID
	ItemSKU      string
	ItemName     string
	Type         MovementType
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	BalanceAfter decimal.Decimal
	Reference    string
	Notes        string
	Date         time.Time
	CreatedBy    *uuid.UUID
	CreatedAt    time.Time
}

// MovementInput describes a requested stock change.
// For ADJUSTMENT, Quantity is the counted stock, not a delta.
type MovementInput struct {
	Type      MovementType
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Reference string
	Notes     string
	Date      time.Time
}

func (in *MovementInput) normalize() error {
	if !in.Type.IsValid() {
		return shared.NewValidationError("type", "type must be IN, OUT or ADJUSTMENT")
	}
	if in.Type == MovementAdjustment {
		if err := shared.RequireNonNegative("quantity", in.Quantity); err != nil {
			return err
		}
	} else if err := shared.RequirePositive("quantity", in.Quantity); err != nil {
		return err
	}
	if err := shared.RequireNonNegative("unit_cost", in.UnitCost); err != nil {
		return err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	in.Date = shared.TruncateToDay(in.Date)
	in.Reference = strings.TrimSpace(in.Reference)
	in.Notes = strings.TrimSpace(in.Notes)
	return nil
}
