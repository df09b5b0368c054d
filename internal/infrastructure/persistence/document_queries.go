package persistence

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// openStatuses are the statuses that still accept payments
var openStatuses = []string{string(finance.StatusPending), string(finance.StatusPartial)}

// applyDocumentFilter narrows a payable or receivable query. settled is the paid or received column.
func applyDocumentFilter(query *gorm.DB, filter finance.DocumentFilter, table string) *gorm.DB {
	query = scoped(query, filter.Scope, table+".branch_id")
	if filter.Search != "" {
		query = query.Joins("LEFT JOIN contacts ON contacts.id = " + table + ".contact_id")
		query = searchAny(query, filter.Search, table+".number", table+".description", "contacts.name")
	}
	if filter.Status != "" {
		query = query.Where(table+".status = ?", filter.Status)
	}
	if filter.ContactID != nil {
		query = query.Where(table+".contact_id = ?", *filter.ContactID)
	}
	if filter.DueFrom != nil {
		query = query.Where(table+".due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where(table+".due_date <= ?", *filter.DueTo)
	}
	if filter.OverdueOnly {
		asOf := filter.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		query = query.Where(table+".due_date < ? AND "+table+".status IN ?", shared.TruncateToDay(asOf), openStatuses)
	}
	return query
}

// openDocuments restricts to unpaid documents, optionally due on or before dueBefore
func openDocuments(query *gorm.DB, scope shared.Scope, dueBefore *time.Time) *gorm.DB {
	query = scoped(query, scope, "branch_id").Where("status IN ?", openStatuses)
	if dueBefore != nil {
		query = query.Where("due_date IS NOT NULL AND due_date <= ?", *dueBefore)
	}
	return query.Order("due_date ASC, number ASC")
}

type documentSummaryRow struct {
	TotalAmount   decimal.Decimal
	TotalSettled  decimal.Decimal
	OpenCount     int64
	OverdueCount  int64
	OverdueAmount decimal.Decimal
	DueSoonCount  int64
	DueSoonAmount decimal.Decimal
}

// documentSummary totals open documents of a table. settled is the paid or received column.
func documentSummary(ctx context.Context, db *gorm.DB, table, settled string, scope shared.Scope, asOf time.Time, windowDays int) (*finance.DocumentSummary, error) {
	today := shared.TruncateToDay(asOf)
	horizon := today.AddDate(0, 0, windowDays)
	outstanding := "(amount - " + settled + ")"

	var row documentSummaryRow
	err := scoped(db.WithContext(ctx).Table(table), scope, "branch_id").
		Where("status IN ?", openStatuses).
		Select(
			"COALESCE(SUM(amount), 0) AS total_amount, "+
				"COALESCE(SUM("+settled+"), 0) AS total_settled, "+
				"COUNT(*) AS open_count, "+
				"COALESCE(SUM(CASE WHEN due_date < ? THEN 1 ELSE 0 END), 0) AS overdue_count, "+
				"COALESCE(SUM(CASE WHEN due_date < ? THEN "+outstanding+" ELSE 0 END), 0) AS overdue_amount, "+
				"COALESCE(SUM(CASE WHEN due_date >= ? AND due_date <= ? THEN 1 ELSE 0 END), 0) AS due_soon_count, "+
				"COALESCE(SUM(CASE WHEN due_date >= ? AND due_date <= ? THEN "+outstanding+" ELSE 0 END), 0) AS due_soon_amount",
			today, today, today, horizon, today, horizon,
		).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &finance.DocumentSummary{
		TotalAmount:       row.TotalAmount,
		TotalSettled:      row.TotalSettled,
		TotalOutstanding:  row.TotalAmount.Sub(row.TotalSettled),
		OpenCount:         row.OpenCount,
		OverdueCount:      row.OverdueCount,
		OverdueAmount:     row.OverdueAmount,
		DueSoonCount:      row.DueSoonCount,
		DueSoonAmount:     row.DueSoonAmount,
		DueSoonWindowDays: windowDays,
	}, nil
}

// outstandingForContact sums what is still open on a contact's documents
func outstandingForContact(ctx context.Context, db *gorm.DB, table, settled string, contactID any) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.WithContext(ctx).Table(table).
		Where("contact_id = ? AND status IN ?", contactID, openStatuses).
		Select("COALESCE(SUM(amount - " + settled + "), 0)").
		Scan(&total).Error
	return total, err
}
