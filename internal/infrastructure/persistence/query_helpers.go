package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scoped limits a query to the scope's branch. column is qualified when the query joins tables.
func scoped(query *gorm.DB, scope shared.Scope, column string) *gorm.DB {
	if scope.IsAll() {
		return query
	}
	return query.Where(column+" = ?", *scope.BranchID)
}

// paginate applies whitelisted ordering and the page window of a filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(field + " " + dir)
	if field != "id" {
		query = query.Order("id " + dir)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// qualifiedPaginate is paginate for joined queries, prefixing the sort column with a table alias
func qualifiedPaginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField, table string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(table + "." + field + " " + dir).Order(table + ".id " + dir)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// searchPattern builds a case-insensitive LIKE pattern with wildcards escaped
func searchPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(term))) + "%"
}

// searchAny matches the pattern against any of the columns, case-insensitively
func searchAny(query *gorm.DB, term string, columns ...string) *gorm.DB {
	if strings.TrimSpace(term) == "" || len(columns) == 0 {
		return query
	}
	pattern := searchPattern(term)
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// mapNotFound converts gorm.ErrRecordNotFound into the domain error
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// forUpdate adds a row lock on dialects that support it
func forUpdate(query *gorm.DB) *gorm.DB {
	if isSQLite(query) {
		return query
	}
	return query.Clauses(clause.Locking{Strength: "UPDATE"})
}

func isSQLite(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == "sqlite"
}

// saveAggregate inserts an unsaved aggregate or updates a loaded one under optimistic locking.
// The update only matches the row at the version the aggregate was loaded with.
func saveAggregate(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, root *shared.BaseAggregateRoot) error {
	persisted := root.PersistedVersion()
	if persisted == 0 {
		if err := translateWriteError(db.WithContext(ctx).Omit(clause.Associations).Create(model).Error); err != nil {
			return err
		}
		root.MarkPersisted()
		return nil
	}
	result := db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Where("id = ? AND version = ?", id, persisted).
		Updates(model)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	root.MarkPersisted()
	return nil
}

// deleteByID removes a row and reports ErrNotFound when nothing matched
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// translateWriteError maps unique and foreign key violations onto domain errors
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.ErrInvalidState.WithDetail("reason", "referenced by other records")
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return shared.ErrAlreadyExists
	case strings.Contains(msg, "foreign key"):
		return shared.ErrInvalidState.WithDetail("reason", "referenced by other records")
	}
	return err
}

// periodExpr returns a SQL expression that buckets a date column by day or month
func periodExpr(db *gorm.DB, column, interval string) string {
	if isSQLite(db) {
		if interval == "day" {
			return "strftime('%Y-%m-%d', " + column + ")"
		}
		return "strftime('%Y-%m', " + column + ")"
	}
	if interval == "day" {
		return "to_char(" + column + ", 'YYYY-MM-DD')"
	}
	return "to_char(" + column + ", 'YYYY-MM')"
}
