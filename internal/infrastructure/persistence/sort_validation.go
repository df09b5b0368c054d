package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(fields ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort fields per table
var (
	BranchSortFields       = sortFields("code", "name", "is_active")
	UserSortFields         = sortFields("username", "email", "full_name", "role", "is_active", "last_login_at")
	ContactSortFields      = sortFields("name", "type", "phone", "email", "is_active")
	TransactionSortFields  = sortFields("date", "type", "category", "amount", "payment_method")
	DebtSortFields         = sortFields("creditor_name", "amount", "paid_amount", "due_date", "status")
	DocumentSortFields     = sortFields("number", "amount", "paid_amount", "issue_date", "due_date", "status")
	ReceivableSortFields   = sortFields("number", "amount", "received_amount", "issue_date", "due_date", "status")
	InventorySortFields    = sortFields("sku", "name", "category", "quantity", "unit_cost", "sale_price")
	MovementSortFields     = sortFields("date", "type", "quantity")
	EmployeeSortFields     = sortFields("code", "full_name", "department", "hire_date", "base_salary", "status")
	PayrollSortFields      = sortFields("period", "net_pay", "status", "paid_at")
	NotificationSortFields = sortFields("type", "is_read")
	SavedReportSortFields  = sortFields("name", "entity")
)
