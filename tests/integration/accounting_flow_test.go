//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactapp "github.com/erp/accounting/internal/application/contact"
	financeapp "github.com/erp/accounting/internal/application/finance"
	inventoryapp "github.com/erp/accounting/internal/application/inventory"
	notificationapp "github.com/erp/accounting/internal/application/notification"
	payrollapp "github.com/erp/accounting/internal/application/payroll"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/notification"
	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/tests/testutil"
)

func TestReadinessPingsPostgres(t *testing.T) {
	s := newStack(t)
	s.client.Do(t, http.MethodGet, "/health/ready", nil).RequireStatus(t, http.StatusOK)
}

func TestReceivableToIncomeAndDashboard(t *testing.T) {
	s := newStack(t)
	admin := s.login(t, adminUser, adminPassword)
	_, acct := s.branchWithAccountant(t, admin, "HQ")
	today := testutil.Day(time.Now())

	customer := testutil.Decode[contactapp.ContactResponse](t, acct.Do(t, http.MethodPost, "/api/v1/contacts", map[string]string{
		"type": "CUSTOMER",
		"name": "Northwind",
	}).RequireStatus(t, http.StatusCreated))

	acct.Do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"type":     "EXPENSE",
		"category": "Rent",
		"amount":   "250.00",
		"date":     today,
	}).RequireStatus(t, http.StatusCreated)

	ar := testutil.Decode[financeapp.ReceivableResponse](t, acct.Do(t, http.MethodPost, "/api/v1/receivables", map[string]any{
		"contact_id":  customer.ID,
		"description": "Consulting",
		"amount":      "800.00",
	}).RequireStatus(t, http.StatusCreated))

	acct.Do(t, http.MethodPost, "/api/v1/receivables/"+ar.ID.String()+"/receipts", map[string]any{
		"amount":        "800.00",
		"record_income": true,
	}).RequireStatus(t, http.StatusCreated)

	ar = testutil.Decode[financeapp.ReceivableResponse](t,
		acct.Do(t, http.MethodGet, "/api/v1/receivables/"+ar.ID.String(), nil).RequireStatus(t, http.StatusOK))
	assert.Equal(t, "PAID", ar.Status)
	assert.Len(t, s.events.OfType(finance.EventTypeReceivablePaid), 1)

	dash := testutil.Decode[report.Dashboard](t, acct.Do(t, http.MethodGet, "/api/v1/reports/dashboard", nil).RequireStatus(t, http.StatusOK))
	assert.True(t, dash.Income.Equal(decimal.NewFromInt(800)), "income %s", dash.Income)
	assert.True(t, dash.Expense.Equal(decimal.NewFromInt(250)), "expense %s", dash.Expense)
	assert.True(t, dash.Net.Equal(decimal.NewFromInt(550)), "net %s", dash.Net)
	assert.True(t, dash.ReceivablesOutstanding.IsZero())
}

func TestStockOutRaisesLowStockAlert(t *testing.T) {
	s := newStack(t)
	admin := s.login(t, adminUser, adminPassword)
	_, acct := s.branchWithAccountant(t, admin, "HQ")

	item := testutil.Decode[inventoryapp.ItemResponse](t, acct.Do(t, http.MethodPost, "/api/v1/inventory/items", map[string]any{
		"sku":           "PAPER-A4",
		"name":          "A4 paper",
		"unit":          "ream",
		"reorder_level": "5",
	}).RequireStatus(t, http.StatusCreated))
	path := "/api/v1/inventory/items/" + item.ID.String() + "/movements"

	acct.Do(t, http.MethodPost, path, map[string]any{"type": "IN", "quantity": "10", "unit_cost": "4.50"}).
		RequireStatus(t, http.StatusCreated)
	assert.Empty(t, s.events.OfType(inventory.EventTypeStockLow))

	acct.Do(t, http.MethodPost, path, map[string]any{"type": "OUT", "quantity": "20"}).
		AssertError(t, http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_STOCK")

	result := testutil.Decode[inventoryapp.MovementResult](t,
		acct.Do(t, http.MethodPost, path, map[string]any{"type": "OUT", "quantity": "7"}).RequireStatus(t, http.StatusCreated))
	assert.True(t, result.Item.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, result.Item.IsLowStock)
	require.Len(t, s.events.OfType(inventory.EventTypeStockLow), 1)

	list := testutil.Decode[[]notificationapp.NotificationResponse](t,
		acct.Do(t, http.MethodGet, "/api/v1/notifications", nil).RequireStatus(t, http.StatusOK))
	require.Len(t, list, 1)
	assert.Equal(t, string(notification.TypeLowStock), list[0].Type)

	valuation := testutil.Decode[inventoryapp.ValuationResponse](t,
		acct.Do(t, http.MethodGet, "/api/v1/inventory/valuation", nil).RequireStatus(t, http.StatusOK))
	assert.True(t, valuation.TotalValue.Equal(testutil.Money("13.5")), "value %s", valuation.TotalValue)
	assert.EqualValues(t, 1, valuation.LowStockCount)
}

func TestPayrollRunPostsExpense(t *testing.T) {
	s := newStack(t)
	admin := s.login(t, adminUser, adminPassword)
	_, acct := s.branchWithAccountant(t, admin, "HQ")
	period := testutil.Period(time.Now())

	for _, code := range []string{"E1", "E2"} {
		acct.Do(t, http.MethodPost, "/api/v1/employees", map[string]any{
			"code":        code,
			"full_name":   "Employee " + code,
			"hire_date":   "2024-01-15",
			"base_salary": "1500.00",
		}).RequireStatus(t, http.StatusCreated)
	}

	gen := testutil.Decode[payroll.GenerateResult](t,
		acct.Do(t, http.MethodPost, "/api/v1/payroll/generate", map[string]string{"period": period}).RequireStatus(t, http.StatusCreated))
	assert.Equal(t, 2, gen.Created)

	again := testutil.Decode[payroll.GenerateResult](t,
		acct.Do(t, http.MethodPost, "/api/v1/payroll/generate", map[string]string{"period": period}).RequireStatus(t, http.StatusCreated))
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 2, again.Skipped)

	records := testutil.Decode[[]payrollapp.RecordResponse](t,
		acct.Do(t, http.MethodGet, "/api/v1/payroll?period="+period, nil).RequireStatus(t, http.StatusOK))
	require.Len(t, records, 2)
	path := "/api/v1/payroll/" + records[0].ID.String()

	acct.Do(t, http.MethodPost, path+"/pay", map[string]any{}).
		AssertError(t, http.StatusUnprocessableEntity, "ERR_INVALID_STATE")

	acct.Do(t, http.MethodPost, path+"/approve", nil).RequireStatus(t, http.StatusOK)
	paid := testutil.Decode[payrollapp.RecordResponse](t,
		acct.Do(t, http.MethodPost, path+"/pay", map[string]any{"payment_method": "BANK_TRANSFER"}).RequireStatus(t, http.StatusOK))
	assert.Equal(t, "PAID", paid.Status)
	require.NotNil(t, paid.TransactionID)
	assert.Len(t, s.events.OfType(payroll.EventTypePayrollPaid), 1)

	txn := testutil.Decode[financeapp.TransactionResponse](t,
		acct.Do(t, http.MethodGet, "/api/v1/transactions/"+paid.TransactionID.String(), nil).RequireStatus(t, http.StatusOK))
	assert.Equal(t, "EXPENSE", txn.Type)
	assert.True(t, txn.IsSystemGenerated)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(1500)))

	acct.Do(t, http.MethodDelete, "/api/v1/transactions/"+paid.TransactionID.String(), nil).
		AssertError(t, http.StatusUnprocessableEntity, "ERR_TRANSACTION_LOCKED")
}

func TestDueRemindersAreCreatedOncePerDay(t *testing.T) {
	s := newStack(t)
	admin := s.login(t, adminUser, adminPassword)
	_, acct := s.branchWithAccountant(t, admin, "HQ")

	supplier := testutil.Decode[contactapp.ContactResponse](t, acct.Do(t, http.MethodPost, "/api/v1/contacts", map[string]string{
		"type": "SUPPLIER",
		"name": "Utility Co",
	}).RequireStatus(t, http.StatusCreated))

	tomorrow := testutil.Day(time.Now().AddDate(0, 0, 1))
	acct.Do(t, http.MethodPost, "/api/v1/payables", map[string]any{
		"contact_id": supplier.ID,
		"amount":     "90.00",
		"due_date":   tomorrow,
	}).RequireStatus(t, http.StatusCreated)

	ctx := context.Background()
	first, err := s.reminders.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Scanned)
	assert.Equal(t, 1, first.Created[notification.TypePayableDue])

	second, err := s.reminders.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Created[notification.TypePayableDue])

	list := testutil.Decode[[]notificationapp.NotificationResponse](t,
		acct.Do(t, http.MethodGet, "/api/v1/notifications", nil).RequireStatus(t, http.StatusOK))
	require.Len(t, list, 1)
	assert.Equal(t, string(notification.TypePayableDue), list[0].Type)
}
