package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	branchapp "github.com/erp/accounting/internal/application/branch"
	contactapp "github.com/erp/accounting/internal/application/contact"
	financeapp "github.com/erp/accounting/internal/application/finance"
	identityapp "github.com/erp/accounting/internal/application/identity"
	inventoryapp "github.com/erp/accounting/internal/application/inventory"
	"github.com/erp/accounting/internal/application/migration"
	notificationapp "github.com/erp/accounting/internal/application/notification"
	payrollapp "github.com/erp/accounting/internal/application/payroll"
	reportapp "github.com/erp/accounting/internal/application/report"
	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/erp/accounting/internal/infrastructure/cache"
	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/erp/accounting/internal/infrastructure/event"
	"github.com/erp/accounting/internal/infrastructure/persistence"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/erp/accounting/internal/interfaces/http/handler"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/erp/accounting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	adminUser     = "admin"
	adminPassword = "admin-secret-1"
)

type apiEnv struct {
	engine *gin.Engine
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

// newAPI wires the full route table on top of a throwaway sqlite database
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-0123456789abcdef",
		RefreshSecret:          "test-refresh-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "accounting-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	bus := event.NewInMemoryEventBus(log)
	reportCache := cache.NewInMemoryReportCache(100)

	users := persistence.NewGormUserRepository(db)
	branches := persistence.NewGormBranchRepository(db)
	contacts := persistence.NewGormContactRepository(db)
	transactions := persistence.NewGormTransactionRepository(db)
	payables := persistence.NewGormAccountPayableRepository(db)
	receivables := persistence.NewGormAccountReceivableRepository(db)
	items := persistence.NewGormInventoryItemRepository(db)
	movements := persistence.NewGormStockMovementRepository(db)
	employees := persistence.NewGormEmployeeRepository(db)
	records := persistence.NewGormPayrollRecordRepository(db)
	financeScope := persistence.NewFinanceTransactionScope(db)

	_, err = identityapp.EnsureAdmin(context.Background(), users, config.BootstrapConfig{
		AdminUsername: adminUser,
		AdminPassword: adminPassword,
		AdminEmail:    "admin@example.com",
	}, log)
	require.NoError(t, err)

	notifications := notificationapp.NewService(persistence.NewGormNotificationRepository(db), nil, log)
	bus.Subscribe(notificationapp.NewSettlementHandler(notifications, log))

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(identityapp.NewAuthService(users, jwtService, blacklist, log)),
		Users:        handler.NewUserHandler(identityapp.NewUserService(users, branches, blacklist, time.Hour, log)),
		Branches:     handler.NewBranchHandler(branchapp.NewService(branches, log)),
		Transactions: handler.NewTransactionHandler(financeapp.NewTransactionService(transactions, contacts, nil, bus, nil, log)),
		Debts:        handler.NewDebtHandler(financeapp.NewDebtService(persistence.NewGormDebtRepository(db), financeScope, log)),
		Contacts:     handler.NewContactHandler(contactapp.NewService(contacts, payables, receivables, log)),
		Payables:     handler.NewPayableHandler(financeapp.NewPayableService(payables, contacts, financeScope, bus, nil, log)),
		Receivables:  handler.NewReceivableHandler(financeapp.NewReceivableService(receivables, contacts, financeScope, bus, nil, log)),
		Inventory: handler.NewInventoryHandler(inventoryapp.NewInventoryService(
			items, movements, persistence.NewInventoryTransactionScope(db), bus, log)),
		Employees: handler.NewEmployeeHandler(payrollapp.NewEmployeeService(employees, records, log)),
		Payroll: handler.NewPayrollHandler(payrollapp.NewPayrollService(
			records, employees, persistence.NewPayrollTransactionScope(db), bus, nil, log)),
		Notifications: handler.NewNotificationHandler(notifications),
		Reports: handler.NewReportHandler(
			reportapp.NewDashboardService(transactions, payables, receivables, items, records, reportCache, time.Minute, log),
			reportapp.NewSmartReportService(report.DefaultRegistry(), persistence.NewGormQueryRunner(db),
				persistence.NewGormSavedReportRepository(db), reportCache, nil, reportapp.SmartReportConfig{}, nil, log),
		),
		Migrations: handler.NewMigrationHandler(migration.NewDebtMigrator(
			persistence.NewMigrationTransactionScope(db), persistence.NewGormMigrationLedger(db), nil, log)),
		System: handler.NewSystemHandler("accounting-api", "test"),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", h.System.Health)
	engine.GET("/health/ready", h.System.Ready)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	r := router.NewRouter(engine, router.WithMiddleware(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.BranchScope(),
	))
	for _, group := range router.DomainGroups(h) {
		r.Register(group)
	}
	r.Setup()

	return &apiEnv{engine: engine}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token)
}

func (e *apiEnv) send(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (e *apiEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result identityapp.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result.AccessToken
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// seedBranchAccountant creates a branch and an accountant bound to it, returning the branch and a token
func (e *apiEnv) seedBranchAccountant(t *testing.T, adminToken, code string) (branchapp.BranchResponse, string) {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/api/v1/branches", adminToken, map[string]string{
		"code": code,
		"name": "Branch " + code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[branchapp.BranchResponse](t, env)

	username := "acct-" + code
	w, _ = e.do(t, http.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"username":  username,
		"password":  "accountant-pass",
		"role":      "ACCOUNTANT",
		"branch_id": b.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return b, e.login(t, username, "accountant-pass")
}

func TestHealthEndpointsArePublic(t *testing.T) {
	api := newAPI(t)

	w, _ := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": adminUser,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_INVALID_CREDENTIALS", env.Error.Code)

	w, _ = api.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := api.login(t, adminUser, adminPassword)
	w, env = api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[identityapp.UserInfo](t, env)
	assert.Equal(t, adminUser, me.Username)

	w, _ = api.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountantIsConfinedToBranch(t *testing.T) {
	api := newAPI(t)
	admin := api.login(t, adminUser, adminPassword)
	own, accountant := api.seedBranchAccountant(t, admin, "HQ")
	other, _ := api.seedBranchAccountant(t, admin, "NORTH")

	w, env := api.do(t, http.MethodPost, "/api/v1/contacts", accountant, map[string]string{
		"type": "SUPPLIER",
		"name": "Acme Supplies",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[contactapp.ContactResponse](t, env)
	assert.Equal(t, own.ID, created.BranchID)

	t.Run("foreign branch read", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, "/api/v1/contacts?branch_id="+other.ID.String(), accountant, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_FORBIDDEN", env.Error.Code)
	})

	t.Run("foreign branch write", func(t *testing.T) {
		w, _ := api.do(t, http.MethodPost, "/api/v1/contacts", accountant, map[string]any{
			"type":      "CUSTOMER",
			"name":      "Elsewhere Ltd",
			"branch_id": other.ID,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin only routes", func(t *testing.T) {
		w, _ := api.do(t, http.MethodGet, "/api/v1/users", accountant, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		w, _ = api.do(t, http.MethodPost, "/api/v1/branches", accountant, map[string]string{"code": "X1", "name": "X"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		w, _ = api.do(t, http.MethodPost, "/api/v1/admin/migrations/debts", accountant, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin sees every branch", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, "/api/v1/contacts", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]contactapp.ContactResponse](t, env)
		assert.Len(t, list, 1)

		w, env = api.do(t, http.MethodGet, "/api/v1/contacts?branch_id="+other.ID.String(), admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]contactapp.ContactResponse](t, env))
	})
}

func TestPayableSettlement(t *testing.T) {
	api := newAPI(t)
	admin := api.login(t, adminUser, adminPassword)
	_, accountant := api.seedBranchAccountant(t, admin, "HQ")

	_, env := api.do(t, http.MethodPost, "/api/v1/contacts", accountant, map[string]string{
		"type": "SUPPLIER",
		"name": "Paper Co",
	})
	supplier := decode[contactapp.ContactResponse](t, env)

	w, env := api.do(t, http.MethodPost, "/api/v1/payables", accountant, map[string]any{
		"contact_id":  supplier.ID,
		"description": "Office paper",
		"amount":      "1000.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payable := decode[financeapp.PayableResponse](t, env)
	assert.Equal(t, "PENDING", payable.Status)
	path := "/api/v1/payables/" + payable.ID.String()

	w, env = api.do(t, http.MethodPost, path+"/payments", accountant, map[string]any{"amount": "1200.00"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_PAYMENT_EXCEEDS_OUTSTANDING", env.Error.Code)

	w, _ = api.do(t, http.MethodPost, path+"/payments", accountant, map[string]any{"amount": "400.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = api.do(t, http.MethodPost, path+"/payments", accountant, map[string]any{
		"amount":         "600.00",
		"method":         "BANK_TRANSFER",
		"record_expense": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(t, http.MethodGet, path, accountant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	payable = decode[financeapp.PayableResponse](t, env)
	assert.Equal(t, "PAID", payable.Status)
	assert.True(t, payable.Outstanding.IsZero())

	w, env = api.do(t, http.MethodGet, "/api/v1/transactions", accountant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	txns := decode[[]financeapp.TransactionResponse](t, env)
	require.Len(t, txns, 1)
	assert.Equal(t, "EXPENSE", txns[0].Type)
	assert.True(t, txns[0].IsSystemGenerated)

	w, env = api.do(t, http.MethodGet, "/api/v1/notifications/unread-count", accountant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[notificationapp.UnreadCountResponse](t, env).Unread)
}

func TestContactImport(t *testing.T) {
	api := newAPI(t)
	admin := api.login(t, adminUser, adminPassword)
	_, accountant := api.seedBranchAccountant(t, admin, "HQ")

	upload := func(filename, content string) (*httptest.ResponseRecorder, envelope) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return api.send(t, req, accountant)
	}

	w, _ := upload("contacts.txt", "name\nAcme\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := upload("contacts.csv", "name,type,email\nAcme,SUPPLIER,acme@example.com\nBeta,,not-an-email\n,CUSTOMER,\nGamma,CUSTOMER,\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[contactapp.ImportResult](t, env)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.ImportedRows)
	assert.Equal(t, 2, result.ErrorRows)

	_, env = api.do(t, http.MethodGet, "/api/v1/contacts", accountant, nil)
	assert.Len(t, decode[[]contactapp.ContactResponse](t, env), 2)
}

func TestDebtMigrationEndpoints(t *testing.T) {
	api := newAPI(t)
	admin := api.login(t, adminUser, adminPassword)
	b, accountant := api.seedBranchAccountant(t, admin, "HQ")

	w, env := api.do(t, http.MethodPost, "/api/v1/debts", accountant, map[string]any{
		"creditor_name": "Old Landlord",
		"amount":        "500.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	debt := decode[financeapp.DebtResponse](t, env)
	w, _ = api.do(t, http.MethodPost, "/api/v1/debts/"+debt.ID.String()+"/payments", accountant, map[string]any{"amount": "200.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(t, http.MethodPost, "/api/v1/admin/migrations/debts", admin, map[string]any{"dry_run": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dry := decode[migration.Report](t, env)
	assert.True(t, dry.DryRun)
	assert.Equal(t, 1, dry.DebtsMigrated)

	w, env = api.do(t, http.MethodGet, "/api/v1/payables", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]financeapp.PayableResponse](t, env), "dry run rolls back")

	w, env = api.do(t, http.MethodPost, "/api/v1/admin/migrations/debts", admin, map[string]any{"branch_id": b.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode[migration.Report](t, env)
	assert.False(t, run.DryRun)
	assert.Equal(t, 1, run.DebtsMigrated)
	assert.Equal(t, 1, run.PaymentsCopied)

	w, env = api.do(t, http.MethodGet, "/api/v1/admin/migrations/debts/verify", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[migration.VerifyReport](t, env).OK)

	w, env = api.do(t, http.MethodGet, "/api/v1/payables", accountant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	payables := decode[[]financeapp.PayableResponse](t, env)
	require.Len(t, payables, 1)
	assert.Equal(t, "300.00", payables[0].Outstanding.StringFixed(2))

	w, env = api.do(t, http.MethodPost, "/api/v1/debts/"+debt.ID.String()+"/payments", accountant, map[string]any{"amount": "10.00"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_DEBT_MIGRATED", env.Error.Code)
}

func TestSmartReportQueryIsScoped(t *testing.T) {
	api := newAPI(t)
	admin := api.login(t, adminUser, adminPassword)
	_, accountant := api.seedBranchAccountant(t, admin, "HQ")
	_, otherAccountant := api.seedBranchAccountant(t, admin, "NORTH")

	for _, token := range []string{accountant, otherAccountant} {
		w, _ := api.do(t, http.MethodPost, "/api/v1/transactions", token, map[string]any{
			"type":     "INCOME",
			"category": "Sales",
			"amount":   "250.00",
			"date":     time.Now().Format("2006-01-02"),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env := api.do(t, http.MethodGet, "/api/v1/reports/smart/entities", accountant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[[]json.RawMessage](t, env))

	query := map[string]any{"entity": "transactions", "fields": []string{"category", "amount"}}
	w, env = api.do(t, http.MethodPost, "/api/v1/reports/smart/query", accountant, query)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[report.Result](t, env).Rows, 1)

	w, env = api.do(t, http.MethodPost, "/api/v1/reports/smart/query", admin, query)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[report.Result](t, env).Rows, 2)

	w, _ = api.do(t, http.MethodPost, "/api/v1/reports/smart/query", accountant, map[string]any{
		"entity": "transactions",
		"fields": []string{"amount; DROP TABLE transactions"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/reports/smart/export?format=pdf", accountant, map[string]any{
		"query": query,
		"title": "Sales",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/reports/smart/export", accountant, map[string]any{
		"query": query,
		"title": "Sales",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "1", w.Header().Get("X-Report-Rows"))
}
