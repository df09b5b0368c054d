package router

import (
	"github.com/erp/accounting/internal/interfaces/http/handler"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers of every domain
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Branches      *handler.BranchHandler
	Transactions  *handler.TransactionHandler
	Debts         *handler.DebtHandler
	Contacts      *handler.ContactHandler
	Payables      *handler.PayableHandler
	Receivables   *handler.ReceivableHandler
	Inventory     *handler.InventoryHandler
	Employees     *handler.EmployeeHandler
	Payroll       *handler.PayrollHandler
	Notifications *handler.NotificationHandler
	Reports       *handler.ReportHandler
	Migrations    *handler.MigrationHandler
	System        *handler.SystemHandler
}

// DomainGroups builds the route groups of the API. Authentication and branch
// scope are applied by the Router; only role guards are set here.
func DomainGroups(h Handlers) []*DomainGroup {
	admin := middleware.RequireAdmin()

	authRoutes := NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser).
		PUT("/password", h.Auth.ChangePassword)

	userRoutes := NewDomainGroup("users", "/users").Use(admin).
		POST("", h.Users.Create).
		GET("", h.Users.List).
		GET("/:id", h.Users.GetByID).
		PUT("/:id", h.Users.Update).
		DELETE("/:id", h.Users.Delete).
		PUT("/:id/password", h.Users.ResetPassword).
		POST("/:id/activate", h.Users.Activate).
		POST("/:id/deactivate", h.Users.Deactivate)

	branchRoutes := NewDomainGroup("branches", "/branches").
		GET("", h.Branches.List).
		GET("/:id", h.Branches.GetByID).
		POST("", admin, h.Branches.Create).
		PUT("/:id", admin, h.Branches.Update).
		DELETE("/:id", admin, h.Branches.Delete).
		POST("/:id/activate", admin, h.Branches.Activate).
		POST("/:id/deactivate", admin, h.Branches.Deactivate)

	transactionRoutes := NewDomainGroup("transactions", "/transactions").
		POST("", h.Transactions.Create).
		GET("", h.Transactions.List).
		GET("/categories", h.Transactions.Categories).
		GET("/summary", h.Transactions.Summary).
		GET("/:id", h.Transactions.GetByID).
		PUT("/:id", h.Transactions.Update).
		DELETE("/:id", h.Transactions.Delete).
		POST("/:id/attachment-url", h.Transactions.CreateAttachmentUpload).
		GET("/:id/attachment", h.Transactions.GetAttachment)

	debtRoutes := NewDomainGroup("debts", "/debts").
		POST("", h.Debts.Create).
		GET("", h.Debts.List).
		GET("/:id", h.Debts.GetByID).
		PUT("/:id", h.Debts.Update).
		DELETE("/:id", h.Debts.Delete).
		POST("/:id/payments", h.Debts.AddPayment).
		DELETE("/:id/payments/:paymentId", h.Debts.DeletePayment)

	contactRoutes := NewDomainGroup("contacts", "/contacts").
		POST("", h.Contacts.Create).
		GET("", h.Contacts.List).
		POST("/import", h.Contacts.Import).
		GET("/:id", h.Contacts.GetByID).
		PUT("/:id", h.Contacts.Update).
		DELETE("/:id", h.Contacts.Delete).
		GET("/:id/balance", h.Contacts.Balance)

	payableRoutes := NewDomainGroup("payables", "/payables").
		POST("", h.Payables.Create).
		GET("", h.Payables.List).
		GET("/summary", h.Payables.Summary).
		GET("/aging", h.Payables.Aging).
		GET("/:id", h.Payables.GetByID).
		PUT("/:id", h.Payables.Update).
		DELETE("/:id", h.Payables.Delete).
		POST("/:id/cancel", h.Payables.Cancel).
		POST("/:id/payments", h.Payables.RecordPayment).
		DELETE("/:id/payments/:paymentId", h.Payables.DeletePayment)

	receivableRoutes := NewDomainGroup("receivables", "/receivables").
		POST("", h.Receivables.Create).
		GET("", h.Receivables.List).
		GET("/summary", h.Receivables.Summary).
		GET("/aging", h.Receivables.Aging).
		GET("/:id", h.Receivables.GetByID).
		PUT("/:id", h.Receivables.Update).
		DELETE("/:id", h.Receivables.Delete).
		POST("/:id/cancel", h.Receivables.Cancel).
		POST("/:id/receipts", h.Receivables.RecordReceipt).
		DELETE("/:id/receipts/:receiptId", h.Receivables.DeleteReceipt)

	inventoryRoutes := NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.
		GET("/movements", h.Inventory.ListMovements).
		GET("/valuation", h.Inventory.Valuation)
	inventoryRoutes.Group("inventory-items", "/items").
		POST("", h.Inventory.CreateItem).
		GET("", h.Inventory.ListItems).
		GET("/low-stock", h.Inventory.LowStock).
		GET("/:id", h.Inventory.GetItem).
		PUT("/:id", h.Inventory.UpdateItem).
		DELETE("/:id", h.Inventory.DeleteItem).
		POST("/:id/movements", h.Inventory.RecordMovement)

	employeeRoutes := NewDomainGroup("employees", "/employees").
		POST("", h.Employees.Create).
		GET("", h.Employees.List).
		GET("/:id", h.Employees.GetByID).
		PUT("/:id", h.Employees.Update).
		DELETE("/:id", h.Employees.Delete).
		POST("/:id/terminate", h.Employees.Terminate)

	payrollRoutes := NewDomainGroup("payroll", "/payroll").
		POST("", h.Payroll.Create).
		GET("", h.Payroll.List).
		POST("/generate", h.Payroll.Generate).
		GET("/summary", h.Payroll.Summary).
		GET("/:id", h.Payroll.GetByID).
		PUT("/:id", h.Payroll.Update).
		DELETE("/:id", h.Payroll.Delete).
		POST("/:id/approve", h.Payroll.Approve).
		POST("/:id/pay", h.Payroll.Pay)

	notificationRoutes := NewDomainGroup("notifications", "/notifications").
		GET("", h.Notifications.List).
		GET("/unread-count", h.Notifications.UnreadCount).
		POST("/read-all", h.Notifications.MarkAllRead).
		POST("/broadcast", admin, h.Notifications.Broadcast).
		POST("/:id/read", h.Notifications.MarkRead).
		DELETE("/:id", h.Notifications.Delete)

	reportRoutes := NewDomainGroup("reports", "/reports").
		GET("/dashboard", h.Reports.Dashboard).
		GET("/income-expense", h.Reports.IncomeExpense).
		GET("/payables/aging", h.Payables.Aging).
		GET("/receivables/aging", h.Receivables.Aging)
	reportRoutes.Group("smart-reports", "/smart").
		GET("/entities", h.Reports.Entities).
		GET("/entities/:entity/fields", h.Reports.Fields).
		POST("/query", h.Reports.Query).
		POST("/export", h.Reports.Export).
		POST("/saved", h.Reports.CreateSaved).
		GET("/saved", h.Reports.ListSaved).
		GET("/saved/:id", h.Reports.GetSaved).
		PUT("/saved/:id", h.Reports.UpdateSaved).
		DELETE("/saved/:id", h.Reports.DeleteSaved).
		POST("/saved/:id/run", h.Reports.RunSaved)

	adminRoutes := NewDomainGroup("admin", "/admin").Use(admin).
		POST("/migrations/debts", h.Migrations.RunDebts).
		GET("/migrations/debts/verify", h.Migrations.VerifyDebts)

	systemRoutes := NewDomainGroup("system", "/system").
		GET("/info", h.System.Info)

	return []*DomainGroup{
		authRoutes, userRoutes, branchRoutes, transactionRoutes, debtRoutes,
		contactRoutes, payableRoutes, receivableRoutes, inventoryRoutes,
		employeeRoutes, payrollRoutes, notificationRoutes, reportRoutes,
		adminRoutes, systemRoutes,
	}
}
