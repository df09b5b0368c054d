package models

// All returns every persisted model, in dependency order, for AutoMigrate in tests and tooling
func All() []any {
	return []any{
		&BranchModel{},
		&UserModel{},
		&ContactModel{},
		&TransactionModel{},
		&DebtModel{},
		&DebtPaymentModel{},
		&AccountPayableModel{},
		&PayablePaymentModel{},
		&AccountReceivableModel{},
		&ReceivableReceiptModel{},
		&DocumentSequenceModel{},
		&InventoryItemModel{},
		&StockMovementModel{},
		&EmployeeModel{},
		&PayrollRecordModel{},
		&NotificationModel{},
		&SavedReportModel{},
	}
}
