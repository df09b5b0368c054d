package finance

import (
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Transactions =====================

// CreateTransactionRequest represents a request to record an income or expense
type CreateTransactionRequest struct {
	BranchID      *uuid.UUID      `json:"branch_id"`
	Type          string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category      string          `json:"category" binding:"required,max=100"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	Description   string          `json:"description" binding:"max=1000"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=CASH BANK_TRANSFER CARD CHEQUE OTHER"`
	Reference     string          `json:"reference" binding:"max=100"`
	ContactID     *uuid.UUID      `json:"contact_id"`
}

// UpdateTransactionRequest replaces the editable fields of a manual transaction
type UpdateTransactionRequest struct {
	Type          string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category      string          `json:"category" binding:"required,max=100"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	Description   string          `json:"description" binding:"max=1000"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=CASH BANK_TRANSFER CARD CHEQUE OTHER"`
	Reference     string          `json:"reference" binding:"max=100"`
	ContactID     *uuid.UUID      `json:"contact_id"`
}

// TransactionListFilter represents filter options for the transaction list
type TransactionListFilter struct {
	Search    string     `form:"search"`
	Type      string     `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Category  string     `form:"category"`
	ContactID *uuid.UUID `form:"contact_id"`
	Source    string     `form:"source" binding:"omitempty,oneof=MANUAL PAYABLE_PAYMENT RECEIVABLE_RECEIPT PAYROLL"`
	From      string     `form:"from"`
	To        string     `form:"to"`
	MinAmount string     `form:"min_amount"`
	MaxAmount string     `form:"max_amount"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by" binding:"omitempty,oneof=date type category amount payment_method created_at"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	BranchID          uuid.UUID       `json:"branch_id"`
	Type              string          `json:"type"`
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	PaymentMethod     string          `json:"payment_method"`
	Reference         string          `json:"reference"`
	ContactID         *uuid.UUID      `json:"contact_id,omitempty"`
	HasAttachment     bool            `json:"has_attachment"`
	Source            string          `json:"source"`
	SourceID          *uuid.UUID      `json:"source_id,omitempty"`
	IsSystemGenerated bool            `json:"is_system_generated"`
	CreatedBy         *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// TransactionSummaryResponse totals income and expense over a period
type TransactionSummaryResponse struct {
	From         *string                 `json:"from,omitempty"`
	To           *string                 `json:"to,omitempty"`
	TotalIncome  decimal.Decimal         `json:"total_income"`
	TotalExpense decimal.Decimal         `json:"total_expense"`
	Net          decimal.Decimal         `json:"net"`
	Categories   []finance.CategoryTotal `json:"categories"`
}

// AttachmentUploadRequest asks for a presigned upload URL
type AttachmentUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// AttachmentURLResponse is a presigned URL for a transaction attachment
type AttachmentURLResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToTransactionResponse converts a domain transaction
func ToTransactionResponse(t *finance.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID,
		BranchID:          t.BranchID,
		Type:              string(t.Type),
		Category:          t.Category,
		Amount:            t.Amount,
		Date:              t.Date.Format(shared.DateLayout),
		Description:       t.Description,
		PaymentMethod:     string(t.PaymentMethod),
		Reference:         t.Reference,
		ContactID:         t.ContactID,
		HasAttachment:     t.AttachmentKey != "",
		Source:            string(t.Source),
		SourceID:          t.SourceID,
		IsSystemGenerated: t.IsSystemGenerated(),
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		Version:           t.Version,
	}
}

// ToTransactionResponses converts a slice of transactions
func ToTransactionResponses(items []finance.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(items))
	for i := range items {
		out[i] = ToTransactionResponse(&items[i])
	}
	return out
}

// ===================== Debts =====================

// CreateDebtRequest represents a request to record a legacy debt
type CreateDebtRequest struct {
	BranchID     *uuid.UUID      `json:"branch_id"`
	CreditorName string          `json:"creditor_name" binding:"required,max=200"`
	Description  string          `json:"description" binding:"max=1000"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DueDate      *string         `json:"due_date"`
}

// UpdateDebtRequest edits a debt
type UpdateDebtRequest struct {
	CreditorName string          `json:"creditor_name" binding:"required,max=200"`
	Description  string          `json:"description" binding:"max=1000"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DueDate      *string         `json:"due_date"`
}

// AddDebtPaymentRequest records an installment against a debt
type AddDebtPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string          `json:"payment_date"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// DebtListFilter represents filter options for the debt list
type DebtListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PARTIALLY_PAID PAID"`
	Migrated *bool  `form:"migrated"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=creditor_name amount paid_amount due_date status created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DebtPaymentResponse represents a debt installment
type DebtPaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Notes       string          `json:"notes"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DebtResponse represents a debt in API responses
type DebtResponse struct {
	ID                uuid.UUID             `json:"id"`
	BranchID          uuid.UUID             `json:"branch_id"`
	CreditorName      string                `json:"creditor_name"`
	Description       string                `json:"description"`
	Amount            decimal.Decimal       `json:"amount"`
	PaidAmount        decimal.Decimal       `json:"paid_amount"`
	Remaining         decimal.Decimal       `json:"remaining"`
	DueDate           *string               `json:"due_date,omitempty"`
	Status            string                `json:"status"`
	MigratedAt        *time.Time            `json:"migrated_at,omitempty"`
	MigratedPayableID *uuid.UUID            `json:"migrated_payable_id,omitempty"`
	Payments          []DebtPaymentResponse `json:"payments,omitempty"`
	CreatedBy         *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Version           int                   `json:"version"`
}

// ToDebtResponse converts a domain debt
func ToDebtResponse(d *finance.Debt) DebtResponse {
	resp := DebtResponse{
		ID:                d.ID,
		BranchID:          d.BranchID,
		CreditorName:      d.CreditorName,
		Description:       d.Description,
		Amount:            d.Amount,
		PaidAmount:        d.PaidAmount,
		Remaining:         d.Remaining(),
		DueDate:           formatDate(d.DueDate),
		Status:            string(d.Status),
		MigratedAt:        d.MigratedAt,
		MigratedPayableID: d.MigratedPayableID,
		CreatedBy:         d.CreatedBy,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, DebtPaymentResponse{
			ID:          p.ID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate.Format(shared.DateLayout),
			Notes:       p.Notes,
			CreatedBy:   p.CreatedBy,
			CreatedAt:   p.CreatedAt,
		})
	}
	return resp
}

// ToDebtResponses converts a slice of debts
func ToDebtResponses(items []finance.Debt) []DebtResponse {
	out := make([]DebtResponse, len(items))
	for i := range items {
		out[i] = ToDebtResponse(&items[i])
	}
	return out
}

// ===================== Payables and receivables =====================

// CreateDocumentRequest creates a payable or a receivable
type CreateDocumentRequest struct {
	BranchID    *uuid.UUID      `json:"branch_id"`
	ContactID   uuid.UUID       `json:"contact_id" binding:"required"`
	Description string          `json:"description" binding:"max=1000"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IssueDate   string          `json:"issue_date"`
	DueDate     *string         `json:"due_date"`
}

// UpdateDocumentRequest edits an open payable or receivable. An empty due_date clears it.
type UpdateDocumentRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *string          `json:"due_date"`
}

// RecordPaymentRequest applies a payment to a payable or a receipt to a receivable.
// RecordExpense (payables) and RecordIncome (receivables) book the matching
// transaction in the same database transaction.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date"`
	Method        string          `json:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CARD CHEQUE OTHER"`
	Reference     string          `json:"reference" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=1000"`
	RecordExpense bool            `json:"record_expense"`
	RecordIncome  bool            `json:"record_income"`
}

// DocumentListFilter represents filter options for payable and receivable lists
type DocumentListFilter struct {
	Search      string     `form:"search"`
	Status      string     `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID CANCELLED"`
	ContactID   *uuid.UUID `form:"contact_id"`
	OverdueOnly bool       `form:"overdue"`
	DueFrom     string     `form:"due_from"`
	DueTo       string     `form:"due_to"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by" binding:"omitempty,oneof=number amount paid_amount received_amount issue_date due_date status created_at"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentResponse is a payable payment or a receivable receipt
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	DocumentID    uuid.UUID       `json:"document_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	LegacyID      *uuid.UUID      `json:"legacy_debt_payment_id,omitempty"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PayableResponse represents an account payable
type PayableResponse struct {
	ID           uuid.UUID         `json:"id"`
	BranchID     uuid.UUID         `json:"branch_id"`
	Number       string            `json:"number"`
	ContactID    uuid.UUID         `json:"contact_id"`
	ContactName  string            `json:"contact_name"`
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	PaidAmount   decimal.Decimal   `json:"paid_amount"`
	Outstanding  decimal.Decimal   `json:"outstanding"`
	IssueDate    string            `json:"issue_date"`
	DueDate      *string           `json:"due_date,omitempty"`
	Status       string            `json:"status"`
	IsOverdue    bool              `json:"is_overdue"`
	DaysOverdue  int               `json:"days_overdue"`
	PaidAt       *time.Time        `json:"paid_at,omitempty"`
	CancelledAt  *time.Time        `json:"cancelled_at,omitempty"`
	LegacyDebtID *uuid.UUID        `json:"legacy_debt_id,omitempty"`
	Payments     []PaymentResponse `json:"payments,omitempty"`
	CreatedBy    *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Version      int               `json:"version"`
}

// ToPayableResponse converts a domain payable
func ToPayableResponse(ap *finance.AccountPayable, now time.Time) PayableResponse {
	resp := PayableResponse{
		ID:           ap.ID,
		BranchID:     ap.BranchID,
		Number:       ap.Number,
		ContactID:    ap.ContactID,
		ContactName:  ap.ContactName,
		Description:  ap.Description,
		Amount:       ap.Amount,
		PaidAmount:   ap.PaidAmount,
		Outstanding:  ap.Outstanding(),
		IssueDate:    ap.IssueDate.Format(shared.DateLayout),
		DueDate:      formatDate(ap.DueDate),
		Status:       ap.Status.String(),
		IsOverdue:    ap.IsOverdue(now),
		DaysOverdue:  ap.DaysOverdue(now),
		PaidAt:       ap.PaidAt,
		CancelledAt:  ap.CancelledAt,
		LegacyDebtID: ap.LegacyDebtID,
		CreatedBy:    ap.CreatedBy,
		CreatedAt:    ap.CreatedAt,
		UpdatedAt:    ap.UpdatedAt,
		Version:      ap.Version,
	}
	for i := range ap.Payments {
		resp.Payments = append(resp.Payments, toPayablePaymentResponse(&ap.Payments[i]))
	}
	return resp
}

// ToPayableResponses converts a slice of payables
func ToPayableResponses(items []finance.AccountPayable, now time.Time) []PayableResponse {
	out := make([]PayableResponse, len(items))
	for i := range items {
		out[i] = ToPayableResponse(&items[i], now)
	}
	return out
}

func toPayablePaymentResponse(p *finance.PayablePayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		DocumentID:    p.PayableID,
		Amount:        p.Amount,
		Date:          p.PaymentDate.Format(shared.DateLayout),
		Method:        string(p.Method),
		Reference:     p.Reference,
		Notes:         p.Notes,
		TransactionID: p.TransactionID,
		LegacyID:      p.LegacyDebtPaymentID,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
}

// ReceivableResponse represents an account receivable
type ReceivableResponse struct {
	ID             uuid.UUID         `json:"id"`
	BranchID       uuid.UUID         `json:"branch_id"`
	Number         string            `json:"number"`
	ContactID      uuid.UUID         `json:"contact_id"`
	ContactName    string            `json:"contact_name"`
	Description    string            `json:"description"`
	Amount         decimal.Decimal   `json:"amount"`
	ReceivedAmount decimal.Decimal   `json:"received_amount"`
	Outstanding    decimal.Decimal   `json:"outstanding"`
	IssueDate      string            `json:"issue_date"`
	DueDate        *string           `json:"due_date,omitempty"`
	Status         string            `json:"status"`
	IsOverdue      bool              `json:"is_overdue"`
	DaysOverdue    int               `json:"days_overdue"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	Receipts       []PaymentResponse `json:"receipts,omitempty"`
	CreatedBy      *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// ToReceivableResponse converts a domain receivable
func ToReceivableResponse(ar *finance.AccountReceivable, now time.Time) ReceivableResponse {
	resp := ReceivableResponse{
		ID:             ar.ID,
		BranchID:       ar.BranchID,
		Number:         ar.Number,
		ContactID:      ar.ContactID,
		ContactName:    ar.ContactName,
		Description:    ar.Description,
		Amount:         ar.Amount,
		ReceivedAmount: ar.ReceivedAmount,
		Outstanding:    ar.Outstanding(),
		IssueDate:      ar.IssueDate.Format(shared.DateLayout),
		DueDate:        formatDate(ar.DueDate),
		Status:         ar.Status.String(),
		IsOverdue:      ar.IsOverdue(now),
		DaysOverdue:    ar.DaysOverdue(now),
		PaidAt:         ar.PaidAt,
		CancelledAt:    ar.CancelledAt,
		CreatedBy:      ar.CreatedBy,
		CreatedAt:      ar.CreatedAt,
		UpdatedAt:      ar.UpdatedAt,
		Version:        ar.Version,
	}
	for i := range ar.Receipts {
		resp.Receipts = append(resp.Receipts, toReceiptResponse(&ar.Receipts[i]))
	}
	return resp
}

// ToReceivableResponses converts a slice of receivables
func ToReceivableResponses(items []finance.AccountReceivable, now time.Time) []ReceivableResponse {
	out := make([]ReceivableResponse, len(items))
	for i := range items {
		out[i] = ToReceivableResponse(&items[i], now)
	}
	return out
}

func toReceiptResponse(r *finance.ReceivableReceipt) PaymentResponse {
	return PaymentResponse{
		ID:            r.ID,
		DocumentID:    r.ReceivableID,
		Amount:        r.Amount,
		Date:          r.ReceiptDate.Format(shared.DateLayout),
		Method:        string(r.Method),
		Reference:     r.Reference,
		Notes:         r.Notes,
		TransactionID: r.TransactionID,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
	}
}

// SettlementResponse is returned after a payment or receipt is recorded
type SettlementResponse struct {
	Payment     PaymentResponse      `json:"payment"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Status      string               `json:"status"`
	Outstanding decimal.Decimal      `json:"outstanding"`
}

// ===================== Helpers =====================

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(shared.DateLayout)
	return &s
}

// parseDate parses a required YYYY-MM-DD value and reports errors against field
func parseDate(field, value string) (time.Time, error) {
	t, err := shared.ParseDate(value)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field, field+" must use the YYYY-MM-DD format")
	}
	return t, nil
}

// parseOptionalDate parses an optional date. Nil and blank values yield nil.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDateOr parses value, falling back to def when it is blank
func parseDateOr(field, value string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return parseDate(field, value)
}

func parseAmount(field, value string) (*decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, shared.NewValidationError(field, field+" must be a number")
	}
	return &d, nil
}

func pagingDefaults(page, pageSize *int, orderBy, orderDir *string, defOrder, defDir string) {
	if *page <= 0 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = 20
	}
	if *orderBy == "" {
		*orderBy = defOrder
	}
	if *orderDir == "" {
		*orderDir = defDir
	}
}
