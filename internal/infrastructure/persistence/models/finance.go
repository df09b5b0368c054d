package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for income and expense entries
type TransactionModel struct {
	BranchAggregateModel
	Type          string          `gorm:"type:varchar(10);not null;index"`
	Category      string          `gorm:"type:varchar(100);not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	Description   string          `gorm:"type:text"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'CASH'"`
	Reference     string          `gorm:"type:varchar(100)"`
	ContactID     *uuid.UUID      `gorm:"type:uuid;index"`
	AttachmentKey string          `gorm:"type:varchar(500)"`
	Source        string          `gorm:"type:varchar(30);not null;default:'MANUAL';index:idx_transaction_source,priority:1"`
	SourceID      *uuid.UUID      `gorm:"type:uuid;index:idx_transaction_source,priority:2"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain Transaction
func (m *TransactionModel) ToDomain() *finance.Transaction {
	t := &finance.Transaction{
		Type:          finance.TransactionType(m.Type),
		Category:      m.Category,
		Amount:        m.Amount,
		Date:          m.Date,
		Description:   m.Description,
		PaymentMethod: finance.PaymentMethod(m.PaymentMethod),
		Reference:     m.Reference,
		ContactID:     m.ContactID,
		AttachmentKey: m.AttachmentKey,
		Source:        finance.TransactionSource(m.Source),
		SourceID:      m.SourceID,
	}
	m.PopulateBranchAggregateRoot(&t.BranchAggregateRoot)
	return t
}

// TransactionModelFromDomain converts a domain Transaction to its model
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{
		Type:          string(t.Type),
		Category:      t.Category,
		Amount:        t.Amount,
		Date:          t.Date,
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		Reference:     t.Reference,
		ContactID:     t.ContactID,
		AttachmentKey: t.AttachmentKey,
		Source:        string(t.Source),
		SourceID:      t.SourceID,
	}
	m.FromDomainBranchAggregateRoot(t.BranchAggregateRoot)
	return m
}

// DebtModel is the persistence model for legacy debts
type DebtModel struct {
	BranchAggregateModel
	CreditorName      string             `gorm:"type:varchar(200);not null"`
	Description       string             `gorm:"type:text"`
	Amount            decimal.Decimal    `gorm:"type:numeric(18,4);not null"`
	PaidAmount        decimal.Decimal    `gorm:"type:numeric(18,4);not null;default:0"`
	DueDate           *time.Time         `gorm:"type:date"`
	Status            string             `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	MigratedAt        *time.Time         `gorm:"index"`
	MigratedPayableID *uuid.UUID         `gorm:"type:uuid"`
	Payments          []DebtPaymentModel `gorm:"foreignKey:DebtID;references:ID"`
}

// TableName returns the table name for GORM
func (DebtModel) TableName() string {
	return "debts"
}

// ToDomain converts the model to a domain Debt
func (m *DebtModel) ToDomain() *finance.Debt {
	d := &finance.Debt{
		CreditorName:      m.CreditorName,
		Description:       m.Description,
		Amount:            m.Amount,
		PaidAmount:        m.PaidAmount,
		DueDate:           m.DueDate,
		Status:            finance.DebtStatus(m.Status),
		MigratedAt:        m.MigratedAt,
		MigratedPayableID: m.MigratedPayableID,
	}
	m.PopulateBranchAggregateRoot(&d.BranchAggregateRoot)
	for i := range m.Payments {
		d.Payments = append(d.Payments, m.Payments[i].ToDomain())
	}
	return d
}

// DebtModelFromDomain converts a domain Debt to its model without payments
func DebtModelFromDomain(d *finance.Debt) *DebtModel {
	m := &DebtModel{
		CreditorName:      d.CreditorName,
		Description:       d.Description,
		Amount:            d.Amount,
		PaidAmount:        d.PaidAmount,
		DueDate:           d.DueDate,
		Status:            string(d.Status),
		MigratedAt:        d.MigratedAt,
		MigratedPayableID: d.MigratedPayableID,
	}
	m.FromDomainBranchAggregateRoot(d.BranchAggregateRoot)
	return m
}

// DebtPaymentModel is one installment against a legacy debt
type DebtPaymentModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DebtID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PaymentDate time.Time       `gorm:"type:date;not null"`
	Notes       string          `gorm:"type:text"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DebtPaymentModel) TableName() string {
	return "debt_payments"
}

// ToDomain converts the model to a domain DebtPayment
func (m *DebtPaymentModel) ToDomain() finance.DebtPayment {
	return finance.DebtPayment{
		ID:          m.ID,
		DebtID:      m.DebtID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// DebtPaymentModelFromDomain converts a domain DebtPayment to its model
func DebtPaymentModelFromDomain(p *finance.DebtPayment) *DebtPaymentModel {
	return &DebtPaymentModel{
		ID:          p.ID,
		DebtID:      p.DebtID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

// AccountPayableModel is the persistence model for the AccountPayable aggregate root
type AccountPayableModel struct {
	BranchAggregateModel
	Number       string                `gorm:"type:varchar(30);not null;uniqueIndex"`
	ContactID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	Description  string                `gorm:"type:text"`
	Amount       decimal.Decimal       `gorm:"type:numeric(18,4);not null"`
	PaidAmount   decimal.Decimal       `gorm:"type:numeric(18,4);not null;default:0"`
	IssueDate    time.Time             `gorm:"type:date;not null"`
	DueDate      *time.Time            `gorm:"type:date;index"`
	Status       string                `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt       *time.Time            `gorm:"column:paid_at"`
	CancelledAt  *time.Time            `gorm:"column:cancelled_at"`
	LegacyDebtID *uuid.UUID            `gorm:"type:uuid;uniqueIndex"`
	Contact      *ContactModel         `gorm:"foreignKey:ContactID;references:ID"`
	Payments     []PayablePaymentModel `gorm:"foreignKey:PayableID;references:ID"`
}

// TableName returns the table name for GORM
func (AccountPayableModel) TableName() string {
	return "account_payables"
}

// ToDomain converts the model to a domain AccountPayable
func (m *AccountPayableModel) ToDomain() *finance.AccountPayable {
	ap := &finance.AccountPayable{
		Number:       m.Number,
		ContactID:    m.ContactID,
		Description:  m.Description,
		Amount:       m.Amount,
		PaidAmount:   m.PaidAmount,
		IssueDate:    m.IssueDate,
		DueDate:      m.DueDate,
		Status:       finance.DocumentStatus(m.Status),
		PaidAt:       m.PaidAt,
		CancelledAt:  m.CancelledAt,
		LegacyDebtID: m.LegacyDebtID,
	}
	m.PopulateBranchAggregateRoot(&ap.BranchAggregateRoot)
	if m.Contact != nil {
		ap.ContactName = m.Contact.Name
	}
	for i := range m.Payments {
		ap.Payments = append(ap.Payments, m.Payments[i].ToDomain())
	}
	return ap
}

// AccountPayableModelFromDomain converts a domain AccountPayable to its model without payments
func AccountPayableModelFromDomain(ap *finance.AccountPayable) *AccountPayableModel {
	m := &AccountPayableModel{
		Number:       ap.Number,
		ContactID:    ap.ContactID,
		Description:  ap.Description,
		Amount:       ap.Amount,
		PaidAmount:   ap.PaidAmount,
		IssueDate:    ap.IssueDate,
		DueDate:      ap.DueDate,
		Status:       string(ap.Status),
		PaidAt:       ap.PaidAt,
		CancelledAt:  ap.CancelledAt,
		LegacyDebtID: ap.LegacyDebtID,
	}
	m.FromDomainBranchAggregateRoot(ap.BranchAggregateRoot)
	return m
}

// PayablePaymentModel is a payment applied to a payable
type PayablePaymentModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayableID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount              decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PaymentDate         time.Time       `gorm:"type:date;not null"`
	Method              string          `gorm:"type:varchar(20);not null"`
	Reference           string          `gorm:"type:varchar(100)"`
	Notes               string          `gorm:"type:text"`
	TransactionID       *uuid.UUID      `gorm:"type:uuid"`
	LegacyDebtPaymentID *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	CreatedBy           *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayablePaymentModel) TableName() string {
	return "payable_payments"
}

// ToDomain converts the model to a domain PayablePayment
func (m *PayablePaymentModel) ToDomain() finance.PayablePayment {
	return finance.PayablePayment{
		ID:                  m.ID,
		PayableID:           m.PayableID,
		BranchID:            m.BranchID,
		Amount:              m.Amount,
		PaymentDate:         m.PaymentDate,
		Method:              finance.PaymentMethod(m.Method),
		Reference:           m.Reference,
		Notes:               m.Notes,
		TransactionID:       m.TransactionID,
		LegacyDebtPaymentID: m.LegacyDebtPaymentID,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt,
	}
}

// PayablePaymentModelFromDomain converts a domain PayablePayment to its model
func PayablePaymentModelFromDomain(p *finance.PayablePayment) *PayablePaymentModel {
	return &PayablePaymentModel{
		ID:                  p.ID,
		PayableID:           p.PayableID,
		BranchID:            p.BranchID,
		Amount:              p.Amount,
		PaymentDate:         p.PaymentDate,
		Method:              string(p.Method),
		Reference:           p.Reference,
		Notes:               p.Notes,
		TransactionID:       p.TransactionID,
		LegacyDebtPaymentID: p.LegacyDebtPaymentID,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
	}
}

// AccountReceivableModel is the persistence model for the AccountReceivable aggregate root
type AccountReceivableModel struct {
	BranchAggregateModel
	Number         string                   `gorm:"type:varchar(30);not null;uniqueIndex"`
	ContactID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	Description    string                   `gorm:"type:text"`
	Amount         decimal.Decimal          `gorm:"type:numeric(18,4);not null"`
	ReceivedAmount decimal.Decimal          `gorm:"type:numeric(18,4);not null;default:0"`
	IssueDate      time.Time                `gorm:"type:date;not null"`
	DueDate        *time.Time               `gorm:"type:date;index"`
	Status         string                   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt         *time.Time               `gorm:"column:paid_at"`
	CancelledAt    *time.Time               `gorm:"column:cancelled_at"`
	Contact        *ContactModel            `gorm:"foreignKey:ContactID;references:ID"`
	Receipts       []ReceivableReceiptModel `gorm:"foreignKey:ReceivableID;references:ID"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "account_receivables"
}

// ToDomain converts the model to a domain AccountReceivable
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	ar := &finance.AccountReceivable{
		Number:         m.Number,
		ContactID:      m.ContactID,
		Description:    m.Description,
		Amount:         m.Amount,
		ReceivedAmount: m.ReceivedAmount,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		Status:         finance.DocumentStatus(m.Status),
		PaidAt:         m.PaidAt,
		CancelledAt:    m.CancelledAt,
	}
	m.PopulateBranchAggregateRoot(&ar.BranchAggregateRoot)
	if m.Contact != nil {
		ar.ContactName = m.Contact.Name
	}
	for i := range m.Receipts {
		ar.Receipts = append(ar.Receipts, m.Receipts[i].ToDomain())
	}
	return ar
}

// AccountReceivableModelFromDomain converts a domain AccountReceivable to its model without receipts
func AccountReceivableModelFromDomain(ar *finance.AccountReceivable) *AccountReceivableModel {
	m := &AccountReceivableModel{
		Number:         ar.Number,
		ContactID:      ar.ContactID,
		Description:    ar.Description,
		Amount:         ar.Amount,
		ReceivedAmount: ar.ReceivedAmount,
		IssueDate:      ar.IssueDate,
		DueDate:        ar.DueDate,
		Status:         string(ar.Status),
		PaidAt:         ar.PaidAt,
		CancelledAt:    ar.CancelledAt,
	}
	m.FromDomainBranchAggregateRoot(ar.BranchAggregateRoot)
	return m
}

// ReceivableReceiptModel is money received against a receivable
type ReceivableReceiptModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceivableID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	ReceiptDate   time.Time       `gorm:"type:date;not null"`
	Method        string          `gorm:"type:varchar(20);not null"`
	Reference     string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	TransactionID *uuid.UUID      `gorm:"type:uuid"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceivableReceiptModel) TableName() string {
	return "receivable_receipts"
}

// ToDomain converts the model to a domain ReceivableReceipt
func (m *ReceivableReceiptModel) ToDomain() finance.ReceivableReceipt {
	return finance.ReceivableReceipt{
		ID:            m.ID,
		ReceivableID:  m.ReceivableID,
		BranchID:      m.BranchID,
		Amount:        m.Amount,
		ReceiptDate:   m.ReceiptDate,
		Method:        finance.PaymentMethod(m.Method),
		Reference:     m.Reference,
		Notes:         m.Notes,
		TransactionID: m.TransactionID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ReceivableReceiptModelFromDomain converts a domain ReceivableReceipt to its model
func ReceivableReceiptModelFromDomain(r *finance.ReceivableReceipt) *ReceivableReceiptModel {
	return &ReceivableReceiptModel{
		ID:            r.ID,
		ReceivableID:  r.ReceivableID,
		BranchID:      r.BranchID,
		Amount:        r.Amount,
		ReceiptDate:   r.ReceiptDate,
		Method:        string(r.Method),
		Reference:     r.Reference,
		Notes:         r.Notes,
		TransactionID: r.TransactionID,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
	}
}

// DocumentSequenceModel holds the last number issued per prefix and day
type DocumentSequenceModel struct {
	Prefix    string    `gorm:"type:varchar(10);primaryKey"`
	Day       string    `gorm:"type:varchar(8);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
