package report

import (
	"sort"

	"github.com/erp/accounting/internal/domain/shared"
)

// Entity keys
const (
	EntityTransactions   = "transactions"
	EntityPayables       = "payables"
	EntityReceivables    = "receivables"
	EntityDebts          = "debts"
	EntityContacts       = "contacts"
	EntityInventoryItems = "inventory_items"
	EntityStockMovements = "stock_movements"
	EntityEmployees      = "employees"
	EntityPayroll        = "payroll"
)

// ErrUnknownEntity is returned for entity keys missing from the registry
var ErrUnknownEntity = shared.NewDomainError("INVALID_ENTITY", "Unknown report entity")

// Registry is the whitelist of reportable entities and fields.
// Only column expressions registered here ever reach SQL.
type Registry struct {
	entities map[string]*Entity
}

// NewRegistry indexes the given entities. Missing labels are derived from keys.
func NewRegistry(entities ...Entity) *Registry {
	r := &Registry{entities: make(map[string]*Entity, len(entities))}
	for i := range entities {
		e := entities[i]
		if e.Label == "" {
			e.Label = LabelFromKey(e.Key)
		}
		e.Fields = append([]Field(nil), e.Fields...)
		e.index = make(map[string]*Field, len(e.Fields))
		for j := range e.Fields {
			if e.Fields[j].Label == "" {
				e.Fields[j].Label = LabelFromKey(e.Fields[j].Key)
			}
			e.index[e.Fields[j].Key] = &e.Fields[j]
		}
		r.entities[e.Key] = &e
	}
	return r
}

// Entity returns one entity
func (r *Registry) Entity(key string) (*Entity, error) {
	e, ok := r.entities[key]
	if !ok {
		return nil, ErrUnknownEntity.WithDetail("entity", key)
	}
	return e, nil
}

// Entities returns all entities sorted by key, without their field lists
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, Entity{Key: e.Key, Label: e.Label, Description: e.Description, DefaultSort: e.DefaultSort})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

var (
	documentStatuses = []string{"PENDING", "PARTIAL", "PAID", "CANCELLED"}
	paymentMethods   = []string{"CASH", "BANK_TRANSFER", "CARD", "CHEQUE", "OTHER"}
)

// DefaultRegistry describes the application's tables
func DefaultRegistry() *Registry {
	return NewRegistry(
		Entity{
			Key:          EntityTransactions,
			Description:  "Income and expense entries",
			From:         "transactions t JOIN branches b ON b.id = t.branch_id LEFT JOIN contacts c ON c.id = t.contact_id",
			BranchColumn: "t.branch_id",
			DefaultSort:  "date",
			Fields: []Field{
				date("date", "t.date"),
				enum("type", "t.type", "INCOME", "EXPENSE"),
				text("category", "t.category"),
				money("amount", "t.amount"),
				enum("payment_method", "t.payment_method", paymentMethods...),
				text("description", "t.description"),
				text("reference", "t.reference"),
				enum("source", "t.source", "MANUAL", "PAYABLE_PAYMENT", "RECEIVABLE_RECEIPT", "PAYROLL"),
				text("contact_name", "c.name").label("Contact"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityPayables,
			Label:        "Accounts Payable",
			From:         "account_payables ap JOIN branches b ON b.id = ap.branch_id JOIN contacts c ON c.id = ap.contact_id",
			BranchColumn: "ap.branch_id",
			DefaultSort:  "issue_date",
			Fields: []Field{
				text("number", "ap.number"),
				text("supplier_name", "c.name").label("Supplier"),
				text("description", "ap.description"),
				money("amount", "ap.amount"),
				money("paid_amount", "ap.paid_amount"),
				money("outstanding", "(ap.amount - ap.paid_amount)"),
				date("issue_date", "ap.issue_date"),
				date("due_date", "ap.due_date"),
				enum("status", "ap.status", documentStatuses...),
				boolean("migrated", "(ap.legacy_debt_id IS NOT NULL)").label("From Legacy Debt"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityReceivables,
			Label:        "Accounts Receivable",
			From:         "account_receivables ar JOIN branches b ON b.id = ar.branch_id JOIN contacts c ON c.id = ar.contact_id",
			BranchColumn: "ar.branch_id",
			DefaultSort:  "issue_date",
			Fields: []Field{
				text("number", "ar.number"),
				text("customer_name", "c.name").label("Customer"),
				text("description", "ar.description"),
				money("amount", "ar.amount"),
				money("received_amount", "ar.received_amount"),
				money("outstanding", "(ar.amount - ar.received_amount)"),
				date("issue_date", "ar.issue_date"),
				date("due_date", "ar.due_date"),
				enum("status", "ar.status", documentStatuses...),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityDebts,
			Label:        "Legacy Debts",
			From:         "debts d JOIN branches b ON b.id = d.branch_id",
			BranchColumn: "d.branch_id",
			DefaultSort:  "created_at",
			Fields: []Field{
				text("creditor_name", "d.creditor_name").label("Creditor"),
				text("description", "d.description"),
				money("amount", "d.amount"),
				money("paid_amount", "d.paid_amount"),
				money("remaining", "(d.amount - d.paid_amount)"),
				date("due_date", "d.due_date"),
				enum("status", "d.status", "PENDING", "PARTIALLY_PAID", "PAID"),
				boolean("migrated", "(d.migrated_at IS NOT NULL)"),
				date("created_at", "d.created_at"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityContacts,
			From:         "contacts ct JOIN branches b ON b.id = ct.branch_id",
			BranchColumn: "ct.branch_id",
			DefaultSort:  "name",
			Fields: []Field{
				text("name", "ct.name"),
				enum("type", "ct.type", "CUSTOMER", "SUPPLIER", "BOTH"),
				text("phone", "ct.phone"),
				text("email", "ct.email"),
				text("tax_number", "ct.tax_number"),
				boolean("is_active", "ct.is_active").label("Active"),
				date("created_at", "ct.created_at"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityInventoryItems,
			Label:        "Inventory",
			From:         "inventory_items i JOIN branches b ON b.id = i.branch_id",
			BranchColumn: "i.branch_id",
			DefaultSort:  "sku",
			Fields: []Field{
				text("sku", "i.sku").label("SKU"),
				text("name", "i.name"),
				text("category", "i.category"),
				text("unit", "i.unit"),
				number("quantity", "i.quantity"),
				money("unit_cost", "i.unit_cost"),
				money("sale_price", "i.sale_price"),
				number("reorder_level", "i.reorder_level"),
				money("stock_value", "(i.quantity * i.unit_cost)"),
				boolean("low_stock", "(i.reorder_level > 0 AND i.quantity <= i.reorder_level)"),
				boolean("is_active", "i.is_active").label("Active"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityStockMovements,
			From:         "stock_movements m JOIN inventory_items i ON i.id = m.item_id JOIN branches b ON b.id = m.branch_id",
			BranchColumn: "m.branch_id",
			DefaultSort:  "date",
			Fields: []Field{
				date("date", "m.date"),
				enum("type", "m.type", "IN", "OUT", "ADJUSTMENT"),
				text("sku", "i.sku").label("SKU"),
				text("item_name", "i.name").label("Item"),
				text("category", "i.category"),
				number("quantity", "m.quantity"),
				money("unit_cost", "m.unit_cost"),
				money("value", "(m.quantity * m.unit_cost)"),
				number("balance_after", "m.balance_after"),
				text("reference", "m.reference"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityEmployees,
			From:         "employees e JOIN branches b ON b.id = e.branch_id",
			BranchColumn: "e.branch_id",
			DefaultSort:  "code",
			Fields: []Field{
				text("code", "e.code"),
				text("full_name", "e.full_name").label("Name"),
				text("position", "e.position"),
				text("department", "e.department"),
				date("hire_date", "e.hire_date"),
				money("base_salary", "e.base_salary"),
				enum("status", "e.status", "ACTIVE", "INACTIVE", "TERMINATED"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
		Entity{
			Key:          EntityPayroll,
			From:         "payroll_records p JOIN employees e ON e.id = p.employee_id JOIN branches b ON b.id = p.branch_id",
			BranchColumn: "p.branch_id",
			DefaultSort:  "period",
			Fields: []Field{
				text("period", "p.period"),
				text("employee_code", "e.code"),
				text("employee_name", "e.full_name").label("Employee"),
				text("department", "e.department"),
				money("base_salary", "p.base_salary"),
				money("allowances", "p.allowances"),
				money("bonuses", "p.bonuses"),
				money("deductions", "p.deductions"),
				money("net_pay", "p.net_pay"),
				enum("status", "p.status", "DRAFT", "APPROVED", "PAID"),
				date("paid_at", "p.paid_at"),
				text("branch_name", "b.name").label("Branch"),
			},
		},
	)
}
