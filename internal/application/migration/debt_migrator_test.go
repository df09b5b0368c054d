package migration_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/erp/accounting/internal/application/migration"
	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	migrator *migration.DebtMigrator
	debts    *persistence.GormDebtRepository
	contacts *persistence.GormContactRepository
	payables *persistence.GormAccountPayableRepository
	branch   uuid.UUID
	user     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migration.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return &fixture{
		db:       db,
		migrator: migration.NewDebtMigrator(persistence.NewMigrationTransactionScope(db), persistence.NewGormMigrationLedger(db), nil, nil),
		debts:    persistence.NewGormDebtRepository(db),
		contacts: persistence.NewGormContactRepository(db),
		payables: persistence.NewGormAccountPayableRepository(db),
		branch:   uuid.New(),
		user:     uuid.New(),
	}
}

// seedDebt stores a debt created on createdAt with the given installments
func (f *fixture) seedDebt(t *testing.T, creditor string, amount int64, createdAt time.Time, payments ...int64) *finance.Debt {
	t.Helper()
	ctx := context.Background()
	d, err := finance.NewDebt(f.branch, f.user, creditor, "legacy", decimal.NewFromInt(amount), nil)
	require.NoError(t, err)
	d.CreatedAt = createdAt
	d.UpdatedAt = createdAt

	var added []*finance.DebtPayment
	for i, p := range payments {
		payment, err := d.AddPayment(decimal.NewFromInt(p), createdAt.AddDate(0, 0, i+1), "", &f.user)
		require.NoError(t, err)
		added = append(added, payment)
	}
	require.NoError(t, f.debts.Save(ctx, d))
	for _, p := range added {
		require.NoError(t, f.debts.AddPayment(ctx, p))
	}
	return d
}

func (f *fixture) seedContact(t *testing.T, name string, typ contact.Type) *contact.Contact {
	t.Helper()
	c, err := contact.NewContact(f.branch, f.user, typ, name, contact.Details{})
	require.NoError(t, err)
	require.NoError(t, f.contacts.Save(context.Background(), c))
	return c
}

func (f *fixture) count(t *testing.T, table, where string) int64 {
	t.Helper()
	var n int64
	q := f.db.Table(table)
	if where != "" {
		q = q.Where(where)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

var ignoreSkipped = cmpopts.IgnoreFields(migration.Report{}, "Skipped")

func decimalEqual() cmp.Option {
	return cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
}

func TestDebtMigrator_Run(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDebt(t, "Acme Supply", 1000, day(2024, 3, 1), 400, 100)
	f.seedDebt(t, "  acme   SUPPLY ", 250, day(2024, 4, 2))
	f.seedDebt(t, "Northwind", 300, day(2024, 5, 3), 300)
	customer := f.seedContact(t, "Northwind", contact.TypeCustomer)

	report, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)

	want := &migration.Report{
		DebtsScanned:     3,
		DebtsMigrated:    3,
		ContactsCreated:  1,
		ContactsReused:   1,
		ContactsPromoted: 1,
		PaymentsCopied:   3,
		Sums: migration.Sums{
			SourceAmount:   decimal.NewFromInt(1550),
			TargetAmount:   decimal.NewFromInt(1550),
			SourcePaid:     decimal.NewFromInt(800),
			TargetPaid:     decimal.NewFromInt(800),
			SourcePayments: decimal.NewFromInt(800),
			TargetPayments: decimal.NewFromInt(800),
		},
	}
	if diff := cmp.Diff(want, report, decimalEqual()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, report.Sums.Balanced())
	assert.Equal(t, report.DebtsMigrated, report.ContactsCreated+report.ContactsReused+report.ContactsPromoted,
		"every migrated debt resolves exactly one contact")

	assert.Equal(t, int64(0), f.count(t, "debts", "migrated_at IS NULL"))
	assert.Equal(t, int64(3), f.count(t, "account_payables", "legacy_debt_id IS NOT NULL"))
	assert.Equal(t, int64(3), f.count(t, "payable_payments", "legacy_debt_payment_id IS NOT NULL"))
	assert.Equal(t, int64(2), f.count(t, "contacts", ""), "the two acme spellings share one contact")

	promoted, err := f.contacts.FindByID(ctx, shared.AllBranches(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.TypeBoth, promoted.Type)

	payables, err := f.payables.FindAll(ctx, finance.DocumentFilter{Scope: shared.AllBranches()})
	require.NoError(t, err)
	require.Len(t, payables, 3)
	numbers := map[string]bool{}
	for _, ap := range payables {
		numbers[ap.Number] = true
	}
	assert.True(t, numbers["AP-20240301-00001"], "numbers follow the debt creation date")

	verify, err := f.migrator.Verify(ctx, nil)
	require.NoError(t, err)
	assert.True(t, verify.OK)
	assert.Empty(t, verify.Mismatches)
}

func TestDebtMigrator_Run_DryRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDebt(t, "Acme Supply", 1000, day(2024, 3, 1), 400)

	report, err := f.migrator.Run(ctx, migration.RunOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.DebtsMigrated)
	assert.Equal(t, 1, report.ContactsCreated)
	assert.Equal(t, int64(1), f.count(t, "debts", "migrated_at IS NULL"), "dry run rolls back")
	assert.Equal(t, int64(0), f.count(t, "account_payables", ""))
	assert.Equal(t, int64(0), f.count(t, "contacts", ""))

	applied, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)
	if diff := cmp.Diff(report, applied, decimalEqual(), ignoreSkipped, cmpopts.IgnoreFields(migration.Report{}, "DryRun")); diff != "" {
		t.Errorf("dry run differs from the real run (-dry +real):\n%s", diff)
	}
}

func TestDebtMigrator_Run_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDebt(t, "Acme Supply", 500, day(2024, 1, 10), 200)

	_, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)

	again, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.DebtsScanned)
	assert.Equal(t, int64(1), f.count(t, "account_payables", ""))

	f.seedDebt(t, "Acme Supply", 75, day(2024, 6, 1))
	third, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, third.DebtsMigrated)
	assert.Equal(t, 0, third.ContactsCreated)
	assert.Equal(t, 1, third.ContactsReused)
	assert.Equal(t, int64(1), f.count(t, "contacts", ""))
}

func TestDebtMigrator_Run_SkipsInconsistentDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broken := f.seedDebt(t, "Globex", 900, day(2024, 2, 1), 100)
	require.NoError(t, f.db.Table("debts").Where("id = ?", broken.ID).Update("paid_amount", 150).Error)
	f.seedDebt(t, "Initech", 120, day(2024, 2, 2))

	report, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DebtsMigrated)
	assert.Equal(t, 1, report.DebtsSkipped)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, broken.ID, report.Skipped[0].DebtID)
	assert.True(t, report.Skipped[0].PaymentsTotal.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(1), f.count(t, "debts", "migrated_at IS NULL"))
}

func TestDebtMigrator_Run_BranchFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDebt(t, "Acme Supply", 100, day(2024, 1, 1))
	other := f.branch
	f.branch = uuid.New()
	f.seedDebt(t, "Acme Supply", 200, day(2024, 1, 2))

	report, err := f.migrator.Run(ctx, migration.RunOptions{BranchID: &other})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DebtsScanned)
	assert.Equal(t, int64(1), f.count(t, "debts", "migrated_at IS NULL"))
}

func TestDebtMigrator_Verify_ReportsMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDebt(t, "Acme Supply", 1000, day(2024, 3, 1), 400)
	_, err := f.migrator.Run(ctx, migration.RunOptions{})
	require.NoError(t, err)

	require.NoError(t, f.db.Table("account_payables").Where("1 = 1").Update("paid_amount", 450).Error)

	verify, err := f.migrator.Verify(ctx, nil)
	require.NoError(t, err)

	assert.False(t, verify.OK)
	require.Len(t, verify.Mismatches, 1)
	assert.True(t, verify.Mismatches[0].PaidAmount.Equal(decimal.NewFromInt(450)))
	assert.True(t, verify.Mismatches[0].PaymentsTotal.Equal(decimal.NewFromInt(400)))

	failed := map[string]bool{}
	for _, c := range verify.Checks {
		if !c.OK {
			failed[c.Name] = true
		}
	}
	assert.True(t, failed["debt paid = payable paid"])
	assert.True(t, failed["payables with paid != sum of payments"])
	assert.False(t, failed["debt amount = payable amount"])
}
