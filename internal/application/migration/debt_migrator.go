// Package migration moves legacy debts into contacts and accounts payable.
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// errDryRun rolls back the transaction of a dry run
var errDryRun = errors.New("dry run rollback")

// Ledger reads the totals verification compares
type Ledger interface {
	Totals(ctx context.Context, scope shared.Scope) (*LedgerTotals, error)
	PaidMismatches(ctx context.Context, scope shared.Scope) ([]PaidMismatch, error)
}

// DebtMigrator runs the Debt -> Contact + AccountPayable + PayablePayment migration
type DebtMigrator struct {
	txScope TransactionScope
	ledger  Ledger
	metrics *telemetry.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewDebtMigrator creates a DebtMigrator
func NewDebtMigrator(txScope TransactionScope, ledger Ledger, metrics *telemetry.Metrics, logger *zap.Logger) *DebtMigrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebtMigrator{txScope: txScope, ledger: ledger, metrics: metrics, logger: logger, now: time.Now}
}

// Run migrates every debt that has not been migrated yet, oldest first, in one
// transaction. A dry run does the same work and rolls it back. Running again
// only picks up debts created since.
func (m *DebtMigrator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	scope := shared.AllBranches()
	if opts.BranchID != nil && *opts.BranchID != uuid.Nil {
		scope = shared.BranchScope(*opts.BranchID)
	}
	log := m.logger.With(zap.Bool("dry_run", opts.DryRun))

	var report *Report
	err := m.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		report = newReport(opts.DryRun)
		run := &migrationRun{
			repos:    repos,
			report:   report,
			contacts: make(map[string]*contact.Contact),
			now:      m.now(),
			logger:   log,
		}
		if err := run.execute(ctx, scope); err != nil {
			return err
		}
		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		log.Error("debt migration failed", zap.Error(err))
		return nil, err
	}

	if !opts.DryRun {
		m.metrics.RecordMigratedDebts(ctx, report.DebtsMigrated)
	}
	log.Info("debt migration finished",
		zap.Int("scanned", report.DebtsScanned),
		zap.Int("migrated", report.DebtsMigrated),
		zap.Int("skipped", report.DebtsSkipped),
		zap.Int("contacts_created", report.ContactsCreated),
		zap.Int("contacts_promoted", report.ContactsPromoted),
		zap.Int("payments_copied", report.PaymentsCopied),
		zap.Bool("balanced", report.Sums.Balanced()),
	)
	return report, nil
}

// Verify compares the legacy tables with the migrated payables
func (m *DebtMigrator) Verify(ctx context.Context, branchID *uuid.UUID) (*VerifyReport, error) {
	scope := shared.AllBranches()
	if branchID != nil && *branchID != uuid.Nil {
		scope = shared.BranchScope(*branchID)
	}
	totals, err := m.ledger.Totals(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load migration totals: %w", err)
	}
	mismatches, err := m.ledger.PaidMismatches(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load paid mismatches: %w", err)
	}

	v := &VerifyReport{Mismatches: mismatches}
	v.Checks = []Check{
		countCheck("migrated debts = legacy payables", totals.MigratedDebts, totals.LegacyPayables),
		sumCheck("debt amount = payable amount", totals.DebtAmount, totals.PayableAmount),
		sumCheck("debt paid = payable paid", totals.DebtPaid, totals.PayablePaid),
		countCheck("debt payments = legacy payable payments", totals.DebtPayments, totals.LegacyPayments),
		sumCheck("debt payments sum = legacy payable payments sum", totals.DebtPaymentsAmount, totals.LegacyPaymentsAmount),
		countCheck("payables with paid != sum of payments", 0, int64(len(mismatches))),
	}
	v.OK = true
	for _, c := range v.Checks {
		v.OK = v.OK && c.OK
	}
	return v, nil
}

func countCheck(name string, source, target int64) Check {
	return Check{Name: name, Source: fmt.Sprint(source), Target: fmt.Sprint(target), OK: source == target}
}

func sumCheck(name string, source, target decimal.Decimal) Check {
	return Check{Name: name, Source: source.StringFixed(2), Target: target.StringFixed(2), OK: source.Equal(target)}
}

// migrationRun holds the state of one pass over the unmigrated debts
type migrationRun struct {
	repos    TransactionalRepositories
	report   *Report
	contacts map[string]*contact.Contact
	now      time.Time
	logger   *zap.Logger
}

func (r *migrationRun) execute(ctx context.Context, scope shared.Scope) error {
	debts, err := r.repos.DebtRepo().FindUnmigrated(ctx, scope)
	if err != nil {
		return fmt.Errorf("load unmigrated debts: %w", err)
	}
	r.report.DebtsScanned = len(debts)
	for i := range debts {
		if err := r.migrate(ctx, &debts[i]); err != nil {
			return fmt.Errorf("migrate debt %s: %w", debts[i].ID, err)
		}
	}
	return nil
}

func (r *migrationRun) migrate(ctx context.Context, d *finance.Debt) error {
	paymentsTotal := d.PaymentsTotal()
	if !d.PaidAmount.Equal(paymentsTotal) {
		r.skip(d, "paid amount differs from the sum of payments", paymentsTotal)
		return nil
	}
	if shared.NormalizeName(d.CreditorName) == "" {
		r.skip(d, "creditor name is empty", paymentsTotal)
		return nil
	}

	supplier, err := r.supplierFor(ctx, d)
	if errors.Is(err, shared.ErrValidation) {
		r.skip(d, "creditor name is not a valid contact name", paymentsTotal)
		return nil
	}
	if err != nil {
		return err
	}

	number, err := r.repos.PayableRepo().NextNumber(ctx, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("allocate payable number: %w", err)
	}
	ap := finance.AccountPayableFromDebt(d, supplier.ID, number)
	ap.ContactName = supplier.Name
	if err := r.repos.PayableRepo().Save(ctx, ap); err != nil {
		return fmt.Errorf("save payable: %w", err)
	}
	targetPayments := decimal.Zero
	for i := range ap.Payments {
		if err := r.repos.PayableRepo().AddPayment(ctx, &ap.Payments[i]); err != nil {
			return fmt.Errorf("copy payment: %w", err)
		}
		targetPayments = targetPayments.Add(ap.Payments[i].Amount)
		r.report.PaymentsCopied++
	}

	d.MarkMigrated(ap.ID, r.now)
	if err := r.repos.DebtRepo().Save(ctx, d); err != nil {
		return fmt.Errorf("mark debt migrated: %w", err)
	}

	r.report.DebtsMigrated++
	sums := &r.report.Sums
	sums.SourceAmount = sums.SourceAmount.Add(d.Amount)
	sums.TargetAmount = sums.TargetAmount.Add(ap.Amount)
	sums.SourcePaid = sums.SourcePaid.Add(d.PaidAmount)
	sums.TargetPaid = sums.TargetPaid.Add(ap.PaidAmount)
	sums.SourcePayments = sums.SourcePayments.Add(paymentsTotal)
	sums.TargetPayments = sums.TargetPayments.Add(targetPayments)

	r.logger.Debug("debt migrated",
		zap.String("debt_id", d.ID.String()),
		zap.String("payable_number", ap.Number),
		zap.String("contact", supplier.Name),
	)
	return nil
}

func (r *migrationRun) skip(d *finance.Debt, reason string, paymentsTotal decimal.Decimal) {
	r.report.DebtsSkipped++
	r.report.Skipped = append(r.report.Skipped, SkippedDebt{
		DebtID:        d.ID,
		CreditorName:  d.CreditorName,
		Reason:        reason,
		PaidAmount:    d.PaidAmount,
		PaymentsTotal: paymentsTotal,
	})
	r.logger.Warn("debt skipped",
		zap.String("debt_id", d.ID.String()),
		zap.String("reason", reason),
	)
}

// supplierFor finds the contact a debt's creditor maps to within its branch.
// Customers are promoted to BOTH; unknown names become new suppliers.
// Each call counts once as created, promoted or reused.
func (r *migrationRun) supplierFor(ctx context.Context, d *finance.Debt) (*contact.Contact, error) {
	normalized := shared.NormalizeName(d.CreditorName)
	key := d.BranchID.String() + "|" + normalized
	if c, ok := r.contacts[key]; ok {
		r.report.ContactsReused++
		return c, nil
	}

	c, err := r.repos.ContactRepo().FindByNormalizedName(ctx, d.BranchID, normalized)
	switch {
	case err == nil:
		if c.EnsureSupplier() {
			if err := r.repos.ContactRepo().Save(ctx, c); err != nil {
				return nil, fmt.Errorf("promote contact: %w", err)
			}
			r.report.ContactsPromoted++
		} else {
			r.report.ContactsReused++
		}
	case errors.Is(err, shared.ErrNotFound):
		c, err = contact.NewContact(d.BranchID, uuid.Nil, contact.TypeSupplier, d.CreditorName, contact.Details{})
		if err != nil {
			return nil, err
		}
		c.CreatedBy = d.CreatedBy
		if err := r.repos.ContactRepo().Save(ctx, c); err != nil {
			return nil, fmt.Errorf("create contact: %w", err)
		}
		r.report.ContactsCreated++
	default:
		return nil, fmt.Errorf("find contact: %w", err)
	}

	r.contacts[key] = c
	return c, nil
}
