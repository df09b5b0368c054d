// Command debtmigrate moves legacy debts into contacts and accounts payable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/erp/accounting/internal/application/migration"
	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/erp/accounting/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errMismatch makes the process exit non-zero without printing a second error
var errMismatch = errors.New("ledger mismatch")

var (
	branchFlag string
	dryRun     bool
	jsonOutput bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "debtmigrate",
	Short:         "Migrate legacy debts to contacts and accounts payable",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Copy every unmigrated debt into a supplier payable",
	Long: `Copy every unmigrated debt into a supplier payable.

Each debt becomes one payable for a supplier contact matched by creditor name,
with its payments copied one for one. Debts already migrated are left alone, so
running twice is safe. With --dry-run the work is rolled back after the report
is built.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.DebtMigrator, branchID *uuid.UUID) error {
			report, err := m.Run(ctx, migration.RunOptions{DryRun: dryRun, BranchID: branchID})
			if err != nil {
				return err
			}
			if err := printRun(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Sums.Balanced() {
				return errMismatch
			}
			return nil
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare migrated debts with their payables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.DebtMigrator, branchID *uuid.UUID) error {
			report, err := m.Verify(ctx, branchID)
			if err != nil {
				return err
			}
			if err := printVerify(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK {
				return errMismatch
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&branchFlag, "branch", "", "limit to one branch id")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "roll back after building the report")
	rootCmd.AddCommand(runCmd, verifyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errMismatch) {
			fmt.Fprintln(os.Stderr, "debtmigrate:", err)
		}
		os.Exit(1)
	}
}

func withMigrator(ctx context.Context, fn func(context.Context, *migration.DebtMigrator, *uuid.UUID) error) error {
	var branchID *uuid.UUID
	if branchFlag != "" {
		id, err := uuid.Parse(branchFlag)
		if err != nil {
			return fmt.Errorf("invalid --branch %q: %w", branchFlag, err)
		}
		branchID = &id
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	gormLog := logger.NewGormLogger(log, logger.GormLevel(logLevel), cfg.Database.SlowQueryThreshold)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	m := migration.NewDebtMigrator(
		persistence.NewMigrationTransactionScope(db.DB),
		persistence.NewGormMigrationLedger(db.DB),
		nil,
		log,
	)
	return fn(ctx, m, branchID)
}

func printRun(w io.Writer, r *migration.Report) error {
	if jsonOutput {
		return writeJSON(w, r)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	mode := "applied"
	if r.DryRun {
		mode = "dry run, rolled back"
	}
	fmt.Fprintf(tw, "mode\t%s\n", mode)
	fmt.Fprintf(tw, "debts scanned\t%d\n", r.DebtsScanned)
	fmt.Fprintf(tw, "debts migrated\t%d\n", r.DebtsMigrated)
	fmt.Fprintf(tw, "debts skipped\t%d\n", r.DebtsSkipped)
	fmt.Fprintf(tw, "contacts created\t%d\n", r.ContactsCreated)
	fmt.Fprintf(tw, "contacts reused\t%d\n", r.ContactsReused)
	fmt.Fprintf(tw, "contacts promoted\t%d\n", r.ContactsPromoted)
	fmt.Fprintf(tw, "payments copied\t%d\n", r.PaymentsCopied)
	fmt.Fprintf(tw, "amount\t%s -> %s\n", r.Sums.SourceAmount.StringFixed(2), r.Sums.TargetAmount.StringFixed(2))
	fmt.Fprintf(tw, "paid\t%s -> %s\n", r.Sums.SourcePaid.StringFixed(2), r.Sums.TargetPaid.StringFixed(2))
	fmt.Fprintf(tw, "payments\t%s -> %s\n", r.Sums.SourcePayments.StringFixed(2), r.Sums.TargetPayments.StringFixed(2))
	for _, s := range r.Skipped {
		fmt.Fprintf(tw, "skipped %s\t%s (%s)\n", s.DebtID, s.Reason, s.CreditorName)
	}
	return tw.Flush()
}

func printVerify(w io.Writer, r *migration.VerifyReport) error {
	if jsonOutput {
		return writeJSON(w, r)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tSOURCE\tTARGET\tRESULT")
	for _, c := range r.Checks {
		result := "ok"
		if !c.OK {
			result = "MISMATCH"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Source, c.Target, result)
	}
	for _, m := range r.Mismatches {
		fmt.Fprintf(tw, "payable %s\tpaid %s\tpayments %s\tMISMATCH\n",
			m.Number, m.PaidAmount.StringFixed(2), m.PaymentsTotal.StringFixed(2))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
