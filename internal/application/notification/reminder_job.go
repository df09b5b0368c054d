package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/notification"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DueRemindersJob is the scheduler job name for due and overdue reminders
const DueRemindersJob = "due_reminders"

// ReminderResult counts what one reminder run produced
type ReminderResult struct {
	Scanned int
	Created map[notification.Type]int
}

// DueReminders creates *_DUE notifications for open documents due within the
// window and *_OVERDUE for past-due ones. Keys are per document per day, so
// repeated runs on the same day add nothing.
type DueReminders struct {
	payables    finance.AccountPayableRepository
	receivables finance.AccountReceivableRepository
	notifier    Notifier
	windowDays  int
	logger      *zap.Logger
	now         func() time.Time
}

// NewDueReminders creates the reminder job
func NewDueReminders(
	payables finance.AccountPayableRepository,
	receivables finance.AccountReceivableRepository,
	notifier Notifier,
	windowDays int,
	logger *zap.Logger,
) *DueReminders {
	if logger == nil {
		logger = zap.NewNop()
	}
	if windowDays < 0 {
		windowDays = 0
	}
	return &DueReminders{
		payables:    payables,
		receivables: receivables,
		notifier:    notifier,
		windowDays:  windowDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Execute implements scheduler.JobExecutor
func (j *DueReminders) Execute(ctx context.Context, job *scheduler.Job) error {
	result, err := j.Run(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("due reminders done",
		zap.String("job_id", job.ID.String()),
		zap.Int("scanned", result.Scanned),
		zap.Any("created", result.Created),
	)
	return nil
}

// Run performs one pass over open payables and receivables
func (j *DueReminders) Run(ctx context.Context) (*ReminderResult, error) {
	today := shared.TruncateToDay(j.now())
	horizon := today.AddDate(0, 0, j.windowDays)
	result := &ReminderResult{Created: make(map[notification.Type]int)}

	payables, err := j.payables.FindOpen(ctx, shared.AllBranches(), &horizon)
	if err != nil {
		return nil, fmt.Errorf("load open payables: %w", err)
	}
	for i := range payables {
		ap := &payables[i]
		if ap.DueDate == nil {
			continue
		}
		result.Scanned++
		t, msg := notification.TypePayableDue, "due"
		if ap.IsOverdue(today) {
			t, msg = notification.TypePayableOverdue, fmt.Sprintf("%d days overdue", ap.DaysOverdue(today))
		}
		err := j.remind(ctx, result, t, ap.BranchID, "account_payable", ap.ID, today,
			fmt.Sprintf("Payable %s %s", ap.Number, msg),
			fmt.Sprintf("%s outstanding to %s, due %s.", ap.Outstanding().StringFixed(2), ap.ContactName, ap.DueDate.Format(shared.DateLayout)))
		if err != nil {
			return nil, err
		}
	}

	receivables, err := j.receivables.FindOpen(ctx, shared.AllBranches(), &horizon)
	if err != nil {
		return nil, fmt.Errorf("load open receivables: %w", err)
	}
	for i := range receivables {
		ar := &receivables[i]
		if ar.DueDate == nil {
			continue
		}
		result.Scanned++
		t, msg := notification.TypeReceivableDue, "due"
		if ar.IsOverdue(today) {
			t, msg = notification.TypeReceivableOverdue, fmt.Sprintf("%d days overdue", ar.DaysOverdue(today))
		}
		err := j.remind(ctx, result, t, ar.BranchID, "account_receivable", ar.ID, today,
			fmt.Sprintf("Receivable %s %s", ar.Number, msg),
			fmt.Sprintf("%s outstanding from %s, due %s.", ar.Outstanding().StringFixed(2), ar.ContactName, ar.DueDate.Format(shared.DateLayout)))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (j *DueReminders) remind(
	ctx context.Context,
	result *ReminderResult,
	t notification.Type,
	branchID uuid.UUID,
	entityType string,
	entityID uuid.UUID,
	today time.Time,
	title, message string,
) error {
	n, err := notification.New(t,
		notification.Target{BranchID: &branchID},
		notification.Subject{EntityType: entityType, EntityID: &entityID},
		title, message,
		notification.DedupeKey(t, entityID, today))
	if err != nil {
		return err
	}
	created, err := j.notifier.Notify(ctx, n)
	if err != nil {
		return fmt.Errorf("store %s reminder for %s: %w", t, entityID, err)
	}
	if created {
		result.Created[t]++
	}
	return nil
}

var _ scheduler.JobExecutor = (*DueReminders)(nil)
