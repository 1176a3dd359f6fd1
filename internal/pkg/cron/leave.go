package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
)

// LeaveJobs contains leave-ledger cron jobs
type LeaveJobs struct {
	ledger leave.LedgerService
	loc    *time.Location
	now    func() time.Time
}

// NewLeaveJobs creates leave cron jobs. loc decides when a month starts.
func NewLeaveJobs(ledger leave.LedgerService, loc *time.Location) *LeaveJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveJobs{
		ledger: ledger,
		loc:    loc,
		now:    time.Now,
	}
}

// RegisterJobs registers all leave-related cron jobs
func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	// Accrual is applied at most once per month, so checking often is harmless.
	scheduler.AddJob(
		"leave_monthly_accrual",
		interval,
		j.AccrueCurrentMonth,
	)
}

// AccrueCurrentMonth applies the current month's accrual. The ledger opens the
// year's balances itself, so the first run in January needs no separate step.
func (j *LeaveJobs) AccrueCurrentMonth(ctx context.Context) error {
	now := j.now().In(j.loc)

	run, err := j.ledger.AccrueMonthly(ctx, leave.PeriodStart(now))
	if err != nil {
		if errors.Is(err, leave.ErrAccrualAlreadyApplied) {
			slog.Debug("Monthly accrual already applied", "period", now.Format("2006-01"))
			return nil
		}
		return err
	}

	slog.Info("Monthly accrual applied by scheduler",
		"period", run.Period,
		"rows_affected", run.RowsAffected,
		"balances_opened", run.BalancesOpened,
	)
	return nil
}
