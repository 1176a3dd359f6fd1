package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LedgerServiceImpl struct {
	transactor       database.Transactor
	balanceRepo      leave.LeaveBalanceRepository
	employeeRepo     employee.EmployeeRepository
	defaultIncrement decimal.Decimal
	loc              *time.Location
	now              func() time.Time
}

// NewLedgerService creates the ledger. loc decides which month is current when
// an accrual period is checked.
func NewLedgerService(
	transactor database.Transactor,
	balanceRepo leave.LeaveBalanceRepository,
	employeeRepo employee.EmployeeRepository,
	defaultIncrement decimal.Decimal,
	loc *time.Location,
) leave.LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerServiceImpl{
		transactor:       transactor,
		balanceRepo:      balanceRepo,
		employeeRepo:     employeeRepo,
		defaultIncrement: defaultIncrement,
		loc:              loc,
		now:              time.Now,
	}
}

// InitializeYear implements leave.LedgerService.
func (s *LedgerServiceImpl) InitializeYear(ctx context.Context, year int) (leave.InitializeBalancesResponse, error) {
	if !validator.IsValidYear(year) {
		return leave.InitializeBalancesResponse{}, leave.ErrInvalidYear
	}

	var created int64
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.balanceRepo.LockYear(ctx, year); err != nil {
			return err
		}
		n, err := s.balanceRepo.InitializeYear(ctx, year)
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return leave.InitializeBalancesResponse{}, txFailed(err)
	}

	slog.Info("leave balances initialized", "year", year, "created", created)
	return leave.InitializeBalancesResponse{Year: year, Created: created}, nil
}

// AccrueMonthly implements leave.LedgerService. The period's year is opened in
// the same transaction, since a period is marked applied only once and a
// marker written before the balances exist would never credit that month.
func (s *LedgerServiceImpl) AccrueMonthly(ctx context.Context, period time.Time) (leave.AccrualRunResponse, error) {
	period = leave.PeriodStart(period)
	if !validator.IsValidYear(period.Year()) {
		return leave.AccrualRunResponse{}, leave.ErrInvalidYear
	}
	if period.After(leave.PeriodStart(s.now().In(s.loc))) {
		return leave.AccrualRunResponse{}, leave.ErrFuturePeriod
	}

	var (
		run    leave.AccrualRun
		opened int64
	)
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.balanceRepo.LockYear(ctx, period.Year()); err != nil {
			return err
		}
		n, err := s.balanceRepo.InitializeYear(ctx, period.Year())
		if err != nil {
			return err
		}
		opened = n

		run, err = s.balanceRepo.AccrueMonthly(ctx, period, s.defaultIncrement)
		return err
	})
	if err != nil {
		if errors.Is(err, leave.ErrAccrualAlreadyApplied) {
			return leave.AccrualRunResponse{}, err
		}
		return leave.AccrualRunResponse{}, txFailed(err)
	}

	slog.Info("monthly accrual applied",
		"period", period.Format("2006-01"),
		"rows_affected", run.RowsAffected,
		"balances_opened", opened,
	)
	resp := leave.ToAccrualRunResponse(run)
	resp.BalancesOpened = opened
	return resp, nil
}

// Deduct implements leave.LedgerService. Callers that need the deduction to
// commit with other writes run it inside their own transaction.
func (s *LedgerServiceImpl) Deduct(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (leave.LeaveBalanceResponse, error) {
	if !validator.IsValidYear(year) {
		return leave.LeaveBalanceResponse{}, leave.ErrInvalidYear
	}
	if !days.IsPositive() {
		return leave.LeaveBalanceResponse{}, leave.ErrInvalidDays
	}

	balance, err := s.balanceRepo.Deduct(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) || errors.Is(err, leave.ErrInsufficientBalance) {
			return leave.LeaveBalanceResponse{}, err
		}
		return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to deduct leave balance: %w", err)
	}

	slog.Info("leave balance deducted",
		"employee_id", employeeID,
		"leave_type_id", leaveTypeID,
		"year", year,
		"days", days.String(),
		"remaining", balance.Remaining.String(),
	)
	return leave.ToLeaveBalanceResponse(balance), nil
}

// GetBalance implements leave.LedgerService.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, actor user.Actor, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	if actor.EmployeeID != employeeID && !actor.CanViewAllBalances() {
		return nil, user.ErrInsufficientPermissions
	}
	if !validator.IsValidYear(year) {
		return nil, leave.ErrInvalidYear
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	balances, err := s.balanceRepo.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.ToLeaveBalanceResponse(b))
	}
	return responses, nil
}

// Report implements leave.LedgerService.
func (s *LedgerServiceImpl) Report(ctx context.Context, department *string, year int) ([]leave.BalanceReportResponse, error) {
	if !validator.IsValidYear(year) {
		return nil, leave.ErrInvalidYear
	}

	rows, err := s.balanceRepo.Report(ctx, department, year)
	if err != nil {
		return nil, fmt.Errorf("failed to build balance report: %w", err)
	}

	responses := make([]leave.BalanceReportResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, leave.ToBalanceReportResponse(row))
	}
	return responses, nil
}

// txFailed marks err as a rolled-back unit of work unless it already is one.
func txFailed(err error) error {
	if errors.Is(err, database.ErrTransactionFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", database.ErrTransactionFailed, err)
}
