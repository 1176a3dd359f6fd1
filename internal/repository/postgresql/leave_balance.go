package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// balanceInitLockClass namespaces the per-year advisory lock taken by InitializeYear.
const balanceInitLockClass int32 = 0x4c42

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// LockYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) LockYear(ctx context.Context, year int) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, balanceInitLockClass, int32(year)); err != nil {
		return fmt.Errorf("failed to lock balance year %d: %w", year, err)
	}
	return nil
}

// InitializeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) InitializeYear(ctx context.Context, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id, year, entitlement, remaining)
		SELECT e.id, lt.id, $1, lt.default_days, lt.default_days
		FROM employees e
		CROSS JOIN leave_types lt
		WHERE e.is_active = TRUE AND lt.is_active = TRUE
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	commandTag, err := q.Exec(ctx, query, year)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize balances for %d: %w", year, err)
	}
	return commandTag.RowsAffected(), nil
}

// InitializeEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) InitializeEmployeeYear(ctx context.Context, employeeID string, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id, year, entitlement, remaining)
		SELECT e.id, lt.id, $2, lt.default_days, lt.default_days
		FROM employees e
		CROSS JOIN leave_types lt
		WHERE e.id = $1 AND e.is_active = TRUE AND lt.is_active = TRUE
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	commandTag, err := q.Exec(ctx, query, employeeID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize balances of employee %s for %d: %w", employeeID, year, err)
	}
	return commandTag.RowsAffected(), nil
}

// AccrueMonthly implements leave.LeaveBalanceRepository.
// It must run inside a transaction so the marker and the increments commit together.
// A concurrent run for the same period blocks on the marker's primary key and then
// sees it as already applied.
func (r *leaveBalanceRepositoryImpl) AccrueMonthly(ctx context.Context, period time.Time, defaultIncrement decimal.Decimal) (leave.AccrualRun, error) {
	q := GetQuerier(ctx, r.db)
	period = leave.PeriodStart(period)

	commandTag, err := q.Exec(ctx, `
		INSERT INTO leave_accrual_runs (period, rows_affected)
		VALUES ($1, 0)
		ON CONFLICT (period) DO NOTHING
	`, period)
	if err != nil {
		return leave.AccrualRun{}, fmt.Errorf("failed to record accrual run: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return leave.AccrualRun{}, leave.ErrAccrualAlreadyApplied
	}

	// employee override, then company rate, then the system default
	updateQuery := `
		UPDATE leave_balances lb
		SET remaining = lb.remaining + COALESCE(e.custom_leave_increment, c.leave_days_per_month, $2),
			updated_at = NOW()
		FROM employees e
		JOIN companies c ON c.id = e.company_id,
			leave_types lt
		WHERE lb.employee_id = e.id
		  AND lb.leave_type_id = lt.id
		  AND lt.accrual_method = 'monthly'
		  AND lb.year = $1
	`

	commandTag, err = q.Exec(ctx, updateQuery, period.Year(), defaultIncrement)
	if err != nil {
		return leave.AccrualRun{}, fmt.Errorf("failed to accrue balances for %s: %w", period.Format("2006-01"), err)
	}

	var run leave.AccrualRun
	err = q.QueryRow(ctx, `
		UPDATE leave_accrual_runs
		SET rows_affected = $2
		WHERE period = $1
		RETURNING period, rows_affected, applied_at
	`, period, commandTag.RowsAffected()).Scan(&run.Period, &run.RowsAffected, &run.AppliedAt)
	if err != nil {
		return leave.AccrualRun{}, fmt.Errorf("failed to finalize accrual run: %w", err)
	}

	return run, nil
}

// Deduct implements leave.LeaveBalanceRepository.
// The sufficiency check lives in the WHERE clause, so concurrent deductions on the
// same row serialize on the row lock and none can drive remaining below zero.
func (r *leaveBalanceRepositoryImpl) Deduct(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET remaining = remaining - $1, updated_at = NOW()
		WHERE employee_id = $2
		  AND leave_type_id = $3
		  AND year = $4
		  AND remaining >= $1
		RETURNING employee_id, leave_type_id, year, entitlement, remaining, updated_at
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, days, employeeID, leaveTypeID, year).Scan(
		&b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.Entitlement, &b.Remaining, &b.UpdatedAt,
	)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveBalance{}, fmt.Errorf("failed to deduct leave balance: %w", err)
	}

	var exists bool
	err = q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leave_balances
			WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		)
	`, employeeID, leaveTypeID, year).Scan(&exists)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to check leave balance: %w", err)
	}
	if !exists {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return leave.LeaveBalance{}, leave.ErrInsufficientBalance
}

// GetByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.employee_id, lb.leave_type_id, lb.year, lb.entitlement, lb.remaining, lb.updated_at,
			   lt.name AS leave_type_name
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(
			&b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.Entitlement, &b.Remaining, &b.UpdatedAt,
			&b.LeaveTypeName,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Report implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Report(ctx context.Context, department *string, year int) ([]leave.BalanceReportRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.last_name, e.first_name, e.department,
			   lt.id, lt.name, lb.year, lb.entitlement, lb.remaining
		FROM employees e
		JOIN leave_balances lb ON e.id = lb.employee_id
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE e.is_active = TRUE
		  AND lb.year = $1
		  AND ($2::text IS NULL OR e.department = $2)
		ORDER BY e.department NULLS LAST, e.last_name, e.first_name, lt.name
	`

	rows, err := q.Query(ctx, query, year, department)
	if err != nil {
		return nil, fmt.Errorf("failed to build leave balance report: %w", err)
	}
	defer rows.Close()

	report := make([]leave.BalanceReportRow, 0)
	for rows.Next() {
		var row leave.BalanceReportRow
		if err := rows.Scan(
			&row.EmployeeID, &row.LastName, &row.FirstName, &row.Department,
			&row.LeaveTypeID, &row.LeaveTypeName, &row.Year, &row.Entitlement, &row.Remaining,
		); err != nil {
			return nil, err
		}
		row.Utilization = leave.Utilization(row.Entitlement, row.Remaining)
		report = append(report, row)
	}
	return report, rows.Err()
}
