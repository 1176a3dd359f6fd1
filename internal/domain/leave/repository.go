package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) (LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// InitializeYear inserts missing (active employee, active type, year) rows and
	// returns how many were created. Existing rows are never modified.
	InitializeYear(ctx context.Context, year int) (int64, error)
	// InitializeEmployeeYear does the same for a single employee.
	InitializeEmployeeYear(ctx context.Context, employeeID string, year int) (int64, error)
	// AccrueMonthly adds each employee's resolved increment to their monthly-accruing
	// balances of the period's year. It records the period and fails with
	// ErrAccrualAlreadyApplied when the period was already recorded.
	AccrueMonthly(ctx context.Context, period time.Time, defaultIncrement decimal.Decimal) (AccrualRun, error)
	// Deduct subtracts days only when remaining >= days.
	Deduct(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (LeaveBalance, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	Report(ctx context.Context, department *string, year int) ([]BalanceReportRow, error)
	// LockYear serializes initializations of the same year until the transaction ends.
	LockYear(ctx context.Context, year int) error
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// UpdateStatus moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, decidedBy *string) (LeaveRequest, error)
}
