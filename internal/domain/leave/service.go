package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// LedgerService owns the leave balance accounting.
type LedgerService interface {
	InitializeYear(ctx context.Context, year int) (InitializeBalancesResponse, error)
	AccrueMonthly(ctx context.Context, period time.Time) (AccrualRunResponse, error)
	Deduct(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (LeaveBalanceResponse, error)
	GetBalance(ctx context.Context, actor user.Actor, employeeID string, year int) ([]LeaveBalanceResponse, error)
	Report(ctx context.Context, department *string, year int) ([]BalanceReportResponse, error)
}

type LeaveTypeService interface {
	ListLeaveTypes(ctx context.Context, activeOnly bool) ([]LeaveTypeResponse, error)
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
}

type RequestService interface {
	CreateLeaveRequest(ctx context.Context, actor user.Actor, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, actor user.Actor) ([]LeaveRequestResponse, error)
	// UpdateStatus approves or rejects a pending request. Approval deducts the
	// balance in the same transaction.
	UpdateStatus(ctx context.Context, actor user.Actor, id string, req UpdateStatusRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, actor user.Actor, id string) (LeaveRequestResponse, error)
}
