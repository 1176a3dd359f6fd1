package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccrualMethod string

const (
	AccrualYearly  AccrualMethod = "yearly"
	AccrualMonthly AccrualMethod = "monthly"
)

func (m AccrualMethod) IsValid() bool {
	return m == AccrualYearly || m == AccrualMonthly
}

// LeaveType entity
type LeaveType struct {
	ID            string
	Name          string
	DefaultDays   decimal.Decimal
	AccrualMethod AccrualMethod
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LeaveBalance is one ledger entry, keyed by (EmployeeID, LeaveTypeID, Year).
type LeaveBalance struct {
	EmployeeID    string
	LeaveTypeID   string
	Year          int
	Entitlement   decimal.Decimal
	Remaining     decimal.Decimal
	UpdatedAt     time.Time
	LeaveTypeName string
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// IsDecision reports whether s is accepted by the status-update operation.
func (s LeaveRequestStatus) IsDecision() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	Days      decimal.Decimal
	Comment   *string

	Status    LeaveRequestStatus
	DecidedBy *string
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	EmployeeName  *string
}

// AccrualRun marks a period whose monthly accrual has been applied.
type AccrualRun struct {
	Period       time.Time
	RowsAffected int64
	AppliedAt    time.Time
}

// BalanceReportRow is one (employee, leave type) line of the balance report.
type BalanceReportRow struct {
	EmployeeID    string
	LastName      string
	FirstName     string
	Department    *string
	LeaveTypeID   string
	LeaveTypeName string
	Year          int
	Entitlement   decimal.Decimal
	Remaining     decimal.Decimal
	Utilization   *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Utilization is remaining/entitlement as a percentage rounded to two decimals.
// It is nil when entitlement is zero.
func Utilization(entitlement, remaining decimal.Decimal) *decimal.Decimal {
	if entitlement.IsZero() {
		return nil
	}
	u := remaining.Div(entitlement).Mul(hundred).Round(2)
	return &u
}

// DaysBetween counts calendar days from start to end, both inclusive.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// PeriodStart truncates t to the first day of its month.
func PeriodStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
