package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrNotRequestOwner              = errors.New("leave request belongs to another employee")
	ErrLeaveTypeNotFound            = errors.New("leave type not found")
	ErrLeaveTypeNameExists          = errors.New("leave type name already exists")
	ErrInactiveLeaveType            = errors.New("leave type is not active")
	ErrBalanceNotFound              = errors.New("leave balance not found")
	ErrInsufficientBalance          = errors.New("insufficient leave balance")
	ErrInvalidYear                  = errors.New("year must be between 2000 and 2100")
	ErrInvalidStatus                = errors.New("status must be approved or rejected")
	ErrInvalidDays                  = errors.New("days must be greater than zero")
	ErrAccrualAlreadyApplied        = errors.New("monthly accrual already applied for this period")
	ErrFuturePeriod                 = errors.New("accrual period must not be after the current month")
)
