package company

import "errors"

var (
	ErrCompanyNotFound          = errors.New("company not found")
	ErrInvalidCompanyName       = errors.New("company name cannot be empty")
	ErrInvalidLeaveDaysPerMonth = errors.New("leave_days_per_month must be between 0 and 31")
)
