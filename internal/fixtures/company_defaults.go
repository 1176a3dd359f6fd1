package fixtures

import (
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEFAULT LEAVE TYPES
// ==========================================

// GetDefaultLeaveTypes returns the leave types seeded into an empty database.
// IDs are assigned by the caller.
func GetDefaultLeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		{
			Name:          "Annual Leave",
			DefaultDays:   decimal.NewFromInt(22),
			AccrualMethod: leave.AccrualMonthly,
			IsActive:      true,
		},
		{
			Name:          "Sick Leave",
			DefaultDays:   decimal.NewFromInt(10),
			AccrualMethod: leave.AccrualYearly,
			IsActive:      true,
		},
		{
			// Marriage, births, bereavement
			Name:          "Exceptional Leave",
			DefaultDays:   decimal.NewFromInt(3),
			AccrualMethod: leave.AccrualYearly,
			IsActive:      true,
		},
	}
}
