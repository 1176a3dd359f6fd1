package dashboard

import (
	"context"
	"time"
)

// DashboardRepository defines the aggregate queries behind the dashboard
type DashboardRepository interface {
	// GetEmployeeSummary counts employees; NewThisMonth counts hires since the given date
	GetEmployeeSummary(ctx context.Context, since time.Time) (EmployeeSummaryResponse, error)
	GetLeaveSummary(ctx context.Context) (LeaveSummaryResponse, error)
	GetDepartmentCounts(ctx context.Context) ([]DepartmentCount, error)
}
