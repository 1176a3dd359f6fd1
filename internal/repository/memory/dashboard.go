package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
)

type dashboardRepository struct {
	store *Store
}

func NewDashboardRepository(store *Store) dashboard.DashboardRepository {
	return &dashboardRepository{store: store}
}

func (r *dashboardRepository) GetEmployeeSummary(ctx context.Context, since time.Time) (dashboard.EmployeeSummaryResponse, error) {
	unlock, err := r.store.begin("dashboard.GetEmployeeSummary")
	if err != nil {
		return dashboard.EmployeeSummaryResponse{}, err
	}
	defer unlock()

	var stats dashboard.EmployeeSummaryResponse
	for _, emp := range r.store.data.employees {
		stats.TotalEmployee++
		if emp.IsActive {
			stats.ActiveEmployee++
		} else {
			stats.InactiveEmployee++
		}
		if emp.HireDate != nil && !emp.HireDate.Before(since) {
			stats.NewThisMonth++
		}
	}
	return stats, nil
}

func (r *dashboardRepository) GetLeaveSummary(ctx context.Context) (dashboard.LeaveSummaryResponse, error) {
	unlock, err := r.store.begin("dashboard.GetLeaveSummary")
	if err != nil {
		return dashboard.LeaveSummaryResponse{}, err
	}
	defer unlock()

	var stats dashboard.LeaveSummaryResponse
	for _, lr := range r.store.data.requests {
		stats.Total++
		switch lr.Status {
		case leave.LeaveRequestStatusPending:
			stats.Pending++
		case leave.LeaveRequestStatusApproved:
			stats.Approved++
		case leave.LeaveRequestStatusRejected:
			stats.Rejected++
		case leave.LeaveRequestStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (r *dashboardRepository) GetDepartmentCounts(ctx context.Context) ([]dashboard.DepartmentCount, error) {
	unlock, err := r.store.begin("dashboard.GetDepartmentCounts")
	if err != nil {
		return nil, err
	}
	defer unlock()

	byDepartment := make(map[string]int64)
	for _, emp := range r.store.data.employees {
		if !emp.IsActive {
			continue
		}
		department := ""
		if emp.Department != nil {
			department = *emp.Department
		}
		byDepartment[department]++
	}

	counts := make([]dashboard.DepartmentCount, 0, len(byDepartment))
	for department, n := range byDepartment {
		counts = append(counts, dashboard.DepartmentCount{Department: department, Employees: n})
	}
	slices.SortFunc(counts, func(a, b dashboard.DepartmentCount) int { return strings.Compare(a.Department, b.Department) })
	return counts, nil
}
