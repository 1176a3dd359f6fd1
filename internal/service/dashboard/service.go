package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetDashboard runs the three aggregate queries in parallel.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		employeeSummary dashboard.EmployeeSummaryResponse
		leaveSummary    dashboard.LeaveSummaryResponse
		departments     []dashboard.DepartmentCount
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee Summary (total, active, inactive, hired this month)
	g.Go(func() error {
		stats, err := s.GetEmployeeSummary(gCtx, monthStart)
		if err != nil {
			return fmt.Errorf("employee summary: %w", err)
		}
		employeeSummary = stats
		return nil
	})

	// 2. Leave requests per status
	g.Go(func() error {
		stats, err := s.GetLeaveSummary(gCtx)
		if err != nil {
			return fmt.Errorf("leave summary: %w", err)
		}
		leaveSummary = stats
		return nil
	})

	// 3. Active headcount per department
	g.Go(func() error {
		counts, err := s.GetDepartmentCounts(gCtx)
		if err != nil {
			return fmt.Errorf("department counts: %w", err)
		}
		departments = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		EmployeeSummary: employeeSummary,
		LeaveSummary:    leaveSummary,
		Departments:     departments,
	}, nil
}
