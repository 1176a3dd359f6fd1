package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeSummary returns total, active, inactive and new (since date) in single query
func (r *dashboardRepositoryImpl) GetEmployeeSummary(ctx context.Context, since time.Time) (dashboard.EmployeeSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) as active_count,
			COALESCE(SUM(CASE WHEN NOT is_active THEN 1 ELSE 0 END), 0) as inactive_count,
			COALESCE(SUM(CASE WHEN hire_date >= $1 THEN 1 ELSE 0 END), 0) as new_count
		FROM employees
	`

	var stats dashboard.EmployeeSummaryResponse
	err := q.QueryRow(ctx, query, since).Scan(
		&stats.TotalEmployee, &stats.ActiveEmployee, &stats.InactiveEmployee, &stats.NewThisMonth,
	)
	if err != nil {
		return dashboard.EmployeeSummaryResponse{}, fmt.Errorf("failed to get employee summary: %w", err)
	}
	return stats, nil
}

// GetLeaveSummary returns leave request counts per status in single query
func (r *dashboardRepositoryImpl) GetLeaveSummary(ctx context.Context) (dashboard.LeaveSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) as approved,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) as rejected,
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) as cancelled
		FROM leave_requests
	`

	var stats dashboard.LeaveSummaryResponse
	err := q.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.Cancelled,
	)
	if err != nil {
		return dashboard.LeaveSummaryResponse{}, fmt.Errorf("failed to get leave summary: %w", err)
	}
	return stats, nil
}

// GetDepartmentCounts returns active employees per department
func (r *dashboardRepositoryImpl) GetDepartmentCounts(ctx context.Context) ([]dashboard.DepartmentCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(department, '') as department, COUNT(*) as employees
		FROM employees
		WHERE is_active = TRUE
		GROUP BY COALESCE(department, '')
		ORDER BY department
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get department counts: %w", err)
	}
	defer rows.Close()

	counts := make([]dashboard.DepartmentCount, 0)
	for rows.Next() {
		var c dashboard.DepartmentCount
		if err := rows.Scan(&c.Department, &c.Employees); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
