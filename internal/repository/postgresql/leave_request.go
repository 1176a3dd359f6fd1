package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.days, lr.comment,
	lr.status, lr.decided_by, lr.decided_at, lr.created_at, lr.updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row, withRelations bool) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	dest := []interface{}{
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate, &lr.Days, &lr.Comment,
		&lr.Status, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt, &lr.UpdatedAt,
	}
	if withRelations {
		dest = append(dest, &lr.EmployeeName, &lr.LeaveTypeName)
	}
	err := row.Scan(dest...)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests AS lr (id, employee_id, leave_type_id, start_date, end_date, days, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveTypeID, request.StartDate, request.EndDate,
		request.Days, request.Comment, request.Status,
	), false)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `,
			e.first_name || ' ' || e.last_name AS employee_name,
			lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.id = $1
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request with id %s: %w", id, err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", len(args)))
	}

	query := `
		SELECT ` + leaveRequestColumns + `,
			e.first_name || ' ' || e.last_name AS employee_name,
			lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY lr.created_at DESC, lr.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows, true)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// UpdateStatus implements leave.LeaveRequestRepository.
// The pending check is part of the UPDATE so concurrent decisions cannot both win.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, decidedBy *string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests AS lr
		SET status = $1, decided_by = $2, decided_at = NOW(), updated_at = NOW()
		WHERE lr.id = $3 AND lr.status = $4
		RETURNING ` + leaveRequestColumns

	updated, err := scanLeaveRequest(q.QueryRow(ctx, query, status, decidedBy, id, leave.LeaveRequestStatusPending), false)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isNotFound(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check leave request: %w", err)
	}
	if !exists {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}
