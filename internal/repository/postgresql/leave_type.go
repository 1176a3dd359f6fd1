package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveTypeColumns = `id, name, default_days, accrual_method, is_active, created_at, updated_at`

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(&lt.ID, &lt.Name, &lt.DefaultDays, &lt.AccrualMethod, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt)
	return lt, err
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_types (id, name, default_days, accrual_method, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + leaveTypeColumns

	created, err := scanLeaveType(q.QueryRow(ctx, query,
		leaveType.ID, leaveType.Name, leaveType.DefaultDays, leaveType.AccrualMethod, leaveType.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	lt, err := scanLeaveType(q.QueryRow(ctx, `SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type with id %s: %w", id, err)
	}
	return lt, nil
}

// List implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	types := make([]leave.LeaveType, 0)
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// Update implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_types
		SET name = $1, default_days = $2, accrual_method = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + leaveTypeColumns

	updated, err := scanLeaveType(q.QueryRow(ctx, query,
		leaveType.Name, leaveType.DefaultDays, leaveType.AccrualMethod, leaveType.IsActive, leaveType.ID,
	))
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to update leave type with id %s: %w", leaveType.ID, err)
	}
	return updated, nil
}
