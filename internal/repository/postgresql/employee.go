package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// employeeIDAllocationLock is the pg_advisory_xact_lock key that serializes admissions.
const employeeIDAllocationLock int64 = 0x5349524801

const employeeColumns = `
	id, company_id, cin, last_name, first_name, email, mobile, position, department,
	hire_date, exit_date, role, password_hash, first_login, is_active,
	custom_leave_increment, created_by, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.CIN, &emp.LastName, &emp.FirstName, &emp.Email,
		&emp.Mobile, &emp.Position, &emp.Department, &emp.HireDate, &emp.ExitDate,
		&emp.Role, &emp.PasswordHash, &emp.FirstLogin, &emp.IsActive,
		&emp.CustomLeaveIncrement, &emp.CreatedBy, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	var conditions []string
	var args []interface{}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY id COLLATE "C"`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// LockIDAllocation implements employee.EmployeeRepository.
// It only serializes when called inside a transaction.
func (e *employeeRepositoryImpl) LockIDAllocation(ctx context.Context) error {
	q := GetQuerier(ctx, e.db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, employeeIDAllocationLock); err != nil {
		return fmt.Errorf("failed to lock employee id allocation: %w", err)
	}
	return nil
}

// GetMaxEmployeeID implements employee.EmployeeRepository.
// Ids outside the A0001..Z9999 scheme are ignored. The "C" collation keeps
// the order byte-wise so it matches the allocator order.
func (e *employeeRepositoryImpl) GetMaxEmployeeID(ctx context.Context) (*string, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id FROM employees
		WHERE id ~ '^[A-Z][0-9]{4}$'
		ORDER BY id COLLATE "C" DESC
		LIMIT 1
	`

	var id string
	if err := q.QueryRow(ctx, query).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read max employee id: %w", err)
	}
	return &id, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, company_id, cin, last_name, first_name, email, mobile, position, department,
			hire_date, role, password_hash, first_login, is_active, custom_leave_increment, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.CompanyID, newEmployee.CIN, newEmployee.LastName, newEmployee.FirstName,
		newEmployee.Email, newEmployee.Mobile, newEmployee.Position, newEmployee.Department,
		newEmployee.HireDate, newEmployee.Role, newEmployee.PasswordHash, newEmployee.FirstLogin,
		newEmployee.IsActive, newEmployee.CustomLeaveIncrement, newEmployee.CreatedBy,
	))
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})

	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Mobile != nil {
		updates["mobile"] = nullIfEmpty(*req.Mobile)
	}
	if req.Position != nil {
		updates["position"] = nullIfEmpty(*req.Position)
	}
	if req.Department != nil {
		updates["department"] = nullIfEmpty(*req.Department)
	}
	if req.HireDate != nil {
		parsedHireDate, _ := time.Parse("2006-01-02", *req.HireDate)
		updates["hire_date"] = parsedHireDate
	}
	if req.ExitDate != nil {
		parsedExitDate, _ := time.Parse("2006-01-02", *req.ExitDate)
		updates["exit_date"] = parsedExitDate
	}
	if req.Role != nil {
		updates["role"] = strings.ToLower(*req.Role)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.CustomLeaveIncrement != nil {
		updates["custom_leave_increment"] = *req.CustomLeaveIncrement
	}
	if req.ClearLeaveIncrement {
		updates["custom_leave_increment"] = nil
	}

	if len(updates) == 0 {
		return e.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s", strings.Join(setClauses, ", "), i, employeeColumns)
	args = append(args, id)

	updated, err := scanEmployee(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
// Balances and leave requests go with the employee (ON DELETE CASCADE).
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if commandTag.RowsAffected() != 1 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdatePassword implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string, firstLogin bool) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET password_hash = $1, first_login = $2, updated_at = NOW()
		WHERE id = $3
	`

	commandTag, err := q.Exec(ctx, query, passwordHash, firstLogin, id)
	if err != nil {
		return fmt.Errorf("failed to update password for employee with id %s: %w", id, err)
	}
	if commandTag.RowsAffected() != 1 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func mapEmployeeWriteError(err error) error {
	code, constraint := pgErrorCode(err)
	if code != uniqueViolation {
		return fmt.Errorf("failed to write employee: %w", err)
	}
	switch constraint {
	case "uq_employees_email":
		return employee.ErrEmailExists
	case "uq_employees_cin":
		return employee.ErrCINExists
	default:
		return employee.ErrEmployeeIDConflict
	}
}

func nullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
