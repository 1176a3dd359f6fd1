package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// maxAdmissionAttempts bounds retries when a concurrent admission took the allocated ID.
const maxAdmissionAttempts = 3

type EmployeeServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	balanceRepo  leave.LeaveBalanceRepository
	loc          *time.Location
	now          func() time.Time
	bcryptCost   int
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	loc *time.Location,
) employee.EmployeeService {
	if loc == nil {
		loc = time.UTC
	}
	return &EmployeeServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		balanceRepo:  balanceRepo,
		loc:          loc,
		now:          time.Now,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.ListFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToResponse(emp))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.ToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, actor user.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	// The initial password is the CIN; FirstLogin forces a change on first sign-in.
	cin := strings.TrimSpace(req.CIN)
	hash, err := bcrypt.GenerateFromPassword([]byte(cin), s.bcryptCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newEmployee := employee.Employee{
		CompanyID:    actor.CompanyID,
		CIN:          cin,
		LastName:     strings.TrimSpace(req.LastName),
		FirstName:    strings.TrimSpace(req.FirstName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:       trimmedOrNil(req.Mobile),
		Position:     trimmedOrNil(req.Position),
		Department:   trimmedOrNil(req.Department),
		Role:         user.RoleEmployee,
		PasswordHash: string(hash),
		FirstLogin:   true,
		IsActive:     true,
	}
	if req.Role != "" {
		newEmployee.Role = user.Role(strings.ToLower(req.Role))
	}
	if req.HireDate != nil && *req.HireDate != "" {
		d, _ := time.Parse("2006-01-02", *req.HireDate)
		newEmployee.HireDate = &d
	}
	if req.CustomLeaveIncrement != nil {
		newEmployee.CustomLeaveIncrement = decimal.NewNullDecimal(*req.CustomLeaveIncrement)
	}
	if actor.EmployeeID != "" {
		createdBy := actor.EmployeeID
		newEmployee.CreatedBy = &createdBy
	}

	year := s.now().In(s.loc).Year()

	var created employee.Employee
	for attempt := 1; attempt <= maxAdmissionAttempts; attempt++ {
		created, err = s.admit(ctx, newEmployee, year)
		if !errors.Is(err, employee.ErrEmployeeIDConflict) {
			break
		}
		slog.Warn("employee ID taken concurrently, retrying admission", "attempt", attempt)
	}
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee admitted", "employee_id", created.ID, "created_by", actor.EmployeeID)
	return employee.ToResponse(created), nil
}

// admit allocates the next ID and stores the employee together with their
// balances for year in one transaction.
func (s *EmployeeServiceImpl) admit(ctx context.Context, newEmployee employee.Employee, year int) (employee.Employee, error) {
	var created employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.employeeRepo.LockIDAllocation(ctx); err != nil {
			return err
		}

		currentMax, err := s.employeeRepo.GetMaxEmployeeID(ctx)
		if err != nil {
			return err
		}
		id, err := employee.NextEmployeeID(currentMax)
		if err != nil {
			return err
		}

		newEmployee.ID = id
		created, err = s.employeeRepo.Create(ctx, newEmployee)
		if err != nil {
			return err
		}

		if _, err := s.balanceRepo.InitializeEmployeeYear(ctx, created.ID, year); err != nil {
			return fmt.Errorf("failed to open leave balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, wrapTxError(err)
	}
	return created, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.HireDate != nil && req.ExitDate == nil {
		existing, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		if existing.ExitDate != nil {
			hire, _ := time.Parse("2006-01-02", *req.HireDate)
			if existing.ExitDate.Before(hire) {
				return employee.EmployeeResponse{}, exitBeforeHire()
			}
		}
	}
	if req.ExitDate != nil && req.HireDate == nil {
		existing, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		if existing.HireDate != nil {
			exit, _ := time.Parse("2006-01-02", *req.ExitDate)
			if exit.Before(*existing.HireDate) {
				return employee.EmployeeResponse{}, exitBeforeHire()
			}
		}
	}

	updated, err := s.employeeRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) ||
			errors.Is(err, employee.ErrEmailExists) ||
			errors.Is(err, employee.ErrCINExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee.ToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, actor user.Actor, id string) error {
	if actor.EmployeeID == id {
		return employee.ErrCannotDeleteSelf
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	slog.Info("employee deleted", "employee_id", id, "deleted_by", actor.EmployeeID)
	return nil
}

func exitBeforeHire() error {
	return validator.ValidationErrors{{
		Field:   "exit_date",
		Message: "exit_date must not be before hire_date",
	}}
}

// wrapTxError keeps domain errors as they are and marks storage failures as a
// rolled-back transaction.
func wrapTxError(err error) error {
	switch {
	case errors.Is(err, database.ErrTransactionFailed),
		errors.Is(err, employee.ErrAllocatorExhausted),
		errors.Is(err, employee.ErrInvalidEmployeeID),
		errors.Is(err, employee.ErrEmployeeIDConflict),
		errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrCINExists),
		errors.Is(err, company.ErrCompanyNotFound):
		return err
	}
	return fmt.Errorf("%w: %w", database.ErrTransactionFailed, err)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
