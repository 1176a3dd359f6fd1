package employee

import (
	"context"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
)

type EmployeeService interface {
	ListEmployees(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	// CreateEmployee admits a new employee: allocates the next ID, stores the record
	// and opens leave balances for the current year in one transaction.
	CreateEmployee(ctx context.Context, actor user.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, actor user.Actor, id string) error
}
