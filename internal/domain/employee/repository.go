package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, error)
	// LockIDAllocation serializes admissions until the surrounding transaction ends.
	LockIDAllocation(ctx context.Context) error
	// GetMaxEmployeeID returns the greatest well-formed employee ID, or nil when none exists.
	GetMaxEmployeeID(ctx context.Context) (*string, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, firstLogin bool) error
}
