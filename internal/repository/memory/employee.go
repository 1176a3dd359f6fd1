package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	unlock, err := r.store.begin("employee.GetByID")
	if err != nil {
		return employee.Employee{}, err
	}
	defer unlock()

	emp, ok := r.store.data.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	unlock, err := r.store.begin("employee.List")
	if err != nil {
		return nil, err
	}
	defer unlock()

	employees := make([]employee.Employee, 0)
	for _, emp := range r.store.data.employees {
		if filter.ActiveOnly && !emp.IsActive {
			continue
		}
		if filter.Department != nil && (emp.Department == nil || *emp.Department != *filter.Department) {
			continue
		}
		employees = append(employees, emp)
	}
	slices.SortFunc(employees, func(a, b employee.Employee) int { return strings.Compare(a.ID, b.ID) })
	return employees, nil
}

func (r *employeeRepository) LockIDAllocation(ctx context.Context) error {
	unlock, err := r.store.begin("employee.LockIDAllocation")
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (r *employeeRepository) GetMaxEmployeeID(ctx context.Context) (*string, error) {
	unlock, err := r.store.begin("employee.GetMaxEmployeeID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var maxID *string
	for id := range r.store.data.employees {
		if !validator.IsValidEmployeeID(id) {
			continue
		}
		if maxID == nil || id > *maxID {
			v := id
			maxID = &v
		}
	}
	return maxID, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	unlock, err := r.store.begin("employee.Create")
	if err != nil {
		return employee.Employee{}, err
	}
	defer unlock()

	if _, ok := r.store.data.companies[newEmployee.CompanyID]; !ok {
		return employee.Employee{}, company.ErrCompanyNotFound
	}
	if _, ok := r.store.data.employees[newEmployee.ID]; ok {
		return employee.Employee{}, employee.ErrEmployeeIDConflict
	}
	if err := r.checkUnique(newEmployee.ID, newEmployee.Email, newEmployee.CIN); err != nil {
		return employee.Employee{}, err
	}

	now := r.store.Now()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	if newEmployee.Role == "" {
		newEmployee.Role = user.RoleEmployee
	}
	r.store.data.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) checkUnique(id, email, cin string) error {
	for _, other := range r.store.data.employees {
		if other.ID == id {
			continue
		}
		if strings.EqualFold(other.Email, email) {
			return employee.ErrEmailExists
		}
		if other.CIN == cin {
			return employee.ErrCINExists
		}
	}
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	unlock, err := r.store.begin("employee.Update")
	if err != nil {
		return employee.Employee{}, err
	}
	defer unlock()

	emp, ok := r.store.data.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	if req.LastName != nil {
		emp.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.Email != nil {
		emp.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Mobile != nil {
		emp.Mobile = optional(*req.Mobile)
	}
	if req.Position != nil {
		emp.Position = optional(*req.Position)
	}
	if req.Department != nil {
		emp.Department = optional(*req.Department)
	}
	if req.HireDate != nil {
		d, _ := time.Parse("2006-01-02", *req.HireDate)
		emp.HireDate = &d
	}
	if req.ExitDate != nil {
		d, _ := time.Parse("2006-01-02", *req.ExitDate)
		emp.ExitDate = &d
	}
	if req.Role != nil {
		emp.Role = user.Role(strings.ToLower(*req.Role))
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	if req.CustomLeaveIncrement != nil {
		emp.CustomLeaveIncrement = decimal.NewNullDecimal(*req.CustomLeaveIncrement)
	}
	if req.ClearLeaveIncrement {
		emp.CustomLeaveIncrement = decimal.NullDecimal{}
	}

	if err := r.checkUnique(emp.ID, emp.Email, emp.CIN); err != nil {
		return employee.Employee{}, err
	}
	emp.UpdatedAt = r.store.Now()
	r.store.data.employees[id] = emp
	return emp, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	unlock, err := r.store.begin("employee.Delete")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.store.data.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.store.data.employees, id)
	for key := range r.store.data.balances {
		if key.EmployeeID == id {
			delete(r.store.data.balances, key)
		}
	}
	for reqID, lr := range r.store.data.requests {
		if lr.EmployeeID == id {
			delete(r.store.data.requests, reqID)
		}
	}
	return nil
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, firstLogin bool) error {
	unlock, err := r.store.begin("employee.UpdatePassword")
	if err != nil {
		return err
	}
	defer unlock()

	emp, ok := r.store.data.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.PasswordHash = passwordHash
	emp.FirstLogin = firstLogin
	emp.UpdatedAt = r.store.Now()
	r.store.data.employees[id] = emp
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
