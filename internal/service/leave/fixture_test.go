package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID      = "0192a5e4-3c1b-7d2e-8f00-000000000001"
	otherCompanyID = "0192a5e4-3c1b-7d2e-8f00-000000000002"

	annualTypeID      = "0192a5e4-3c1b-7d2e-8f00-0000000000a1"
	sickTypeID        = "0192a5e4-3c1b-7d2e-8f00-0000000000a2"
	sabbaticalTypeID  = "0192a5e4-3c1b-7d2e-8f00-0000000000a3"
	unknownLeaveType  = "0192a5e4-3c1b-7d2e-8f00-0000000000ff"
	defaultIncrement  = "1.5"
	testYear          = 2025
	testPeriodMonth   = time.March
	missingEmployeeID = "Y0001"
)

// ledgerToday is the ledger's clock; accrual periods after its month are rejected.
var ledgerToday = time.Date(testYear+1, time.June, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store        *memory.Store
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
	typeRepo     leave.LeaveTypeRepository
	balanceRepo  leave.LeaveBalanceRepository
	requestRepo  leave.LeaveRequestRepository

	ledger   leave.LedgerService
	requests leave.RequestService
	types    leave.LeaveTypeService
}

// tickingClock advances one second per call so creation order is observable.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	store.Now = tickingClock(time.Date(testYear, testPeriodMonth, 1, 8, 0, 0, 0, time.UTC))
	transactor := memory.NewTransactor(store)

	f := &fixture{
		store:        store,
		employeeRepo: memory.NewEmployeeRepository(store),
		companyRepo:  memory.NewCompanyRepository(store),
		typeRepo:     memory.NewLeaveTypeRepository(store),
		balanceRepo:  memory.NewLeaveBalanceRepository(store),
		requestRepo:  memory.NewLeaveRequestRepository(store),
	}
	ledger := NewLedgerService(transactor, f.balanceRepo, f.employeeRepo, decimal.RequireFromString(defaultIncrement), time.UTC).(*LedgerServiceImpl)
	ledger.now = func() time.Time { return ledgerToday }
	f.ledger = ledger
	f.requests = NewRequestService(transactor, f.requestRepo, f.typeRepo, f.ledger)
	f.types = NewLeaveTypeService(f.typeRepo)

	for _, c := range []company.Company{
		{ID: companyID, Name: "Acme"},
		{ID: otherCompanyID, Name: "Globex"},
	} {
		_, err := f.companyRepo.Create(ctx, c)
		require.NoError(t, err)
	}

	for _, lt := range []leave.LeaveType{
		{ID: annualTypeID, Name: "Annual Leave", DefaultDays: decimal.NewFromInt(18), AccrualMethod: leave.AccrualMonthly, IsActive: true},
		{ID: sickTypeID, Name: "Sick Leave", DefaultDays: decimal.NewFromInt(10), AccrualMethod: leave.AccrualYearly, IsActive: true},
		{ID: sabbaticalTypeID, Name: "Sabbatical", DefaultDays: decimal.NewFromInt(30), AccrualMethod: leave.AccrualMonthly, IsActive: false},
	} {
		_, err := f.typeRepo.Create(ctx, lt)
		require.NoError(t, err)
	}

	return f
}

type employeeOption func(*employee.Employee)

func inDepartment(dept string) employeeOption {
	return func(e *employee.Employee) { e.Department = &dept }
}

func inCompany(id string) employeeOption {
	return func(e *employee.Employee) { e.CompanyID = id }
}

func withIncrement(v string) employeeOption {
	return func(e *employee.Employee) { e.CustomLeaveIncrement = decimal.NewNullDecimal(decimal.RequireFromString(v)) }
}

func withRole(r user.Role) employeeOption {
	return func(e *employee.Employee) { e.Role = r }
}

func inactive() employeeOption {
	return func(e *employee.Employee) { e.IsActive = false }
}

func (f *fixture) addEmployee(t *testing.T, id, lastName, firstName string, opts ...employeeOption) employee.Employee {
	t.Helper()
	e := employee.Employee{
		ID:        id,
		CompanyID: companyID,
		CIN:       "CIN-" + id,
		LastName:  lastName,
		FirstName: firstName,
		Email:     id + "@acme.ma",
		Role:      user.RoleEmployee,
		IsActive:  true,
	}
	for _, opt := range opts {
		opt(&e)
	}
	created, err := f.employeeRepo.Create(context.Background(), e)
	require.NoError(t, err)
	return created
}

func actorFor(e employee.Employee) user.Actor {
	return user.Actor{EmployeeID: e.ID, CompanyID: e.CompanyID, Role: e.Role}
}

func (f *fixture) balance(t *testing.T, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, bool) {
	t.Helper()
	balances, err := f.balanceRepo.GetByEmployeeYear(context.Background(), employeeID, year)
	require.NoError(t, err)
	for _, b := range balances {
		if b.LeaveTypeID == leaveTypeID {
			return b, true
		}
	}
	return leave.LeaveBalance{}, false
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func period(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
