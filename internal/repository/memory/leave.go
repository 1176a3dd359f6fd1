package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type leaveTypeRepository struct {
	store *Store
}

func NewLeaveTypeRepository(store *Store) leave.LeaveTypeRepository {
	return &leaveTypeRepository{store: store}
}

func (r *leaveTypeRepository) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	unlock, err := r.store.begin("leaveType.Create")
	if err != nil {
		return leave.LeaveType{}, err
	}
	defer unlock()

	for _, other := range r.store.data.leaveTypes {
		if other.Name == leaveType.Name {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	now := r.store.Now()
	leaveType.CreatedAt = now
	leaveType.UpdatedAt = now
	r.store.data.leaveTypes[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	unlock, err := r.store.begin("leaveType.GetByID")
	if err != nil {
		return leave.LeaveType{}, err
	}
	defer unlock()

	lt, ok := r.store.data.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *leaveTypeRepository) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	unlock, err := r.store.begin("leaveType.List")
	if err != nil {
		return nil, err
	}
	defer unlock()

	types := make([]leave.LeaveType, 0)
	for _, lt := range r.store.data.leaveTypes {
		if activeOnly && !lt.IsActive {
			continue
		}
		types = append(types, lt)
	}
	slices.SortFunc(types, func(a, b leave.LeaveType) int { return strings.Compare(a.Name, b.Name) })
	return types, nil
}

func (r *leaveTypeRepository) Update(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	unlock, err := r.store.begin("leaveType.Update")
	if err != nil {
		return leave.LeaveType{}, err
	}
	defer unlock()

	existing, ok := r.store.data.leaveTypes[leaveType.ID]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	for _, other := range r.store.data.leaveTypes {
		if other.ID != leaveType.ID && other.Name == leaveType.Name {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	leaveType.CreatedAt = existing.CreatedAt
	leaveType.UpdatedAt = r.store.Now()
	r.store.data.leaveTypes[leaveType.ID] = leaveType
	return leaveType, nil
}

type leaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{store: store}
}

func (r *leaveBalanceRepository) LockYear(ctx context.Context, year int) error {
	unlock, err := r.store.begin("balance.LockYear")
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (r *leaveBalanceRepository) InitializeYear(ctx context.Context, year int) (int64, error) {
	unlock, err := r.store.begin("balance.InitializeYear")
	if err != nil {
		return 0, err
	}
	defer unlock()

	return r.initialize(year, func(string) bool { return true }), nil
}

func (r *leaveBalanceRepository) InitializeEmployeeYear(ctx context.Context, employeeID string, year int) (int64, error) {
	unlock, err := r.store.begin("balance.InitializeEmployeeYear")
	if err != nil {
		return 0, err
	}
	defer unlock()

	return r.initialize(year, func(id string) bool { return id == employeeID }), nil
}

func (r *leaveBalanceRepository) initialize(year int, include func(employeeID string) bool) int64 {
	var created int64
	now := r.store.Now()
	for _, emp := range r.store.data.employees {
		if !emp.IsActive || !include(emp.ID) {
			continue
		}
		for _, lt := range r.store.data.leaveTypes {
			if !lt.IsActive {
				continue
			}
			key := balanceKey{EmployeeID: emp.ID, LeaveTypeID: lt.ID, Year: year}
			if _, exists := r.store.data.balances[key]; exists {
				continue
			}
			r.store.data.balances[key] = leave.LeaveBalance{
				EmployeeID:  emp.ID,
				LeaveTypeID: lt.ID,
				Year:        year,
				Entitlement: lt.DefaultDays,
				Remaining:   lt.DefaultDays,
				UpdatedAt:   now,
			}
			created++
		}
	}
	return created
}

func (r *leaveBalanceRepository) AccrueMonthly(ctx context.Context, period time.Time, defaultIncrement decimal.Decimal) (leave.AccrualRun, error) {
	unlock, err := r.store.begin("balance.AccrueMonthly")
	if err != nil {
		return leave.AccrualRun{}, err
	}
	defer unlock()

	period = leave.PeriodStart(period)
	if _, done := r.store.data.accrualRuns[period]; done {
		return leave.AccrualRun{}, leave.ErrAccrualAlreadyApplied
	}

	var affected int64
	now := r.store.Now()
	for key, b := range r.store.data.balances {
		if key.Year != period.Year() {
			continue
		}
		lt, ok := r.store.data.leaveTypes[key.LeaveTypeID]
		if !ok || lt.AccrualMethod != leave.AccrualMonthly {
			continue
		}
		emp, ok := r.store.data.employees[key.EmployeeID]
		if !ok {
			continue
		}
		comp, ok := r.store.data.companies[emp.CompanyID]
		if !ok {
			continue
		}

		increment := defaultIncrement
		switch {
		case emp.CustomLeaveIncrement.Valid:
			increment = emp.CustomLeaveIncrement.Decimal
		case comp.LeaveDaysPerMonth.Valid:
			increment = comp.LeaveDaysPerMonth.Decimal
		}

		b.Remaining = b.Remaining.Add(increment)
		b.UpdatedAt = now
		r.store.data.balances[key] = b
		affected++
	}

	run := leave.AccrualRun{Period: period, RowsAffected: affected, AppliedAt: now}
	r.store.data.accrualRuns[period] = run
	return run, nil
}

func (r *leaveBalanceRepository) Deduct(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (leave.LeaveBalance, error) {
	unlock, err := r.store.begin("balance.Deduct")
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	defer unlock()

	key := balanceKey{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, Year: year}
	b, ok := r.store.data.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	if b.Remaining.LessThan(days) {
		return leave.LeaveBalance{}, leave.ErrInsufficientBalance
	}
	b.Remaining = b.Remaining.Sub(days)
	b.UpdatedAt = r.store.Now()
	r.store.data.balances[key] = b
	return b, nil
}

func (r *leaveBalanceRepository) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	unlock, err := r.store.begin("balance.GetByEmployeeYear")
	if err != nil {
		return nil, err
	}
	defer unlock()

	balances := make([]leave.LeaveBalance, 0)
	for key, b := range r.store.data.balances {
		if key.EmployeeID != employeeID || key.Year != year {
			continue
		}
		b.LeaveTypeName = r.store.data.leaveTypes[key.LeaveTypeID].Name
		balances = append(balances, b)
	}
	slices.SortFunc(balances, func(a, b leave.LeaveBalance) int { return strings.Compare(a.LeaveTypeName, b.LeaveTypeName) })
	return balances, nil
}

func (r *leaveBalanceRepository) Report(ctx context.Context, department *string, year int) ([]leave.BalanceReportRow, error) {
	unlock, err := r.store.begin("balance.Report")
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := make([]leave.BalanceReportRow, 0)
	for key, b := range r.store.data.balances {
		if key.Year != year {
			continue
		}
		emp, ok := r.store.data.employees[key.EmployeeID]
		if !ok || !emp.IsActive {
			continue
		}
		if department != nil && (emp.Department == nil || *emp.Department != *department) {
			continue
		}
		report = append(report, leave.BalanceReportRow{
			EmployeeID:    emp.ID,
			LastName:      emp.LastName,
			FirstName:     emp.FirstName,
			Department:    emp.Department,
			LeaveTypeID:   key.LeaveTypeID,
			LeaveTypeName: r.store.data.leaveTypes[key.LeaveTypeID].Name,
			Year:          year,
			Entitlement:   b.Entitlement,
			Remaining:     b.Remaining,
			Utilization:   leave.Utilization(b.Entitlement, b.Remaining),
		})
	}

	slices.SortFunc(report, func(a, b leave.BalanceReportRow) int {
		return cmp.Or(
			compareDepartment(a.Department, b.Department),
			strings.Compare(a.LastName, b.LastName),
			strings.Compare(a.FirstName, b.FirstName),
			strings.Compare(a.LeaveTypeName, b.LeaveTypeName),
		)
	})
	return report, nil
}

// compareDepartment orders missing departments last.
func compareDepartment(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	unlock, err := r.store.begin("request.Create")
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	defer unlock()

	now := r.store.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.store.data.requests[request.ID] = request
	return request, nil
}

func (r *leaveRequestRepository) withRelations(lr leave.LeaveRequest) leave.LeaveRequest {
	if emp, ok := r.store.data.employees[lr.EmployeeID]; ok {
		name := emp.FullName()
		lr.EmployeeName = &name
	}
	if lt, ok := r.store.data.leaveTypes[lr.LeaveTypeID]; ok {
		name := lt.Name
		lr.LeaveTypeName = &name
	}
	return lr
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	unlock, err := r.store.begin("request.GetByID")
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	defer unlock()

	lr, ok := r.store.data.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.withRelations(lr), nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	unlock, err := r.store.begin("request.List")
	if err != nil {
		return nil, err
	}
	defer unlock()

	requests := make([]leave.LeaveRequest, 0)
	for _, lr := range r.store.data.requests {
		if filter.EmployeeID != nil && lr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && lr.Status != *filter.Status {
			continue
		}
		requests = append(requests, r.withRelations(lr))
	}
	slices.SortFunc(requests, func(a, b leave.LeaveRequest) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.ID, a.ID))
	})
	return requests, nil
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, decidedBy *string) (leave.LeaveRequest, error) {
	unlock, err := r.store.begin("request.UpdateStatus")
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	defer unlock()

	lr, ok := r.store.data.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if lr.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	now := r.store.Now()
	lr.Status = status
	lr.DecidedBy = decidedBy
	lr.DecidedAt = &now
	lr.UpdatedAt = now
	r.store.data.requests[id] = lr
	return lr, nil
}
