// Package memory keeps every repository in process memory. It mirrors the
// PostgreSQL repositories closely enough to drive service tests, including
// transaction rollback.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
)

type balanceKey struct {
	EmployeeID  string
	LeaveTypeID string
	Year        int
}

type state struct {
	companies   map[string]company.Company
	employees   map[string]employee.Employee
	leaveTypes  map[string]leave.LeaveType
	balances    map[balanceKey]leave.LeaveBalance
	requests    map[string]leave.LeaveRequest
	accrualRuns map[time.Time]leave.AccrualRun
}

func newState() state {
	return state{
		companies:   make(map[string]company.Company),
		employees:   make(map[string]employee.Employee),
		leaveTypes:  make(map[string]leave.LeaveType),
		balances:    make(map[balanceKey]leave.LeaveBalance),
		requests:    make(map[string]leave.LeaveRequest),
		accrualRuns: make(map[time.Time]leave.AccrualRun),
	}
}

func (s state) clone() state {
	return state{
		companies:   maps.Clone(s.companies),
		employees:   maps.Clone(s.employees),
		leaveTypes:  maps.Clone(s.leaveTypes),
		balances:    maps.Clone(s.balances),
		requests:    maps.Clone(s.requests),
		accrualRuns: maps.Clone(s.accrualRuns),
	}
}

// Store is the shared backing state of all memory repositories.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	data  state
	Now   func() time.Time
	Fails map[string]error
}

func NewStore() *Store {
	return &Store{
		data:  newState(),
		Now:   time.Now,
		Fails: make(map[string]error),
	}
}

// FailOn makes the named repository operation return err until cleared with nil.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.Fails, op)
		return
	}
	s.Fails[op] = err
}

// begin locks the state for one repository call and reports an injected failure.
func (s *Store) begin(op string) (func(), error) {
	s.mu.Lock()
	if err, ok := s.Fails[op]; ok {
		s.mu.Unlock()
		return nil, err
	}
	return s.mu.Unlock, nil
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor returns a database.Transactor that serializes transactions and
// restores the pre-transaction state when fn fails.
func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bool); ok {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	snapshot := t.store.data.clone()
	t.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.data = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}
