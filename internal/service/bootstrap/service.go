// Package bootstrap seeds an empty database with a company, the default leave
// types and a first administrator.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/config"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

const (
	defaultAdminLastName  = "Admin"
	defaultAdminFirstName = "System"
	defaultAdminEmail     = "admin@sirh.local"
)

// Result reports what Run created.
type Result struct {
	CompanyID         string
	CompanyCreated    bool
	LeaveTypesCreated int
	AdminID           string
	BalancesOpened    int64
}

type Service struct {
	transactor      database.Transactor
	companyRepo     company.CompanyRepository
	typeRepo        leave.LeaveTypeRepository
	employeeRepo    employee.EmployeeRepository
	employeeService employee.EmployeeService
	ledger          leave.LedgerService
	cfg             config.BootstrapConfig
	loc             *time.Location
	now             func() time.Time
}

func NewService(
	transactor database.Transactor,
	companyRepo company.CompanyRepository,
	typeRepo leave.LeaveTypeRepository,
	employeeRepo employee.EmployeeRepository,
	employeeService employee.EmployeeService,
	ledger leave.LedgerService,
	cfg config.BootstrapConfig,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	cfg.AdminLastName = withDefault(cfg.AdminLastName, defaultAdminLastName)
	cfg.AdminFirstName = withDefault(cfg.AdminFirstName, defaultAdminFirstName)
	cfg.AdminEmail = withDefault(cfg.AdminEmail, defaultAdminEmail)
	return &Service{
		transactor:      transactor,
		companyRepo:     companyRepo,
		typeRepo:        typeRepo,
		employeeRepo:    employeeRepo,
		employeeService: employeeService,
		ledger:          ledger,
		cfg:             cfg,
		loc:             loc,
		now:             time.Now,
	}
}

// Run is safe to call on every start: each step only fills what is missing.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var result Result

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		companyID, created, err := s.ensureCompany(ctx)
		if err != nil {
			return err
		}
		result.CompanyID, result.CompanyCreated = companyID, created

		result.LeaveTypesCreated, err = s.ensureLeaveTypes(ctx)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	adminID, err := s.ensureAdmin(ctx, result.CompanyID)
	if err != nil {
		return Result{}, err
	}
	result.AdminID = adminID

	// Open the current year for everyone so a restart after New Year needs no manual step.
	opened, err := s.ledger.InitializeYear(ctx, s.now().In(s.loc).Year())
	if err != nil {
		return Result{}, fmt.Errorf("failed to open current year balances: %w", err)
	}
	result.BalancesOpened = opened.Created

	slog.Info("bootstrap completed",
		"company_id", result.CompanyID,
		"company_created", result.CompanyCreated,
		"leave_types_created", result.LeaveTypesCreated,
		"admin_id", result.AdminID,
		"balances_opened", result.BalancesOpened,
	)
	return result, nil
}

func (s *Service) ensureCompany(ctx context.Context) (string, bool, error) {
	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to list companies: %w", err)
	}
	if len(companies) > 0 {
		return companies[0].ID, false, nil
	}

	name := strings.TrimSpace(s.cfg.CompanyName)
	if name == "" {
		return "", false, company.ErrInvalidCompanyName
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", false, fmt.Errorf("failed to generate company id: %w", err)
	}
	created, err := s.companyRepo.Create(ctx, company.Company{ID: id.String(), Name: name})
	if err != nil {
		return "", false, fmt.Errorf("failed to create company: %w", err)
	}
	return created.ID, true, nil
}

func (s *Service) ensureLeaveTypes(ctx context.Context) (int, error) {
	existing, err := s.typeRepo.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("failed to list leave types: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defaults := fixtures.GetDefaultLeaveTypes()
	for _, lt := range defaults {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("failed to generate leave type id: %w", err)
		}
		lt.ID = id.String()
		if _, err := s.typeRepo.Create(ctx, lt); err != nil {
			return 0, fmt.Errorf("failed to seed leave type %q: %w", lt.Name, err)
		}
	}
	return len(defaults), nil
}

func (s *Service) ensureAdmin(ctx context.Context, companyID string) (string, error) {
	if strings.TrimSpace(s.cfg.AdminCIN) == "" {
		return "", nil
	}

	employees, err := s.employeeRepo.List(ctx, employee.ListFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employees) > 0 {
		return "", nil
	}

	admin, err := s.employeeService.CreateEmployee(ctx, user.Actor{CompanyID: companyID, Role: user.RoleAdmin}, employee.CreateEmployeeRequest{
		CIN:       s.cfg.AdminCIN,
		LastName:  s.cfg.AdminLastName,
		FirstName: s.cfg.AdminFirstName,
		Email:     s.cfg.AdminEmail,
		Role:      string(user.RoleAdmin),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	slog.Warn("bootstrap admin created; initial password is the configured CIN", "employee_id", admin.ID)
	return admin.ID, nil
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
