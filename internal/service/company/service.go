package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
}

func NewCompanyService(companyRepository company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{CompanyRepository: companyRepository}
}

// GetByID implements company.CompanyService.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return company.ToResponse(companyData), nil
}

// UpdateLeaveDays implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateLeaveDays(ctx context.Context, id string, req company.UpdateLeaveDaysRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	updated, err := c.CompanyRepository.UpdateLeaveDaysPerMonth(ctx, id, req.NullDecimal())
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to update leave days per month: %w", err)
	}

	rate := "default"
	if req.LeaveDaysPerMonth != nil {
		rate = req.LeaveDaysPerMonth.String()
	}
	slog.Info("company leave accrual updated", "company_id", id, "leave_days_per_month", rate)
	return company.ToResponse(updated), nil
}
