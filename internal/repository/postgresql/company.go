package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT id, name, leave_days_per_month, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var comp company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&comp.ID, &comp.Name, &comp.LeaveDaysPerMonth, &comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company with id %s: %w", id, err)
	}
	return comp, nil
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, leave_days_per_month, created_at, updated_at
		FROM companies
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]company.Company, 0)
	for rows.Next() {
		var comp company.Company
		if err := rows.Scan(&comp.ID, &comp.Name, &comp.LeaveDaysPerMonth, &comp.CreatedAt, &comp.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, comp)
	}
	return companies, rows.Err()
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (id, name, leave_days_per_month)
		VALUES ($1, $2, $3)
		RETURNING id, name, leave_days_per_month, created_at, updated_at
	`

	var created company.Company
	err := q.QueryRow(ctx, query, newCompany.ID, newCompany.Name, newCompany.LeaveDaysPerMonth).Scan(
		&created.ID, &created.Name, &created.LeaveDaysPerMonth, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// UpdateLeaveDaysPerMonth implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateLeaveDaysPerMonth(ctx context.Context, id string, days decimal.NullDecimal) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET leave_days_per_month = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, leave_days_per_month, created_at, updated_at
	`

	var updated company.Company
	err := q.QueryRow(ctx, query, days, id).Scan(
		&updated.ID, &updated.Name, &updated.LeaveDaysPerMonth, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	return updated, nil
}
