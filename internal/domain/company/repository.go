package company

import (
	"context"

	"github.com/shopspring/decimal"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	UpdateLeaveDaysPerMonth(ctx context.Context, id string, days decimal.NullDecimal) (Company, error)
}
