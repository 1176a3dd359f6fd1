package company

import (
	"context"
)

type CompanyService interface {
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	UpdateLeaveDays(ctx context.Context, id string, req UpdateLeaveDaysRequest) (CompanyResponse, error)
}
