package company

import (
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CompanyResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"company_name"`
	LeaveDaysPerMonth *decimal.Decimal `json:"leave_days_per_month"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func ToResponse(c Company) CompanyResponse {
	resp := CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.LeaveDaysPerMonth.Valid {
		d := c.LeaveDaysPerMonth.Decimal
		resp.LeaveDaysPerMonth = &d
	}
	return resp
}

var maxLeaveDaysPerMonth = decimal.NewFromInt(31)

// UpdateLeaveDaysRequest sets the company accrual rate. A null value falls back
// to the system default.
type UpdateLeaveDaysRequest struct {
	LeaveDaysPerMonth *decimal.Decimal `json:"leave_days_per_month"`
}

func (r *UpdateLeaveDaysRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LeaveDaysPerMonth != nil {
		if r.LeaveDaysPerMonth.IsNegative() || r.LeaveDaysPerMonth.GreaterThan(maxLeaveDaysPerMonth) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_days_per_month",
				Message: ErrInvalidLeaveDaysPerMonth.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *UpdateLeaveDaysRequest) NullDecimal() decimal.NullDecimal {
	if r.LeaveDaysPerMonth == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*r.LeaveDaysPerMonth)
}
