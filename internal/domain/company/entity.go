package company

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID   string
	Name string
	// LeaveDaysPerMonth overrides the system default monthly accrual for every
	// employee of the company without a personal override.
	LeaveDaysPerMonth decimal.NullDecimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
