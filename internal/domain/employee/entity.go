package employee

import (
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string // allocator-assigned, e.g. "A0001"
	CompanyID    string
	CIN          string
	LastName     string
	FirstName    string
	Email        string
	Mobile       *string
	Position     *string
	Department   *string
	HireDate     *time.Time
	ExitDate     *time.Time
	Role         user.Role
	PasswordHash string
	FirstLogin   bool
	IsActive     bool

	// CustomLeaveIncrement overrides the company's monthly accrual when set.
	CustomLeaveIncrement decimal.NullDecimal

	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
