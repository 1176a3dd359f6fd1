package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ListFilter struct {
	Department *string
	ActiveOnly bool
}

type CreateEmployeeRequest struct {
	CIN                  string           `json:"cin"`
	LastName             string           `json:"last_name"`
	FirstName            string           `json:"first_name"`
	Email                string           `json:"email"`
	Mobile               *string          `json:"mobile,omitempty"`
	Position             *string          `json:"position,omitempty"`
	Department           *string          `json:"department,omitempty"`
	HireDate             *string          `json:"hire_date,omitempty"`
	Role                 string           `json:"role,omitempty"`
	CustomLeaveIncrement *decimal.Decimal `json:"custom_leave_increment,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "cin",
			Message: "cin is required",
		})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	}
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Mobile != nil && *r.Mobile != "" && !validator.IsValidPhoneNumber(*r.Mobile) {
		errs = append(errs, validator.ValidationError{
			Field:   "mobile",
			Message: "mobile must be 9-15 digits",
		})
	}

	if r.HireDate != nil && *r.HireDate != "" {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "hire_date",
				Message: "hire_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Role != "" && !user.Role(strings.ToLower(r.Role)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: user.ErrInvalidRole.Error(),
		})
	}

	if r.CustomLeaveIncrement != nil && r.CustomLeaveIncrement.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "custom_leave_increment",
			Message: "custom_leave_increment must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateEmployeeRequest only touches the fields that are set.
type UpdateEmployeeRequest struct {
	LastName             *string          `json:"last_name,omitempty"`
	FirstName            *string          `json:"first_name,omitempty"`
	Email                *string          `json:"email,omitempty"`
	Mobile               *string          `json:"mobile,omitempty"`
	Position             *string          `json:"position,omitempty"`
	Department           *string          `json:"department,omitempty"`
	HireDate             *string          `json:"hire_date,omitempty"`
	ExitDate             *string          `json:"exit_date,omitempty"`
	Role                 *string          `json:"role,omitempty"`
	IsActive             *bool            `json:"is_active,omitempty"`
	CustomLeaveIncrement *decimal.Decimal `json:"custom_leave_increment,omitempty"`
	ClearLeaveIncrement  bool             `json:"clear_custom_leave_increment,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not be empty",
		})
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not be empty",
		})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if r.Mobile != nil && *r.Mobile != "" && !validator.IsValidPhoneNumber(*r.Mobile) {
		errs = append(errs, validator.ValidationError{
			Field:   "mobile",
			Message: "mobile must be 9-15 digits",
		})
	}

	var hire, exit time.Time
	if r.HireDate != nil {
		d, ok := validator.IsValidDate(*r.HireDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "hire_date",
				Message: "hire_date must be in YYYY-MM-DD format",
			})
		}
		hire = d
	}
	if r.ExitDate != nil {
		d, ok := validator.IsValidDate(*r.ExitDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "exit_date",
				Message: "exit_date must be in YYYY-MM-DD format",
			})
		}
		exit = d
	}
	if !hire.IsZero() && !exit.IsZero() && exit.Before(hire) {
		errs = append(errs, validator.ValidationError{
			Field:   "exit_date",
			Message: "exit_date must not be before hire_date",
		})
	}

	if r.Role != nil && !user.Role(strings.ToLower(*r.Role)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: user.ErrInvalidRole.Error(),
		})
	}

	if r.CustomLeaveIncrement != nil && r.CustomLeaveIncrement.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "custom_leave_increment",
			Message: "custom_leave_increment must not be negative",
		})
	}
	if r.CustomLeaveIncrement != nil && r.ClearLeaveIncrement {
		errs = append(errs, validator.ValidationError{
			Field:   "clear_custom_leave_increment",
			Message: "cannot set and clear custom_leave_increment at the same time",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID                   string           `json:"id"`
	CompanyID            string           `json:"company_id"`
	CIN                  string           `json:"cin"`
	LastName             string           `json:"last_name"`
	FirstName            string           `json:"first_name"`
	Email                string           `json:"email"`
	Mobile               *string          `json:"mobile,omitempty"`
	Position             *string          `json:"position,omitempty"`
	Department           *string          `json:"department,omitempty"`
	HireDate             *string          `json:"hire_date,omitempty"`
	ExitDate             *string          `json:"exit_date,omitempty"`
	Role                 string           `json:"role"`
	FirstLogin           bool             `json:"first_login"`
	IsActive             bool             `json:"is_active"`
	CustomLeaveIncrement *decimal.Decimal `json:"custom_leave_increment,omitempty"`
	CreatedBy            *string          `json:"created_by,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		CIN:        e.CIN,
		LastName:   e.LastName,
		FirstName:  e.FirstName,
		Email:      e.Email,
		Mobile:     e.Mobile,
		Position:   e.Position,
		Department: e.Department,
		Role:       string(e.Role),
		FirstLogin: e.FirstLogin,
		IsActive:   e.IsActive,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.HireDate != nil {
		s := e.HireDate.Format("2006-01-02")
		resp.HireDate = &s
	}
	if e.ExitDate != nil {
		s := e.ExitDate.Format("2006-01-02")
		resp.ExitDate = &s
	}
	if e.CustomLeaveIncrement.Valid {
		d := e.CustomLeaveIncrement.Decimal
		resp.CustomLeaveIncrement = &d
	}
	return resp
}
