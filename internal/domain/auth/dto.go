package auth

import (
	"strings"

	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.ToUpper(strings.TrimSpace(r.EmployeeID))
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be one letter followed by four digits",
		})
	}

	// Initial passwords are the employee CIN, so no minimum length here.
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OldPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "old_password",
			Message: "old_password is required",
		})
	}

	// Password
	if validator.IsEmpty(r.NewPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new_password is required",
		})
	} else if len(r.NewPassword) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new_password must be at least 8 characters long",
		})
	} else if len(r.NewPassword) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new_password must not exceed 72 characters",
		})
	} else if r.NewPassword == r.OldPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new_password must differ from old_password",
		})
	}
	if r.ConfirmPassword != r.NewPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "new_password and confirm_password do not match",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetPasswordRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *ResetPasswordRequest) Validate() error {
	r.EmployeeID = strings.ToUpper(strings.TrimSpace(r.EmployeeID))
	if !validator.IsValidEmployeeID(r.EmployeeID) {
		return validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id must be one letter followed by four digits",
		}}
	}
	return nil
}

type TokenResponse struct {
	AccessToken            string        `json:"access_token"`
	AccessTokenExpiresIn   int64         `json:"access_token_expires_in"`
	PasswordChangeRequired bool          `json:"password_change_required"`
	Employee               LoginEmployee `json:"employee"`
}

type LoginEmployee struct {
	ID        string `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
