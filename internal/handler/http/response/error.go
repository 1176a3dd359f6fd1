package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and permission errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, user.ErrActorRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrWrongOldPassword):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, err.Error())

	// Ledger and allocator
	case errors.Is(err, leave.ErrInsufficientBalance):
		Error(w, http.StatusConflict, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, employee.ErrAllocatorExhausted):
		Error(w, http.StatusConflict, "EMPLOYEE_ID_EXHAUSTED", err.Error())

	// Conflicts
	case errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrCINExists),
		errors.Is(err, employee.ErrEmployeeIDConflict),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrLeaveTypeNameExists),
		errors.Is(err, leave.ErrAccrualAlreadyApplied):
		Conflict(w, err.Error())

	// Input rejected after decoding
	case errors.Is(err, leave.ErrInvalidYear),
		errors.Is(err, leave.ErrFuturePeriod),
		errors.Is(err, leave.ErrInvalidStatus),
		errors.Is(err, leave.ErrInvalidDays),
		errors.Is(err, leave.ErrInactiveLeaveType),
		errors.Is(err, employee.ErrInvalidEmployeeID),
		errors.Is(err, company.ErrInvalidCompanyName),
		errors.Is(err, company.ErrInvalidLeaveDaysPerMonth),
		errors.Is(err, user.ErrInvalidRole):
		Error(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, employee.ErrCannotDeleteSelf):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, database.ErrTransactionFailed):
		slog.Error("transaction failed", "error", err)
		Error(w, http.StatusInternalServerError, "TRANSACTION_FAILED", "The operation could not be completed")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
