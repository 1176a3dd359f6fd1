package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"validation", validator.ValidationErrors{{Field: "year", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid year", leave.ErrInvalidYear, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid status", leave.ErrInvalidStatus, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"future accrual period", leave.ErrFuturePeriod, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"balance not found", fmt.Errorf("deduct: %w", leave.ErrBalanceNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"request not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"leave type not found", leave.ErrLeaveTypeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"company not found", company.ErrCompanyNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"insufficient balance", leave.ErrInsufficientBalance, http.StatusConflict, "INSUFFICIENT_BALANCE"},
		{"allocator exhausted", employee.ErrAllocatorExhausted, http.StatusConflict, "EMPLOYEE_ID_EXHAUSTED"},
		{"already processed", leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"accrual applied", leave.ErrAccrualAlreadyApplied, http.StatusConflict, "CONFLICT"},
		{"email exists", employee.ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{"transaction failed", fmt.Errorf("%w: %w", database.ErrTransactionFailed, errors.New("deadlock")), http.StatusInternalServerError, "TRANSACTION_FAILED"},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive account", auth.ErrAccountInactive, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"permissions", user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
		{"not owner", leave.ErrNotRequestOwner, http.StatusForbidden, "FORBIDDEN"},
		{"delete self", employee.ErrCannotDeleteSelf, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantKind, body.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed for user postgres"))

	assert.NotContains(t, rec.Body.String(), "postgres")
}
