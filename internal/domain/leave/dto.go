package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveTypeRequest struct {
	Name          string          `json:"name"`
	DefaultDays   decimal.Decimal `json:"default_days"`
	AccrualMethod AccrualMethod   `json:"accrual_method"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	// Leave type name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if r.DefaultDays.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "default_days",
			Message: "default_days must not be negative",
		})
	}

	// Types accrue monthly unless created as yearly.
	if r.AccrualMethod == "" {
		r.AccrualMethod = AccrualMonthly
	}
	if !r.AccrualMethod.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_method",
			Message: "accrual_method must be yearly or monthly",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	Name          *string          `json:"name,omitempty"`
	DefaultDays   *decimal.Decimal `json:"default_days,omitempty"`
	AccrualMethod *AccrualMethod   `json:"accrual_method,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}
	if r.DefaultDays != nil && r.DefaultDays.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "default_days",
			Message: "default_days must not be negative",
		})
	}
	if r.AccrualMethod != nil && !r.AccrualMethod.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_method",
			Message: "accrual_method must be yearly or monthly",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveTypeResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	DefaultDays   decimal.Decimal `json:"default_days"`
	AccrualMethod AccrualMethod   `json:"accrual_method"`
	IsActive      bool            `json:"is_active"`
}

func ToLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:            t.ID,
		Name:          t.Name,
		DefaultDays:   t.DefaultDays,
		AccrualMethod: t.AccrualMethod,
		IsActive:      t.IsActive,
	}
}

// MaxRequestDays caps the inclusive span of one leave request.
const MaxRequestDays = 366

type CreateLeaveRequestRequest struct {
	LeaveTypeID string  `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Comment     *string `json:"comment,omitempty"`

	startDate time.Time
	endDate   time.Time
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	} else if !validator.IsValidUUID(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id must be a valid UUID",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if okStart && !validator.IsValidYear(start.Year()) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: ErrInvalidYear.Error(),
		})
	}
	if okEnd && !validator.IsValidYear(end.Year()) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidYear.Error(),
		})
	} else if okStart && okEnd && !end.Before(start) && DaysBetween(start, end) > MaxRequestDays {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: fmt.Sprintf("a request must not span more than %d days", MaxRequestDays),
		})
	}

	if r.Comment != nil && len(*r.Comment) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.startDate, r.endDate = start, end
	return nil
}

// Span returns the dates parsed by Validate.
func (r *CreateLeaveRequestRequest) Span() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type UpdateStatusRequest struct {
	Status LeaveRequestStatus `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	if !r.Status.IsDecision() {
		return validator.ValidationErrors{{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		}}
	}
	return nil
}

type LeaveRequestFilter struct {
	EmployeeID *string
	Status     *LeaveRequestStatus
}

type LeaveRequestResponse struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employee_id"`
	EmployeeName  *string            `json:"employee_name,omitempty"`
	LeaveTypeID   string             `json:"leave_type_id"`
	LeaveTypeName *string            `json:"leave_type_name,omitempty"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	Days          decimal.Decimal    `json:"days"`
	Comment       *string            `json:"comment,omitempty"`
	Status        LeaveRequestStatus `json:"status"`
	DecidedBy     *string            `json:"decided_by,omitempty"`
	DecidedAt     *time.Time         `json:"decided_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func ToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		Days:          r.Days,
		Comment:       r.Comment,
		Status:        r.Status,
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		CreatedAt:     r.CreatedAt,
	}
}

type InitializeBalancesRequest struct {
	Year int `json:"year"`
}

func (r *InitializeBalancesRequest) Validate() error {
	if !validator.IsValidYear(r.Year) {
		return validator.ValidationErrors{{
			Field:   "year",
			Message: ErrInvalidYear.Error(),
		}}
	}
	return nil
}

type InitializeBalancesResponse struct {
	Year    int   `json:"year"`
	Created int64 `json:"created"`
}

type AccrueRequest struct {
	Period string `json:"period"`

	period time.Time
}

func (r *AccrueRequest) Validate() error {
	p, ok := validator.IsValidPeriod(r.Period)
	if !ok {
		return validator.ValidationErrors{{
			Field:   "period",
			Message: "period must be in YYYY-MM format",
		}}
	}
	if !validator.IsValidYear(p.Year()) {
		return validator.ValidationErrors{{
			Field:   "period",
			Message: ErrInvalidYear.Error(),
		}}
	}
	r.period = p
	return nil
}

// PeriodStart returns the period parsed by Validate.
func (r *AccrueRequest) PeriodStart() time.Time {
	return r.period
}

type AccrualRunResponse struct {
	Period         string    `json:"period"`
	RowsAffected   int64     `json:"rows_affected"`
	BalancesOpened int64     `json:"balances_opened"`
	AppliedAt      time.Time `json:"applied_at"`
}

func ToAccrualRunResponse(run AccrualRun) AccrualRunResponse {
	return AccrualRunResponse{
		Period:       run.Period.Format("2006-01"),
		RowsAffected: run.RowsAffected,
		AppliedAt:    run.AppliedAt,
	}
}

type LeaveBalanceResponse struct {
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name,omitempty"`
	Year          int             `json:"year"`
	Entitlement   decimal.Decimal `json:"entitlement"`
	Remaining     decimal.Decimal `json:"remaining"`
}

func ToLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		EmployeeID:    b.EmployeeID,
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeName: b.LeaveTypeName,
		Year:          b.Year,
		Entitlement:   b.Entitlement,
		Remaining:     b.Remaining,
	}
}

type BalanceReportResponse struct {
	EmployeeID            string           `json:"employee_id"`
	LastName              string           `json:"last_name"`
	FirstName             string           `json:"first_name"`
	Department            *string          `json:"department,omitempty"`
	LeaveTypeID           string           `json:"leave_type_id"`
	LeaveTypeName         string           `json:"leave_type_name"`
	Year                  int              `json:"year"`
	Entitlement           decimal.Decimal  `json:"entitlement"`
	Remaining             decimal.Decimal  `json:"remaining"`
	UtilizationPercentage *decimal.Decimal `json:"utilization_percentage"`
}

func ToBalanceReportResponse(row BalanceReportRow) BalanceReportResponse {
	return BalanceReportResponse{
		EmployeeID:            row.EmployeeID,
		LastName:              row.LastName,
		FirstName:             row.FirstName,
		Department:            row.Department,
		LeaveTypeID:           row.LeaveTypeID,
		LeaveTypeName:         row.LeaveTypeName,
		Year:                  row.Year,
		Entitlement:           row.Entitlement,
		Remaining:             row.Remaining,
		UtilizationPercentage: row.Utilization,
	}
}
