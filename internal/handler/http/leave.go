package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	UpdateRequestStatus(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)

	GetEmployeeBalance(w http.ResponseWriter, r *http.Request)
	InitializeBalances(w http.ResponseWriter, r *http.Request)
	AccrueMonthly(w http.ResponseWriter, r *http.Request)
	BalanceReport(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	typeService    leave.LeaveTypeService
	requestService leave.RequestService
	ledger         leave.LedgerService
	loc            *time.Location
	now            func() time.Time
}

// NewLeaveHandler wires the leave services. loc decides the default year of
// balance queries.
func NewLeaveHandler(typeService leave.LeaveTypeService, requestService leave.RequestService, ledger leave.LedgerService, loc *time.Location) LeaveHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveHandlerImpl{
		typeService:    typeService,
		requestService: requestService,
		ledger:         ledger,
		loc:            loc,
		now:            time.Now,
	}
}

// ListTypes handles GET /leave-types?active=true
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	types, err := l.typeService.ListLeaveTypes(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if !decodeJSON(w, r, &req, "CreateType") {
		return
	}

	leaveType, err := l.typeService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", leaveType)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave type ID is required", nil)
		return
	}

	var req leave.UpdateLeaveTypeRequest
	if !decodeJSON(w, r, &req, "UpdateType") {
		return
	}

	leaveType, err := l.typeService.UpdateLeaveType(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", leaveType)
}

// CreateRequest implements LeaveHandler. The requester is always the caller.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if !decodeJSON(w, r, &req, "CreateRequest") {
		return
	}

	leaveRequest, err := l.requestService.CreateLeaveRequest(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

// ListRequests handles GET /leave-requests?employee_id=&status=
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveRequestFilter{}
	if id := optionalQuery(r, "employee_id"); id != nil {
		upper := strings.ToUpper(*id)
		filter.EmployeeID = &upper
	}
	if status := optionalQuery(r, "status"); status != nil {
		s := leave.LeaveRequestStatus(*status)
		filter.Status = &s
	}

	requests, err := l.requestService.ListLeaveRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	requests, err := l.requestService.ListMyLeaveRequests(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// UpdateRequestStatus approves or rejects a pending request.
func (l *LeaveHandlerImpl) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req leave.UpdateStatusRequest
	if !decodeJSON(w, r, &req, "UpdateRequestStatus") {
		return
	}

	updated, err := l.requestService.UpdateStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(updated.Status), updated)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	cancelled, err := l.requestService.CancelLeaveRequest(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", cancelled)
}

// GetEmployeeBalance handles GET /leave-balances/employee/{employeeID}?year=
func (l *LeaveHandlerImpl) GetEmployeeBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	year, err := yearParam(r, l.now().In(l.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID := strings.ToUpper(chi.URLParam(r, "employeeID"))
	balances, err := l.ledger.GetBalance(r.Context(), actor, employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// InitializeBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) InitializeBalances(w http.ResponseWriter, r *http.Request) {
	var req leave.InitializeBalancesRequest
	if !decodeJSON(w, r, &req, "InitializeBalances") {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.ledger.InitializeYear(r.Context(), req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances initialized", result)
}

// AccrueMonthly runs the accrual for the given YYYY-MM period.
func (l *LeaveHandlerImpl) AccrueMonthly(w http.ResponseWriter, r *http.Request) {
	var req leave.AccrueRequest
	if !decodeJSON(w, r, &req, "AccrueMonthly") {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	run, err := l.ledger.AccrueMonthly(r.Context(), req.PeriodStart())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly accrual applied", run)
}

// BalanceReport handles GET /leave-balances/report?department=&year=
func (l *LeaveHandlerImpl) BalanceReport(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r, l.now().In(l.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := l.ledger.Report(r.Context(), optionalQuery(r, "department"), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}
