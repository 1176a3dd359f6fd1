package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RequestServiceImpl struct {
	transactor  database.Transactor
	requestRepo leave.LeaveRequestRepository
	typeRepo    leave.LeaveTypeRepository
	ledger      leave.LedgerService
}

func NewRequestService(
	transactor database.Transactor,
	requestRepo leave.LeaveRequestRepository,
	typeRepo leave.LeaveTypeRepository,
	ledger leave.LedgerService,
) leave.RequestService {
	return &RequestServiceImpl{
		transactor:  transactor,
		requestRepo: requestRepo,
		typeRepo:    typeRepo,
		ledger:      ledger,
	}
}

// CreateLeaveRequest implements leave.RequestService.
func (s *RequestServiceImpl) CreateLeaveRequest(ctx context.Context, actor user.Actor, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if actor.EmployeeID == "" {
		return leave.LeaveRequestResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	leaveType, err := s.typeRepo.GetByID(ctx, strings.ToLower(req.LeaveTypeID))
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrInactiveLeaveType
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	start, end := req.Span()
	var comment *string
	if req.Comment != nil {
		if c := strings.TrimSpace(*req.Comment); c != "" {
			comment = &c
		}
	}

	created, err := s.requestRepo.Create(ctx, leave.LeaveRequest{
		ID:          id.String(),
		EmployeeID:  actor.EmployeeID,
		LeaveTypeID: leaveType.ID,
		StartDate:   start,
		EndDate:     end,
		Days:        decimal.NewFromInt(int64(leave.DaysBetween(start, end))),
		Comment:     comment,
		Status:      leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	name := leaveType.Name
	created.LeaveTypeName = &name
	return leave.ToLeaveRequestResponse(created), nil
}

// ListLeaveRequests implements leave.RequestService.
func (s *RequestServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if filter.Status != nil {
		switch *filter.Status {
		case leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved,
			leave.LeaveRequestStatusRejected, leave.LeaveRequestStatusCancelled:
		default:
			return nil, leave.ErrInvalidStatus
		}
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toRequestResponses(requests), nil
}

// ListMyLeaveRequests implements leave.RequestService.
func (s *RequestServiceImpl) ListMyLeaveRequests(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	if actor.EmployeeID == "" {
		return nil, user.ErrActorRequired
	}

	employeeID := actor.EmployeeID
	requests, err := s.requestRepo.List(ctx, leave.LeaveRequestFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toRequestResponses(requests), nil
}

// UpdateStatus implements leave.RequestService.
func (s *RequestServiceImpl) UpdateStatus(ctx context.Context, actor user.Actor, id string, req leave.UpdateStatusRequest) (leave.LeaveRequestResponse, error) {
	if !actor.CanApprove() {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	decidedBy := actor.EmployeeID
	var updated leave.LeaveRequest
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.requestRepo.UpdateStatus(ctx, id, req.Status, &decidedBy)
		if err != nil {
			return err
		}
		if req.Status != leave.LeaveRequestStatusApproved {
			return nil
		}
		_, err = s.ledger.Deduct(ctx, updated.EmployeeID, updated.LeaveTypeID, updated.StartDate.Year(), updated.Days)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrLeaveRequestNotFound),
			errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
			errors.Is(err, leave.ErrBalanceNotFound),
			errors.Is(err, leave.ErrInsufficientBalance),
			errors.Is(err, leave.ErrInvalidYear),
			errors.Is(err, leave.ErrInvalidDays):
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, txFailed(err)
	}

	slog.Info("leave request decided", "request_id", id, "status", req.Status, "decided_by", decidedBy)

	// Reload to carry the employee and leave type names.
	if full, err := s.requestRepo.GetByID(ctx, id); err == nil {
		updated = full
	}
	return leave.ToLeaveRequestResponse(updated), nil
}

// CancelLeaveRequest implements leave.RequestService.
func (s *RequestServiceImpl) CancelLeaveRequest(ctx context.Context, actor user.Actor, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.EmployeeID != actor.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}

	cancelled, err := s.requestRepo.UpdateStatus(ctx, id, leave.LeaveRequestStatusCancelled, nil)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}

	cancelled.EmployeeName = request.EmployeeName
	cancelled.LeaveTypeName = request.LeaveTypeName
	return leave.ToLeaveRequestResponse(cancelled), nil
}

func toRequestResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToLeaveRequestResponse(r))
	}
	return responses
}
