package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type LeaveTypeServiceImpl struct {
	typeRepo leave.LeaveTypeRepository
}

func NewLeaveTypeService(typeRepo leave.LeaveTypeRepository) leave.LeaveTypeService {
	return &LeaveTypeServiceImpl{typeRepo: typeRepo}
}

// ListLeaveTypes implements leave.LeaveTypeService.
func (s *LeaveTypeServiceImpl) ListLeaveTypes(ctx context.Context, activeOnly bool) ([]leave.LeaveTypeResponse, error) {
	types, err := s.typeRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, leave.ToLeaveTypeResponse(t))
	}
	return responses, nil
}

// CreateLeaveType implements leave.LeaveTypeService.
func (s *LeaveTypeServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to generate leave type id: %w", err)
	}

	created, err := s.typeRepo.Create(ctx, leave.LeaveType{
		ID:            id.String(),
		Name:          strings.TrimSpace(req.Name),
		DefaultDays:   req.DefaultDays,
		AccrualMethod: req.AccrualMethod,
		IsActive:      true,
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNameExists) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return leave.ToLeaveTypeResponse(created), nil
}

// UpdateLeaveType implements leave.LeaveTypeService. Existing balances keep
// their entitlement; a new default only applies to later initializations.
func (s *LeaveTypeServiceImpl) UpdateLeaveType(ctx context.Context, id string, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	leaveType, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	if req.Name != nil {
		leaveType.Name = strings.TrimSpace(*req.Name)
	}
	if req.DefaultDays != nil {
		leaveType.DefaultDays = *req.DefaultDays
	}
	if req.AccrualMethod != nil {
		leaveType.AccrualMethod = *req.AccrualMethod
	}
	if req.IsActive != nil {
		leaveType.IsActive = *req.IsActive
	}

	updated, err := s.typeRepo.Update(ctx, leaveType)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNameExists) || errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return leave.ToLeaveTypeResponse(updated), nil
}
