package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submit(t *testing.T, f *fixture, actor user.Actor, typeID, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := f.requests.CreateLeaveRequest(context.Background(), actor, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID,
		StartDate:   start,
		EndDate:     end,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateLeaveRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))

	t.Run("inclusive day count", func(t *testing.T) {
		comment := "  family trip  "
		resp, err := f.requests.CreateLeaveRequest(ctx, sara, leave.CreateLeaveRequestRequest{
			LeaveTypeID: annualTypeID,
			StartDate:   "2025-03-10",
			EndDate:     "2025-03-14",
			Comment:     &comment,
		})
		require.NoError(t, err)
		assertDecimal(t, "5", resp.Days)
		assert.Equal(t, leave.LeaveRequestStatusPending, resp.Status)
		assert.Equal(t, "A0001", resp.EmployeeID)
		assert.True(t, validator.IsValidUUID(resp.ID))
		require.NotNil(t, resp.Comment)
		assert.Equal(t, "family trip", *resp.Comment)
		require.NotNil(t, resp.LeaveTypeName)
		assert.Equal(t, "Annual Leave", *resp.LeaveTypeName)
	})

	t.Run("single day", func(t *testing.T) {
		resp := submit(t, f, sara, sickTypeID, "2025-03-20", "2025-03-20")
		assertDecimal(t, "1", resp.Days)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.requests.CreateLeaveRequest(ctx, sara, leave.CreateLeaveRequestRequest{
			LeaveTypeID: annualTypeID, StartDate: "2025-03-14", EndDate: "2025-03-10",
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "end_date")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := f.requests.CreateLeaveRequest(ctx, sara, leave.CreateLeaveRequestRequest{
			LeaveTypeID: unknownLeaveType, StartDate: "2025-03-10", EndDate: "2025-03-10",
		})
		assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
	})

	t.Run("inactive type", func(t *testing.T) {
		_, err := f.requests.CreateLeaveRequest(ctx, sara, leave.CreateLeaveRequestRequest{
			LeaveTypeID: sabbaticalTypeID, StartDate: "2025-03-10", EndDate: "2025-03-10",
		})
		assert.ErrorIs(t, err, leave.ErrInactiveLeaveType)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.requests.CreateLeaveRequest(ctx, user.Actor{}, leave.CreateLeaveRequestRequest{
			LeaveTypeID: annualTypeID, StartDate: "2025-03-10", EndDate: "2025-03-10",
		})
		assert.ErrorIs(t, err, user.ErrActorRequired)
	})
}

func TestUpdateStatus_ApproveDeductsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	manager := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleManager)))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	req := submit(t, f, sara, annualTypeID, "2025-03-10", "2025-03-14")

	resp, err := f.requests.UpdateStatus(ctx, manager, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, "A0002", *resp.DecidedBy)
	assert.NotNil(t, resp.DecidedAt)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Sara Alaoui", *resp.EmployeeName)

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "13", b.Remaining)

	_, err = f.requests.UpdateStatus(ctx, manager, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusRejected})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	b, _ = f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "13", b.Remaining)
}

func TestUpdateStatus_RejectKeepsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	hr := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleHR)))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	req := submit(t, f, sara, annualTypeID, "2025-03-10", "2025-03-14")

	resp, err := f.requests.UpdateStatus(ctx, hr, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusRejected, resp.Status)

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "18", b.Remaining)
}

func TestUpdateStatus_InsufficientBalanceRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	admin := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleAdmin)))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	req := submit(t, f, sara, sickTypeID, "2025-03-01", "2025-03-15")

	_, err = f.requests.UpdateStatus(ctx, admin, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	stored, err := f.requestRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, stored.Status)
	assert.Nil(t, stored.DecidedBy)

	b, _ := f.balance(t, "A0001", sickTypeID, testYear)
	assertDecimal(t, "10", b.Remaining)

	rejected, err := f.requests.UpdateStatus(ctx, admin, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusRejected, rejected.Status)
}

func TestUpdateStatus_MissingBalanceRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	admin := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleAdmin)))

	req := submit(t, f, sara, sickTypeID, "2025-03-01", "2025-03-02")

	_, err := f.requests.UpdateStatus(ctx, admin, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)

	stored, err := f.requestRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, stored.Status)
}

func TestUpdateStatus_DeductsFromStartYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	admin := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleAdmin)))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	_, err = f.ledger.InitializeYear(ctx, testYear+1)
	require.NoError(t, err)

	req := submit(t, f, sara, annualTypeID, "2025-12-30", "2026-01-02")
	assertDecimal(t, "4", req.Days)

	_, err = f.requests.UpdateStatus(ctx, admin, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	require.NoError(t, err)

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "14", b.Remaining)
	b, _ = f.balance(t, "A0001", annualTypeID, testYear+1)
	assertDecimal(t, "18", b.Remaining)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	admin := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleAdmin)))
	req := submit(t, f, sara, annualTypeID, "2025-03-10", "2025-03-10")

	_, err := f.requests.UpdateStatus(ctx, sara, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	for _, status := range []leave.LeaveRequestStatus{leave.LeaveRequestStatusPending, leave.LeaveRequestStatusCancelled, "archived"} {
		_, err = f.requests.UpdateStatus(ctx, admin, req.ID, leave.UpdateStatusRequest{Status: status})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs, status)
	}

	_, err = f.requests.UpdateStatus(ctx, admin, unknownLeaveType, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusRejected})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestCancelLeaveRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	omar := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleAdmin)))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	req := submit(t, f, sara, annualTypeID, "2025-03-10", "2025-03-11")

	_, err = f.requests.CancelLeaveRequest(ctx, omar, req.ID)
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	cancelled, err := f.requests.CancelLeaveRequest(ctx, sara, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.DecidedBy)

	_, err = f.requests.CancelLeaveRequest(ctx, sara, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = f.requests.UpdateStatus(ctx, omar, req.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	approved := submit(t, f, sara, annualTypeID, "2025-04-01", "2025-04-01")
	_, err = f.requests.UpdateStatus(ctx, omar, approved.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	require.NoError(t, err)
	_, err = f.requests.CancelLeaveRequest(ctx, sara, approved.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = f.requests.CancelLeaveRequest(ctx, sara, unknownLeaveType)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestListLeaveRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := actorFor(f.addEmployee(t, "A0001", "Alaoui", "Sara"))
	omar := actorFor(f.addEmployee(t, "A0002", "Bennani", "Omar", withRole(user.RoleManager)))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	first := submit(t, f, sara, annualTypeID, "2025-03-10", "2025-03-10")
	second := submit(t, f, sara, sickTypeID, "2025-03-11", "2025-03-11")
	third := submit(t, f, omar, annualTypeID, "2025-03-12", "2025-03-12")

	_, err = f.requests.UpdateStatus(ctx, omar, first.ID, leave.UpdateStatusRequest{Status: leave.LeaveRequestStatusApproved})
	require.NoError(t, err)

	all, err := f.requests.ListLeaveRequests(ctx, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "newest first")

	pending := leave.LeaveRequestStatusPending
	open, err := f.requests.ListLeaveRequests(ctx, leave.LeaveRequestFilter{Status: &pending})
	require.NoError(t, err)
	var ids []string
	for _, r := range open {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{second.ID, third.ID}, ids)

	bogus := leave.LeaveRequestStatus("archived")
	_, err = f.requests.ListLeaveRequests(ctx, leave.LeaveRequestFilter{Status: &bogus})
	assert.ErrorIs(t, err, leave.ErrInvalidStatus)

	mine, err := f.requests.ListMyLeaveRequests(ctx, sara)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, "A0001", r.EmployeeID)
		require.NotNil(t, r.LeaveTypeName)
	}

	none, err := f.requests.ListMyLeaveRequests(ctx, actorFor(f.addEmployee(t, "A0003", "Chraibi", "Nadia")))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLeaveTypeService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.types.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{
		Name:        " Maternity Leave ",
		DefaultDays: decimal.NewFromInt(98),
	})
	require.NoError(t, err)
	assert.Equal(t, "Maternity Leave", created.Name)
	assert.Equal(t, leave.AccrualMonthly, created.AccrualMethod)
	assert.True(t, created.IsActive)
	assert.True(t, validator.IsValidUUID(created.ID))

	_, err = f.types.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual Leave", DefaultDays: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	_, err = f.types.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Bad", DefaultDays: decimal.NewFromInt(-1)})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	off := false
	days := decimal.NewFromInt(100)
	updated, err := f.types.UpdateLeaveType(ctx, created.ID, leave.UpdateLeaveTypeRequest{IsActive: &off, DefaultDays: &days})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assertDecimal(t, "100", updated.DefaultDays)

	taken := "Sick Leave"
	_, err = f.types.UpdateLeaveType(ctx, created.ID, leave.UpdateLeaveTypeRequest{Name: &taken})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	_, err = f.types.UpdateLeaveType(ctx, unknownLeaveType, leave.UpdateLeaveTypeRequest{IsActive: &off})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	all, err := f.types.ListLeaveTypes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	active, err := f.types.ListLeaveTypes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Equal(t, "Annual Leave", active[0].Name)
}
