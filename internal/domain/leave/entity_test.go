package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilization(t *testing.T) {
	u := Utilization(decimal.NewFromInt(22), decimal.NewFromInt(11))
	require.NotNil(t, u)
	assert.Equal(t, "50", u.String())
	assert.True(t, u.Equal(decimal.RequireFromString("50.00")))

	u = Utilization(decimal.NewFromInt(3), decimal.NewFromInt(1))
	require.NotNil(t, u)
	assert.Equal(t, "33.33", u.String())

	u = Utilization(decimal.NewFromInt(20), decimal.RequireFromString("23.5"))
	require.NotNil(t, u)
	assert.Equal(t, "117.5", u.String())

	assert.Nil(t, Utilization(decimal.Zero, decimal.NewFromInt(5)))
}

func TestDaysBetween(t *testing.T) {
	d := func(s string) time.Time {
		v, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, 1, DaysBetween(d("2025-03-10"), d("2025-03-10")))
	assert.Equal(t, 3, DaysBetween(d("2025-03-10"), d("2025-03-12")))
	assert.Equal(t, 2, DaysBetween(d("2024-02-28"), d("2024-02-29")))
	assert.Equal(t, 3, DaysBetween(d("2025-12-31"), d("2026-01-02")))
}

func TestPeriodStart(t *testing.T) {
	got := PeriodStart(time.Date(2025, time.July, 19, 13, 4, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestUpdateStatusRequest_Validate(t *testing.T) {
	for _, s := range []LeaveRequestStatus{LeaveRequestStatusApproved, LeaveRequestStatusRejected} {
		req := UpdateStatusRequest{Status: s}
		assert.NoError(t, req.Validate())
	}
	for _, s := range []LeaveRequestStatus{"", LeaveRequestStatusPending, LeaveRequestStatusCancelled, "approuvé"} {
		req := UpdateStatusRequest{Status: s}
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, req.Validate(), &verrs, string(s))
	}
}

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	req := CreateLeaveRequestRequest{
		LeaveTypeID: "01932a4e-7c1b-7d2e-9f3a-4b5c6d7e8f90",
		StartDate:   "2025-04-01",
		EndDate:     "2025-04-03",
	}
	require.NoError(t, req.Validate())
	start, end := req.Span()
	assert.Equal(t, 3, DaysBetween(start, end))

	bad := CreateLeaveRequestRequest{
		LeaveTypeID: "not-a-uuid",
		StartDate:   "2025-04-03",
		EndDate:     "2025-04-01",
	}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "leave_type_id")
	assert.Contains(t, fields, "end_date")
}

func TestCreateLeaveRequestRequest_BoundsTheSpan(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"full leap year", "2028-01-01", "2028-12-31", false},
		{"one day too long", "2027-01-01", "2028-01-02", true},
		{"end year out of range", "2025-01-01", "5025-01-01", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := CreateLeaveRequestRequest{
				LeaveTypeID: "01932a4e-7c1b-7d2e-9f3a-4b5c6d7e8f90",
				StartDate:   tc.start,
				EndDate:     tc.end,
			}
			err := req.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), "end_date")
		})
	}
}

func TestInitializeBalancesRequest_Validate(t *testing.T) {
	assert.NoError(t, (&InitializeBalancesRequest{Year: 2025}).Validate())
	assert.Error(t, (&InitializeBalancesRequest{Year: 1999}).Validate())
	assert.Error(t, (&InitializeBalancesRequest{Year: 2101}).Validate())
	assert.Error(t, (&InitializeBalancesRequest{}).Validate())
}

func TestAccrueRequest_Validate(t *testing.T) {
	req := AccrueRequest{Period: "2025-02"}
	require.NoError(t, req.Validate())
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), req.PeriodStart())

	assert.Error(t, (&AccrueRequest{Period: "2025-13"}).Validate())
	assert.Error(t, (&AccrueRequest{Period: "1999-01"}).Validate())
	assert.Error(t, (&AccrueRequest{Period: ""}).Validate())
}

func TestCreateLeaveTypeRequest_DefaultsToMonthly(t *testing.T) {
	req := CreateLeaveTypeRequest{Name: "Annual", DefaultDays: decimal.NewFromInt(18)}
	require.NoError(t, req.Validate())
	assert.Equal(t, AccrualMonthly, req.AccrualMethod)

	req = CreateLeaveTypeRequest{Name: "Sick", DefaultDays: decimal.NewFromInt(10), AccrualMethod: AccrualYearly}
	require.NoError(t, req.Validate())
	assert.Equal(t, AccrualYearly, req.AccrualMethod)

	req = CreateLeaveTypeRequest{Name: "Sick", DefaultDays: decimal.NewFromInt(-1), AccrualMethod: "weekly"}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Len(t, verrs, 2)
}
