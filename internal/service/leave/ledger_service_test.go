package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeYear_InvalidYear(t *testing.T) {
	f := newFixture(t)

	for _, year := range []int{0, 1999, 2101} {
		_, err := f.ledger.InitializeYear(context.Background(), year)
		assert.ErrorIs(t, err, leave.ErrInvalidYear, year)
	}
}

func TestInitializeYear_ActiveEmployeesTimesActiveTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")
	f.addEmployee(t, "A0002", "Bennani", "Omar")
	f.addEmployee(t, "A0003", "Chraibi", "Nadia", inactive())

	resp, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	assert.Equal(t, testYear, resp.Year)
	assert.Equal(t, int64(4), resp.Created)

	b, ok := f.balance(t, "A0001", annualTypeID, testYear)
	require.True(t, ok)
	assertDecimal(t, "18", b.Entitlement)
	assertDecimal(t, "18", b.Remaining)

	_, ok = f.balance(t, "A0001", sabbaticalTypeID, testYear)
	assert.False(t, ok, "inactive leave type must not be opened")

	balances, err := f.balanceRepo.GetByEmployeeYear(ctx, "A0003", testYear)
	require.NoError(t, err)
	assert.Empty(t, balances, "inactive employee must not be opened")
}

func TestInitializeYear_IsIdempotentAndKeepsExistingRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")

	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	_, err = f.ledger.Deduct(ctx, "A0001", annualTypeID, testYear, decimal.NewFromInt(5))
	require.NoError(t, err)

	f.addEmployee(t, "A0002", "Bennani", "Omar")

	resp, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Created, "only the new employee's rows")

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "13", b.Remaining)
	assertDecimal(t, "18", b.Entitlement)

	resp, err = f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Created)
}

func TestInitializeYear_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "A0001", "Alaoui", "Sara")

	f.store.FailOn("balance.InitializeYear", errors.New("connection refused"))

	_, err := f.ledger.InitializeYear(context.Background(), testYear)
	assert.ErrorIs(t, err, database.ErrTransactionFailed)
}

func TestAccrueMonthly_ResolvesIncrementPerEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.companyRepo.UpdateLeaveDaysPerMonth(ctx, companyID, decimal.NewNullDecimal(decimal.RequireFromString("1.75")))
	require.NoError(t, err)

	f.addEmployee(t, "A0001", "Alaoui", "Sara", withIncrement("2"))
	f.addEmployee(t, "A0002", "Bennani", "Omar")
	f.addEmployee(t, "A0003", "Chraibi", "Nadia", inCompany(otherCompanyID))

	_, err = f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	run, err := f.ledger.AccrueMonthly(ctx, period(testYear, time.March))
	require.NoError(t, err)
	assert.Equal(t, "2025-03", run.Period)
	assert.Equal(t, int64(3), run.RowsAffected)

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "20", b.Remaining)
	assertDecimal(t, "18", b.Entitlement)

	b, _ = f.balance(t, "A0002", annualTypeID, testYear)
	assertDecimal(t, "19.75", b.Remaining)

	b, _ = f.balance(t, "A0003", annualTypeID, testYear)
	assertDecimal(t, "19.5", b.Remaining)

	b, _ = f.balance(t, "A0001", sickTypeID, testYear)
	assertDecimal(t, "10", b.Remaining)
}

func TestAccrueMonthly_OncePerPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	_, err = f.ledger.AccrueMonthly(ctx, time.Date(testYear, time.April, 17, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = f.ledger.AccrueMonthly(ctx, period(testYear, time.April))
	assert.ErrorIs(t, err, leave.ErrAccrualAlreadyApplied)

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "19.5", b.Remaining)

	_, err = f.ledger.AccrueMonthly(ctx, period(testYear, time.May))
	require.NoError(t, err)
	b, _ = f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "21", b.Remaining)
}

func TestAccrueMonthly_OnlyTouchesPeriodYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	_, err = f.ledger.InitializeYear(ctx, testYear+1)
	require.NoError(t, err)

	run, err := f.ledger.AccrueMonthly(ctx, period(testYear+1, time.January))
	require.NoError(t, err)
	assert.Equal(t, int64(1), run.RowsAffected)

	b, _ := f.balance(t, "A0001", annualTypeID, testYear)
	assertDecimal(t, "18", b.Remaining)
	b, _ = f.balance(t, "A0001", annualTypeID, testYear+1)
	assertDecimal(t, "19.5", b.Remaining)
}

func TestAccrueMonthly_IncludesInactiveEmployees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	off := false
	_, err = f.employeeRepo.Update(ctx, "A0001", employee.UpdateEmployeeRequest{IsActive: &off})
	require.NoError(t, err)

	run, err := f.ledger.AccrueMonthly(ctx, period(testYear, time.June))
	require.NoError(t, err)
	assert.Equal(t, int64(1), run.RowsAffected)
}

func TestAccrueMonthly_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.AccrueMonthly(ctx, period(1999, time.December))
	assert.ErrorIs(t, err, leave.ErrInvalidYear)

	f.store.FailOn("balance.AccrueMonthly", errors.New("deadlock detected"))
	_, err = f.ledger.AccrueMonthly(ctx, period(testYear, time.March))
	assert.ErrorIs(t, err, database.ErrTransactionFailed)

	f.store.FailOn("balance.AccrueMonthly", nil)
	_, err = f.ledger.AccrueMonthly(ctx, period(testYear, time.March))
	assert.NoError(t, err, "a failed run must not mark the period")
}

func TestAccrueMonthly_CreditsTypesCreatedThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conge, err := f.types.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Conge", DefaultDays: decimal.NewFromInt(22)})
	require.NoError(t, err)
	f.addEmployee(t, "A0001", "Alaoui", "Sara")

	_, err = f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	_, err = f.ledger.Deduct(ctx, "A0001", conge.ID, testYear, decimal.NewFromInt(3))
	require.NoError(t, err)
	_, err = f.ledger.AccrueMonthly(ctx, period(testYear, time.March))
	require.NoError(t, err)

	// 22 - 3 + 1.5
	b, ok := f.balance(t, "A0001", conge.ID, testYear)
	require.True(t, ok)
	assertDecimal(t, "20.5", b.Remaining)
}

func TestAccrueMonthly_OpensPeriodYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")

	run, err := f.ledger.AccrueMonthly(ctx, period(testYear+1, time.January))
	require.NoError(t, err)
	assert.Equal(t, int64(2), run.BalancesOpened)
	assert.Equal(t, int64(1), run.RowsAffected)

	b, ok := f.balance(t, "A0001", annualTypeID, testYear+1)
	require.True(t, ok)
	assertDecimal(t, "19.5", b.Remaining)
	assertDecimal(t, "18", b.Entitlement)

	opened, err := f.ledger.InitializeYear(ctx, testYear+1)
	require.NoError(t, err)
	assert.Zero(t, opened.Created)

	_, err = f.ledger.AccrueMonthly(ctx, period(testYear+1, time.January))
	assert.ErrorIs(t, err, leave.ErrAccrualAlreadyApplied)
	b, _ = f.balance(t, "A0001", annualTypeID, testYear+1)
	assertDecimal(t, "19.5", b.Remaining)
}

func TestAccrueMonthly_RejectsFuturePeriods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee(t, "A0001", "Alaoui", "Sara")

	_, err := f.ledger.AccrueMonthly(ctx, period(ledgerToday.Year(), ledgerToday.Month()+1))
	assert.ErrorIs(t, err, leave.ErrFuturePeriod)

	_, err = f.ledger.AccrueMonthly(ctx, period(ledgerToday.Year(), ledgerToday.Month()+1))
	assert.ErrorIs(t, err, leave.ErrFuturePeriod, "a rejected period must stay unmarked")

	_, err = f.ledger.AccrueMonthly(ctx, period(ledgerToday.Year(), ledgerToday.Month()))
	assert.NoError(t, err)

	t.Run("current month follows the ledger timezone", func(t *testing.T) {
		ledger := f.ledger.(*LedgerServiceImpl)
		ledger.loc = time.FixedZone("UTC+1", 3600)
		// 23:30 UTC on 30 June is already 1 July locally.
		ledger.now = func() time.Time { return time.Date(testYear+1, time.June, 30, 23, 30, 0, 0, time.UTC) }

		_, err := f.ledger.AccrueMonthly(ctx, period(testYear+1, time.July))
		assert.NoError(t, err)
	})
}

func TestDeduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Alaoui", "Sara")
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	t.Run("partial", func(t *testing.T) {
		resp, err := f.ledger.Deduct(ctx, "A0001", sickTypeID, testYear, decimal.RequireFromString("2.5"))
		require.NoError(t, err)
		assertDecimal(t, "7.5", resp.Remaining)
		assertDecimal(t, "10", resp.Entitlement)
	})

	t.Run("insufficient leaves balance unchanged", func(t *testing.T) {
		_, err := f.ledger.Deduct(ctx, "A0001", sickTypeID, testYear, decimal.NewFromInt(8))
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

		b, _ := f.balance(t, "A0001", sickTypeID, testYear)
		assertDecimal(t, "7.5", b.Remaining)
	})

	t.Run("down to zero", func(t *testing.T) {
		resp, err := f.ledger.Deduct(ctx, "A0001", sickTypeID, testYear, decimal.RequireFromString("7.5"))
		require.NoError(t, err)
		assert.True(t, resp.Remaining.IsZero())
	})

	t.Run("missing balance", func(t *testing.T) {
		_, err := f.ledger.Deduct(ctx, "A0001", sickTypeID, testYear+1, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, leave.ErrBalanceNotFound)

		_, err = f.ledger.Deduct(ctx, missingEmployeeID, sickTypeID, testYear, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
	})

	t.Run("non-positive days", func(t *testing.T) {
		_, err := f.ledger.Deduct(ctx, "A0001", annualTypeID, testYear, decimal.Zero)
		assert.ErrorIs(t, err, leave.ErrInvalidDays)

		_, err = f.ledger.Deduct(ctx, "A0001", annualTypeID, testYear, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, leave.ErrInvalidDays)
	})
}

func TestGetBalance_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sara := f.addEmployee(t, "A0001", "Alaoui", "Sara")
	omar := f.addEmployee(t, "A0002", "Bennani", "Omar")
	hr := f.addEmployee(t, "A0003", "Chraibi", "Nadia", withRole(user.RoleHR))
	_, err := f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)

	own, err := f.ledger.GetBalance(ctx, actorFor(sara), sara.ID, testYear)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "Annual Leave", own[0].LeaveTypeName)
	assert.Equal(t, "Sick Leave", own[1].LeaveTypeName)

	_, err = f.ledger.GetBalance(ctx, actorFor(omar), sara.ID, testYear)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	other, err := f.ledger.GetBalance(ctx, actorFor(hr), sara.ID, testYear)
	require.NoError(t, err)
	assert.Len(t, other, 2)

	empty, err := f.ledger.GetBalance(ctx, actorFor(sara), sara.ID, testYear+3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.ledger.GetBalance(ctx, actorFor(hr), missingEmployeeID, testYear)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.ledger.GetBalance(ctx, actorFor(sara), sara.ID, 1800)
	assert.ErrorIs(t, err, leave.ErrInvalidYear)
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEmployee(t, "A0001", "Zerouali", "Sara", inDepartment("IT"))
	f.addEmployee(t, "A0002", "Bennani", "Omar", inDepartment("Finance"))
	f.addEmployee(t, "A0003", "Alaoui", "Nadia")
	f.addEmployee(t, "A0004", "Amrani", "Karim", inDepartment("IT"))
	f.addEmployee(t, "A0005", "Idrissi", "Leila", inDepartment("IT"), inactive())

	_, err := f.typeRepo.Create(ctx, leave.LeaveType{
		ID: "0192a5e4-3c1b-7d2e-8f00-0000000000a4", Name: "Unpaid Leave", DefaultDays: decimal.Zero,
		AccrualMethod: leave.AccrualYearly, IsActive: true,
	})
	require.NoError(t, err)

	_, err = f.ledger.InitializeYear(ctx, testYear)
	require.NoError(t, err)
	_, err = f.ledger.Deduct(ctx, "A0004", annualTypeID, testYear, decimal.NewFromInt(12))
	require.NoError(t, err)

	rows, err := f.ledger.Report(ctx, nil, testYear)
	require.NoError(t, err)
	require.Len(t, rows, 12)

	var order []string
	for _, r := range rows {
		if r.LeaveTypeID == annualTypeID {
			order = append(order, r.EmployeeID)
		}
	}
	assert.Equal(t, []string{"A0002", "A0004", "A0001", "A0003"}, order, "department, then last name; no department last")

	for _, r := range rows {
		switch {
		case r.LeaveTypeName == "Unpaid Leave":
			assert.Nil(t, r.UtilizationPercentage)
		case r.EmployeeID == "A0004" && r.LeaveTypeID == annualTypeID:
			require.NotNil(t, r.UtilizationPercentage)
			assertDecimal(t, "33.33", *r.UtilizationPercentage)
		default:
			require.NotNil(t, r.UtilizationPercentage)
			assertDecimal(t, "100", *r.UtilizationPercentage)
		}
	}

	it := "IT"
	rows, err = f.ledger.Report(ctx, &it, testYear)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
	for _, r := range rows {
		require.NotNil(t, r.Department)
		assert.Equal(t, "IT", *r.Department)
	}

	rows, err = f.ledger.Report(ctx, nil, testYear+1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.ledger.Report(ctx, nil, 2200)
	assert.ErrorIs(t, err, leave.ErrInvalidYear)
}
