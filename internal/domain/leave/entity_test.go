package leave

import (
	"testing"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestLeaveApplication_Overlaps(t *testing.T) {
	a := LeaveApplication{StartDate: date("2025-01-10"), EndDate: date("2025-01-15")}

	assert.True(t, a.Overlaps(date("2025-01-15"), date("2025-01-20")), "shared last day")
	assert.True(t, a.Overlaps(date("2025-01-05"), date("2025-01-10")), "shared first day")
	assert.True(t, a.Overlaps(date("2025-01-11"), date("2025-01-12")), "nested")
	assert.True(t, a.Overlaps(date("2025-01-01"), date("2025-01-31")), "enclosing")
	assert.False(t, a.Overlaps(date("2025-01-16"), date("2025-01-20")))
	assert.False(t, a.Overlaps(date("2025-01-01"), date("2025-01-09")))
}

func TestLeaveApplication_DaysAndHours(t *testing.T) {
	full := LeaveApplication{StartDate: date("2025-01-10"), EndDate: date("2025-01-14")}
	assert.Equal(t, 5, full.Days())
	assert.True(t, decimal.NewFromInt(40).Equal(full.HoursNeeded()))

	h := decimal.RequireFromString("12.5")
	hourly := LeaveApplication{StartDate: date("2025-01-10"), EndDate: date("2025-01-10"), IsHourly: true, HoursRequested: &h}
	assert.Equal(t, 2, hourly.Days())
	assert.True(t, h.Equal(hourly.HoursNeeded()))
}

func TestLeaveBalance_DeductAndRestore(t *testing.T) {
	b := LeaveBalance{Balance: decimal.NewFromInt(10), UsedThisYear: decimal.NewFromInt(2)}

	assert.ErrorIs(t, b.Deduct(decimal.NewFromInt(11)), ErrInsufficientBalance)
	assert.True(t, decimal.NewFromInt(10).Equal(b.Balance))

	require.NoError(t, b.Deduct(decimal.NewFromInt(10)))
	assert.True(t, b.Balance.IsZero())
	assert.True(t, decimal.NewFromInt(12).Equal(b.UsedThisYear))

	b.Restore(decimal.NewFromInt(20))
	assert.True(t, decimal.NewFromInt(20).Equal(b.Balance))
	assert.True(t, b.UsedThisYear.IsZero())
}

func TestLeaveBalance_AccrualDue(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, LeaveBalance{}.AccrualDue(now))

	last := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, LeaveBalance{LastAccrualDate: &last}.AccrualDue(now))

	last = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	assert.True(t, LeaveBalance{LastAccrualDate: &last}.AccrualDue(now))

	last = time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)
	assert.True(t, LeaveBalance{LastAccrualDate: &last}.AccrualDue(now))
}

func TestCreateApplicationRequest_Validate(t *testing.T) {
	req := CreateApplicationRequest{LeaveTypeID: "annual", StartDate: "2025-01-10", EndDate: "2025-01-12"}
	require.NoError(t, req.Validate())
	assert.Equal(t, date("2025-01-10"), req.Start)

	req = CreateApplicationRequest{StartDate: "soon", EndDate: "2025-01-12", IsHourly: true}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Len(t, verrs, 3)

	req = CreateApplicationRequest{LeaveTypeID: "annual", StartDate: "2025-01-12", EndDate: "2025-01-10"}
	assert.ErrorIs(t, req.Validate(), ErrInvalidDateRange)
}
