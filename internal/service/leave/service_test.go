package leave

import (
	"context"
	"testing"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	newYear = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	staff    = user.Actor{ID: "emp-1", Role: user.RoleEmployee}
	manager  = user.Actor{ID: "mgr-1", Role: user.RoleManager}
	outsider = user.Actor{ID: "mgr-2", Role: user.RoleManager}
	hrAdmin  = user.Actor{ID: "admin-1", Role: user.RoleAdmin}
)

func hours(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	svc      *LeaveServiceImpl
}

func newFixture(now time.Time) *fixture {
	store := newMemStore()
	deptA, deptB := "dept-a", "dept-b"
	store.employees["emp-1"] = employee.Employee{ID: "emp-1", FullName: "Thandi Mokoena", DepartmentID: &deptA, IsActive: true}
	store.employees["emp-2"] = employee.Employee{ID: "emp-2", FullName: "Sipho Dlamini", DepartmentID: &deptB, IsActive: true}
	store.employees["emp-3"] = employee.Employee{ID: "emp-3", FullName: "Former Staff", DepartmentID: &deptA, IsActive: false}
	store.managed["mgr-1"] = []string{"dept-a"}
	store.managed["mgr-2"] = []string{"dept-b"}

	rate := hours("120")
	maxDays := 3
	store.types["annual"] = leave.LeaveType{ID: "annual", Name: "Annual", IsActive: true, RequiresApproval: true, DefaultAccrualRate: &rate}
	store.types["family"] = leave.LeaveType{ID: "family", Name: "Family Responsibility", IsActive: true, RequiresApproval: false, MaxConsecutiveDays: &maxDays}
	store.types["study"] = leave.LeaveType{ID: "study", Name: "Study", IsActive: false, RequiresApproval: true}

	n := &recordingNotifier{}
	svc := NewLeaveService(store, memTypeRepo{store}, memBalanceRepo{store}, memAppRepo{store}, memEmployeeRepo{store}, n, time.UTC).(*LeaveServiceImpl)
	svc.now = func() time.Time { return now }
	return &fixture{store: store, notifier: n, svc: svc}
}

func (f *fixture) balance(id, employeeID, leaveTypeID, amount, used string) {
	f.store.balances[id] = leave.LeaveBalance{
		ID:              id,
		EmployeeID:      employeeID,
		LeaveTypeID:     leaveTypeID,
		Year:            2025,
		Balance:         hours(amount),
		AccruedThisYear: hours(amount),
		UsedThisYear:    hours(used),
	}
}

func (f *fixture) application(id, employeeID, leaveTypeID, start, end string, status leave.ApplicationStatus) leave.LeaveApplication {
	a := leave.LeaveApplication{
		ID:           id,
		EmployeeID:   employeeID,
		LeaveTypeID:  leaveTypeID,
		StartDate:    day(start),
		EndDate:      day(end),
		Status:       status,
		DepartmentID: f.store.employees[employeeID].DepartmentID,
	}
	f.store.apps[id] = a
	return a
}

func annualRequest(start, end string) leave.CreateApplicationRequest {
	return leave.CreateApplicationRequest{LeaveTypeID: "annual", StartDate: start, EndDate: end}
}

// ========== APPLY ==========

func TestApply_PendingNotifiesManagers(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "80", "0")

	res, err := f.svc.Apply(context.Background(), staff, annualRequest("2025-01-10", "2025-01-14"))
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, res.Status)
	assert.Equal(t, 5, res.DaysRequested)
	assert.Nil(t, res.HoursDeducted)
	assert.True(t, hours("80").Equal(f.store.balances["b1"].Balance))

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "mgr-1", f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveSubmitted, f.notifier.sent[0].Type)
}

func TestApply_OverlapSharesBoundaryDay(t *testing.T) {
	f := newFixture(newYear)
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-15", leave.StatusPending)
	f.application("a2", "emp-1", "annual", "2025-01-21", "2025-01-22", leave.StatusRejected)

	_, err := f.svc.Apply(context.Background(), staff, annualRequest("2025-01-15", "2025-01-20"))
	assert.ErrorIs(t, err, leave.ErrOverlappingApplication)
	assert.Len(t, f.store.apps, 2)
	assert.Equal(t, 1, f.store.rollbacks)

	_, err = f.svc.Apply(context.Background(), staff, annualRequest("2025-01-16", "2025-01-22"))
	assert.NoError(t, err)
}

func TestApply_ConcurrentOverlapRejectedOnInsert(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "family", "24", "0")
	f.application("a1", "emp-1", "family", "2025-01-10", "2025-01-10", leave.StatusPending)
	svc := NewLeaveService(f.store, memTypeRepo{f.store}, memBalanceRepo{f.store}, staleOverlapRepo{memAppRepo{f.store}},
		memEmployeeRepo{f.store}, f.notifier, time.UTC).(*LeaveServiceImpl)
	svc.now = func() time.Time { return newYear }

	target := "emp-1"
	req := leave.CreateApplicationRequest{
		EmployeeID:  &target,
		LeaveTypeID: "family",
		StartDate:   "2025-01-09",
		EndDate:     "2025-01-10",
		AutoApprove: true,
	}
	_, err := svc.Apply(context.Background(), manager, req)

	assert.ErrorIs(t, err, leave.ErrOverlappingApplication)
	assert.Len(t, f.store.apps, 1)
	assert.True(t, hours("24").Equal(f.store.balances["b1"].Balance))
	assert.True(t, f.store.balances["b1"].UsedThisYear.IsZero())
	assert.Equal(t, 1, f.store.rollbacks)
	assert.Empty(t, f.notifier.sent)
}

func TestApply_DateChecks(t *testing.T) {
	f := newFixture(newYear)

	_, err := f.svc.Apply(context.Background(), staff, annualRequest("2025-01-01", "2025-01-02"))
	assert.ErrorIs(t, err, leave.ErrMustBeFutureDate)

	_, err = f.svc.Apply(context.Background(), staff, annualRequest("2025-01-12", "2025-01-10"))
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)

	_, err = f.svc.Apply(context.Background(), staff, annualRequest("10/01/2025", "2025-01-10"))
	assert.Error(t, err)
	assert.Empty(t, f.store.apps)
}

func TestApply_SelfAutoApproveForbidden(t *testing.T) {
	f := newFixture(newYear)

	for _, actor := range []user.Actor{staff, hrAdmin} {
		req := annualRequest("2025-01-10", "2025-01-10")
		req.AutoApprove = true
		_, err := f.svc.Apply(context.Background(), actor, req)
		assert.ErrorIs(t, err, leave.ErrSelfAutoApprove, actor.Role)
	}
}

func TestApply_ManagerAutoApprovesForTeam(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "family", "24", "0")

	target := "emp-1"
	req := leave.CreateApplicationRequest{
		EmployeeID:  &target,
		LeaveTypeID: "family",
		StartDate:   "2024-12-31",
		EndDate:     "2025-01-01",
		AutoApprove: true,
	}
	res, err := f.svc.Apply(context.Background(), manager, req)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, res.Status)
	require.NotNil(t, res.HoursDeducted)
	assert.True(t, hours("16").Equal(*res.HoursDeducted))
	assert.True(t, hours("8").Equal(f.store.balances["b1"].Balance))
	assert.True(t, hours("16").Equal(f.store.balances["b1"].UsedThisYear))

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "emp-1", f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveApproved, f.notifier.sent[0].Type)
}

func TestApply_AutoApproveRestrictions(t *testing.T) {
	f := newFixture(newYear)
	target := "emp-1"

	req := annualRequest("2025-01-10", "2025-01-10")
	req.EmployeeID = &target
	req.AutoApprove = true
	_, err := f.svc.Apply(context.Background(), manager, req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeRequiresApproval)

	_, err = f.svc.Apply(context.Background(), outsider, req)
	assert.ErrorIs(t, err, leave.ErrAutoApproveNotPermitted)

	req.AutoApprove = false
	_, err = f.svc.Apply(context.Background(), outsider, req)
	assert.ErrorIs(t, err, leave.ErrNotAllowedForEmployee)

	req.AutoApprove = true
	res, err := f.svc.Apply(context.Background(), hrAdmin, req)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, res.Status)
}

func TestApply_LeaveTypeRules(t *testing.T) {
	f := newFixture(newYear)

	req := leave.CreateApplicationRequest{LeaveTypeID: "family", StartDate: "2025-01-10", EndDate: "2025-01-13"}
	_, err := f.svc.Apply(context.Background(), staff, req)
	assert.ErrorIs(t, err, leave.ErrExceedsMaxConsecutive)

	req = leave.CreateApplicationRequest{LeaveTypeID: "study", StartDate: "2025-01-10", EndDate: "2025-01-10"}
	_, err = f.svc.Apply(context.Background(), staff, req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)

	req.LeaveTypeID = "sabbatical"
	_, err = f.svc.Apply(context.Background(), staff, req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)
}

func TestApply_HourlyLeave(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "8", "0")

	h := hours("10")
	req := leave.CreateApplicationRequest{LeaveTypeID: "annual", StartDate: "2025-01-10", EndDate: "2025-01-10", IsHourly: true, HoursRequested: &h}
	_, err := f.svc.Apply(context.Background(), staff, req)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	f.balance("b1", "emp-1", "annual", "40", "0")
	res, err := f.svc.Apply(context.Background(), staff, req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DaysRequested)
}

// ========== REVIEW ==========

func TestApprove_InsufficientBalanceLeavesBalanceUnchanged(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "8", "0")
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)

	_, err := f.svc.Approve(context.Background(), manager, leave.ReviewApplicationRequest{ApplicationID: "a1"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	assert.True(t, hours("8").Equal(f.store.balances["b1"].Balance))
	assert.True(t, f.store.balances["b1"].UsedThisYear.IsZero())
	assert.Equal(t, leave.StatusPending, f.store.apps["a1"].Status)
	assert.Equal(t, 1, f.store.rollbacks)
	assert.Empty(t, f.notifier.sent)
}

func TestApprove_DeductsExactHours(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "40", "0")
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)

	comments := "enjoy"
	res, err := f.svc.Approve(context.Background(), manager, leave.ReviewApplicationRequest{ApplicationID: "a1", ManagerComments: &comments})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, res.Status)

	b := f.store.balances["b1"]
	assert.True(t, hours("24").Equal(b.Balance))
	assert.True(t, hours("16").Equal(b.UsedThisYear))

	a := f.store.apps["a1"]
	require.NotNil(t, a.HoursDeducted)
	assert.True(t, hours("16").Equal(*a.HoursDeducted))
	assert.Equal(t, "b1", *a.DeductedBalanceID)
	assert.Equal(t, "mgr-1", *a.ManagerApprovedID)
	assert.Equal(t, "enjoy", *a.ManagerComments)
	assert.Equal(t, newYear, *a.ApprovedAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TypeLeaveApproved, f.notifier.sent[0].Type)
	assert.Equal(t, "emp-1", f.notifier.sent[0].RecipientID)
}

func TestApprove_WithoutBalanceRow(t *testing.T) {
	f := newFixture(newYear)
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)

	_, err := f.svc.Approve(context.Background(), manager, leave.ReviewApplicationRequest{ApplicationID: "a1"})
	require.NoError(t, err)
	assert.Nil(t, f.store.apps["a1"].HoursDeducted)
	assert.Nil(t, f.store.apps["a1"].DeductedBalanceID)
}

func TestReview_Guards(t *testing.T) {
	f := newFixture(newYear)
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusApproved)
	f.application("a2", "emp-1", "annual", "2025-02-10", "2025-02-11", leave.StatusPending)

	_, err := f.svc.Approve(context.Background(), manager, leave.ReviewApplicationRequest{ApplicationID: "a1"})
	assert.ErrorIs(t, err, leave.ErrApplicationNotPending)

	_, err = f.svc.Approve(context.Background(), outsider, leave.ReviewApplicationRequest{ApplicationID: "a2"})
	assert.ErrorIs(t, err, leave.ErrNotAllowedToReview)

	_, err = f.svc.Reject(context.Background(), manager, leave.ReviewApplicationRequest{ApplicationID: "missing"})
	assert.ErrorIs(t, err, leave.ErrApplicationNotFound)
}

func TestReject_LeavesBalanceUntouched(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "40", "0")
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)

	res, err := f.svc.Reject(context.Background(), hrAdmin, leave.ReviewApplicationRequest{ApplicationID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, res.Status)
	assert.True(t, hours("40").Equal(f.store.balances["b1"].Balance))
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TypeLeaveRejected, f.notifier.sent[0].Type)
}

// ========== CANCEL ==========

func TestCancel_RestoresDeductedHoursClamped(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "10", "4")
	a := f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusApproved)
	deducted, balanceID := hours("16"), "b1"
	a.HoursDeducted, a.DeductedBalanceID = &deducted, &balanceID
	f.store.apps["a1"] = a

	res, err := f.svc.Cancel(context.Background(), staff, "a1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, res.Status)

	b := f.store.balances["b1"]
	assert.True(t, hours("26").Equal(b.Balance))
	assert.True(t, b.UsedThisYear.IsZero())

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "mgr-1", f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveCancelled, f.notifier.sent[0].Type)
}

func TestCancel_Guards(t *testing.T) {
	f := newFixture(time.Date(2025, 1, 10, 7, 0, 0, 0, time.UTC))
	f.application("started", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusApproved)
	f.application("rejected", "emp-1", "annual", "2025-02-10", "2025-02-11", leave.StatusRejected)
	f.application("pending", "emp-1", "annual", "2025-03-10", "2025-03-11", leave.StatusPending)

	_, err := f.svc.Cancel(context.Background(), staff, "started")
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyStarted)

	_, err = f.svc.Cancel(context.Background(), staff, "rejected")
	assert.ErrorIs(t, err, leave.ErrNotCancellable)

	other := user.Actor{ID: "emp-2", Role: user.RoleEmployee}
	_, err = f.svc.Cancel(context.Background(), other, "pending")
	assert.ErrorIs(t, err, leave.ErrNotAllowedForEmployee)

	_, err = f.svc.Cancel(context.Background(), staff, "pending")
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)
}

// ========== LISTING ==========

func TestListTeam_ScopedToManagedDepartments(t *testing.T) {
	f := newFixture(newYear)
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)
	f.application("a2", "emp-2", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)

	_, err := f.svc.ListTeam(context.Background(), staff, leave.ApplicationFilter{})
	assert.ErrorIs(t, err, leave.ErrTeamViewNotPermitted)

	res, err := f.svc.ListTeam(context.Background(), manager, leave.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, "emp-1", res.Applications[0].EmployeeID)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.Limit)

	res, err = f.svc.ListTeam(context.Background(), hrAdmin, leave.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, res.Applications, 2)

	mine, err := f.svc.ListMine(context.Background(), user.Actor{ID: "emp-2", Role: user.RoleEmployee}, leave.ApplicationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)

	_, err = f.svc.GetApplication(context.Background(), outsider, "a1")
	assert.ErrorIs(t, err, leave.ErrNotAllowedForEmployee)
	_, err = f.svc.GetApplication(context.Background(), manager, "a1")
	assert.NoError(t, err)
}

// ========== TYPES ==========

func TestCreateType_DefaultsAndDuplicates(t *testing.T) {
	f := newFixture(newYear)

	res, err := f.svc.CreateType(context.Background(), leave.CreateLeaveTypeRequest{Name: " Parental "})
	require.NoError(t, err)
	assert.Equal(t, "Parental", res.Name)
	assert.True(t, res.RequiresApproval)
	assert.True(t, res.IsActive)

	_, err = f.svc.CreateType(context.Background(), leave.CreateLeaveTypeRequest{Name: "Annual"})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)
}

func TestUpdateType_Guards(t *testing.T) {
	f := newFixture(newYear)
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)

	inactive := false
	_, err := f.svc.UpdateType(context.Background(), leave.UpdateLeaveTypeRequest{ID: "annual", IsActive: &inactive})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeHasPending)
	assert.True(t, f.store.types["annual"].IsActive)

	name := "Annual"
	_, err = f.svc.UpdateType(context.Background(), leave.UpdateLeaveTypeRequest{ID: "family", Name: &name})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	res, err := f.svc.UpdateType(context.Background(), leave.UpdateLeaveTypeRequest{ID: "family", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, res.IsActive)
}

func TestGetType_Statistics(t *testing.T) {
	f := newFixture(newYear)
	f.application("a1", "emp-1", "annual", "2025-01-10", "2025-01-11", leave.StatusPending)
	f.application("a2", "emp-1", "annual", "2025-02-10", "2025-02-11", leave.StatusApproved)
	f.application("a3", "emp-2", "annual", "2025-02-10", "2025-02-11", leave.StatusRejected)

	res, err := f.svc.GetType(context.Background(), "annual")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveTypeStats{TotalApplications: 3, PendingApplications: 1, ApprovedApplications: 1}, res.Statistics)
}

// ========== BALANCES ==========

func TestAdjustBalance(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "10", "0")

	raise := hours("25")
	res, err := f.svc.AdjustBalance(context.Background(), hrAdmin, leave.AdjustBalanceRequest{BalanceID: "b1", NewBalance: &raise})
	require.NoError(t, err)
	assert.True(t, hours("25").Equal(res.Balance))
	assert.True(t, hours("25").Equal(res.AccruedThisYear))

	cut := hours("5")
	res, err = f.svc.AdjustBalance(context.Background(), hrAdmin, leave.AdjustBalanceRequest{BalanceID: "b1", NewBalance: &cut})
	require.NoError(t, err)
	assert.True(t, hours("5").Equal(res.Balance))
	assert.True(t, hours("25").Equal(res.AccruedThisYear))

	_, err = f.svc.AdjustBalance(context.Background(), hrAdmin, leave.AdjustBalanceRequest{BalanceID: "b1"})
	assert.Error(t, err)
}

func TestMyBalances_DefaultsToCurrentYear(t *testing.T) {
	f := newFixture(newYear)
	f.balance("b1", "emp-1", "annual", "10", "0")
	old := f.store.balances["b1"]
	old.ID, old.Year = "b0", 2024
	f.store.balances["b0"] = old

	res, err := f.svc.MyBalances(context.Background(), staff, 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, res.CurrentYear)
	require.Len(t, res.Balances, 1)
	assert.Equal(t, "b1", res.Balances[0].ID)
	assert.Len(t, res.LeaveTypes, 2)
}

// ========== ACCRUAL ==========

func TestRunAccrual_IdempotentWithinMonth(t *testing.T) {
	f := newFixture(newYear)
	ctx := context.Background()

	first, err := f.svc.RunAccrual(ctx, time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, first.EmployeesProcessed)
	assert.Equal(t, 2, first.BalancesCreated)
	assert.Equal(t, 2, first.BalancesAccrued)

	b, err := memBalanceRepo{f.store}.Find(ctx, "emp-1", "annual", 2025)
	require.NoError(t, err)
	assert.True(t, hours("10").Equal(b.Balance))

	second, err := f.svc.RunAccrual(ctx, time.Date(2025, 1, 31, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, second.BalancesAccrued)
	assert.Equal(t, 2, second.BalancesSkipped)
	assert.Equal(t, 0, second.BalancesCreated)

	b, _ = memBalanceRepo{f.store}.Find(ctx, "emp-1", "annual", 2025)
	assert.True(t, hours("10").Equal(b.Balance))

	third, err := f.svc.RunAccrual(ctx, time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, third.BalancesAccrued)

	b, _ = memBalanceRepo{f.store}.Find(ctx, "emp-1", "annual", 2025)
	assert.True(t, hours("20").Equal(b.Balance))
	assert.True(t, hours("20").Equal(b.AccruedThisYear))
	_, err = memBalanceRepo{f.store}.Find(ctx, "emp-1", "family", 2025)
	assert.ErrorIs(t, err, leave.ErrLeaveBalanceNotFound)
}
