package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	List(ctx context.Context, includeInactive bool) ([]LeaveType, error)
	// ListAccruing returns active leave types with a non-null accrual rate
	ListAccruing(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
}

type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByID(ctx context.Context, id string) (LeaveBalance, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (LeaveBalance, error)
	// FindForUpdate locks and returns the employee's balance for the type and year
	FindForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	Find(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	List(ctx context.Context, filter BalanceFilter) ([]LeaveBalance, error)
	Update(ctx context.Context, balance LeaveBalance) error
}

type LeaveApplicationRepository interface {
	Create(ctx context.Context, application LeaveApplication) (LeaveApplication, error)
	GetByID(ctx context.Context, id string) (LeaveApplication, error)
	GetByIDForUpdate(ctx context.Context, id string) (LeaveApplication, error)
	// HasOverlap reports a Pending or Approved application of the employee sharing a day with [start, end]
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	List(ctx context.Context, filter ApplicationFilter) ([]LeaveApplication, int64, error)
	Update(ctx context.Context, application LeaveApplication) error
	CountByLeaveType(ctx context.Context, leaveTypeID string, status *ApplicationStatus) (int64, error)
}
