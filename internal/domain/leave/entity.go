package leave

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// HoursPerDay converts day-based applications into balance hours
var HoursPerDay = decimal.NewFromInt(8)

// LeaveType entity
type LeaveType struct {
	ID                 string
	Name               string
	Description        *string
	DefaultAccrualRate *decimal.Decimal // hours per year, nil disables accrual
	IsActive           bool
	RequiresApproval   bool
	MaxConsecutiveDays *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LeaveBalance holds one employee's hours for one leave type and year
type LeaveBalance struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	Year            int
	Balance         decimal.Decimal
	AccruedThisYear decimal.Decimal
	UsedThisYear    decimal.Decimal
	LastAccrualDate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relationships (for responses)
	EmployeeName  *string
	LeaveTypeName *string
}

// Deduct removes hours from the balance and records them as used
func (b *LeaveBalance) Deduct(hours decimal.Decimal) error {
	if b.Balance.LessThan(hours) {
		return ErrInsufficientBalance
	}
	b.Balance = b.Balance.Sub(hours)
	b.UsedThisYear = b.UsedThisYear.Add(hours)
	return nil
}

// Restore returns hours to the balance. UsedThisYear never goes below zero.
func (b *LeaveBalance) Restore(hours decimal.Decimal) {
	b.Balance = b.Balance.Add(hours)
	b.UsedThisYear = decimal.Max(decimal.Zero, b.UsedThisYear.Sub(hours))
}

// AccrualDue reports whether no accrual has been recorded in now's calendar month
func (b LeaveBalance) AccrualDue(now time.Time) bool {
	if b.LastAccrualDate == nil {
		return true
	}
	last := b.LastAccrualDate.In(now.Location())
	return last.Year() != now.Year() || last.Month() != now.Month()
}

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "Pending"
	StatusApproved  ApplicationStatus = "Approved"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusCancelled ApplicationStatus = "Cancelled"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// LeaveApplication entity. StartDate and EndDate are calendar dates at UTC midnight.
type LeaveApplication struct {
	ID                string
	EmployeeID        string
	LeaveTypeID       string
	StartDate         time.Time
	EndDate           time.Time
	IsHourly          bool
	HoursRequested    *decimal.Decimal
	Reason            *string
	Status            ApplicationStatus
	ManagerApprovedID *string
	ManagerComments   *string
	ApprovedAt        *time.Time
	HoursDeducted     *decimal.Decimal
	DeductedBalanceID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Relationships (for responses)
	EmployeeName  *string
	LeaveTypeName *string
	DepartmentID  *string
}

// Days is the inclusive calendar-day count, or hours rounded up to whole days for hourly applications
func (a LeaveApplication) Days() int {
	if a.IsHourly && a.HoursRequested != nil {
		return int(a.HoursRequested.Div(HoursPerDay).Ceil().IntPart())
	}
	return int(math.Floor(a.EndDate.Sub(a.StartDate).Hours()/24)) + 1
}

// HoursNeeded is what approval deducts from the balance
func (a LeaveApplication) HoursNeeded() decimal.Decimal {
	if a.IsHourly && a.HoursRequested != nil {
		return *a.HoursRequested
	}
	return HoursPerDay.Mul(decimal.NewFromInt(int64(a.Days())))
}

// Overlaps reports whether the inclusive date ranges share at least one day
func (a LeaveApplication) Overlaps(start, end time.Time) bool {
	return !a.StartDate.After(end) && !a.EndDate.Before(start)
}

// Blocking reports whether the application reserves its dates
func (a LeaveApplication) Blocking() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}
