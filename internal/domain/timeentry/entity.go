package timeentry

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen     Status = "Open"
	StatusClosed   Status = "Closed"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type TimeEntry struct {
	ID                  string
	EmployeeID          string
	ClockIn             time.Time
	ClockOut            *time.Time
	Status              Status
	Notes               *string
	ApprovedByManagerID *string
	ApprovedAt          *time.Time
	ClockInLatitude     *float64
	ClockInLongitude    *float64
	ClockOutLatitude    *float64
	ClockOutLongitude   *float64
	PayCodeID           *string
	AbsencePayCodeID    *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Join
	EmployeeName *string
	DepartmentID *string
}

var secondsPerHour = decimal.NewFromInt(3600)

// Hours is the worked duration in hours rounded to 4 places. An entry
// without a clock-out has zero hours.
func (e TimeEntry) Hours() decimal.Decimal {
	if e.ClockOut == nil || !e.ClockOut.After(e.ClockIn) {
		return decimal.Zero
	}
	seconds := decimal.NewFromInt(int64(e.ClockOut.Sub(e.ClockIn) / time.Second))
	return seconds.Div(secondsPerHour).Round(4)
}
