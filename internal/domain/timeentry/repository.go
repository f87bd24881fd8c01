package timeentry

import (
	"context"
	"time"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetByID(ctx context.Context, id string) (TimeEntry, error)
	GetOpenByEmployee(ctx context.Context, employeeID string) (TimeEntry, error)
	Update(ctx context.Context, entry TimeEntry) error
	List(ctx context.Context, filter TimeEntryFilter) ([]TimeEntry, int64, error)

	// FindForPayroll returns entries with the given status whose clock-in lies in
	// [from, to), ordered by clock-in ascending. An empty employeeIDs means all.
	FindForPayroll(ctx context.Context, from, to time.Time, status Status, employeeIDs []string, limit int) ([]TimeEntry, error)

	// CountByPayCode counts entries referencing the pay code as pay or absence code.
	CountByPayCode(ctx context.Context, payCodeID string) (int64, error)
}
