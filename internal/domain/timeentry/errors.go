package timeentry

import "errors"

var (
	ErrAlreadyClockedIn    = errors.New("you are already clocked in")
	ErrNotClockedIn        = errors.New("you are not currently clocked in")
	ErrTimeEntryNotFound   = errors.New("time entry not found")
	ErrEntryNotClosed      = errors.New("only closed time entries can be approved or rejected")
	ErrNotAllowedToView    = errors.New("you do not have permission to view this employee's time entries")
	ErrNotAllowedToApprove = errors.New("you do not have permission to approve this time entry")
)
