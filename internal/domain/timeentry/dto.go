package timeentry

import (
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ClockRequest struct {
	Notes     *string  `json:"notes,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	EntryID string  `json:"-"`
	Notes   *string `json:"notes,omitempty"`
}

type TimeEntryFilter struct {
	EmployeeID    *string
	DepartmentIDs []string
	From          *time.Time
	To            *time.Time
	Status        *Status
	Page          int
	Limit         int
}

func (f *TimeEntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of Open, Closed, Approved, Rejected"})
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be positive"})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "per_page", Message: "must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimeEntryResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        *string         `json:"employee_name,omitempty"`
	ClockIn             time.Time       `json:"clock_in_time"`
	ClockOut            *time.Time      `json:"clock_out_time,omitempty"`
	Status              Status          `json:"status"`
	Notes               *string         `json:"notes,omitempty"`
	TotalHours          decimal.Decimal `json:"total_hours"`
	ApprovedByManagerID *string         `json:"approved_by_manager_id,omitempty"`
	ApprovedAt          *time.Time      `json:"approved_at,omitempty"`
}

func NewTimeEntryResponse(e TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:                  e.ID,
		EmployeeID:          e.EmployeeID,
		EmployeeName:        e.EmployeeName,
		ClockIn:             e.ClockIn,
		ClockOut:            e.ClockOut,
		Status:              e.Status,
		Notes:               e.Notes,
		TotalHours:          e.Hours(),
		ApprovedByManagerID: e.ApprovedByManagerID,
		ApprovedAt:          e.ApprovedAt,
	}
}

type ClockStatusResponse struct {
	Status          string           `json:"status"` // "clocked_in" or "clocked_out"
	EntryID         *string          `json:"entry_id,omitempty"`
	ClockInTime     *time.Time       `json:"clock_in_time,omitempty"`
	CurrentDuration *decimal.Decimal `json:"current_duration,omitempty"`
}

type ListTimeEntryResponse struct {
	Entries    []TimeEntryResponse `json:"entries"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}
