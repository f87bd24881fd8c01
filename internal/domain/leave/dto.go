package leave

import (
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Application

type CreateApplicationRequest struct {
	EmployeeID     *string          `json:"employee_id,omitempty"` // defaults to the caller
	LeaveTypeID    string           `json:"leave_type_id"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	IsHourly       bool             `json:"is_hourly"`
	HoursRequested *decimal.Decimal `json:"hours_requested,omitempty"`
	Reason         *string          `json:"reason,omitempty"`
	AutoApprove    bool             `json:"auto_approve"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateApplicationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "is required"})
	}
	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must not be empty"})
	}

	if start, ok := validator.IsValidDate(r.StartDate); ok {
		r.Start = start
	} else {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if end, ok := validator.IsValidDate(r.EndDate); ok {
		r.End = end
	} else {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}

	if r.IsHourly {
		if r.HoursRequested == nil || !r.HoursRequested.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "hours_requested", Message: "must be positive for hourly leave"})
		}
	} else if r.HoursRequested != nil {
		errs = append(errs, validator.ValidationError{Field: "hours_requested", Message: "is only allowed for hourly leave"})
	}
	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be at most 1000 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	if r.End.Before(r.Start) {
		return ErrInvalidDateRange
	}
	return nil
}

type ReviewApplicationRequest struct {
	ApplicationID   string  `json:"-"`
	ManagerComments *string `json:"manager_comments,omitempty"`
}

type ApplicationFilter struct {
	Status     *ApplicationStatus
	EmployeeID *string
	// DepartmentIDs is set by the service for team views
	DepartmentIDs []string
	Page          int
	Limit         int
}

func (f *ApplicationFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of Pending, Approved, Rejected, Cancelled"})
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

type ApplicationResponse struct {
	ID                string            `json:"id"`
	EmployeeID        string            `json:"employee_id"`
	EmployeeName      *string           `json:"employee_name,omitempty"`
	LeaveTypeID       string            `json:"leave_type_id"`
	LeaveTypeName     *string           `json:"leave_type_name,omitempty"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	IsHourly          bool              `json:"is_hourly"`
	HoursRequested    *decimal.Decimal  `json:"hours_requested,omitempty"`
	DaysRequested     int               `json:"days_requested"`
	Reason            *string           `json:"reason,omitempty"`
	Status            ApplicationStatus `json:"status"`
	ManagerApprovedID *string           `json:"manager_approved_id,omitempty"`
	ManagerComments   *string           `json:"manager_comments,omitempty"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	HoursDeducted     *decimal.Decimal  `json:"hours_deducted,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func NewApplicationResponse(a LeaveApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		LeaveTypeID:       a.LeaveTypeID,
		LeaveTypeName:     a.LeaveTypeName,
		StartDate:         a.StartDate.Format("2006-01-02"),
		EndDate:           a.EndDate.Format("2006-01-02"),
		IsHourly:          a.IsHourly,
		HoursRequested:    a.HoursRequested,
		DaysRequested:     a.Days(),
		Reason:            a.Reason,
		Status:            a.Status,
		ManagerApprovedID: a.ManagerApprovedID,
		ManagerComments:   a.ManagerComments,
		ApprovedAt:        a.ApprovedAt,
		HoursDeducted:     a.HoursDeducted,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

type ListApplicationResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// Type

type CreateLeaveTypeRequest struct {
	Name               string           `json:"name"`
	Description        *string          `json:"description,omitempty"`
	DefaultAccrualRate *decimal.Decimal `json:"default_accrual_rate,omitempty"`
	RequiresApproval   *bool            `json:"requires_approval,omitempty"`
	MaxConsecutiveDays *int             `json:"max_consecutive_days,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 100 characters"})
	}
	errs = append(errs, validateTypeLimits(r.DefaultAccrualRate, r.MaxConsecutiveDays)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                 string           `json:"-"`
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	DefaultAccrualRate *decimal.Decimal `json:"default_accrual_rate,omitempty"`
	RequiresApproval   *bool            `json:"requires_approval,omitempty"`
	MaxConsecutiveDays *int             `json:"max_consecutive_days,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
		} else if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 100 characters"})
		}
	}
	errs = append(errs, validateTypeLimits(r.DefaultAccrualRate, r.MaxConsecutiveDays)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTypeLimits(rate *decimal.Decimal, maxDays *int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if rate != nil && rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_accrual_rate", Message: "must not be negative"})
	}
	if maxDays != nil && *maxDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "max_consecutive_days", Message: "must be positive"})
	}
	return errs
}

type LeaveTypeResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        *string          `json:"description,omitempty"`
	DefaultAccrualRate *decimal.Decimal `json:"default_accrual_rate,omitempty"`
	IsActive           bool             `json:"is_active"`
	RequiresApproval   bool             `json:"requires_approval"`
	MaxConsecutiveDays *int             `json:"max_consecutive_days,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 t.ID,
		Name:               t.Name,
		Description:        t.Description,
		DefaultAccrualRate: t.DefaultAccrualRate,
		IsActive:           t.IsActive,
		RequiresApproval:   t.RequiresApproval,
		MaxConsecutiveDays: t.MaxConsecutiveDays,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

type LeaveTypeStats struct {
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	ApprovedApplications int64 `json:"approved_applications"`
}

type LeaveTypeDetailResponse struct {
	LeaveTypeResponse
	Statistics LeaveTypeStats `json:"statistics"`
}

// Balance

type BalanceFilter struct {
	EmployeeID  *string
	LeaveTypeID *string
	Year        int
}

type AdjustBalanceRequest struct {
	BalanceID  string           `json:"-"`
	NewBalance *decimal.Decimal `json:"balance"`
	Reason     *string          `json:"reason,omitempty"`
}

func (r *AdjustBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.NewBalance == nil {
		errs = append(errs, validator.ValidationError{Field: "balance", Message: "is required"})
	} else if r.NewBalance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "balance", Message: "must not be negative"})
	}
	if r.Reason != nil && len(*r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveBalanceResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	LeaveTypeID     string          `json:"leave_type_id"`
	LeaveTypeName   *string         `json:"leave_type_name,omitempty"`
	Year            int             `json:"year"`
	Balance         decimal.Decimal `json:"balance"`
	AccruedThisYear decimal.Decimal `json:"accrued_this_year"`
	UsedThisYear    decimal.Decimal `json:"used_this_year"`
	LastAccrualDate *time.Time      `json:"last_accrual_date,omitempty"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:              b.ID,
		EmployeeID:      b.EmployeeID,
		EmployeeName:    b.EmployeeName,
		LeaveTypeID:     b.LeaveTypeID,
		LeaveTypeName:   b.LeaveTypeName,
		Year:            b.Year,
		Balance:         b.Balance,
		AccruedThisYear: b.AccruedThisYear,
		UsedThisYear:    b.UsedThisYear,
		LastAccrualDate: b.LastAccrualDate,
	}
}

type MyBalancesResponse struct {
	Balances    []LeaveBalanceResponse `json:"balances"`
	LeaveTypes  []LeaveTypeResponse    `json:"leave_types"`
	CurrentYear int                    `json:"current_year"`
}

// Accrual

type AccrualResult struct {
	EmployeesProcessed int       `json:"employees_processed"`
	BalancesAccrued    int       `json:"balances_accrued"`
	BalancesSkipped    int       `json:"balances_skipped"`
	BalancesCreated    int       `json:"balances_created"`
	AccrualDate        time.Time `json:"accrual_date"`
}
