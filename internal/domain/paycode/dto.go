package paycode

import (
	"regexp"
	"strings"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_]{1,32}$`)

type CreatePayCodeRequest struct {
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	IsAbsenceCode bool           `json:"is_absence_code"`
	Configuration *Configuration `json:"configuration,omitempty"`
}

// Validate upper-cases Code before checking it
func (r *CreatePayCodeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if r.Code == "" {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	} else if !codePattern.MatchString(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be at most 32 letters, digits or underscores"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	} else if len(r.Description) > 255 {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "must be at most 255 characters"})
	}
	errs = append(errs, validateConfiguration(r.Configuration)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayCodeRequest struct {
	ID            string         `json:"-"`
	Description   *string        `json:"description,omitempty"`
	IsActive      *bool          `json:"is_active,omitempty"`
	Configuration *Configuration `json:"configuration,omitempty"`
}

func (r *UpdatePayCodeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Description != nil && validator.IsEmpty(*r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "must not be empty"})
	}
	errs = append(errs, validateConfiguration(r.Configuration)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateConfiguration(c *Configuration) validator.ValidationErrors {
	if c == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if c.MaxHoursPerDay != nil && (!c.MaxHoursPerDay.IsPositive() || c.MaxHoursPerDay.GreaterThan(decimal.NewFromInt(24))) {
		errs = append(errs, validator.ValidationError{Field: "configuration.max_hours_per_day", Message: "must be between 0 and 24"})
	}
	if c.MaxConsecutiveDays != nil && *c.MaxConsecutiveDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "configuration.max_consecutive_days", Message: "must be positive"})
	}
	return errs
}

type PayCodeFilter struct {
	Type   string // "absence", "payroll" or empty
	Status string // "active", "inactive" or empty
	Page   int
	Limit  int
}

func (f *PayCodeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Type != "" && !validator.IsInSlice(f.Type, []string{"absence", "payroll"}) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be absence or payroll"})
	}
	if f.Status != "" && !validator.IsInSlice(f.Status, []string{"active", "inactive"}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be active or inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayCodeResponse struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	IsAbsenceCode bool           `json:"is_absence_code"`
	IsActive      bool           `json:"is_active"`
	Configuration *Configuration `json:"configuration,omitempty"`
	UsageCount    *int64         `json:"usage_count,omitempty"`
	CreatedByID   string         `json:"created_by_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func NewPayCodeResponse(c PayCode) PayCodeResponse {
	return PayCodeResponse{
		ID:            c.ID,
		Code:          c.Code,
		Description:   c.Description,
		IsAbsenceCode: c.IsAbsenceCode,
		IsActive:      c.IsActive,
		Configuration: c.Configuration,
		CreatedByID:   c.CreatedByID,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type ListPayCodeResponse struct {
	PayCodes   []PayCodeResponse `json:"pay_codes"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// AbsenceCodeResponse flattens the configuration for absence pickers
type AbsenceCodeResponse struct {
	ID                 string           `json:"id"`
	Code               string           `json:"code"`
	Description        string           `json:"description"`
	IsPaid             bool             `json:"is_paid"`
	RequiresApproval   bool             `json:"requires_approval"`
	MaxHoursPerDay     *decimal.Decimal `json:"max_hours_per_day,omitempty"`
	MaxConsecutiveDays *int             `json:"max_consecutive_days,omitempty"`
}
