package payroll

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculatePayrollRequest struct {
	PayPeriodStart string   `json:"pay_period_start"`
	PayPeriodEnd   string   `json:"pay_period_end"`
	EmployeeIDs    []string `json:"employee_ids,omitempty"` // Empty = every employee with closed entries
	SaveResults    bool     `json:"save_results"`
}

func (r *CalculatePayrollRequest) Validate() error {
	errs := validatePeriod("pay_period_start", r.PayPeriodStart, "pay_period_end", r.PayPeriodEnd)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculationResult struct {
	PayPeriodStart    string                   `json:"pay_period_start"`
	PayPeriodEnd      string                   `json:"pay_period_end"`
	EmployeeResults   []EmployeeResult         `json:"employee_results"`
	Summary           Summary                  `json:"summary"`
	EmployeeCount     int                      `json:"employee_count"`
	SavedCalculations []PayCalculationResponse `json:"saved_calculations"`
}

type TestRulesRequest struct {
	RuleIDs     []string `json:"rule_ids,omitempty"` // Empty = all active rules
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *TestRulesRequest) Validate() error {
	errs := validatePeriod("start_date", r.StartDate, "end_date", r.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RuleMatchCount struct {
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
	Priority int    `json:"priority"`
	Matches  int    `json:"matches"`
}

type TestRulesResult struct {
	EntriesEvaluated int              `json:"entries_evaluated"`
	EmployeeResults  []EmployeeResult `json:"employee_results"`
	Summary          Summary          `json:"summary"`
	RuleMatches      []RuleMatchCount `json:"rule_matches"`
	ValidationIssues []string         `json:"validation_issues"`
}

type ValidateRuleRequest struct {
	Conditions json.RawMessage `json:"conditions"`
	Actions    json.RawMessage `json:"actions"`
}

type ValidateRuleResponse struct {
	Valid      bool       `json:"valid"`
	Conditions Conditions `json:"conditions"`
	Actions    Actions    `json:"actions"`
}

// ========== RULE DTOs ==========

type CreatePayRuleRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Priority    *int            `json:"priority,omitempty"` // Empty = after the current last rule
	IsActive    *bool           `json:"is_active,omitempty"`
	Conditions  json.RawMessage `json:"conditions"`
	Actions     json.RawMessage `json:"actions"`

	ParsedConditions Conditions `json:"-"`
	ParsedActions    Actions    `json:"-"`
}

func (r *CreatePayRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 100 characters"})
	}
	if r.Priority != nil && *r.Priority < 0 {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "must not be negative"})
	}

	conditions, cErrs := parseRequired("conditions", r.Conditions, ParseConditions)
	actions, aErrs := parseRequired("actions", r.Actions, ParseActions)
	errs = append(errs, cErrs...)
	errs = append(errs, aErrs...)

	if len(errs) > 0 {
		return errs
	}
	r.ParsedConditions = conditions
	r.ParsedActions = actions
	return nil
}

type UpdatePayRuleRequest struct {
	ID          string          `json:"-"`
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Priority    *int            `json:"priority,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	Conditions  json.RawMessage `json:"conditions,omitempty"`
	Actions     json.RawMessage `json:"actions,omitempty"`

	ParsedConditions Conditions `json:"-"`
	ParsedActions    Actions    `json:"-"`
}

func (r *UpdatePayRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.Priority != nil && *r.Priority < 0 {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "must not be negative"})
	}

	var conditions Conditions
	var actions Actions
	if len(r.Conditions) > 0 {
		var cErrs validator.ValidationErrors
		conditions, cErrs = parseRequired("conditions", r.Conditions, ParseConditions)
		errs = append(errs, cErrs...)
	}
	if len(r.Actions) > 0 {
		var aErrs validator.ValidationErrors
		actions, aErrs = parseRequired("actions", r.Actions, ParseActions)
		errs = append(errs, aErrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	r.ParsedConditions = conditions
	r.ParsedActions = actions
	return nil
}

type RulePriority struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

type ReorderRulesRequest struct {
	Rules []RulePriority `json:"rules"`
}

func (r *ReorderRulesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rules) == 0 {
		errs = append(errs, validator.ValidationError{Field: "rules", Message: "at least one rule is required"})
	}
	seen := make(map[string]struct{}, len(r.Rules))
	for _, rp := range r.Rules {
		if validator.IsEmpty(rp.ID) {
			errs = append(errs, validator.ValidationError{Field: "rules.id", Message: "is required"})
			continue
		}
		if _, dup := seen[rp.ID]; dup {
			errs = append(errs, validator.ValidationError{Field: "rules.id", Message: "rule " + rp.ID + " is listed twice"})
		}
		seen[rp.ID] = struct{}{}
		if rp.Priority < 0 {
			errs = append(errs, validator.ValidationError{Field: "rules.priority", Message: "must not be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayRuleFilter struct {
	Status string // "active", "inactive" or "all"
	Page   int
	Limit  int
}

func (f *PayRuleFilter) Validate() error {
	switch f.Status {
	case "", "all", "active", "inactive":
		return nil
	}
	return validator.ValidationErrors{{Field: "status", Message: "must be active, inactive or all"}}
}

type PayRuleResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	IsActive    bool       `json:"is_active"`
	Conditions  Conditions `json:"conditions"`
	Actions     Actions    `json:"actions"`
	CreatedByID *string    `json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewPayRuleResponse(r PayRule) PayRuleResponse {
	return PayRuleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
		Conditions:  r.Conditions,
		Actions:     r.Actions,
		CreatedByID: r.CreatedByID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type ListPayRuleResponse struct {
	Rules      []PayRuleResponse `json:"rules"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ========== SAVED CALCULATION DTOs ==========

type PayCalculationFilter struct {
	EmployeeID  *string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Page        int
	Limit       int
}

type PayCalculationResponse struct {
	ID                 string                  `json:"id"`
	EmployeeID         string                  `json:"employee_id"`
	EmployeeName       *string                 `json:"employee_name,omitempty"`
	TimeEntryID        string                  `json:"time_entry_id"`
	PayPeriodStart     string                  `json:"pay_period_start"`
	PayPeriodEnd       string                  `json:"pay_period_end"`
	TotalHours         decimal.Decimal         `json:"total_hours"`
	RegularHours       decimal.Decimal         `json:"regular_hours"`
	OvertimeHours      decimal.Decimal         `json:"overtime_hours"`
	DoubleTimeHours    decimal.Decimal         `json:"double_time_hours"`
	UnclassifiedHours  decimal.Decimal         `json:"unclassified_hours"`
	TotalAllowances    decimal.Decimal         `json:"total_allowances"`
	ShiftDifferentials decimal.Decimal         `json:"shift_differentials"`
	PayComponents      map[string]PayComponent `json:"pay_components"`
	RulesApplied       []string                `json:"rules_applied"`
	CalculatedByID     string                  `json:"calculated_by_id"`
	CalculatedAt       time.Time               `json:"calculated_at"`
}

func NewPayCalculationResponse(c PayCalculation) PayCalculationResponse {
	return PayCalculationResponse{
		ID:                 c.ID,
		EmployeeID:         c.EmployeeID,
		EmployeeName:       c.EmployeeName,
		TimeEntryID:        c.TimeEntryID,
		PayPeriodStart:     c.PayPeriodStart.Format("2006-01-02"),
		PayPeriodEnd:       c.PayPeriodEnd.Format("2006-01-02"),
		TotalHours:         c.TotalHours,
		RegularHours:       c.RegularHours,
		OvertimeHours:      c.OvertimeHours,
		DoubleTimeHours:    c.DoubleTimeHours,
		UnclassifiedHours:  c.UnclassifiedHours,
		TotalAllowances:    c.TotalAllowances,
		ShiftDifferentials: c.ShiftDifferentials,
		PayComponents:      c.PayComponents,
		RulesApplied:       c.RulesApplied,
		CalculatedByID:     c.CalculatedByID,
		CalculatedAt:       c.CalculatedAt,
	}
}

type ListPayCalculationResponse struct {
	Calculations []PayCalculationResponse `json:"calculations"`
	TotalCount   int64                    `json:"total_count"`
	Page         int                      `json:"page"`
	Limit        int                      `json:"limit"`
	TotalPages   int                      `json:"total_pages"`
}

// ========== HELPERS ==========

func validatePeriod(startField, start, endField, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startDate, startOK := validator.IsValidDate(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: startField, Message: "must be a date in YYYY-MM-DD format"})
	}
	endDate, endOK := validator.IsValidDate(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: endField, Message: "must be a date in YYYY-MM-DD format"})
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{Field: endField, Message: "must not be before " + startField})
	}
	return errs
}

func parseRequired[T ~[]E, E any](field string, raw json.RawMessage, parse func([]byte) (T, error)) (T, validator.ValidationErrors) {
	parsed, err := parse(raw)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, verrs
		}
		return nil, validator.ValidationErrors{{Field: field, Message: err.Error()}}
	}
	if !hasKeys(raw) {
		return nil, validator.ValidationErrors{{Field: field, Message: "at least one " + singular(field) + " is required"}}
	}
	return parsed, nil
}

// hasKeys reports whether raw is a JSON object with at least one key. A key
// holding an empty list counts, so {"employee_ids": []} is a match-all rule.
func hasKeys(raw json.RawMessage) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return false
	}
	return len(keys) > 0
}

func singular(field string) string {
	switch field {
	case "conditions":
		return "condition"
	case "actions":
		return "action"
	}
	return field
}
