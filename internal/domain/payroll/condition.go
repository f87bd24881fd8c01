package payroll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MatchInput is the evaluation context of one time entry
type MatchInput struct {
	EmployeeID string
	Weekday    time.Weekday // clock-in weekday in the payroll location
	Hour       int          // clock-in hour in the payroll location
	Hours      decimal.Decimal
	Roles      []string
}

type ConditionKind string

const (
	ConditionDayOfWeek         ConditionKind = "day_of_week"
	ConditionTimeRange         ConditionKind = "time_range"
	ConditionOvertimeThreshold ConditionKind = "overtime_threshold"
	ConditionEmployeeIDs       ConditionKind = "employee_ids"
	ConditionRoles             ConditionKind = "roles"
)

// Condition is one predicate of a pay rule. The set of implementations is closed.
type Condition interface {
	Kind() ConditionKind
	Matches(in MatchInput) bool
	encode(doc *conditionDocument)
}

type DayOfWeekCondition struct {
	Days []time.Weekday
}

func (c DayOfWeekCondition) Kind() ConditionKind { return ConditionDayOfWeek }

func (c DayOfWeekCondition) Matches(in MatchInput) bool {
	return slices.Contains(c.Days, in.Weekday)
}

func (c DayOfWeekCondition) encode(doc *conditionDocument) {
	days := make([]int, len(c.Days))
	for i, d := range c.Days {
		days[i] = int(d)
	}
	doc.DayOfWeek = days
}

// TimeRangeCondition matches clock-in hours in [Start, End). Start > End wraps past midnight.
type TimeRangeCondition struct {
	Start int
	End   int
}

func (c TimeRangeCondition) Kind() ConditionKind { return ConditionTimeRange }

func (c TimeRangeCondition) Matches(in MatchInput) bool {
	if c.Start > c.End {
		return in.Hour >= c.Start || in.Hour < c.End
	}
	return in.Hour >= c.Start && in.Hour < c.End
}

func (c TimeRangeCondition) encode(doc *conditionDocument) {
	doc.TimeRange = &hourRange{Start: &c.Start, End: &c.End}
}

// OvertimeThresholdCondition matches entries strictly longer than Threshold hours
type OvertimeThresholdCondition struct {
	Threshold decimal.Decimal
}

func (c OvertimeThresholdCondition) Kind() ConditionKind { return ConditionOvertimeThreshold }

func (c OvertimeThresholdCondition) Matches(in MatchInput) bool {
	return in.Hours.GreaterThan(c.Threshold)
}

func (c OvertimeThresholdCondition) encode(doc *conditionDocument) {
	doc.OvertimeThreshold = newRuleNumber(c.Threshold)
}

type EmployeeIDsCondition struct {
	IDs []string
}

func (c EmployeeIDsCondition) Kind() ConditionKind { return ConditionEmployeeIDs }

func (c EmployeeIDsCondition) Matches(in MatchInput) bool {
	return slices.Contains(c.IDs, in.EmployeeID)
}

func (c EmployeeIDsCondition) encode(doc *conditionDocument) {
	doc.EmployeeIDs = c.IDs
}

// RolesCondition matches when the employee holds at least one of Roles
type RolesCondition struct {
	Roles []string
}

func (c RolesCondition) Kind() ConditionKind { return ConditionRoles }

func (c RolesCondition) Matches(in MatchInput) bool {
	for _, r := range in.Roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

func (c RolesCondition) encode(doc *conditionDocument) {
	doc.Roles = c.Roles
}

// Conditions is the conjunction of a rule's predicates. An empty set matches every entry.
type Conditions []Condition

func (cs Conditions) Matches(in MatchInput) bool {
	for _, c := range cs {
		if !c.Matches(in) {
			return false
		}
	}
	return true
}

func (cs Conditions) Has(kind ConditionKind) bool {
	for _, c := range cs {
		if c.Kind() == kind {
			return true
		}
	}
	return false
}

func (cs Conditions) MarshalJSON() ([]byte, error) {
	var doc conditionDocument
	for _, c := range cs {
		c.encode(&doc)
	}
	return json.Marshal(doc)
}

func (cs *Conditions) UnmarshalJSON(data []byte) error {
	parsed, err := ParseConditions(data)
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}

// ruleNumber is a decimal that encodes as a bare JSON number. Rule documents
// keep the numeric form they were written in; money fields elsewhere stay quoted.
type ruleNumber struct {
	decimal.Decimal
}

func newRuleNumber(d decimal.Decimal) *ruleNumber {
	return &ruleNumber{Decimal: d}
}

func (n ruleNumber) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

type hourRange struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

type conditionDocument struct {
	DayOfWeek         []int       `json:"day_of_week,omitempty"`
	TimeRange         *hourRange  `json:"time_range,omitempty"`
	OvertimeThreshold *ruleNumber `json:"overtime_threshold,omitempty"`
	EmployeeIDs       []string    `json:"employee_ids,omitempty"`
	Roles             []string    `json:"roles,omitempty"`
}

// ParseConditions decodes and validates a JSON condition object. Unknown keys
// are rejected; empty employee_ids and roles lists impose no constraint.
func ParseConditions(data []byte) (Conditions, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Conditions{}, nil
	}

	var doc conditionDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, validator.ValidationErrors{{Field: "conditions", Message: fmt.Sprintf("malformed conditions: %v", err)}}
	}

	var (
		errs validator.ValidationErrors
		out  = Conditions{}
	)

	if doc.DayOfWeek != nil {
		if len(doc.DayOfWeek) == 0 {
			errs = append(errs, validator.ValidationError{Field: "conditions.day_of_week", Message: "must contain at least one day"})
		}
		days := make([]time.Weekday, 0, len(doc.DayOfWeek))
		for _, d := range doc.DayOfWeek {
			if d < 0 || d > 6 {
				errs = append(errs, validator.ValidationError{Field: "conditions.day_of_week", Message: fmt.Sprintf("day %d is outside 0-6", d)})
				continue
			}
			if !slices.Contains(days, time.Weekday(d)) {
				days = append(days, time.Weekday(d))
			}
		}
		out = append(out, DayOfWeekCondition{Days: days})
	}

	if doc.TimeRange != nil {
		tr := doc.TimeRange
		switch {
		case tr.Start == nil || tr.End == nil:
			errs = append(errs, validator.ValidationError{Field: "conditions.time_range", Message: "start and end are required"})
		case *tr.Start < 0 || *tr.Start > 23 || *tr.End < 0 || *tr.End > 23:
			errs = append(errs, validator.ValidationError{Field: "conditions.time_range", Message: "start and end must be hours between 0 and 23"})
		case *tr.Start == *tr.End:
			errs = append(errs, validator.ValidationError{Field: "conditions.time_range", Message: "start and end must differ"})
		default:
			out = append(out, TimeRangeCondition{Start: *tr.Start, End: *tr.End})
		}
	}

	if doc.OvertimeThreshold != nil {
		if doc.OvertimeThreshold.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "conditions.overtime_threshold", Message: "must not be negative"})
		} else {
			out = append(out, OvertimeThresholdCondition{Threshold: doc.OvertimeThreshold.Decimal})
		}
	}

	if len(doc.EmployeeIDs) > 0 {
		out = append(out, EmployeeIDsCondition{IDs: doc.EmployeeIDs})
	}

	if len(doc.Roles) > 0 {
		out = append(out, RolesCondition{Roles: doc.Roles})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
