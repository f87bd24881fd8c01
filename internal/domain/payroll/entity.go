package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PayRule is a named, prioritised rule. Lower priority values are evaluated first.
type PayRule struct {
	ID          string
	Name        string
	Description *string
	Priority    int
	IsActive    bool
	Conditions  Conditions
	Actions     Actions
	CreatedByID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PayComponent accumulates one named pay line for one employee. Hours apply to
// regular, hours and differential components; Amount applies to allowances.
type PayComponent struct {
	Hours        decimal.Decimal  `json:"hours"`
	Amount       decimal.Decimal  `json:"amount"`
	Multiplier   *decimal.Decimal `json:"multiplier,omitempty"`
	Differential *decimal.Decimal `json:"differential,omitempty"`
	Type         ComponentType    `json:"type"`
	RulesApplied []string         `json:"rules_applied"`
}

type Summary struct {
	RegularHours       decimal.Decimal `json:"regular_hours"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	DoubleTimeHours    decimal.Decimal `json:"double_time_hours"`
	UnclassifiedHours  decimal.Decimal `json:"unclassified_hours"`
	TotalAllowances    decimal.Decimal `json:"total_allowances"`
	ShiftDifferentials decimal.Decimal `json:"shift_differentials"`
}

func (s Summary) Add(o Summary) Summary {
	return Summary{
		RegularHours:       s.RegularHours.Add(o.RegularHours),
		OvertimeHours:      s.OvertimeHours.Add(o.OvertimeHours),
		DoubleTimeHours:    s.DoubleTimeHours.Add(o.DoubleTimeHours),
		UnclassifiedHours:  s.UnclassifiedHours.Add(o.UnclassifiedHours),
		TotalAllowances:    s.TotalAllowances.Add(o.TotalAllowances),
		ShiftDifferentials: s.ShiftDifferentials.Add(o.ShiftDifferentials),
	}
}

type EmployeeResult struct {
	EmployeeID    string                  `json:"employee_id"`
	EmployeeName  *string                 `json:"employee_name,omitempty"`
	EntryCount    int                     `json:"entry_count"`
	FirstEntryID  string                  `json:"-"`
	TotalHours    decimal.Decimal         `json:"total_hours"`
	PayComponents map[string]PayComponent `json:"pay_components"`
	Summary       Summary                 `json:"summary"`
}

// RulesApplied returns the distinct contributing rule names in first-seen order
func (r EmployeeResult) RulesApplied() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, name := range sortedComponentNames(r.PayComponents) {
		for _, rule := range r.PayComponents[name].RulesApplied {
			if _, ok := seen[rule]; ok {
				continue
			}
			seen[rule] = struct{}{}
			out = append(out, rule)
		}
	}
	return out
}

// PayCalculation is the persisted, append-only snapshot of one employee's result
type PayCalculation struct {
	ID                 string
	EmployeeID         string
	TimeEntryID        string
	PayPeriodStart     time.Time
	PayPeriodEnd       time.Time
	TotalHours         decimal.Decimal
	RegularHours       decimal.Decimal
	OvertimeHours      decimal.Decimal
	DoubleTimeHours    decimal.Decimal
	UnclassifiedHours  decimal.Decimal
	TotalAllowances    decimal.Decimal
	ShiftDifferentials decimal.Decimal
	PayComponents      map[string]PayComponent
	RulesApplied       []string
	CalculatedByID     string
	CalculatedAt       time.Time

	// Join
	EmployeeName *string
}

func sortedComponentNames(components map[string]PayComponent) []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
