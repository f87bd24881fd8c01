package payroll

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/shopspring/decimal"
)

const regularComponentName = "regular_hours"

var (
	multiplierRegular    = decimal.NewFromInt(1)
	multiplierOvertime   = decimal.RequireFromString("1.5")
	multiplierDoubleTime = decimal.NewFromInt(2)
)

// Engine evaluates prioritised pay rules against time entries. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	loc *time.Location
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// Evaluation is the outcome of one engine run
type Evaluation struct {
	Results     []payroll.EmployeeResult
	Summary     payroll.Summary
	RuleMatches map[string]int // keyed by rule id
}

// Evaluate groups entries by employee in order of first appearance and runs every
// rule against every entry. roles maps employee id to role names.
func (e *Engine) Evaluate(rules []payroll.PayRule, entries []timeentry.TimeEntry, roles map[string][]string) Evaluation {
	ordered := make([]payroll.PayRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	var order []string
	byEmployee := make(map[string][]timeentry.TimeEntry)
	for _, entry := range entries {
		if _, ok := byEmployee[entry.EmployeeID]; !ok {
			order = append(order, entry.EmployeeID)
		}
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], entry)
	}

	eval := Evaluation{
		Results:     make([]payroll.EmployeeResult, 0, len(order)),
		RuleMatches: make(map[string]int, len(ordered)),
	}
	for _, employeeID := range order {
		result := e.evaluateEmployee(employeeID, byEmployee[employeeID], ordered, roles[employeeID], eval.RuleMatches)
		eval.Summary = eval.Summary.Add(result.Summary)
		eval.Results = append(eval.Results, result)
	}
	return eval
}

func (e *Engine) evaluateEmployee(employeeID string, entries []timeentry.TimeEntry, rules []payroll.PayRule, roles []string, matches map[string]int) payroll.EmployeeResult {
	result := payroll.EmployeeResult{
		EmployeeID:    employeeID,
		EntryCount:    len(entries),
		TotalHours:    decimal.Zero,
		PayComponents: make(map[string]payroll.PayComponent),
	}
	if len(entries) > 0 {
		result.FirstEntryID = entries[0].ID
		result.EmployeeName = entries[0].EmployeeName
	}

	for _, entry := range entries {
		in := e.MatchInput(entry, roles)
		result.TotalHours = result.TotalHours.Add(in.Hours)

		for _, rule := range rules {
			if !rule.Conditions.Matches(in) {
				continue
			}
			matches[rule.ID]++
			slog.Debug("pay rule matched", "rule", rule.Name, "entry_id", entry.ID, "employee_id", employeeID, "hours", in.Hours.String())
			for _, c := range rule.Actions.Apply(rule.Name, in.Hours) {
				merge(result.PayComponents, c)
			}
		}
	}

	addRegularHours(result.PayComponents, result.TotalHours)
	result.Summary = Summarize(result.PayComponents)
	return result
}

// MatchInput derives the evaluation context of an entry in the engine's location
func (e *Engine) MatchInput(entry timeentry.TimeEntry, roles []string) payroll.MatchInput {
	local := entry.ClockIn.In(e.loc)
	return payroll.MatchInput{
		EmployeeID: entry.EmployeeID,
		Weekday:    local.Weekday(),
		Hour:       local.Hour(),
		Hours:      entry.Hours(),
		Roles:      roles,
	}
}

// merge folds a contribution into the component map. Hours and amounts are summed;
// multiplier, differential and type keep the first contributor's values.
func merge(components map[string]payroll.PayComponent, c payroll.Contribution) {
	existing, ok := components[c.Name]
	if !ok {
		components[c.Name] = payroll.PayComponent{
			Hours:        c.Hours,
			Amount:       c.Amount,
			Multiplier:   c.Multiplier,
			Differential: c.Differential,
			Type:         c.Type,
			RulesApplied: []string{c.RuleName},
		}
		return
	}

	if conflicting(existing.Multiplier, c.Multiplier) || conflicting(existing.Differential, c.Differential) || existing.Type != c.Type {
		slog.Warn("pay component redefined with different terms, keeping first",
			"component", c.Name, "rule", c.RuleName, "first_rule", existing.RulesApplied[0])
	}

	existing.Hours = existing.Hours.Add(c.Hours)
	existing.Amount = existing.Amount.Add(c.Amount)
	existing.RulesApplied = append(existing.RulesApplied, c.RuleName)
	components[c.Name] = existing
}

func conflicting(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a != b
	}
	return !a.Equal(*b)
}

// addRegularHours synthesises the regular component from hours no hours-type
// component claimed, unless a rule already produced a regular component.
func addRegularHours(components map[string]payroll.PayComponent, totalHours decimal.Decimal) {
	for _, c := range components {
		if c.Type == payroll.ComponentRegular {
			return
		}
	}

	claimed := decimal.Zero
	for _, c := range components {
		if c.Type == payroll.ComponentHours {
			claimed = claimed.Add(c.Hours)
		}
	}

	regular := decimal.Max(decimal.Zero, totalHours.Sub(claimed))
	m := multiplierRegular
	components[regularComponentName] = payroll.PayComponent{
		Hours:        regular,
		Amount:       decimal.Zero,
		Multiplier:   &m,
		Type:         payroll.ComponentRegular,
		RulesApplied: []string{"default"},
	}
}

// Summarize buckets hours by exact multiplier (1.0 regular, 1.5 overtime, >= 2.0
// double time); other multipliers accumulate as unclassified.
func Summarize(components map[string]payroll.PayComponent) payroll.Summary {
	s := payroll.Summary{}

	for _, c := range components {
		switch c.Type {
		case payroll.ComponentRegular:
			s.RegularHours = s.RegularHours.Add(c.Hours)
		case payroll.ComponentHours:
			m := multiplierRegular
			if c.Multiplier != nil {
				m = *c.Multiplier
			}
			switch {
			case m.Equal(multiplierRegular):
				s.RegularHours = s.RegularHours.Add(c.Hours)
			case m.Equal(multiplierOvertime):
				s.OvertimeHours = s.OvertimeHours.Add(c.Hours)
			case m.GreaterThanOrEqual(multiplierDoubleTime):
				s.DoubleTimeHours = s.DoubleTimeHours.Add(c.Hours)
			default:
				s.UnclassifiedHours = s.UnclassifiedHours.Add(c.Hours)
			}
		case payroll.ComponentAllowance:
			s.TotalAllowances = s.TotalAllowances.Add(c.Amount)
		}

		if c.Differential != nil {
			s.ShiftDifferentials = s.ShiftDifferentials.Add(c.Differential.Mul(c.Hours))
		}
	}
	return s
}

// RuleIssues reports components that more than one rule defines with different
// terms. Evaluation keeps the first contributor's terms for such components.
func RuleIssues(rules []payroll.PayRule) []string {
	ordered := make([]payroll.PayRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	type owner struct {
		rule string
		c    payroll.Contribution
	}
	first := make(map[string]owner)
	issues := []string{}
	for _, rule := range ordered {
		for _, c := range rule.Actions.Apply(rule.Name, decimal.NewFromInt(1)) {
			prev, ok := first[c.Name]
			if !ok {
				first[c.Name] = owner{rule: rule.Name, c: c}
				continue
			}
			if prev.c.Type != c.Type || conflicting(prev.c.Multiplier, c.Multiplier) || conflicting(prev.c.Differential, c.Differential) {
				issues = append(issues, fmt.Sprintf("component %q is defined by %q and %q with different terms; %q wins", c.Name, prev.rule, rule.Name, prev.rule))
			}
		}
	}
	return issues
}
