package payroll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ComponentType string

const (
	ComponentRegular      ComponentType = "regular"
	ComponentHours        ComponentType = "hours"
	ComponentAllowance    ComponentType = "allowance"
	ComponentDifferential ComponentType = "differential"
)

type ActionKind string

const (
	ActionPayMultiplier     ActionKind = "pay_multiplier"
	ActionFlatAllowance     ActionKind = "flat_allowance"
	ActionShiftDifferential ActionKind = "shift_differential"
)

// Contribution is the partial component one action produces for one entry
type Contribution struct {
	Name         string
	Type         ComponentType
	Hours        decimal.Decimal
	Amount       decimal.Decimal
	Multiplier   *decimal.Decimal
	Differential *decimal.Decimal
	RuleName     string
}

// Action is one effect of a matched pay rule. The set of implementations is closed.
type Action interface {
	Kind() ActionKind
	Apply(ruleName string, hours decimal.Decimal) Contribution
	encode(doc *actionDocument)
}

var whitespace = regexp.MustCompile(`\s+`)

// DefaultComponentName lower-cases the rule name and replaces whitespace runs with underscores
func DefaultComponentName(ruleName string) string {
	return whitespace.ReplaceAllString(strings.ToLower(ruleName), "_")
}

type PayMultiplierAction struct {
	Multiplier    decimal.Decimal
	ComponentName string
}

func (a PayMultiplierAction) Kind() ActionKind { return ActionPayMultiplier }

func (a PayMultiplierAction) Apply(ruleName string, hours decimal.Decimal) Contribution {
	name := a.ComponentName
	if name == "" {
		name = DefaultComponentName(ruleName)
	}
	m := a.Multiplier
	return Contribution{Name: name, Type: ComponentHours, Hours: hours, Multiplier: &m, RuleName: ruleName}
}

func (a PayMultiplierAction) encode(doc *actionDocument) {
	doc.PayMultiplier = newRuleNumber(a.Multiplier)
	doc.ComponentName = a.ComponentName
}

type FlatAllowanceAction struct {
	Amount        decimal.Decimal
	AllowanceName string
}

func (a FlatAllowanceAction) Kind() ActionKind { return ActionFlatAllowance }

func (a FlatAllowanceAction) Apply(ruleName string, _ decimal.Decimal) Contribution {
	name := a.AllowanceName
	if name == "" {
		name = DefaultComponentName(ruleName) + "_allowance"
	}
	return Contribution{Name: name, Type: ComponentAllowance, Amount: a.Amount, RuleName: ruleName}
}

func (a FlatAllowanceAction) encode(doc *actionDocument) {
	doc.FlatAllowance = newRuleNumber(a.Amount)
	doc.AllowanceName = a.AllowanceName
}

type ShiftDifferentialAction struct {
	Rate             decimal.Decimal
	DifferentialName string
}

func (a ShiftDifferentialAction) Kind() ActionKind { return ActionShiftDifferential }

func (a ShiftDifferentialAction) Apply(ruleName string, hours decimal.Decimal) Contribution {
	name := a.DifferentialName
	if name == "" {
		name = DefaultComponentName(ruleName) + "_diff"
	}
	r := a.Rate
	return Contribution{Name: name, Type: ComponentDifferential, Hours: hours, Differential: &r, RuleName: ruleName}
}

func (a ShiftDifferentialAction) encode(doc *actionDocument) {
	doc.ShiftDifferential = newRuleNumber(a.Rate)
	doc.DifferentialName = a.DifferentialName
}

// Actions are applied in the fixed order multiplier, allowance, differential.
type Actions []Action

func (as Actions) Apply(ruleName string, hours decimal.Decimal) []Contribution {
	out := make([]Contribution, 0, len(as))
	for _, a := range as {
		out = append(out, a.Apply(ruleName, hours))
	}
	return out
}

func (as Actions) MarshalJSON() ([]byte, error) {
	var doc actionDocument
	for _, a := range as {
		a.encode(&doc)
	}
	return json.Marshal(doc)
}

func (as *Actions) UnmarshalJSON(data []byte) error {
	parsed, err := ParseActions(data)
	if err != nil {
		return err
	}
	*as = parsed
	return nil
}

type actionDocument struct {
	PayMultiplier     *ruleNumber `json:"pay_multiplier,omitempty"`
	ComponentName     string      `json:"component_name,omitempty"`
	FlatAllowance     *ruleNumber `json:"flat_allowance,omitempty"`
	AllowanceName     string      `json:"allowance_name,omitempty"`
	ShiftDifferential *ruleNumber `json:"shift_differential,omitempty"`
	DifferentialName  string      `json:"differential_name,omitempty"`
}

// ParseActions decodes and validates a JSON action object
func ParseActions(data []byte) (Actions, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Actions{}, nil
	}

	var doc actionDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, validator.ValidationErrors{{Field: "actions", Message: fmt.Sprintf("malformed actions: %v", err)}}
	}

	var errs validator.ValidationErrors
	out := Actions{}

	positive := func(field string, v *ruleNumber) bool {
		if !v.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "actions." + field, Message: "must be greater than zero"})
			return false
		}
		return true
	}
	orphan := func(name, field, requires string) {
		if name != "" {
			errs = append(errs, validator.ValidationError{Field: "actions." + field, Message: "requires " + requires})
		}
	}

	if doc.PayMultiplier != nil {
		if positive("pay_multiplier", doc.PayMultiplier) {
			out = append(out, PayMultiplierAction{Multiplier: doc.PayMultiplier.Decimal, ComponentName: strings.TrimSpace(doc.ComponentName)})
		}
	} else {
		orphan(doc.ComponentName, "component_name", "pay_multiplier")
	}

	if doc.FlatAllowance != nil {
		if positive("flat_allowance", doc.FlatAllowance) {
			out = append(out, FlatAllowanceAction{Amount: doc.FlatAllowance.Decimal, AllowanceName: strings.TrimSpace(doc.AllowanceName)})
		}
	} else {
		orphan(doc.AllowanceName, "allowance_name", "flat_allowance")
	}

	if doc.ShiftDifferential != nil {
		if positive("shift_differential", doc.ShiftDifferential) {
			out = append(out, ShiftDifferentialAction{Rate: doc.ShiftDifferential.Decimal, DifferentialName: strings.TrimSpace(doc.DifferentialName)})
		}
	} else {
		orphan(doc.DifferentialName, "differential_name", "shift_differential")
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
