package payroll

import "errors"

var (
	ErrPayRuleNotFound         = errors.New("pay rule not found")
	ErrPayRuleNameExists       = errors.New("pay rule with this name already exists")
	ErrPayRuleInUse            = errors.New("pay rule is referenced by saved pay calculations")
	ErrPayCalculationNotFound  = errors.New("pay calculation not found")
	ErrCalculationNotPermitted = errors.New("only payroll administrators can calculate payroll")
	ErrNoTimeEntries           = errors.New("no closed time entries found for the pay period")
	ErrReorderUnknownRule      = errors.New("reorder references an unknown pay rule")
)
