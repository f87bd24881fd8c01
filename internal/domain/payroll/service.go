package payroll

import (
	"context"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
)

type PayrollService interface {
	// Calculation
	CalculatePayroll(ctx context.Context, actor user.Actor, req CalculatePayrollRequest) (CalculationResult, error)
	TestRules(ctx context.Context, actor user.Actor, req TestRulesRequest) (TestRulesResult, error)
	ValidateRule(ctx context.Context, req ValidateRuleRequest) (ValidateRuleResponse, error)

	// Rules
	ListRules(ctx context.Context, filter PayRuleFilter) (ListPayRuleResponse, error)
	GetRule(ctx context.Context, id string) (PayRuleResponse, error)
	CreateRule(ctx context.Context, actor user.Actor, req CreatePayRuleRequest) (PayRuleResponse, error)
	UpdateRule(ctx context.Context, req UpdatePayRuleRequest) (PayRuleResponse, error)
	DeleteRule(ctx context.Context, id string) error
	ToggleRule(ctx context.Context, id string) (PayRuleResponse, error)
	ReorderRules(ctx context.Context, req ReorderRulesRequest) error

	// Saved calculations
	ListCalculations(ctx context.Context, filter PayCalculationFilter) (ListPayCalculationResponse, error)
	GetCalculation(ctx context.Context, id string) (PayCalculationResponse, error)
}
