package payroll

import "context"

type PayRuleRepository interface {
	Create(ctx context.Context, rule PayRule) (PayRule, error)
	GetByID(ctx context.Context, id string) (PayRule, error)
	GetByIDs(ctx context.Context, ids []string) ([]PayRule, error)
	// GetActiveOrdered returns active rules by ascending priority, ties broken by creation time.
	GetActiveOrdered(ctx context.Context) ([]PayRule, error)
	List(ctx context.Context, filter PayRuleFilter) ([]PayRule, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	NextPriority(ctx context.Context) (int, error)
	Update(ctx context.Context, rule PayRule) error
	UpdatePriority(ctx context.Context, id string, priority int) error
	Delete(ctx context.Context, id string) error
}

type PayCalculationRepository interface {
	Create(ctx context.Context, calc PayCalculation) (PayCalculation, error)
	GetByID(ctx context.Context, id string) (PayCalculation, error)
	List(ctx context.Context, filter PayCalculationFilter) ([]PayCalculation, int64, error)
	CountByRuleName(ctx context.Context, ruleName string) (int64, error)
}
