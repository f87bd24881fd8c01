package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
	"golang.org/x/sync/errgroup"
)

// TestRulesEntryLimit caps the entries a dry run evaluates
const TestRulesEntryLimit = 50

type PayrollServiceImpl struct {
	tx           database.Transactor
	ruleRepo     payroll.PayRuleRepository
	calcRepo     payroll.PayCalculationRepository
	timeRepo     timeentry.TimeEntryRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	engine       *Engine
	now          func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	ruleRepo payroll.PayRuleRepository,
	calcRepo payroll.PayCalculationRepository,
	timeRepo timeentry.TimeEntryRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	engine *Engine,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:           tx,
		ruleRepo:     ruleRepo,
		calcRepo:     calcRepo,
		timeRepo:     timeRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		engine:       engine,
		now:          time.Now,
	}
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) CalculatePayroll(ctx context.Context, actor user.Actor, req payroll.CalculatePayrollRequest) (payroll.CalculationResult, error) {
	if !actor.Can(user.PermissionPayrollCalculate) {
		return payroll.CalculationResult{}, payroll.ErrCalculationNotPermitted
	}
	if err := req.Validate(); err != nil {
		return payroll.CalculationResult{}, err
	}

	start, end, err := s.period(req.PayPeriodStart, req.PayPeriodEnd)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	entries, rules, err := s.loadInputs(ctx, start, end, req.EmployeeIDs, 0, nil)
	if err != nil {
		return payroll.CalculationResult{}, err
	}
	if len(entries) == 0 {
		return payroll.CalculationResult{}, payroll.ErrNoTimeEntries
	}

	roles, err := s.employeeRepo.GetRoleNames(ctx, distinctEmployees(entries))
	if err != nil {
		return payroll.CalculationResult{}, fmt.Errorf("failed to resolve employee roles: %w", err)
	}

	started := s.now()
	eval := s.engine.Evaluate(rules, entries, roles)
	slog.Info("payroll calculated",
		"period_start", req.PayPeriodStart,
		"period_end", req.PayPeriodEnd,
		"employees", len(eval.Results),
		"entries", len(entries),
		"rules", len(rules),
		"duration", time.Since(started),
	)

	result := payroll.CalculationResult{
		PayPeriodStart:  req.PayPeriodStart,
		PayPeriodEnd:    req.PayPeriodEnd,
		EmployeeResults: eval.Results,
		Summary:         eval.Summary,
		EmployeeCount:   len(eval.Results),
	}

	if !req.SaveResults {
		return result, nil
	}

	saved, err := s.saveResults(ctx, actor, start, end, eval.Results)
	if err != nil {
		return payroll.CalculationResult{}, err
	}
	result.SavedCalculations = saved

	s.notify(ctx, notification.CreateNotificationRequest{
		RecipientID: actor.ID,
		Type:        notification.TypePayrollCalculated,
		Title:       "Payroll calculated",
		Message:     fmt.Sprintf("Saved pay calculations for %d employees (%s to %s)", len(saved), req.PayPeriodStart, req.PayPeriodEnd),
		Data: map[string]interface{}{
			"pay_period_start": req.PayPeriodStart,
			"pay_period_end":   req.PayPeriodEnd,
			"employee_count":   len(saved),
		},
	})

	return result, nil
}

// saveResults persists one row per employee. Any failure rolls back every row.
func (s *PayrollServiceImpl) saveResults(ctx context.Context, actor user.Actor, start, end time.Time, results []payroll.EmployeeResult) ([]payroll.PayCalculationResponse, error) {
	calculatedAt := s.now()
	saved := make([]payroll.PayCalculationResponse, 0, len(results))

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		for _, r := range results {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate calculation id: %w", err)
			}
			calc, err := s.calcRepo.Create(ctx, payroll.PayCalculation{
				ID:                 id.String(),
				EmployeeID:         r.EmployeeID,
				TimeEntryID:        r.FirstEntryID,
				PayPeriodStart:     start,
				PayPeriodEnd:       end,
				TotalHours:         r.TotalHours,
				RegularHours:       r.Summary.RegularHours,
				OvertimeHours:      r.Summary.OvertimeHours,
				DoubleTimeHours:    r.Summary.DoubleTimeHours,
				UnclassifiedHours:  r.Summary.UnclassifiedHours,
				TotalAllowances:    r.Summary.TotalAllowances,
				ShiftDifferentials: r.Summary.ShiftDifferentials,
				PayComponents:      r.PayComponents,
				RulesApplied:       r.RulesApplied(),
				CalculatedByID:     actor.ID,
				CalculatedAt:       calculatedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to save pay calculation for employee %s: %w", r.EmployeeID, err)
			}
			calc.EmployeeName = r.EmployeeName
			saved = append(saved, payroll.NewPayCalculationResponse(calc))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PayrollServiceImpl) TestRules(ctx context.Context, actor user.Actor, req payroll.TestRulesRequest) (payroll.TestRulesResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.TestRulesResult{}, err
	}

	start, end, err := s.period(req.StartDate, req.EndDate)
	if err != nil {
		return payroll.TestRulesResult{}, err
	}

	entries, rules, err := s.loadInputs(ctx, start, end, req.EmployeeIDs, TestRulesEntryLimit, req.RuleIDs)
	if err != nil {
		return payroll.TestRulesResult{}, err
	}

	roles := map[string][]string{}
	if len(entries) > 0 {
		roles, err = s.employeeRepo.GetRoleNames(ctx, distinctEmployees(entries))
		if err != nil {
			return payroll.TestRulesResult{}, fmt.Errorf("failed to resolve employee roles: %w", err)
		}
	}

	eval := s.engine.Evaluate(rules, entries, roles)
	slog.Debug("pay rules tested", "actor", actor.ID, "rules", len(rules), "entries", len(entries))

	matches := make([]payroll.RuleMatchCount, 0, len(rules))
	for _, r := range rules {
		matches = append(matches, payroll.RuleMatchCount{
			RuleID:   r.ID,
			RuleName: r.Name,
			Priority: r.Priority,
			Matches:  eval.RuleMatches[r.ID],
		})
	}

	return payroll.TestRulesResult{
		EntriesEvaluated: len(entries),
		EmployeeResults:  eval.Results,
		Summary:          eval.Summary,
		RuleMatches:      matches,
		ValidationIssues: RuleIssues(rules),
	}, nil
}

func (s *PayrollServiceImpl) ValidateRule(ctx context.Context, req payroll.ValidateRuleRequest) (payroll.ValidateRuleResponse, error) {
	probe := payroll.CreatePayRuleRequest{
		Name:       "validation",
		Conditions: req.Conditions,
		Actions:    req.Actions,
	}
	if err := probe.Validate(); err != nil {
		return payroll.ValidateRuleResponse{}, err
	}
	return payroll.ValidateRuleResponse{
		Valid:      true,
		Conditions: probe.ParsedConditions,
		Actions:    probe.ParsedActions,
	}, nil
}

// loadInputs fetches closed entries and the rule set concurrently. Empty
// ruleIDs selects every active rule.
func (s *PayrollServiceImpl) loadInputs(ctx context.Context, start, end time.Time, employeeIDs []string, limit int, ruleIDs []string) ([]timeentry.TimeEntry, []payroll.PayRule, error) {
	var (
		entries []timeentry.TimeEntry
		rules   []payroll.PayRule
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.timeRepo.FindForPayroll(gctx, start, end.AddDate(0, 0, 1), timeentry.StatusClosed, employeeIDs, limit)
		if err != nil {
			return fmt.Errorf("failed to load time entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if len(ruleIDs) > 0 {
			rules, err = s.ruleRepo.GetByIDs(gctx, ruleIDs)
		} else {
			rules, err = s.ruleRepo.GetActiveOrdered(gctx)
		}
		if err != nil {
			return fmt.Errorf("failed to load pay rules: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return entries, rules, nil
}

func (s *PayrollServiceImpl) period(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", startStr, s.engine.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period start: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, s.engine.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period end: %w", err)
	}
	return start, end, nil
}

func (s *PayrollServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, req); err != nil {
		slog.Warn("failed to queue notification", "type", req.Type, "recipient_id", req.RecipientID, "error", err)
	}
}

func distinctEmployees(entries []timeentry.TimeEntry) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range entries {
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		ids = append(ids, e.EmployeeID)
	}
	return ids
}

// ========== RULES ==========

func (s *PayrollServiceImpl) ListRules(ctx context.Context, filter payroll.PayRuleFilter) (payroll.ListPayRuleResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayRuleResponse{}, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	rules, total, err := s.ruleRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayRuleResponse{}, err
	}

	responses := make([]payroll.PayRuleResponse, len(rules))
	for i, r := range rules {
		responses[i] = payroll.NewPayRuleResponse(r)
	}

	return payroll.ListPayRuleResponse{
		Rules:      responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *PayrollServiceImpl) GetRule(ctx context.Context, id string) (payroll.PayRuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayRuleResponse{}, err
	}
	return payroll.NewPayRuleResponse(rule), nil
}

func (s *PayrollServiceImpl) CreateRule(ctx context.Context, actor user.Actor, req payroll.CreatePayRuleRequest) (payroll.PayRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayRuleResponse{}, err
	}

	exists, err := s.ruleRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return payroll.PayRuleResponse{}, err
	}
	if exists {
		return payroll.PayRuleResponse{}, payroll.ErrPayRuleNameExists
	}

	priority := 0
	if req.Priority != nil {
		priority = *req.Priority
	} else {
		priority, err = s.ruleRepo.NextPriority(ctx)
		if err != nil {
			return payroll.PayRuleResponse{}, err
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayRuleResponse{}, fmt.Errorf("failed to generate rule id: %w", err)
	}

	createdBy := actor.ID
	created, err := s.ruleRepo.Create(ctx, payroll.PayRule{
		ID:          id.String(),
		Name:        req.Name,
		Description: req.Description,
		Priority:    priority,
		IsActive:    isActive,
		Conditions:  req.ParsedConditions,
		Actions:     req.ParsedActions,
		CreatedByID: &createdBy,
	})
	if err != nil {
		return payroll.PayRuleResponse{}, err
	}

	slog.Info("pay rule created", "rule_id", created.ID, "name", created.Name, "priority", created.Priority)
	return payroll.NewPayRuleResponse(created), nil
}

func (s *PayrollServiceImpl) UpdateRule(ctx context.Context, req payroll.UpdatePayRuleRequest) (payroll.PayRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayRuleResponse{}, err
	}

	rule, err := s.ruleRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayRuleResponse{}, err
	}

	if req.Name != nil && *req.Name != rule.Name {
		exists, err := s.ruleRepo.ExistsByName(ctx, *req.Name, &rule.ID)
		if err != nil {
			return payroll.PayRuleResponse{}, err
		}
		if exists {
			return payroll.PayRuleResponse{}, payroll.ErrPayRuleNameExists
		}
		// Saved calculations reference rules by name
		used, err := s.calcRepo.CountByRuleName(ctx, rule.Name)
		if err != nil {
			return payroll.PayRuleResponse{}, err
		}
		if used > 0 {
			return payroll.PayRuleResponse{}, payroll.ErrPayRuleInUse
		}
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.ParsedConditions != nil {
		rule.Conditions = req.ParsedConditions
	}
	if req.ParsedActions != nil {
		rule.Actions = req.ParsedActions
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return payroll.PayRuleResponse{}, err
	}

	return s.GetRule(ctx, rule.ID)
}

func (s *PayrollServiceImpl) DeleteRule(ctx context.Context, id string) error {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	used, err := s.calcRepo.CountByRuleName(ctx, rule.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return payroll.ErrPayRuleInUse
	}

	return s.ruleRepo.Delete(ctx, id)
}

func (s *PayrollServiceImpl) ToggleRule(ctx context.Context, id string) (payroll.PayRuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayRuleResponse{}, err
	}

	rule.IsActive = !rule.IsActive
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return payroll.PayRuleResponse{}, err
	}
	return payroll.NewPayRuleResponse(rule), nil
}

// ReorderRules applies every priority change or none of them
func (s *PayrollServiceImpl) ReorderRules(ctx context.Context, req payroll.ReorderRulesRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		for _, rp := range req.Rules {
			if err := s.ruleRepo.UpdatePriority(ctx, rp.ID, rp.Priority); err != nil {
				if errors.Is(err, payroll.ErrPayRuleNotFound) {
					return fmt.Errorf("%w: %s", payroll.ErrReorderUnknownRule, rp.ID)
				}
				return err
			}
		}
		return nil
	})
}

// ========== SAVED CALCULATIONS ==========

func (s *PayrollServiceImpl) ListCalculations(ctx context.Context, filter payroll.PayCalculationFilter) (payroll.ListPayCalculationResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	calcs, total, err := s.calcRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayCalculationResponse{}, err
	}

	responses := make([]payroll.PayCalculationResponse, len(calcs))
	for i, c := range calcs {
		responses[i] = payroll.NewPayCalculationResponse(c)
	}

	return payroll.ListPayCalculationResponse{
		Calculations: responses,
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *PayrollServiceImpl) GetCalculation(ctx context.Context, id string) (payroll.PayCalculationResponse, error) {
	calc, err := s.calcRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayCalculationResponse{}, err
	}
	return payroll.NewPayCalculationResponse(calc), nil
}
