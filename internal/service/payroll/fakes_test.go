package payroll

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
)

type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fakeRuleRepo struct {
	rules map[string]payroll.PayRule
}

func newFakeRuleRepo(rules ...payroll.PayRule) *fakeRuleRepo {
	r := &fakeRuleRepo{rules: make(map[string]payroll.PayRule)}
	for _, rule := range rules {
		r.rules[rule.ID] = rule
	}
	return r
}

func (r *fakeRuleRepo) Create(ctx context.Context, rule payroll.PayRule) (payroll.PayRule, error) {
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	r.rules[rule.ID] = rule
	return rule, nil
}

func (r *fakeRuleRepo) GetByID(ctx context.Context, id string) (payroll.PayRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return payroll.PayRule{}, payroll.ErrPayRuleNotFound
	}
	return rule, nil
}

func (r *fakeRuleRepo) GetByIDs(ctx context.Context, ids []string) ([]payroll.PayRule, error) {
	var out []payroll.PayRule
	for _, id := range ids {
		if rule, ok := r.rules[id]; ok {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) GetActiveOrdered(ctx context.Context) ([]payroll.PayRule, error) {
	var out []payroll.PayRule
	for _, rule := range r.rules {
		if rule.IsActive {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (r *fakeRuleRepo) List(ctx context.Context, filter payroll.PayRuleFilter) ([]payroll.PayRule, int64, error) {
	all, _ := r.GetActiveOrdered(ctx)
	return all, int64(len(all)), nil
}

func (r *fakeRuleRepo) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	for _, rule := range r.rules {
		if rule.Name == name && (excludeID == nil || rule.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRuleRepo) NextPriority(ctx context.Context) (int, error) {
	max := 0
	for _, rule := range r.rules {
		if rule.Priority > max {
			max = rule.Priority
		}
	}
	return max + 1, nil
}

func (r *fakeRuleRepo) Update(ctx context.Context, rule payroll.PayRule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return payroll.ErrPayRuleNotFound
	}
	r.rules[rule.ID] = rule
	return nil
}

func (r *fakeRuleRepo) UpdatePriority(ctx context.Context, id string, priority int) error {
	rule, ok := r.rules[id]
	if !ok {
		return payroll.ErrPayRuleNotFound
	}
	rule.Priority = priority
	r.rules[id] = rule
	return nil
}

func (r *fakeRuleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.rules[id]; !ok {
		return payroll.ErrPayRuleNotFound
	}
	delete(r.rules, id)
	return nil
}

type fakeCalcRepo struct {
	saved  []payroll.PayCalculation
	failAt int // 1-based create call that fails, 0 never
	calls  int
}

func (r *fakeCalcRepo) Create(ctx context.Context, calc payroll.PayCalculation) (payroll.PayCalculation, error) {
	r.calls++
	if r.failAt > 0 && r.calls == r.failAt {
		return payroll.PayCalculation{}, errors.New("disk full")
	}
	r.saved = append(r.saved, calc)
	return calc, nil
}

func (r *fakeCalcRepo) GetByID(ctx context.Context, id string) (payroll.PayCalculation, error) {
	for _, c := range r.saved {
		if c.ID == id {
			return c, nil
		}
	}
	return payroll.PayCalculation{}, payroll.ErrPayCalculationNotFound
}

func (r *fakeCalcRepo) List(ctx context.Context, filter payroll.PayCalculationFilter) ([]payroll.PayCalculation, int64, error) {
	return r.saved, int64(len(r.saved)), nil
}

func (r *fakeCalcRepo) CountByRuleName(ctx context.Context, ruleName string) (int64, error) {
	var n int64
	for _, c := range r.saved {
		if slices.Contains(c.RulesApplied, ruleName) {
			n++
		}
	}
	return n, nil
}

type fakeTimeRepo struct {
	timeentry.TimeEntryRepository
	entries []timeentry.TimeEntry

	gotFrom, gotTo time.Time
	gotLimit       int
}

func (r *fakeTimeRepo) FindForPayroll(ctx context.Context, from, to time.Time, status timeentry.Status, employeeIDs []string, limit int) ([]timeentry.TimeEntry, error) {
	r.gotFrom, r.gotTo, r.gotLimit = from, to, limit
	var out []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.Status != status || e.ClockIn.Before(from) || !e.ClockIn.Before(to) {
			continue
		}
		if len(employeeIDs) > 0 && !slices.Contains(employeeIDs, e.EmployeeID) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	roles map[string][]string
}

func (r *fakeEmployeeRepo) GetRoleNames(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, id := range ids {
		if roles, ok := r.roles[id]; ok {
			out[id] = roles
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (n *fakeNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, req)
	return nil
}
