package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type payRuleRepositoryImpl struct {
	db *database.DB
}

func NewPayRuleRepository(db *database.DB) payroll.PayRuleRepository {
	return &payRuleRepositoryImpl{db: db}
}

const payRuleSelect = `
	SELECT id, name, description, priority, is_active, conditions, actions, created_by_id, created_at, updated_at
	FROM pay_rules
`

// scanPayRule parses the stored JSON back into typed conditions and actions
func scanPayRule(row pgx.Row) (payroll.PayRule, error) {
	var rule payroll.PayRule
	var conditions, actions string
	err := row.Scan(&rule.ID, &rule.Name, &rule.Description, &rule.Priority, &rule.IsActive,
		&conditions, &actions, &rule.CreatedByID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return payroll.PayRule{}, err
	}

	if rule.Conditions, err = payroll.ParseConditions([]byte(conditions)); err != nil {
		return payroll.PayRule{}, fmt.Errorf("stored conditions of pay rule %s are invalid: %w", rule.ID, err)
	}
	if rule.Actions, err = payroll.ParseActions([]byte(actions)); err != nil {
		return payroll.PayRule{}, fmt.Errorf("stored actions of pay rule %s are invalid: %w", rule.ID, err)
	}
	return rule, nil
}

func collectPayRules(rows pgx.Rows) ([]payroll.PayRule, error) {
	defer rows.Close()

	var rules []payroll.PayRule
	for rows.Next() {
		rule, err := scanPayRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func encodeRule(rule payroll.PayRule) (string, string, error) {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode conditions: %w", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode actions: %w", err)
	}
	return string(conditions), string(actions), nil
}

// Create implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) Create(ctx context.Context, rule payroll.PayRule) (payroll.PayRule, error) {
	q := GetQuerier(ctx, r.db)

	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return payroll.PayRule{}, err
	}

	query := `
		INSERT INTO pay_rules (id, name, description, priority, is_active, conditions, actions, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		rule.ID, rule.Name, rule.Description, rule.Priority, rule.IsActive, conditions, actions, rule.CreatedByID,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayRule{}, payroll.ErrPayRuleNameExists
		}
		return payroll.PayRule{}, fmt.Errorf("failed to create pay rule: %w", err)
	}
	return rule, nil
}

// GetByID implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.PayRule, error) {
	q := GetQuerier(ctx, r.db)

	rule, err := scanPayRule(q.QueryRow(ctx, payRuleSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayRule{}, payroll.ErrPayRuleNotFound
		}
		return payroll.PayRule{}, fmt.Errorf("failed to get pay rule: %w", err)
	}
	return rule, nil
}

// GetByIDs implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]payroll.PayRule, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, payRuleSelect+` WHERE id = ANY($1::uuid[]) ORDER BY priority, created_at`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get pay rules: %w", err)
	}
	return collectPayRules(rows)
}

// GetActiveOrdered implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) GetActiveOrdered(ctx context.Context) ([]payroll.PayRule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, payRuleSelect+` WHERE is_active ORDER BY priority, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to get active pay rules: %w", err)
	}
	return collectPayRules(rows)
}

// List implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) List(ctx context.Context, filter payroll.PayRuleFilter) ([]payroll.PayRule, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ""
	switch filter.Status {
	case "active":
		where = " WHERE is_active"
	case "inactive":
		where = " WHERE NOT is_active"
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM pay_rules`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay rules: %w", err)
	}

	rows, err := q.Query(ctx, payRuleSelect+where+` ORDER BY priority, created_at LIMIT $1 OFFSET $2`,
		filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay rules: %w", err)
	}
	rules, err := collectPayRules(rows)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// ExistsByName implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM pay_rules WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2::uuid))
	`, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pay rule name: %w", err)
	}
	return exists, nil
}

// NextPriority implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) NextPriority(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var next int
	if err := q.QueryRow(ctx, `SELECT COALESCE(MAX(priority), 0) + 1 FROM pay_rules`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get next priority: %w", err)
	}
	return next, nil
}

// Update implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) Update(ctx context.Context, rule payroll.PayRule) error {
	q := GetQuerier(ctx, r.db)

	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE pay_rules SET
			name = $2, description = $3, priority = $4, is_active = $5,
			conditions = $6, actions = $7, updated_at = NOW()
		WHERE id = $1
	`, rule.ID, rule.Name, rule.Description, rule.Priority, rule.IsActive, conditions, actions)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.ErrPayRuleNameExists
		}
		return fmt.Errorf("failed to update pay rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayRuleNotFound
	}
	return nil
}

// UpdatePriority implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) UpdatePriority(ctx context.Context, id string, priority int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE pay_rules SET priority = $2, updated_at = NOW() WHERE id = $1`, id, priority)
	if err != nil {
		return fmt.Errorf("failed to update pay rule priority: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayRuleNotFound
	}
	return nil
}

// Delete implements payroll.PayRuleRepository.
func (r *payRuleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pay rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayRuleNotFound
	}
	return nil
}
