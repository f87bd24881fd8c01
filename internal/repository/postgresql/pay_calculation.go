package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type payCalculationRepositoryImpl struct {
	db *database.DB
}

func NewPayCalculationRepository(db *database.DB) payroll.PayCalculationRepository {
	return &payCalculationRepositoryImpl{db: db}
}

const payCalculationSelect = `
	SELECT c.id, c.employee_id, c.time_entry_id, c.pay_period_start, c.pay_period_end,
		   c.total_hours, c.regular_hours, c.overtime_hours, c.double_time_hours, c.unclassified_hours,
		   c.total_allowances, c.shift_differentials, c.pay_components, c.rules_applied,
		   c.calculated_by_id, c.calculated_at, e.full_name
	FROM pay_calculations c
	JOIN employees e ON e.id = c.employee_id
`

func scanPayCalculation(row pgx.Row) (payroll.PayCalculation, error) {
	var c payroll.PayCalculation
	var components string
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.TimeEntryID, &c.PayPeriodStart, &c.PayPeriodEnd,
		&c.TotalHours, &c.RegularHours, &c.OvertimeHours, &c.DoubleTimeHours, &c.UnclassifiedHours,
		&c.TotalAllowances, &c.ShiftDifferentials, &components, &c.RulesApplied,
		&c.CalculatedByID, &c.CalculatedAt, &c.EmployeeName,
	)
	if err != nil {
		return payroll.PayCalculation{}, err
	}
	if err := json.Unmarshal([]byte(components), &c.PayComponents); err != nil {
		return payroll.PayCalculation{}, fmt.Errorf("failed to decode pay components of %s: %w", c.ID, err)
	}
	return c, nil
}

// Create implements payroll.PayCalculationRepository.
func (r *payCalculationRepositoryImpl) Create(ctx context.Context, calc payroll.PayCalculation) (payroll.PayCalculation, error) {
	q := GetQuerier(ctx, r.db)

	components, err := json.Marshal(calc.PayComponents)
	if err != nil {
		return payroll.PayCalculation{}, fmt.Errorf("failed to encode pay components: %w", err)
	}
	rulesApplied := calc.RulesApplied
	if rulesApplied == nil {
		rulesApplied = []string{}
	}

	query := `
		INSERT INTO pay_calculations (
			id, employee_id, time_entry_id, pay_period_start, pay_period_end,
			total_hours, regular_hours, overtime_hours, double_time_hours, unclassified_hours,
			total_allowances, shift_differentials, pay_components, rules_applied,
			calculated_by_id, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = q.Exec(ctx, query,
		calc.ID, calc.EmployeeID, calc.TimeEntryID, calc.PayPeriodStart, calc.PayPeriodEnd,
		calc.TotalHours, calc.RegularHours, calc.OvertimeHours, calc.DoubleTimeHours, calc.UnclassifiedHours,
		calc.TotalAllowances, calc.ShiftDifferentials, string(components), rulesApplied,
		calc.CalculatedByID, calc.CalculatedAt,
	)
	if err != nil {
		return payroll.PayCalculation{}, fmt.Errorf("failed to create pay calculation: %w", err)
	}
	return calc, nil
}

// GetByID implements payroll.PayCalculationRepository.
func (r *payCalculationRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.PayCalculation, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanPayCalculation(q.QueryRow(ctx, payCalculationSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayCalculation{}, payroll.ErrPayCalculationNotFound
		}
		return payroll.PayCalculation{}, fmt.Errorf("failed to get pay calculation: %w", err)
	}
	return c, nil
}

// List implements payroll.PayCalculationRepository.
func (r *payCalculationRepositoryImpl) List(ctx context.Context, filter payroll.PayCalculationFilter) ([]payroll.PayCalculation, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("c.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.PeriodStart != nil {
		conditions = append(conditions, fmt.Sprintf("c.pay_period_start >= $%d", argIndex))
		args = append(args, *filter.PeriodStart)
		argIndex++
	}
	if filter.PeriodEnd != nil {
		conditions = append(conditions, fmt.Sprintf("c.pay_period_end <= $%d", argIndex))
		args = append(args, *filter.PeriodEnd)
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM pay_calculations c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay calculations: %w", err)
	}

	query := payCalculationSelect + where + fmt.Sprintf(" ORDER BY c.calculated_at DESC, c.id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay calculations: %w", err)
	}
	defer rows.Close()

	var calcs []payroll.PayCalculation
	for rows.Next() {
		c, err := scanPayCalculation(rows)
		if err != nil {
			return nil, 0, err
		}
		calcs = append(calcs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return calcs, total, nil
}

// CountByRuleName implements payroll.PayCalculationRepository.
func (r *payCalculationRepositoryImpl) CountByRuleName(ctx context.Context, ruleName string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM pay_calculations WHERE $1 = ANY(rules_applied)`, ruleName).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pay calculations by rule: %w", err)
	}
	return n, nil
}
