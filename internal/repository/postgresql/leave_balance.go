package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceSelect = `
	SELECT b.id, b.employee_id, b.leave_type_id, b.year, b.balance, b.accrued_this_year, b.used_this_year,
		   b.last_accrual_date, b.created_at, b.updated_at, e.full_name, t.name
	FROM leave_balances b
	JOIN employees e ON e.id = b.employee_id
	JOIN leave_types t ON t.id = b.leave_type_id
`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.Balance, &b.AccruedThisYear,
		&b.UsedThisYear, &b.LastAccrualDate, &b.CreatedAt, &b.UpdatedAt, &b.EmployeeName, &b.LeaveTypeName)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, balance, accrued_this_year, used_this_year, last_accrual_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		b.ID, b.EmployeeID, b.LeaveTypeID, b.Year, b.Balance, b.AccruedThisYear, b.UsedThisYear, b.LastAccrualDate,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return b, nil
}

// GetByID implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveBalance, error) {
	return r.getOne(ctx, leaveBalanceSelect+` WHERE b.id = $1`, id)
}

// GetByIDForUpdate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveBalance, error) {
	return r.getOne(ctx, leaveBalanceSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id)
}

// FindForUpdate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) FindForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.getOne(ctx, leaveBalanceSelect+`
		WHERE b.employee_id = $1 AND b.leave_type_id = $2 AND b.year = $3
		FOR UPDATE OF b`, employeeID, leaveTypeID, year)
}

// Find implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Find(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.getOne(ctx, leaveBalanceSelect+`
		WHERE b.employee_id = $1 AND b.leave_type_id = $2 AND b.year = $3`, employeeID, leaveTypeID, year)
}

// List implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) List(ctx context.Context, filter leave.BalanceFilter) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"b.year = $1"}
	args := []interface{}{filter.Year}
	argIndex := 2

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("b.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.LeaveTypeID != nil {
		conditions = append(conditions, fmt.Sprintf("b.leave_type_id = $%d", argIndex))
		args = append(args, *filter.LeaveTypeID)
	}

	query := leaveBalanceSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY e.full_name, t.name"
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Update implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Update(ctx context.Context, b leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_balances SET
			balance = $2, accrued_this_year = $3, used_this_year = $4, last_accrual_date = $5, updated_at = NOW()
		WHERE id = $1
	`, b.ID, b.Balance, b.AccruedThisYear, b.UsedThisYear, b.LastAccrualDate)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveBalanceNotFound
	}
	return nil
}
