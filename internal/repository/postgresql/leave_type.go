package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeSelect = `
	SELECT id, name, description, default_accrual_rate, is_active, requires_approval,
		   max_consecutive_days, created_at, updated_at
	FROM leave_types
`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(&lt.ID, &lt.Name, &lt.Description, &lt.DefaultAccrualRate, &lt.IsActive,
		&lt.RequiresApproval, &lt.MaxConsecutiveDays, &lt.CreatedAt, &lt.UpdatedAt)
	return lt, err
}

func (r *leaveTypeRepositoryImpl) queryTypes(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (id, name, description, default_accrual_rate, is_active, requires_approval, max_consecutive_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		lt.ID, lt.Name, lt.Description, lt.DefaultAccrualRate, lt.IsActive, lt.RequiresApproval, lt.MaxConsecutiveDays,
	).Scan(&lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return lt, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	lt, err := scanLeaveType(q.QueryRow(ctx, leaveTypeSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// ExistsByName implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM leave_types WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2::uuid))
	`, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check leave type name: %w", err)
	}
	return exists, nil
}

// List implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]leave.LeaveType, error) {
	if includeInactive {
		return r.queryTypes(ctx, leaveTypeSelect+` ORDER BY name`)
	}
	return r.queryTypes(ctx, leaveTypeSelect+` WHERE is_active ORDER BY name`)
}

// ListAccruing implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) ListAccruing(ctx context.Context) ([]leave.LeaveType, error) {
	return r.queryTypes(ctx, leaveTypeSelect+` WHERE is_active AND default_accrual_rate IS NOT NULL ORDER BY name`)
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Update(ctx context.Context, lt leave.LeaveType) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_types SET
			name = $2, description = $3, default_accrual_rate = $4, is_active = $5,
			requires_approval = $6, max_consecutive_days = $7, updated_at = NOW()
		WHERE id = $1
	`, lt.ID, lt.Name, lt.Description, lt.DefaultAccrualRate, lt.IsActive, lt.RequiresApproval, lt.MaxConsecutiveDays)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.ErrLeaveTypeNameExists
		}
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}
