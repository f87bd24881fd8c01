package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type leaveApplicationRepositoryImpl struct {
	db *database.DB
}

func NewLeaveApplicationRepository(db *database.DB) leave.LeaveApplicationRepository {
	return &leaveApplicationRepositoryImpl{db: db}
}

const leaveApplicationSelect = `
	SELECT a.id, a.employee_id, a.leave_type_id, a.start_date, a.end_date, a.is_hourly, a.hours_requested,
		   a.reason, a.status, a.manager_approved_id, a.manager_comments, a.approved_at,
		   a.hours_deducted, a.deducted_balance_id, a.created_at, a.updated_at,
		   e.full_name, t.name, e.department_id
	FROM leave_applications a
	JOIN employees e ON e.id = a.employee_id
	JOIN leave_types t ON t.id = a.leave_type_id
`

func scanLeaveApplication(row pgx.Row) (leave.LeaveApplication, error) {
	var a leave.LeaveApplication
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.LeaveTypeID, &a.StartDate, &a.EndDate, &a.IsHourly, &a.HoursRequested,
		&a.Reason, &a.Status, &a.ManagerApprovedID, &a.ManagerComments, &a.ApprovedAt,
		&a.HoursDeducted, &a.DeductedBalanceID, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.LeaveTypeName, &a.DepartmentID,
	)
	if err != nil {
		return leave.LeaveApplication{}, err
	}
	a.StartDate = asDate(a.StartDate)
	a.EndDate = asDate(a.EndDate)
	return a, nil
}

// asDate pins a DATE column to UTC midnight
func asDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *leaveApplicationRepositoryImpl) getOne(ctx context.Context, query string, id string) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanLeaveApplication(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveApplication{}, leave.ErrApplicationNotFound
		}
		return leave.LeaveApplication{}, fmt.Errorf("failed to get leave application: %w", err)
	}
	return a, nil
}

// Create implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) Create(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_applications (
			id, employee_id, leave_type_id, start_date, end_date, is_hourly, hours_requested, reason, status,
			manager_approved_id, manager_comments, approved_at, hours_deducted, deducted_balance_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.LeaveTypeID, a.StartDate, a.EndDate, a.IsHourly, a.HoursRequested, a.Reason, a.Status,
		a.ManagerApprovedID, a.ManagerComments, a.ApprovedAt, a.HoursDeducted, a.DeductedBalanceID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return leave.LeaveApplication{}, leave.ErrOverlappingApplication
		}
		return leave.LeaveApplication{}, fmt.Errorf("failed to create leave application: %w", err)
	}
	return a, nil
}

// GetByID implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return r.getOne(ctx, leaveApplicationSelect+` WHERE a.id = $1`, id)
}

// GetByIDForUpdate implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return r.getOne(ctx, leaveApplicationSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id)
}

// HasOverlap implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leave_applications
			WHERE employee_id = $1
			  AND start_date <= $3::date AND end_date >= $2::date
			  AND status IN ('Pending', 'Approved')
		)
	`, employeeID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// List implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) List(ctx context.Context, filter leave.ApplicationFilter) ([]leave.LeaveApplication, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if len(filter.DepartmentIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.department_id = ANY($%d::uuid[])", argIndex))
		args = append(args, filter.DepartmentIDs)
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_applications a JOIN employees e ON e.id = a.employee_id` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave applications: %w", err)
	}

	query := leaveApplicationSelect + where + fmt.Sprintf(" ORDER BY a.created_at DESC, a.id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave applications: %w", err)
	}
	defer rows.Close()

	var apps []leave.LeaveApplication
	for rows.Next() {
		a, err := scanLeaveApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Update implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) Update(ctx context.Context, a leave.LeaveApplication) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_applications SET
			status = $2, manager_approved_id = $3, manager_comments = $4, approved_at = $5,
			hours_deducted = $6, deducted_balance_id = $7, updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.Status, a.ManagerApprovedID, a.ManagerComments, a.ApprovedAt, a.HoursDeducted, a.DeductedBalanceID)
	if err != nil {
		return fmt.Errorf("failed to update leave application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrApplicationNotFound
	}
	return nil
}

// CountByLeaveType implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) CountByLeaveType(ctx context.Context, leaveTypeID string, status *leave.ApplicationStatus) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM leave_applications
		WHERE leave_type_id = $1 AND ($2::text IS NULL OR status = $2::text)
	`, leaveTypeID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count leave applications: %w", err)
	}
	return n, nil
}
