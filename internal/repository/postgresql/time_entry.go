package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

const timeEntrySelect = `
	SELECT t.id, t.employee_id, t.clock_in_time, t.clock_out_time, t.status, t.notes,
		   t.approved_by_manager_id, t.approved_at,
		   t.clock_in_latitude, t.clock_in_longitude, t.clock_out_latitude, t.clock_out_longitude,
		   t.pay_code_id, t.absence_pay_code_id, t.created_at, t.updated_at,
		   e.full_name, e.department_id
	FROM time_entries t
	JOIN employees e ON e.id = t.employee_id
`

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var t timeentry.TimeEntry
	var status string
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.ClockIn, &t.ClockOut, &status, &t.Notes,
		&t.ApprovedByManagerID, &t.ApprovedAt,
		&t.ClockInLatitude, &t.ClockInLongitude, &t.ClockOutLatitude, &t.ClockOutLongitude,
		&t.PayCodeID, &t.AbsencePayCodeID, &t.CreatedAt, &t.UpdatedAt,
		&t.EmployeeName, &t.DepartmentID,
	)
	t.Status = timeentry.Status(status)
	return t, err
}

func collectTimeEntries(rows pgx.Rows) ([]timeentry.TimeEntry, error) {
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		t, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, employee_id, clock_in_time, status, notes,
			clock_in_latitude, clock_in_longitude, pay_code_id, absence_pay_code_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.ClockIn, string(entry.Status), entry.Notes,
		entry.ClockInLatitude, entry.ClockInLongitude, entry.PayCodeID, entry.AbsencePayCodeID,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return timeentry.TimeEntry{}, timeentry.ErrAlreadyClockedIn
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}
	return entry, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTimeEntry(q.QueryRow(ctx, timeEntrySelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	return t, nil
}

// GetOpenByEmployee implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetOpenByEmployee(ctx context.Context, employeeID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := timeEntrySelect + ` WHERE t.employee_id = $1 AND t.status = $2 ORDER BY t.clock_in_time DESC LIMIT 1`
	t, err := scanTimeEntry(q.QueryRow(ctx, query, employeeID, string(timeentry.StatusOpen)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get open time entry: %w", err)
	}
	return t, nil
}

// Update implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Update(ctx context.Context, entry timeentry.TimeEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries SET
			clock_out_time = $2, status = $3, notes = $4,
			approved_by_manager_id = $5, approved_at = $6,
			clock_out_latitude = $7, clock_out_longitude = $8,
			pay_code_id = $9, absence_pay_code_id = $10,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		entry.ID, entry.ClockOut, string(entry.Status), entry.Notes,
		entry.ApprovedByManagerID, entry.ApprovedAt,
		entry.ClockOutLatitude, entry.ClockOutLongitude,
		entry.PayCodeID, entry.AbsencePayCodeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrTimeEntryNotFound
	}
	return nil
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) List(ctx context.Context, filter timeentry.TimeEntryFilter) ([]timeentry.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("t.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if len(filter.DepartmentIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.department_id = ANY($%d::uuid[])", argIndex))
		args = append(args, filter.DepartmentIDs)
		argIndex++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("t.clock_in_time >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("t.clock_in_time < $%d", argIndex))
		args = append(args, filter.To.AddDate(0, 0, 1))
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM time_entries t JOIN employees e ON e.id = t.employee_id` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	query := timeEntrySelect + where + fmt.Sprintf(" ORDER BY t.clock_in_time DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time entries: %w", err)
	}
	entries, err := collectTimeEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindForPayroll implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) FindForPayroll(ctx context.Context, from, to time.Time, status timeentry.Status, employeeIDs []string, limit int) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := timeEntrySelect + ` WHERE t.clock_in_time >= $1 AND t.clock_in_time < $2 AND t.status = $3`
	args := []interface{}{from, to, string(status)}
	if len(employeeIDs) > 0 {
		query += ` AND t.employee_id = ANY($4::uuid[])`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY t.clock_in_time ASC, t.id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find time entries for payroll: %w", err)
	}
	return collectTimeEntries(rows)
}

// CountByPayCode implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) CountByPayCode(ctx context.Context, payCodeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM time_entries
		WHERE pay_code_id = $1 OR absence_pay_code_id = $1
	`, payCodeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pay code usage: %w", err)
	}
	return n, nil
}
