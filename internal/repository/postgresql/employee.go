package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.full_name, e.email, e.department_id, e.is_active, e.created_at, e.updated_at,
		   COALESCE(array_agg(r.role_name ORDER BY r.role_name) FILTER (WHERE r.role_name IS NOT NULL), '{}')
	FROM employees e
	LEFT JOIN employee_roles r ON r.employee_id = e.id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(&e.ID, &e.FullName, &e.Email, &e.DepartmentID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt, &e.Roles)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1 GROUP BY e.id`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+` WHERE e.is_active GROUP BY e.id ORDER BY e.full_name, e.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetRoleNames implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetRoleNames(ctx context.Context, employeeIDs []string) (map[string][]string, error) {
	roles := make(map[string][]string)
	if len(employeeIDs) == 0 {
		return roles, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT employee_id, role_name
		FROM employee_roles
		WHERE employee_id = ANY($1::uuid[])
		ORDER BY employee_id, role_name
	`, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, role string
		if err := rows.Scan(&id, &role); err != nil {
			return nil, fmt.Errorf("failed to scan employee role: %w", err)
		}
		roles[id] = append(roles[id], role)
	}
	return roles, rows.Err()
}

// ManagedDepartmentIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ManagedDepartmentIDs(ctx context.Context, userID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id FROM departments
		WHERE manager_id = $1 OR deputy_manager_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get managed departments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DepartmentManagerIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) DepartmentManagerIDs(ctx context.Context, departmentID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	var manager, deputy *string
	err := q.QueryRow(ctx, `SELECT manager_id, deputy_manager_id FROM departments WHERE id = $1`, departmentID).Scan(&manager, &deputy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department managers: %w", err)
	}

	var ids []string
	if manager != nil {
		ids = append(ids, *manager)
	}
	if deputy != nil && (manager == nil || *deputy != *manager) {
		ids = append(ids, *deputy)
	}
	return ids, nil
}
