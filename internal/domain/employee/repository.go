package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
	// GetRoleNames returns role names keyed by employee id. Employees without roles are absent.
	GetRoleNames(ctx context.Context, employeeIDs []string) (map[string][]string, error)
	// ManagedDepartmentIDs returns departments where userID is manager or deputy manager.
	ManagedDepartmentIDs(ctx context.Context, userID string) ([]string, error)
	// DepartmentManagerIDs returns manager and deputy ids of a department.
	DepartmentManagerIDs(ctx context.Context, departmentID string) ([]string, error)
}
