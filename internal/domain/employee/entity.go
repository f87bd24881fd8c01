package employee

import "time"

type Employee struct {
	ID           string
	FullName     string
	Email        string
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	Roles []string
}

// Department carries the manager assignments used for approval scoping
type Department struct {
	ID              string
	Name            string
	ManagerID       *string
	DeputyManagerID *string
}
