package leave

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
)

// memStore backs every fake repository. WithTx snapshots it and restores the
// snapshot when the callback fails.
type memStore struct {
	types     map[string]leave.LeaveType
	balances  map[string]leave.LeaveBalance
	apps      map[string]leave.LeaveApplication
	employees map[string]employee.Employee
	managed   map[string][]string // manager id -> department ids

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		types:     make(map[string]leave.LeaveType),
		balances:  make(map[string]leave.LeaveBalance),
		apps:      make(map[string]leave.LeaveApplication),
		employees: make(map[string]employee.Employee),
		managed:   make(map[string][]string),
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	types, balances, apps := maps.Clone(m.types), maps.Clone(m.balances), maps.Clone(m.apps)
	if err := fn(ctx); err != nil {
		m.types, m.balances, m.apps = types, balances, apps
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type memTypeRepo struct{ *memStore }

func (r memTypeRepo) Create(ctx context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.types[t.ID] = t
	return t, nil
}

func (r memTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	t, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r memTypeRepo) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	for _, t := range r.types {
		if t.Name == name && (excludeID == nil || t.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r memTypeRepo) List(ctx context.Context, includeInactive bool) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, t := range r.types {
		if t.IsActive || includeInactive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memTypeRepo) ListAccruing(ctx context.Context) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, t := range r.types {
		if t.IsActive && t.DefaultAccrualRate != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTypeRepo) Update(ctx context.Context, t leave.LeaveType) error {
	if _, ok := r.types[t.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	r.types[t.ID] = t
	return nil
}

type memBalanceRepo struct{ *memStore }

func (r memBalanceRepo) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.balances[b.ID] = b
	return b, nil
}

func (r memBalanceRepo) GetByID(ctx context.Context, id string) (leave.LeaveBalance, error) {
	b, ok := r.balances[id]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return b, nil
}

func (r memBalanceRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveBalance, error) {
	return r.GetByID(ctx, id)
}

func (r memBalanceRepo) Find(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return b, nil
		}
	}
	return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
}

func (r memBalanceRepo) FindForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.Find(ctx, employeeID, leaveTypeID, year)
}

func (r memBalanceRepo) List(ctx context.Context, f leave.BalanceFilter) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if f.EmployeeID != nil && b.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.LeaveTypeID != nil && b.LeaveTypeID != *f.LeaveTypeID {
			continue
		}
		if f.Year != 0 && b.Year != f.Year {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r memBalanceRepo) Update(ctx context.Context, b leave.LeaveBalance) error {
	if _, ok := r.balances[b.ID]; !ok {
		return leave.ErrLeaveBalanceNotFound
	}
	r.balances[b.ID] = b
	return nil
}

type memAppRepo struct{ *memStore }

// Create rejects overlapping live applications like the table's exclusion constraint.
func (r memAppRepo) Create(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	if a.Blocking() {
		for _, other := range r.apps {
			if other.EmployeeID == a.EmployeeID && other.Blocking() && other.Overlaps(a.StartDate, a.EndDate) {
				return leave.LeaveApplication{}, leave.ErrOverlappingApplication
			}
		}
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.apps[a.ID] = a
	return a, nil
}

// staleOverlapRepo misses rows committed by a concurrent Apply.
type staleOverlapRepo struct{ memAppRepo }

func (staleOverlapRepo) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	return false, nil
}

func (r memAppRepo) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	a, ok := r.apps[id]
	if !ok {
		return leave.LeaveApplication{}, leave.ErrApplicationNotFound
	}
	return a, nil
}

func (r memAppRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return r.GetByID(ctx, id)
}

func (r memAppRepo) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	for _, a := range r.apps {
		if a.EmployeeID == employeeID && a.Blocking() && a.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r memAppRepo) List(ctx context.Context, f leave.ApplicationFilter) ([]leave.LeaveApplication, int64, error) {
	var out []leave.LeaveApplication
	for _, a := range r.apps {
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if len(f.DepartmentIDs) > 0 && (a.DepartmentID == nil || !slices.Contains(f.DepartmentIDs, *a.DepartmentID)) {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r memAppRepo) Update(ctx context.Context, a leave.LeaveApplication) error {
	if _, ok := r.apps[a.ID]; !ok {
		return leave.ErrApplicationNotFound
	}
	r.apps[a.ID] = a
	return nil
}

func (r memAppRepo) CountByLeaveType(ctx context.Context, leaveTypeID string, status *leave.ApplicationStatus) (int64, error) {
	var n int64
	for _, a := range r.apps {
		if a.LeaveTypeID == leaveTypeID && (status == nil || a.Status == *status) {
			n++
		}
	}
	return n, nil
}

type memEmployeeRepo struct{ *memStore }

func (r memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r memEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memEmployeeRepo) GetRoleNames(ctx context.Context, ids []string) (map[string][]string, error) {
	return map[string][]string{}, nil
}

func (r memEmployeeRepo) ManagedDepartmentIDs(ctx context.Context, userID string) ([]string, error) {
	return r.managed[userID], nil
}

func (r memEmployeeRepo) DepartmentManagerIDs(ctx context.Context, departmentID string) ([]string, error) {
	var out []string
	for id, depts := range r.managed {
		if slices.Contains(depts, departmentID) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (n *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, req)
	return nil
}
