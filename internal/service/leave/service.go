package leave

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
)

type LeaveServiceImpl struct {
	tx           database.Transactor
	typeRepo     leave.LeaveTypeRepository
	balanceRepo  leave.LeaveBalanceRepository
	appRepo      leave.LeaveApplicationRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	loc          *time.Location
	now          func() time.Time
}

// NewLeaveService builds the leave workflow. loc decides which calendar day
// "today" is for future-date checks and the balance year.
func NewLeaveService(
	tx database.Transactor,
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	appRepo leave.LeaveApplicationRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	loc *time.Location,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		tx:           tx,
		typeRepo:     typeRepo,
		balanceRepo:  balanceRepo,
		appRepo:      appRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		loc:          loc,
		now:          time.Now,
	}
}

// today is the current local calendar date expressed at UTC midnight, the
// same form application dates are stored in.
func (s *LeaveServiceImpl) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *LeaveServiceImpl) currentYear() int {
	return s.now().In(s.loc).Year()
}

func (s *LeaveServiceImpl) managedDepartments(ctx context.Context, actor user.Actor) ([]string, error) {
	if !actor.Can(user.PermissionLeaveApprove) {
		return nil, nil
	}
	ids, err := s.employeeRepo.ManagedDepartmentIDs(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get managed departments: %w", err)
	}
	return ids, nil
}

// canActFor reports whether actor may act on behalf of an employee in departmentID
func (s *LeaveServiceImpl) canActFor(ctx context.Context, actor user.Actor, departmentID *string) (bool, error) {
	if actor.Can(user.PermissionLeavePrivileged) {
		return true, nil
	}
	if departmentID == nil {
		return false, nil
	}
	managed, err := s.managedDepartments(ctx, actor)
	if err != nil {
		return false, err
	}
	return slices.Contains(managed, *departmentID), nil
}

func (s *LeaveServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, req); err != nil {
		slog.Warn("failed to queue notification", "type", req.Type, "recipient_id", req.RecipientID, "error", err)
	}
}

// notifyManagers tells the managers of a department about an application
func (s *LeaveServiceImpl) notifyManagers(ctx context.Context, app leave.LeaveApplication, sender string, notifyType notification.NotificationType, title, message string) {
	if app.DepartmentID == nil {
		return
	}
	managers, err := s.employeeRepo.DepartmentManagerIDs(ctx, *app.DepartmentID)
	if err != nil {
		slog.Warn("failed to resolve department managers", "department_id", *app.DepartmentID, "error", err)
		return
	}
	for _, id := range managers {
		if id == sender {
			continue
		}
		s.notify(ctx, notification.CreateNotificationRequest{
			RecipientID: id,
			SenderID:    &sender,
			Type:        notifyType,
			Title:       title,
			Message:     message,
			Data:        map[string]interface{}{"leave_application_id": app.ID, "employee_id": app.EmployeeID},
		})
	}
}
