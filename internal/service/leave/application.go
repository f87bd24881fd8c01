package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
)

// Apply files an application for the actor or, with the right to act for
// them, another employee. Auto-approved applications are deducted at once.
func (s *LeaveServiceImpl) Apply(ctx context.Context, actor user.Actor, req leave.CreateApplicationRequest) (leave.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplicationResponse{}, err
	}

	targetID := actor.ID
	if req.EmployeeID != nil {
		targetID = *req.EmployeeID
	}
	self := targetID == actor.ID
	privileged := actor.Can(user.PermissionLeavePrivileged)

	if req.AutoApprove && self {
		return leave.ApplicationResponse{}, leave.ErrSelfAutoApprove
	}

	target, err := s.employeeRepo.GetByID(ctx, targetID)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if !self {
		ok, err := s.canActFor(ctx, actor, target.DepartmentID)
		if err != nil {
			return leave.ApplicationResponse{}, err
		}
		if !ok {
			if req.AutoApprove {
				return leave.ApplicationResponse{}, leave.ErrAutoApproveNotPermitted
			}
			return leave.ApplicationResponse{}, leave.ErrNotAllowedForEmployee
		}
	}

	if !req.AutoApprove && !req.Start.After(s.today()) {
		return leave.ApplicationResponse{}, leave.ErrMustBeFutureDate
	}

	leaveType, err := s.typeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.ApplicationResponse{}, leave.ErrLeaveTypeInactive
		}
		return leave.ApplicationResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.ApplicationResponse{}, leave.ErrLeaveTypeInactive
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.ApplicationResponse{}, fmt.Errorf("failed to generate application id: %w", err)
	}
	app := leave.LeaveApplication{
		ID:             id.String(),
		EmployeeID:     targetID,
		LeaveTypeID:    leaveType.ID,
		StartDate:      req.Start,
		EndDate:        req.End,
		IsHourly:       req.IsHourly,
		HoursRequested: req.HoursRequested,
		Reason:         req.Reason,
		Status:         leave.StatusPending,
		EmployeeName:   &target.FullName,
		LeaveTypeName:  &leaveType.Name,
		DepartmentID:   target.DepartmentID,
	}

	if leaveType.MaxConsecutiveDays != nil && app.Days() > *leaveType.MaxConsecutiveDays {
		return leave.ApplicationResponse{}, fmt.Errorf("%w (%d)", leave.ErrExceedsMaxConsecutive, *leaveType.MaxConsecutiveDays)
	}
	if req.AutoApprove && leaveType.RequiresApproval && !privileged {
		return leave.ApplicationResponse{}, leave.ErrLeaveTypeRequiresApproval
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		overlap, err := s.appRepo.HasOverlap(ctx, app.EmployeeID, app.StartDate, app.EndDate)
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingApplication
		}

		balance, err := s.balanceRepo.FindForUpdate(ctx, app.EmployeeID, app.LeaveTypeID, s.currentYear())
		switch {
		case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		case err != nil:
			return err
		case balance.Balance.LessThan(app.HoursNeeded()):
			return leave.ErrInsufficientBalance
		}

		if req.AutoApprove {
			if err := s.deduct(ctx, &app); err != nil {
				return err
			}
			now := s.now().UTC()
			app.Status = leave.StatusApproved
			app.ManagerApprovedID = &actor.ID
			app.ApprovedAt = &now
		}

		created, err := s.appRepo.Create(ctx, app)
		if err != nil {
			return err
		}
		app.CreatedAt, app.UpdatedAt = created.CreatedAt, created.UpdatedAt
		return nil
	})
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	slog.Info("leave application created",
		"application_id", app.ID,
		"employee_id", app.EmployeeID,
		"status", app.Status,
		"hours", app.HoursNeeded().String(),
	)

	if app.Status == leave.StatusApproved {
		s.notify(ctx, notification.CreateNotificationRequest{
			RecipientID: app.EmployeeID,
			SenderID:    &actor.ID,
			Type:        notification.TypeLeaveApproved,
			Title:       "Leave approved",
			Message:     fmt.Sprintf("%s leave from %s to %s was recorded and approved", leaveType.Name, req.StartDate, req.EndDate),
			Data:        map[string]interface{}{"leave_application_id": app.ID},
		})
	} else {
		s.notifyManagers(ctx, app, actor.ID, notification.TypeLeaveSubmitted,
			"Leave application submitted",
			fmt.Sprintf("%s applied for %s leave from %s to %s", target.FullName, leaveType.Name, req.StartDate, req.EndDate),
		)
	}

	return leave.NewApplicationResponse(app), nil
}

// Approve deducts the hours needed from the current-year balance, when one
// exists, and records how much was taken from which row.
func (s *LeaveServiceImpl) Approve(ctx context.Context, actor user.Actor, req leave.ReviewApplicationRequest) (leave.ApplicationResponse, error) {
	app, err := s.review(ctx, actor, req, leave.StatusApproved)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	s.notify(ctx, notification.CreateNotificationRequest{
		RecipientID: app.EmployeeID,
		SenderID:    &actor.ID,
		Type:        notification.TypeLeaveApproved,
		Title:       "Leave approved",
		Message:     fmt.Sprintf("Your leave from %s to %s was approved", app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02")),
		Data:        map[string]interface{}{"leave_application_id": app.ID},
	})
	return leave.NewApplicationResponse(app), nil
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, actor user.Actor, req leave.ReviewApplicationRequest) (leave.ApplicationResponse, error) {
	app, err := s.review(ctx, actor, req, leave.StatusRejected)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	s.notify(ctx, notification.CreateNotificationRequest{
		RecipientID: app.EmployeeID,
		SenderID:    &actor.ID,
		Type:        notification.TypeLeaveRejected,
		Title:       "Leave rejected",
		Message:     fmt.Sprintf("Your leave from %s to %s was rejected", app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02")),
		Data:        map[string]interface{}{"leave_application_id": app.ID},
	})
	return leave.NewApplicationResponse(app), nil
}

func (s *LeaveServiceImpl) review(ctx context.Context, actor user.Actor, req leave.ReviewApplicationRequest, status leave.ApplicationStatus) (leave.LeaveApplication, error) {
	var app leave.LeaveApplication
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByIDForUpdate(ctx, req.ApplicationID)
		if err != nil {
			return err
		}
		if app.Status != leave.StatusPending {
			return leave.ErrApplicationNotPending
		}

		ok, err := s.canActFor(ctx, actor, app.DepartmentID)
		if err != nil {
			return err
		}
		if !ok {
			return leave.ErrNotAllowedToReview
		}

		if status == leave.StatusApproved {
			if err := s.deduct(ctx, &app); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		app.Status = status
		app.ManagerApprovedID = &actor.ID
		app.ManagerComments = req.ManagerComments
		app.ApprovedAt = &now
		return s.appRepo.Update(ctx, app)
	})
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	slog.Info("leave application reviewed", "application_id", app.ID, "status", status, "reviewer_id", actor.ID)
	return app, nil
}

// deduct takes app's hours from the locked current-year balance. Without a
// balance row nothing is deducted.
func (s *LeaveServiceImpl) deduct(ctx context.Context, app *leave.LeaveApplication) error {
	balance, err := s.balanceRepo.FindForUpdate(ctx, app.EmployeeID, app.LeaveTypeID, s.currentYear())
	if err != nil {
		if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
			return nil
		}
		return err
	}

	hours := app.HoursNeeded()
	if err := balance.Deduct(hours); err != nil {
		return err
	}
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	app.HoursDeducted = &hours
	app.DeductedBalanceID = &balance.ID
	return nil
}

// Cancel withdraws a pending or not yet started approved application. Hours
// deducted on approval go back to the same balance row.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, applicationID string) (leave.ApplicationResponse, error) {
	var (
		app         leave.LeaveApplication
		wasApproved bool
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if app.EmployeeID != actor.ID && !actor.Can(user.PermissionLeavePrivileged) {
			return leave.ErrNotAllowedForEmployee
		}
		if !app.Blocking() {
			return leave.ErrNotCancellable
		}

		wasApproved = app.Status == leave.StatusApproved
		if wasApproved && !app.StartDate.After(s.today()) {
			return leave.ErrLeaveAlreadyStarted
		}

		if wasApproved && app.HoursDeducted != nil && app.DeductedBalanceID != nil {
			balance, err := s.balanceRepo.GetByIDForUpdate(ctx, *app.DeductedBalanceID)
			if err != nil {
				return fmt.Errorf("failed to lock deducted balance: %w", err)
			}
			balance.Restore(*app.HoursDeducted)
			if err := s.balanceRepo.Update(ctx, balance); err != nil {
				return fmt.Errorf("failed to restore leave balance: %w", err)
			}
		}

		app.Status = leave.StatusCancelled
		return s.appRepo.Update(ctx, app)
	})
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	slog.Info("leave application cancelled", "application_id", app.ID, "by", actor.ID, "was_approved", wasApproved)

	period := fmt.Sprintf("%s to %s", app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02"))
	switch {
	case app.EmployeeID != actor.ID:
		s.notify(ctx, notification.CreateNotificationRequest{
			RecipientID: app.EmployeeID,
			SenderID:    &actor.ID,
			Type:        notification.TypeLeaveCancelled,
			Title:       "Leave cancelled",
			Message:     "Your leave from " + period + " was cancelled",
			Data:        map[string]interface{}{"leave_application_id": app.ID},
		})
	case wasApproved:
		name := app.EmployeeID
		if app.EmployeeName != nil {
			name = *app.EmployeeName
		}
		s.notifyManagers(ctx, app, actor.ID, notification.TypeLeaveCancelled,
			"Approved leave cancelled",
			name+" cancelled approved leave from "+period,
		)
	}

	return leave.NewApplicationResponse(app), nil
}

func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter leave.ApplicationFilter) (leave.ListApplicationResponse, error) {
	filter.EmployeeID = &actor.ID
	filter.DepartmentIDs = nil
	return s.list(ctx, filter)
}

// ListTeam lists applications of managed departments, or of everyone for privileged actors
func (s *LeaveServiceImpl) ListTeam(ctx context.Context, actor user.Actor, filter leave.ApplicationFilter) (leave.ListApplicationResponse, error) {
	filter.DepartmentIDs = nil
	if !actor.Can(user.PermissionLeavePrivileged) {
		managed, err := s.managedDepartments(ctx, actor)
		if err != nil {
			return leave.ListApplicationResponse{}, err
		}
		if len(managed) == 0 {
			return leave.ListApplicationResponse{}, leave.ErrTeamViewNotPermitted
		}
		filter.DepartmentIDs = managed
	}
	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.ApplicationFilter) (leave.ListApplicationResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListApplicationResponse{}, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	apps, total, err := s.appRepo.List(ctx, filter)
	if err != nil {
		return leave.ListApplicationResponse{}, err
	}

	responses := make([]leave.ApplicationResponse, len(apps))
	for i, a := range apps {
		responses[i] = leave.NewApplicationResponse(a)
	}

	return leave.ListApplicationResponse{
		Applications: responses,
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *LeaveServiceImpl) GetApplication(ctx context.Context, actor user.Actor, applicationID string) (leave.ApplicationResponse, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if app.EmployeeID != actor.ID {
		ok, err := s.canActFor(ctx, actor, app.DepartmentID)
		if err != nil {
			return leave.ApplicationResponse{}, err
		}
		if !ok {
			return leave.ApplicationResponse{}, leave.ErrNotAllowedForEmployee
		}
	}
	return leave.NewApplicationResponse(app), nil
}
