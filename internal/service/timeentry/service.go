package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/employee"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

type TimeEntryServiceImpl struct {
	timeRepo     timeentry.TimeEntryRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	now          func() time.Time
}

// ClockIn opens a new entry for the actor
func (s *TimeEntryServiceImpl) ClockIn(ctx context.Context, actor user.Actor, req timeentry.ClockRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	_, err := s.timeRepo.GetOpenByEmployee(ctx, actor.ID)
	if err == nil {
		return timeentry.TimeEntryResponse{}, timeentry.ErrAlreadyClockedIn
	}
	if !errors.Is(err, timeentry.ErrTimeEntryNotFound) {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get open entry: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to generate entry id: %w", err)
	}

	created, err := s.timeRepo.Create(ctx, timeentry.TimeEntry{
		ID:               id.String(),
		EmployeeID:       actor.ID,
		ClockIn:          s.now().UTC(),
		Status:           timeentry.StatusOpen,
		Notes:            req.Notes,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	slog.Info("clocked in", "employee_id", actor.ID, "entry_id", created.ID)
	return timeentry.NewTimeEntryResponse(created), nil
}

// ClockOut closes the actor's open entry and appends any notes
func (s *TimeEntryServiceImpl) ClockOut(ctx context.Context, actor user.Actor, req timeentry.ClockRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	entry, err := s.timeRepo.GetOpenByEmployee(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, timeentry.ErrTimeEntryNotFound) {
			return timeentry.TimeEntryResponse{}, timeentry.ErrNotClockedIn
		}
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get open entry: %w", err)
	}

	now := s.now().UTC()
	entry.ClockOut = &now
	entry.Status = timeentry.StatusClosed
	entry.ClockOutLatitude = req.Latitude
	entry.ClockOutLongitude = req.Longitude
	entry.Notes = appendNote(entry.Notes, "", req.Notes)

	if err := s.timeRepo.Update(ctx, entry); err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}

	slog.Info("clocked out", "employee_id", actor.ID, "entry_id", entry.ID, "hours", entry.Hours().String())
	return timeentry.NewTimeEntryResponse(entry), nil
}

func (s *TimeEntryServiceImpl) CurrentStatus(ctx context.Context, actor user.Actor) (timeentry.ClockStatusResponse, error) {
	entry, err := s.timeRepo.GetOpenByEmployee(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, timeentry.ErrTimeEntryNotFound) {
			return timeentry.ClockStatusResponse{Status: "clocked_out"}, nil
		}
		return timeentry.ClockStatusResponse{}, fmt.Errorf("failed to get open entry: %w", err)
	}

	elapsed := decimal.NewFromFloat(s.now().Sub(entry.ClockIn).Hours()).Round(2)
	clockIn := entry.ClockIn
	return timeentry.ClockStatusResponse{
		Status:          "clocked_in",
		EntryID:         &entry.ID,
		ClockInTime:     &clockIn,
		CurrentDuration: &elapsed,
	}, nil
}

// List scopes the filter to what the actor may see: their own entries, their
// managed departments, or everything with time.view_all.
func (s *TimeEntryServiceImpl) List(ctx context.Context, actor user.Actor, filter timeentry.TimeEntryFilter) (timeentry.ListTimeEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeentry.ListTimeEntryResponse{}, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	viewAll := actor.Can(user.PermissionTimeViewAll)
	switch {
	case filter.EmployeeID != nil && *filter.EmployeeID == actor.ID:
	case filter.EmployeeID != nil:
		if !viewAll {
			ok, err := s.managesEmployee(ctx, actor, *filter.EmployeeID)
			if err != nil {
				return timeentry.ListTimeEntryResponse{}, err
			}
			if !ok {
				return timeentry.ListTimeEntryResponse{}, timeentry.ErrNotAllowedToView
			}
		}
	case viewAll:
	default:
		managed, err := s.managedDepartments(ctx, actor)
		if err != nil {
			return timeentry.ListTimeEntryResponse{}, err
		}
		if len(managed) > 0 {
			filter.DepartmentIDs = managed
		} else {
			filter.EmployeeID = &actor.ID
		}
	}

	entries, total, err := s.timeRepo.List(ctx, filter)
	if err != nil {
		return timeentry.ListTimeEntryResponse{}, err
	}

	responses := make([]timeentry.TimeEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = timeentry.NewTimeEntryResponse(e)
	}

	return timeentry.ListTimeEntryResponse{
		Entries:    responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// PendingApprovals lists closed entries awaiting review
func (s *TimeEntryServiceImpl) PendingApprovals(ctx context.Context, actor user.Actor) ([]timeentry.TimeEntryResponse, error) {
	status := timeentry.StatusClosed
	filter := timeentry.TimeEntryFilter{Status: &status, Page: 1, Limit: 100}

	if !actor.Can(user.PermissionTimeViewAll) {
		managed, err := s.managedDepartments(ctx, actor)
		if err != nil {
			return nil, err
		}
		if len(managed) == 0 {
			return nil, timeentry.ErrNotAllowedToApprove
		}
		filter.DepartmentIDs = managed
	}

	entries, _, err := s.timeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]timeentry.TimeEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = timeentry.NewTimeEntryResponse(e)
	}
	return responses, nil
}

func (s *TimeEntryServiceImpl) Approve(ctx context.Context, actor user.Actor, req timeentry.ReviewRequest) (timeentry.TimeEntryResponse, error) {
	return s.review(ctx, actor, req, timeentry.StatusApproved, "Approval note: ", notification.TypeTimeEntryApproved)
}

func (s *TimeEntryServiceImpl) Reject(ctx context.Context, actor user.Actor, req timeentry.ReviewRequest) (timeentry.TimeEntryResponse, error) {
	return s.review(ctx, actor, req, timeentry.StatusRejected, "Rejection reason: ", notification.TypeTimeEntryRejected)
}

func (s *TimeEntryServiceImpl) review(ctx context.Context, actor user.Actor, req timeentry.ReviewRequest, status timeentry.Status, notePrefix string, notifyType notification.NotificationType) (timeentry.TimeEntryResponse, error) {
	entry, err := s.timeRepo.GetByID(ctx, req.EntryID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if entry.Status != timeentry.StatusClosed {
		return timeentry.TimeEntryResponse{}, timeentry.ErrEntryNotClosed
	}

	if !actor.Can(user.PermissionTimeViewAll) {
		managed, err := s.managedDepartments(ctx, actor)
		if err != nil {
			return timeentry.TimeEntryResponse{}, err
		}
		if entry.DepartmentID == nil || !slices.Contains(managed, *entry.DepartmentID) {
			return timeentry.TimeEntryResponse{}, timeentry.ErrNotAllowedToApprove
		}
	}

	now := s.now().UTC()
	entry.Status = status
	entry.ApprovedByManagerID = &actor.ID
	entry.ApprovedAt = &now
	entry.Notes = appendNote(entry.Notes, notePrefix, req.Notes)

	if err := s.timeRepo.Update(ctx, entry); err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	if s.notifier != nil {
		verb := "approved"
		if status == timeentry.StatusRejected {
			verb = "rejected"
		}
		err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: entry.EmployeeID,
			SenderID:    &actor.ID,
			Type:        notifyType,
			Title:       "Time entry " + verb,
			Message:     fmt.Sprintf("Your time entry for %s was %s", entry.ClockIn.Format("2006-01-02"), verb),
			Data:        map[string]interface{}{"time_entry_id": entry.ID},
		})
		if err != nil {
			slog.Warn("failed to queue notification", "type", notifyType, "entry_id", entry.ID, "error", err)
		}
	}

	return timeentry.NewTimeEntryResponse(entry), nil
}

func (s *TimeEntryServiceImpl) managedDepartments(ctx context.Context, actor user.Actor) ([]string, error) {
	if !actor.Can(user.PermissionTimeApprove) {
		return nil, nil
	}
	ids, err := s.employeeRepo.ManagedDepartmentIDs(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get managed departments: %w", err)
	}
	return ids, nil
}

func (s *TimeEntryServiceImpl) managesEmployee(ctx context.Context, actor user.Actor, employeeID string) (bool, error) {
	managed, err := s.managedDepartments(ctx, actor)
	if err != nil || len(managed) == 0 {
		return false, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return emp.DepartmentID != nil && slices.Contains(managed, *emp.DepartmentID), nil
}

func appendNote(existing *string, prefix string, note *string) *string {
	if note == nil || *note == "" {
		return existing
	}
	line := prefix + *note
	if existing == nil || *existing == "" {
		return &line
	}
	joined := *existing + "\n" + line
	return &joined
}

func NewTimeEntryService(
	timeRepo timeentry.TimeEntryRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
) timeentry.TimeEntryService {
	return &TimeEntryServiceImpl{
		timeRepo:     timeRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}
