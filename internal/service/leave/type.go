package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"golang.org/x/sync/errgroup"
)

func (s *LeaveServiceImpl) ListTypes(ctx context.Context, includeInactive bool) ([]leave.LeaveTypeResponse, error) {
	types, err := s.typeRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveTypeResponse, len(types))
	for i, t := range types {
		responses[i] = leave.NewLeaveTypeResponse(t)
	}
	return responses, nil
}

// GetType returns the leave type with application counts
func (s *LeaveServiceImpl) GetType(ctx context.Context, id string) (leave.LeaveTypeDetailResponse, error) {
	t, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveTypeDetailResponse{}, err
	}

	var stats leave.LeaveTypeStats
	pending, approved := leave.StatusPending, leave.StatusApproved

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalApplications, err = s.appRepo.CountByLeaveType(gctx, id, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingApplications, err = s.appRepo.CountByLeaveType(gctx, id, &pending)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ApprovedApplications, err = s.appRepo.CountByLeaveType(gctx, id, &approved)
		return err
	})
	if err := g.Wait(); err != nil {
		return leave.LeaveTypeDetailResponse{}, fmt.Errorf("failed to count applications: %w", err)
	}

	return leave.LeaveTypeDetailResponse{
		LeaveTypeResponse: leave.NewLeaveTypeResponse(t),
		Statistics:        stats,
	}, nil
}

func (s *LeaveServiceImpl) CreateType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	name := strings.TrimSpace(req.Name)

	exists, err := s.typeRepo.ExistsByName(ctx, name, nil)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if exists {
		return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNameExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to generate leave type id: %w", err)
	}
	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	created, err := s.typeRepo.Create(ctx, leave.LeaveType{
		ID:                 id.String(),
		Name:               name,
		Description:        req.Description,
		DefaultAccrualRate: req.DefaultAccrualRate,
		IsActive:           true,
		RequiresApproval:   requiresApproval,
		MaxConsecutiveDays: req.MaxConsecutiveDays,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(created), nil
}

// UpdateType refuses to deactivate a type while applications for it are pending
func (s *LeaveServiceImpl) UpdateType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	t, err := s.typeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != t.Name {
			exists, err := s.typeRepo.ExistsByName(ctx, name, &t.ID)
			if err != nil {
				return leave.LeaveTypeResponse{}, err
			}
			if exists {
				return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNameExists
			}
		}
		t.Name = name
	}

	if req.IsActive != nil && !*req.IsActive && t.IsActive {
		pending := leave.StatusPending
		n, err := s.appRepo.CountByLeaveType(ctx, t.ID, &pending)
		if err != nil {
			return leave.LeaveTypeResponse{}, err
		}
		if n > 0 {
			return leave.LeaveTypeResponse{}, fmt.Errorf("%w (%d pending)", leave.ErrLeaveTypeHasPending, n)
		}
	}

	if req.Description != nil {
		t.Description = req.Description
	}
	if req.DefaultAccrualRate != nil {
		t.DefaultAccrualRate = req.DefaultAccrualRate
	}
	if req.RequiresApproval != nil {
		t.RequiresApproval = *req.RequiresApproval
	}
	if req.MaxConsecutiveDays != nil {
		t.MaxConsecutiveDays = req.MaxConsecutiveDays
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.typeRepo.Update(ctx, t); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(t), nil
}
