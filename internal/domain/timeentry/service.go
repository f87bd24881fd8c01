package timeentry

import (
	"context"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
)

type TimeEntryService interface {
	ClockIn(ctx context.Context, actor user.Actor, req ClockRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, actor user.Actor, req ClockRequest) (TimeEntryResponse, error)
	CurrentStatus(ctx context.Context, actor user.Actor) (ClockStatusResponse, error)
	List(ctx context.Context, actor user.Actor, filter TimeEntryFilter) (ListTimeEntryResponse, error)
	PendingApprovals(ctx context.Context, actor user.Actor) ([]TimeEntryResponse, error)
	Approve(ctx context.Context, actor user.Actor, req ReviewRequest) (TimeEntryResponse, error)
	Reject(ctx context.Context, actor user.Actor, req ReviewRequest) (TimeEntryResponse, error)
}
