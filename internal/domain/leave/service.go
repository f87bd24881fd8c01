package leave

import (
	"context"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
)

type LeaveService interface {
	// Application
	Apply(ctx context.Context, actor user.Actor, req CreateApplicationRequest) (ApplicationResponse, error)
	Approve(ctx context.Context, actor user.Actor, req ReviewApplicationRequest) (ApplicationResponse, error)
	Reject(ctx context.Context, actor user.Actor, req ReviewApplicationRequest) (ApplicationResponse, error)
	Cancel(ctx context.Context, actor user.Actor, applicationID string) (ApplicationResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter ApplicationFilter) (ListApplicationResponse, error)
	ListTeam(ctx context.Context, actor user.Actor, filter ApplicationFilter) (ListApplicationResponse, error)
	GetApplication(ctx context.Context, actor user.Actor, applicationID string) (ApplicationResponse, error)

	// Type
	ListTypes(ctx context.Context, includeInactive bool) ([]LeaveTypeResponse, error)
	GetType(ctx context.Context, id string) (LeaveTypeDetailResponse, error)
	CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)

	// Balance
	MyBalances(ctx context.Context, actor user.Actor, year int) (MyBalancesResponse, error)
	ListBalances(ctx context.Context, filter BalanceFilter) ([]LeaveBalanceResponse, error)
	AdjustBalance(ctx context.Context, actor user.Actor, req AdjustBalanceRequest) (LeaveBalanceResponse, error)

	// Accrual
	RunAccrual(ctx context.Context, now time.Time) (AccrualResult, error)
}
