package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
)

type LeaveHandler interface {
	// Applications
	Apply(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListTeam(w http.ResponseWriter, r *http.Request)
	GetApplication(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	// Types
	ListTypes(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)

	// Balances
	MyBalances(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
	AdjustBalance(w http.ResponseWriter, r *http.Request)
	RunAccrual(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	now          func() time.Time
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService, now: time.Now}
}

// ========== APPLICATIONS ==========

func (l *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req leave.CreateApplicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := l.leaveService.Apply(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave application submitted", result)
}

func (l *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	l.list(w, r, l.leaveService.ListMine)
}

func (l *LeaveHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	l.list(w, r, l.leaveService.ListTeam)
}

type listApplicationsFunc func(ctx context.Context, actor user.Actor, filter leave.ApplicationFilter) (leave.ListApplicationResponse, error)

func (l *LeaveHandlerImpl) list(w http.ResponseWriter, r *http.Request, fn listApplicationsFunc) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	filter := leave.ApplicationFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "per_page", 20),
	}
	if status := getStringQueryParam(r, "status"); status != nil {
		s := leave.ApplicationStatus(*status)
		filter.Status = &s
	}

	result, err := fn(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Applications, response.NewMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

func (l *LeaveHandlerImpl) GetApplication(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "Leave application")
	if !ok {
		return
	}

	result, err := l.leaveService.GetApplication(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	l.review(w, r, l.leaveService.Approve, "Leave application approved")
}

func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	l.review(w, r, l.leaveService.Reject, "Leave application rejected")
}

type reviewApplicationFunc func(ctx context.Context, actor user.Actor, req leave.ReviewApplicationRequest) (leave.ApplicationResponse, error)

func (l *LeaveHandlerImpl) review(w http.ResponseWriter, r *http.Request, fn reviewApplicationFunc, message string) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "Leave application")
	if !ok {
		return
	}

	var req leave.ReviewApplicationRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ApplicationID = id

	result, err := fn(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "Leave application")
	if !ok {
		return
	}

	result, err := l.leaveService.Cancel(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application cancelled", result)
}

// ========== TYPES ==========

func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	includeInactive := getBoolQueryParam(r, "include_inactive", false)

	// Inactive types are an administration concern
	if includeInactive {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		includeInactive = actor.Can(user.PermissionLeaveManageTypes)
	}

	result, err := l.leaveService.ListTypes(r.Context(), includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (l *LeaveHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Leave type")
	if !ok {
		return
	}

	result, err := l.leaveService.GetType(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := l.leaveService.CreateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", result)
}

func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Leave type")
	if !ok {
		return
	}

	var req leave.UpdateLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := l.leaveService.UpdateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated", result)
}

// ========== BALANCES ==========

func (l *LeaveHandlerImpl) MyBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.MyBalances(r.Context(), actor, getIntQueryParam(r, "year", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	filter := leave.BalanceFilter{
		EmployeeID:  getStringQueryParam(r, "employee_id"),
		LeaveTypeID: getStringQueryParam(r, "leave_type_id"),
		Year:        getIntQueryParam(r, "year", 0),
	}

	result, err := l.leaveService.ListBalances(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (l *LeaveHandlerImpl) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "Leave balance")
	if !ok {
		return
	}

	var req leave.AdjustBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BalanceID = id

	result, err := l.leaveService.AdjustBalance(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance adjusted", result)
}

func (l *LeaveHandlerImpl) RunAccrual(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.RunAccrual(r.Context(), l.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("manual leave accrual run",
		"user_id", actor.ID,
		"accrued", result.BalancesAccrued,
		"skipped", result.BalancesSkipped,
	)
	response.SuccessWithMessage(w, "Leave accrual completed", result)
}
