package http

import (
	"context"
	"net/http"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/timeentry"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
)

type TimeEntryHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	PendingApprovals(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type timeEntryHandlerImpl struct {
	timeService timeentry.TimeEntryService
}

func NewTimeEntryHandler(timeService timeentry.TimeEntryService) TimeEntryHandler {
	return &timeEntryHandlerImpl{timeService: timeService}
}

func (h *timeEntryHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.timeService.ClockIn, "Clocked in successfully")
}

func (h *timeEntryHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.timeService.ClockOut, "Clocked out successfully")
}

type clockFunc func(ctx context.Context, actor user.Actor, req timeentry.ClockRequest) (timeentry.TimeEntryResponse, error)

func (h *timeEntryHandlerImpl) clock(w http.ResponseWriter, r *http.Request, fn clockFunc, message string) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req timeentry.ClockRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	result, err := fn(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

func (h *timeEntryHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.timeService.CurrentStatus(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timeEntryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	from, err := getDateQueryParam(r, "start_date")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	to, err := getDateQueryParam(r, "end_date")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := timeentry.TimeEntryFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		From:       from,
		To:         to,
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "per_page", 20),
	}
	if status := getStringQueryParam(r, "status"); status != nil {
		s := timeentry.Status(*status)
		filter.Status = &s
	}

	result, err := h.timeService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, response.NewMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

func (h *timeEntryHandlerImpl) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.timeService.PendingApprovals(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timeEntryHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.timeService.Approve, "Time entry approved")
}

func (h *timeEntryHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.timeService.Reject, "Time entry rejected")
}

type reviewFunc func(ctx context.Context, actor user.Actor, req timeentry.ReviewRequest) (timeentry.TimeEntryResponse, error)

func (h *timeEntryHandlerImpl) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, message string) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "Time entry")
	if !ok {
		return
	}

	var req timeentry.ReviewRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.EntryID = id

	result, err := fn(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
