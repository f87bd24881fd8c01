package http

import (
	"net/http"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/paycode"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
)

type PayCodeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListAbsence(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
}

type payCodeHandlerImpl struct {
	payCodeService paycode.PayCodeService
}

func NewPayCodeHandler(payCodeService paycode.PayCodeService) PayCodeHandler {
	return &payCodeHandlerImpl{payCodeService: payCodeService}
}

func (h *payCodeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := paycode.PayCodeFilter{
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "per_page", 20),
	}

	result, err := h.payCodeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.PayCodes, response.NewMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

func (h *payCodeHandlerImpl) ListAbsence(w http.ResponseWriter, r *http.Request) {
	result, err := h.payCodeService.ListAbsenceCodes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payCodeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay code")
	if !ok {
		return
	}

	result, err := h.payCodeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payCodeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req paycode.CreatePayCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payCodeService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay code created", result)
}

func (h *payCodeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay code")
	if !ok {
		return
	}

	var req paycode.UpdatePayCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.payCodeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay code updated", result)
}

func (h *payCodeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay code")
	if !ok {
		return
	}

	if err := h.payCodeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay code deleted successfully", nil)
}

func (h *payCodeHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay code")
	if !ok {
		return
	}

	result, err := h.payCodeService.Toggle(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
