package http

import (
	"net/http"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/payroll"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
)

type PayrollHandler interface {
	// Rules
	ListRules(w http.ResponseWriter, r *http.Request)
	GetRule(w http.ResponseWriter, r *http.Request)
	CreateRule(w http.ResponseWriter, r *http.Request)
	UpdateRule(w http.ResponseWriter, r *http.Request)
	DeleteRule(w http.ResponseWriter, r *http.Request)
	ToggleRule(w http.ResponseWriter, r *http.Request)
	ReorderRules(w http.ResponseWriter, r *http.Request)
	ValidateRule(w http.ResponseWriter, r *http.Request)
	TestRules(w http.ResponseWriter, r *http.Request)

	// Calculation
	Calculate(w http.ResponseWriter, r *http.Request)
	ListCalculations(w http.ResponseWriter, r *http.Request)
	GetCalculation(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RULES ==========

func (h *payrollHandlerImpl) ListRules(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayRuleFilter{
		Status: r.URL.Query().Get("status"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "per_page", 20),
	}

	result, err := h.payrollService.ListRules(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Rules, response.NewMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

func (h *payrollHandlerImpl) GetRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay rule")
	if !ok {
		return
	}

	result, err := h.payrollService.GetRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateRule(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req payroll.CreatePayRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.CreateRule(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay rule created", result)
}

func (h *payrollHandlerImpl) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay rule")
	if !ok {
		return
	}

	var req payroll.UpdatePayRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay rule updated", result)
}

func (h *payrollHandlerImpl) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay rule")
	if !ok {
		return
	}

	if err := h.payrollService.DeleteRule(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay rule deleted successfully", nil)
}

func (h *payrollHandlerImpl) ToggleRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay rule")
	if !ok {
		return
	}

	result, err := h.payrollService.ToggleRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ReorderRules(w http.ResponseWriter, r *http.Request) {
	var req payroll.ReorderRulesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.payrollService.ReorderRules(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay rule priorities updated", nil)
}

func (h *payrollHandlerImpl) ValidateRule(w http.ResponseWriter, r *http.Request) {
	var req payroll.ValidateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.ValidateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) TestRules(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req payroll.TestRulesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.TestRules(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req payroll.CalculatePayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.CalculatePayroll(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.SaveResults {
		response.Created(w, "Payroll calculated and saved", result)
		return
	}
	response.SuccessWithMessage(w, "Payroll calculated", result)
}

func (h *payrollHandlerImpl) ListCalculations(w http.ResponseWriter, r *http.Request) {
	periodStart, err := getDateQueryParam(r, "period_start")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	periodEnd, err := getDateQueryParam(r, "period_end")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.PayCalculationFilter{
		EmployeeID:  getStringQueryParam(r, "employee_id"),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Page:        getIntQueryParam(r, "page", 1),
		Limit:       getIntQueryParam(r, "per_page", 20),
	}

	result, err := h.payrollService.ListCalculations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Calculations, response.NewMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

func (h *payrollHandlerImpl) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Pay calculation")
	if !ok {
		return
	}

	result, err := h.payrollService.GetCalculation(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
