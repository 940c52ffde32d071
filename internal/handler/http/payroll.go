package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	PayBatch(w http.ResponseWriter, r *http.Request)
	GetPayment(w http.ResponseWriter, r *http.Request)
	ListPayments(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Calculate implements PayrollHandler. It previews wages without writing
// anything, so repeating the call is always safe.
func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	periodStart := r.URL.Query().Get("period_start")
	periodEnd := r.URL.Query().Get("period_end")

	result, err := h.payrollService.Calculate(r.Context(), employeeID, periodStart, periodEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Pay implements PayrollHandler.
func (h *payrollHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Pay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary payment issued", result)
}

// PayBatch implements PayrollHandler.
func (h *payrollHandlerImpl) PayBatch(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PayBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPayment implements PayrollHandler.
func (h *payrollHandlerImpl) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetPayment(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayments implements PayrollHandler.
func (h *payrollHandlerImpl) ListPayments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.payrollService.ListPayments(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
