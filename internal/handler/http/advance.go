package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{
		advanceService: advanceService,
	}
}

// Issue implements AdvanceHandler.
func (h *advanceHandlerImpl) Issue(w http.ResponseWriter, r *http.Request) {
	var req advance.IssueAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.advanceService.Issue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advance issued", result)
}

// ListByEmployee implements AdvanceHandler.
func (h *advanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.advanceService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Balance implements AdvanceHandler.
func (h *advanceHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	balance, err := h.advanceService.OutstandingBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, advance.BalanceResponse{
		EmployeeID:         employeeID,
		OutstandingBalance: balance,
	})
}
