package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payslip"
	"github.com/smj-bricks/payroll-backend-go/internal/handler/http/response"
)

type PayslipHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	payslipService payslip.PayslipService
}

func NewPayslipHandler(payslipService payslip.PayslipService) PayslipHandler {
	return &payslipHandlerImpl{payslipService: payslipService}
}

// Get implements PayslipHandler.
func (h *payslipHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")

	result, err := h.payslipService.Summarize(r.Context(), paymentID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
