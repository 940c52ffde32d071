package response

import (
	"errors"
	"net/http"

	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, authz.ErrPermissionDenied):
		Forbidden(w, "Not allowed to perform payroll operations")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		UnprocessableEntity(w, "Employee is inactive")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance already recorded for this date")

	// Advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, advance.ErrInvalidAmount):
		UnprocessableEntity(w, "Advance amount must be greater than zero")
	case errors.Is(err, advance.ErrConcurrentModification):
		Conflict(w, "Advance was modified concurrently")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPaymentNotFound):
		NotFound(w, "Salary payment not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid pay period", nil)
	case errors.Is(err, payroll.ErrInvalidAmount):
		UnprocessableEntity(w, "Payment amount must be greater than zero")
	case errors.Is(err, payroll.ErrInsufficientEarnings):
		UnprocessableEntity(w, "Outstanding advances exceed earnings for this period")
	case errors.Is(err, payroll.ErrPaymentInProgress):
		Conflict(w, "A payroll run for this employee and period is already in progress")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
