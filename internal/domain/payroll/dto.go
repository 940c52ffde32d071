package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/validator"
)

type PayRequest struct {
	EmployeeID     string  `json:"employee_id"`
	PeriodStart    string  `json:"period_start"` // "2006-01-02", inclusive
	PeriodEnd      string  `json:"period_end"`   // "2006-01-02", inclusive
	PaymentDate    *string `json:"payment_date,omitempty"`
	PaymentMethod  string  `json:"payment_method"`
	DeductAdvances bool    `json:"deduct_advances"`
}

func (r *PayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)
	errs = append(errs, validatePaymentFields(r.PaymentDate, r.PaymentMethod)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BatchEntry is one employee inside a batch payroll run. When
// BasicAmountOverride is set the wage calculator is skipped and the entered
// figure is used as the basic amount, still subject to the non-negative-net
// check.
type BatchEntry struct {
	EmployeeID          string           `json:"employee_id"`
	BasicAmountOverride *decimal.Decimal `json:"basic_amount_override,omitempty"`
	DeductAdvances      bool             `json:"deduct_advances"`
}

type PayBatchRequest struct {
	Entries       []BatchEntry `json:"entries"`
	PeriodStart   string       `json:"period_start"`
	PeriodEnd     string       `json:"period_end"`
	PaymentDate   *string      `json:"payment_date,omitempty"`
	PaymentMethod string       `json:"payment_method"`
}

func (r *PayBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "at least one entry is required",
		})
	}

	for _, entry := range r.Entries {
		if validator.IsEmpty(entry.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   "entries",
				Message: "entries must all carry an employee_id",
			})
			break
		}
	}

	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)
	errs = append(errs, validatePaymentFields(r.PaymentDate, r.PaymentMethod)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validatePeriod(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startDate, startOK := validator.IsValidDate(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be in YYYY-MM-DD format",
		})
	}

	endDate, endOK := validator.IsValidDate(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	return errs
}

func validatePaymentFields(paymentDate *string, method string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if paymentDate != nil {
		if _, ok := validator.IsValidDate(*paymentDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "payment_date",
				Message: "payment_date must be in YYYY-MM-DD format",
			})
		}
	}

	if !PaymentMethod(method).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "payment_method",
			Message: "payment_method must be one of: cash, bank_transfer, upi",
		})
	}

	return errs
}

type WageResponse struct {
	EmployeeID     string          `json:"employee_id"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	BasicAmount    decimal.Decimal `json:"basic_amount"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	WorkDays       int             `json:"work_days"`
	TotalHours     float64         `json:"total_hours"`
}

type PaymentResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	BasicAmount      decimal.Decimal `json:"basic_amount"`
	OvertimeAmount   decimal.Decimal `json:"overtime_amount"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	PaymentDate      string          `json:"payment_date"`
	PaymentMethod    string          `json:"payment_method"`
	Status           string          `json:"status"`
	AttendanceIDs    []string        `json:"attendance_ids"`
	AdvanceIDs       []string        `json:"advance_ids"`
}

type BatchFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// BatchResponse reports each entry's outcome independently; one employee's
// failure never rolls back another's payment.
type BatchResponse struct {
	Succeeded []PaymentResponse `json:"succeeded"`
	Failed    []BatchFailure    `json:"failed"`
}
