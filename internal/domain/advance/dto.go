package advance

import (
	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/validator"
)

type IssueAdvanceRequest struct {
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	IssueDate  *string         `json:"issue_date,omitempty"` // "2006-01-02", defaults to today
	Notes      *string         `json:"notes,omitempty"`
}

func (r *IssueAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if r.IssueDate != nil {
		if _, ok := validator.IsValidDate(*r.IssueDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "issue_date",
				Message: "issue_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdvanceResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	Amount              decimal.Decimal `json:"amount"`
	IssueDate           string          `json:"issue_date"`
	Status              string          `json:"status"`
	ConsumedByPaymentID *string         `json:"consumed_by_payment_id,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	CreatedAt           string          `json:"created_at"`
}

type BalanceResponse struct {
	EmployeeID         string          `json:"employee_id"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}
