package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is a short-term cash advance issued to an employee. It stays
// pending until a payroll run consumes it; consumption is whole, exactly
// once, and stamps the payment that absorbed it.
type Advance struct {
	ID                  string
	EmployeeID          string
	Amount              decimal.Decimal
	IssueDate           time.Time
	Status              Status
	ConsumedByPaymentID *string
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusConsumed Status = "consumed"
)
