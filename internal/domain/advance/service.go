package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdvanceService defines business logic for the advance ledger
type AdvanceService interface {
	// Issue creates a pending advance for an active employee
	Issue(ctx context.Context, req IssueAdvanceRequest) (AdvanceResponse, error)

	// OutstandingBalance is the sum over the employee's pending advances.
	// The pending set is one indivisible figure; there is no partial balance.
	OutstandingBalance(ctx context.Context, employeeID string) (decimal.Decimal, error)

	// ListByEmployee retrieves the employee's advances, newest first
	ListByEmployee(ctx context.Context, employeeID string) ([]AdvanceResponse, error)

	// Consume flips every pending advance to consumed against paymentID and
	// returns the total consumed. Called by the payroll run engine only;
	// calling it twice in a row consumes the full amount once and then zero.
	Consume(ctx context.Context, employeeID string, paymentID string) (decimal.Decimal, []string, error)
}
