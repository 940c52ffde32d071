package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdvanceRepository defines data access methods for cash advances.
type AdvanceRepository interface {
	Create(ctx context.Context, adv Advance) (Advance, error)

	GetByID(ctx context.Context, id string) (Advance, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Advance, error)

	// ListByIDs retrieves the advances a salary payment references
	ListByIDs(ctx context.Context, ids []string) ([]Advance, error)

	// SumPendingByEmployee returns the outstanding balance: the sum of every
	// pending advance for the employee. Zero when there are none.
	SumPendingByEmployee(ctx context.Context, employeeID string) (decimal.Decimal, error)

	// ConsumePending atomically flips every pending advance for the employee
	// to consumed, stamping paymentID, and reports the total amount and the
	// ids it flipped. A second call for the same employee finds nothing
	// pending and returns zero; already-consumed records are never touched.
	ConsumePending(ctx context.Context, employeeID string, paymentID string) (decimal.Decimal, []string, error)
}
