package payroll

import (
	"context"
)

// PayrollService defines the wage calculator and the payroll run engine
type PayrollService interface {
	// Calculate aggregates attendance into a wage figure for the period.
	// Pure over persisted data; safe to call repeatedly for previews.
	Calculate(ctx context.Context, employeeID, periodStart, periodEnd string) (WageResponse, error)

	// Pay runs payroll for one employee: computes wages, optionally consumes
	// the outstanding advance balance, and issues an immutable payment.
	Pay(ctx context.Context, req PayRequest) (PaymentResponse, error)

	// PayBatch runs payroll for several employees, each independently.
	// Partial success is expected and reported back per entry.
	PayBatch(ctx context.Context, req PayBatchRequest) (BatchResponse, error)

	// GetPayment retrieves a single salary payment by ID
	GetPayment(ctx context.Context, id string) (PaymentResponse, error)

	// ListPayments retrieves an employee's payments, newest first
	ListPayments(ctx context.Context, employeeID string) ([]PaymentResponse, error)
}
