package payroll

import "context"

// TxRunner runs fn inside one storage transaction when the backing store
// supports them. The pay write path uses it so the advance flip and the
// payment insert land together.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentRepository defines data access methods for salary payments.
// Payments are insert-only; there is no update method on purpose.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment SalaryPayment) (SalaryPayment, error)

	GetPaymentByID(ctx context.Context, id string) (SalaryPayment, error)

	// ListPaymentsByEmployee retrieves an employee's payments, newest first
	ListPaymentsByEmployee(ctx context.Context, employeeID string) ([]SalaryPayment, error)
}
