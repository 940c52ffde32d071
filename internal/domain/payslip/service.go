package payslip

import "context"

// PayslipService projects issued payments into payslip views
type PayslipService interface {
	// Summarize loads a payment and its referenced attendance rows and
	// produces the display breakdown. Never mutates state.
	Summarize(ctx context.Context, paymentID string) (PayslipView, error)
}
