package payroll

import "errors"

var (
	ErrPaymentNotFound      = errors.New("salary payment not found")
	ErrInvalidPeriod        = errors.New("invalid pay period")
	ErrInvalidAmount        = errors.New("pay amount must be greater than zero")
	ErrInsufficientEarnings = errors.New("advance deduction exceeds earnings for the period")
	ErrPaymentInProgress    = errors.New("a payroll run for this employee and period is already in progress")
)
