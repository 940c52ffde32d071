package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enum. Issued is terminal: payments are never edited, a
// mistake is fixed by issuing a correcting entry.
type PaymentStatus string

const (
	PaymentStatusIssued PaymentStatus = "issued"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodUPI:
		return true
	}
	return false
}

// SalaryPayment is the immutable result of one payroll run. It snapshots the
// computed figures and keeps the ids of the attendance and advance records it
// consumed for audit; it is never recomputed from source rows after issuance.
type SalaryPayment struct {
	ID               string
	EmployeeID       string
	PayPeriodStart   time.Time
	PayPeriodEnd     time.Time
	BasicAmount      decimal.Decimal
	OvertimeAmount   decimal.Decimal
	AdvanceDeduction decimal.Decimal
	NetAmount        decimal.Decimal
	PaymentDate      time.Time
	PaymentMethod    PaymentMethod
	Status           PaymentStatus
	AttendanceIDs    []string
	AdvanceIDs       []string
	CreatedAt        time.Time
}

// WageBreakdown is the wage calculator's result over a pay period.
// TotalHours is reporting only and takes no part in the pay math.
type WageBreakdown struct {
	BasicAmount    decimal.Decimal
	OvertimeAmount decimal.Decimal
	WorkDays       int
	TotalHours     float64
	AttendanceIDs  []string
}
