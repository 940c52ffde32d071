package payslip

import (
	"github.com/shopspring/decimal"
)

// PayslipView is a display-ready projection of one salary payment and the
// attendance rows behind it. Document rendering happens outside this backend;
// this is the structure it renders from.
type PayslipView struct {
	PaymentID     string          `json:"payment_id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	EmployeeRole  string          `json:"employee_role"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	LineItems     []LineItem      `json:"line_items"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	WorkDays      int             `json:"work_days"`
	TotalHours    float64         `json:"total_hours"`
	Attendance    []AttendanceRow `json:"attendance"`
}

// LineItem carries one row of the payslip breakdown. Deductions carry a
// negative amount so the rows sum to the net.
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type AttendanceRow struct {
	WorkDate      string  `json:"work_date"`
	Status        string  `json:"status"`
	WorkHours     float64 `json:"work_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}
