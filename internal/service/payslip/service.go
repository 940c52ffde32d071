package payslip

import (
	"context"
	"fmt"

	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payslip"
)

type PayslipServiceImpl struct {
	paymentRepo    payroll.PaymentRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewPayslipService(
	paymentRepo payroll.PaymentRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) payslip.PayslipService {
	return &PayslipServiceImpl{
		paymentRepo:    paymentRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

// Summarize implements payslip.PayslipService. The figures come straight off
// the payment snapshot; attendance rows are loaded only for the day-by-day
// breakdown, never to recompute amounts.
func (s *PayslipServiceImpl) Summarize(ctx context.Context, paymentID string) (payslip.PayslipView, error) {
	payment, err := s.paymentRepo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return payslip.PayslipView{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, payment.EmployeeID)
	if err != nil {
		return payslip.PayslipView{}, err
	}

	records, err := s.attendanceRepo.ListByIDs(ctx, payment.AttendanceIDs)
	if err != nil {
		return payslip.PayslipView{}, fmt.Errorf("failed to load attendance for payslip: %w", err)
	}

	workDays := 0
	totalHours := 0.0
	rows := make([]payslip.AttendanceRow, 0, len(records))
	for _, record := range records {
		if record.Status == attendance.StatusPresent {
			workDays++
		}
		totalHours += record.WorkHours
		rows = append(rows, payslip.AttendanceRow{
			WorkDate:      record.WorkDate.Format("2006-01-02"),
			Status:        string(record.Status),
			WorkHours:     record.WorkHours,
			OvertimeHours: record.OvertimeHours,
		})
	}

	lineItems := []payslip.LineItem{
		{Label: "Basic wage", Amount: payment.BasicAmount},
		{Label: "Overtime", Amount: payment.OvertimeAmount},
	}
	if payment.AdvanceDeduction.IsPositive() {
		lineItems = append(lineItems, payslip.LineItem{
			Label:  "Advance deduction",
			Amount: payment.AdvanceDeduction.Neg(),
		})
	}

	return payslip.PayslipView{
		PaymentID:     payment.ID,
		EmployeeID:    payment.EmployeeID,
		EmployeeName:  emp.FullName,
		EmployeeRole:  emp.Role,
		PeriodStart:   payment.PayPeriodStart.Format("2006-01-02"),
		PeriodEnd:     payment.PayPeriodEnd.Format("2006-01-02"),
		PaymentDate:   payment.PaymentDate.Format("2006-01-02"),
		PaymentMethod: string(payment.PaymentMethod),
		LineItems:     lineItems,
		NetAmount:     payment.NetAmount,
		WorkDays:      workDays,
		TotalHours:    totalHours,
		Attendance:    rows,
	}, nil
}
