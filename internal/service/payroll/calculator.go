package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
)

var (
	hoursPerWorkDay    = decimal.NewFromInt(8)
	overtimeMultiplier = decimal.NewFromFloat(1.5)
)

// ComputeWages aggregates a period's attendance records into a wage figure.
// Half days never count toward work days; they are compensated through their
// recorded hours and overtime only. Total hours is reported for display and
// takes no part in the pay math.
func ComputeWages(dailyRate decimal.Decimal, records []attendance.Attendance) payroll.WageBreakdown {
	workDays := 0
	overtimeHours := decimal.Zero
	totalHours := 0.0
	attendanceIDs := make([]string, 0, len(records))

	for _, record := range records {
		attendanceIDs = append(attendanceIDs, record.ID)
		if record.Status == attendance.StatusPresent {
			workDays++
		}
		if record.OvertimeHours > 0 {
			overtimeHours = overtimeHours.Add(decimal.NewFromFloat(record.OvertimeHours))
		}
		totalHours += record.WorkHours
	}

	basicAmount := dailyRate.Mul(decimal.NewFromInt(int64(workDays)))

	// Overtime pays 1.5x the hourly rate, where an eight hour day sets the
	// hourly rate.
	hourlyRate := dailyRate.Div(hoursPerWorkDay)
	overtimeAmount := overtimeHours.Mul(hourlyRate).Mul(overtimeMultiplier).Round(2)

	return payroll.WageBreakdown{
		BasicAmount:    basicAmount,
		OvertimeAmount: overtimeAmount,
		WorkDays:       workDays,
		TotalHours:     totalHours,
		AttendanceIDs:  attendanceIDs,
	}
}
