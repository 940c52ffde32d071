package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
)

const (
	fullDayDefaultHours = 8.0
	halfDayDefaultHours = 4.0
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	authorizer     authz.Authorizer
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		authorizer:     authorizer,
	}
}

// Record implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !s.authorizer.CanPerformPayroll(ctx) {
		return attendance.AttendanceResponse{}, authz.ErrPermissionDenied
	}

	workDate, _ := time.Parse("2006-01-02", req.WorkDate)

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	// Marks can only be taken for employees currently on the roll.
	if !emp.IsActive() {
		return attendance.AttendanceResponse{}, fmt.Errorf("employee %s: %w", req.EmployeeID, employee.ErrEmployeeNotFound)
	}

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, workDate)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("employee %s on %s: %w", req.EmployeeID, req.WorkDate, attendance.ErrDuplicateRecord)
	}

	status := attendance.Status(req.Status)
	checkIn, checkOut, workHours := resolveMark(workDate, status, req.CheckIn, req.CheckOut)

	record := attendance.Attendance{
		EmployeeID: req.EmployeeID,
		WorkDate:   workDate,
		Status:     status,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		WorkHours:  workHours,
		// Overtime is only ever set through an explicit correction.
		OvertimeHours: 0,
		Notes:         req.Notes,
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// Amend implements attendance.AttendanceService. The correction keeps the
// record's id and replaces status and times, recomputing worked hours.
func (s *AttendanceServiceImpl) Amend(ctx context.Context, req attendance.AmendAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !s.authorizer.CanPerformPayroll(ctx) {
		return attendance.AttendanceResponse{}, authz.ErrPermissionDenied
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	status := attendance.Status(req.Status)
	checkIn, checkOut, workHours := resolveMark(record.WorkDate, status, req.CheckIn, req.CheckOut)

	record.Status = status
	record.CheckIn = checkIn
	record.CheckOut = checkOut
	record.WorkHours = workHours
	if req.OvertimeHours != nil {
		record.OvertimeHours = *req.OvertimeHours
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to amend attendance record: %w", err)
	}

	updated, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get amended attendance: %w", err)
	}

	return mapAttendanceToResponse(updated), nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(record), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	// Open ends default to a range wide enough to cover every mark.
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	if filter.StartDate != "" {
		start, _ = time.Parse("2006-01-02", filter.StartDate)
	}
	if filter.EndDate != "" {
		end, _ = time.Parse("2006-01-02", filter.EndDate)
	}

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	return responses, nil
}

// resolveMark derives the stored check-in/check-out pair and worked hours for
// a mark. Absent days carry zero hours and no times regardless of what was
// supplied; present and half days without times fall back to the assumed
// full-day and half-day hours.
func resolveMark(workDate time.Time, status attendance.Status, checkInStr, checkOutStr *string) (*time.Time, *time.Time, float64) {
	if status == attendance.StatusAbsent {
		return nil, nil, 0
	}

	if checkInStr == nil || checkOutStr == nil {
		if status == attendance.StatusHalfDay {
			return nil, nil, halfDayDefaultHours
		}
		return nil, nil, fullDayDefaultHours
	}

	checkIn := onWorkDate(workDate, *checkInStr)
	checkOut := onWorkDate(workDate, *checkOutStr)

	// A check-out numerically earlier than the check-in means the shift
	// crossed midnight; a naive same-day difference would go negative.
	if checkOut.Before(checkIn) {
		checkOut = checkOut.Add(24 * time.Hour)
	}

	hours := checkOut.Sub(checkIn).Hours()
	if hours < 0 {
		hours = 0
	}
	if hours > 24 {
		hours = 24
	}

	return &checkIn, &checkOut, hours
}

// onWorkDate interprets an "HH:MM" string as a time-of-day on the work date.
func onWorkDate(workDate time.Time, timeOfDay string) time.Time {
	t, _ := time.Parse("15:04", timeOfDay)
	return time.Date(workDate.Year(), workDate.Month(), workDate.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func timePtrToClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("15:04")
	return &formatted
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:            att.ID,
		EmployeeID:    att.EmployeeID,
		WorkDate:      att.WorkDate.Format("2006-01-02"),
		Status:        string(att.Status),
		CheckIn:       timePtrToClock(att.CheckIn),
		CheckOut:      timePtrToClock(att.CheckOut),
		WorkHours:     att.WorkHours,
		OvertimeHours: att.OvertimeHours,
		Notes:         att.Notes,
		CreatedAt:     att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
