package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance marks
type AttendanceService interface {
	// Record stores one attendance mark per employee per work date and
	// derives worked hours from the check-in/check-out pair
	Record(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)

	// Amend replaces the status/times of an existing mark, recomputing hours
	// while keeping the same record id
	Amend(ctx context.Context, req AmendAttendanceRequest) (AttendanceResponse, error)

	// Get retrieves a single attendance record by ID
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// List retrieves an employee's records for an optional date range
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)
}
