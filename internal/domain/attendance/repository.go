package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no mark exists for the day.
	// Used to enforce the one-record-per-day invariant.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*Attendance, error)

	// Update replaces an existing record in place, keeping its id
	Update(ctx context.Context, att Attendance) error

	// ListByEmployeeAndRange retrieves records with work_date in [start, end],
	// inclusive on both ends, ordered by work_date.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// ListByIDs retrieves the records a salary payment references
	ListByIDs(ctx context.Context, ids []string) ([]Attendance, error)
}
