package attendance

import (
	"time"
)

type Attendance struct {
	ID         string
	EmployeeID string
	// WorkDate is the calendar day the mark belongs to, truncated to midnight
	// UTC. CheckIn/CheckOut are times-of-day anchored on that date.
	WorkDate      time.Time
	Status        Status
	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkHours     float64
	OvertimeHours float64
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay:
		return true
	}
	return false
}
