package attendance

import (
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type RecordAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	WorkDate   string  `json:"work_date"` // "2006-01-02"
	Status     string  `json:"status"`
	CheckIn    *string `json:"check_in,omitempty"`  // "15:04"
	CheckOut   *string `json:"check_out,omitempty"` // "15:04"
	Notes      *string `json:"notes,omitempty"`
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be in YYYY-MM-DD format",
		})
	}

	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half_day",
		})
	}

	if r.CheckIn != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.CheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be in HH:MM format",
			})
		}
	}

	if r.CheckOut != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.CheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be in HH:MM format",
			})
		}
	}

	if (r.CheckIn == nil) != (r.CheckOut == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out",
			Message: "check_in and check_out must be supplied together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AmendAttendanceRequest corrects an existing mark. The record keeps its id;
// status, times and overtime are replaced and work hours recomputed.
type AmendAttendanceRequest struct {
	ID            string   `json:"-"`
	Status        string   `json:"status"`
	CheckIn       *string  `json:"check_in,omitempty"`
	CheckOut      *string  `json:"check_out,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r *AmendAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "attendance id is required",
		})
	}

	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half_day",
		})
	}

	if r.CheckIn != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.CheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be in HH:MM format",
			})
		}
	}

	if r.CheckOut != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.CheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be in HH:MM format",
			})
		}
	}

	if (r.CheckIn == nil) != (r.CheckOut == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out",
			Message: "check_in and check_out must be supplied together",
		})
	}

	if r.OvertimeHours != nil && *r.OvertimeHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "overtime_hours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	WorkDate      string  `json:"work_date"`
	Status        string  `json:"status"`
	CheckIn       *string `json:"check_in,omitempty"`
	CheckOut      *string `json:"check_out,omitempty"`
	WorkHours     float64 `json:"work_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type AttendanceFilter struct {
	EmployeeID string
	StartDate  string // "2006-01-02", optional
	EndDate    string // "2006-01-02", optional
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
