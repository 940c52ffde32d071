package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Attendance
	// byDay enforces the one-mark-per-employee-per-date invariant
	byDay map[string]string
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{
		records: make(map[string]attendance.Attendance),
		byDay:   make(map[string]string),
	}
}

func dayKey(employeeID string, workDate time.Time) string {
	return employeeID + "|" + workDate.Format("2006-01-02")
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(att.EmployeeID, att.WorkDate)
	if _, exists := r.byDay[key]; exists {
		return attendance.Attendance{}, attendance.ErrDuplicateRecord
	}

	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	att.CreatedAt = now
	att.UpdatedAt = now

	r.records[att.ID] = att
	r.byDay[key] = att.ID
	return att, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	att, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[dayKey(employeeID, workDate)]
	if !ok {
		return nil, nil
	}
	att := r.records[id]
	return &att, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[att.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}

	att.CreatedAt = current.CreatedAt
	att.UpdatedAt = time.Now().UTC()
	r.records[att.ID] = att
	return nil
}

func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []attendance.Attendance
	for _, att := range r.records {
		if att.EmployeeID != employeeID {
			continue
		}
		if att.WorkDate.Before(start) || att.WorkDate.After(end) {
			continue
		}
		result = append(result, att)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.Before(result[j].WorkDate) })
	return result, nil
}

func (r *attendanceRepository) ListByIDs(ctx context.Context, ids []string) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]attendance.Attendance, 0, len(ids))
	for _, id := range ids {
		if att, ok := r.records[id]; ok {
			result = append(result, att)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.Before(result[j].WorkDate) })
	return result, nil
}
