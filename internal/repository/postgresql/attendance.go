package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, work_date, status, check_in, check_out,
	work_hours, overtime_hours, notes, created_at, updated_at`

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (employee_id, work_date, status, check_in, check_out, work_hours, overtime_hours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + attendanceColumns

	var created attendance.Attendance
	err := q.QueryRow(ctx, query,
		att.EmployeeID, att.WorkDate, att.Status, att.CheckIn, att.CheckOut,
		att.WorkHours, att.OvertimeHours, att.Notes,
	).Scan(
		&created.ID, &created.EmployeeID, &created.WorkDate, &created.Status,
		&created.CheckIn, &created.CheckOut, &created.WorkHours, &created.OvertimeHours,
		&created.Notes, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		// The unique (employee_id, work_date) constraint backs the
		// one-mark-per-day invariant even under concurrent writers.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.EmployeeID, &att.WorkDate, &att.Status,
		&att.CheckIn, &att.CheckOut, &att.WorkHours, &att.OvertimeHours,
		&att.Notes, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return att, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE employee_id = $1 AND work_date = $2`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, workDate).Scan(
		&att.ID, &att.EmployeeID, &att.WorkDate, &att.Status,
		&att.CheckIn, &att.CheckOut, &att.WorkHours, &att.OvertimeHours,
		&att.Notes, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}

	return &att, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET status = $2, check_in = $3, check_out = $4, work_hours = $5,
			overtime_hours = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID, att.Status, att.CheckIn, att.CheckOut,
		att.WorkHours, att.OvertimeHours, att.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND work_date >= $2 AND work_date <= $3
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRows(rows)
}

func (r *attendanceRepository) ListByIDs(ctx context.Context, ids []string) ([]attendance.Attendance, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE id = ANY ($1)
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records by ids: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRows(rows)
}

func scanAttendanceRows(rows pgx.Rows) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.WorkDate, &att.Status,
			&att.CheckIn, &att.CheckOut, &att.WorkHours, &att.OvertimeHours,
			&att.Notes, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
