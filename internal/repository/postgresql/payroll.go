package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/database"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payroll.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, employee_id, pay_period_start, pay_period_end,
	basic_amount, overtime_amount, advance_deduction, net_amount,
	payment_date, payment_method, status, attendance_ids, advance_ids, created_at`

func (r *paymentRepository) CreatePayment(ctx context.Context, payment payroll.SalaryPayment) (payroll.SalaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_payments (id, employee_id, pay_period_start, pay_period_end,
			basic_amount, overtime_amount, advance_deduction, net_amount,
			payment_date, payment_method, status, attendance_ids, advance_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + paymentColumns

	var created payroll.SalaryPayment
	err := q.QueryRow(ctx, query,
		payment.ID, payment.EmployeeID, payment.PayPeriodStart, payment.PayPeriodEnd,
		payment.BasicAmount, payment.OvertimeAmount, payment.AdvanceDeduction, payment.NetAmount,
		payment.PaymentDate, payment.PaymentMethod, payment.Status,
		payment.AttendanceIDs, payment.AdvanceIDs,
	).Scan(
		&created.ID, &created.EmployeeID, &created.PayPeriodStart, &created.PayPeriodEnd,
		&created.BasicAmount, &created.OvertimeAmount, &created.AdvanceDeduction, &created.NetAmount,
		&created.PaymentDate, &created.PaymentMethod, &created.Status,
		&created.AttendanceIDs, &created.AdvanceIDs, &created.CreatedAt,
	)
	if err != nil {
		return payroll.SalaryPayment{}, fmt.Errorf("failed to create salary payment: %w", err)
	}

	return created, nil
}

func (r *paymentRepository) GetPaymentByID(ctx context.Context, id string) (payroll.SalaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM salary_payments WHERE id = $1`

	var payment payroll.SalaryPayment
	err := q.QueryRow(ctx, query, id).Scan(
		&payment.ID, &payment.EmployeeID, &payment.PayPeriodStart, &payment.PayPeriodEnd,
		&payment.BasicAmount, &payment.OvertimeAmount, &payment.AdvanceDeduction, &payment.NetAmount,
		&payment.PaymentDate, &payment.PaymentMethod, &payment.Status,
		&payment.AttendanceIDs, &payment.AdvanceIDs, &payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryPayment{}, payroll.ErrPaymentNotFound
		}
		return payroll.SalaryPayment{}, fmt.Errorf("failed to get salary payment: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) ListPaymentsByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paymentColumns + `
		FROM salary_payments
		WHERE employee_id = $1
		ORDER BY payment_date DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary payments: %w", err)
	}
	defer rows.Close()

	var result []payroll.SalaryPayment
	for rows.Next() {
		var payment payroll.SalaryPayment
		if err := rows.Scan(
			&payment.ID, &payment.EmployeeID, &payment.PayPeriodStart, &payment.PayPeriodEnd,
			&payment.BasicAmount, &payment.OvertimeAmount, &payment.AdvanceDeduction, &payment.NetAmount,
			&payment.PaymentDate, &payment.PaymentMethod, &payment.Status,
			&payment.AttendanceIDs, &payment.AdvanceIDs, &payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary payment: %w", err)
		}
		result = append(result, payment)
	}

	return result, rows.Err()
}
