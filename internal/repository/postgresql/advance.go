package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `id, employee_id, amount, issue_date, status,
	consumed_by_payment_id, notes, created_at, updated_at`

func (r *advanceRepository) Create(ctx context.Context, adv advance.Advance) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advance_records (employee_id, amount, issue_date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + advanceColumns

	var created advance.Advance
	err := q.QueryRow(ctx, query,
		adv.EmployeeID, adv.Amount, adv.IssueDate, adv.Status, adv.Notes,
	).Scan(
		&created.ID, &created.EmployeeID, &created.Amount, &created.IssueDate,
		&created.Status, &created.ConsumedByPaymentID, &created.Notes,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}

	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM advance_records WHERE id = $1`

	var adv advance.Advance
	err := q.QueryRow(ctx, query, id).Scan(
		&adv.ID, &adv.EmployeeID, &adv.Amount, &adv.IssueDate,
		&adv.Status, &adv.ConsumedByPaymentID, &adv.Notes,
		&adv.CreatedAt, &adv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to get advance: %w", err)
	}

	return adv, nil
}

func (r *advanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advance_records
		WHERE employee_id = $1
		ORDER BY issue_date, id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	return scanAdvanceRows(rows)
}

func (r *advanceRepository) ListByIDs(ctx context.Context, ids []string) ([]advance.Advance, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advance_records
		WHERE id = ANY ($1)
		ORDER BY issue_date, id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances by ids: %w", err)
	}
	defer rows.Close()

	return scanAdvanceRows(rows)
}

func (r *advanceRepository) SumPendingByEmployee(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM advance_records
		WHERE employee_id = $1 AND status = 'pending'
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending advances: %w", err)
	}

	return total, nil
}

func (r *advanceRepository) ConsumePending(ctx context.Context, employeeID string, paymentID string) (decimal.Decimal, []string, error) {
	q := GetQuerier(ctx, r.db)

	// A single conditional UPDATE flips the pending rows, so two concurrent
	// runs cannot both consume an advance: the loser's WHERE matches nothing.
	query := `
		UPDATE advance_records
		SET status = 'consumed', consumed_by_payment_id = $2, updated_at = NOW()
		WHERE employee_id = $1 AND status = 'pending'
		RETURNING id, amount
	`

	rows, err := q.Query(ctx, query, employeeID, paymentID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to consume pending advances: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	var ids []string
	for rows.Next() {
		var id string
		var amount decimal.Decimal
		if err := rows.Scan(&id, &amount); err != nil {
			return decimal.Zero, nil, fmt.Errorf("failed to scan consumed advance: %w", err)
		}
		total = total.Add(amount)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to consume pending advances: %w", err)
	}

	return total, ids, nil
}

func scanAdvanceRows(rows pgx.Rows) ([]advance.Advance, error) {
	var result []advance.Advance
	for rows.Next() {
		var adv advance.Advance
		if err := rows.Scan(
			&adv.ID, &adv.EmployeeID, &adv.Amount, &adv.IssueDate,
			&adv.Status, &adv.ConsumedByPaymentID, &adv.Notes,
			&adv.CreatedAt, &adv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		result = append(result, adv)
	}
	return result, rows.Err()
}
