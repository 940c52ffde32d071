package advance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/clock"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/keylock"
)

type AdvanceServiceImpl struct {
	advanceRepo  advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
	authorizer   authz.Authorizer
	clock        clock.Clock

	// employeeLocks is shared with the payroll service. Issuing holds the
	// employee's lock so a new advance cannot land inside a payroll run,
	// between its balance check and its consume.
	employeeLocks *keylock.KeyedMutex
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	authorizer authz.Authorizer,
	clk clock.Clock,
	employeeLocks *keylock.KeyedMutex,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		advanceRepo:   advanceRepo,
		employeeRepo:  employeeRepo,
		authorizer:    authorizer,
		clock:         clk,
		employeeLocks: employeeLocks,
	}
}

// Issue implements advance.AdvanceService.
func (s *AdvanceServiceImpl) Issue(ctx context.Context, req advance.IssueAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	if !s.authorizer.CanPerformPayroll(ctx) {
		return advance.AdvanceResponse{}, authz.ErrPermissionDenied
	}

	if !req.Amount.IsPositive() {
		return advance.AdvanceResponse{}, fmt.Errorf("amount %s: %w", req.Amount, advance.ErrInvalidAmount)
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if !emp.IsActive() {
		return advance.AdvanceResponse{}, fmt.Errorf("employee %s: %w", req.EmployeeID, employee.ErrEmployeeInactive)
	}

	unlock := s.employeeLocks.Lock(req.EmployeeID)
	defer unlock()

	issueDate := s.clock.Now().UTC().Truncate(24 * time.Hour)
	if req.IssueDate != nil {
		issueDate, _ = time.Parse("2006-01-02", *req.IssueDate)
	}

	record := advance.Advance{
		EmployeeID: req.EmployeeID,
		Amount:     req.Amount,
		IssueDate:  issueDate,
		Status:     advance.StatusPending,
		Notes:      req.Notes,
	}

	created, err := s.advanceRepo.Create(ctx, record)
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to create advance record: %w", err)
	}

	return mapAdvanceToResponse(created), nil
}

// OutstandingBalance implements advance.AdvanceService. Returns zero, not an
// error, when the employee has no pending advances.
func (s *AdvanceServiceImpl) OutstandingBalance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	balance, err := s.advanceRepo.SumPendingByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending advances: %w", err)
	}
	return balance, nil
}

// ListByEmployee implements advance.AdvanceService.
func (s *AdvanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]advance.AdvanceResponse, error) {
	records, err := s.advanceRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}

	responses := make([]advance.AdvanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAdvanceToResponse(record))
	}

	return responses, nil
}

// Consume implements advance.AdvanceService. The single conditional flip in
// the repository is what makes a racing second call consume nothing.
func (s *AdvanceServiceImpl) Consume(ctx context.Context, employeeID string, paymentID string) (decimal.Decimal, []string, error) {
	total, ids, err := s.advanceRepo.ConsumePending(ctx, employeeID, paymentID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to consume pending advances: %w", err)
	}
	return total, ids, nil
}

func mapAdvanceToResponse(adv advance.Advance) advance.AdvanceResponse {
	return advance.AdvanceResponse{
		ID:                  adv.ID,
		EmployeeID:          adv.EmployeeID,
		Amount:              adv.Amount,
		IssueDate:           adv.IssueDate.Format("2006-01-02"),
		Status:              string(adv.Status),
		ConsumedByPaymentID: adv.ConsumedByPaymentID,
		Notes:               adv.Notes,
		CreatedAt:           adv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
