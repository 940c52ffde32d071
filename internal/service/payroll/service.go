package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/clock"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/keylock"
)

// batchConcurrency bounds how many employees a batch run pays at once.
const batchConcurrency = 4

type PayrollServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	paymentRepo    payroll.PaymentRepository
	advanceService advance.AdvanceService
	authorizer     authz.Authorizer
	clock          clock.Clock
	tx             payroll.TxRunner

	// employeeLocks serializes payroll runs per employee and is shared with
	// the advance service, so issuing an advance waits out a running payroll
	// for the same employee. Runs for different employees proceed in parallel.
	employeeLocks *keylock.KeyedMutex

	// inFlight collapses a repeated identical pay request into a collision
	// while the first one is still running.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewPayrollService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	paymentRepo payroll.PaymentRepository,
	advanceService advance.AdvanceService,
	authorizer authz.Authorizer,
	clk clock.Clock,
	tx payroll.TxRunner,
	employeeLocks *keylock.KeyedMutex,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		paymentRepo:    paymentRepo,
		advanceService: advanceService,
		authorizer:     authorizer,
		clock:          clk,
		tx:             tx,
		employeeLocks:  employeeLocks,
		inFlight:       make(map[string]struct{}),
	}
}

// Calculate implements payroll.PayrollService. Pure over persisted data;
// the UI calls it repeatedly to preview a run before committing.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, employeeID, periodStart, periodEnd string) (payroll.WageResponse, error) {
	start, end, err := parsePeriod(periodStart, periodEnd)
	if err != nil {
		return payroll.WageResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.WageResponse{}, err
	}

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return payroll.WageResponse{}, fmt.Errorf("failed to list attendance for period: %w", err)
	}

	breakdown := ComputeWages(emp.DailyRate, records)

	return payroll.WageResponse{
		EmployeeID:     employeeID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		BasicAmount:    breakdown.BasicAmount,
		OvertimeAmount: breakdown.OvertimeAmount,
		WorkDays:       breakdown.WorkDays,
		TotalHours:     breakdown.TotalHours,
	}, nil
}

// Pay implements payroll.PayrollService.
func (s *PayrollServiceImpl) Pay(ctx context.Context, req payroll.PayRequest) (payroll.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	if !s.authorizer.CanPerformPayroll(ctx) {
		return payroll.PaymentResponse{}, authz.ErrPermissionDenied
	}

	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	payment, err := s.payOne(ctx, runParams{
		employeeID:     req.EmployeeID,
		periodStart:    start,
		periodEnd:      end,
		deductAdvances: req.DeductAdvances,
		paymentDate:    s.resolvePaymentDate(req.PaymentDate),
		paymentMethod:  payroll.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	return mapPaymentToResponse(payment), nil
}

// PayBatch implements payroll.PayrollService. Entries run independently and
// in parallel across employees; a failed entry is reported, not propagated,
// and never rolls back a sibling's payment.
func (s *PayrollServiceImpl) PayBatch(ctx context.Context, req payroll.PayBatchRequest) (payroll.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResponse{}, err
	}

	if !s.authorizer.CanPerformPayroll(ctx) {
		return payroll.BatchResponse{}, authz.ErrPermissionDenied
	}

	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	paymentDate := s.resolvePaymentDate(req.PaymentDate)
	method := payroll.PaymentMethod(req.PaymentMethod)

	type outcome struct {
		payment payroll.SalaryPayment
		err     error
	}
	outcomes := make([]outcome, len(req.Entries))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, entry := range req.Entries {
		i, entry := i, entry
		g.Go(func() error {
			payment, err := s.payOne(ctx, runParams{
				employeeID:     entry.EmployeeID,
				periodStart:    start,
				periodEnd:      end,
				basicOverride:  entry.BasicAmountOverride,
				deductAdvances: entry.DeductAdvances,
				paymentDate:    paymentDate,
				paymentMethod:  method,
			})
			outcomes[i] = outcome{payment: payment, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := payroll.BatchResponse{
		Succeeded: make([]payroll.PaymentResponse, 0, len(req.Entries)),
		Failed:    make([]payroll.BatchFailure, 0),
	}
	for i, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, payroll.BatchFailure{
				EmployeeID: req.Entries[i].EmployeeID,
				Reason:     o.err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, mapPaymentToResponse(o.payment))
	}

	return result, nil
}

// GetPayment implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayment(ctx context.Context, id string) (payroll.PaymentResponse, error) {
	payment, err := s.paymentRepo.GetPaymentByID(ctx, id)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	return mapPaymentToResponse(payment), nil
}

// ListPayments implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayments(ctx context.Context, employeeID string) ([]payroll.PaymentResponse, error) {
	payments, err := s.paymentRepo.ListPaymentsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	responses := make([]payroll.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, mapPaymentToResponse(payment))
	}

	return responses, nil
}

type runParams struct {
	employeeID     string
	periodStart    time.Time
	periodEnd      time.Time
	basicOverride  *decimal.Decimal
	deductAdvances bool
	paymentDate    time.Time
	paymentMethod  payroll.PaymentMethod
}

// payOne runs payroll for a single employee. The advance flip and the
// payment insert share one transaction where the store supports them, so an
// issued payment never leaves its advances pending.
func (s *PayrollServiceImpl) payOne(ctx context.Context, params runParams) (payroll.SalaryPayment, error) {
	runKey := fmt.Sprintf("%s|%s|%s",
		params.employeeID,
		params.periodStart.Format("2006-01-02"),
		params.periodEnd.Format("2006-01-02"),
	)
	if !s.beginRun(runKey) {
		return payroll.SalaryPayment{}, fmt.Errorf("employee %s: %w", params.employeeID, payroll.ErrPaymentInProgress)
	}
	defer s.endRun(runKey)

	unlock := s.employeeLocks.Lock(params.employeeID)
	defer unlock()

	emp, err := s.employeeRepo.GetByID(ctx, params.employeeID)
	if err != nil {
		return payroll.SalaryPayment{}, err
	}

	var breakdown payroll.WageBreakdown
	if params.basicOverride != nil {
		// Manual figure entered during bulk processing; the calculator is
		// bypassed and no attendance rows are consumed.
		if !params.basicOverride.IsPositive() {
			return payroll.SalaryPayment{}, fmt.Errorf("employee %s: %w", params.employeeID, payroll.ErrInvalidAmount)
		}
		breakdown = payroll.WageBreakdown{
			BasicAmount:    *params.basicOverride,
			OvertimeAmount: decimal.Zero,
			AttendanceIDs:  []string{},
		}
	} else {
		records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, params.employeeID, params.periodStart, params.periodEnd)
		if err != nil {
			return payroll.SalaryPayment{}, fmt.Errorf("failed to list attendance for period: %w", err)
		}
		breakdown = ComputeWages(emp.DailyRate, records)
	}

	earnings := breakdown.BasicAmount.Add(breakdown.OvertimeAmount)

	paymentID := uuid.NewString()

	var created payroll.SalaryPayment
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		deduction := decimal.Zero
		advanceIDs := []string{}

		if params.deductAdvances {
			balance, err := s.advanceService.OutstandingBalance(ctx, params.employeeID)
			if err != nil {
				return err
			}
			// Rejected before anything is consumed, so a failed run leaves
			// both the advances and the payment ledger untouched.
			if balance.GreaterThan(earnings) {
				return fmt.Errorf("employee %s: outstanding %s exceeds earnings %s: %w",
					params.employeeID, balance, earnings, payroll.ErrInsufficientEarnings)
			}

			deduction, advanceIDs, err = s.advanceService.Consume(ctx, params.employeeID, paymentID)
			if err != nil {
				return err
			}
			// The employee lock only covers this process. Another instance
			// can issue an advance after the balance check, in which case
			// the consumed total overshoots it; failing here rolls the flip
			// back rather than persisting a negative net.
			if deduction.GreaterThan(earnings) {
				return fmt.Errorf("employee %s: consumed %s exceeds earnings %s: %w",
					params.employeeID, deduction, earnings, advance.ErrConcurrentModification)
			}
		}

		payment := payroll.SalaryPayment{
			ID:               paymentID,
			EmployeeID:       params.employeeID,
			PayPeriodStart:   params.periodStart,
			PayPeriodEnd:     params.periodEnd,
			BasicAmount:      breakdown.BasicAmount,
			OvertimeAmount:   breakdown.OvertimeAmount,
			AdvanceDeduction: deduction,
			NetAmount:        earnings.Sub(deduction),
			PaymentDate:      params.paymentDate,
			PaymentMethod:    params.paymentMethod,
			Status:           payroll.PaymentStatusIssued,
			AttendanceIDs:    breakdown.AttendanceIDs,
			AdvanceIDs:       advanceIDs,
		}

		var err error
		created, err = s.paymentRepo.CreatePayment(ctx, payment)
		if err != nil {
			return fmt.Errorf("failed to create salary payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.SalaryPayment{}, err
	}

	return created, nil
}

func (s *PayrollServiceImpl) beginRun(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.inFlight[key]; exists {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *PayrollServiceImpl) endRun(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *PayrollServiceImpl) resolvePaymentDate(paymentDate *string) time.Time {
	if paymentDate != nil {
		if parsed, err := time.Parse("2006-01-02", *paymentDate); err == nil {
			return parsed
		}
	}
	return s.clock.Now().UTC().Truncate(24 * time.Hour)
}

func parsePeriod(periodStart, periodEnd string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", periodStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period_start %q: %w", periodStart, payroll.ErrInvalidPeriod)
	}
	end, err := time.Parse("2006-01-02", periodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period_end %q: %w", periodEnd, payroll.ErrInvalidPeriod)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%s after %s: %w", periodStart, periodEnd, payroll.ErrInvalidPeriod)
	}
	return start, end, nil
}

func mapPaymentToResponse(p payroll.SalaryPayment) payroll.PaymentResponse {
	return payroll.PaymentResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		PeriodStart:      p.PayPeriodStart.Format("2006-01-02"),
		PeriodEnd:        p.PayPeriodEnd.Format("2006-01-02"),
		BasicAmount:      p.BasicAmount,
		OvertimeAmount:   p.OvertimeAmount,
		AdvanceDeduction: p.AdvanceDeduction,
		NetAmount:        p.NetAmount,
		PaymentDate:      p.PaymentDate.Format("2006-01-02"),
		PaymentMethod:    string(p.PaymentMethod),
		Status:           string(p.Status),
		AttendanceIDs:    p.AttendanceIDs,
		AdvanceIDs:       p.AdvanceIDs,
	}
}
