package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/clock"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/keylock"
	"github.com/smj-bricks/payroll-backend-go/internal/repository/memory"
	advanceService "github.com/smj-bricks/payroll-backend-go/internal/service/advance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type payrollFixture struct {
	svc            payroll.PayrollService
	advanceSvc     advance.AdvanceService
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	paymentRepo    payroll.PaymentRepository
	locks          *keylock.KeyedMutex
}

func newPayrollFixture(t *testing.T) *payrollFixture {
	t.Helper()
	employeeRepo := memory.NewEmployeeRepository()
	attendanceRepo := memory.NewAttendanceRepository()
	advanceRepo := memory.NewAdvanceRepository()
	paymentRepo := memory.NewPaymentRepository()
	locks := keylock.New()

	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo, authz.AllowAll{}, clock.Fixed(testNow), locks)
	svc := NewPayrollService(attendanceRepo, employeeRepo, paymentRepo, advanceSvc, authz.AllowAll{}, clock.Fixed(testNow), memory.NewTxRunner(), locks)

	return &payrollFixture{
		svc:            svc,
		advanceSvc:     advanceSvc,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		locks:          locks,
	}
}

func (f *payrollFixture) createEmployee(t *testing.T, dailyRate int64) employee.Employee {
	t.Helper()
	emp, err := f.employeeRepo.Create(context.Background(), employee.Employee{
		FullName:  "Mahesh Singh",
		Role:      "mason",
		DailyRate: decimal.NewFromInt(dailyRate),
		Status:    employee.StatusActive,
	})
	require.NoError(t, err)
	return emp
}

// seedPresentDays marks the employee present for n consecutive days starting
// June 2nd, eight hours each.
func (f *payrollFixture) seedPresentDays(t *testing.T, employeeID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.attendanceRepo.Create(context.Background(), attendance.Attendance{
			EmployeeID: employeeID,
			WorkDate:   time.Date(2025, 6, 2+i, 0, 0, 0, 0, time.UTC),
			Status:     attendance.StatusPresent,
			WorkHours:  8,
		})
		require.NoError(t, err)
	}
}

func (f *payrollFixture) issueAdvance(t *testing.T, employeeID string, amount int64) {
	t.Helper()
	_, err := f.advanceSvc.Issue(context.Background(), advance.IssueAdvanceRequest{
		EmployeeID: employeeID,
		Amount:     decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
}

func TestPay_FullPeriodNoAdvances(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)

	result, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:    emp.ID,
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2500).Equal(result.BasicAmount), "got %s", result.BasicAmount)
	assert.True(t, result.AdvanceDeduction.IsZero())
	assert.True(t, decimal.NewFromInt(2500).Equal(result.NetAmount), "got %s", result.NetAmount)
	assert.Equal(t, "issued", result.Status)
	assert.Len(t, result.AttendanceIDs, 5)
	assert.Empty(t, result.AdvanceIDs)
	// Payment date defaults to today.
	assert.Equal(t, "2025-06-15", result.PaymentDate)
}

func TestPay_DeductsOutstandingAdvances(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)
	f.issueAdvance(t, emp.ID, 800)

	result, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:     emp.ID,
		PeriodStart:    "2025-06-02",
		PeriodEnd:      "2025-06-08",
		PaymentMethod:  "bank_transfer",
		DeductAdvances: true,
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(result.AdvanceDeduction), "got %s", result.AdvanceDeduction)
	assert.True(t, decimal.NewFromInt(1700).Equal(result.NetAmount), "got %s", result.NetAmount)
	require.Len(t, result.AdvanceIDs, 1)

	// The advance is stamped with the payment that absorbed it and the
	// outstanding balance is gone.
	advances, err := f.advanceSvc.ListByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	require.Len(t, advances, 1)
	assert.Equal(t, "consumed", advances[0].Status)
	require.NotNil(t, advances[0].ConsumedByPaymentID)
	assert.Equal(t, result.ID, *advances[0].ConsumedByPaymentID)

	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestPay_AdvancesExceedingEarningsRejected(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)
	f.issueAdvance(t, emp.ID, 3000)

	_, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:     emp.ID,
		PeriodStart:    "2025-06-02",
		PeriodEnd:      "2025-06-08",
		PaymentMethod:  "cash",
		DeductAdvances: true,
	})

	assert.ErrorIs(t, err, payroll.ErrInsufficientEarnings)

	// Nothing was mutated: the advance is still pending and no payment was
	// written.
	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3000).Equal(balance))

	payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

// balanceHookAdvances reports the outstanding balance and then runs a hook,
// to interleave work with a payroll run right after its balance check.
type balanceHookAdvances struct {
	advance.AdvanceService
	hook func()
}

func (s *balanceHookAdvances) OutstandingBalance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	balance, err := s.AdvanceService.OutstandingBalance(ctx, employeeID)
	s.hook()
	return balance, err
}

func TestPay_AdvanceIssuedMidRunStaysPending(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)
	f.issueAdvance(t, emp.ID, 2000)

	// A foreman wires 1500 more to the employee while the run is between
	// its balance check and its consume. The shared employee lock makes
	// the issue wait, so the run deducts only the 2000 it checked.
	landed := make(chan struct{})
	var issueErr error
	hooked := &balanceHookAdvances{AdvanceService: f.advanceSvc}
	hooked.hook = func() {
		go func() {
			_, issueErr = f.advanceSvc.Issue(context.Background(), advance.IssueAdvanceRequest{
				EmployeeID: emp.ID,
				Amount:     decimal.NewFromInt(1500),
			})
			close(landed)
		}()
		select {
		case <-landed:
		case <-time.After(200 * time.Millisecond):
		}
	}
	svc := NewPayrollService(f.attendanceRepo, f.employeeRepo, f.paymentRepo, hooked, authz.AllowAll{}, clock.Fixed(testNow), memory.NewTxRunner(), f.locks)

	result, err := svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:     emp.ID,
		PeriodStart:    "2025-06-02",
		PeriodEnd:      "2025-06-08",
		PaymentMethod:  "cash",
		DeductAdvances: true,
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2000).Equal(result.AdvanceDeduction), "got %s", result.AdvanceDeduction)
	assert.True(t, decimal.NewFromInt(500).Equal(result.NetAmount), "got %s", result.NetAmount)
	assert.False(t, result.NetAmount.IsNegative())

	<-landed
	require.NoError(t, issueErr)

	// The late advance survives as pending for the next run.
	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(balance), "got %s", balance)
}

// overshootingAdvances consumes pending advances and then reports a larger
// total, the way a second instance issuing after the balance check would.
type overshootingAdvances struct {
	advance.AdvanceService
	extra decimal.Decimal
}

func (s *overshootingAdvances) Consume(ctx context.Context, employeeID, paymentID string) (decimal.Decimal, []string, error) {
	total, ids, err := s.AdvanceService.Consume(ctx, employeeID, paymentID)
	if err != nil {
		return total, ids, err
	}
	return total.Add(s.extra), ids, nil
}

func TestPay_ConsumedTotalExceedingEarningsRejected(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)
	f.issueAdvance(t, emp.ID, 800)

	wrapped := &overshootingAdvances{AdvanceService: f.advanceSvc, extra: decimal.NewFromInt(5000)}
	svc := NewPayrollService(f.attendanceRepo, f.employeeRepo, f.paymentRepo, wrapped, authz.AllowAll{}, clock.Fixed(testNow), memory.NewTxRunner(), f.locks)

	_, err := svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:     emp.ID,
		PeriodStart:    "2025-06-02",
		PeriodEnd:      "2025-06-08",
		PaymentMethod:  "cash",
		DeductAdvances: true,
	})

	assert.ErrorIs(t, err, advance.ErrConcurrentModification)

	// No payment ever reaches the ledger with a negative net.
	payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPay_AdvancesLeftAloneWhenNotDeducting(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)
	f.issueAdvance(t, emp.ID, 800)

	result, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:    emp.ID,
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.True(t, result.AdvanceDeduction.IsZero())
	assert.True(t, decimal.NewFromInt(2500).Equal(result.NetAmount))

	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(balance))
}

func TestPay_InvalidPeriodFormat(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)

	_, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:    emp.ID,
		PeriodStart:   "June 2nd",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	assert.Error(t, err)
}

func TestCalculate_PreviewDoesNotMutate(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 3)
	f.issueAdvance(t, emp.ID, 400)

	for i := 0; i < 3; i++ {
		result, err := f.svc.Calculate(context.Background(), emp.ID, "2025-06-02", "2025-06-08")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1500).Equal(result.BasicAmount))
		assert.Equal(t, 3, result.WorkDays)
	}

	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(balance))

	payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestCalculate_InvalidPeriod(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)

	_, err := f.svc.Calculate(context.Background(), emp.ID, "2025-6-2", "2025-06-08")

	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestPayBatch_PartialSuccess(t *testing.T) {
	f := newPayrollFixture(t)
	empA := f.createEmployee(t, 500)
	empB := f.createEmployee(t, 400)
	empC := f.createEmployee(t, 500)
	f.seedPresentDays(t, empA.ID, 5)
	f.seedPresentDays(t, empB.ID, 4)
	f.seedPresentDays(t, empC.ID, 5)
	// empC owes more than the period earns; that entry must fail alone.
	f.issueAdvance(t, empC.ID, 3000)

	result, err := f.svc.PayBatch(context.Background(), payroll.PayBatchRequest{
		Entries: []payroll.BatchEntry{
			{EmployeeID: empA.ID},
			{EmployeeID: empB.ID},
			{EmployeeID: empC.ID, DeductAdvances: true},
			{EmployeeID: "no-such-employee"},
		},
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 2)

	failedByID := map[string]string{}
	for _, failure := range result.Failed {
		failedByID[failure.EmployeeID] = failure.Reason
	}
	assert.Contains(t, failedByID[empC.ID], payroll.ErrInsufficientEarnings.Error())
	assert.NotEmpty(t, failedByID["no-such-employee"])

	// Each successful entry produced a real payment; the failed ones none.
	for _, emp := range []employee.Employee{empA, empB} {
		payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), emp.ID)
		require.NoError(t, err)
		assert.Len(t, payments, 1)
	}
	payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), empC.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	// empC's advance survived its failed entry untouched.
	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), empC.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3000).Equal(balance))
}

func TestPayBatch_BasicAmountOverrideSkipsCalculator(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)

	override := decimal.NewFromInt(1200)
	result, err := f.svc.PayBatch(context.Background(), payroll.PayBatchRequest{
		Entries: []payroll.BatchEntry{
			{EmployeeID: emp.ID, BasicAmountOverride: &override},
		},
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "upi",
	})

	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	payment := result.Succeeded[0]
	assert.True(t, override.Equal(payment.BasicAmount), "got %s", payment.BasicAmount)
	assert.True(t, payment.OvertimeAmount.IsZero())
	// The manual figure consumes no attendance rows.
	assert.Empty(t, payment.AttendanceIDs)
}

func TestPayBatch_NegativeOverrideFailsEntry(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)

	override := decimal.NewFromInt(-100)
	result, err := f.svc.PayBatch(context.Background(), payroll.PayBatchRequest{
		Entries: []payroll.BatchEntry{
			{EmployeeID: emp.ID, BasicAmountOverride: &override},
		},
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, payroll.ErrInvalidAmount.Error())
}

func TestPayBatch_ManyEmployeesAllPaidOnce(t *testing.T) {
	f := newPayrollFixture(t)

	entries := make([]payroll.BatchEntry, 0, 12)
	ids := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		emp, err := f.employeeRepo.Create(context.Background(), employee.Employee{
			FullName:  fmt.Sprintf("Worker %02d", i),
			Role:      "helper",
			DailyRate: decimal.NewFromInt(400),
			Status:    employee.StatusActive,
		})
		require.NoError(t, err)
		f.seedPresentDays(t, emp.ID, 3)
		entries = append(entries, payroll.BatchEntry{EmployeeID: emp.ID})
		ids = append(ids, emp.ID)
	}

	result, err := f.svc.PayBatch(context.Background(), payroll.PayBatchRequest{
		Entries:       entries,
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 12)
	assert.Empty(t, result.Failed)

	for _, id := range ids {
		payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.True(t, decimal.NewFromInt(1200).Equal(payments[0].NetAmount))
	}
}

func TestPayBatch_DuplicateEntryConsumesAdvancesOnce(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)
	f.issueAdvance(t, emp.ID, 800)

	// The same employee twice in one batch races against itself. Whether the
	// second entry collides with the first or runs after it, the advance may
	// only be consumed once.
	result, err := f.svc.PayBatch(context.Background(), payroll.PayBatchRequest{
		Entries: []payroll.BatchEntry{
			{EmployeeID: emp.ID, DeductAdvances: true},
			{EmployeeID: emp.ID, DeductAdvances: true},
		},
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result.Succeeded), 1)

	payments, err := f.paymentRepo.ListPaymentsByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	totalDeducted := decimal.Zero
	for _, payment := range payments {
		totalDeducted = totalDeducted.Add(payment.AdvanceDeduction)
	}
	assert.True(t, decimal.NewFromInt(800).Equal(totalDeducted), "got %s", totalDeducted)

	balance, err := f.advanceSvc.OutstandingBalance(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestPay_SecondRequestWhileFirstInFlight(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 5)

	svc := f.svc.(*PayrollServiceImpl)
	runKey := fmt.Sprintf("%s|2025-06-02|2025-06-08", emp.ID)
	require.True(t, svc.beginRun(runKey))
	defer svc.endRun(runKey)

	_, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:    emp.ID,
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})

	assert.ErrorIs(t, err, payroll.ErrPaymentInProgress)
}

func TestGetPayment_RoundTrip(t *testing.T) {
	f := newPayrollFixture(t)
	emp := f.createEmployee(t, 500)
	f.seedPresentDays(t, emp.ID, 2)

	created, err := f.svc.Pay(context.Background(), payroll.PayRequest{
		EmployeeID:    emp.ID,
		PeriodStart:   "2025-06-02",
		PeriodEnd:     "2025-06-08",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	fetched, err := f.svc.GetPayment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, created.NetAmount.Equal(fetched.NetAmount))
	assert.Equal(t, created.AttendanceIDs, fetched.AttendanceIDs)
}

func TestGetPayment_NotFound(t *testing.T) {
	f := newPayrollFixture(t)

	_, err := f.svc.GetPayment(context.Background(), "no-such-payment")

	assert.ErrorIs(t, err, payroll.ErrPaymentNotFound)
}
