package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/clock"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/jwt"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/keylock"
	"github.com/smj-bricks/payroll-backend-go/internal/repository/memory"
	advanceService "github.com/smj-bricks/payroll-backend-go/internal/service/advance"
	attendanceService "github.com/smj-bricks/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/smj-bricks/payroll-backend-go/internal/service/payroll"
	payslipService "github.com/smj-bricks/payroll-backend-go/internal/service/payslip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerTestNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type routerFixture struct {
	router       *chi.Mux
	employeeRepo employee.EmployeeRepository
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	attendanceRepo := memory.NewAttendanceRepository()
	advanceRepo := memory.NewAdvanceRepository()
	paymentRepo := memory.NewPaymentRepository()

	authorizer := authz.AllowAll{}
	clk := clock.Fixed(routerTestNow)

	locks := keylock.New()
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo, authorizer, clk, locks)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, authorizer)
	payrollSvc := payrollService.NewPayrollService(attendanceRepo, employeeRepo, paymentRepo, advanceSvc, authorizer, clk, memory.NewTxRunner(), locks)
	payslipSvc := payslipService.NewPayslipService(paymentRepo, attendanceRepo, employeeRepo)

	router := NewRouter(RouterDeps{
		JWTService:        jwt.NewJWTService("router-test-secret", "1h"),
		Authorizer:        authorizer,
		AttendanceHandler: NewAttendanceHandler(attendanceSvc),
		AdvanceHandler:    NewAdvanceHandler(advanceSvc),
		PayrollHandler:    NewPayrollHandler(payrollSvc),
		PayslipHandler:    NewPayslipHandler(payslipSvc),
		AuthDisabled:      true,
		Env:               "test",
	})

	return &routerFixture{router: router, employeeRepo: employeeRepo}
}

func (f *routerFixture) createEmployee(t *testing.T, dailyRate int64) employee.Employee {
	t.Helper()
	emp, err := f.employeeRepo.Create(context.Background(), employee.Employee{
		FullName:  "Rajan Pillai",
		Role:      "mason",
		DailyRate: decimal.NewFromInt(dailyRate),
		Status:    employee.StatusActive,
	})
	require.NoError(t, err)
	return emp
}

func (f *routerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestRouter_RecordAttendance(t *testing.T) {
	f := newRouterFixture(t)
	emp := f.createEmployee(t, 500)

	rec := f.do(t, http.MethodPost, "/api/v1/attendances", map[string]interface{}{
		"employee_id": emp.ID,
		"work_date":   "2025-06-02",
		"status":      "present",
		"check_in":    "09:00",
		"check_out":   "17:00",
	})

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var created struct {
		ID        string  `json:"id"`
		WorkHours float64 `json:"work_hours"`
	}
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 8.0, created.WorkHours)

	// A second mark for the same day conflicts.
	rec = f.do(t, http.MethodPost, "/api/v1/attendances", map[string]interface{}{
		"employee_id": emp.ID,
		"work_date":   "2025-06-02",
		"status":      "half_day",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_RecordAttendanceValidation(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendances", map[string]interface{}{
		"employee_id": "",
		"work_date":   "not-a-date",
		"status":      "late",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_PayAndPayslipFlow(t *testing.T) {
	f := newRouterFixture(t)
	emp := f.createEmployee(t, 500)

	for day := 2; day <= 6; day++ {
		rec := f.do(t, http.MethodPost, "/api/v1/attendances", map[string]interface{}{
			"employee_id": emp.ID,
			"work_date":   fmt.Sprintf("2025-06-%02d", day),
			"status":      "present",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/api/v1/advances", map[string]interface{}{
		"employee_id": emp.ID,
		"amount":      "800",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/employees/"+emp.ID+"/advances/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	}
	decodeData(t, rec, &balance)
	assert.True(t, decimal.NewFromInt(800).Equal(balance.OutstandingBalance))

	// Preview first.
	rec = f.do(t, http.MethodGet,
		"/api/v1/payroll/calculate?employee_id="+emp.ID+"&period_start=2025-06-02&period_end=2025-06-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var preview struct {
		BasicAmount decimal.Decimal `json:"basic_amount"`
		WorkDays    int             `json:"work_days"`
	}
	decodeData(t, rec, &preview)
	assert.True(t, decimal.NewFromInt(2500).Equal(preview.BasicAmount))
	assert.Equal(t, 5, preview.WorkDays)

	// Then commit the run with the advance deducted.
	rec = f.do(t, http.MethodPost, "/api/v1/payroll/payments", map[string]interface{}{
		"employee_id":     emp.ID,
		"period_start":    "2025-06-02",
		"period_end":      "2025-06-08",
		"payment_method":  "cash",
		"deduct_advances": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var payment struct {
		ID        string          `json:"id"`
		NetAmount decimal.Decimal `json:"net_amount"`
	}
	decodeData(t, rec, &payment)
	assert.True(t, decimal.NewFromInt(1700).Equal(payment.NetAmount), "got %s", payment.NetAmount)

	rec = f.do(t, http.MethodGet, "/api/v1/payroll/payments/"+payment.ID+"/payslip", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		EmployeeName string          `json:"employee_name"`
		NetAmount    decimal.Decimal `json:"net_amount"`
		WorkDays     int             `json:"work_days"`
	}
	decodeData(t, rec, &view)
	assert.Equal(t, "Rajan Pillai", view.EmployeeName)
	assert.True(t, decimal.NewFromInt(1700).Equal(view.NetAmount))
	assert.Equal(t, 5, view.WorkDays)

	// The balance collapsed to zero.
	rec = f.do(t, http.MethodGet, "/api/v1/employees/"+emp.ID+"/advances/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &balance)
	assert.True(t, balance.OutstandingBalance.IsZero())
}

func TestRouter_AuthAndRoleEnforcement(t *testing.T) {
	employeeRepo := memory.NewEmployeeRepository()
	attendanceRepo := memory.NewAttendanceRepository()
	advanceRepo := memory.NewAdvanceRepository()
	paymentRepo := memory.NewPaymentRepository()

	authorizer := authz.NewClaimsAuthorizer()
	clk := clock.Fixed(routerTestNow)
	jwtService := jwt.NewJWTService("router-test-secret", "1h")

	locks := keylock.New()
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo, authorizer, clk, locks)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, authorizer)
	payrollSvc := payrollService.NewPayrollService(attendanceRepo, employeeRepo, paymentRepo, advanceSvc, authorizer, clk, memory.NewTxRunner(), locks)
	payslipSvc := payslipService.NewPayslipService(paymentRepo, attendanceRepo, employeeRepo)

	router := NewRouter(RouterDeps{
		JWTService:        jwtService,
		Authorizer:        authorizer,
		AttendanceHandler: NewAttendanceHandler(attendanceSvc),
		AdvanceHandler:    NewAdvanceHandler(advanceSvc),
		PayrollHandler:    NewPayrollHandler(payrollSvc),
		PayslipHandler:    NewPayslipHandler(payslipSvc),
		Env:               "test",
	})

	emp, err := employeeRepo.Create(context.Background(), employee.Employee{
		FullName:  "Rajan Pillai",
		Role:      "mason",
		DailyRate: decimal.NewFromInt(500),
		Status:    employee.StatusActive,
	})
	require.NoError(t, err)

	mark := func(token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(map[string]interface{}{
			"employee_id": emp.ID,
			"work_date":   "2025-06-02",
			"status":      "present",
		}))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendances", &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// No token at all.
	assert.Equal(t, http.StatusUnauthorized, mark("").Code)

	// Authenticated but not a payroll role.
	workerToken, _, err := jwtService.GenerateAccessToken("user-1", "worker", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, mark(workerToken).Code)

	// A manager can record marks.
	managerToken, _, err := jwtService.GenerateAccessToken("user-2", "manager", nil)
	require.NoError(t, err)
	rec := mark(managerToken)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
}

func TestRouter_PaymentNotFound(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/payroll/payments/no-such-payment", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_BatchPartialFailure(t *testing.T) {
	f := newRouterFixture(t)
	emp := f.createEmployee(t, 400)

	rec := f.do(t, http.MethodPost, "/api/v1/attendances", map[string]interface{}{
		"employee_id": emp.ID,
		"work_date":   "2025-06-02",
		"status":      "present",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/payroll/payments/batch", map[string]interface{}{
		"entries": []map[string]interface{}{
			{"employee_id": emp.ID},
			{"employee_id": "ghost"},
		},
		"period_start":   "2025-06-02",
		"period_end":     "2025-06-08",
		"payment_method": "bank_transfer",
	})

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	var batch struct {
		Succeeded []json.RawMessage `json:"succeeded"`
		Failed    []struct {
			EmployeeID string `json:"employee_id"`
		} `json:"failed"`
	}
	decodeData(t, rec, &batch)
	assert.Len(t, batch.Succeeded, 1)
	require.Len(t, batch.Failed, 1)
	assert.Equal(t, "ghost", batch.Failed[0].EmployeeID)
}
