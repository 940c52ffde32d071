package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/smj-bricks/payroll-backend-go/internal/config"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/attendance"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/smj-bricks/payroll-backend-go/internal/handler/http"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/clock"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/database"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/jwt"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/keylock"
	"github.com/smj-bricks/payroll-backend-go/internal/repository/memory"
	"github.com/smj-bricks/payroll-backend-go/internal/repository/postgresql"
	advanceService "github.com/smj-bricks/payroll-backend-go/internal/service/advance"
	attendanceService "github.com/smj-bricks/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/smj-bricks/payroll-backend-go/internal/service/payroll"
	payslipService "github.com/smj-bricks/payroll-backend-go/internal/service/payslip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var (
		employeeRepo   employee.EmployeeRepository
		attendanceRepo attendance.AttendanceRepository
		advanceRepo    advance.AdvanceRepository
		paymentRepo    payroll.PaymentRepository
		txRunner       payroll.TxRunner
		authorizer     authz.Authorizer
	)

	switch cfg.Store.Type {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			fmt.Println("Error connecting to database:", err)
			return
		}
		if err := database.Migrate(context.Background(), db, "migrations"); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}

		employeeRepo = postgresql.NewEmployeeRepository(db)
		attendanceRepo = postgresql.NewAttendanceRepository(db)
		advanceRepo = postgresql.NewAdvanceRepository(db)
		paymentRepo = postgresql.NewPaymentRepository(db)
		txRunner = postgresql.NewTxRunner(db)
		authorizer = authz.NewClaimsAuthorizer()
	case "memory":
		employeeRepo = memory.NewEmployeeRepository()
		attendanceRepo = memory.NewAttendanceRepository()
		advanceRepo = memory.NewAdvanceRepository()
		paymentRepo = memory.NewPaymentRepository()
		txRunner = memory.NewTxRunner()
		authorizer = authz.AllowAll{}
	default:
		log.Fatal("Unsupported store type: ", cfg.Store.Type)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	clk := clock.System()
	employeeLocks := keylock.New()

	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo, authorizer, clk, employeeLocks)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, authorizer)
	payrollSvc := payrollService.NewPayrollService(attendanceRepo, employeeRepo, paymentRepo, advanceSvc, authorizer, clk, txRunner, employeeLocks)
	payslipSvc := payslipService.NewPayslipService(paymentRepo, attendanceRepo, employeeRepo)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:        JWTService,
		Authorizer:        authorizer,
		AttendanceHandler: appHTTP.NewAttendanceHandler(attendanceSvc),
		AdvanceHandler:    appHTTP.NewAdvanceHandler(advanceSvc),
		PayrollHandler:    appHTTP.NewPayrollHandler(payrollSvc),
		PayslipHandler:    appHTTP.NewPayslipHandler(payslipSvc),
		AuthDisabled:      cfg.Store.Type == "memory",
		Env:               cfg.App.Env,
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
