package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/authz"
	"github.com/smj-bricks/payroll-backend-go/internal/handler/http/middleware"
	"github.com/smj-bricks/payroll-backend-go/internal/pkg/jwt"
)

type RouterDeps struct {
	JWTService        jwt.Service
	Authorizer        authz.Authorizer
	AttendanceHandler AttendanceHandler
	AdvanceHandler    AdvanceHandler
	PayrollHandler    PayrollHandler
	PayslipHandler    PayslipHandler

	// AuthDisabled skips token verification. Only set alongside the
	// in-memory store for local demos.
	AuthDisabled bool
	Env          string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "smj-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if !deps.AuthDisabled {
				r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))
			}

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", deps.AttendanceHandler.List)
				r.Get("/{id}", deps.AttendanceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollRole(deps.Authorizer))
					r.Post("/", deps.AttendanceHandler.Record)
					r.Put("/{id}", deps.AttendanceHandler.Amend)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollRole(deps.Authorizer))
					r.Post("/", deps.AdvanceHandler.Issue)
				})
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/advances", deps.AdvanceHandler.ListByEmployee)
				r.Get("/advances/balance", deps.AdvanceHandler.Balance)
				r.Get("/payments", deps.PayrollHandler.ListPayments)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/calculate", deps.PayrollHandler.Calculate)
				r.Get("/payments/{id}", deps.PayrollHandler.GetPayment)
				r.Get("/payments/{id}/payslip", deps.PayslipHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollRole(deps.Authorizer))
					r.Post("/payments", deps.PayrollHandler.Pay)
					r.Post("/payments/batch", deps.PayrollHandler.PayBatch)
				})
			})
		})
	})

	return r
}
