package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/middleware"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/idempotency"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/jwt"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	UploadDir      string
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
}

type Handlers struct {
	Auth       AuthHandler
	Company    CompanyHandler
	User       UserHandler
	Employee   EmployeeHandler
	Schedule   ScheduleHandler
	Attendance AttendanceHandler
	PayRun     PayRunHandler
	Payslip    PayslipHandler
	Payment    PaymentHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Content-Disposition", "Idempotency-Replayed"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	can := middleware.RequirePermission

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/companies", func(r chi.Router) {
				r.Use(can(user.PermissionCompanyManage))
				r.Get("/", h.Company.List)
				r.Post("/", h.Company.Create)
			})

			r.Route("/company/{companyId}", func(r chi.Router) {
				r.Use(middleware.CompanyScope)

				r.Get("/", h.Company.GetByID)
				r.With(can(user.PermissionCompanySettings)).Put("/", h.Company.Update)
				r.With(can(user.PermissionCompanySettings)).Post("/logo", h.Company.UploadLogo)
				r.With(can(user.PermissionCompanyManage)).Patch("/status", h.Company.SetStatus)
				r.With(can(user.PermissionCompanyManage)).Delete("/", h.Company.Delete)

				r.Route("/users", func(r chi.Router) {
					r.Use(can(user.PermissionUserManage))
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
				})

				r.Route("/employees", func(r chi.Router) {
					r.With(can(user.PermissionEmployeeView)).Get("/", h.Employee.List)
					r.With(can(user.PermissionEmployeeManage)).Post("/", h.Employee.Create)
					r.Route("/{id}", func(r chi.Router) {
						r.With(can(user.PermissionEmployeeView)).Get("/", h.Employee.GetByID)
						r.Group(func(r chi.Router) {
							r.Use(can(user.PermissionEmployeeManage))
							r.Put("/", h.Employee.Update)
							r.Patch("/status", h.Employee.SetStatus)
							r.Delete("/", h.Employee.Delete)
						})
					})
				})

				r.Route("/work-schedule", func(r chi.Router) {
					r.With(can(user.PermissionAttendanceView)).Get("/", h.Schedule.Get)
					r.With(can(user.PermissionScheduleManage)).Put("/", h.Schedule.Replace)
				})

				r.Route("/attendances", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(can(user.PermissionAttendanceView))
						r.Get("/", h.Attendance.List)
						r.Get("/{id}", h.Attendance.GetByID)
					})
					r.Group(func(r chi.Router) {
						r.Use(can(user.PermissionAttendanceManage))
						r.Post("/check-in", h.Attendance.CheckIn)
						r.Post("/check-out", h.Attendance.CheckOut)
						r.Post("/absences", h.Attendance.MarkAbsence)
						r.Post("/half-days", h.Attendance.MarkHalfDay)
						r.Patch("/{id}/validate", h.Attendance.Validate)
					})
				})

				r.Route("/payruns", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(can(user.PermissionPayRunView))
						r.Get("/", h.PayRun.List)
						r.Get("/{id}", h.PayRun.GetByID)
					})
					r.Group(func(r chi.Router) {
						r.Use(can(user.PermissionPayRunManage))
						r.Post("/", h.PayRun.Create)
						r.Delete("/{id}", h.PayRun.Delete)
						r.Patch("/{id}/approve", h.PayRun.Approve)
						r.Patch("/{id}/status", h.PayRun.UpdateStatus)
					})
				})

				r.Route("/payslips", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(can(user.PermissionPayslipView))
						r.Get("/", h.Payslip.List)
						r.Get("/{id}", h.Payslip.GetByID)
						r.Get("/{id}/download", h.Payslip.Download)
					})
					r.With(can(user.PermissionPayslipManage)).Patch("/{id}/status", h.Payslip.UpdateStatus)
					r.With(can(user.PermissionPaymentView)).Get("/{id}/payments", h.Payment.ListByPayslip)
				})

				r.Route("/payments", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(can(user.PermissionPaymentView))
						r.Get("/", h.Payment.List)
						r.Get("/stats", h.Payment.Stats)
						r.Get("/{id}", h.Payment.GetByID)
					})
					r.With(
						can(user.PermissionPaymentRecord),
						middleware.Idempotency(cfg.Idempotency, cfg.IdempotencyTTL),
					).Post("/", h.Payment.Record)
				})
			})
		})
	})
	return r
}
