package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/httplog/v3"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/config"
	appHTTP "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/cron"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/idempotency"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/jwt"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/storage"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/repository/postgresql"
	attendanceService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/attendance"
	serviceAuth "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/auth"
	serviceCompany "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/company"
	employeeService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/employee"
	paymentService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/payment"
	payRunService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/payrun"
	payslipService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/payslip"
	scheduleService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/schedule"
	userService "github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/user"
)

const idempotencyKeyPrefix = "gsme:idempotency:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db, postgresql.TxOptions{
		MaxWait:    cfg.Database.TxMaxWait,
		Timeout:    cfg.Database.TxTimeout,
		MaxRetries: cfg.Database.TxMaxRetries,
	})

	companyRepo := postgresql.NewCompanyRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payRunRepo := postgresql.NewPayRunRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	scheduler := cron.NewScheduler()
	idempotencyStore, closeStore, err := newIdempotencyStore(ctx, cfg.Redis, scheduler)
	if err != nil {
		return err
	}
	defer closeStore()

	authSvc := serviceAuth.NewAuthService(userRepo, companyRepo, JWTService)
	userSvc := userService.NewUserService(userRepo, companyRepo)
	companySvc := serviceCompany.NewCompanyService(txManager, companyRepo, workScheduleRepo, employeeRepo, fileStorage)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, companyRepo)
	scheduleSvc := scheduleService.NewWorkScheduleService(txManager, workScheduleRepo, companyRepo)
	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, employeeRepo, workScheduleRepo, attendanceService.Rules{
		LateThreshold:  cfg.Attendance.LateThreshold,
		LunchThreshold: cfg.Attendance.LunchThreshold,
		LunchBreak:     cfg.Attendance.LunchBreak,
		HalfDayCutoff:  cfg.Attendance.HalfDayCutoff,
	})
	calculator := payRunService.NewCalculator(payRunService.Rules{
		TaxRate:         cfg.Payroll.TaxRate,
		SocialRate:      cfg.Payroll.SocialRate,
		HonorariumHours: cfg.Payroll.HonorariumHours,
	})
	payRunSvc := payRunService.NewPayRunService(
		txManager,
		payRunRepo,
		payslipRepo,
		employeeRepo,
		companyRepo,
		workScheduleRepo,
		attendanceRepo,
		calculator,
		cfg.Payroll.HonorariumFromAttendance,
	)
	payslipSvc := payslipService.NewPayslipService(txManager, payslipRepo, companyRepo)
	paymentSvc := paymentService.NewPaymentService(txManager, paymentRepo, payslipRepo)

	if cfg.Bootstrap.SuperAdminEmail != "" && cfg.Bootstrap.SuperAdminPassword != "" {
		admin, created, err := userSvc.EnsureSuperAdmin(ctx, cfg.Bootstrap.SuperAdminEmail, cfg.Bootstrap.SuperAdminPassword)
		if err != nil {
			return fmt.Errorf("failed to bootstrap super admin: %w", err)
		}
		if created {
			slog.Info("Super admin created", "email", admin.Email)
		}
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UploadDir:      cfg.Storage.BasePath,
		Idempotency:    idempotencyStore,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Company:    appHTTP.NewCompanyHandler(companySvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		PayRun:     appHTTP.NewPayRunHandler(payRunSvc),
		Payslip:    appHTTP.NewPayslipHandler(payslipSvc),
		Payment:    appHTTP.NewPaymentHandler(paymentSvc),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// newIdempotencyStore prefers Redis so keys survive restarts and are shared
// across replicas. The in-memory fallback is swept by the scheduler.
func newIdempotencyStore(ctx context.Context, cfg config.RedisConfig, scheduler *cron.Scheduler) (idempotency.Store, func(), error) {
	if cfg.Addr == "" {
		store := idempotency.NewMemoryStore()
		cron.NewIdempotencyJobs(store, cfg.IdempotencyTTL/24).RegisterJobs(scheduler)
		slog.Info("Idempotency keys kept in memory")
		return store, func() {}, nil
	}

	client, err := idempotency.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Idempotency keys kept in redis", "addr", cfg.Addr)
	return idempotency.NewRedisStore(client, idempotencyKeyPrefix), func() { _ = client.Close() }, nil
}

func newLogger(app config.AppConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(app.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gestion-salaires"),
		slog.String("env", app.Env),
	)
}
