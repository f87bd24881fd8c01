package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/qhamayedwa/altron-wfm-backend/internal/config"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	appHTTP "github.com/qhamayedwa/altron-wfm-backend/internal/handler/http"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/cron"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/database"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/jwt"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/sse"
	"github.com/qhamayedwa/altron-wfm-backend/internal/repository/postgresql"
	leaveService "github.com/qhamayedwa/altron-wfm-backend/internal/service/leave"
	notificationService "github.com/qhamayedwa/altron-wfm-backend/internal/service/notification"
	payCodeService "github.com/qhamayedwa/altron-wfm-backend/internal/service/paycode"
	payrollService "github.com/qhamayedwa/altron-wfm-backend/internal/service/payroll"
	timeEntryService "github.com/qhamayedwa/altron-wfm-backend/internal/service/timeentry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return err
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "altron-wfm"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	payCodeRepo := postgresql.NewPayCodeRepository(db)
	payRuleRepo := postgresql.NewPayRuleRepository(db)
	payCalcRepo := postgresql.NewPayCalculationRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveAppRepo := postgresql.NewLeaveApplicationRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}

	hub := sse.NewHub[notification.NotificationResponse](0)
	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
	})
	defer notifSvc.Stop()

	timeEntrySvc := timeEntryService.NewTimeEntryService(timeEntryRepo, employeeRepo, notifSvc)
	payCodeSvc := payCodeService.NewPayCodeService(payCodeRepo, timeEntryRepo)
	engine := payrollService.NewEngine(cfg.Payroll.Location)
	payrollSvc := payrollService.NewPayrollService(transactor, payRuleRepo, payCalcRepo, timeEntryRepo, employeeRepo, notifSvc, engine)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveTypeRepo, leaveBalanceRepo, leaveAppRepo, employeeRepo, notifSvc, cfg.Payroll.Location)

	scheduler := cron.NewScheduler()
	cron.NewLeaveJobs(leaveSvc, cfg.Leave.AccrualInterval).RegisterJobs(scheduler)
	// Accrual is idempotent per calendar month, so catching up at boot is safe
	if err := scheduler.RunOnce(ctx); err != nil {
		slog.Error("Startup cron run failed", "error", err)
	}
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		TimeEntry:    appHTTP.NewTimeEntryHandler(timeEntrySvc),
		PayCode:      appHTTP.NewPayCodeHandler(payCodeSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "payroll_timezone", cfg.Payroll.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
