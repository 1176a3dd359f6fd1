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

	"github.com/cmlabs-hris/sirh-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/sirh-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/sirh-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/sirh-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/sirh-backend-go/internal/service/bootstrap"
	serviceCompany "github.com/cmlabs-hris/sirh-backend-go/internal/service/company"
	dashboardService "github.com/cmlabs-hris/sirh-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/sirh-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/service/leave"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "sirh"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		slog.Info("database schema applied")
	}

	var locker cron.Locker
	if cfg.Redis.Addr != "" {
		rdb, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		locker = cron.NewRedisLocker(rdb, "sirh:")
	} else {
		slog.Warn("REDIS_ADDR not set, cron jobs run without a cross-replica lock")
	}

	transactor := postgresql.NewTransactor(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	loc := cfg.Leave.Timezone
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	ledgerService := leave.NewLedgerService(transactor, leaveBalanceRepo, employeeRepo, cfg.Leave.DefaultMonthlyAccrual, loc)
	requestService := leave.NewRequestService(transactor, leaveRequestRepo, leaveTypeRepo, ledgerService)
	leaveTypeService := leave.NewLeaveTypeService(leaveTypeRepo)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, leaveBalanceRepo, loc)
	authService := serviceAuth.NewAuthService(employeeRepo, JWTService)
	companyService := serviceCompany.NewCompanyService(companyRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, loc)

	bootstrapService := bootstrap.NewService(
		transactor,
		companyRepo,
		leaveTypeRepo,
		employeeRepo,
		employeeSvc,
		ledgerService,
		cfg.Bootstrap,
		loc,
	)
	if _, err := bootstrapService.Run(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppEnv:             cfg.App.Env,
			LogLevel:           cfg.SlogLevel(),
			AllowedOrigins:     cfg.CORS.AllowedOrigins,
			LoginRatePerMinute: cfg.Leave.LoginRatePerMinute,
		},
		JWTService,
		db,
		appHTTP.Handlers{
			Auth:      appHTTP.NewAuthHandler(authService),
			Employee:  appHTTP.NewEmployeeHandler(employeeSvc),
			Leave:     appHTTP.NewLeaveHandler(leaveTypeService, requestService, ledgerService, loc),
			Company:   appHTTP.NewCompanyHandler(companyService),
			Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		},
	)

	scheduler := cron.NewScheduler(locker)
	cron.NewLeaveJobs(ledgerService, loc).RegisterJobs(scheduler, cfg.Leave.AccrualCheckInterval)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gCtx.Done()
		scheduler.Stop()
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
