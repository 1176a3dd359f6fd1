package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	AppEnv             string
	LogLevel           slog.Level
	AllowedOrigins     []string
	LoginRatePerMinute int
}

type Handlers struct {
	Auth      AuthHandler
	Employee  EmployeeHandler
	Leave     LeaveHandler
	Company   CompanyHandler
	Dashboard DashboardHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, db Pinger, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.AppEnv != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sirh"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/api/health", healthHandler(db))

	loginRate := cfg.LoginRatePerMinute
	if loginRate <= 0 {
		loginRate = 10
	}

	authenticated := []func(http.Handler) http.Handler{
		jwtauth.Verifier(JWTService.JWTAuth()),
		middleware.AuthRequired(JWTService),
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitByIP(rate.Every(time.Minute/time.Duration(loginRate)), loginRate)).
				Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authenticated...)
				r.Put("/change-password", h.Auth.ChangePassword)
				r.With(middleware.RequirePermission(user.PermissionEmployeeResetPassword)).
					Post("/reset-password", h.Auth.ResetPassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(authenticated...)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", h.Employee.ListEmployees)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", h.Leave.ListTypes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
					r.Post("/", h.Leave.CreateType)
					r.Put("/{id}", h.Leave.UpdateType)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/my", h.Leave.GetMyRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Put("/{id}/status", h.Leave.UpdateRequestStatus)
				// Ownership is checked by the service.
				r.Put("/{id}/cancel", h.Leave.CancelRequest)
			})

			r.Route("/leave-balances", func(r chi.Router) {
				// Self access or leave.view_all, checked by the service.
				r.Get("/employee/{employeeID}", h.Leave.GetEmployeeBalance)
				r.With(middleware.RequirePermission(user.PermissionLeaveInitBalances)).Post("/initialize", h.Leave.InitializeBalances)
				r.With(middleware.RequirePermission(user.PermissionLeaveRunAccrual)).Post("/accrue", h.Leave.AccrueMonthly)
				r.With(middleware.RequirePermission(user.PermissionLeaveBalanceReport)).Get("/report", h.Leave.BalanceReport)
			})

			r.Route("/companies/my", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionCompanyView)).Get("/", h.Company.GetMy)
				r.With(middleware.RequirePermission(user.PermissionCompanyManage)).Put("/leave-days", h.Company.UpdateLeaveDays)
			})

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/dashboard", h.Dashboard.GetDashboard)
		})
	})
	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				slog.Error("health check failed", "error", err)
				response.Error(w, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
				return
			}
		}

		response.Success(w, map[string]string{"status": "ok"})
	}
}
