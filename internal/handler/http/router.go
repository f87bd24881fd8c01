package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/middleware"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Handlers struct {
	TimeEntry    TimeEntryHandler
	PayCode      PayCodeHandler
	Payroll      PayrollHandler
	Leave        LeaveHandler
	Notification NotificationHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource authenticates with a short-lived token and must not time out
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/time", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeClock))
					r.Post("/clock-in", h.TimeEntry.ClockIn)
					r.Post("/clock-out", h.TimeEntry.ClockOut)
					r.Get("/status", h.TimeEntry.Status)
					r.Get("/entries", h.TimeEntry.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeApprove))
					r.Get("/approvals", h.TimeEntry.PendingApprovals)
					r.Post("/entries/{id}/approve", h.TimeEntry.Approve)
					r.Post("/entries/{id}/reject", h.TimeEntry.Reject)
				})
			})

			r.Route("/pay-codes", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayCodeView))
					r.Get("/", h.PayCode.List)
					r.Get("/absence", h.PayCode.ListAbsence)
					r.Get("/{id}", h.PayCode.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayCodeManage))
					r.Post("/", h.PayCode.Create)
					r.Put("/{id}", h.PayCode.Update)
					r.Delete("/{id}", h.PayCode.Delete)
					r.Post("/{id}/toggle", h.PayCode.Toggle)
				})
			})

			r.Route("/pay-rules", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayRuleManage))
				r.Get("/", h.Payroll.ListRules)
				r.Post("/", h.Payroll.CreateRule)
				r.Post("/reorder", h.Payroll.ReorderRules)
				r.Post("/validate", h.Payroll.ValidateRule)
				r.Post("/test", h.Payroll.TestRules)
				r.Get("/{id}", h.Payroll.GetRule)
				r.Put("/{id}", h.Payroll.UpdateRule)
				r.Delete("/{id}", h.Payroll.DeleteRule)
				r.Post("/{id}/toggle", h.Payroll.ToggleRule)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollCalculate)).
					Post("/calculate", h.Payroll.Calculate)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayCalcView))
					r.Get("/calculations", h.Payroll.ListCalculations)
					r.Get("/calculations/{id}", h.Payroll.GetCalculation)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/applications", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApply))
						r.Get("/", h.Leave.ListMine)
						r.Post("/", h.Leave.Apply)
						r.Get("/{id}", h.Leave.GetApplication)
						r.Post("/{id}/cancel", h.Leave.Cancel)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Get("/team", h.Leave.ListTeam)
						r.Post("/{id}/approve", h.Leave.Approve)
						r.Post("/{id}/reject", h.Leave.Reject)
					})
				})

				r.Route("/types", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApply))
						r.Get("/", h.Leave.ListTypes)
						r.Get("/{id}", h.Leave.GetType)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
						r.Post("/", h.Leave.CreateType)
						r.Put("/{id}", h.Leave.UpdateType)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveApply)).
						Get("/my", h.Leave.MyBalances)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveManageBalances))
						r.Get("/", h.Leave.ListBalances)
						r.Put("/{id}", h.Leave.AdjustBalance)
					})
				})

				r.With(middleware.RequirePermission(user.PermissionLeaveRunAccrual)).
					Post("/accrual/run", h.Leave.RunAccrual)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionNotificationView))
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
			})
		})
	})

	return r
}
