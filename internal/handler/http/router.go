package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	Dashboard  DashboardHandler
	Live       LiveHandler
}

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(JWTService jwt.Service, h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	throttle := middleware.RateLimitByUser(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/register", h.Auth.Register)
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/login", h.Auth.Login)
		})

		// EventSource clients authenticate with a stream token in the query string
		r.With(middleware.StreamAuth(JWTService), middleware.RequireManager).Get("/attendance/live", h.Live.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/auth/stream-token", h.Auth.StreamToken)

			r.Route("/attendance", func(r chi.Router) {
				r.With(throttle).Post("/checkin", h.Attendance.CheckIn)
				r.With(throttle).Post("/checkout", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my-history", h.Attendance.MyHistory)
				r.Get("/my-summary", h.Attendance.MySummary)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/all", h.Attendance.All)
					r.Get("/employee/{id}", h.Attendance.Employee)
					r.Get("/summary", h.Attendance.TeamSummary)
					r.Get("/today-status", h.Attendance.TodayStatus)
					r.Get("/employees", h.Attendance.Employees)
					r.Get("/export", h.Report.Export)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/employee", h.Dashboard.Employee)
				r.With(middleware.RequireManager).Get("/manager", h.Dashboard.Manager)
			})
		})
	})

	return r
}
