package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RouterOptions carries the pieces NewRouter wires together.
type RouterOptions struct {
	Handler        *Handler
	AllowedOrigins []string
	AuthLimiter    *IPRateLimiter // nil disables auth throttling
	LiveFeed       http.Handler   // nil disables the admin websocket
	HealthChecks   map[string]HealthCheck
	Logger         *zerolog.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(opts RouterOptions) http.Handler {
	h := opts.Handler
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(opts.Logger.With().Str("component", "http").Logger()))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(LoadSession(h.auth))

	r.Get("/health", Health(opts.HealthChecks))

	r.Route("/api/auth", func(r chi.Router) {
		if opts.AuthLimiter != nil {
			r.Use(opts.AuthLimiter.Middleware)
		}
		r.Post("/signup", h.Signup)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/login", h.Login)
		r.Post("/login-after-verify", h.LoginAfterVerify)
		r.Post("/resend-otp", h.ResendOTP)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
		r.With(RequireSession).Post("/register", h.Register)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
			r.Put("/change-occupation", h.ChangeOccupation)
			r.Put("/change-password", h.ChangePassword)
		})
		r.Get("/{id}", h.GetMember)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Get("/pending", h.ListPending)
		r.Get("/users", h.ListUsers)
		r.Get("/stats", h.Stats)
		r.Get("/download-report", h.DownloadReport)
		r.Post("/approve/{id}", h.Approve)
		r.Post("/reject/{id}", h.Reject)
		r.Delete("/reject/{id}", h.Reject)
		r.Post("/toggle-sensitive-access/{id}", h.ToggleSensitiveAccess)
		if opts.LiveFeed != nil {
			r.Handle("/live", opts.LiveFeed)
		}
	})

	r.Route("/api/data", func(r chi.Router) {
		r.Get("/villages", h.Villages)
		r.Get("/cities", h.Cities)
		r.Get("/colleges", h.Colleges)
		r.Get("/college-courses", h.CollegeCourses)
		r.Get("/departments", h.Departments)
		r.Get("/sub-departments", h.SubDepartments)
		r.Get("/business-types", h.BusinessTypes)
		r.Get("/business-fields", h.BusinessFields)
		r.Get("/job-fields", h.JobFields)
		r.Get("/years", h.Years)
		r.Get("/public-stats", h.PublicStats)
	})

	return r
}
