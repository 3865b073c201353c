package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

// Handler serves the JSON API on top of the core services.
type Handler struct {
	auth      AuthService
	reg       RegistrationService
	directory DirectoryService
	admin     AdminService
	reference ReferenceService

	cookieSecure bool
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewHandler(
	auth AuthService,
	reg RegistrationService,
	directory DirectoryService,
	admin AdminService,
	reference ReferenceService,
	cookieSecure bool,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		auth:         auth,
		reg:          reg,
		directory:    directory,
		admin:        admin,
		reference:    reference,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// queryInt returns the integer query value or zero when absent or malformed.
func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func queryInt64(r *http.Request, key string) int64 {
	n, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return n
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Health answers 503 when any dependency probe fails.
func Health(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				hlog.FromRequest(r).Warn().Err(err).Str("check", name).Msg("Health check failed")
				results[name] = "down"
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}
		writeJSON(w, code, envelope{"status": status, "checks": results})
	}
}
