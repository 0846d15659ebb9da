package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/akbarkhoja/portfolio-api/app/observability/metrics"
	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
)

type AuthHandler struct {
	logger  *slog.Logger
	service AuthService
	cfg     config.SessionConfig
}

func NewAuthHandler(service AuthService, cfg config.SessionConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
}

// Login handles POST /api/auth/login. On success the signed session
// token is set as an HttpOnly cookie; the body echoes the principal.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, principal, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.RecordLoginAttempt(false)
		if errors.Is(err, api.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}
	metrics.RecordLoginAttempt(true)

	http.SetCookie(w, h.sessionCookie(token, h.cfg.TTL))
	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{Success: true, User: *principal})
}

// Logout clears the session cookie. There is no server-held session
// state to revoke beyond it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -time.Second))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// Session reports the caller's current principal, or anonymous.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipal(r.Context())
	if !ok {
		api.WriteJSONResponse(w, r, http.StatusOK, SessionResponse{Authenticated: false})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, SessionResponse{Authenticated: true, User: principal})
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	} else if ttl < 0 {
		cookie.MaxAge = -1
	}
	return cookie
}
