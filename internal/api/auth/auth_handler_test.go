package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

func newTestHandler(service AuthService) *AuthHandler {
	return NewAuthHandler(service, config.SessionConfig{
		CookieName: "portfolio_session",
		TTL:        0,
	}, slog.Default())
}

func findSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "portfolio_session" {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	t.Run("SuccessSetsCookie", func(t *testing.T) {
		service := new(MockAuthService)
		principal := &types.Principal{ID: "u1", Email: "admin@example.com", Name: "Admin", Role: types.RoleAdmin}
		service.On("Login", mock.Anything, "admin@example.com", "secret").Return("signed-token", principal, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"admin@example.com","password":"secret"}`))
		rec := httptest.NewRecorder()
		newTestHandler(service).Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		assert.Contains(t, rec.Body.String(), "admin@example.com")
		assert.NotContains(t, rec.Body.String(), "signed-token")

		cookie := findSessionCookie(t, rec)
		require.NotNil(t, cookie)
		assert.Equal(t, "signed-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		service.AssertExpectations(t)
	})

	t.Run("InvalidCredentialsUniform401", func(t *testing.T) {
		service := new(MockAuthService)
		service.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return("", nil, api.ErrUnauthenticated).Twice()
		handler := newTestHandler(service)

		// Unknown email and wrong password produce the same response.
		bodies := []string{
			`{"email":"nobody@example.com","password":"secret"}`,
			`{"email":"admin@example.com","password":"wrong"}`,
		}
		var responses []string
		for _, body := range bodies {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid credentials")
			assert.Nil(t, findSessionCookie(t, rec))
			responses = append(responses, rec.Body.String())
		}
		assert.Equal(t, responses[0], responses[1])
	})

	t.Run("MalformedBody", func(t *testing.T) {
		service := new(MockAuthService)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
		rec := httptest.NewRecorder()
		newTestHandler(service).Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogoutHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(new(MockAuthService)).Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := findSessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestSessionHandler(t *testing.T) {
	handler := newTestHandler(new(MockAuthService))

	t.Run("Anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("Authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		principal := &types.Principal{ID: "u1", Email: "admin@example.com", Role: types.RoleAdmin}
		req = req.WithContext(context.WithValue(req.Context(), principalKey, principal))

		rec := httptest.NewRecorder()
		handler.Session(rec, req)

		assert.Contains(t, rec.Body.String(), `"authenticated":true`)
		assert.Contains(t, rec.Body.String(), "admin@example.com")
	})
}
