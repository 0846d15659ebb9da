package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *types.Principal, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*types.Principal), args.Error(2)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*types.Principal, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Principal), args.Error(1)
}

func (m *MockAuthService) HashPassword(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func TestAuthenticate(t *testing.T) {
	logger := slog.Default()
	const cookieName = "portfolio_session"

	echoPrincipal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := GetPrincipal(r.Context()); ok {
			w.Write([]byte(p.Email))
			return
		}
		w.Write([]byte("anonymous"))
	})

	t.Run("NoCookieProceedsAnonymously", func(t *testing.T) {
		service := new(MockAuthService)
		handler := Authenticate(service, cookieName, logger)(echoPrincipal)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blog", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
		service.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
	})

	t.Run("InvalidTokenProceedsAnonymously", func(t *testing.T) {
		service := new(MockAuthService)
		service.On("ValidateToken", mock.Anything, "bad-token").Return(nil, api.ErrUnauthenticated).Once()
		handler := Authenticate(service, cookieName, logger)(echoPrincipal)

		req := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: "bad-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
		service.AssertExpectations(t)
	})

	t.Run("ValidTokenAttachesPrincipal", func(t *testing.T) {
		service := new(MockAuthService)
		principal := &types.Principal{ID: "u1", Email: "admin@example.com", Role: types.RoleAdmin}
		service.On("ValidateToken", mock.Anything, "good-token").Return(principal, nil).Once()
		handler := Authenticate(service, cookieName, logger)(echoPrincipal)

		req := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: "good-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "admin@example.com", rec.Body.String())
		service.AssertExpectations(t)
	})
}

func TestRequireAdmin(t *testing.T) {
	logger := slog.Default()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("admin area"))
	})
	handler := RequireAdmin(logger)(next)

	withPrincipal := func(req *http.Request, p *types.Principal) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), principalKey, p))
	}

	t.Run("AnonymousDenied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blog/all", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unauthorized")
	})

	t.Run("NonAdminDenied", func(t *testing.T) {
		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/blog/all", nil),
			&types.Principal{ID: "u2", Email: "user@example.com", Role: types.RoleUser})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/blog/all", nil),
			&types.Principal{ID: "u1", Email: "admin@example.com", Role: types.RoleAdmin})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin area", rec.Body.String())
	})
}
