package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

// bcryptCost matches the cost the legacy store hashed with, so existing
// hashes keep verifying and new ones carry equivalent work.
const bcryptCost = 12

// dummyHash is compared against when the email has no user, so the
// not-found path costs the same as a wrong password. Both outcomes
// surface uniformly as invalid credentials.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the session/identity provider: it authenticates a
// credential pair and mints/validates the signed session token.
type AuthService interface {
	// Login authenticates email+password and returns a signed session
	// token plus the principal it carries.
	// Returns api.ErrUnauthenticated on any credential failure.
	Login(ctx context.Context, email, password string) (string, *types.Principal, error)

	// ValidateToken verifies a session token's signature and expiry and
	// extracts the principal. Any failure yields api.ErrUnauthenticated.
	ValidateToken(ctx context.Context, tokenString string) (*types.Principal, error)

	// HashPassword produces a one-way salted digest of plaintext.
	HashPassword(plaintext string) (string, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	cfg    config.SessionConfig
}

func NewAuthService(repo AuthRepo, cfg config.SessionConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *types.Principal, error) {
	l := s.logger.With(slog.String("method", "Login"))

	if email == "" || password == "" {
		return "", nil, api.ErrUnauthenticated
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			// Burn the same bcrypt cost as the found path.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			l.WarnContext(ctx, "Login rejected", slog.String("reason", "unknown email"))
			return "", nil, api.ErrUnauthenticated
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.WarnContext(ctx, "Login rejected", slog.String("reason", "password mismatch"))
		return "", nil, api.ErrUnauthenticated
	}

	principal := &types.Principal{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}

	token, err := s.issueToken(principal)
	if err != nil {
		return "", nil, fmt.Errorf("login: failed to sign session token: %w", err)
	}

	l.InfoContext(ctx, "Login successful", slog.String("user_id", principal.ID), slog.String("role", principal.Role))
	return token, principal, nil
}

func (s *AuthServiceImpl) issueToken(principal *types.Principal) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  principal.Name,
		Email: principal.Email,
		Role:  principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  principal.ID,
			Issuer:   s.cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *AuthServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*types.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, api.ErrUnauthenticated
	}
	if s.cfg.Issuer != "" && claims.Issuer != s.cfg.Issuer {
		return nil, api.ErrUnauthenticated
	}

	return &types.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

func (s *AuthServiceImpl) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
