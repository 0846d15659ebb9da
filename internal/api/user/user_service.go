package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

// Hasher is the credential store's hashing side, injected so the user
// service never sees bcrypt directly.
type Hasher interface {
	HashPassword(plaintext string) (string, error)
}

var _ UserService = (*UserServiceImpl)(nil)

type UserService interface {
	// List returns all users, newest first. Password hashes never leave
	// the service layer.
	List(ctx context.Context) ([]types.User, error)

	// Create validates input, hashes the password and persists the user.
	// A duplicate email yields api.ErrConflict without mutating state.
	Create(ctx context.Context, params types.CreateUserParams) (*types.User, error)

	// Update merges supplied fields. An empty or omitted password leaves
	// the stored hash untouched.
	Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.User, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// EnsureAdmin creates the bootstrap admin user when the table is
	// empty. Idempotent; replaces the legacy out-of-band seed script.
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	hasher Hasher
}

func NewUserService(repo UserRepo, hasher Hasher, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
	}
}

func (s *UserServiceImpl) List(ctx context.Context) ([]types.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *UserServiceImpl) Create(ctx context.Context, params types.CreateUserParams) (*types.User, error) {
	if params.Name == "" || params.Email == "" || params.Password == "" {
		return nil, api.ValidationError("name, email and password are required")
	}
	role := params.Role
	if role == "" {
		role = types.RoleUser
	}
	if role != types.RoleAdmin && role != types.RoleUser {
		return nil, api.ValidationError(fmt.Sprintf("invalid role %q", role))
	}

	hash, err := s.hasher.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, params.Name, params.Email, hash, role)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User created", slog.String("user_id", created.ID.String()), slog.String("role", created.Role))

	created.Password = ""
	return created, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	if params.Role != nil && *params.Role != types.RoleAdmin && *params.Role != types.RoleUser {
		return nil, api.ValidationError(fmt.Sprintf("invalid role %q", *params.Role))
	}

	var passwordHash *string
	if params.Password != nil && *params.Password != "" {
		hash, err := s.hasher.HashPassword(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		passwordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, params.Name, params.Email, params.Role, passwordHash)
	if err != nil {
		return nil, err
	}

	updated.Password = ""
	return updated, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		s.logger.InfoContext(ctx, "Admin bootstrap skipped, no admin credentials configured")
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.Create(ctx, types.CreateUserParams{
		Name:     cfg.Name,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     types.RoleAdmin,
	})
	if err != nil {
		// A concurrent boot may have won the insert; that is fine.
		if errors.Is(err, api.ErrConflict) {
			return nil
		}
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	s.logger.InfoContext(ctx, "Admin user bootstrapped", slog.String("email", cfg.Email))
	return nil
}
