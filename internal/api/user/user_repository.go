package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

// uniqueViolation is the Postgres error code raised by the unique index
// on users.email.
const uniqueViolation = "23505"

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user persistence. Email uniqueness
// is enforced by the store's unique index; a duplicate insert or update
// surfaces as api.ErrConflict without partial writes.
type UserRepo interface {
	// List returns all users ordered by created_at descending.
	List(ctx context.Context) ([]types.User, error)

	// GetByID returns api.ErrNotFound when no user matches.
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)

	// Create inserts a user with an already-hashed password.
	Create(ctx context.Context, name, email, passwordHash, role string) (*types.User, error)

	// Update merges the supplied fields. A nil PasswordHash leaves the
	// stored hash untouched.
	Update(ctx context.Context, id uuid.UUID, name, email, role *string, passwordHash *string) (*types.User, error)

	// Delete returns api.ErrNotFound when no user matches.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresUserRepo(pool api.PGXPool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pool,
	}
}

func (r *PostgresUserRepo) List(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("list users: query failed: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("list users: scan failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: rows error: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var u types.User
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("get user: query failed: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var u types.User
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, password_hash, role, created_at`,
		name, email, passwordHash, role).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate email")
			return nil, api.ConflictError("User with this email already exists")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("create user: insert failed: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, id uuid.UUID, name, email, role *string, passwordHash *string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	setClauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if name != nil {
		addSet("name", *name)
	}
	if email != nil {
		addSet("email", *email)
	}
	if role != nil {
		addSet("role", *role)
	}
	if passwordHash != nil {
		addSet("password_hash", *passwordHash)
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d
		 RETURNING id, name, email, password_hash, role, created_at`,
		strings.Join(setClauses, ", "), len(args))

	var u types.User
	err := r.pgpool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, api.ConflictError("User with this email already exists")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("update user: query failed: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user: exec failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pgpool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: query failed: %w", err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
