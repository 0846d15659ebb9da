package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

const projectColumns = `id, title, description, image, technologies, github_url, live_url, featured, created_at, updated_at`

var _ ProjectRepo = (*PostgresProjectRepo)(nil)

type ProjectRepo interface {
	List(ctx context.Context) ([]types.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Project, error)
	Create(ctx context.Context, params types.CreateProjectParams) (*types.Project, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateProjectParams) (*types.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	SeedProjects(ctx context.Context, projects []types.CreateProjectParams) error
}

type PostgresProjectRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresProjectRepo(pool api.PGXPool, logger *slog.Logger) *PostgresProjectRepo {
	return &PostgresProjectRepo{
		logger: logger,
		pgpool: pool,
	}
}

func scanProject(row pgx.Row) (*types.Project, error) {
	var p types.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, &p.Technologies,
		&p.GithubURL, &p.LiveURL, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p, nil
}

func (r *PostgresProjectRepo) List(ctx context.Context) ([]types.Project, error) {
	ctx, span := otel.Tracer("ProjectRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("list projects: query failed: %w", err)
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("list projects: scan failed: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list projects: rows error: %w", err)
	}
	span.SetAttributes(attribute.Int("db.rows", len(projects)))
	return projects, nil
}

func (r *PostgresProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	ctx, span := otel.Tracer("ProjectRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("project.id", id.String()),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "project not found")
			return nil, api.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *PostgresProjectRepo) Create(ctx context.Context, params types.CreateProjectParams) (*types.Project, error) {
	ctx, span := otel.Tracer("ProjectRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	technologies := params.Technologies
	if technologies == nil {
		technologies = []string{}
	}

	row := r.pgpool.QueryRow(ctx,
		`INSERT INTO projects (title, description, image, technologies, github_url, live_url, featured)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+projectColumns,
		params.Title, params.Description, params.Image, technologies,
		params.GithubURL, params.LiveURL, params.Featured)
	p, err := scanProject(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, fmt.Errorf("create project: %w", err)
	}
	span.SetAttributes(attribute.String("project.id", p.ID.String()))
	return p, nil
}

func (r *PostgresProjectRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdateProjectParams) (*types.Project, error) {
	ctx, span := otel.Tracer("ProjectRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("project.id", id.String()),
	))
	defer span.End()

	var sets []string
	var args []interface{}
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Title != nil {
		addSet("title", *params.Title)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.Image != nil {
		addSet("image", *params.Image)
	}
	if params.Technologies != nil {
		addSet("technologies", *params.Technologies)
	}
	if params.GithubURL != nil {
		addSet("github_url", *params.GithubURL)
	}
	if params.LiveURL != nil {
		addSet("live_url", *params.LiveURL)
	}
	if params.Featured != nil {
		addSet("featured", *params.Featured)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	addSet("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), projectColumns)

	p, err := scanProject(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (r *PostgresProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("ProjectRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("project.id", id.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (r *PostgresProjectRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pgpool.QueryRow(ctx, `SELECT count(*) FROM projects`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

func (r *PostgresProjectRepo) SeedProjects(ctx context.Context, projects []types.CreateProjectParams) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("seed projects: begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range projects {
		technologies := p.Technologies
		if technologies == nil {
			technologies = []string{}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO projects (title, description, image, technologies, github_url, live_url, featured)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.Title, p.Description, p.Image, technologies, p.GithubURL, p.LiveURL, p.Featured)
		if err != nil {
			return fmt.Errorf("seed projects: insert failed: %w", err)
		}
	}
	return tx.Commit(ctx)
}
