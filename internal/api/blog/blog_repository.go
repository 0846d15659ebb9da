package blog

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

const postColumns = `id, title, slug, content, excerpt, image, tags, published,
	author_name, author_image, created_at, updated_at`

var _ BlogRepo = (*PostgresBlogRepo)(nil)

// BlogRepo owns blog_post persistence and the document-shape
// translation: nullable legacy columns (slug, content, published) are
// resolved before a post leaves this package boundary.
type BlogRepo interface {
	// ListPublic returns up to limit published posts, newest first.
	// A post whose published flag was never set counts as published.
	ListPublic(ctx context.Context, limit int) ([]types.BlogPost, error)

	// ListAll returns every post regardless of published state.
	ListAll(ctx context.Context) ([]types.BlogPost, error)

	// GetByID returns api.ErrNotFound when no post matches.
	GetByID(ctx context.Context, id uuid.UUID) (*types.BlogPost, error)

	// GetBySlug looks up a published post by its stored slug only; the
	// derived-slug fallback for legacy documents lives in the service.
	GetBySlug(ctx context.Context, slug string) (*types.BlogPost, error)

	Create(ctx context.Context, slug string, published bool, params types.CreateBlogPostParams) (*types.BlogPost, error)

	// Update merges supplied fields and re-stamps updated_at. slug is
	// written only when non-nil (policy decided by the service).
	Update(ctx context.Context, id uuid.UUID, slug *string, params types.UpdateBlogPostParams) (*types.BlogPost, error)

	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int, error)

	// SeedPosts inserts sample documents; only used by the startup
	// bootstrap when the table is empty.
	SeedPosts(ctx context.Context, posts []SeedPost) error

	// MissingSlugPosts lists documents whose slug was never persisted.
	MissingSlugPosts(ctx context.Context) ([]LegacyPost, error)

	// BackfillPost persists the resolved slug/content/published for a
	// legacy document. Idempotent per document.
	BackfillPost(ctx context.Context, id uuid.UUID, slug, content string, published bool) error
}

// SeedPost is a sample document for first-run seeding. Slug, content and
// published are left unset on purpose so the backfill pass exercises the
// same path legacy documents take.
type SeedPost struct {
	Title     string
	Excerpt   string
	Image     string
	Tags      []string
	CreatedAt time.Time
}

// LegacyPost is the projection the backfill pass works on.
type LegacyPost struct {
	ID        uuid.UUID
	Title     string
	Excerpt   string
	Content   *string
	Published *bool
}

type PostgresBlogRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresBlogRepo(pool api.PGXPool, logger *slog.Logger) *PostgresBlogRepo {
	return &PostgresBlogRepo{
		logger: logger,
		pgpool: pool,
	}
}

// scanPost resolves a stored row into the outward post shape: a missing
// slug derives from the title, a missing published flag reads as true,
// and missing content falls back to the excerpt.
func scanPost(row pgx.Row) (*types.BlogPost, error) {
	var (
		p           types.BlogPost
		slug        *string
		content     *string
		published   *bool
		authorName  *string
		authorImage *string
	)
	err := row.Scan(&p.ID, &p.Title, &slug, &content, &p.Excerpt, &p.Image, &p.Tags,
		&published, &authorName, &authorImage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if slug != nil && *slug != "" {
		p.Slug = *slug
	} else {
		p.Slug = DeriveSlug(p.Title)
	}
	if content != nil && *content != "" {
		p.Content = *content
	} else {
		p.Content = placeholderContent(p.Excerpt)
	}
	p.Published = published == nil || *published
	if authorName != nil {
		p.Author = &types.PostAuthor{Name: *authorName, Image: authorImage}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// placeholderContent mirrors the legacy store's behavior for documents
// that only ever had an excerpt.
func placeholderContent(excerpt string) string {
	return fmt.Sprintf("<p>%s</p><p>This is a sample blog post content. The full content would be stored in the database.</p>", excerpt)
}

func (r *PostgresBlogRepo) collectPosts(rows pgx.Rows) ([]types.BlogPost, error) {
	defer rows.Close()
	posts := make([]types.BlogPost, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func (r *PostgresBlogRepo) ListPublic(ctx context.Context, limit int) ([]types.BlogPost, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "ListPublic", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM blog_posts
		 WHERE published IS DISTINCT FROM FALSE
		 ORDER BY created_at DESC
		 LIMIT $1`, postColumns), limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("list public posts: query failed: %w", err)
	}
	return r.collectPosts(rows)
}

func (r *PostgresBlogRepo) ListAll(ctx context.Context) ([]types.BlogPost, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "ListAll", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM blog_posts ORDER BY created_at DESC`, postColumns))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("list all posts: query failed: %w", err)
	}
	return r.collectPosts(rows)
}

func (r *PostgresBlogRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.BlogPost, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	p, err := scanPost(r.pgpool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM blog_posts WHERE id = $1`, postColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("get post: query failed: %w", err)
	}
	return p, nil
}

func (r *PostgresBlogRepo) GetBySlug(ctx context.Context, slug string) (*types.BlogPost, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "GetBySlug", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	p, err := scanPost(r.pgpool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM blog_posts
		 WHERE slug = $1 AND published IS DISTINCT FROM FALSE`, postColumns), slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("get post by slug: query failed: %w", err)
	}
	return p, nil
}

func (r *PostgresBlogRepo) Create(ctx context.Context, slug string, published bool, params types.CreateBlogPostParams) (*types.BlogPost, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	var authorName, authorImage *string
	if params.Author != nil {
		authorName = &params.Author.Name
		authorImage = params.Author.Image
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	p, err := scanPost(r.pgpool.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO blog_posts (title, slug, content, excerpt, image, tags, published, author_name, author_image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		 RETURNING %s`, postColumns),
		params.Title, slug, params.Content, params.Excerpt, params.Image, tags,
		published, authorName, authorImage, now))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create post: insert failed: %w", err)
	}
	return p, nil
}

func (r *PostgresBlogRepo) Update(ctx context.Context, id uuid.UUID, slug *string, params types.UpdateBlogPostParams) (*types.BlogPost, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	setClauses := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Title != nil {
		addSet("title", *params.Title)
	}
	if slug != nil {
		addSet("slug", *slug)
	}
	if params.Content != nil {
		addSet("content", *params.Content)
	}
	if params.Excerpt != nil {
		addSet("excerpt", *params.Excerpt)
	}
	if params.Image != nil {
		addSet("image", *params.Image)
	}
	if params.Tags != nil {
		addSet("tags", *params.Tags)
	}
	if params.Published != nil {
		addSet("published", *params.Published)
	}
	if params.Author != nil {
		addSet("author_name", params.Author.Name)
		addSet("author_image", params.Author.Image)
	}
	addSet("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE blog_posts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), postColumns)

	p, err := scanPost(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("update post: query failed: %w", err)
	}
	return p, nil
}

func (r *PostgresBlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "blog_posts"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM blog_posts WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete post: exec failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (r *PostgresBlogRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pgpool.QueryRow(ctx, "SELECT COUNT(*) FROM blog_posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: query failed: %w", err)
	}
	return count, nil
}

func (r *PostgresBlogRepo) SeedPosts(ctx context.Context, posts []SeedPost) error {
	for _, p := range posts {
		_, err := r.pgpool.Exec(ctx,
			`INSERT INTO blog_posts (title, excerpt, image, tags, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5)`,
			p.Title, p.Excerpt, p.Image, p.Tags, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("seed posts: insert failed: %w", err)
		}
	}
	return nil
}

func (r *PostgresBlogRepo) MissingSlugPosts(ctx context.Context) ([]LegacyPost, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, title, excerpt, content, published FROM blog_posts
		 WHERE slug IS NULL OR slug = ''`)
	if err != nil {
		return nil, fmt.Errorf("missing slug posts: query failed: %w", err)
	}
	defer rows.Close()

	posts := make([]LegacyPost, 0)
	for rows.Next() {
		var p LegacyPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.Published); err != nil {
			return nil, fmt.Errorf("missing slug posts: scan failed: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("missing slug posts: rows error: %w", err)
	}
	return posts, nil
}

func (r *PostgresBlogRepo) BackfillPost(ctx context.Context, id uuid.UUID, slug, content string, published bool) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE blog_posts SET slug = $1, content = $2, published = $3 WHERE id = $4`,
		slug, content, published, id)
	if err != nil {
		return fmt.Errorf("backfill post: exec failed: %w", err)
	}
	return nil
}
