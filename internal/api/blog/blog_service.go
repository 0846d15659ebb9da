package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

const publicListCacheKey = "blog:public"

var _ BlogService = (*BlogServiceImpl)(nil)

type BlogService interface {
	// ListPublic returns the capped, published-only listing for the
	// public site. Responses are cached briefly.
	ListPublic(ctx context.Context) ([]types.BlogPost, error)

	// ListAll is the admin view: every post, no cap, no cache.
	ListAll(ctx context.Context) ([]types.BlogPost, error)

	GetByID(ctx context.Context, id uuid.UUID) (*types.BlogPost, error)

	// GetBySlug resolves a published post by slug, falling back to a
	// full scan deriving slugs from titles for legacy documents whose
	// slug was never persisted.
	GetBySlug(ctx context.Context, slug string) (*types.BlogPost, error)

	// Create derives the slug from the title when none is supplied and
	// defaults published to true when unspecified.
	Create(ctx context.Context, params types.CreateBlogPostParams) (*types.BlogPost, error)

	// Update merges fields; whether the slug follows a title change is
	// the configured slug policy.
	Update(ctx context.Context, id uuid.UUID, params types.UpdateBlogPostParams) (*types.BlogPost, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// Bootstrap seeds an empty collection with sample posts and then
	// backfills slug/content/published on documents missing them.
	// Idempotent; runs at startup, never on a read path.
	Bootstrap(ctx context.Context) error
}

type BlogServiceImpl struct {
	logger *slog.Logger
	repo   BlogRepo
	cfg    config.BlogConfig
	cache  *gocache.Cache
}

func NewBlogService(repo BlogRepo, cfg config.BlogConfig, logger *slog.Logger) *BlogServiceImpl {
	return &BlogServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
		cache:  gocache.New(1*time.Minute, 5*time.Minute),
	}
}

func (s *BlogServiceImpl) ListPublic(ctx context.Context) ([]types.BlogPost, error) {
	if cached, found := s.cache.Get(publicListCacheKey); found {
		return cached.([]types.BlogPost), nil
	}

	posts, err := s.repo.ListPublic(ctx, s.cfg.PublicPageSize)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(publicListCacheKey, posts)
	return posts, nil
}

func (s *BlogServiceImpl) ListAll(ctx context.Context) ([]types.BlogPost, error) {
	return s.repo.ListAll(ctx)
}

func (s *BlogServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BlogServiceImpl) GetBySlug(ctx context.Context, slug string) (*types.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}

	// Legacy fallback: derive slugs from titles across the whole
	// collection. O(n); only reached when the stored slug misses.
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if DeriveSlug(posts[i].Title) == slug && posts[i].Published {
			return &posts[i], nil
		}
	}
	return nil, api.ErrNotFound
}

func (s *BlogServiceImpl) Create(ctx context.Context, params types.CreateBlogPostParams) (*types.BlogPost, error) {
	if params.Title == "" {
		return nil, api.ValidationError("title is required")
	}

	slug := params.Slug
	if slug == "" {
		slug = DeriveSlug(params.Title)
	}
	published := true
	if params.Published != nil {
		published = *params.Published
	}

	created, err := s.repo.Create(ctx, slug, published, params)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(publicListCacheKey)
	s.logger.InfoContext(ctx, "Blog post created", slog.String("post_id", created.ID.String()), slog.String("slug", created.Slug))
	return created, nil
}

func (s *BlogServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateBlogPostParams) (*types.BlogPost, error) {
	var slug *string
	if params.Title != nil && s.cfg.SlugPolicy == config.SlugPolicyRecompute {
		derived := DeriveSlug(*params.Title)
		slug = &derived
	}

	updated, err := s.repo.Update(ctx, id, slug, params)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(publicListCacheKey)
	return updated, nil
}

func (s *BlogServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(publicListCacheKey)
	return nil
}

func (s *BlogServiceImpl) Bootstrap(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("blog bootstrap: %w", err)
	}
	if count == 0 {
		if err := s.repo.SeedPosts(ctx, samplePosts()); err != nil {
			return fmt.Errorf("blog bootstrap: %w", err)
		}
		s.logger.InfoContext(ctx, "Seeded empty blog collection", slog.Int("posts", len(samplePosts())))
	}

	legacy, err := s.repo.MissingSlugPosts(ctx)
	if err != nil {
		return fmt.Errorf("blog bootstrap: %w", err)
	}
	for _, p := range legacy {
		content := ""
		if p.Content != nil {
			content = *p.Content
		}
		if content == "" {
			content = placeholderContent(p.Excerpt)
		}
		published := p.Published == nil || *p.Published
		if err := s.repo.BackfillPost(ctx, p.ID, DeriveSlug(p.Title), content, published); err != nil {
			return fmt.Errorf("blog bootstrap: %w", err)
		}
	}
	if len(legacy) > 0 {
		s.logger.InfoContext(ctx, "Backfilled legacy blog posts", slog.Int("posts", len(legacy)))
	}
	return nil
}

func samplePosts() []SeedPost {
	return []SeedPost{
		{
			Title:     "Building Scalable React Applications with TypeScript",
			Excerpt:   "Learn how to structure large React applications using TypeScript, focusing on maintainability and developer experience.",
			Image:     "/placeholder.svg",
			Tags:      []string{"React", "TypeScript", "Architecture"},
			CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:     "The Future of Web Development: Trends to Watch",
			Excerpt:   "Exploring emerging technologies and trends that will shape the future of web development in the coming years.",
			Image:     "/placeholder.svg",
			Tags:      []string{"Web Development", "Trends", "Future"},
			CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:     "Optimizing Performance in Next.js Applications",
			Excerpt:   "Advanced techniques for improving performance in Next.js applications, including code splitting and caching strategies.",
			Image:     "/placeholder.svg",
			Tags:      []string{"Next.js", "Performance", "Optimization"},
			CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}
}
