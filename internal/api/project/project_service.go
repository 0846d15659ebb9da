package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

const listCacheKey = "projects:list"

var _ ProjectService = (*ProjectServiceImpl)(nil)

type ProjectService interface {
	List(ctx context.Context) ([]types.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Project, error)
	Create(ctx context.Context, params types.CreateProjectParams) (*types.Project, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateProjectParams) (*types.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Bootstrap seeds sample projects into an empty collection at
	// startup. Idempotent.
	Bootstrap(ctx context.Context) error
}

type ProjectServiceImpl struct {
	logger *slog.Logger
	repo   ProjectRepo
	cache  *gocache.Cache
}

func NewProjectService(repo ProjectRepo, logger *slog.Logger) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  gocache.New(1*time.Minute, 5*time.Minute),
	}
}

func (s *ProjectServiceImpl) List(ctx context.Context) ([]types.Project, error) {
	if cached, found := s.cache.Get(listCacheKey); found {
		return cached.([]types.Project), nil
	}

	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(listCacheKey, projects)
	return projects, nil
}

func (s *ProjectServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectServiceImpl) Create(ctx context.Context, params types.CreateProjectParams) (*types.Project, error) {
	if params.Title == "" {
		return nil, api.ValidationError("title is required")
	}

	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	s.logger.InfoContext(ctx, "Project created", slog.String("project_id", created.ID.String()))
	return created, nil
}

func (s *ProjectServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateProjectParams) (*types.Project, error) {
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	return updated, nil
}

func (s *ProjectServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(listCacheKey)
	return nil
}

func (s *ProjectServiceImpl) Bootstrap(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("project bootstrap: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := s.repo.SeedProjects(ctx, sampleProjects()); err != nil {
		return fmt.Errorf("project bootstrap: %w", err)
	}
	s.logger.InfoContext(ctx, "Seeded empty project collection", slog.Int("projects", len(sampleProjects())))
	return nil
}

func strPtr(s string) *string { return &s }

func sampleProjects() []types.CreateProjectParams {
	return []types.CreateProjectParams{
		{
			Title:        "E-Commerce Platform",
			Description:  "Full-stack e-commerce application with product catalog, cart and checkout flow backed by Stripe.",
			Image:        "/placeholder.svg",
			Technologies: []string{"Next.js", "TypeScript", "Stripe", "MongoDB"},
			GithubURL:    strPtr("https://github.com/akbarkhoja/ecommerce-platform"),
			LiveURL:      strPtr("https://ecommerce-demo.akbarkhoja.dev"),
			Featured:     true,
		},
		{
			Title:        "Task Management App",
			Description:  "Collaborative task board with drag-and-drop lists, real-time updates and role-based access.",
			Image:        "/placeholder.svg",
			Technologies: []string{"React", "Node.js", "Socket.io", "PostgreSQL"},
			GithubURL:    strPtr("https://github.com/akbarkhoja/task-manager"),
			Featured:     true,
		},
		{
			Title:        "Weather Dashboard",
			Description:  "Location-aware weather dashboard with hourly forecasts and historical charts.",
			Image:        "/placeholder.svg",
			Technologies: []string{"Vue.js", "Express", "Chart.js"},
			GithubURL:    strPtr("https://github.com/akbarkhoja/weather-dashboard"),
			LiveURL:      strPtr("https://weather.akbarkhoja.dev"),
			Featured:     false,
		},
	}
}
