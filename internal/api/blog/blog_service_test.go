package blog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

// MockBlogRepo is a mock implementation of the BlogRepo interface
type MockBlogRepo struct {
	mock.Mock
}

func (m *MockBlogRepo) ListPublic(ctx context.Context, limit int) ([]types.BlogPost, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) ListAll(ctx context.Context) ([]types.BlogPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) GetBySlug(ctx context.Context, slug string) (*types.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) Create(ctx context.Context, slug string, published bool, params types.CreateBlogPostParams) (*types.BlogPost, error) {
	args := m.Called(ctx, slug, published, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) Update(ctx context.Context, id uuid.UUID, slug *string, params types.UpdateBlogPostParams) (*types.BlogPost, error) {
	args := m.Called(ctx, id, slug, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBlogRepo) SeedPosts(ctx context.Context, posts []SeedPost) error {
	args := m.Called(ctx, posts)
	return args.Error(0)
}

func (m *MockBlogRepo) MissingSlugPosts(ctx context.Context) ([]LegacyPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LegacyPost), args.Error(1)
}

func (m *MockBlogRepo) BackfillPost(ctx context.Context, id uuid.UUID, slug, content string, published bool) error {
	args := m.Called(ctx, id, slug, content, published)
	return args.Error(0)
}

func testBlogConfig(policy string) config.BlogConfig {
	return config.BlogConfig{PublicPageSize: 9, SlugPolicy: policy}
}

func TestCreatePost(t *testing.T) {
	logger := slog.Default()

	t.Run("SlugDerivedFromTitle", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		params := types.CreateBlogPostParams{Title: "Hello World!!", Content: "<p>hi</p>"}
		created := &types.BlogPost{ID: uuid.New(), Title: params.Title, Slug: "hello-world", Published: true}
		mockRepo.On("Create", ctx, "hello-world", true, params).Return(created, nil).Once()

		post, err := service.Create(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, "hello-world", post.Slug)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ExplicitSlugWins", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		params := types.CreateBlogPostParams{Title: "Hello World", Slug: "custom-slug"}
		created := &types.BlogPost{ID: uuid.New(), Title: params.Title, Slug: "custom-slug", Published: true}
		mockRepo.On("Create", ctx, "custom-slug", true, params).Return(created, nil).Once()

		_, err := service.Create(ctx, params)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ExplicitDraft", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		draft := false
		params := types.CreateBlogPostParams{Title: "Draft Post", Published: &draft}
		created := &types.BlogPost{ID: uuid.New(), Title: params.Title, Slug: "draft-post", Published: false}
		mockRepo.On("Create", ctx, "draft-post", false, params).Return(created, nil).Once()

		post, err := service.Create(ctx, params)
		require.NoError(t, err)
		assert.False(t, post.Published)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)

		_, err := service.Create(context.Background(), types.CreateBlogPostParams{Content: "<p>hi</p>"})
		assert.ErrorIs(t, err, api.ErrValidation)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdatePostSlugPolicy(t *testing.T) {
	logger := slog.Default()
	id := uuid.New()
	newTitle := "Renamed Post"

	t.Run("RecomputeFollowsTitle", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		expectedSlug := "renamed-post"
		params := types.UpdateBlogPostParams{Title: &newTitle}
		updated := &types.BlogPost{ID: id, Title: newTitle, Slug: expectedSlug, Published: true}
		mockRepo.On("Update", ctx, id, &expectedSlug, params).Return(updated, nil).Once()

		post, err := service.Update(ctx, id, params)
		require.NoError(t, err)
		assert.Equal(t, expectedSlug, post.Slug)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StableKeepsSlug", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyStable), logger)
		ctx := context.Background()

		params := types.UpdateBlogPostParams{Title: &newTitle}
		updated := &types.BlogPost{ID: id, Title: newTitle, Slug: "original-slug", Published: true}
		mockRepo.On("Update", ctx, id, (*string)(nil), params).Return(updated, nil).Once()

		post, err := service.Update(ctx, id, params)
		require.NoError(t, err)
		assert.Equal(t, "original-slug", post.Slug)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NoTitleChangeNoSlugWrite", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		content := "<p>updated</p>"
		params := types.UpdateBlogPostParams{Content: &content}
		updated := &types.BlogPost{ID: id, Title: "Original", Slug: "original", Published: true}
		mockRepo.On("Update", ctx, id, (*string)(nil), params).Return(updated, nil).Once()

		_, err := service.Update(ctx, id, params)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestGetBySlugLegacyFallback(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("StoredSlugHit", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)

		post := &types.BlogPost{ID: uuid.New(), Title: "Hello World", Slug: "hello-world", Published: true}
		mockRepo.On("GetBySlug", ctx, "hello-world").Return(post, nil).Once()

		got, err := service.GetBySlug(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		mockRepo.AssertNotCalled(t, "ListAll", mock.Anything)
	})

	t.Run("DerivedSlugFallback", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)

		legacy := types.BlogPost{ID: uuid.New(), Title: "Hello World", Slug: "", Published: true}
		mockRepo.On("GetBySlug", ctx, "hello-world").Return(nil, api.ErrNotFound).Once()
		mockRepo.On("ListAll", ctx).Return([]types.BlogPost{
			{ID: uuid.New(), Title: "Other Post", Slug: "other-post", Published: true},
			legacy,
		}, nil).Once()

		got, err := service.GetBySlug(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, legacy.ID, got.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnpublishedNeverServed", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)

		mockRepo.On("GetBySlug", ctx, "hidden-draft").Return(nil, api.ErrNotFound).Once()
		mockRepo.On("ListAll", ctx).Return([]types.BlogPost{
			{ID: uuid.New(), Title: "Hidden Draft", Slug: "", Published: false},
		}, nil).Once()

		_, err := service.GetBySlug(ctx, "hidden-draft")
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}

func TestListPublicCaching(t *testing.T) {
	mockRepo := new(MockBlogRepo)
	service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), slog.Default())
	ctx := context.Background()

	posts := []types.BlogPost{{ID: uuid.New(), Title: "Hello", Slug: "hello", Published: true}}
	mockRepo.On("ListPublic", ctx, 9).Return(posts, nil).Once()

	first, err := service.ListPublic(ctx)
	require.NoError(t, err)

	// Second call is served from cache; the repo sees one query.
	second, err := service.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	mockRepo.AssertExpectations(t)
}

func TestBootstrap(t *testing.T) {
	logger := slog.Default()

	t.Run("SeedsAndBackfillsEmptyCollection", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		seeded := uuid.New()
		mockRepo.On("Count", ctx).Return(0, nil).Once()
		mockRepo.On("SeedPosts", ctx, mock.AnythingOfType("[]blog.SeedPost")).Return(nil).Once()
		mockRepo.On("MissingSlugPosts", ctx).Return([]LegacyPost{
			{ID: seeded, Title: "Building Scalable React Applications with TypeScript", Excerpt: "Learn how to structure large React applications."},
		}, nil).Once()
		mockRepo.On("BackfillPost", ctx, seeded,
			"building-scalable-react-applications-with-typescript",
			mock.AnythingOfType("string"), true).Return(nil).Once()

		require.NoError(t, service.Bootstrap(ctx))
		mockRepo.AssertExpectations(t)
	})

	t.Run("PopulatedCollectionOnlyBackfills", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		mockRepo.On("Count", ctx).Return(12, nil).Once()
		mockRepo.On("MissingSlugPosts", ctx).Return([]LegacyPost{}, nil).Once()

		require.NoError(t, service.Bootstrap(ctx))
		mockRepo.AssertNotCalled(t, "SeedPosts", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "BackfillPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ExistingContentPreserved", func(t *testing.T) {
		mockRepo := new(MockBlogRepo)
		service := NewBlogService(mockRepo, testBlogConfig(config.SlugPolicyRecompute), logger)
		ctx := context.Background()

		id := uuid.New()
		content := "<p>hand-written content</p>"
		published := false
		mockRepo.On("Count", ctx).Return(5, nil).Once()
		mockRepo.On("MissingSlugPosts", ctx).Return([]LegacyPost{
			{ID: id, Title: "Kept Draft", Content: &content, Published: &published},
		}, nil).Once()
		mockRepo.On("BackfillPost", ctx, id, "kept-draft", content, false).Return(nil).Once()

		require.NoError(t, service.Bootstrap(ctx))
		mockRepo.AssertExpectations(t)
	})
}
