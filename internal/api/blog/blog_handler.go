package blog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

type BlogHandler struct {
	logger  *slog.Logger
	service BlogService
}

func NewBlogHandler(service BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		logger:  logger,
		service: service,
	}
}

// ListPublic handles GET /api/blog.
func (h *BlogHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list published posts", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to fetch blog posts")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// ListAll handles GET /api/blog/all (admin).
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list posts", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to fetch blog posts")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// Create handles POST /api/blog (admin).
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params types.CreateBlogPostParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.service.Create(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to create post", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to create blog post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, post)
}

// GetByID handles GET /api/blog/{id} (admin).
func (h *BlogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Blog post not found")
		return
	}

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch blog post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// GetBySlug handles GET /api/blog/slug/{slug}.
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		api.ErrorResponse(w, r, http.StatusNotFound, "Blog post not found")
		return
	}

	post, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch blog post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// Update handles PUT /api/blog/{id} (admin).
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Blog post not found")
		return
	}

	var params types.UpdateBlogPostParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.service.Update(r.Context(), id, params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to update post", slog.String("post_id", id.String()), slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to update blog post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// Delete handles DELETE /api/blog/{id} (admin).
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Blog post not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to delete post", slog.String("post_id", id.String()), slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to delete blog post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Blog post deleted successfully"})
}
