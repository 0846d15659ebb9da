package project

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

type ProjectHandler struct {
	logger  *slog.Logger
	service ProjectService
}

func NewProjectHandler(service ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		logger:  logger,
		service: service,
	}
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list projects", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to fetch projects")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, projects)
}

// GetByID handles GET /api/projects/{id} (admin).
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Project not found")
		return
	}

	project, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch project")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, project)
}

// Create handles POST /api/projects (admin).
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params types.CreateProjectParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.service.Create(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to create project", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to create project")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, project)
}

// Update handles PUT /api/projects/{id} (admin).
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Project not found")
		return
	}

	var params types.UpdateProjectParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.service.Update(r.Context(), id, params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to update project", slog.String("project_id", id.String()), slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to update project")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, project)
}

// Delete handles DELETE /api/projects/{id} (admin).
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Project not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to delete project", slog.String("project_id", id.String()), slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to delete project")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
