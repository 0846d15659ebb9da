package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

type UserHandler struct {
	logger  *slog.Logger
	service UserService
}

func NewUserHandler(service UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		logger:  logger,
		service: service,
	}
}

// List handles GET /api/users (admin only, gated in the router).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "List")
	defer span.End()

	users, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		span.RecordError(err)
		api.DomainErrorResponse(w, r, err, "Failed to fetch users")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "Create")
	defer span.End()

	var params types.CreateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(ctx, params)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		api.DomainErrorResponse(w, r, err, "Failed to create user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, created)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "Update")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		return
	}

	var params types.UpdateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(ctx, id, params)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to update user", slog.Any("error", err))
		span.RecordError(err)
		api.DomainErrorResponse(w, r, err, "User not found")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "Delete")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "Failed to delete user", slog.Any("error", err))
		span.RecordError(err)
		api.DomainErrorResponse(w, r, err, "User not found")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
