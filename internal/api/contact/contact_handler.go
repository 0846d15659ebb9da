package contact

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

type ContactHandler struct {
	logger  *slog.Logger
	service ContactService
}

func NewContactHandler(service ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		logger:  logger,
		service: service,
	}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form types.ContactForm
	if err := api.DecodeJSONBody(w, r, &form); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Submit(r.Context(), form); err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to send email")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"message":   "Email sent successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
