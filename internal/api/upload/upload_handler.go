package upload

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
)

// UploadHandler stores raw request bodies on local disk and returns a
// public URL. The stored name is prefixed with a random token so two
// uploads of the same filename never collide.
type UploadHandler struct {
	logger *slog.Logger
	cfg    config.UploadConfig
}

func NewUploadHandler(cfg config.UploadConfig, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		logger: logger,
		cfg:    cfg,
	}
}

// Upload handles POST /api/upload?filename=... (admin).
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Filename is required")
		return
	}

	base := filepath.Base(filename)
	if base == "." || base == ".." || strings.ContainsAny(filename, "/\\") {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid filename")
		return
	}

	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to prepare upload dir", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Upload failed")
		return
	}

	stored := fmt.Sprintf("%s-%s", uuid.New().String()[:8], base)
	dst, err := os.Create(filepath.Join(h.cfg.Dir, stored))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to create upload file", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Upload failed")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r.Body); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write upload", slog.String("file", stored), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Upload failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"url":      strings.TrimSuffix(h.cfg.BaseURL, "/") + "/" + stored,
		"pathname": stored,
	})
}
