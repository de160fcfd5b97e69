package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/config"
	"github.com/ada-inc/ada-engine/pkg/dataset"
	"github.com/ada-inc/ada-engine/pkg/middleware"
	"github.com/ada-inc/ada-engine/pkg/services"
)

// DatasetsHandler handles dataset upload, schema lookup and cleanup.
type DatasetsHandler struct {
	cfg      *config.Config
	registry services.DatasetRegistry
	logger   *zap.Logger
}

// NewDatasetsHandler creates a new DatasetsHandler.
func NewDatasetsHandler(cfg *config.Config, registry services.DatasetRegistry, logger *zap.Logger) *DatasetsHandler {
	return &DatasetsHandler{cfg: cfg, registry: registry, logger: logger}
}

// RegisterRoutes registers the dataset routes on the given mux.
func (h *DatasetsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/datasets", middleware.RequireAuth(h.Upload))
	mux.HandleFunc("GET /api/datasets/{id}/schema", middleware.RequireAuth(h.Schema))
	mux.HandleFunc("POST /api/datasets/cleanup", middleware.RequireAuth(h.Cleanup))
}

// Upload handles POST /api/datasets.
// Accepts one multipart file field named "file", persists it under the upload
// directory, loads and profiles it, and registers the dataset.
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Upload.MaxFileMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
		_ = ErrorResponse(w, http.StatusBadRequest, "unsupported_format",
			fmt.Sprintf("unsupported file format %q, expected csv, xlsx or xls", ext))
		return
	}

	path := filepath.Join(h.cfg.Upload.Dir, uuid.NewString()+"_"+name)
	if err := saveUpload(path, file); err != nil {
		h.logger.Error("Failed to persist upload", zap.String("path", path), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "storage_error", "could not store uploaded file")
		return
	}

	table, err := dataset.Load(path)
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, apperrors.ErrUnsupportedFormat) {
			_ = ErrorResponse(w, http.StatusBadRequest, "unsupported_format", err.Error())
			return
		}
		_ = ErrorResponse(w, http.StatusUnprocessableEntity, "load_error", err.Error())
		return
	}

	profile := dataset.BuildProfile(table)
	profile.Summary = dataset.Summarize(table)
	id := h.registry.Register(path, table, profile)

	_ = WriteJSON(w, http.StatusCreated, map[string]any{
		"dataset_id": id,
		"filename":   name,
		"profile":    profile,
	})
}

// Schema handles GET /api/datasets/{id}/schema.
func (h *DatasetsHandler) Schema(w http.ResponseWriter, r *http.Request) {
	entry, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "dataset_not_found", err.Error())
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"dataset_id": entry.ID,
		"created_at": entry.CreatedAt,
		"profile":    entry.Profile,
	})
}

// Cleanup handles POST /api/datasets/cleanup.
// Evicts datasets older than the configured retention and reports the count.
func (h *DatasetsHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	maxAge := time.Duration(h.cfg.Upload.KeepMinutes) * time.Minute
	deleted := h.registry.Sweep(maxAge)

	_ = WriteJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// sanitizeFilename strips directory components and characters that do not
// belong in a stored filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
