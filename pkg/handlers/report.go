package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/middleware"
	"github.com/ada-inc/ada-engine/pkg/services"
)

// ReportHandler serves downloadable HTML analysis reports.
type ReportHandler struct {
	registry services.DatasetRegistry
	reports  *services.ReportBuilder
	logger   *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(registry services.DatasetRegistry, reports *services.ReportBuilder, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{registry: registry, reports: reports, logger: logger}
}

// RegisterRoutes registers the report route on the given mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/datasets/{id}/report", middleware.RequireAuth(h.Download))
}

// Download handles GET /api/datasets/{id}/report.
// Streams the rendered report as an attachment.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	entry, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusNotFound, "dataset_not_found", err.Error())
		return
	}

	html, err := h.reports.Build(entry)
	if err != nil {
		h.logger.Error("Failed to render report",
			zap.String("dataset_id", entry.ID),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "report_error", "could not render report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.reports.Filename(entry.ID)))
	_, _ = w.Write(html)
}
