package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/middleware"
	"github.com/ada-inc/ada-engine/pkg/services"
)

// AskHandler handles natural-language questions about uploaded datasets.
type AskHandler struct {
	ask    *services.AskService
	logger *zap.Logger
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(ask *services.AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{ask: ask, logger: logger}
}

// RegisterRoutes registers the ask route on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ask", middleware.RequireAuth(h.Ask))
}

type askRequest struct {
	DatasetID string `json:"dataset_id"`
	Question  string `json:"question"`
}

// Ask handles POST /api/ask.
// Answers one question about a registered dataset with a chart, an insight
// and follow-up suggestions.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	req.DatasetID = strings.TrimSpace(req.DatasetID)
	req.Question = strings.TrimSpace(req.Question)
	if req.DatasetID == "" || req.Question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "dataset_id and question are required")
		return
	}

	result, err := h.ask.Ask(r.Context(), req.DatasetID, req.Question)
	if err != nil {
		if errors.Is(err, apperrors.ErrDatasetNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "dataset_not_found", err.Error())
			return
		}
		h.logger.Error("Failed to answer question",
			zap.String("dataset_id", req.DatasetID),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "could not answer question")
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}
