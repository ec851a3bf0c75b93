package handler

import (
	"encoding/json"
	"net/http"

	"pdf-viewer/internal/domain"

	"github.com/gorilla/mux"
)

// HighlightHandler handles highlight-related HTTP requests.
type HighlightHandler struct {
	highlightService domain.HighlightService
	logger           domain.Logger
}

func NewHighlightHandler(highlightService domain.HighlightService, logger domain.Logger) *HighlightHandler {
	return &HighlightHandler{
		highlightService: highlightService,
		logger:           logger,
	}
}

// CreateHighlight handles POST /highlights
func (h *HighlightHandler) CreateHighlight(w http.ResponseWriter, r *http.Request) {
	var draft domain.HighlightDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.highlightService.CreateHighlight(r.Context(), &draft)
	if err != nil {
		h.logger.Error("Failed to create highlight", err, "source", draft.Source, "page", draft.Page)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListHighlights handles GET /highlights?source=...
func (h *HighlightHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	highlights, err := h.highlightService.ListHighlights(r.Context(), source)
	if err != nil {
		h.logger.Error("Failed to list highlights", err, "source", source)
		writeServiceError(w, err)
		return
	}
	if highlights == nil {
		highlights = make([]*domain.Highlight, 0)
	}
	writeJSON(w, http.StatusOK, highlights)
}

// DeleteHighlight handles DELETE /highlights/{id}
func (h *HighlightHandler) DeleteHighlight(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.highlightService.DeleteHighlight(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete highlight", err, "highlight_id", id)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
