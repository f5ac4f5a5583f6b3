package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amplen/quotation-builder/internal/history"
	"github.com/amplen/quotation-builder/internal/httpx"
)

// HistoryHandler exposes the local export history log.
type HistoryHandler struct {
	store *history.Store
}

func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/history, most recent first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") {
		return
	}
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    h.store.List(),
	})
}

// Get handles GET /api/history/{docNumber}.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") {
		return
	}
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	docNumber := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if docNumber == "" {
		httpx.JSONError(w, http.StatusBadRequest, "doc_number required", nil)
		return
	}
	rec, err := h.store.ByDocNumber(docNumber)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "record_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    rec,
	})
}
