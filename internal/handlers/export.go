package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/amplen/quotation-builder/internal/httpx"
	"github.com/amplen/quotation-builder/internal/i18n"
	"github.com/amplen/quotation-builder/internal/services"
)

// ExportHandler runs the export flow over HTTP and streams the PDF back.
type ExportHandler struct {
	svc *services.ExportService
}

func NewExportHandler(svc *services.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

type exportRequest struct {
	// Cart snapshot keyed by product id; string keys to stay interchangeable
	// with the JS client's serialized cart.
	Products map[string]int `json:"products"`
}

// Export handles POST /api/export. An empty selection is rejected with the
// bilingual message before any work begins; an assembly failure surfaces the
// underlying message so the client can alert it.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") {
		return
	}
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	selection := make(map[int]int, len(req.Products))
	for k, qty := range req.Products {
		pid, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		selection[pid] = qty
	}

	result, err := h.svc.Export(r.Context(), selection)
	if err != nil {
		if errors.Is(err, services.ErrEmptySelection) {
			lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
			httpx.JSONError(w, http.StatusBadRequest, i18n.Bilingual(lang, "empty_selection"), nil)
			return
		}
		log.Error().Err(err).Msg("export failed")
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("X-Doc-Number", result.DocNumber)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	if _, err := w.Write(result.PDF); err != nil {
		_ = err
	}
}
