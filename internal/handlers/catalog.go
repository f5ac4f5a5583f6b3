package handlers

import (
	"net/http"

	"github.com/amplen/quotation-builder/internal/catalog"
	"github.com/amplen/quotation-builder/internal/httpx"
)

// CatalogHandler serves the loaded catalog to the JS client.
type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") {
		return
	}
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, h.cat)
}
