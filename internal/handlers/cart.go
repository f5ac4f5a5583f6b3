package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/amplen/quotation-builder/internal/cart"
	"github.com/amplen/quotation-builder/internal/catalog"
	"github.com/amplen/quotation-builder/internal/httpx"
	"github.com/amplen/quotation-builder/internal/validation"
)

// CartHandler restores and persists the device cart snapshot and applies
// incremental cart operations.
type CartHandler struct {
	cart *cart.Cart
	cat  *catalog.Catalog
}

func NewCartHandler(c *cart.Cart, cat *catalog.Catalog) *CartHandler {
	return &CartHandler{cart: c, cat: cat}
}

type cartOpRequest struct {
	Op        string `json:"op"`
	ProductID int    `json:"productId"`
	SectionID string `json:"sectionId"`
	Qty       int    `json:"qty"`
	Delta     int    `json:"delta"`
}

// Handle serves GET (restore), PUT (replace) and PATCH (apply one operation)
// on /api/cart.
func (h *CartHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET, PUT, PATCH") {
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.respond(w)
	case http.MethodPut:
		var raw map[string]int
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		items := make(map[int]int, len(raw))
		for k, qty := range raw {
			pid, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			items[pid] = qty
		}
		h.cart.Replace(items)
		h.respond(w)
	case http.MethodPatch:
		h.apply(w, r)
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// apply executes one cart operation: set, add, add_section, add_all, reset.
// The add operations default to a delta of one, matching a single click on
// the corresponding control.
func (h *CartHandler) apply(w http.ResponseWriter, r *http.Request) {
	var req cartOpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	delta := req.Delta
	if delta == 0 {
		delta = 1
	}

	v := make(validation.Violations)
	switch req.Op {
	case "set":
		validation.PositiveInt("productId", req.ProductID, v)
		validation.RangeInt("qty", req.Qty, cart.MinQty, cart.MaxQty, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_operation", v)
			return
		}
		h.cart.SetQty(req.ProductID, req.Qty)
		h.respondQty(w, req.ProductID)
		return
	case "add":
		validation.PositiveInt("productId", req.ProductID, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_operation", v)
			return
		}
		h.cart.Add(req.ProductID, delta)
		h.respondQty(w, req.ProductID)
		return
	case "add_section":
		validation.Required("sectionId", req.SectionID, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_operation", v)
			return
		}
		h.cart.AddSection(h.cat, req.SectionID, delta)
	case "add_all":
		h.cart.AddAll(h.cat, delta)
	case "reset":
		h.cart.Reset()
	default:
		httpx.JSONError(w, http.StatusBadRequest, "unknown_operation", nil)
		return
	}
	h.respond(w)
}

func (h *CartHandler) respond(w http.ResponseWriter) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    stringKeys(h.cart.Items()),
		"count":   h.cart.Len(),
	})
}

// respondQty adds the resulting quantity of the touched product so the
// client can update a single input without diffing the snapshot.
func (h *CartHandler) respondQty(w http.ResponseWriter, productID int) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    stringKeys(h.cart.Items()),
		"count":   h.cart.Len(),
		"qty":     h.cart.Qty(productID),
	})
}

func stringKeys(items map[int]int) map[string]int {
	out := make(map[string]int, len(items))
	for pid, qty := range items {
		out[strconv.Itoa(pid)] = qty
	}
	return out
}
