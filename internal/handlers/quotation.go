package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/amplen/quotation-builder/internal/httpx"
	"github.com/amplen/quotation-builder/internal/models"
	"github.com/amplen/quotation-builder/internal/validation"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type QuotationHandler struct {
	db *gorm.DB
}

func NewQuotationHandler(db *gorm.DB) *QuotationHandler {
	return &QuotationHandler{db: db}
}

type saveQuotationRequest struct {
	DocNumber       string          `json:"doc_number"`
	CustomerCompany string          `json:"customer_company"`
	CustomerName    string          `json:"customer_name"`
	CustomerContact string          `json:"customer_contact"`
	CustomerNotes   string          `json:"customer_notes"`
	Products        json.RawMessage `json:"products"`
	TotalQty        int             `json:"total_qty"`
	TotalUsd        float64         `json:"total_usd"`
}

// Save handles POST /api/quotations: 400 when required fields are missing,
// 409 when the document number already exists, opaque 500 otherwise.
func (h *QuotationHandler) Save(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") {
		return
	}
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req saveQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := make(validation.Violations)
	validation.Required("doc_number", req.DocNumber, v)
	if len(req.Products) == 0 || string(req.Products) == "null" {
		v["products"] = "required"
	}
	validation.NonNegativeFloat("total_usd", req.TotalUsd, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "missing_required_fields", v)
		return
	}

	q := models.Quotation{
		DocNumber:       req.DocNumber,
		CustomerCompany: req.CustomerCompany,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		CustomerNotes:   req.CustomerNotes,
		Products:        string(req.Products),
		TotalQty:        req.TotalQty,
		TotalUsd:        req.TotalUsd,
		IPAddress:       clientIP(r),
	}
	if err := h.db.Create(&q).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "doc_number_exists", nil)
			return
		}
		log.Error().Err(err).Msg("save quotation")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"id":         q.ID,
			"doc_number": q.DocNumber,
			"created_at": q.CreatedAt,
		},
	})
}

// Handle dispatches GET /api/quotations: ?id= returns the full detail,
// otherwise a paginated summary list, newest first.
func (h *QuotationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Save(w, r)
	default:
		if httpx.CORS(w, r, "GET") {
			return
		}
		if r.Method != http.MethodGet {
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		if r.URL.Query().Get("id") != "" {
			h.get(w, r)
			return
		}
		h.list(w, r)
	}
}

func (h *QuotationHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}

	var q models.Quotation
	if err := h.db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "quotation_not_found", nil)
			return
		}
		log.Error().Err(err).Int("id", id).Msg("get quotation")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"id":               q.ID,
			"doc_number":       q.DocNumber,
			"customer_company": q.CustomerCompany,
			"customer_name":    q.CustomerName,
			"customer_contact": q.CustomerContact,
			"customer_notes":   q.CustomerNotes,
			"products":         q.ProductsJSON(),
			"total_qty":        q.TotalQty,
			"total_usd":        q.TotalUsd,
			"created_at":       q.CreatedAt,
		},
	})
}

func (h *QuotationHandler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := (page - 1) * limit

	var total int64
	if err := h.db.Model(&models.Quotation{}).Count(&total).Error; err != nil {
		log.Error().Err(err).Msg("count quotations")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	var rows []models.Quotation
	if err := h.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		log.Error().Err(err).Msg("list quotations")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	summaries := make([]models.QuotationSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].Summary())
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    summaries,
		"pagination": map[string]any{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// sqlite: "UNIQUE constraint failed", postgres: "duplicate key value
	// violates unique constraint"
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return fwd
	}
	return r.RemoteAddr
}
