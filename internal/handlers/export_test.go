package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amplen/quotation-builder/internal/catalog"
	"github.com/amplen/quotation-builder/internal/history"
	"github.com/amplen/quotation-builder/internal/images"
	"github.com/amplen/quotation-builder/internal/pdf"
	"github.com/amplen/quotation-builder/internal/services"
)

func setupExportHandler(t *testing.T) *ExportHandler {
	t.Helper()
	cat, err := catalog.Parse([]byte(`{
		"sections": [{"id": "s1", "num": "01", "title": "Cleansing", "titleRu": "Очищение"}],
		"products": [{"id": 1, "sectionId": "s1", "nameRu": "Пенка", "nameEn": "Foam", "nameKr": "폼", "volume": "150ml", "pricing": {"usd": 10}}]
	}`))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	svc := services.NewExportService(cat, images.NewResolver("", time.Second), pdf.NewRenderer(""), hist, "", 1450)
	return NewExportHandler(svc)
}

func TestExportEmptyCartRejected(t *testing.T) {
	h := setupExportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"products":{}}`))
	w := httptest.NewRecorder()
	h.Export(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	// bilingual message, both scripts present
	body := w.Body.String()
	if !strings.Contains(body, "Нет выбранных товаров") || !strings.Contains(body, "선택된 제품이 없습니다") {
		t.Fatalf("expected bilingual rejection, got %s", body)
	}
}

func TestExportEmptyCartKoreanClientsGetKoreanFirst(t *testing.T) {
	h := setupExportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"products":{}}`))
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")
	w := httptest.NewRecorder()
	h.Export(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	body := w.Body.String()
	ko := strings.Index(body, "선택된 제품이 없습니다")
	ru := strings.Index(body, "Нет выбранных товаров")
	if ko < 0 || ru < 0 || ko > ru {
		t.Fatalf("expected korean variant first for ko clients, got %s", body)
	}
}

func TestExportStreamsPDF(t *testing.T) {
	h := setupExportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"products":{"1":2}}`))
	w := httptest.NewRecorder()
	h.Export(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "AMPLEN_") || !strings.Contains(cd, ".pdf") {
		t.Fatalf("unexpected disposition: %s", cd)
	}
	if doc := w.Header().Get("X-Doc-Number"); !strings.HasPrefix(doc, "KP-") {
		t.Fatalf("missing doc number header: %s", doc)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatalf("body is not a PDF")
	}
}

func TestExportInvalidBody(t *testing.T) {
	h := setupExportHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{nope`))
	w := httptest.NewRecorder()
	h.Export(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}
