package main

import (
	"net/http"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/amplen/quotation-builder/internal/cart"
	"github.com/amplen/quotation-builder/internal/catalog"
	"github.com/amplen/quotation-builder/internal/config"
	"github.com/amplen/quotation-builder/internal/handlers"
	"github.com/amplen/quotation-builder/internal/history"
	"github.com/amplen/quotation-builder/internal/images"
	"github.com/amplen/quotation-builder/internal/pdf"
	"github.com/amplen/quotation-builder/internal/services"
)

// NewApp wires the stores, services and handlers onto one ServeMux.
func NewApp(cfg config.Config, cat *catalog.Catalog, dbConn *gorm.DB) (http.Handler, error) {
	hist, err := history.Open(filepath.Join(cfg.DataDir, "history.json"))
	if err != nil {
		return nil, err
	}

	deviceCart := cart.Restore(cart.NewFileStore(filepath.Join(cfg.DataDir, "cart.json")))

	timeout := time.Duration(cfg.ProxyTimeout) * time.Second
	resolver := images.NewResolver("", timeout) // same process, no self-proxy hop
	renderer := pdf.NewRenderer(cfg.FontPath)
	exportSvc := services.NewExportService(cat, resolver, renderer, hist, cfg.ExportDir, cfg.ExchangeRate)

	quotations := handlers.NewQuotationHandler(dbConn)
	proxy := handlers.NewProxyHandler(timeout)
	historyH := handlers.NewHistoryHandler(hist)
	export := handlers.NewExportHandler(exportSvc)
	catalogH := handlers.NewCatalogHandler(cat)
	cartH := handlers.NewCartHandler(deviceCart, cat)

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/catalog", catalogH.Get)
	mux.HandleFunc("/api/cart", cartH.Handle)
	mux.HandleFunc("/api/quotations", quotations.Handle)
	mux.HandleFunc("/api/proxy-image", proxy.Image)
	mux.HandleFunc("/api/export", export.Export)
	mux.HandleFunc("/api/history", historyH.List)
	mux.HandleFunc("/api/history/", historyH.Get)

	return mux, nil
}
