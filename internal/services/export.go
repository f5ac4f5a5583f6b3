package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amplen/quotation-builder/internal/catalog"
	"github.com/amplen/quotation-builder/internal/history"
	"github.com/amplen/quotation-builder/internal/images"
	"github.com/amplen/quotation-builder/internal/pdf"
	"github.com/amplen/quotation-builder/internal/quote"
)

// ErrEmptySelection rejects an export before any network or render work
// begins. Callers surface it with the bilingual user-facing message; it is a
// guard, not a failure.
var ErrEmptySelection = errors.New("export: empty selection")

// ExportResult is what a successful export produced.
type ExportResult struct {
	DocNumber string
	Filename  string
	PDF       []byte
	View      *quote.View
}

// ExportService runs the export flow end to end: freeze the view, resolve
// images, render the document, assign the number, append history, save the
// file. A mutex serializes exports; the tool is single-user but the HTTP
// surface is not, and the document-number sequence must not race.
type ExportService struct {
	mu sync.Mutex

	cat          *catalog.Catalog
	resolver     *images.Resolver
	renderer     *pdf.Renderer
	history      *history.Store
	exportDir    string
	exchangeRate float64
	now          func() time.Time
}

func NewExportService(
	cat *catalog.Catalog,
	resolver *images.Resolver,
	renderer *pdf.Renderer,
	hist *history.Store,
	exportDir string,
	exchangeRate float64,
) *ExportService {
	return &ExportService{
		cat:          cat,
		resolver:     resolver,
		renderer:     renderer,
		history:      hist,
		exportDir:    exportDir,
		exchangeRate: exchangeRate,
		now:          time.Now,
	}
}

// Export generates the quotation document for a selection. The history
// record is written exactly once, only after the document rendered; a failed
// render leaves no trace beyond the consumed sequence number.
func (s *ExportService) Export(ctx context.Context, selection map[int]int) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := quote.BuildView(selection, s.cat)
	if view.Empty() {
		return nil, ErrEmptySelection
	}

	started := s.now()
	log.Info().Int("items", view.ItemCount).Int("qty", view.GrandQty).
		Msg("export started")
	defer func() {
		// progress state is cleared on every exit path, success or not
		log.Info().Dur("elapsed", time.Since(started)).Msg("export finished")
	}()

	resolved := s.resolver.ResolveBatch(ctx, imageURLs(view), func(done, total int) {
		log.Info().Int("done", done).Int("total", total).Msg("resolving images")
	})

	docNumber, err := s.history.NextDocumentNumber()
	if err != nil {
		return nil, fmt.Errorf("assign document number: %w", err)
	}

	meta := pdf.Metadata{
		DocNumber:    docNumber,
		Date:         s.now(),
		ExchangeRate: s.exchangeRate,
	}
	data, err := s.renderer.Render(view, resolved, meta)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	rec := history.Record{
		DocNumber:       docNumber,
		CreatedAt:       meta.Date,
		TotalProducts:   view.ItemCount,
		TotalQty:        view.GrandQty,
		TotalUsd:        view.GrandTotal,
		IsFullQuotation: view.ItemCount == len(s.cat.Products),
	}
	for _, group := range view.Sections {
		rec.Items = append(rec.Items, group.Items...)
	}
	if err := s.history.Record(rec); err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}

	result := &ExportResult{
		DocNumber: docNumber,
		Filename:  pdf.Filename(docNumber, view.ItemCount, meta.Date),
		PDF:       data,
		View:      view,
	}
	if s.exportDir != "" {
		if err := s.saveFile(result.Filename, data); err != nil {
			// the caller still gets the bytes; a failed disk write is logged,
			// not fatal
			log.Error().Str("file", result.Filename).Err(err).Msg("save export file")
		}
	}
	return result, nil
}

func (s *ExportService) saveFile(name string, data []byte) error {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.exportDir, name), data, 0o644)
}

func imageURLs(view *quote.View) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, group := range view.Sections {
		for _, item := range group.Items {
			u := item.Product.Image
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}
