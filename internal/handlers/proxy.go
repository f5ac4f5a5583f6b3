package handlers

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amplen/quotation-builder/internal/httpx"
)

// ProxyHandler relays upstream product images so the browser client can
// fetch hosts that block cross-origin or hotlinked requests.
type ProxyHandler struct {
	client *http.Client
}

func NewProxyHandler(timeout time.Duration) *ProxyHandler {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ProxyHandler{client: &http.Client{Timeout: timeout}}
}

// Image handles GET /api/proxy-image?url=<encoded absolute URL>. Upstream
// bytes are streamed back with the upstream content type, a long cache
// directive and open CORS.
func (h *ProxyHandler) Image(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") {
		return
	}
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	raw := r.URL.Query().Get("url")
	if raw == "" {
		httpx.JSONError(w, http.StatusBadRequest, "url parameter required", nil)
		return
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, decoded, nil)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid url", nil)
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AMPLEN-Quotation/1.0)")

	resp, err := h.client.Do(req)
	if err != nil {
		log.Warn().Str("url", decoded).Err(err).Msg("proxy fetch failed")
		httpx.JSONError(w, http.StatusInternalServerError, "failed to proxy image", nil)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpx.JSONError(w, resp.StatusCode, "upstream error", nil)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, s-maxage=86400")
	if _, err := io.Copy(w, resp.Body); err != nil {
		// client went away mid-stream; nothing to do
		_ = err
	}
}
