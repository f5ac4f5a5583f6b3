package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestProxyImageRelaysUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("pngbytes"))
	}))
	defer upstream.Close()

	h := NewProxyHandler(2 * time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/proxy-image?url="+url.QueryEscape(upstream.URL+"/img.png"), nil)
	w := httptest.NewRecorder()
	h.Image(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type not relayed: %s", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=86400, s-maxage=86400" {
		t.Fatalf("unexpected cache control: %s", cc)
	}
	if ao := w.Header().Get("Access-Control-Allow-Origin"); ao != "*" {
		t.Fatalf("missing CORS header")
	}
	if w.Body.String() != "pngbytes" {
		t.Fatalf("body not relayed: %q", w.Body.String())
	}
}

func TestProxyImageMissingURL(t *testing.T) {
	h := NewProxyHandler(time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/proxy-image", nil)
	w := httptest.NewRecorder()
	h.Image(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestProxyImageUpstreamErrorPropagated(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer upstream.Close()

	h := NewProxyHandler(time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/proxy-image?url="+url.QueryEscape(upstream.URL), nil)
	w := httptest.NewRecorder()
	h.Image(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected upstream 404 propagated, got %d", w.Code)
	}
}
