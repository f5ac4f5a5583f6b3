package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// thumbSize is the square canvas every resolved bitmap is fitted into.
	thumbSize   = 240
	jpegQuality = 85
	// batchSize bounds concurrent fetches so a large quotation does not
	// overwhelm the host network stack.
	batchSize = 6
	// maxBody guards against an upstream streaming something absurd.
	maxBody = 10 << 20
)

// Resolver turns product image URLs into embeddable square JPEG bitmaps.
// Resolution is best-effort: strategies are tried in order, each under its
// own timeout, and a failing URL degrades to a deterministic placeholder
// instead of an error.
type Resolver struct {
	client   *http.Client
	proxyURL string // base of the same-origin proxy endpoint, "" disables
	timeout  time.Duration

	cache sync.Map // url -> []byte, already-resolved bitmaps this session

	placeholderOnce sync.Once
	placeholder     []byte
}

func NewResolver(proxyURL string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Resolver{
		client:   &http.Client{Timeout: timeout},
		proxyURL: proxyURL,
		timeout:  timeout,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, rawURL string) ([]byte, error)
}

// Resolve returns a square JPEG for the URL, falling through the strategy
// chain and ending on the placeholder. It never returns an error and never
// exceeds the sum of per-strategy timeouts by more than scheduling noise.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) []byte {
	if rawURL == "" {
		return r.Placeholder()
	}
	if strings.HasPrefix(rawURL, "data:") {
		if img, err := r.fromDataURL(rawURL); err == nil {
			return img
		}
		return r.Placeholder()
	}

	strategies := []strategy{
		{"cache", r.fromCache},
		{"proxy", r.viaProxy},
		{"direct", r.direct},
	}
	for _, s := range strategies {
		sctx, cancel := context.WithTimeout(ctx, r.timeout)
		img, err := s.run(sctx, rawURL)
		cancel()
		if err == nil && len(img) > 0 {
			r.cache.Store(rawURL, img)
			return img
		}
		if err != nil && s.name != "cache" {
			log.Debug().Str("strategy", s.name).Str("url", rawURL).Err(err).
				Msg("image strategy failed")
		}
	}
	return r.Placeholder()
}

// ResolveBatch resolves many URLs in bounded batches: members of a batch run
// concurrently, batches run sequentially, and progress is reported after
// each batch joins. One failing image never aborts the batch.
func (r *Resolver) ResolveBatch(ctx context.Context, urls []string, progress func(done, total int)) map[string][]byte {
	out := make(map[string][]byte, len(urls))
	var mu sync.Mutex
	done := 0

	for start := 0; start < len(urls); start += batchSize {
		end := start + batchSize
		if end > len(urls) {
			end = len(urls)
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, u := range urls[start:end] {
			u := u
			g.Go(func() error {
				img := r.Resolve(gctx, u)
				mu.Lock()
				out[u] = img
				done++
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait() // members never return errors
		if progress != nil {
			progress(done, len(urls))
		}
	}
	return out
}

func (r *Resolver) fromDataURL(rawURL string) ([]byte, error) {
	idx := strings.Index(rawURL, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data url")
	}
	meta, payload := rawURL[:idx], rawURL[idx+1:]
	var data []byte
	var err error
	if strings.Contains(meta, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.QueryUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, err
	}
	return normalize(data)
}

func (r *Resolver) fromCache(_ context.Context, rawURL string) ([]byte, error) {
	if v, ok := r.cache.Load(rawURL); ok {
		return v.([]byte), nil
	}
	return nil, fmt.Errorf("not cached")
}

func (r *Resolver) viaProxy(ctx context.Context, rawURL string) ([]byte, error) {
	if r.proxyURL == "" {
		return nil, fmt.Errorf("proxy disabled")
	}
	return r.fetch(ctx, r.proxyURL+"?url="+url.QueryEscape(rawURL))
}

func (r *Resolver) direct(ctx context.Context, rawURL string) ([]byte, error) {
	return r.fetch(ctx, rawURL)
}

func (r *Resolver) fetch(ctx context.Context, fetchURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AMPLEN-Quotation/1.0)")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	return normalize(data)
}

// normalize decodes arbitrary image bytes and re-encodes them as a JPEG
// fitted into a fixed square canvas: aspect preserved, centered, white fill.
func normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	fitted := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)
	canvas := imaging.New(thumbSize, thumbSize, color.White)
	canvas = imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
