package gangsheet

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/errgroup"

	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

// downloadConcurrency bounds concurrent bitmap downloads within a run.
const downloadConcurrency = 8

// bitmapFetcher downloads and decodes design bitmaps through the run's
// bounded cache.
type bitmapFetcher struct {
	log    *logger.Logger
	client *http.Client
	cache  *bitmapCache
}

func newBitmapFetcher(log *logger.Logger, cache *bitmapCache) *bitmapFetcher {
	return &bitmapFetcher{
		log:    log,
		client: &http.Client{Timeout: 2 * time.Minute},
		cache:  cache,
	}
}

// Prefetch downloads every distinct URL not already cached, at most
// downloadConcurrency at a time. Failures are recorded per URL, not
// returned as an error: a failed bitmap becomes a skipped placement.
func (f *bitmapFetcher) Prefetch(ctx context.Context, urls []string) map[string]error {
	distinct := make([]string, 0, len(urls))
	seen := make(map[string]bool)
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		if _, ok := f.cache.get(u); ok {
			continue
		}
		distinct = append(distinct, u)
	}

	var mu sync.Mutex
	failures := make(map[string]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for _, u := range distinct {
		url := u
		g.Go(func() error {
			img, err := f.fetch(gctx, url)
			if err != nil {
				mu.Lock()
				failures[url] = err
				mu.Unlock()
				return nil
			}
			f.cache.put(url, img)
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

// Get returns a cached bitmap or downloads it on a cache miss.
func (f *bitmapFetcher) Get(ctx context.Context, url string) (image.Image, error) {
	if img, ok := f.cache.get(url); ok {
		return img, nil
	}
	img, err := f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	f.cache.put(url, img)
	return img, nil
}

func (f *bitmapFetcher) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build design request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download design: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download design: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	return img, nil
}
