package gangsheet

import (
	"image"
	"sync"
)

// maxBitmapCacheEntries bounds the number of distinct bitmaps held in
// memory during one generation run.
const maxBitmapCacheEntries = 100

// bitmapCache is a bounded map of decoded bitmaps keyed by source URL.
// One instance is owned by each pipeline run (never shared across
// concurrent runs) and cleared at the start and end of the run, so a
// run's memory footprint stays bounded regardless of order volume.
type bitmapCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]image.Image
}

func newBitmapCache(max int) *bitmapCache {
	if max < 1 {
		max = maxBitmapCacheEntries
	}
	return &bitmapCache{
		max:     max,
		entries: make(map[string]image.Image),
	}
}

func (c *bitmapCache) get(url string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.entries[url]
	return img, ok
}

// put stores a decoded bitmap, evicting an arbitrary entry when full.
// Eviction order does not matter for correctness: a miss only costs a
// re-download.
func (c *bitmapCache) put(url string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[url]; !ok && len(c.entries) >= c.max {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[url] = img
}

func (c *bitmapCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]image.Image)
}

func (c *bitmapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
