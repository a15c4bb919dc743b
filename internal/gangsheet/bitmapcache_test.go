package gangsheet

import (
	"fmt"
	"image"
	"testing"
)

func tinyImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

func TestBitmapCachePutGet(t *testing.T) {
	c := newBitmapCache(10)
	img := tinyImage()
	c.put("a", img)

	got, ok := c.get("a")
	if !ok || got != img {
		t.Fatal("expected cache hit for stored bitmap")
	}
	if _, ok := c.get("missing"); ok {
		t.Fatal("unexpected hit for missing key")
	}
}

func TestBitmapCacheBoundedAtCapacity(t *testing.T) {
	c := newBitmapCache(3)
	for i := 0; i < 10; i++ {
		c.put(fmt.Sprintf("url-%d", i), tinyImage())
	}
	if got := c.len(); got != 3 {
		t.Fatalf("cache size = %d, want 3", got)
	}
}

func TestBitmapCacheOverwriteDoesNotEvict(t *testing.T) {
	c := newBitmapCache(2)
	c.put("a", tinyImage())
	c.put("b", tinyImage())
	c.put("a", tinyImage())

	if got := c.len(); got != 2 {
		t.Fatalf("cache size = %d, want 2", got)
	}
	if _, ok := c.get("b"); !ok {
		t.Fatal("overwriting an existing key must not evict another entry")
	}
}

func TestBitmapCacheClear(t *testing.T) {
	c := newBitmapCache(10)
	c.put("a", tinyImage())
	c.clear()
	if got := c.len(); got != 0 {
		t.Fatalf("cache size after clear = %d, want 0", got)
	}
}
