package gangsheet

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func designServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/red.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes(t, 4, 4, color.RGBA{R: 255, A: 255}))
	})
	mux.HandleFunc("/broken.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func smallSettings() Settings {
	return Settings{RollWidthIn: 2, RollLengthIn: 10, DPI: 10, GapIn: 0, BorderSizeIn: 0}
}

func newTestCompositor(t *testing.T) *Compositor {
	t.Helper()
	log := logger.NewNop()
	return NewCompositor(log, newBitmapFetcher(log, newBitmapCache(maxBitmapCacheEntries)))
}

func TestCompositeRendersRoll(t *testing.T) {
	srv := designServer(t)
	s := smallSettings()

	roll := Roll{
		Number:    1,
		MaxHeight: 10,
		Placements: []Placement{{
			Seq:           1,
			SourceURL:     srv.URL + "/red.png",
			X:             0,
			Y:             0,
			Width:         10,
			Height:        10,
			PrintWidthPx:  8,
			PrintHeightPx: 8,
		}},
	}

	out := newTestCompositor(t).Composite(context.Background(), "test-sheet", roll, s)

	if out.Err != nil {
		t.Fatalf("composite error: %v", out.Err)
	}
	if out.PNG == nil {
		t.Fatal("expected PNG output")
	}
	if len(out.Skipped) != 0 {
		t.Fatalf("skipped = %d, want 0", len(out.Skipped))
	}
	if out.WidthPx != s.RollWidthPx() {
		t.Fatalf("width = %d, want %d", out.WidthPx, s.RollWidthPx())
	}
	if want := roll.MaxHeight + s.FooterHeightPx(); out.HeightPx != want {
		t.Fatalf("height = %d, want %d (used height plus footer)", out.HeightPx, want)
	}

	decoded, err := png.Decode(bytes.NewReader(out.PNG))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != out.WidthPx || b.Dy() != out.HeightPx {
		t.Fatalf("decoded size %dx%d, want %dx%d", b.Dx(), b.Dy(), out.WidthPx, out.HeightPx)
	}
	// The placement origin should carry the design, not the white canvas.
	r, _, _, _ := decoded.At(1, 1).RGBA()
	if r < 0x8000 {
		t.Fatal("expected red design pixels at the placement origin")
	}
}

func TestCompositeSkipsUnfetchableDesign(t *testing.T) {
	srv := designServer(t)
	s := smallSettings()

	roll := Roll{
		Number:    1,
		MaxHeight: 10,
		Placements: []Placement{
			{Seq: 1, SourceURL: srv.URL + "/broken.png", X: 0, Y: 0, Width: 10, Height: 10, PrintWidthPx: 8, PrintHeightPx: 8},
			{Seq: 2, SourceURL: srv.URL + "/red.png", X: 10, Y: 0, Width: 10, Height: 10, PrintWidthPx: 8, PrintHeightPx: 8},
		},
	}

	out := newTestCompositor(t).Composite(context.Background(), "test-sheet", roll, s)

	if out.Err != nil {
		t.Fatalf("composite error: %v", out.Err)
	}
	if out.PNG == nil {
		t.Fatal("roll must still render when one design is unavailable")
	}
	if len(out.Skipped) != 1 || out.Skipped[0].Seq != 1 {
		t.Fatalf("skipped = %+v, want exactly seq 1", out.Skipped)
	}
}

func TestCompositeRotatedPlacement(t *testing.T) {
	srv := designServer(t)
	s := smallSettings()

	roll := Roll{
		Number:    1,
		MaxHeight: 12,
		Placements: []Placement{{
			Seq:       1,
			SourceURL: srv.URL + "/red.png",
			X:         0, Y: 0,
			Width: 6, Height: 12,
			// Footprint 6x12 from a rotated 12x6 bitmap.
			PrintWidthPx:  6,
			PrintHeightPx: 12,
			Rotated:       true,
		}},
	}

	out := newTestCompositor(t).Composite(context.Background(), "test-sheet", roll, s)
	if out.Err != nil || out.PNG == nil {
		t.Fatalf("composite failed: %v", out.Err)
	}
}

func TestRotate90SwapsDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})

	dst := rotate90(src)

	if b := dst.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("rotated size %dx%d, want 2x3", b.Dx(), b.Dy())
	}
	// Clockwise: (0,0) moves to the top-right corner.
	r, _, _, _ := dst.At(1, 0).RGBA()
	if r < 0x8000 {
		t.Fatal("clockwise rotation should move (0,0) to the top-right")
	}
}

func TestPrefetchRecordsFailuresPerURL(t *testing.T) {
	srv := designServer(t)
	log := logger.NewNop()
	f := newBitmapFetcher(log, newBitmapCache(maxBitmapCacheEntries))

	failures := f.Prefetch(context.Background(), []string{
		srv.URL + "/red.png",
		srv.URL + "/broken.png",
		srv.URL + "/red.png", // duplicate, fetched once
	})

	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	if _, bad := failures[srv.URL+"/broken.png"]; !bad {
		t.Fatal("broken URL must be recorded as a failure")
	}
	if _, ok := f.cache.get(srv.URL + "/red.png"); !ok {
		t.Fatal("healthy URL must be cached after prefetch")
	}
}
