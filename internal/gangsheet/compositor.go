package gangsheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

// Compositor renders one roll to a raster image: every placement's
// bitmap drawn at its packed position, plus a footer band carrying the
// gangsheet name and roll number.
type Compositor struct {
	log      *logger.Logger
	fetcher  *bitmapFetcher
	fontFace font.Face
}

func NewCompositor(log *logger.Logger, fetcher *bitmapFetcher) *Compositor {
	c := &Compositor{
		log:     log.With("component", "ImageCompositor"),
		fetcher: fetcher,
	}

	fontPath := strings.TrimSpace(os.Getenv("GANGSHEET_FOOTER_FONT"))
	if fontPath != "" {
		face, err := loadFontFace(fontPath, 96)
		if err != nil {
			c.log.Warn("Footer font unavailable, footers will be drawn without text", "font", fontPath, "error", err)
		} else {
			c.fontFace = face
		}
	}
	return c
}

// Composite renders a single roll. Per-design failures skip that
// placement and the roll is still emitted; if the whole composition
// blows up the roll comes back with a nil PNG and the error, so the
// pipeline can record it and move on.
//
// Drawing is single-threaded per roll to keep draw ordering (and
// therefore overlap behavior) deterministic; only the bitmap downloads
// fan out.
func (c *Compositor) Composite(ctx context.Context, sheetName string, roll Roll, s Settings) (out RollImage) {
	out = RollImage{Roll: roll}

	defer func() {
		if r := recover(); r != nil {
			out.PNG = nil
			out.Err = fmt.Errorf("roll %d composition panic: %v", roll.Number, r)
			c.log.Error("Roll composition panicked", "roll", roll.Number, "panic", r)
		}
	}()

	widthPx := s.RollWidthPx()
	heightPx := roll.MaxHeight + s.FooterHeightPx()
	out.WidthPx = widthPx
	out.HeightPx = heightPx

	urls := make([]string, 0, len(roll.Placements))
	for _, pl := range roll.Placements {
		urls = append(urls, pl.SourceURL)
	}
	failures := c.fetcher.Prefetch(ctx, urls)

	dc := gg.NewContext(widthPx, heightPx)
	dc.SetColor(color.White)
	dc.Clear()

	for _, pl := range roll.Placements {
		if err, failed := failures[pl.SourceURL]; failed {
			out.Skipped = append(out.Skipped, SkippedPlacement{Seq: pl.Seq, DesignID: pl.DesignID, Reason: err.Error()})
			c.log.Warn("Skipping placement, bitmap unavailable",
				"roll", roll.Number,
				"seq", pl.Seq,
				"design_id", pl.DesignID,
				"error", err,
			)
			continue
		}
		src, err := c.fetcher.Get(ctx, pl.SourceURL)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedPlacement{Seq: pl.Seq, DesignID: pl.DesignID, Reason: err.Error()})
			c.log.Warn("Skipping placement, bitmap unavailable",
				"roll", roll.Number,
				"seq", pl.Seq,
				"design_id", pl.DesignID,
				"error", err,
			)
			continue
		}

		bitmap := renderPlacementBitmap(src, pl)
		dc.DrawImage(bitmap, pl.X, pl.Y)
	}

	c.drawFooter(dc, sheetName, roll, widthPx, heightPx, s)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		out.PNG = nil
		out.Err = fmt.Errorf("encode roll %d: %w", roll.Number, err)
		return out
	}
	out.PNG = buf.Bytes()
	return out
}

// renderPlacementBitmap scales the source bitmap to the placement's
// print size and rotates it when flagged. The scale target is the
// pre-rotation size; rotation swaps it back to the footprint.
func renderPlacementBitmap(src image.Image, pl Placement) image.Image {
	targetW, targetH := pl.PrintWidthPx, pl.PrintHeightPx
	if pl.Rotated {
		targetW, targetH = pl.PrintHeightPx, pl.PrintWidthPx
	}
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)

	if !pl.Rotated {
		return scaled
	}
	return rotate90(scaled)
}

// rotate90 rotates clockwise: a W x H image becomes H x W.
func rotate90(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			dst.Set(h-1-yy, xx, src.At(b.Min.X+xx, b.Min.Y+yy))
		}
	}
	return dst
}

func (c *Compositor) drawFooter(dc *gg.Context, sheetName string, roll Roll, widthPx, heightPx int, s Settings) {
	footerTop := float64(heightPx - s.FooterHeightPx())

	dc.SetRGB(0.93, 0.93, 0.93)
	dc.DrawRectangle(0, footerTop, float64(widthPx), float64(s.FooterHeightPx()))
	dc.Fill()

	if c.fontFace == nil {
		return
	}
	label := fmt.Sprintf("%s  |  Roll %03d  |  %d designs", sheetName, roll.Number, len(roll.Placements))
	dc.SetFontFace(c.fontFace)
	dc.SetColor(color.Black)
	tw, th := dc.MeasureString(label)
	x := (float64(widthPx) - tw) / 2
	y := footerTop + (float64(s.FooterHeightPx())+th)/2
	dc.DrawString(label, x, y)
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
