package gangsheet

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos"
	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/gcp"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

// Publisher uploads every rendered roll image to object storage,
// bundles them into one zip archive, and records the durable per-roll
// rows.
type Publisher struct {
	log    *logger.Logger
	bucket gcp.BucketService
	rolls  repos.GangsheetRollRepo
}

func NewPublisher(log *logger.Logger, bucket gcp.BucketService, rolls repos.GangsheetRollRepo) *Publisher {
	return &Publisher{
		log:    log.With("component", "Publisher"),
		bucket: bucket,
		rolls:  rolls,
	}
}

type PublishResult struct {
	RollRows   []*types.GangsheetRoll
	ArchiveKey string
	ArchiveURL string
}

// Publish uploads roll images under gangsheets/{id}/ and the archive
// alongside them. Rolls whose composition failed are recorded with an
// empty file URL and left out of the archive; an upload failure for any
// successfully rendered roll fails the stage.
func (p *Publisher) Publish(ctx context.Context, g *types.Gangsheet, images []RollImage) (PublishResult, error) {
	var result PublishResult

	baseName := sanitizeFileName(g.Name)
	prefix := ObjectPrefix(g.ID.String())

	var archiveBuf bytes.Buffer
	zw := zip.NewWriter(&archiveBuf)
	archived := 0

	for _, img := range images {
		row := &types.GangsheetRoll{
			GangsheetID: g.ID,
			RollNumber:  img.Roll.Number,
			WidthPx:     img.WidthPx,
			HeightPx:    img.HeightPx,
			DesignCount: len(img.Roll.Placements),
		}

		if img.PNG == nil {
			p.log.Warn("Roll has no image data, recording without file",
				"gangsheet_id", g.ID,
				"roll", img.Roll.Number,
				"error", img.Err,
			)
			result.RollRows = append(result.RollRows, row)
			continue
		}

		entryName := fmt.Sprintf("%s_%03d.png", baseName, img.Roll.Number)
		key := prefix + entryName
		if err := p.bucket.UploadFile(ctx, gcp.BucketCategoryGangsheet, key, bytes.NewReader(img.PNG)); err != nil {
			return result, fmt.Errorf("upload roll %d: %w", img.Roll.Number, err)
		}
		row.FileKey = key
		row.FileURL = p.bucket.GetPublicURL(gcp.BucketCategoryGangsheet, key)
		result.RollRows = append(result.RollRows, row)

		w, err := zw.Create(entryName)
		if err != nil {
			return result, fmt.Errorf("archive entry %s: %w", entryName, err)
		}
		if _, err := w.Write(img.PNG); err != nil {
			return result, fmt.Errorf("archive write %s: %w", entryName, err)
		}
		archived++
	}

	if err := zw.Close(); err != nil {
		return result, fmt.Errorf("finalize archive: %w", err)
	}

	if archived > 0 {
		archiveKey := prefix + baseName + ".zip"
		if err := p.bucket.UploadFile(ctx, gcp.BucketCategoryGangsheet, archiveKey, bytes.NewReader(archiveBuf.Bytes())); err != nil {
			return result, fmt.Errorf("upload archive: %w", err)
		}
		result.ArchiveKey = archiveKey
		result.ArchiveURL = p.bucket.GetPublicURL(gcp.BucketCategoryGangsheet, archiveKey)
	}

	if _, err := p.rolls.Create(dbctx.Context{Ctx: ctx}, result.RollRows); err != nil {
		return result, fmt.Errorf("persist roll records: %w", err)
	}
	return result, nil
}

// ObjectPrefix is where one gangsheet's outputs live in the bucket.
// Delete uses it to sweep all objects for a sheet.
func ObjectPrefix(gangsheetID string) string {
	return "gangsheets/" + gangsheetID + "/"
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "gangsheet"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "gangsheet"
	}
	return b.String()
}
