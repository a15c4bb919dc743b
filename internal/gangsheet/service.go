package gangsheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos"
	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/bus"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/gcp"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

var (
	ErrEmptyOrderSelection = errors.New("at least one order id is required")
	ErrGangsheetNotFound   = errors.New("gangsheet not found")
)

// SettingsOverride carries the per-request geometry overrides. Nil
// fields fall through to the tenant defaults.
type SettingsOverride struct {
	RollWidthIn  *float64 `json:"roll_width_in,omitempty"`
	RollLengthIn *float64 `json:"roll_length_in,omitempty"`
	DPI          *int     `json:"dpi,omitempty"`
	GapIn        *float64 `json:"gap_in,omitempty"`
	Border       *bool    `json:"border,omitempty"`
	BorderSizeIn *float64 `json:"border_size_in,omitempty"`
}

// GenerateInput is one gangsheet generation request.
type GenerateInput struct {
	Name              string
	OrderIDs          []uuid.UUID
	QuantityOverrides map[uuid.UUID]int
	Settings          *SettingsOverride
}

// Service owns the gangsheet lifecycle: it persists the request,
// launches the background pipeline, and exposes status, cancel and
// delete on top of it.
type Service interface {
	Generate(ctx context.Context, tenantID uuid.UUID, input GenerateInput) (*types.Gangsheet, error)
	GetStatus(ctx context.Context, tenantID, id uuid.UUID) (*StatusView, error)
	List(ctx context.Context, tenantID uuid.UUID, limit int) ([]*StatusView, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*StatusView, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// StatusView is a gangsheet row with the derived progress attached.
type StatusView struct {
	*types.Gangsheet
	Progress int `json:"progress"`
}

type service struct {
	log     *logger.Logger
	sheets  repos.GangsheetRepo
	rolls   repos.GangsheetRollRepo
	tenants repos.TenantSettingsRepo
	bucket  gcp.BucketService
	events  bus.EventBus
	runner  *Runner
	collect *Collector
	publish *Publisher
}

func NewService(
	log *logger.Logger,
	sheets repos.GangsheetRepo,
	rolls repos.GangsheetRollRepo,
	tenants repos.TenantSettingsRepo,
	orders repos.OrderRepo,
	designs repos.DesignRepo,
	bucket gcp.BucketService,
	events bus.EventBus,
) Service {
	svcLog := log.With("service", "GangsheetService")
	return &service{
		log:     svcLog,
		sheets:  sheets,
		rolls:   rolls,
		tenants: tenants,
		bucket:  bucket,
		events:  events,
		runner:  NewRunner(),
		collect: NewCollector(svcLog, orders, designs),
		publish: NewPublisher(svcLog, bucket, rolls),
	}
}

// Generate validates the request, persists the PENDING row with the
// effective settings snapshot, and returns immediately. The pipeline
// runs in the background; progress is observable via GetStatus and the
// event bus.
func (s *service) Generate(ctx context.Context, tenantID uuid.UUID, input GenerateInput) (*types.Gangsheet, error) {
	if len(input.OrderIDs) == 0 {
		return nil, ErrEmptyOrderSelection
	}
	name := input.Name
	if name == "" {
		name = "gangsheet_" + time.Now().Format("20060102_150405")
	}

	settings, err := s.effectiveSettings(ctx, tenantID, input.Settings)
	if err != nil {
		return nil, err
	}

	orderIDsJSON, err := json.Marshal(input.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("encode order ids: %w", err)
	}

	g := &types.Gangsheet{
		TenantID:     tenantID,
		Name:         name,
		OrderIDs:     datatypes.JSON(orderIDsJSON),
		RollWidthIn:  settings.RollWidthIn,
		RollLengthIn: settings.RollLengthIn,
		DPI:          settings.DPI,
		GapIn:        settings.GapIn,
		Border:       settings.Border,
		BorderSizeIn: settings.BorderSizeIn,
		Status:       types.StatusPending,
	}
	g, err = s.sheets.Create(dbctx.Context{Ctx: ctx}, g)
	if err != nil {
		return nil, fmt.Errorf("create gangsheet: %w", err)
	}

	runCtx, done := s.runner.Track(g.ID)
	go s.run(runCtx, done, g, settings, input)

	s.log.Info("Gangsheet generation queued", "gangsheet_id", g.ID, "tenant_id", tenantID, "orders", len(input.OrderIDs))
	return g, nil
}

func (s *service) GetStatus(ctx context.Context, tenantID, id uuid.UUID) (*StatusView, error) {
	g, err := s.sheets.GetByID(dbctx.Context{Ctx: ctx}, tenantID, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGangsheetNotFound
	}
	return statusView(g), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, limit int) ([]*StatusView, error) {
	rows, err := s.sheets.ListByTenant(dbctx.Context{Ctx: ctx}, tenantID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*StatusView, 0, len(rows))
	for _, g := range rows {
		out = append(out, statusView(g))
	}
	return out, nil
}

// Cancel signals the in-flight run (if any) and marks the row FAILED
// unless it already reached a terminal state.
func (s *service) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*StatusView, error) {
	g, err := s.sheets.GetByID(dbctx.Context{Ctx: ctx}, tenantID, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGangsheetNotFound
	}

	s.runner.Cancel(id)

	updated, err := s.sheets.UpdateFieldsUnlessTerminal(dbctx.Context{Ctx: ctx}, id, map[string]interface{}{
		"status":        types.StatusFailed,
		"error_message": "cancelled by user",
	})
	if err != nil {
		return nil, err
	}
	if updated {
		s.publishEvent(ctx, g.TenantID, id, types.StatusFailed, 0, 0, "cancelled by user")
	}
	return s.GetStatus(ctx, tenantID, id)
}

// Delete cancels any in-flight run, removes the roll rows, soft-deletes
// the gangsheet, and sweeps its objects from the bucket. The object
// sweep is best-effort: the row is already gone and orphaned objects
// are harmless.
func (s *service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	g, err := s.sheets.GetByID(dbctx.Context{Ctx: ctx}, tenantID, id)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGangsheetNotFound
	}

	s.runner.Cancel(id)

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.rolls.DeleteByGangsheet(dbc, id); err != nil {
		return fmt.Errorf("delete gangsheet rolls: %w", err)
	}
	if err := s.sheets.SoftDelete(dbc, tenantID, id); err != nil {
		return fmt.Errorf("delete gangsheet: %w", err)
	}
	if err := s.bucket.DeletePrefix(ctx, gcp.BucketCategoryGangsheet, ObjectPrefix(id.String())); err != nil {
		s.log.Warn("Object cleanup failed after gangsheet delete", "gangsheet_id", id, "error", err)
	}
	return nil
}

// run drives the pipeline through its stages. Every status transition
// goes through the terminal guard so a cancelled or failed sheet can
// never be resurrected by a stage that was still in flight.
func (s *service) run(ctx context.Context, done func(), g *types.Gangsheet, settings Settings, input GenerateInput) {
	defer done()

	// The bitmap cache is scoped to this run; cleared on exit so a big
	// sheet's bitmaps are not pinned past the pipeline.
	cache := newBitmapCache(maxBitmapCacheEntries)
	defer cache.clear()

	fetcher := newBitmapFetcher(s.log, cache)
	composer := NewCompositor(s.log, fetcher)

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Gangsheet pipeline panicked", "gangsheet_id", g.ID, "panic", r)
			s.fail(g, fmt.Sprintf("internal error: %v", r))
		}
	}()

	// FETCHING_DESIGNS
	if !s.transition(ctx, g, types.StatusFetchingDesigns, nil) {
		return
	}
	designs, err := s.collect.Collect(ctx, g.TenantID, decodeOrderIDs(g.OrderIDs), input.QuantityOverrides)
	if err != nil {
		s.fail(g, err.Error())
		return
	}
	totalDesigns := TotalQuantity(designs)

	// CALCULATING
	if !s.transition(ctx, g, types.StatusCalculating, map[string]interface{}{
		"total_designs": totalDesigns,
	}) {
		return
	}
	g.TotalDesigns = totalDesigns
	scaled := ResolveAll(designs, settings)
	packed := Pack(scaled, settings.RollWidthPx(), settings.RollHeightPx())

	// GENERATING
	if !s.transition(ctx, g, types.StatusGenerating, map[string]interface{}{
		"total_rolls": packed.TotalRolls,
	}) {
		return
	}
	g.TotalRolls = packed.TotalRolls

	images := make([]RollImage, 0, len(packed.Rolls))
	var skipped []SkippedPlacement
	var failedRolls []int
	processed := 0
	for _, roll := range packed.Rolls {
		if ctx.Err() != nil {
			s.fail(g, "cancelled")
			return
		}
		img := composer.Composite(ctx, g.Name, roll, settings)
		images = append(images, img)
		skipped = append(skipped, img.Skipped...)
		if img.PNG == nil {
			failedRolls = append(failedRolls, roll.Number)
		}

		processed += len(roll.Placements)
		if err := s.sheets.IncrementProcessed(dbctx.Context{Ctx: ctx}, g.ID, len(roll.Placements)); err != nil {
			s.log.Warn("Progress counter update failed", "gangsheet_id", g.ID, "error", err)
		}
		g.ProcessedDesigns = processed
		s.publishEvent(ctx, g.TenantID, g.ID, types.StatusGenerating,
			ProgressFor(types.StatusGenerating, processed, totalDesigns), totalDesigns, "")
	}

	// UPLOADING
	if !s.transition(ctx, g, types.StatusUploading, nil) {
		return
	}
	published, err := s.publish.Publish(ctx, g, images)
	if err != nil {
		s.fail(g, err.Error())
		return
	}

	// COMPLETED
	updates := map[string]interface{}{
		"download_url": published.ArchiveURL,
	}
	if degraded := degradedSummary(skipped, failedRolls); degraded != nil {
		updates["degraded"] = degraded
	}
	if !s.transition(ctx, g, types.StatusCompleted, updates) {
		return
	}
	s.log.Info("Gangsheet generation completed",
		"gangsheet_id", g.ID,
		"rolls", packed.TotalRolls,
		"designs", totalDesigns,
		"skipped", len(skipped),
	)
}

// transition moves the row to the next status, applying any extra field
// updates atomically with it. Returns false if the row was already
// terminal; the caller must stop the pipeline then.
func (s *service) transition(ctx context.Context, g *types.Gangsheet, status string, extra map[string]interface{}) bool {
	updates := map[string]interface{}{"status": status}
	for k, v := range extra {
		updates[k] = v
	}
	// Persistence uses a background context so a cancelled run can still
	// record its own terminal state.
	updated, err := s.sheets.UpdateFieldsUnlessTerminal(dbctx.Context{Ctx: context.Background()}, g.ID, updates)
	if err != nil {
		s.log.Error("Status transition failed", "gangsheet_id", g.ID, "status", status, "error", err)
		return false
	}
	if !updated {
		s.log.Info("Skipping transition, gangsheet already terminal", "gangsheet_id", g.ID, "status", status)
		return false
	}
	g.Status = status
	s.publishEvent(ctx, g.TenantID, g.ID, status, ProgressFor(status, g.ProcessedDesigns, g.TotalDesigns), g.TotalDesigns, "")
	return true
}

func (s *service) fail(g *types.Gangsheet, message string) {
	updated, err := s.sheets.UpdateFieldsUnlessTerminal(dbctx.Context{Ctx: context.Background()}, g.ID, map[string]interface{}{
		"status":        types.StatusFailed,
		"error_message": message,
	})
	if err != nil {
		s.log.Error("Failure transition did not persist", "gangsheet_id", g.ID, "error", err)
		return
	}
	if updated {
		g.Status = types.StatusFailed
		s.log.Warn("Gangsheet generation failed", "gangsheet_id", g.ID, "error", message)
		s.publishEvent(context.Background(), g.TenantID, g.ID, types.StatusFailed, 0, g.TotalDesigns, message)
	}
}

func (s *service) publishEvent(ctx context.Context, tenantID, id uuid.UUID, status string, progress, totalDesigns int, message string) {
	if s.events == nil {
		return
	}
	ev := bus.GangsheetEvent{
		GangsheetID: id.String(),
		TenantID:    tenantID.String(),
		Status:      status,
		Progress:    progress,
		Message:     message,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("Event publish failed", "gangsheet_id", id, "status", status, "error", err)
	}
}

// effectiveSettings layers tenant defaults over the built-ins, then the
// request overrides over both.
func (s *service) effectiveSettings(ctx context.Context, tenantID uuid.UUID, override *SettingsOverride) (Settings, error) {
	settings := DefaultSettings()

	tenant, err := s.tenants.GetByTenant(dbctx.Context{Ctx: ctx}, tenantID)
	if err != nil {
		return settings, fmt.Errorf("load tenant settings: %w", err)
	}
	if tenant != nil {
		settings = Settings{
			RollWidthIn:  tenant.RollWidthIn,
			RollLengthIn: tenant.RollLengthIn,
			DPI:          tenant.DPI,
			GapIn:        tenant.GapIn,
			Border:       tenant.Border,
			BorderSizeIn: tenant.BorderSizeIn,
		}
	}

	if override != nil {
		if override.RollWidthIn != nil && *override.RollWidthIn > 0 {
			settings.RollWidthIn = *override.RollWidthIn
		}
		if override.RollLengthIn != nil && *override.RollLengthIn > 0 {
			settings.RollLengthIn = *override.RollLengthIn
		}
		if override.DPI != nil && *override.DPI > 0 {
			settings.DPI = *override.DPI
		}
		if override.GapIn != nil && *override.GapIn >= 0 {
			settings.GapIn = *override.GapIn
		}
		if override.Border != nil {
			settings.Border = *override.Border
		}
		if override.BorderSizeIn != nil && *override.BorderSizeIn >= 0 {
			settings.BorderSizeIn = *override.BorderSizeIn
		}
	}
	return settings, nil
}

func statusView(g *types.Gangsheet) *StatusView {
	return &StatusView{
		Gangsheet: g,
		Progress:  ProgressFor(g.Status, g.ProcessedDesigns, g.TotalDesigns),
	}
}

func decodeOrderIDs(raw datatypes.JSON) []uuid.UUID {
	var ids []uuid.UUID
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &ids)
	}
	return ids
}

func degradedSummary(skipped []SkippedPlacement, failedRolls []int) datatypes.JSON {
	if len(skipped) == 0 && len(failedRolls) == 0 {
		return nil
	}
	payload := map[string]interface{}{}
	if len(skipped) > 0 {
		payload["skipped_placements"] = skipped
	}
	if len(failedRolls) > 0 {
		payload["rolls_without_image"] = failedRolls
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
