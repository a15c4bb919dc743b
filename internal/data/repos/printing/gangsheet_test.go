package printing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos/testutil"
	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
)

func createSheet(t *testing.T, repo GangsheetRepo, tenantID uuid.UUID, status string) *types.Gangsheet {
	t.Helper()
	g, err := repo.Create(dbctx.Context{Ctx: context.Background()}, &types.Gangsheet{
		TenantID: tenantID,
		Name:     "sheet",
		Status:   status,
	})
	if err != nil {
		t.Fatalf("create gangsheet: %v", err)
	}
	return g
}

func TestGangsheetUpdateFieldsUnlessTerminal(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewGangsheetRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	tenantID := uuid.New()

	g := createSheet(t, repo, tenantID, types.StatusGenerating)

	updated, err := repo.UpdateFieldsUnlessTerminal(dbc, g.ID, map[string]interface{}{
		"status": types.StatusUploading,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated {
		t.Fatal("non-terminal row must accept the update")
	}

	// Move to terminal, then try to resurrect it.
	if _, err := repo.UpdateFieldsUnlessTerminal(dbc, g.ID, map[string]interface{}{
		"status": types.StatusFailed,
	}); err != nil {
		t.Fatalf("fail transition: %v", err)
	}
	updated, err = repo.UpdateFieldsUnlessTerminal(dbc, g.ID, map[string]interface{}{
		"status": types.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("update after terminal: %v", err)
	}
	if updated {
		t.Fatal("terminal row must reject further updates")
	}

	got, err := repo.GetByID(dbc, tenantID, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.StatusFailed {
		t.Fatalf("status = %s, want FAILED to stick", got.Status)
	}
}

func TestGangsheetIncrementProcessed(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewGangsheetRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	tenantID := uuid.New()

	g := createSheet(t, repo, tenantID, types.StatusGenerating)

	for _, delta := range []int{3, 2} {
		if err := repo.IncrementProcessed(dbc, g.ID, delta); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	got, err := repo.GetByID(dbc, tenantID, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProcessedDesigns != 5 {
		t.Fatalf("processed = %d, want 5", got.ProcessedDesigns)
	}
}

func TestGangsheetGetByIDScopedToTenant(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewGangsheetRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	g := createSheet(t, repo, uuid.New(), types.StatusPending)

	got, err := repo.GetByID(dbc, uuid.New(), g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("another tenant must not see the sheet")
	}
}

func TestGangsheetGetByIDPreloadsRollsInOrder(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewGangsheetRepo(gdb, log)
	rollRepo := NewGangsheetRollRepo(gdb, log)
	dbc := dbctx.Context{Ctx: context.Background()}
	tenantID := uuid.New()

	g := createSheet(t, repo, tenantID, types.StatusCompleted)
	if _, err := rollRepo.Create(dbc, []*types.GangsheetRoll{
		{GangsheetID: g.ID, RollNumber: 2},
		{GangsheetID: g.ID, RollNumber: 1},
	}); err != nil {
		t.Fatalf("create rolls: %v", err)
	}

	got, err := repo.GetByID(dbc, tenantID, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Rolls) != 2 || got.Rolls[0].RollNumber != 1 || got.Rolls[1].RollNumber != 2 {
		t.Fatalf("rolls = %+v, want sorted by roll number", got.Rolls)
	}
}

func TestGangsheetSoftDelete(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewGangsheetRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	tenantID := uuid.New()

	g := createSheet(t, repo, tenantID, types.StatusCompleted)
	if err := repo.SoftDelete(dbc, tenantID, g.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := repo.GetByID(dbc, tenantID, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("soft-deleted sheet must not be readable")
	}

	list, err := repo.ListByTenant(dbc, tenantID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatal("soft-deleted sheet must not be listed")
	}
}
