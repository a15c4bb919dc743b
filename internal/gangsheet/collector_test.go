package gangsheet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos"
	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos/testutil"
	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	return NewCollector(log, repos.NewOrderRepo(gdb, log), repos.NewDesignRepo(gdb, log))
}

func TestCollectItemAndModificationDesigns(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	front := testutil.SeedDesign(t, ctx, gdb, tenantID, 1000, 2000, "https://designs.test/front.png")
	back := testutil.SeedDesign(t, ctx, gdb, tenantID, 900, 900, "https://designs.test/back.png")

	order := testutil.SeedPaidOrder(t, ctx, gdb, tenantID, "PN-1001")
	item := testutil.SeedOrderItem(t, ctx, gdb, order.ID, 3, 12, 8, &front.ID)
	testutil.SeedModification(t, ctx, gdb, item.ID, "Back", types.AxisWidth2, &back.ID)

	got, err := newTestCollector(t).Collect(ctx, tenantID, []uuid.UUID{order.ID}, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("designs = %d, want 2", len(got))
	}

	// Item-level design reads the primary axis.
	if got[0].DesignID != front.ID || got[0].PrintSizeIn != 12 || got[0].Quantity != 3 {
		t.Fatalf("item design = %+v, want front design at 12in x3", got[0])
	}
	// Modification reads the axis it names.
	if got[1].DesignID != back.ID || got[1].PrintSizeIn != 8 || got[1].Label != "Back" {
		t.Fatalf("mod design = %+v, want back design at 8in labeled Back", got[1])
	}
	if got[1].Quantity != 3 {
		t.Fatalf("mod quantity = %d, want the item quantity 3", got[1].Quantity)
	}
}

func TestCollectQuantityOverride(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	d := testutil.SeedDesign(t, ctx, gdb, tenantID, 500, 700, "https://designs.test/d.png")
	order := testutil.SeedPaidOrder(t, ctx, gdb, tenantID, "PN-1002")
	item := testutil.SeedOrderItem(t, ctx, gdb, order.ID, 2, 10, 0, &d.ID)

	got, err := newTestCollector(t).Collect(ctx, tenantID, []uuid.UUID{order.ID}, map[uuid.UUID]int{item.ID: 7})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got[0].Quantity != 7 {
		t.Fatalf("quantity = %d, want override 7", got[0].Quantity)
	}
}

func TestCollectDefaultsPrintSize(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	d := testutil.SeedDesign(t, ctx, gdb, tenantID, 500, 700, "https://designs.test/d.png")
	order := testutil.SeedPaidOrder(t, ctx, gdb, tenantID, "PN-1003")
	testutil.SeedOrderItem(t, ctx, gdb, order.ID, 1, 0, 0, &d.ID)

	got, err := newTestCollector(t).Collect(ctx, tenantID, []uuid.UUID{order.ID}, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got[0].PrintSizeIn != defaultPrintSizeIn {
		t.Fatalf("print size = %v, want default %v", got[0].PrintSizeIn, defaultPrintSizeIn)
	}
}

func TestCollectSkipsMissingLibraryDesign(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	real := testutil.SeedDesign(t, ctx, gdb, tenantID, 500, 700, "https://designs.test/real.png")
	ghost := uuid.New()
	order := testutil.SeedPaidOrder(t, ctx, gdb, tenantID, "PN-1004")
	testutil.SeedOrderItem(t, ctx, gdb, order.ID, 1, 10, 0, &ghost)
	testutil.SeedOrderItem(t, ctx, gdb, order.ID, 1, 10, 0, &real.ID)

	got, err := newTestCollector(t).Collect(ctx, tenantID, []uuid.UUID{order.ID}, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 1 || got[0].DesignID != real.ID {
		t.Fatalf("designs = %+v, want only the real design", got)
	}
}

func TestCollectNoPrintableDesigns(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	order := testutil.SeedPaidOrder(t, ctx, gdb, tenantID, "PN-1005")
	testutil.SeedOrderItem(t, ctx, gdb, order.ID, 1, 10, 0, nil)

	_, err := newTestCollector(t).Collect(ctx, tenantID, []uuid.UUID{order.ID}, nil)
	if !errors.Is(err, ErrNoPrintableDesigns) {
		t.Fatalf("err = %v, want ErrNoPrintableDesigns", err)
	}
}

func TestCollectIgnoresUnpaidOrders(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	d := testutil.SeedDesign(t, ctx, gdb, tenantID, 500, 700, "https://designs.test/d.png")
	pending := &types.Order{TenantID: tenantID, Number: "PN-1006", Status: types.OrderStatusPending}
	if err := gdb.WithContext(ctx).Create(pending).Error; err != nil {
		t.Fatalf("seed pending order: %v", err)
	}
	testutil.SeedOrderItem(t, ctx, gdb, pending.ID, 1, 10, 0, &d.ID)

	_, err := newTestCollector(t).Collect(ctx, tenantID, []uuid.UUID{pending.ID}, nil)
	if !errors.Is(err, ErrNoPrintableDesigns) {
		t.Fatalf("err = %v, want ErrNoPrintableDesigns for unpaid orders", err)
	}
}

func TestTotalQuantity(t *testing.T) {
	designs := []SheetDesign{{Quantity: 2}, {Quantity: 5}}
	if got := TotalQuantity(designs); got != 7 {
		t.Fatalf("total quantity = %d, want 7", got)
	}
}
