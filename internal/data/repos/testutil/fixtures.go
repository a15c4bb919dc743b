package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
)

func SeedDesign(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, widthPx, heightPx int, sourceURL string) *types.Design {
	tb.Helper()
	d := &types.Design{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        fmt.Sprintf("design-%dx%d", widthPx, heightPx),
		WidthPx:     widthPx,
		HeightPx:    heightPx,
		ContentHash: uuid.NewString(),
		SourceURL:   sourceURL,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed design: %v", err)
	}
	return d
}

func SeedPaidOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, number string) *types.Order {
	tb.Helper()
	o := &types.Order{
		ID:       uuid.New(),
		TenantID: tenantID,
		Number:   number,
		Status:   types.OrderStatusPaid,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func SeedOrderItem(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID uuid.UUID, quantity int, width1In, width2In float64, designID *uuid.UUID) *types.OrderItem {
	tb.Helper()
	it := &types.OrderItem{
		ID:       uuid.New(),
		OrderID:  orderID,
		Quantity: quantity,
		Width1In: width1In,
		Width2In: width2In,
		DesignID: designID,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed order item: %v", err)
	}
	return it
}

func SeedModification(tb testing.TB, ctx context.Context, tx *gorm.DB, itemID uuid.UUID, name, axis string, designID *uuid.UUID) *types.OrderItemModification {
	tb.Helper()
	m := &types.OrderItemModification{
		ID:          uuid.New(),
		OrderItemID: itemID,
		Name:        name,
		Axis:        axis,
		DesignID:    designID,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed modification: %v", err)
	}
	return m
}
