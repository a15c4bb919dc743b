package gangsheet

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos"
	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

// ErrNoPrintableDesigns means the selected orders resolved to zero
// printable designs. A recoverable terminal condition, not a bug.
var ErrNoPrintableDesigns = errors.New("no printable designs resolved from the selected orders")

// defaultPrintSizeIn is used when the variant carries no usable size on
// the requested axis.
const defaultPrintSizeIn = 10.0

// Collector resolves every printable design referenced by a set of paid
// orders, with the target physical size and quantity for each.
type Collector struct {
	log     *logger.Logger
	orders  repos.OrderRepo
	designs repos.DesignRepo
}

func NewCollector(log *logger.Logger, orders repos.OrderRepo, designs repos.DesignRepo) *Collector {
	return &Collector{
		log:     log.With("component", "DesignCollector"),
		orders:  orders,
		designs: designs,
	}
}

// Collect walks each order's items and their modifications. A design
// can hang directly off an item (sized from the primary axis) or off a
// modification (sized from the axis the modification names). Quantity
// overrides are keyed by order item id. Designs missing from the
// library are skipped with a warning.
func (c *Collector) Collect(ctx context.Context, tenantID uuid.UUID, orderIDs []uuid.UUID, overrides map[uuid.UUID]int) ([]SheetDesign, error) {
	dbc := dbctx.Context{Ctx: ctx}

	orders, err := c.orders.GetPaidByIDs(dbc, tenantID, orderIDs)
	if err != nil {
		return nil, err
	}

	// One batch load for every design referenced anywhere in the set.
	designIDs := make([]uuid.UUID, 0, len(orders))
	seen := make(map[uuid.UUID]bool)
	addID := func(id *uuid.UUID) {
		if id == nil || *id == uuid.Nil || seen[*id] {
			return
		}
		seen[*id] = true
		designIDs = append(designIDs, *id)
	}
	for _, o := range orders {
		for _, item := range o.Items {
			addID(item.DesignID)
			for _, mod := range item.Modifications {
				addID(mod.DesignID)
			}
		}
	}

	library := map[uuid.UUID]*types.Design{}
	if len(designIDs) > 0 {
		rows, err := c.designs.GetByIDs(dbc, tenantID, designIDs)
		if err != nil {
			return nil, err
		}
		for _, d := range rows {
			library[d.ID] = d
		}
	}

	var out []SheetDesign
	for _, o := range orders {
		for _, item := range o.Items {
			quantity := item.Quantity
			if ov, ok := overrides[item.ID]; ok && ov > 0 {
				quantity = ov
			}
			if quantity < 1 {
				quantity = 1
			}

			if item.DesignID != nil {
				if sd, ok := c.resolveOne(library, *item.DesignID, o.ID, item, types.AxisWidth1, "", quantity); ok {
					out = append(out, sd)
				}
			}
			for _, mod := range item.Modifications {
				if mod.DesignID == nil {
					continue
				}
				axis := mod.Axis
				if axis != types.AxisWidth2 {
					axis = types.AxisWidth1
				}
				if sd, ok := c.resolveOne(library, *mod.DesignID, o.ID, item, axis, mod.Name, quantity); ok {
					out = append(out, sd)
				}
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoPrintableDesigns
	}
	return out, nil
}

func (c *Collector) resolveOne(library map[uuid.UUID]*types.Design, designID, orderID uuid.UUID, item types.OrderItem, axis, label string, quantity int) (SheetDesign, bool) {
	d, ok := library[designID]
	if !ok {
		c.log.Warn("Design referenced by order is missing from the library",
			"design_id", designID,
			"order_id", orderID,
			"order_item_id", item.ID,
		)
		return SheetDesign{}, false
	}

	printSize := item.Width1In
	if axis == types.AxisWidth2 {
		printSize = item.Width2In
	}
	if printSize <= 0 {
		printSize = defaultPrintSizeIn
	}

	return SheetDesign{
		DesignID:       d.ID,
		OrderID:        orderID,
		OrderItemID:    item.ID,
		Label:          label,
		Axis:           axis,
		PrintSizeIn:    printSize,
		Quantity:       quantity,
		NativeWidthPx:  d.WidthPx,
		NativeHeightPx: d.HeightPx,
		SourceURL:      d.SourceURL,
	}, true
}

// TotalQuantity sums the physical copy count across a collected list.
func TotalQuantity(designs []SheetDesign) int {
	total := 0
	for _, d := range designs {
		total += d.Quantity
	}
	return total
}
