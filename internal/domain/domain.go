package domain

import (
	"github.com/unaytac-cmd/printnest-sub000/internal/domain/orders"
	"github.com/unaytac-cmd/printnest-sub000/internal/domain/sheets"
)

type Design = orders.Design
type Order = orders.Order
type OrderItem = orders.OrderItem
type OrderItemModification = orders.OrderItemModification
type TenantSettings = orders.TenantSettings

type Gangsheet = sheets.Gangsheet
type GangsheetRoll = sheets.GangsheetRoll

const (
	OrderStatusPending = orders.OrderStatusPending
	OrderStatusPaid    = orders.OrderStatusPaid
	OrderStatusShipped = orders.OrderStatusShipped

	AxisWidth1 = orders.AxisWidth1
	AxisWidth2 = orders.AxisWidth2

	StatusPending         = sheets.StatusPending
	StatusFetchingDesigns = sheets.StatusFetchingDesigns
	StatusCalculating     = sheets.StatusCalculating
	StatusGenerating      = sheets.StatusGenerating
	StatusUploading       = sheets.StatusUploading
	StatusCompleted       = sheets.StatusCompleted
	StatusFailed          = sheets.StatusFailed
)

// Terminal reports whether a gangsheet status admits no further transitions.
func Terminal(status string) bool { return sheets.Terminal(status) }
