package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusShipped = "shipped"
)

// PrintAxis names which physical axis of the variant carries the target
// print size. Modifications default to the primary axis.
const (
	AxisWidth1 = "width1"
	AxisWidth2 = "width2"
)

type Order struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Number    string         `gorm:"column:number;not null;index" json:"number"`
	Status    string         `gorm:"column:status;not null;index" json:"status"`
	Items     []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Order) TableName() string { return "order" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is one purchased variant. Width1In is the variant's primary
// physical axis in inches, Width2In the secondary one. A design can hang
// directly off the item or off each of its modifications.
type OrderItem struct {
	ID            uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID               `gorm:"type:uuid;not null;index" json:"order_id"`
	Quantity      int                     `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Width1In      float64                 `gorm:"column:width1_in" json:"width1_in"`
	Width2In      float64                 `gorm:"column:width2_in" json:"width2_in"`
	DesignID      *uuid.UUID              `gorm:"type:uuid;column:design_id;index" json:"design_id,omitempty"`
	Modifications []OrderItemModification `gorm:"foreignKey:OrderItemID" json:"modifications,omitempty"`
	CreatedAt     time.Time               `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time               `gorm:"not null" json:"updated_at"`
}

func (OrderItem) TableName() string { return "order_item" }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// OrderItemModification is a named print placement on the garment
// ("Front", "Back", "Left Sleeve") carrying its own design and the axis
// its print size is read from.
type OrderItemModification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_item_id"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	DesignID    *uuid.UUID `gorm:"type:uuid;column:design_id;index" json:"design_id,omitempty"`
	Axis        string     `gorm:"column:axis;not null;default:width1" json:"axis"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (OrderItemModification) TableName() string { return "order_item_modification" }

func (m *OrderItemModification) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
