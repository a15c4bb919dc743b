package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Design is a print-ready artifact in the tenant's design library.
// Rows are immutable once created; regenerated artwork gets a new row
// with a new content hash.
type Design struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	WidthPx     int            `gorm:"column:width_px;not null" json:"width_px"`
	HeightPx    int            `gorm:"column:height_px;not null" json:"height_px"`
	ContentHash string         `gorm:"column:content_hash;index" json:"content_hash"`
	SourceURL   string         `gorm:"column:source_url;not null" json:"source_url"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Design) TableName() string { return "design" }

func (d *Design) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
