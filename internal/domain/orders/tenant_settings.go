package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantSettings holds the tenant's default roll geometry. Every value
// can be overridden per gangsheet request; the request-effective values
// are snapshotted onto the gangsheet row.
type TenantSettings struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	RollWidthIn  float64   `gorm:"column:roll_width_in;not null;default:22" json:"roll_width_in"`
	RollLengthIn float64   `gorm:"column:roll_length_in;not null;default:240" json:"roll_length_in"`
	DPI          int       `gorm:"column:dpi;not null;default:300" json:"dpi"`
	GapIn        float64   `gorm:"column:gap_in;not null;default:0.25" json:"gap_in"`
	Border       bool      `gorm:"column:border;not null;default:false" json:"border"`
	BorderSizeIn float64   `gorm:"column:border_size_in;not null;default:0.15" json:"border_size_in"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (TenantSettings) TableName() string { return "tenant_settings" }

func (s *TenantSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
