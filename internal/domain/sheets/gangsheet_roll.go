package sheets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GangsheetRoll is the durable record of one generated roll image.
// Created by the publisher, read-only afterward. FileURL is empty for a
// roll whose composition failed (the run still records the roll).
type GangsheetRoll struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GangsheetID uuid.UUID `gorm:"type:uuid;not null;index" json:"gangsheet_id"`
	RollNumber  int       `gorm:"column:roll_number;not null" json:"roll_number"`
	WidthPx     int       `gorm:"column:width_px;not null" json:"width_px"`
	HeightPx    int       `gorm:"column:height_px;not null" json:"height_px"`
	DesignCount int       `gorm:"column:design_count;not null" json:"design_count"`
	FileKey     string    `gorm:"column:file_key" json:"file_key,omitempty"`
	FileURL     string    `gorm:"column:file_url" json:"file_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (GangsheetRoll) TableName() string { return "gangsheet_roll" }

func (r *GangsheetRoll) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
