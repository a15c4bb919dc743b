package sheets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gangsheet status machine:
//
//	PENDING -> FETCHING_DESIGNS -> CALCULATING -> GENERATING -> UPLOADING -> COMPLETED
//
// FAILED is reachable from any non-terminal state. COMPLETED and FAILED
// are terminal; no transition ever leaves them.
const (
	StatusPending         = "PENDING"
	StatusFetchingDesigns = "FETCHING_DESIGNS"
	StatusCalculating     = "CALCULATING"
	StatusGenerating      = "GENERATING"
	StatusUploading       = "UPLOADING"
	StatusCompleted       = "COMPLETED"
	StatusFailed          = "FAILED"
)

// Gangsheet is the aggregate root of one generation run: the source
// orders, the settings snapshot the run was computed with, live
// counters, and the published output URLs. Only the orchestrator
// mutates it after creation.
type Gangsheet struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name     string    `gorm:"column:name;not null" json:"name"`

	// Source order ids in request order, stored as a JSON array.
	OrderIDs datatypes.JSON `gorm:"column:order_ids;type:jsonb" json:"order_ids"`

	// Settings snapshot, frozen at request time.
	RollWidthIn  float64 `gorm:"column:roll_width_in;not null" json:"roll_width_in"`
	RollLengthIn float64 `gorm:"column:roll_length_in;not null" json:"roll_length_in"`
	DPI          int     `gorm:"column:dpi;not null" json:"dpi"`
	GapIn        float64 `gorm:"column:gap_in;not null" json:"gap_in"`
	Border       bool    `gorm:"column:border;not null" json:"border"`
	BorderSizeIn float64 `gorm:"column:border_size_in;not null" json:"border_size_in"`

	Status           string `gorm:"column:status;not null;index" json:"status"`
	TotalDesigns     int    `gorm:"column:total_designs;not null;default:0" json:"total_designs"`
	ProcessedDesigns int    `gorm:"column:processed_designs;not null;default:0" json:"processed_designs"`
	TotalRolls       int    `gorm:"column:total_rolls;not null;default:0" json:"total_rolls"`
	DownloadURL      string `gorm:"column:download_url" json:"download_url,omitempty"`
	ErrorMessage     string `gorm:"column:error_message" json:"error_message,omitempty"`

	// Degraded output summary: skipped placements and imageless rolls,
	// so a COMPLETED sheet can still report what is missing from it.
	Degraded datatypes.JSON `gorm:"column:degraded;type:jsonb" json:"degraded,omitempty"`

	Rolls []GangsheetRoll `gorm:"foreignKey:GangsheetID" json:"rolls,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Gangsheet) TableName() string { return "gangsheet" }

func (g *Gangsheet) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
