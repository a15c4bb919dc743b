package gangsheet

import (
	"github.com/google/uuid"
)

// Settings is the effective roll geometry for one generation run:
// tenant defaults merged with per-request overrides, snapshotted onto
// the gangsheet row before the pipeline starts.
type Settings struct {
	RollWidthIn  float64
	RollLengthIn float64
	DPI          int
	GapIn        float64
	Border       bool
	BorderSizeIn float64
}

// DefaultSettings matches a 22in DTF roll at 300dpi with a quarter-inch
// gap between designs.
func DefaultSettings() Settings {
	return Settings{
		RollWidthIn:  22,
		RollLengthIn: 240,
		DPI:          300,
		GapIn:        0.25,
		Border:       false,
		BorderSizeIn: 0.15,
	}
}

func (s Settings) RollWidthPx() int  { return int(s.RollWidthIn * float64(s.DPI)) }
func (s Settings) RollHeightPx() int { return int(s.RollLengthIn * float64(s.DPI)) }

// MarginPx is the reserved slot margin: dpi*(2*gap+borderSize) with a
// border, dpi*2*gap without. Applied once per axis, not per side.
func (s Settings) MarginPx() int {
	if s.Border {
		return int(float64(s.DPI) * (2*s.GapIn + s.BorderSizeIn))
	}
	return int(float64(s.DPI) * 2 * s.GapIn)
}

func (s Settings) FooterHeightPx() int { return int(1.5 * float64(s.DPI)) }

// SheetDesign is one printable design occurrence resolved from an
// order: the design, where it came from, its target physical size and
// how many physical copies were ordered. Expanded into Quantity
// identical slots during packing.
type SheetDesign struct {
	DesignID    uuid.UUID
	OrderID     uuid.UUID
	OrderItemID uuid.UUID
	Label       string
	Axis        string
	PrintSizeIn float64
	Quantity    int

	NativeWidthPx  int
	NativeHeightPx int
	SourceURL      string
}

// ScaledDesign annotates a SheetDesign with its pixel geometry at the
// run's resolution. Scaled dims are the bitmap's pre-rotation size;
// footprint dims are what the design occupies on the roll (swapped when
// rotated); slot dims add the reserved margin.
type ScaledDesign struct {
	SheetDesign

	ScaledWidthPx     int
	ScaledHeightPx    int
	FootprintWidthPx  int
	FootprintHeightPx int
	SlotWidthPx       int
	SlotHeightPx      int
	Rotated           bool
}

// Placement is an absolute slot position on a roll. Never mutated after
// the packer creates it.
type Placement struct {
	Seq         int
	DesignID    uuid.UUID
	OrderID     uuid.UUID
	OrderItemID uuid.UUID
	Label       string
	SourceURL   string

	X      int
	Y      int
	Width  int
	Height int

	PrintWidthPx  int
	PrintHeightPx int
	Rotated       bool
}

// Roll is one physical sheet of output. Number is 1-based in generation
// order; MaxHeight is the used height in pixels, which sizes the output
// canvas; OrderIDs is the distinct set of orders represented, in
// first-seen order.
type Roll struct {
	Number     int
	Placements []Placement
	MaxHeight  int
	OrderIDs   []uuid.UUID
}

// PackResult is the packer's output for one run.
type PackResult struct {
	Rolls        []Roll
	TotalDesigns int
	TotalRolls   int
}

// SkippedPlacement records a per-design failure that was recovered by
// skipping the placement rather than failing the roll.
type SkippedPlacement struct {
	Seq      int       `json:"seq"`
	DesignID uuid.UUID `json:"design_id"`
	Reason   string    `json:"reason"`
}

// RollImage is the compositor's per-roll outcome. PNG is nil when the
// whole roll's composition failed; the roll is still recorded so the
// pipeline proceeds.
type RollImage struct {
	Roll     Roll
	PNG      []byte
	WidthPx  int
	HeightPx int
	Skipped  []SkippedPlacement
	Err      error
}
