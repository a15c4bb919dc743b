package gangsheet

import "github.com/google/uuid"

// Pack arranges the expanded slot sequence onto rolls: left to right in
// rows, top to bottom, spilling into a new roll when the current one is
// exhausted. Input order is preserved deliberately; designs are NOT
// re-sorted by height, so copies belonging to the same order stay
// physically adjacent wherever possible.
//
// A slot larger than the roll itself is still force-placed at the top
// of a fresh roll and overflows the canvas. Rejecting or splitting
// oversize designs would change output for sheets customers already
// rely on, so the overflow stands.
//
// Pure fold over the input; the cursor state (x, y, maxHeightInRow) is
// carried explicitly and nothing outside the return value is touched.
func Pack(designs []ScaledDesign, rollWidthPx, rollHeightPx int) PackResult {
	var (
		rolls   []Roll
		current []Placement

		x, y           int
		maxHeightInRow int
		seq            int
	)

	closeRoll := func() {
		if len(current) == 0 {
			return
		}
		rolls = append(rolls, finishRoll(len(rolls)+1, current))
		current = nil
	}

	for _, d := range designs {
		for copies := 0; copies < d.Quantity; copies++ {
			seq++
			pl := Placement{
				Seq:           seq,
				DesignID:      d.DesignID,
				OrderID:       d.OrderID,
				OrderItemID:   d.OrderItemID,
				Label:         d.Label,
				SourceURL:     d.SourceURL,
				Width:         d.SlotWidthPx,
				Height:        d.SlotHeightPx,
				PrintWidthPx:  d.FootprintWidthPx,
				PrintHeightPx: d.FootprintHeightPx,
				Rotated:       d.Rotated,
			}

			switch {
			case x+pl.Width <= rollWidthPx && y+pl.Height <= rollHeightPx:
				// Fits the current row.
				pl.X, pl.Y = x, y
				x += pl.Width
				if pl.Height > maxHeightInRow {
					maxHeightInRow = pl.Height
				}
			case y+maxHeightInRow+pl.Height <= rollHeightPx:
				// New row on the same roll.
				y += maxHeightInRow
				pl.X, pl.Y = 0, y
				x = pl.Width
				maxHeightInRow = pl.Height
			default:
				// Roll exhausted; start the next one.
				closeRoll()
				x, y = pl.Width, 0
				pl.X, pl.Y = 0, 0
				maxHeightInRow = pl.Height
			}

			current = append(current, pl)
		}
	}
	closeRoll()

	return PackResult{
		Rolls:        rolls,
		TotalDesigns: seq,
		TotalRolls:   len(rolls),
	}
}

func finishRoll(number int, placements []Placement) Roll {
	maxHeight := 0
	seen := make(map[uuid.UUID]bool)
	var orderIDs []uuid.UUID
	for _, pl := range placements {
		if bottom := pl.Y + pl.Height; bottom > maxHeight {
			maxHeight = bottom
		}
		if !seen[pl.OrderID] {
			seen[pl.OrderID] = true
			orderIDs = append(orderIDs, pl.OrderID)
		}
	}
	return Roll{
		Number:     number,
		Placements: placements,
		MaxHeight:  maxHeight,
		OrderIDs:   orderIDs,
	}
}
