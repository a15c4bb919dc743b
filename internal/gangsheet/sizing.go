package gangsheet

// Resolve converts a design's native pixel dimensions and target
// physical size into its pixel geometry at the run's resolution.
//
// Landscape designs (native W > H) scale off the width axis and are
// rotated 90 degrees for packing when the print size is 11in or larger;
// portrait and square designs scale off the height axis and are never
// rotated. All dimensions truncate to integer pixels.
//
// Pure: identical inputs always produce identical outputs.
func Resolve(d SheetDesign, s Settings) ScaledDesign {
	dpi := float64(s.DPI)

	var scaledW, scaledH int
	rotated := false
	if d.NativeWidthPx > d.NativeHeightPx {
		scaledW = int(d.PrintSizeIn * dpi)
		scaledH = int(float64(d.NativeHeightPx) * float64(scaledW) / float64(d.NativeWidthPx))
		if d.PrintSizeIn >= 11 {
			rotated = true
		}
	} else {
		scaledH = int(d.PrintSizeIn * dpi)
		scaledW = int(float64(d.NativeWidthPx) * float64(scaledH) / float64(d.NativeHeightPx))
	}

	footW, footH := scaledW, scaledH
	if rotated {
		footW, footH = scaledH, scaledW
	}

	margin := s.MarginPx()
	return ScaledDesign{
		SheetDesign:       d,
		ScaledWidthPx:     scaledW,
		ScaledHeightPx:    scaledH,
		FootprintWidthPx:  footW,
		FootprintHeightPx: footH,
		SlotWidthPx:       footW + margin,
		SlotHeightPx:      footH + margin,
		Rotated:           rotated,
	}
}

// ResolveAll maps Resolve over a collected design list.
func ResolveAll(designs []SheetDesign, s Settings) []ScaledDesign {
	out := make([]ScaledDesign, 0, len(designs))
	for _, d := range designs {
		out = append(out, Resolve(d, s))
	}
	return out
}
