package gangsheet

import "testing"

func testSettings() Settings {
	return Settings{
		RollWidthIn:  22,
		RollLengthIn: 240,
		DPI:          300,
		GapIn:        0.25,
		Border:       false,
		BorderSizeIn: 0.15,
	}
}

func TestResolvePortraitScalesOffHeight(t *testing.T) {
	s := testSettings()
	d := SheetDesign{NativeWidthPx: 1000, NativeHeightPx: 2000, PrintSizeIn: 10}

	got := Resolve(d, s)

	if got.ScaledHeightPx != 3000 {
		t.Fatalf("scaled height = %d, want 3000", got.ScaledHeightPx)
	}
	if got.ScaledWidthPx != 1500 {
		t.Fatalf("scaled width = %d, want 1500", got.ScaledWidthPx)
	}
	if got.Rotated {
		t.Fatal("portrait design must never rotate")
	}
	if got.FootprintWidthPx != 1500 || got.FootprintHeightPx != 3000 {
		t.Fatalf("footprint = %dx%d, want 1500x3000", got.FootprintWidthPx, got.FootprintHeightPx)
	}
}

func TestResolveSquareScalesOffHeight(t *testing.T) {
	s := testSettings()
	d := SheetDesign{NativeWidthPx: 800, NativeHeightPx: 800, PrintSizeIn: 12}

	got := Resolve(d, s)

	if got.Rotated {
		t.Fatal("square design must never rotate")
	}
	if got.ScaledWidthPx != 3600 || got.ScaledHeightPx != 3600 {
		t.Fatalf("scaled = %dx%d, want 3600x3600", got.ScaledWidthPx, got.ScaledHeightPx)
	}
}

func TestResolveLandscapeRotatesAtElevenInches(t *testing.T) {
	s := testSettings()
	d := SheetDesign{NativeWidthPx: 2000, NativeHeightPx: 1000, PrintSizeIn: 12}

	got := Resolve(d, s)

	if !got.Rotated {
		t.Fatal("landscape design at 12in must rotate")
	}
	if got.ScaledWidthPx != 3600 || got.ScaledHeightPx != 1800 {
		t.Fatalf("scaled = %dx%d, want 3600x1800", got.ScaledWidthPx, got.ScaledHeightPx)
	}
	// Footprint swaps after rotation.
	if got.FootprintWidthPx != 1800 || got.FootprintHeightPx != 3600 {
		t.Fatalf("footprint = %dx%d, want 1800x3600", got.FootprintWidthPx, got.FootprintHeightPx)
	}
}

func TestResolveLandscapeBelowThresholdStaysFlat(t *testing.T) {
	s := testSettings()
	d := SheetDesign{NativeWidthPx: 2000, NativeHeightPx: 1000, PrintSizeIn: 10.5}

	got := Resolve(d, s)

	if got.Rotated {
		t.Fatal("landscape design under 11in must not rotate")
	}
	if got.FootprintWidthPx != got.ScaledWidthPx || got.FootprintHeightPx != got.ScaledHeightPx {
		t.Fatal("unrotated footprint must equal scaled dimensions")
	}
}

func TestResolveTruncatesToIntegerPixels(t *testing.T) {
	s := testSettings()
	// 10.33in * 300dpi = 3099.0; secondary axis 3099*700/900 = 2410.33 -> 2410
	d := SheetDesign{NativeWidthPx: 700, NativeHeightPx: 900, PrintSizeIn: 10.33}

	got := Resolve(d, s)

	if got.ScaledHeightPx != 3099 {
		t.Fatalf("scaled height = %d, want 3099", got.ScaledHeightPx)
	}
	if got.ScaledWidthPx != 2410 {
		t.Fatalf("scaled width = %d, want 2410 (truncated)", got.ScaledWidthPx)
	}
}

func TestMarginWithAndWithoutBorder(t *testing.T) {
	s := testSettings()
	if got := s.MarginPx(); got != 150 {
		t.Fatalf("margin without border = %d, want 150", got)
	}

	s.Border = true
	// 300 * (2*0.25 + 0.15) = 195
	if got := s.MarginPx(); got != 195 {
		t.Fatalf("margin with border = %d, want 195", got)
	}
}

func TestResolveAppliesMarginOncePerAxis(t *testing.T) {
	s := testSettings()
	d := SheetDesign{NativeWidthPx: 1000, NativeHeightPx: 1000, PrintSizeIn: 10}

	got := Resolve(d, s)

	wantSlot := 3000 + s.MarginPx()
	if got.SlotWidthPx != wantSlot || got.SlotHeightPx != wantSlot {
		t.Fatalf("slot = %dx%d, want %dx%d", got.SlotWidthPx, got.SlotHeightPx, wantSlot, wantSlot)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	s := testSettings()
	d := SheetDesign{NativeWidthPx: 1234, NativeHeightPx: 987, PrintSizeIn: 11.75}

	first := Resolve(d, s)
	for i := 0; i < 10; i++ {
		if Resolve(d, s) != first {
			t.Fatal("identical inputs must produce identical outputs")
		}
	}
}

func TestFooterHeight(t *testing.T) {
	s := testSettings()
	if got := s.FooterHeightPx(); got != 450 {
		t.Fatalf("footer height = %d, want 450", got)
	}
}
