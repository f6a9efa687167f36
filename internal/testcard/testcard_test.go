package testcard

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

func sixColor(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.New([]pixel.RGB{
		{R: 0x00, G: 0x00, B: 0x00},
		{R: 0xff, G: 0xff, B: 0xff},
		{R: 0xff, G: 0x00, B: 0x00},
		{R: 0x00, G: 0xff, B: 0x00},
		{R: 0x00, G: 0x00, B: 0xff},
		{R: 0xff, G: 0xff, B: 0x00},
	}, nil)
	if err != nil {
		t.Fatalf("failed to build palette: %v", err)
	}
	return p
}

func TestGreyRampEndpoints(t *testing.T) {
	m := GreyRamp(64, 8)

	if c := m.RGBAAt(0, 3); c != (color.RGBA{A: 0xff}) {
		t.Errorf("expected black at left edge, got %v", c)
	}
	if c := m.RGBAAt(63, 5); c != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("expected white at right edge, got %v", c)
	}

	prev := -1
	for x := 0; x < 64; x++ {
		c := m.RGBAAt(x, 0)
		if c.R != c.G || c.G != c.B {
			t.Fatalf("expected neutral grey at column %d, got %v", x, c)
		}
		if int(c.R) < prev {
			t.Fatalf("expected non-decreasing ramp, got %d after %d at column %d", c.R, prev, x)
		}
		prev = int(c.R)
	}
}

func TestGreyRampSingleColumn(t *testing.T) {
	m := GreyRamp(1, 2)
	if c := m.RGBAAt(0, 1); c != (color.RGBA{A: 0xff}) {
		t.Errorf("expected black, got %v", c)
	}
}

func TestHueSweepPrimaries(t *testing.T) {
	m := HueSweep(60, 4)

	testCases := []struct {
		x    int
		want color.RGBA
	}{
		{0, color.RGBA{R: 0xff, A: 0xff}},
		{10, color.RGBA{R: 0xff, G: 0xff, A: 0xff}},
		{20, color.RGBA{G: 0xff, A: 0xff}},
		{30, color.RGBA{G: 0xff, B: 0xff, A: 0xff}},
		{40, color.RGBA{B: 0xff, A: 0xff}},
		{50, color.RGBA{R: 0xff, B: 0xff, A: 0xff}},
	}
	for _, tc := range testCases {
		if c := m.RGBAAt(tc.x, 2); c != tc.want {
			t.Errorf("expected %v at column %d, got %v", tc.want, tc.x, c)
		}
	}
}

func TestHueSweepSaturated(t *testing.T) {
	m := HueSweep(60, 2)
	for x := 0; x < 60; x++ {
		c := m.RGBAAt(x, 0)
		lo, hi := c.R, c.R
		for _, v := range [...]uint8{c.G, c.B} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if lo != 0 || hi != 0xff {
			t.Errorf("expected a fully saturated color at column %d, got %v", x, c)
		}
	}
}

func TestCheckerAlternates(t *testing.T) {
	var (
		white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		black = color.RGBA{A: 0xff}
	)
	m := Checker(8, 4, 2, color.White, color.Black)

	testCases := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, white},
		{1, 1, white},
		{2, 0, black},
		{0, 2, black},
		{2, 2, white},
	}
	for _, tc := range testCases {
		if c := m.RGBAAt(tc.x, tc.y); c != tc.want {
			t.Errorf("expected %v at (%d,%d), got %v", tc.want, tc.x, tc.y, c)
		}
	}
}

func TestCheckerCellClamped(t *testing.T) {
	m := Checker(4, 1, 0, color.White, color.Black)
	if c := m.RGBAAt(0, 0); c.R != 0xff {
		t.Errorf("expected white first cell, got %v", c)
	}
	if c := m.RGBAAt(1, 0); c.R != 0 {
		t.Errorf("expected black second cell, got %v", c)
	}
}

func TestPaletteBarsExactEntries(t *testing.T) {
	p := sixColor(t)
	m := PaletteBars(60, 4, p)

	for x := 0; x < 60; x++ {
		var (
			c    = m.RGBAAt(x, 2)
			want = p.Official(x / 10)
		)
		if c.R != want.R || c.G != want.G || c.B != want.B {
			t.Fatalf("expected entry %d (%v) at column %d, got %v", x/10, want, x, c)
		}
		if i, ok := p.ExactIndex(pixel.RGB{R: c.R, G: c.G, B: c.B}); !ok || i != x/10 {
			t.Fatalf("expected exact match %d at column %d, got %d (exact=%v)", x/10, x, i, ok)
		}
	}
}

func TestCardLayout(t *testing.T) {
	m := Card(120, 96, sixColor(t))

	testCases := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"border top-left", 0, 0, color.RGBA{A: 0xff}},
		{"border bottom-right", 119, 95, color.RGBA{A: 0xff}},
		{"grey ramp", 100, 12, color.RGBA{R: 214, G: 214, B: 214, A: 0xff}},
		{"hue sweep", 100, 30, color.RGBA{R: 0xff, B: 0xff, A: 0xff}},
		{"palette bars", 100, 60, color.RGBA{R: 0xff, G: 0xff, A: 0xff}},
		{"pixel checker", 25, 73, color.RGBA{A: 0xff}},
		{"coarse checker", 100, 84, color.RGBA{R: 0xff, G: 0xff, A: 0xff}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if c := m.RGBAAt(tc.x, tc.y); c != tc.want {
				t.Errorf("expected %v at (%d,%d), got %v", tc.want, tc.x, tc.y, c)
			}
		})
	}
}

func TestCardDeterministic(t *testing.T) {
	p := sixColor(t)
	a := Card(120, 96, p)
	b := Card(120, 96, p)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("expected identical cards for identical inputs")
	}
}

func TestLabelDraws(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 64, 24))
	if err := Label(dst, 2, 16, "Eg", color.White); err != nil {
		t.Fatalf("failed to draw label: %v", err)
	}

	var lit int
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] >= 100 {
			lit++
		}
	}
	if lit < 5 {
		t.Errorf("expected at least 5 lit pixels, got %d", lit)
	}

	if c := dst.RGBAAt(60, 4); c != (color.RGBA{}) {
		t.Errorf("expected untouched pixel far from the text, got %v", c)
	}
}

func TestLabelClipped(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := Label(dst, 2, 8, "wwwwwwwwww", color.White); err != nil {
		t.Fatalf("failed to draw clipped label: %v", err)
	}
}
