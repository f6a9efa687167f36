package dither

import (
	"image/color"
	"testing"

	"github.com/BeatGlow/dither/pixel"
)

func TestOrderedSolidPaletteColors(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(bwPalette(t), &cfg)

	out := d.Dither(solidImage(8, 8, color.RGBA{0, 0, 0, 255}))
	for i, idx := range out.Pix {
		if idx != 0 {
			t.Fatalf("pixel %d: expected black index 0, got %d", i, idx)
		}
	}

	out = d.Dither(solidImage(8, 8, color.RGBA{255, 255, 255, 255}))
	for i, idx := range out.Pix {
		if idx != 1 {
			t.Fatalf("pixel %d: expected white index 1, got %d", i, idx)
		}
	}
}

func TestOrderedPureBlackWithoutExactMatching(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	cfg.PreserveExact = false
	d := New(bwPalette(t), &cfg)

	out := d.DitherPixels(solidPixels(0, 16), 4, 4)
	for i, idx := range out.Pix {
		if idx != 0 {
			t.Fatalf("pixel %d: expected nearest-color black, got %d", i, idx)
		}
	}
}

func TestOrderedMidGreyMixes(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(bwPalette(t), &cfg)

	out := d.DitherPixels(solidPixels(0.5, 16*16), 16, 16)
	var blacks, whites int
	for _, idx := range out.Pix {
		if idx == 0 {
			blacks++
		} else {
			whites++
		}
	}
	if blacks < 20 || whites < 20 {
		t.Errorf("expected a mix of black and white, got %d blacks and %d whites", blacks, whites)
	}
}

func TestOrderedGradient(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(bwPalette(t), &cfg)

	pix := make([]pixel.Linear, 64)
	for i := range pix {
		v := float64(i) / 63
		pix[i] = pixel.Linear{R: v, G: v, B: v}
	}
	out := d.DitherPixels(pix, 8, 8)

	if out.Pix[0] != 0 {
		t.Errorf("expected the black end to stay black, got %d", out.Pix[0])
	}
	if out.Pix[63] != 1 {
		t.Errorf("expected the white end to stay white, got %d", out.Pix[63])
	}

	var blacks, whites int
	for _, idx := range out.Pix {
		if idx == 0 {
			blacks++
		} else {
			whites++
		}
	}
	if blacks < 5 || whites < 5 {
		t.Errorf("expected both tones across the ramp, got %d blacks and %d whites", blacks, whites)
	}
}

// A flat mid grey must come out evenly textured: no region may be much
// brighter than another, or partial panel updates would show seams.
func TestOrderedSpatialUniformity(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(bwPalette(t), &cfg)
	out := d.Dither(solidImage(64, 64, color.RGBA{128, 128, 128, 255}))

	ratio := whiteRatio(out)
	if ratio <= 0.1 || ratio >= 0.9 {
		t.Fatalf("expected a moderate white ratio, got %.3f", ratio)
	}

	// Mean white share per 16×16 block.
	var means [16]float64
	for by := 0; by < 4; by++ {
		for bx := 0; bx < 4; bx++ {
			var whites int
			for y := by * 16; y < (by+1)*16; y++ {
				for x := bx * 16; x < (bx+1)*16; x++ {
					if out.Pix[y*64+x] == 1 {
						whites++
					}
				}
			}
			means[by*4+bx] = float64(whites) / 256
		}
	}
	var sum float64
	for _, m := range means {
		sum += m
	}
	mean := sum / 16
	var variance float64
	for _, m := range means {
		variance += (m - mean) * (m - mean)
	}
	variance /= 16
	if variance >= 0.02 {
		t.Errorf("expected uniform blocks, got variance %.4f (means %v)", variance, means)
	}
}

func TestOrderedGreyGradientStaysNeutral(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(sixPalette(t), &cfg)

	pix := make([]pixel.Linear, 256)
	for i := range pix {
		pix[i] = pixel.RGB{R: uint8(i), G: uint8(i), B: uint8(i)}.Linear()
	}
	out := d.DitherPixels(pix, 16, 16)

	for i, idx := range out.Pix {
		if idx > 1 {
			t.Fatalf("grey pixel %d picked chromatic entry %d", i, idx)
		}
	}
}

func TestOrderedIgnoresSerpentine(t *testing.T) {
	p := bwPalette(t)
	pix := variedPixels(64)

	cfg := BlueNoise.DefaultConfig()
	cfg.Serpentine = false
	a := New(p, &cfg).DitherPixels(pix, 8, 8)

	cfg.Serpentine = true
	b := New(p, &cfg).DitherPixels(pix, 8, 8)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d: expected scan direction to be irrelevant, got %d and %d",
				i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestOrderedDeterministic(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(sevenPalette(t), &cfg)
	pix := variedPixels(100)

	a := d.DitherPixels(pix, 10, 10)
	b := d.DitherPixels(pix, 10, 10)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d: expected identical output, got %d and %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestOrderedSingleColor(t *testing.T) {
	cfg := BlueNoise.DefaultConfig()
	d := New(spreadPalette(t, 1), &cfg)

	out := d.DitherPixels(variedPixels(16), 4, 4)
	for i, idx := range out.Pix {
		if idx != 0 {
			t.Fatalf("pixel %d: expected the only entry, got %d", i, idx)
		}
	}
}
