package dither

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/BeatGlow/dither/pixel"
)

func TestNewPreprocessorDefaults(t *testing.T) {
	p := NewPreprocessor(sixPalette(t), nil)
	if p.Config() != DefaultPreprocessConfig {
		t.Errorf("expected the default config, got %+v", p.Config())
	}

	// Zero saturation and contrast mean "leave alone", not "remove".
	p = NewPreprocessor(sixPalette(t), &PreprocessConfig{})
	if cfg := p.Config(); cfg.Saturation != 1 || cfg.Contrast != 1 {
		t.Errorf("expected neutral enhancement, got %+v", cfg)
	}
}

func TestPreprocessPassthrough(t *testing.T) {
	pre := NewPreprocessor(sixPalette(t), nil)

	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.Set(0, 0, color.RGBA{255, 0, 0, 255})
	m.Set(1, 0, color.RGBA{100, 150, 200, 255})

	res := pre.Process(m)
	if res.Width != 2 || res.Height != 1 {
		t.Fatalf("expected 2×1, got %d×%d", res.Width, res.Height)
	}
	if len(res.Pix) != 2 || len(res.Exact) != 2 {
		t.Fatalf("expected 2 pixels, got %d and %d exact entries", len(res.Pix), len(res.Exact))
	}

	if want := (pixel.RGB{R: 255}).Linear(); res.Pix[0] != want {
		t.Errorf("expected untouched red, got %+v", res.Pix[0])
	}
	if want := (pixel.RGB{R: 100, G: 150, B: 200}).Linear(); res.Pix[1] != want {
		t.Errorf("expected untouched blue-grey, got %+v", res.Pix[1])
	}
	if res.Exact[0] != 2 {
		t.Errorf("expected red to match entry 2, got %d", res.Exact[0])
	}
	if res.Exact[1] != -1 {
		t.Errorf("expected no match, got %d", res.Exact[1])
	}
}

func TestPreprocessSaturation(t *testing.T) {
	pre := NewPreprocessor(sixPalette(t), &PreprocessConfig{Saturation: 1.5, Contrast: 1, PreserveExact: true})

	m := solidImage(1, 1, color.RGBA{180, 100, 100, 255})
	before := pixel.RGB{R: 180, G: 100, B: 100}.Linear().Oklab()
	after := pre.Process(m).Pix[0].Oklab()

	if want := before.Chroma() * 1.5; math.Abs(after.Chroma()-want) > 1e-9 {
		t.Errorf("expected chroma %v, got %v", want, after.Chroma())
	}
	if math.Abs(after.L-before.L) > 1e-9 {
		t.Errorf("expected lightness to stay %v, got %v", before.L, after.L)
	}
}

func TestPreprocessContrastUnclamped(t *testing.T) {
	pre := NewPreprocessor(sixPalette(t), &PreprocessConfig{Saturation: 1, Contrast: 2, PreserveExact: true})

	res := pre.Process(solidImage(1, 1, color.RGBA{230, 230, 230, 255}))
	if res.Pix[0].R <= 1 {
		t.Errorf("expected bright grey to push past 1, got %v", res.Pix[0].R)
	}

	res = pre.Process(solidImage(1, 1, color.RGBA{20, 20, 20, 255}))
	if res.Pix[0].R >= 0 {
		t.Errorf("expected dark grey to push below 0, got %v", res.Pix[0].R)
	}
}

func TestPreprocessExactPixelsSkipEnhancement(t *testing.T) {
	cfg := PreprocessConfig{Saturation: 2, Contrast: 1.3, PreserveExact: true}
	pre := NewPreprocessor(sixPalette(t), &cfg)

	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.Set(0, 0, color.RGBA{255, 0, 0, 255})
	m.Set(1, 0, color.RGBA{100, 150, 200, 255})

	res := pre.Process(m)
	if want := (pixel.RGB{R: 255}).Linear(); res.Pix[0] != want {
		t.Errorf("expected palette red to stay untouched, got %+v", res.Pix[0])
	}
	if res.Exact[0] != 2 {
		t.Errorf("expected red to match entry 2, got %d", res.Exact[0])
	}
	if plain := (pixel.RGB{R: 100, G: 150, B: 200}).Linear(); res.Pix[1] == plain {
		t.Error("expected the unmatched pixel to be enhanced")
	}

	cfg.PreserveExact = false
	res = NewPreprocessor(sixPalette(t), &cfg).Process(m)
	if res.Exact[0] != -1 {
		t.Errorf("expected no exact tracking, got %d", res.Exact[0])
	}
	if want := (pixel.RGB{R: 255}).Linear(); res.Pix[0] == want {
		t.Error("expected palette red to be enhanced without preservation")
	}
}

func TestPreprocessResize(t *testing.T) {
	cfg := PreprocessConfig{Width: 5, Height: 3, Saturation: 1, Contrast: 1, PreserveExact: true}
	pre := NewPreprocessor(sixPalette(t), &cfg)

	res := pre.Process(solidImage(10, 6, color.RGBA{200, 60, 60, 255}))
	if res.Width != 5 || res.Height != 3 {
		t.Fatalf("expected 5×3, got %d×%d", res.Width, res.Height)
	}
	if len(res.Pix) != 15 {
		t.Fatalf("expected 15 pixels, got %d", len(res.Pix))
	}
	for i, c := range res.Pix {
		got := c.RGB()
		if math.Abs(float64(got.R)-200) > 2 || math.Abs(float64(got.G)-60) > 2 || math.Abs(float64(got.B)-60) > 2 {
			t.Fatalf("pixel %d: expected to stay near (200,60,60), got %v", i, got)
		}
	}
}

func TestPreprocessResizeNeedsBothDimensions(t *testing.T) {
	cfg := PreprocessConfig{Width: 5, Saturation: 1, Contrast: 1}
	pre := NewPreprocessor(sixPalette(t), &cfg)

	res := pre.Process(solidImage(10, 6, color.RGBA{0, 0, 0, 255}))
	if res.Width != 10 || res.Height != 6 {
		t.Errorf("expected the original 10×6, got %d×%d", res.Width, res.Height)
	}
}

// Extreme enhancement pushes pixels far out of gamut; the dither stage has
// to absorb that without producing out-of-range indices.
func TestPreprocessExtremeSettingsStable(t *testing.T) {
	cfg := PreprocessConfig{Saturation: 3, Contrast: 2, PreserveExact: true}
	pre := NewPreprocessor(sevenPalette(t), &cfg)

	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 32), uint8(y * 32), uint8((x + y) * 16), 255})
		}
	}
	res := pre.Process(m)

	for _, a := range []Algorithm{Atkinson, FloydSteinberg, BlueNoise, Simplex} {
		acfg := a.DefaultConfig()
		out := New(sevenPalette(t), &acfg).DitherPixels(res.Pix, res.Width, res.Height)
		for i, idx := range out.Pix {
			if int(idx) >= 7 {
				t.Errorf("%v: pixel %d has index %d beyond palette", a, i, idx)
			}
		}
	}
}
