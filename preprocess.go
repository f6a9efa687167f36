package dither

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// PreprocessConfig controls the enhancement pass that runs before
// dithering.
type PreprocessConfig struct {
	// Width and Height resample the image when both are positive.
	// Resampling runs before everything else so enhancement and match
	// detection see the final pixels.
	Width, Height int

	// Saturation multiplies perceptual chroma. 1 is neutral; panels with
	// muted colors benefit from 1.3 to 1.8. Zero is treated as 1.
	Saturation float64

	// Contrast scales linear channels around the 0.5 midpoint. 1 is
	// neutral; zero is treated as 1. Results are not clamped, the dither
	// stage's error clamp absorbs excursions.
	Contrast float64

	// PreserveExact exempts pixels that already encode to a palette
	// color from enhancement, keeping text and UI fills crisp.
	PreserveExact bool
}

// Preprocessing presets. Photo boosts muted panel gamuts; the default
// passes pixels through untouched apart from exact-match detection.
var (
	DefaultPreprocessConfig = PreprocessConfig{Saturation: 1, Contrast: 1, PreserveExact: true}
	PhotoPreprocessConfig   = PreprocessConfig{Saturation: 1.5, Contrast: 1.1, PreserveExact: true}
)

// Preprocessor converts images to the linear working format, optionally
// resampling and enhancing them for a palette. Resampling can destroy
// exact palette matches; that is expected for photographic input.
type Preprocessor struct {
	palette *palette.Palette
	config  PreprocessConfig
}

// NewPreprocessor returns a Preprocessor for the palette. A nil config
// selects DefaultPreprocessConfig.
func NewPreprocessor(p *palette.Palette, config *PreprocessConfig) *Preprocessor {
	cfg := DefaultPreprocessConfig
	if config != nil {
		cfg = *config
	}
	if cfg.Saturation == 0 {
		cfg.Saturation = 1
	}
	if cfg.Contrast == 0 {
		cfg.Contrast = 1
	}
	return &Preprocessor{
		palette: p,
		config:  cfg,
	}
}

// Config returns the resolved configuration.
func (p *Preprocessor) Config() PreprocessConfig { return p.config }

// PreprocessResult is a frame in the linear working format, with the
// exact-match map alongside.
type PreprocessResult struct {
	// Pix are the processed pixels, row-major.
	Pix []pixel.Linear

	// Width and Height are the frame dimensions after any resampling.
	Width, Height int

	// Exact holds the matched palette entry per pixel, or -1. Matched
	// pixels were exempted from enhancement.
	Exact []int
}

// Process runs the pipeline on m: resample, detect exact palette matches,
// then enhance the remaining pixels.
func (p *Preprocessor) Process(m image.Image) *PreprocessResult {
	if p.config.Width > 0 && p.config.Height > 0 {
		m = resample(m, p.config.Width, p.config.Height)
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	res := &PreprocessResult{
		Pix:    make([]pixel.Linear, 0, w*h),
		Width:  w,
		Height: h,
		Exact:  make([]int, 0, w*h),
	}

	enhance := p.config.Saturation != 1 || p.config.Contrast != 1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := pixel.RGBModel.Convert(m.At(x, y)).(pixel.RGB)

			exact := -1
			if p.config.PreserveExact {
				if idx, ok := p.palette.ExactIndex(c); ok {
					exact = idx
				}
			}

			lin := c.Linear()
			if enhance && exact < 0 {
				if p.config.Saturation != 1 {
					lin = scaleSaturation(lin, p.config.Saturation)
				}
				if p.config.Contrast != 1 {
					lin = scaleContrast(lin, p.config.Contrast)
				}
			}

			res.Pix = append(res.Pix, lin)
			res.Exact = append(res.Exact, exact)
		}
	}
	return res
}

// scaleSaturation adjusts chroma in Oklch, which cannot shift hue or
// lightness.
func scaleSaturation(c pixel.Linear, f float64) pixel.Linear {
	return c.Oklab().Oklch().ScaleChroma(f).Oklab().Linear()
}

// scaleContrast spreads linear channels around the midpoint.
func scaleContrast(c pixel.Linear, f float64) pixel.Linear {
	const mid = 0.5
	return pixel.Linear{
		R: mid + (c.R-mid)*f,
		G: mid + (c.G-mid)*f,
		B: mid + (c.B-mid)*f,
	}
}

func resample(m image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Over, nil)
	return dst
}
