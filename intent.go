package dither

import (
	"image"
	"strconv"

	"github.com/BeatGlow/dither/palette"
)

// Intent selects a preset pipeline for a category of content.
type Intent int

const (
	// Photo boosts saturation and contrast for the panel's muted gamut,
	// then runs Atkinson error diffusion. Best for photographs and other
	// natural images.
	Photo Intent = iota

	// Graphics applies no enhancement and uses blue-noise ordered
	// dithering, which keeps flat fills, text and icon edges stable.
	Graphics
)

func (i Intent) String() string {
	switch i {
	case Photo:
		return "Photo"
	case Graphics:
		return "Graphics"
	}
	return "Intent(" + strconv.Itoa(int(i)) + ")"
}

// Render runs the full pipeline on m for the given intent: preprocessing,
// then dithering to the palette. Unrecognized intents render as Photo.
func Render(m image.Image, p *palette.Palette, intent Intent) *Image {
	var (
		pre *PreprocessConfig
		cfg Config
	)
	if intent == Graphics {
		pre = &DefaultPreprocessConfig
		cfg = BlueNoise.DefaultConfig()
	} else {
		pre = &PhotoPreprocessConfig
		cfg = Atkinson.DefaultConfig()
	}

	res := NewPreprocessor(p, pre).Process(m)
	return New(p, &cfg).DitherPixels(res.Pix, res.Width, res.Height)
}
