// Package testcard renders deterministic test patterns: grey ramps, hue
// sweeps, checkerboards and palette bars, composed into a captioned card.
// The patterns exercise every stage of the dither pipeline without
// external image assets.
package testcard

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/dither/palette"
)

// Caption typesetting parameters.
const (
	labelDPI  = 72
	labelSize = 10
)

var (
	fontOnce sync.Once
	fontData *truetype.Font
	fontErr  error
)

func labelFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontData, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return fontData, fontErr
}

// Label draws s onto dst in the bundled Go Regular face, with the text
// baseline at (x, y). Glyphs are clipped to the image bounds.
func Label(dst *image.RGBA, x, y int, s string, c color.Color) error {
	f, err := labelFont()
	if err != nil {
		return err
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(labelDPI)
	ctx.SetFont(f)
	ctx.SetFontSize(labelSize)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(c))
	_, err = ctx.DrawString(s, freetype.Pt(x, y))
	return err
}

// GreyRamp renders a horizontal black to white gradient.
func GreyRamp(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	span := w - 1
	if span < 1 {
		span = 1
	}
	for x := 0; x < w; x++ {
		v := uint8(x * 255 / span)
		fillColumn(m, x, color.RGBA{R: v, G: v, B: v, A: 0xff})
	}
	return m
}

// HueSweep renders a fully saturated hue sweep, from red around the hue
// circle back to red.
func HueSweep(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		fillColumn(m, x, hue(float64(x)/float64(w)))
	}
	return m
}

// hue converts t in [0, 1) to the fully saturated color at that point of
// the hue circle, walking the six RGB sectors.
func hue(t float64) color.RGBA {
	sector := t * 6
	i := int(sector)
	f := sector - float64(i)
	up := uint8(f*255 + 0.5)
	down := uint8((1-f)*255 + 0.5)
	switch i % 6 {
	case 0:
		return color.RGBA{R: 0xff, G: up, A: 0xff}
	case 1:
		return color.RGBA{R: down, G: 0xff, A: 0xff}
	case 2:
		return color.RGBA{G: 0xff, B: up, A: 0xff}
	case 3:
		return color.RGBA{G: down, B: 0xff, A: 0xff}
	case 4:
		return color.RGBA{R: up, B: 0xff, A: 0xff}
	default:
		return color.RGBA{R: 0xff, B: down, A: 0xff}
	}
}

// Checker renders a checkerboard of cell sized squares alternating
// between a and b, with a in the top-left cell. Cell sizes below 1 are
// treated as 1.
func Checker(w, h, cell int, a, b color.Color) *image.RGBA {
	if cell < 1 {
		cell = 1
	}
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				m.Set(x, y, a)
			} else {
				m.Set(x, y, b)
			}
		}
	}
	return m
}

// PaletteBars renders one solid vertical bar per palette entry in the
// official bytes, so every pixel is an exact palette match.
func PaletteBars(w, h int, p *palette.Palette) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	n := p.Len()
	if n == 0 {
		return m
	}
	for x := 0; x < w; x++ {
		c := p.Official(x * n / w)
		fillColumn(m, x, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	return m
}

// Card composes the standard test card for the palette: a grey ramp, a
// hue sweep, one bar per palette entry, and four checker panes of
// increasing cell size, framed and captioned. Equal inputs produce
// identical cards.
func Card(w, h int, p *palette.Palette) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))

	row := h / 4
	paste(m, GreyRamp(w, row), 0, 0)
	paste(m, HueSweep(w, row), 0, row)
	paste(m, PaletteBars(w, row, p), 0, 2*row)

	var (
		quarter = w / 4
		rest    = h - 3*row
		red     = color.RGBA{R: 0xff, A: 0xff}
		blue    = color.RGBA{B: 0xff, A: 0xff}
		yellow  = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	)
	paste(m, Checker(quarter, rest, 1, color.Black, color.White), 0, 3*row)
	paste(m, Checker(quarter, rest, 4, color.Black, color.White), quarter, 3*row)
	paste(m, Checker(quarter, rest, 4, red, blue), 2*quarter, 3*row)
	paste(m, Checker(w-3*quarter, rest, 8, yellow, color.Black), 3*quarter, 3*row)

	border(m, color.RGBA{A: 0xff})

	for i, caption := range [...]string{"ramp", "hue", "palette", "checker"} {
		_ = Label(m, 4, i*row+labelSize+4, caption, color.White)
	}
	return m
}

func fillColumn(m *image.RGBA, x int, c color.RGBA) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		m.SetRGBA(x, y, c)
	}
}

func paste(dst *image.RGBA, src *image.RGBA, x, y int) {
	draw.Draw(dst, src.Bounds().Add(image.Pt(x, y)), src, image.Point{}, draw.Src)
}

// border draws a single-pixel frame so the panel edges are visible on
// the rendered card.
func border(m *image.RGBA, c color.Color) {
	b := m.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		m.Set(x, b.Min.Y, c)
		m.Set(x, b.Max.Y-1, c)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		m.Set(b.Min.X, y, c)
		m.Set(b.Max.X-1, y, c)
	}
}
