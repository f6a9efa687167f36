package dither

import (
	"image"
	"image/color"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// Image is a dithered image holding one palette index per pixel. It
// implements [image.PalettedImage] over the official palette colors;
// AtActual and Actual expose the display-accurate rendering.
type Image struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the palette indices, one byte per pixel.
	Pix []uint8

	// Stride is the Pix stride between vertically adjacent pixels.
	Stride int

	// Palette maps the indices to colors.
	Palette *palette.Palette
}

// NewImage returns an image of the given bounds with every pixel at
// palette entry 0.
func NewImage(r image.Rectangle, p *palette.Palette) *Image {
	w, h := r.Dx(), r.Dy()
	return &Image{
		Rect:    r,
		Pix:     make([]uint8, w*h),
		Stride:  w,
		Palette: p,
	}
}

func (m *Image) ColorModel() color.Model {
	return m.Palette.Colors()
}

func (m *Image) Bounds() image.Rectangle {
	return m.Rect
}

func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return color.Transparent
	}
	return m.Palette.Official(int(m.Pix[m.PixOffset(x, y)]))
}

// AtActual returns the color the panel will show at (x, y).
func (m *Image) AtActual(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return color.Transparent
	}
	return m.Palette.Actual(int(m.Pix[m.PixOffset(x, y)]))
}

func (m *Image) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0
	}
	return m.Pix[m.PixOffset(x, y)]
}

// SetColorIndex sets the palette index at (x, y). Out-of-bounds
// coordinates and out-of-palette indices are ignored.
func (m *Image) SetColorIndex(x, y int, index uint8) {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return
	}
	if int(index) >= m.Palette.Len() {
		return
	}
	m.Pix[m.PixOffset(x, y)] = index
}

// PixOffset returns the index into Pix for the pixel at (x, y).
func (m *Image) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x - m.Rect.Min.X)
}

// Opaque reports whether the image is fully opaque, which it always is.
func (m *Image) Opaque() bool {
	return true
}

// RGBOfficial renders the image through the official palette colors as a
// flat buffer of 3 bytes per pixel.
func (m *Image) RGBOfficial() []uint8 {
	return m.render(m.Palette.Official)
}

// RGBActual renders the image through the display colors as a flat buffer
// of 3 bytes per pixel.
func (m *Image) RGBActual() []uint8 {
	return m.render(m.Palette.Actual)
}

func (m *Image) render(entry func(int) pixel.RGB) []uint8 {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	out := make([]uint8, 0, 3*w*h)
	for y := 0; y < h; y++ {
		for _, index := range m.Pix[y*m.Stride : y*m.Stride+w] {
			c := entry(int(index))
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}

// Actual returns a view of the image rendered through the display colors,
// for previewing what the panel will show.
func (m *Image) Actual() image.Image {
	return &actualImage{m}
}

type actualImage struct {
	*Image
}

func (m *actualImage) ColorModel() color.Model {
	return m.Palette.ActualColors()
}

func (m *actualImage) At(x, y int) color.Color {
	return m.AtActual(x, y)
}
