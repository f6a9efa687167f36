package dither

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// Frame container: a magic tag, a big-endian header with dimensions and
// palette size, the official and actual palette triplets, and the
// zstd-compressed index payload. Dithered frames compress extremely well
// and decode without re-rendering, which makes the format suitable for
// on-disk render caches and panel push protocols.
var frameMagic = [4]byte{'E', 'I', 'F', '1'}

// ErrFrameFormat is returned by DecodeFrame for data that is not a valid
// frame.
var ErrFrameFormat = errors.New("dither: invalid frame")

type frameHeader struct {
	Width   uint16
	Height  uint16
	Palette uint16
}

// EncodeFrame writes m to w in the frame container format.
func EncodeFrame(w io.Writer, m *Image) error {
	width, height := m.Rect.Dx(), m.Rect.Dy()
	if width > 0xffff || height > 0xffff {
		return fmt.Errorf("dither: frame too large: %d×%d", width, height)
	}

	if _, err := w.Write(frameMagic[:]); err != nil {
		return err
	}
	header := frameHeader{
		Width:   uint16(width),
		Height:  uint16(height),
		Palette: uint16(m.Palette.Len()),
	}
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return err
	}

	colors := make([]byte, 0, 6*m.Palette.Len())
	for i := 0; i < m.Palette.Len(); i++ {
		c := m.Palette.Official(i)
		colors = append(colors, c.R, c.G, c.B)
	}
	for i := 0; i < m.Palette.Len(); i++ {
		c := m.Palette.Actual(i)
		colors = append(colors, c.R, c.G, c.B)
	}
	if _, err := w.Write(colors); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		if _, err := enc.Write(m.Pix[y*m.Stride : y*m.Stride+width]); err != nil {
			enc.Close()
			return err
		}
	}
	return enc.Close()
}

// DecodeFrame reads a frame written by EncodeFrame. The palette is
// reconstructed and revalidated; malformed input fails with an error
// wrapping ErrFrameFormat.
func DecodeFrame(r io.Reader) (*Image, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameFormat, err)
	}
	if magic != frameMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFrameFormat, magic[:])
	}

	var header frameHeader
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameFormat, err)
	}
	if header.Palette == 0 || int(header.Palette) > palette.MaxColors {
		return nil, fmt.Errorf("%w: palette of %d colors", ErrFrameFormat, header.Palette)
	}

	official, err := readFrameColors(r, int(header.Palette))
	if err != nil {
		return nil, err
	}
	actual, err := readFrameColors(r, int(header.Palette))
	if err != nil {
		return nil, err
	}
	p, err := palette.New(official, &palette.Options{Actual: actual})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameFormat, err)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameFormat, err)
	}
	defer dec.Close()
	pix, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameFormat, err)
	}

	w, h := int(header.Width), int(header.Height)
	if len(pix) != w*h {
		return nil, fmt.Errorf("%w: %d indices for %d×%d", ErrFrameFormat, len(pix), w, h)
	}
	for _, index := range pix {
		if int(index) >= p.Len() {
			return nil, fmt.Errorf("%w: index %d beyond palette", ErrFrameFormat, index)
		}
	}

	return &Image{
		Rect:    image.Rect(0, 0, w, h),
		Pix:     pix,
		Stride:  w,
		Palette: p,
	}, nil
}

func readFrameColors(r io.Reader, n int) ([]pixel.RGB, error) {
	buf := make([]byte, 3*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameFormat, err)
	}
	colors := make([]pixel.RGB, n)
	for i := range colors {
		colors[i] = pixel.RGB{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2]}
	}
	return colors, nil
}
