package pixel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedColor is returned by [ParseRGB] for strings that are not a
// 3- or 6-digit hex color.
var ErrMalformedColor = errors.New("pixel: malformed color")

// ParseRGB parses a hex color in "#RRGGBB", "RRGGBB", "#RGB" or "RGB"
// form. Parsing is case-insensitive and surrounding whitespace is ignored.
// Shorthand digits expand to their doubled form, so "#F00" equals
// "#FF0000".
func ParseRGB(s string) (RGB, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "#")

	switch len(t) {
	case 3:
		v, err := strconv.ParseUint(t, 16, 16)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
		}
		return RGB{
			R: uint8(v>>8&0xf) * 0x11,
			G: uint8(v>>4&0xf) * 0x11,
			B: uint8(v&0xf) * 0x11,
		}, nil
	case 6:
		v, err := strconv.ParseUint(t, 16, 32)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
		}
		return RGB{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
		}, nil
	default:
		return RGB{}, fmt.Errorf("%w: %q has length %d", ErrMalformedColor, s, len(t))
	}
}
