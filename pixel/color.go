package pixel

import (
	"image/color"
	"math"
)

// RGBModel converts any [color.Color] to an 8-bit sRGB [RGB].
var RGBModel color.Model = color.ModelFunc(rgbModel)

// RGB is an 8-bit sRGB color, the interchange format for palette entries
// and image I/O.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Linear decodes the sRGB transfer curve into linear light.
func (c RGB) Linear() Linear {
	return Linear{
		R: srgbToLinear(float64(c.R) / 255),
		G: srgbToLinear(float64(c.G) / 255),
		B: srgbToLinear(float64(c.B) / 255),
	}
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// Linear is a color in linear-light RGB. Channels are not clamped; error
// diffusion intermediates run outside the [0, 1] range.
type Linear struct {
	R, G, B float64
}

// RGB encodes to 8-bit sRGB. Channels are clamped to [0, 1] before
// encoding and rounded to the nearest byte.
func (c Linear) RGB() RGB {
	return RGB{
		R: uint8(math.Round(linearToSRGB(c.R) * 255)),
		G: uint8(math.Round(linearToSRGB(c.G) * 255)),
		B: uint8(math.Round(linearToSRGB(c.B) * 255)),
	}
}

// Oklab converts to the Oklab perceptual space.
func (c Linear) Oklab() Oklab {
	l := 0.4122214708*c.R + 0.5363325363*c.G + 0.0514459929*c.B
	m := 0.2119034982*c.R + 0.6806995451*c.G + 0.1073969566*c.B
	s := 0.0883024619*c.R + 0.2817188376*c.G + 0.6299787005*c.B

	l = math.Cbrt(l)
	m = math.Cbrt(m)
	s = math.Cbrt(s)

	return Oklab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

// Oklab is a color in the Oklab perceptual space. L runs from 0 (black) to
// 1 (white) for in-gamut colors; A and B are the green-red and blue-yellow
// axes. Components are not clamped.
type Oklab struct {
	L, A, B float64
}

// Linear converts back to linear RGB. The result is not clamped;
// out-of-gamut Oklab points yield channels outside [0, 1].
func (c Oklab) Linear() Linear {
	l := c.L + 0.3963377774*c.A + 0.2158037573*c.B
	m := c.L - 0.1055613458*c.A - 0.0638541728*c.B
	s := c.L - 0.0894841775*c.A - 1.2914855480*c.B

	l = l * l * l
	m = m * m * m
	s = s * s * s

	return Linear{
		R: 4.0767416621*l - 3.3077115913*m + 0.2309699292*s,
		G: -1.2684380046*l + 2.6097574011*m - 0.3413193965*s,
		B: -0.0041960863*l - 0.7034186147*m + 1.7076147010*s,
	}
}

// Chroma is the distance from the neutral axis, sqrt(A² + B²).
func (c Oklab) Chroma() float64 {
	return math.Hypot(c.A, c.B)
}

// DistanceSquared is the squared Euclidean distance to o.
func (c Oklab) DistanceSquared(o Oklab) float64 {
	dl := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return dl*dl + da*da + db*db
}

// Oklch converts to polar form. Achromatic colors get hue 0, which is
// harmless since their chroma is 0.
func (c Oklab) Oklch() Oklch {
	return Oklch{
		L: c.L,
		C: math.Hypot(c.A, c.B),
		H: math.Atan2(c.B, c.A),
	}
}

// Oklch is the polar form of [Oklab]: lightness, chroma and hue (radians).
// Scaling chroma adjusts saturation without shifting hue or lightness.
type Oklch struct {
	L, C, H float64
}

// Oklab converts back to Cartesian form.
func (c Oklch) Oklab() Oklab {
	return Oklab{
		L: c.L,
		A: c.C * math.Cos(c.H),
		B: c.C * math.Sin(c.H),
	}
}

// ScaleChroma multiplies chroma by f, floored at zero.
func (c Oklch) ScaleChroma(f float64) Oklch {
	return Oklch{
		L: c.L,
		C: math.Max(c.C*f, 0),
		H: c.H,
	}
}
