package dither

import (
	"image"
	"math"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// Config holds the dithering parameters. Start from the algorithm's
// [Algorithm.DefaultConfig] and adjust; a zero Config is a bare
// nearest-color pass.
type Config struct {
	// Algorithm selects the dithering mode.
	Algorithm Algorithm

	// Serpentine alternates the scan direction every row, which breaks
	// up the diagonal texture of one-directional error diffusion. The
	// ordered modes ignore it.
	Serpentine bool

	// PreserveExact passes pixels that already encode to a palette color
	// through untouched: they emit their entry directly and diffuse no
	// error.
	PreserveExact bool

	// ErrorClamp bounds the error-perturbed pixel to
	// [-ErrorClamp, 1+ErrorClamp] per linear channel, so sparse palettes
	// cannot pile up runaway error. Zero selects the algorithm's
	// calibrated value, widened to 0.6 for greyscale palettes.
	ErrorClamp float64

	// NoiseScale shifts diffusion weight between the kernel's right and
	// below taps per pixel, driven by the blue-noise tile. The total
	// propagated error is unchanged. Zero disables the jitter.
	NoiseScale float64

	// Strength scales the diffused error. 1 is full error diffusion; 0
	// reduces the pass to per-pixel nearest-color matching.
	Strength float64

	// ChromaClamp damps the chromatic component of error diffused from
	// near-neutral pixels, so grey regions cannot pick up a color cast.
	// Pixels whose own chroma is below the value propagate mostly
	// luminance error. Zero or +Inf disables damping.
	ChromaClamp float64
}

// DefaultConfig returns the calibrated configuration for the algorithm.
// ErrorClamp is left at zero so construction can widen it for greyscale
// palettes.
func (a Algorithm) DefaultConfig() Config {
	var noise float64
	if !a.ordered() {
		_, noise = a.tuning()
	}
	return Config{
		Algorithm:     a,
		Serpentine:    true,
		PreserveExact: true,
		NoiseScale:    noise,
		Strength:      1,
		ChromaClamp:   math.Inf(1),
	}
}

// greyscaleErrorClamp replaces the per-algorithm error clamp when no
// palette entry is chromatic. Greyscale palettes tolerate a much wider
// error range without hue artifacts near saturated input.
const greyscaleErrorClamp = 0.6

// Ditherer quantizes images to a palette. It holds no per-image state;
// one Ditherer may serve concurrent renders.
type Ditherer struct {
	palette *palette.Palette
	config  Config
}

// New returns a Ditherer for the palette. A nil config selects
// Atkinson.DefaultConfig. A zero ErrorClamp resolves to the algorithm's
// calibrated value, or to the greyscale clamp when the palette has no
// chromatic entry.
func New(p *palette.Palette, config *Config) *Ditherer {
	var cfg Config
	if config == nil {
		cfg = Atkinson.DefaultConfig()
	} else {
		cfg = *config
	}
	if cfg.ErrorClamp == 0 && !cfg.Algorithm.ordered() {
		if p.IsChromatic() {
			cfg.ErrorClamp, _ = cfg.Algorithm.tuning()
		} else {
			cfg.ErrorClamp = greyscaleErrorClamp
		}
	}
	if cfg.ChromaClamp == 0 {
		cfg.ChromaClamp = math.Inf(1)
	}
	return &Ditherer{
		palette: p,
		config:  cfg,
	}
}

// Palette returns the palette the Ditherer quantizes to.
func (d *Ditherer) Palette() *palette.Palette { return d.palette }

// Config returns the resolved configuration.
func (d *Ditherer) Config() Config { return d.config }

// Dither quantizes m to the palette. The result keeps m's dimensions with
// the origin moved to (0, 0).
func (d *Ditherer) Dither(m image.Image) *Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]pixel.Linear, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := pixel.RGBModel.Convert(m.At(x, y)).(pixel.RGB)
			pix = append(pix, c.Linear())
		}
	}
	return d.DitherPixels(pix, w, h)
}

// DitherPixels quantizes a row-major linear pixel buffer, the working
// format produced by [Preprocessor.Process]. It panics if the buffer does
// not hold w×h pixels.
func (d *Ditherer) DitherPixels(pix []pixel.Linear, w, h int) *Image {
	if len(pix) != w*h {
		panic("dither: pixel buffer does not match dimensions")
	}

	out := NewImage(image.Rect(0, 0, w, h), d.palette)
	if w == 0 || h == 0 {
		return out
	}

	switch d.config.Algorithm {
	case BlueNoise:
		d.orderedPass(out, pix, w, h)
	case Simplex:
		d.simplexPass(out, pix, w, h)
	default:
		d.diffusePass(out, pix, w, h)
	}
	return out
}

// diffusePass is the shared error diffusion loop. All kernel algorithms
// run through it; they differ only in their tap tables and tuning.
func (d *Ditherer) diffusePass(out *Image, pix []pixel.Linear, w, h int) {
	cfg := d.config
	kern := cfg.Algorithm.Kernel()
	buf := newErrorBuffer(w, kern.MaxDY+1)
	exact := d.exactMatches(pix)

	// Base weights of the two jittered taps.
	var baseRight, baseBelow float64
	for _, tap := range kern.Taps {
		switch {
		case tap.DX == 1 && tap.DY == 0:
			baseRight = float64(tap.Weight)
		case tap.DX == 0 && tap.DY == 1:
			baseBelow = float64(tap.Weight)
		}
	}

	divisor := float64(kern.Divisor)
	weightSum := float64(kern.weightSum())
	hybrid := cfg.Algorithm == AtkinsonHybrid
	damp := cfg.ChromaClamp > 0 && !math.IsInf(cfg.ChromaClamp, 1)

	for y := 0; y < h; y++ {
		reverse := cfg.Serpentine && y%2 == 1

		for col := 0; col < w; col++ {
			x := col
			if reverse {
				x = w - 1 - col
			}
			i := y*w + x

			// Exact palette pixels pass through and absorb any error
			// that reached them, so solid graphics stay crisp.
			if exact != nil && exact[i] >= 0 {
				out.Pix[i] = uint8(exact[i])
				continue
			}

			acc := buf.at(x)
			perturbed := pixel.Linear{
				R: clampChannel(pix[i].R+acc[0], cfg.ErrorClamp),
				G: clampChannel(pix[i].G+acc[1], cfg.ErrorClamp),
				B: clampChannel(pix[i].B+acc[2], cfg.ErrorClamp),
			}

			idx, _ := d.palette.Nearest(perturbed.Oklab())
			out.Pix[i] = uint8(idx)

			target := d.palette.ActualLinear(idx)
			err := [3]float64{
				perturbed.R - target.R,
				perturbed.G - target.G,
				perturbed.B - target.B,
			}
			if damp {
				// Damping keys on the unperturbed pixel: inherited error
				// must not turn a grey source pixel chromatic.
				err = dampChroma(err, pix[i].Oklab().Chroma(), cfg.ChromaClamp)
			}
			if cfg.Strength != 1 {
				err[0] *= cfg.Strength
				err[1] *= cfg.Strength
				err[2] *= cfg.Strength
			}

			wRight, wBelow := baseRight, baseBelow
			if cfg.NoiseScale > 0 {
				alpha := (float64(blueNoise[y%64][x%64]) - 128) / 256
				shift := clampRange(alpha*cfg.NoiseScale, -baseBelow, baseRight)
				wRight = baseRight - shift
				wBelow = baseBelow + shift
			}

			var mean float64
			if hybrid {
				mean = (err[0] + err[1] + err[2]) / 3
			}

			for _, tap := range kern.Taps {
				dx := tap.DX
				if reverse {
					dx = -dx
				}
				tx, ty := x+dx, y+tap.DY
				if tx < 0 || tx >= w || ty >= h {
					continue
				}

				weight := float64(tap.Weight)
				switch {
				case tap.DX == 1 && tap.DY == 0:
					weight = wRight
				case tap.DX == 0 && tap.DY == 1:
					weight = wBelow
				}

				var deposit [3]float64
				if hybrid {
					// Luminance propagates in full, chroma at the
					// kernel's native rate.
					for c := 0; c < 3; c++ {
						deposit[c] = mean*weight/weightSum + (err[c]-mean)*weight/divisor
					}
				} else {
					for c := 0; c < 3; c++ {
						deposit[c] = err[c] * weight / divisor
					}
				}
				buf.add(tx, tap.DY, deposit)
			}
		}

		buf.advance()
	}
}

// exactMatches maps each pixel to the palette entry it encodes to byte
// for byte, or -1. Out-of-gamut values never match.
func (d *Ditherer) exactMatches(pix []pixel.Linear) []int {
	if !d.config.PreserveExact {
		return nil
	}
	exact := make([]int, len(pix))
	for i, c := range pix {
		exact[i] = -1
		if c.R < 0 || c.R > 1 || c.G < 0 || c.G > 1 || c.B < 0 || c.B > 1 {
			continue
		}
		if idx, ok := d.palette.ExactIndex(c.RGB()); ok {
			exact[i] = idx
		}
	}
	return exact
}

// dampChroma pulls the error of a near-neutral pixel toward its luminance
// mean. chroma is the unperturbed pixel's chroma magnitude.
func dampChroma(err [3]float64, chroma, clamp float64) [3]float64 {
	ratio := chroma * chroma / (clamp * clamp)
	if ratio > 1 {
		ratio = 1
	}
	alpha := ratio * ratio
	mean := (err[0] + err[1] + err[2]) / 3
	return [3]float64{
		mean + alpha*(err[0]-mean),
		mean + alpha*(err[1]-mean),
		mean + alpha*(err[2]-mean),
	}
}

// clampChannel bounds a linear channel with accumulated error.
func clampChannel(v, clamp float64) float64 {
	if v < -clamp {
		return -clamp
	}
	if v > 1+clamp {
		return 1 + clamp
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
