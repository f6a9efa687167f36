package dither

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Algorithm selects the dithering mode. The first nine are error diffusion
// kernels sharing one scan loop; BlueNoise and Simplex are ordered modes
// that decide every pixel independently.
type Algorithm int

const (
	// Atkinson diffuses 6/8 of the error and drops the rest, which keeps
	// small palettes from bleeding. Developed by Bill Atkinson for the
	// original Macintosh.
	Atkinson Algorithm = iota

	// FloydSteinberg is the classic 4-neighbor kernel.
	FloydSteinberg

	// JarvisJudiceNinke spreads error over 12 neighbors in 3 rows, giving
	// smooth gradients at the cost of sharpness.
	JarvisJudiceNinke

	// Sierra spreads error over 10 neighbors in 3 rows.
	Sierra

	// SierraTwoRow is the faster 2-row Sierra variant.
	SierraTwoRow

	// SierraLite is the minimal 3-neighbor Sierra variant.
	SierraLite

	// Stucki resembles JarvisJudiceNinke with heavier center weights,
	// which reads slightly sharper.
	Stucki

	// Burkes is the 2-row reduction of Stucki.
	Burkes

	// AtkinsonHybrid uses the Atkinson taps but propagates the luminance
	// part of the error in full while chroma diffuses at the Atkinson
	// rate.
	AtkinsonHybrid

	// BlueNoise is ordered dithering against a 64×64 blue-noise tile,
	// blending the two nearest palette colors per pixel.
	BlueNoise

	// Simplex is ordered dithering over barycentric mixtures of up to
	// four palette colors.
	Simplex
)

var algorithmNames = [...]string{
	"Atkinson",
	"FloydSteinberg",
	"JarvisJudiceNinke",
	"Sierra",
	"SierraTwoRow",
	"SierraLite",
	"Stucki",
	"Burkes",
	"AtkinsonHybrid",
	"BlueNoise",
	"Simplex",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return "Algorithm(" + strconv.Itoa(int(a)) + ")"
	}
	return algorithmNames[a]
}

// ErrUnknownAlgorithm is returned by ParseAlgorithm.
var ErrUnknownAlgorithm = errors.New("dither: unknown algorithm")

// ParseAlgorithm matches a name against the Algorithm values,
// case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// ordered reports whether the algorithm decides pixels independently
// instead of diffusing error.
func (a Algorithm) ordered() bool {
	return a == BlueNoise || a == Simplex
}

// Tap is one deposit of a diffusion kernel: the pixel at (DX, DY) relative
// to the current one receives Weight/Divisor of the error. DY is never
// negative; DX is mirrored on right-to-left rows.
type Tap struct {
	DX, DY, Weight int
}

// Kernel is a diffusion kernel as a data table. The propagated fraction is
// the weight sum over Divisor: 6/8 for the Atkinson taps, 1 for all
// others. MaxDY determines the error buffer depth.
type Kernel struct {
	Taps    []Tap
	Divisor int
	MaxDY   int
}

func (k Kernel) weightSum() int {
	var sum int
	for _, tap := range k.Taps {
		sum += tap.Weight
	}
	return sum
}

var (
	//        X  1  1
	//     1  1  1
	//        1
	kernelAtkinson = Kernel{
		Taps:    []Tap{{1, 0, 1}, {2, 0, 1}, {-1, 1, 1}, {0, 1, 1}, {1, 1, 1}, {0, 2, 1}},
		Divisor: 8,
		MaxDY:   2,
	}

	//        X  7
	//     3  5  1
	kernelFloydSteinberg = Kernel{
		Taps:    []Tap{{1, 0, 7}, {-1, 1, 3}, {0, 1, 5}, {1, 1, 1}},
		Divisor: 16,
		MaxDY:   1,
	}

	//           X  7  5
	//     3  5  7  5  3
	//     1  3  5  3  1
	kernelJarvisJudiceNinke = Kernel{
		Taps: []Tap{
			{1, 0, 7}, {2, 0, 5},
			{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
			{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
		},
		Divisor: 48,
		MaxDY:   2,
	}

	//           X  5  3
	//     2  4  5  4  2
	//        2  3  2
	kernelSierra = Kernel{
		Taps: []Tap{
			{1, 0, 5}, {2, 0, 3},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 5}, {1, 1, 4}, {2, 1, 2},
			{-1, 2, 2}, {0, 2, 3}, {1, 2, 2},
		},
		Divisor: 32,
		MaxDY:   2,
	}

	//           X  4  3
	//     1  2  3  2  1
	kernelSierraTwoRow = Kernel{
		Taps: []Tap{
			{1, 0, 4}, {2, 0, 3},
			{-2, 1, 1}, {-1, 1, 2}, {0, 1, 3}, {1, 1, 2}, {2, 1, 1},
		},
		Divisor: 16,
		MaxDY:   1,
	}

	//     X  2
	//  1  1
	kernelSierraLite = Kernel{
		Taps:    []Tap{{1, 0, 2}, {-1, 1, 1}, {0, 1, 1}},
		Divisor: 4,
		MaxDY:   1,
	}

	//           X  8  4
	//     2  4  8  4  2
	//     1  2  4  2  1
	kernelStucki = Kernel{
		Taps: []Tap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		},
		Divisor: 42,
		MaxDY:   2,
	}

	//           X  8  4
	//     2  4  8  4  2
	kernelBurkes = Kernel{
		Taps: []Tap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		},
		Divisor: 32,
		MaxDY:   1,
	}
)

// Kernel returns the diffusion table for kernel-based algorithms. It
// panics for the ordered modes and unknown values.
func (a Algorithm) Kernel() Kernel {
	switch a {
	case Atkinson, AtkinsonHybrid:
		return kernelAtkinson
	case FloydSteinberg:
		return kernelFloydSteinberg
	case JarvisJudiceNinke:
		return kernelJarvisJudiceNinke
	case Sierra:
		return kernelSierra
	case SierraTwoRow:
		return kernelSierraTwoRow
	case SierraLite:
		return kernelSierraLite
	case Stucki:
		return kernelStucki
	case Burkes:
		return kernelBurkes
	}
	panic("dither: no diffusion kernel for " + a.String())
}

// tuning returns the chromatic-palette error clamp and the noise scale an
// algorithm was calibrated with.
func (a Algorithm) tuning() (errorClamp, noiseScale float64) {
	switch a {
	case Atkinson, AtkinsonHybrid:
		return 0.08, 0
	case FloydSteinberg:
		return 0.12, 4
	case JarvisJudiceNinke:
		return 0.03, 6
	case Sierra:
		return 0.10, 5.5
	case SierraTwoRow:
		return 0.10, 7
	case SierraLite:
		return 0.11, 2.5
	case Stucki:
		return 0.03, 6
	case Burkes:
		return 0.10, 7
	}
	return 0, 0
}
