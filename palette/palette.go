package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/BeatGlow/dither/pixel"
)

// DefaultChromaThreshold separates achromatic palettes from chromatic
// ones: a palette is chromatic when any display color's Oklab chroma
// exceeds it. Greys sit at exactly 0, saturated colors above 0.05.
const DefaultChromaThreshold = 0.03

// MaxColors is the largest supported palette. Dithered output stores one
// byte per pixel, so indices must fit uint8.
const MaxColors = 256

var (
	ErrEmpty          = errors.New("palette: empty palette")
	ErrTooLarge       = errors.New("palette: too many colors")
	ErrLengthMismatch = errors.New("palette: length mismatch")
	ErrDuplicateColor = errors.New("palette: duplicate color")
)

// Options configure palette construction. A nil pointer selects the
// defaults: actual colors equal to the official ones, automatic metric
// selection and DefaultChromaThreshold.
type Options struct {
	// Actual are the colors the hardware really shows per official entry.
	// Must match the official slice in length. Nil means the official
	// colors are accurate.
	Actual []pixel.RGB

	// Metric overrides automatic metric selection.
	Metric Metric

	// ChromaThreshold replaces DefaultChromaThreshold when positive.
	ChromaThreshold float64
}

// Palette is the fixed color set of a panel. Each entry has an official
// color (what callers and upstream documents use) and an actual color
// (what the hardware shows); matching and error feedback run against the
// actual colors so the output compensates for panel tint.
//
// A Palette is immutable after construction apart from SetMetric, and safe
// for concurrent readers.
type Palette struct {
	official       []pixel.RGB
	actual         []pixel.RGB
	officialLinear []pixel.Linear
	actualLinear   []pixel.Linear
	officialOklab  []pixel.Oklab
	actualOklab    []pixel.Oklab
	actualChroma   []float64
	threshold      float64
	metric         Metric
}

// New builds a palette from official sRGB colors. Construction fails on an
// empty slice, more than MaxColors entries, an actual slice of different
// length, or a duplicate color within either slice.
func New(official []pixel.RGB, opts *Options) (*Palette, error) {
	if opts == nil {
		opts = new(Options)
	}
	if len(official) == 0 {
		return nil, ErrEmpty
	}
	if len(official) > MaxColors {
		return nil, fmt.Errorf("%w: %d", ErrTooLarge, len(official))
	}

	actual := opts.Actual
	if actual == nil {
		actual = official
	}
	if len(actual) != len(official) {
		return nil, fmt.Errorf("%w: official has %d colors, actual has %d",
			ErrLengthMismatch, len(official), len(actual))
	}
	if i := firstDuplicate(official); i >= 0 {
		return nil, fmt.Errorf("%w at index %d", ErrDuplicateColor, i)
	}
	if i := firstDuplicate(actual); i >= 0 {
		return nil, fmt.Errorf("%w at index %d", ErrDuplicateColor, i)
	}

	threshold := opts.ChromaThreshold
	if threshold <= 0 {
		threshold = DefaultChromaThreshold
	}

	n := len(official)
	p := &Palette{
		official:       append([]pixel.RGB(nil), official...),
		actual:         append([]pixel.RGB(nil), actual...),
		officialLinear: make([]pixel.Linear, n),
		actualLinear:   make([]pixel.Linear, n),
		officialOklab:  make([]pixel.Oklab, n),
		actualOklab:    make([]pixel.Oklab, n),
		actualChroma:   make([]float64, n),
		threshold:      threshold,
	}
	for i := 0; i < n; i++ {
		p.officialLinear[i] = p.official[i].Linear()
		p.actualLinear[i] = p.actual[i].Linear()
		p.officialOklab[i] = p.officialLinear[i].Oklab()
		p.actualOklab[i] = p.actualLinear[i].Oklab()
		p.actualChroma[i] = p.actualOklab[i].Chroma()
	}

	p.metric = opts.Metric
	if p.metric == nil {
		p.metric = p.autoMetric()
	}
	return p, nil
}

// NewHex builds a palette from hex color strings (see [pixel.ParseRGB] for
// the accepted forms). A nil actual slice means the official colors are
// accurate.
func NewHex(official, actual []string) (*Palette, error) {
	oc, err := parseColors(official)
	if err != nil {
		return nil, err
	}

	var opts Options
	if actual != nil {
		if opts.Actual, err = parseColors(actual); err != nil {
			return nil, err
		}
	}
	return New(oc, &opts)
}

func parseColors(hex []string) ([]pixel.RGB, error) {
	colors := make([]pixel.RGB, len(hex))
	for i, s := range hex {
		c, err := pixel.ParseRGB(s)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

// firstDuplicate returns the index of the first repeated color, or -1.
func firstDuplicate(colors []pixel.RGB) int {
	seen := make(map[pixel.RGB]struct{}, len(colors))
	for i, c := range colors {
		if _, ok := seen[c]; ok {
			return i
		}
		seen[c] = struct{}{}
	}
	return -1
}

func (p *Palette) autoMetric() Metric {
	if p.IsChromatic() {
		return DefaultHybrid
	}
	return Euclidean{}
}

// Len returns the number of palette entries.
func (p *Palette) Len() int { return len(p.official) }

// Official returns entry i's official sRGB color.
func (p *Palette) Official(i int) pixel.RGB { return p.official[i] }

// Actual returns entry i's display sRGB color.
func (p *Palette) Actual(i int) pixel.RGB { return p.actual[i] }

// OfficialLinear returns entry i's official color in linear RGB.
func (p *Palette) OfficialLinear(i int) pixel.Linear { return p.officialLinear[i] }

// ActualLinear returns entry i's display color in linear RGB.
func (p *Palette) ActualLinear(i int) pixel.Linear { return p.actualLinear[i] }

// OfficialOklab returns entry i's official color in Oklab.
func (p *Palette) OfficialOklab(i int) pixel.Oklab { return p.officialOklab[i] }

// ActualOklab returns entry i's display color in Oklab.
func (p *Palette) ActualOklab(i int) pixel.Oklab { return p.actualOklab[i] }

// ActualChroma returns the Oklab chroma of entry i's display color.
func (p *Palette) ActualChroma(i int) float64 { return p.actualChroma[i] }

// ChromaThreshold returns the chroma level above which an entry counts as
// chromatic.
func (p *Palette) ChromaThreshold() float64 { return p.threshold }

// IsChromatic reports whether any display color's chroma exceeds the
// chroma threshold.
func (p *Palette) IsChromatic() bool {
	for _, c := range p.actualChroma {
		if c > p.threshold {
			return true
		}
	}
	return false
}

// Metric returns the active distance metric.
func (p *Palette) Metric() Metric { return p.metric }

// SetMetric replaces the distance metric. A nil metric restores automatic
// selection.
func (p *Palette) SetMetric(m Metric) {
	if m == nil {
		m = p.autoMetric()
	}
	p.metric = m
}

// Distance measures c against entry i under the active metric.
func (p *Palette) Distance(c pixel.Oklab, i int) float64 {
	return p.metric.Distance(c, p.actualOklab[i], c.Chroma(), p.actualChroma[i])
}

// Nearest returns the entry index closest to c and its distance. Ties
// break to the lowest index.
func (p *Palette) Nearest(c pixel.Oklab) (int, float64) {
	chroma := c.Chroma()
	best, bestDist := 0, math.MaxFloat64
	for i, cand := range p.actualOklab {
		if d := p.metric.Distance(c, cand, chroma, p.actualChroma[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// SecondNearest returns the closest entry to c skipping exclude. On a
// single-entry palette there is no second color; the result is index 0
// with distance [math.MaxFloat64].
func (p *Palette) SecondNearest(c pixel.Oklab, exclude int) (int, float64) {
	chroma := c.Chroma()
	best, bestDist := 0, math.MaxFloat64
	for i, cand := range p.actualOklab {
		if i == exclude {
			continue
		}
		if d := p.metric.Distance(c, cand, chroma, p.actualChroma[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// ExactIndex reports the entry whose official or actual color equals c
// byte for byte. Official colors are scanned first so an input that names
// an entry both ways resolves to the official occurrence.
func (p *Palette) ExactIndex(c pixel.RGB) (int, bool) {
	for i, o := range p.official {
		if o == c {
			return i, true
		}
	}
	for i, a := range p.actual {
		if a == c {
			return i, true
		}
	}
	return 0, false
}

// Colors returns the official colors as a standard [color.Palette].
func (p *Palette) Colors() color.Palette {
	cp := make(color.Palette, len(p.official))
	for i, c := range p.official {
		cp[i] = c
	}
	return cp
}

// ActualColors returns the display colors as a standard [color.Palette].
func (p *Palette) ActualColors() color.Palette {
	cp := make(color.Palette, len(p.actual))
	for i, c := range p.actual {
		cp[i] = c
	}
	return cp
}
