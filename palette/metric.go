package palette

import (
	"math"

	"github.com/BeatGlow/dither/pixel"
)

// Metric measures the perceptual distance between a pixel and a palette
// candidate in Oklab space. The two chroma arguments carry the precomputed
// Oklab chromas of both points so implementations need not re-derive them.
//
// Smaller is closer. Values need not be comparable across metrics.
type Metric interface {
	Distance(c, candidate pixel.Oklab, chroma, candidateChroma float64) float64
}

// Euclidean is the squared Euclidean distance in Oklab. The square root is
// omitted since it does not change the ordering. Suits greyscale palettes,
// where the neutral axis carries all information.
type Euclidean struct{}

func (Euclidean) Distance(c, candidate pixel.Oklab, _, _ float64) float64 {
	return c.DistanceSquared(candidate)
}

// Hybrid weighs lightness, the chromatic plane and the chroma magnitude
// separately:
//
//	KL·|ΔL| + KC·(|ΔA| + |ΔB|) + KChroma·|Δchroma|
//
// A large KChroma keeps near-neutral pixels from mapping to saturated
// palette entries of similar lightness, which reads as color speckle in
// grey regions.
type Hybrid struct {
	KL, KC, KChroma float64
}

// DefaultHybrid is the tuning chromatic palettes select automatically.
var DefaultHybrid = Hybrid{KL: 2, KC: 1, KChroma: 10}

func (m Hybrid) Distance(c, candidate pixel.Oklab, chroma, candidateChroma float64) float64 {
	dl := math.Abs(c.L - candidate.L)
	da := math.Abs(c.A - candidate.A)
	db := math.Abs(c.B - candidate.B)
	dc := math.Abs(chroma - candidateChroma)
	return m.KL*dl + m.KC*(da+db) + m.KChroma*dc
}
