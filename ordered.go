package dither

import (
	"math"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// orderedPass is the BlueNoise mode: every pixel blends its two nearest
// palette colors, thresholded against the noise tile. No state crosses
// pixels, so output is stable under partial redraws.
func (d *Ditherer) orderedPass(out *Image, pix []pixel.Linear, w, h int) {
	exact := d.exactMatches(pix)
	_, euclidean := d.palette.Metric().(palette.Euclidean)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if exact != nil && exact[i] >= 0 {
				out.Pix[i] = uint8(exact[i])
				continue
			}
			out.Pix[i] = d.orderedIndex(pix[i], x, y, euclidean)
		}
	}
}

// orderedIndex picks between the two nearest palette colors in proportion
// to their perceptual distance from the pixel.
func (d *Ditherer) orderedIndex(c pixel.Linear, x, y int, euclidean bool) uint8 {
	lab := c.Oklab()
	first, dist1 := d.palette.Nearest(lab)
	second, dist2 := d.palette.SecondNearest(lab, first)

	if euclidean {
		// The Euclidean metric reports squared distances; linearize so
		// the blend ratio tracks perceived distance.
		dist1 = math.Sqrt(dist1)
		dist2 = math.Sqrt(dist2)
	}

	total := dist1 + dist2
	if total < 1e-10 {
		return uint8(first)
	}

	// blend is the share of the second color: 0 on top of the first
	// color, 0.5 when equidistant.
	blend := dist1 / total
	threshold := float64(blueNoise[y%64][x%64]) / 255
	if threshold < 1-blend {
		return uint8(first)
	}
	return uint8(second)
}
